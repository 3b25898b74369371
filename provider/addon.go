package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// MatchRequest is the body Plex posts to /library/metadata/matches
type MatchRequest struct {
	Filename        string `json:"filename"`
	ExcludeElements string `json:"excludeElements"`
}

// ExcludedElements parses the comma-separated excludeElements field
func (r MatchRequest) ExcludedElements() []string {
	var out []string
	for _, e := range strings.Split(r.ExcludeElements, ",") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// ImageRequest identifies an artwork resource routed to the image handlers
type ImageRequest struct {
	Resource string // "screenshot", "poster", "performer" or "group"
	ID       string
}

// Addon routes the Plex provider protocol to the configured handlers
type Addon struct {
	provider        MediaProviderResponse
	matchHandler    func(ctx context.Context, req MatchRequest) *MediaContainerResponse
	metadataHandler func(ctx context.Context, ratingKey string) *MediaContainerResponse
	imageHandler    func(w http.ResponseWriter, r *http.Request, req ImageRequest)
}

// NewAddon creates an addon serving the given provider descriptor
func NewAddon(provider MediaProvider) *Addon {
	return &Addon{
		provider: MediaProviderResponse{MediaProvider: provider},
	}
}

// DefaultProvider returns the descriptor served at the provider root
func DefaultProvider() MediaProvider {
	return MediaProvider{
		Identifier: ProviderIdentifier,
		Title:      "Stash Plex Metadata Provider",
		Version:    ProviderVersion,
		Types: []ProviderType{
			{
				Type:   1,
				Scheme: []Scheme{{Scheme: ProviderIdentifier}},
			},
		},
		Feature: []Feature{
			{Type: "metadata", Key: "/library/metadata"},
			{Type: "match", Key: "/library/metadata/matches"},
		},
	}
}

// SetMatchHandler sets the handler for POST /library/metadata/matches
func (a *Addon) SetMatchHandler(handler func(ctx context.Context, req MatchRequest) *MediaContainerResponse) {
	a.matchHandler = handler
}

// SetMetadataHandler sets the handler for GET /library/metadata/{ratingKey}
func (a *Addon) SetMetadataHandler(handler func(ctx context.Context, ratingKey string) *MediaContainerResponse) {
	a.metadataHandler = handler
}

// SetImageHandler sets the handler for the /stash/... artwork routes
func (a *Addon) SetImageHandler(handler func(w http.ResponseWriter, r *http.Request, req ImageRequest)) {
	a.imageHandler = handler
}

// ServeHTTP implements http.Handler
func (a *Addon) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(r.URL.Path, "/")
	parts := strings.Split(path, "/")

	// Provider descriptor
	if path == "" {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Plex-Client-Identifier", ClientIdentifier)
		json.NewEncoder(w).Encode(a.provider)
		return
	}

	// Health endpoint: /health
	if len(parts) == 1 && parts[0] == "health" {
		writeJSON(w, map[string]string{"status": "ok"})
		return
	}

	// Match endpoint: POST /library/metadata/matches
	if len(parts) == 3 && parts[0] == "library" && parts[1] == "metadata" && parts[2] == "matches" && r.Method == http.MethodPost {
		a.handleMatches(w, r)
		return
	}

	// Extras stub: /library/metadata/{ratingKey}/extras
	if len(parts) == 4 && parts[0] == "library" && parts[1] == "metadata" && parts[3] == "extras" {
		writeJSON(w, EmptyContainer())
		return
	}

	// Metadata endpoint: /library/metadata/{ratingKey}
	if len(parts) == 3 && parts[0] == "library" && parts[1] == "metadata" {
		a.handleMetadata(w, r, parts[2])
		return
	}

	// Artwork endpoints: /stash/{kind}/{id}/{resource}
	if len(parts) == 4 && parts[0] == "stash" {
		a.handleImage(w, r, parts)
		return
	}

	http.Error(w, "Not Found", http.StatusNotFound)
}

// handleMatches handles filename match requests from Plex
func (a *Addon) handleMatches(w http.ResponseWriter, r *http.Request) {
	if a.matchHandler == nil {
		http.Error(w, "Match not supported", http.StatusNotImplemented)
		return
	}

	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	response := a.matchHandler(r.Context(), req)
	if response == nil {
		response = EmptyContainer()
	}
	writeJSON(w, response)
}

// handleMetadata handles single-item lookups by rating key
func (a *Addon) handleMetadata(w http.ResponseWriter, r *http.Request, ratingKey string) {
	if a.metadataHandler == nil {
		http.Error(w, "Metadata not supported", http.StatusNotImplemented)
		return
	}

	response := a.metadataHandler(r.Context(), ratingKey)
	if response == nil {
		response = EmptyContainer()
	}
	writeJSON(w, response)
}

// handleImage dispatches the artwork routes to the image handler
func (a *Addon) handleImage(w http.ResponseWriter, r *http.Request, parts []string) {
	if a.imageHandler == nil {
		http.Error(w, "Images not supported", http.StatusNotImplemented)
		return
	}

	kind, id, resource := parts[1], parts[2], parts[3]

	var req ImageRequest
	switch {
	case kind == "scene" && resource == "screenshot":
		req = ImageRequest{Resource: "screenshot", ID: id}
	case kind == "scene" && resource == "poster":
		req = ImageRequest{Resource: "poster", ID: id}
	case kind == "performer" && resource == "image":
		req = ImageRequest{Resource: "performer", ID: id}
	case kind == "group" && resource == "front":
		req = ImageRequest{Resource: "group", ID: id}
	default:
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	a.imageHandler(w, r, req)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
