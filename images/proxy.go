package images

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
)

// Fetcher retrieves raw image resources from Stash
type Fetcher interface {
	GetImage(ctx context.Context, resourcePath string) (data []byte, contentType string, err error)
}

// Service serves Stash artwork to Plex, either relayed verbatim or reshaped
// into posters. Plex cannot reach private LAN addresses, so all artwork goes
// through this agent.
type Service struct {
	stash Fetcher
}

// NewService creates an image service backed by the given fetcher
func NewService(stash Fetcher) *Service {
	return &Service{stash: stash}
}

// cacheControl is the freshness window attached to all proxied artwork
const cacheControl = "public, max-age=86400"

// ScreenshotPath returns the Stash resource path for a scene screenshot
func ScreenshotPath(sceneID string) string {
	return fmt.Sprintf("/scene/%s/screenshot", sceneID)
}

// PerformerImagePath returns the Stash resource path for a performer image
func PerformerImagePath(performerID string) string {
	return fmt.Sprintf("/performer/%s/image", performerID)
}

// GroupFrontPath returns the Stash resource path for a group front image
func GroupFrontPath(groupID string) string {
	return fmt.Sprintf("/group/%s/front_image", groupID)
}

// Proxy relays an image resource from Stash unmodified. Failures never leak
// backend details: the response is a bare 502.
func (s *Service) Proxy(w http.ResponseWriter, r *http.Request, resourcePath string) {
	data, contentType, err := s.stash.GetImage(r.Context(), resourcePath)
	if err != nil {
		log.Printf("❌ Image proxy failed for %s: %v", resourcePath, err)
		http.Error(w, "Bad Gateway", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", cacheControl)
	w.Write(data)
}

// ServePoster renders the 2:3 poster for a scene and writes it out, or a 502
// when no poster could be produced.
func (s *Service) ServePoster(w http.ResponseWriter, r *http.Request, sceneID string) {
	poster := s.RenderPoster(r.Context(), sceneID)
	if poster == nil {
		http.Error(w, "Image processing error", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("Content-Length", strconv.Itoa(len(poster)))
	w.Write(poster)
}
