package provider

// Identifier used in every MediaContainer and in the provider descriptor
const ProviderIdentifier = "tv.plex.agents.custom.stash"

// ClientIdentifier is returned in the X-Plex-Client-Identifier header
const ClientIdentifier = "stash.plex.provider.metadata"

const ProviderVersion = "1.1.0"

// MediaProviderResponse is the descriptor served at the provider root
type MediaProviderResponse struct {
	MediaProvider MediaProvider `json:"MediaProvider"`
}

// MediaProvider describes this agent and its supported types/features
type MediaProvider struct {
	Identifier string         `json:"identifier"`
	Title      string         `json:"title"`
	Version    string         `json:"version"`
	Types      []ProviderType `json:"Types"`
	Feature    []Feature      `json:"Feature"`
}

// ProviderType declares a supported metadata type
type ProviderType struct {
	Type   int      `json:"type"`
	Scheme []Scheme `json:"Scheme"`
}

// Scheme declares a guid scheme handled by this provider
type Scheme struct {
	Scheme string `json:"scheme"`
}

// Feature declares a provider capability and its endpoint
type Feature struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

// MediaContainerResponse is the envelope for all metadata responses
type MediaContainerResponse struct {
	MediaContainer MediaContainer `json:"MediaContainer"`
}

// MediaContainer holds pagination fields and the metadata list
type MediaContainer struct {
	Offset     int        `json:"offset"`
	TotalSize  int        `json:"totalSize"`
	Identifier string     `json:"identifier"`
	Size       int        `json:"size"`
	Metadata   []Metadata `json:"Metadata"`
}

// Metadata is a single translated item in the Plex provider shape
type Metadata struct {
	Art                   string    `json:"art,omitempty"`
	Thumb                 string    `json:"thumb,omitempty"`
	GUID                  string    `json:"guid"`
	Key                   string    `json:"key"`
	RatingKey             string    `json:"ratingKey"`
	Type                  string    `json:"type"`
	Title                 string    `json:"title"`
	Summary               string    `json:"summary"`
	OriginallyAvailableAt *string   `json:"originallyAvailableAt"`
	Tagline               string    `json:"tagline,omitempty"`
	Year                  *int      `json:"year,omitempty"`
	AddedAt               *int64    `json:"addedAt,omitempty"`
	Studio                string    `json:"studio,omitempty"`
	Rating                *float64  `json:"rating,omitempty"`
	Duration              *int64    `json:"duration,omitempty"`
	Director              []Tag     `json:"Director,omitempty"`
	Genre                 []Tag     `json:"Genre,omitempty"`
	Role                  []Role    `json:"Role,omitempty"`
	Collection            []Tag     `json:"Collection,omitempty"`
	Chapter               []Chapter `json:"Chapter,omitempty"`
	Media                 []Media   `json:"Media,omitempty"`
}

// Tag is a simple tagged entry (genres, collections, directors)
type Tag struct {
	Tag string `json:"tag"`
}

// Role is a performer entry with an optional thumbnail
type Role struct {
	Tag   string `json:"tag"`
	Thumb string `json:"thumb,omitempty"`
}

// Chapter is a marker projected onto the Plex chapter shape
type Chapter struct {
	Tag             string `json:"tag"`
	Index           int    `json:"index"`
	StartTimeOffset int64  `json:"startTimeOffset"`
}

// Media carries stream info derived from the scene's primary file
type Media struct {
	Duration        *int64 `json:"duration,omitempty"`
	Width           int    `json:"width,omitempty"`
	Height          int    `json:"height,omitempty"`
	VideoCodec      string `json:"videoCodec,omitempty"`
	AudioCodec      string `json:"audioCodec,omitempty"`
	Bitrate         int64  `json:"bitrate,omitempty"`
	VideoFrameRate  string `json:"videoFrameRate,omitempty"`
	VideoResolution string `json:"videoResolution,omitempty"`
	Part            []Part `json:"Part,omitempty"`
}

// Part is the file-level entry nested under Media
type Part struct {
	File string `json:"file,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// EmptyContainer returns the well-formed zero-result envelope
func EmptyContainer() *MediaContainerResponse {
	return &MediaContainerResponse{
		MediaContainer: MediaContainer{
			Offset:     0,
			TotalSize:  0,
			Identifier: ProviderIdentifier,
			Size:       0,
			Metadata:   []Metadata{},
		},
	}
}

// Strip removes the named element from the item. Plex sends element names in
// excludeElements; unknown names are ignored.
func (m *Metadata) Strip(name string) {
	switch name {
	case "Director":
		m.Director = nil
	case "Genre":
		m.Genre = nil
	case "Role":
		m.Role = nil
	case "Collection":
		m.Collection = nil
	case "Chapter":
		m.Chapter = nil
	case "Media":
		m.Media = nil
	case "art":
		m.Art = ""
	case "thumb":
		m.Thumb = ""
	case "tagline":
		m.Tagline = ""
	case "summary":
		m.Summary = ""
	case "studio":
		m.Studio = ""
	case "rating":
		m.Rating = nil
	case "year":
		m.Year = nil
	case "addedAt":
		m.AddedAt = nil
	case "duration":
		m.Duration = nil
	case "originallyAvailableAt":
		m.OriginallyAvailableAt = nil
	}
}
