package translator

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"stashplexagent/provider"
	"stashplexagent/stash"
)

// Translator maps Stash scene records onto the Plex provider metadata shape.
// It is a pure projection: everything in the output comes from the input
// scene, the two base URLs and the poster mode flag.
type Translator struct {
	// AgentBaseURL is this agent's externally reachable base URL. Artwork
	// links always point back here so Plex never needs LAN access to Stash.
	AgentBaseURL string
	// StashHost is the Stash base URL, used for performer thumbnails.
	StashHost string
	// PosterMode selects letterboxed 2:3 posters over raw screenshots.
	PosterMode bool
}

// createdAtLayouts cover Stash timestamps with and without a zone offset
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Container translates all scenes into a MediaContainer in backend order.
// Returns nil when there are no scenes: a miss, which the caller surfaces as
// an empty envelope.
func (t Translator) Container(scenes []stash.SceneRecord) *provider.MediaContainerResponse {
	if len(scenes) == 0 {
		return nil
	}

	items := make([]provider.Metadata, 0, len(scenes))
	for _, scene := range scenes {
		items = append(items, t.Item(scene))
	}

	return &provider.MediaContainerResponse{
		MediaContainer: provider.MediaContainer{
			Offset:     0,
			TotalSize:  len(items),
			Identifier: provider.ProviderIdentifier,
			Size:       len(items),
			Metadata:   items,
		},
	}
}

// Item translates a single scene
func (t Translator) Item(scene stash.SceneRecord) provider.Metadata {
	var item provider.Metadata

	// Artwork links point at this agent's proxy endpoints
	if t.PosterMode {
		item.Art = fmt.Sprintf("%s/stash/scene/%s/poster", t.AgentBaseURL, scene.ID)
		item.Thumb = item.Art
	} else {
		item.Art = fmt.Sprintf("%s/stash/scene/%s/screenshot", t.AgentBaseURL, scene.ID)
		item.Thumb = item.Art
	}

	item.GUID = fmt.Sprintf("plex://movie/stash-video-%s", scene.ID)
	item.Key = fmt.Sprintf("/library/metadata/stash-video-%s", scene.ID)
	item.RatingKey = fmt.Sprintf("stash-video-%s", scene.ID)
	item.Type = "movie"

	item.Title = scene.Title
	if item.Title == "" {
		item.Title = scene.Code
	}
	item.Summary = scene.Details
	if scene.Date != "" {
		date := scene.Date
		item.OriginallyAvailableAt = &date
	}

	// Production code as tagline when it adds information
	if scene.Code != "" && scene.Code != item.Title {
		item.Tagline = scene.Code
	}

	if year, ok := parseYear(scene.Date); ok {
		item.Year = &year
	}

	if addedAt, ok := parseCreatedAt(scene.CreatedAt); ok {
		item.AddedAt = &addedAt
	}

	item.Studio = studioName(scene.Studio)

	if scene.Rating100 != nil {
		rating := float64(*scene.Rating100) / 10.0
		item.Rating = &rating
	}

	if scene.Director != "" {
		item.Director = []provider.Tag{{Tag: scene.Director}}
	}

	for _, tag := range scene.Tags {
		if tag.Name != "" {
			item.Genre = append(item.Genre, provider.Tag{Tag: tag.Name})
		}
	}

	for _, performer := range scene.Performers {
		if performer.Name == "" {
			continue
		}
		role := provider.Role{Tag: performer.Name}
		if performer.ID != "" {
			role.Thumb = fmt.Sprintf("%s/performer/%s/image", t.StashHost, performer.ID)
		}
		item.Role = append(item.Role, role)
	}

	for _, entry := range scene.Groups {
		if entry.Group != nil && entry.Group.Name != "" {
			item.Collection = append(item.Collection, provider.Tag{Tag: entry.Group.Name})
		}
	}

	item.Chapter = chapters(scene.SceneMarkers)

	if len(scene.Files) > 0 {
		if media, ok := mediaInfo(scene.Files[0]); ok {
			item.Duration = media.Duration
			item.Media = []provider.Media{media}
		}
	}

	return item
}

// parseYear takes the first four characters of an ISO date. Anything that
// fails to parse is simply omitted.
func parseYear(date string) (int, bool) {
	if len(date) < 4 {
		return 0, false
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0, false
	}
	return year, true
}

// parseCreatedAt converts the Stash creation timestamp to epoch seconds
func parseCreatedAt(createdAt string) (int64, bool) {
	if createdAt == "" {
		return 0, false
	}
	for _, layout := range createdAtLayouts {
		if ts, err := time.Parse(layout, createdAt); err == nil {
			return ts.Unix(), true
		}
	}
	return 0, false
}

// studioName composes "<studio> (<parent>)" when a distinct parent exists
func studioName(studio *stash.Studio) string {
	if studio == nil {
		return ""
	}
	if parent := studio.ParentStudio; parent != nil {
		if parent.Name != "" && parent.Name != studio.Name {
			return fmt.Sprintf("%s (%s)", studio.Name, parent.Name)
		}
	}
	return studio.Name
}

// chapters projects scene markers onto Plex chapters, sorted by offset
func chapters(markers []stash.SceneMarker) []provider.Chapter {
	if len(markers) == 0 {
		return nil
	}

	sorted := make([]stash.SceneMarker, len(markers))
	copy(sorted, markers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Seconds < sorted[j].Seconds
	})

	out := make([]provider.Chapter, 0, len(sorted))
	for _, marker := range sorted {
		title := marker.Title
		if title == "" && marker.PrimaryTag != nil {
			title = marker.PrimaryTag.Name
		}
		out = append(out, provider.Chapter{
			Tag:             title,
			Index:           len(out) + 1,
			StartTimeOffset: int64(marker.Seconds * 1000),
		})
	}
	return out
}

// mediaInfo derives stream info from the scene's primary file. Files beyond
// index 0 are ignored. ok is false when the file carries nothing usable.
func mediaInfo(f stash.SceneFile) (provider.Media, bool) {
	var media provider.Media
	populated := false

	if f.Duration != nil {
		durationMS := int64(*f.Duration * 1000)
		media.Duration = &durationMS
		populated = true
	}

	if f.Width != 0 {
		media.Width = f.Width
		populated = true
	}
	if f.Height != 0 {
		media.Height = f.Height
		populated = true
	}

	if f.VideoCodec != "" {
		media.VideoCodec = f.VideoCodec
		populated = true
	}
	if f.AudioCodec != "" {
		media.AudioCodec = f.AudioCodec
		populated = true
	}
	if f.BitRate != 0 {
		media.Bitrate = f.BitRate
		populated = true
	}

	if f.FrameRate != 0 {
		media.VideoFrameRate = frameRateLabel(f.FrameRate)
		populated = true
	}

	var part provider.Part
	if f.Path != "" {
		part.File = f.Path
	}
	if f.Size != 0 {
		part.Size = f.Size
	}
	if part != (provider.Part{}) {
		media.Part = []provider.Part{part}
		populated = true
	}

	if f.Height != 0 {
		media.VideoResolution = resolutionLabel(f.Height)
		populated = true
	}

	return media, populated
}

// frameRateAnchors are checked in ascending order; the first anchor within
// ±0.5 wins.
var frameRateAnchors = []struct {
	rate  float64
	label string
}{
	{23.976, "24p"},
	{24.0, "24p"},
	{25.0, "PAL"},
	{29.97, "NTSC"},
	{30.0, "30p"},
	{50.0, "50p"},
	{59.94, "60p"},
	{60.0, "60p"},
}

// frameRateLabel buckets a frame rate into Plex's fixed label set
func frameRateLabel(rate float64) string {
	for _, anchor := range frameRateAnchors {
		if math.Abs(rate-anchor.rate) < 0.5 {
			return anchor.label
		}
	}
	return fmt.Sprintf("%dp", int(rate))
}

// resolutionLabel buckets a frame height into Plex's resolution labels
func resolutionLabel(height int) string {
	switch {
	case height >= 2160:
		return "4k"
	case height >= 1080:
		return "1080"
	case height >= 720:
		return "720"
	case height >= 480:
		return "480"
	default:
		return "sd"
	}
}
