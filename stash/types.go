package stash

// SceneRecord is a single scene as returned by the Stash findScenes query.
// Every field beyond the id may be missing; the translator treats all of
// them as optional.
type SceneRecord struct {
	ID           string        `json:"id"`
	Code         string        `json:"code"`
	Title        string        `json:"title"`
	Date         string        `json:"date"`
	URLs         []string      `json:"urls"`
	Rating100    *int          `json:"rating100"`
	Details      string        `json:"details"`
	Director     string        `json:"director"`
	CreatedAt    string        `json:"created_at"`
	Tags         []TagRef      `json:"tags"`
	Studio       *Studio       `json:"studio"`
	Performers   []Performer   `json:"performers"`
	Groups       []GroupEntry  `json:"groups"`
	SceneMarkers []SceneMarker `json:"scene_markers"`
	Files        []SceneFile   `json:"files"`
}

// TagRef is a tag reference by id and name
type TagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Studio is a studio with an optional parent studio
type Studio struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ImagePath    string  `json:"image_path"`
	ParentStudio *Studio `json:"parent_studio"`
}

// Performer is a performer appearing in a scene
type Performer struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ImagePath string `json:"image_path"`
}

// GroupEntry is a scene's membership in a group
type GroupEntry struct {
	Group      *Group `json:"group"`
	SceneIndex *int   `json:"scene_index"`
}

// Group is a Stash group (collection)
type Group struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	FrontImagePath string `json:"front_image_path"`
}

// SceneMarker is a timestamped marker within a scene
type SceneMarker struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Seconds    float64 `json:"seconds"`
	PrimaryTag *TagRef `json:"primary_tag"`
}

// SceneFile is one media file backing a scene
type SceneFile struct {
	Path       string   `json:"path"`
	Basename   string   `json:"basename"`
	Duration   *float64 `json:"duration"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	VideoCodec string   `json:"video_codec"`
	AudioCodec string   `json:"audio_codec"`
	FrameRate  float64  `json:"frame_rate"`
	BitRate    int64    `json:"bit_rate"`
	Size       int64    `json:"size"`
}
