package stash

import (
	"fmt"
	"regexp"
	"strings"
)

// sceneQueryTemplate requests the full scene projection for a filter clause
const sceneQueryTemplate = `query {
  findScenes(scene_filter: { %s }) {
    scenes {
      id
      code
      title
      date
      urls
      rating100
      details
      director
      created_at
      tags { id name }
      studio { id name image_path parent_studio { id name } }
      performers { id name image_path }
      groups { group { id name front_image_path } scene_index }
      scene_markers { id title seconds primary_tag { name } }
      files { path basename duration width height video_codec audio_codec frame_rate bit_rate size }
    }
  }
}`

var ratingKeySuffix = regexp.MustCompile(`-(\d+)$`)

// SanitizeGraphQLString escapes characters that could break out of a GraphQL
// string literal.
func SanitizeGraphQLString(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	value = strings.ReplaceAll(value, "\n", `\n`)
	value = strings.ReplaceAll(value, "\r", `\r`)
	return value
}

// FilenameFilter builds a case-sensitive substring filter against file paths.
// The inner quoting asks Stash for an exact phrase match.
func FilenameFilter(filename string) string {
	safe := SanitizeGraphQLString(filename)
	return fmt.Sprintf(`path: {value: "\"%s\"", modifier: INCLUDES}`, safe)
}

// SceneIDFromRatingKey extracts the numeric scene id from the trailing
// -<digits> suffix of a rating key. A key without the suffix is a no-match,
// not an error.
func SceneIDFromRatingKey(ratingKey string) (string, bool) {
	m := ratingKeySuffix.FindStringSubmatch(ratingKey)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IDFilter builds an exact-id filter from a rating key. Returns "" when the
// key carries no scene id.
func IDFilter(ratingKey string) string {
	id, ok := SceneIDFromRatingKey(ratingKey)
	if !ok {
		return ""
	}
	return fmt.Sprintf("id: {value: %s, modifier: EQUALS}", id)
}

// SceneQuery embeds a filter clause into the full scene query
func SceneQuery(filterClause string) string {
	return fmt.Sprintf(sceneQueryTemplate, filterClause)
}
