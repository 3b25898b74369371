package provider

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyContainerShape(t *testing.T) {
	data, err := json.Marshal(EmptyContainer())
	require.NoError(t, err)

	assert.JSONEq(t, `{"MediaContainer": {
		"offset": 0,
		"totalSize": 0,
		"identifier": "tv.plex.agents.custom.stash",
		"size": 0,
		"Metadata": []
	}}`, string(data))
}

func TestMetadataOmitsEmptyOptionalFields(t *testing.T) {
	item := Metadata{
		GUID:      "plex://movie/stash-video-42",
		Key:       "/library/metadata/stash-video-42",
		RatingKey: "stash-video-42",
		Type:      "movie",
		Title:     "Beach Day",
	}

	data, err := json.Marshal(item)
	require.NoError(t, err)

	body := string(data)
	for _, absent := range []string{"tagline", "year", "addedAt", "studio", "rating", "duration", "Director", "Genre", "Role", "Collection", "Chapter", "Media", "art", "thumb"} {
		assert.NotContains(t, body, `"`+absent+`"`, absent)
	}
	// always serialized, null when unset
	assert.Contains(t, body, `"originallyAvailableAt":null`)
	assert.Contains(t, body, `"summary":""`)
}

func TestStrip(t *testing.T) {
	year := 2021
	rating := 8.5
	addedAt := int64(1620036000)
	duration := int64(62250)
	date := "2021-05-03"

	fullItem := func() Metadata {
		return Metadata{
			Art:                   "http://agent/stash/scene/42/screenshot",
			Thumb:                 "http://agent/stash/scene/42/poster",
			Title:                 "Beach Day",
			Summary:               "details",
			Tagline:               "BCH-001",
			Studio:                "Studio A",
			OriginallyAvailableAt: &date,
			Year:                  &year,
			Rating:                &rating,
			AddedAt:               &addedAt,
			Duration:              &duration,
			Director:              []Tag{{Tag: "Jane"}},
			Genre:                 []Tag{{Tag: "outdoor"}},
			Role:                  []Role{{Tag: "Alice"}},
			Collection:            []Tag{{Tag: "Trips"}},
			Chapter:               []Chapter{{Tag: "Intro", Index: 1}},
			Media:                 []Media{{Width: 1920}},
		}
	}

	tests := []struct {
		name  string
		check func(t *testing.T, m Metadata)
	}{
		{"Director", func(t *testing.T, m Metadata) { assert.Nil(t, m.Director) }},
		{"Genre", func(t *testing.T, m Metadata) { assert.Nil(t, m.Genre) }},
		{"Role", func(t *testing.T, m Metadata) { assert.Nil(t, m.Role) }},
		{"Collection", func(t *testing.T, m Metadata) { assert.Nil(t, m.Collection) }},
		{"Chapter", func(t *testing.T, m Metadata) { assert.Nil(t, m.Chapter) }},
		{"Media", func(t *testing.T, m Metadata) { assert.Nil(t, m.Media) }},
		{"art", func(t *testing.T, m Metadata) { assert.Empty(t, m.Art) }},
		{"thumb", func(t *testing.T, m Metadata) { assert.Empty(t, m.Thumb) }},
		{"tagline", func(t *testing.T, m Metadata) { assert.Empty(t, m.Tagline) }},
		{"summary", func(t *testing.T, m Metadata) { assert.Empty(t, m.Summary) }},
		{"studio", func(t *testing.T, m Metadata) { assert.Empty(t, m.Studio) }},
		{"rating", func(t *testing.T, m Metadata) { assert.Nil(t, m.Rating) }},
		{"year", func(t *testing.T, m Metadata) { assert.Nil(t, m.Year) }},
		{"addedAt", func(t *testing.T, m Metadata) { assert.Nil(t, m.AddedAt) }},
		{"duration", func(t *testing.T, m Metadata) { assert.Nil(t, m.Duration) }},
		{"originallyAvailableAt", func(t *testing.T, m Metadata) { assert.Nil(t, m.OriginallyAvailableAt) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := fullItem()
			item.Strip(tt.name)
			tt.check(t, item)
			assert.Equal(t, "Beach Day", item.Title)
		})
	}
}

func TestStripUnknownNameIsNoop(t *testing.T) {
	item := Metadata{Title: "Beach Day", Genre: []Tag{{Tag: "outdoor"}}}
	item.Strip("Review")
	assert.Equal(t, "Beach Day", item.Title)
	assert.Len(t, item.Genre, 1)
}
