package images

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves canned images per resource path
type fakeFetcher struct {
	images map[string][]byte
	calls  []string
}

func (f *fakeFetcher) GetImage(ctx context.Context, resourcePath string) ([]byte, string, error) {
	f.calls = append(f.calls, resourcePath)
	data, ok := f.images[resourcePath]
	if !ok {
		return nil, "", errors.New("not found")
	}
	return data, "image/jpeg", nil
}

// solidJPEG encodes a uniformly colored image
func solidJPEG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func TestLetterboxLandscapeSource(t *testing.T) {
	// 1920x1080 scales to 600x338; 281px bars top and bottom
	src := image.NewRGBA(image.Rect(0, 0, 1920, 1080))
	white := color.RGBA{255, 255, 255, 255}
	for y := 0; y < 1080; y++ {
		for x := 0; x < 1920; x++ {
			src.Set(x, y, white)
		}
	}

	data, err := Letterbox(src)
	require.NoError(t, err)

	poster, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, PosterWidth, poster.Bounds().Dx())
	assert.Equal(t, PosterHeight, poster.Bounds().Dy())

	// Letterbox bars are black, image band is white
	assertLuma(t, poster, 300, 140, 0, 40)    // inside the top bar (0..280)
	assertLuma(t, poster, 300, 450, 215, 255) // center of the image band
	assertLuma(t, poster, 300, 760, 0, 40)    // inside the bottom bar (619..899)
}

func TestLetterboxTallSource(t *testing.T) {
	// 600x1200 source: scaled height exceeds the canvas, pasted at a
	// negative offset and clipped, never cropped to fit
	src := image.NewRGBA(image.Rect(0, 0, 600, 1200))
	for y := 0; y < 1200; y++ {
		for x := 0; x < 600; x++ {
			src.Set(x, y, color.RGBA{200, 200, 200, 255})
		}
	}

	data, err := Letterbox(src)
	require.NoError(t, err)

	poster, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, PosterWidth, poster.Bounds().Dx())
	assert.Equal(t, PosterHeight, poster.Bounds().Dy())

	// No bars at all: top and bottom rows carry image content
	assertLuma(t, poster, 300, 2, 160, 255)
	assertLuma(t, poster, 300, 897, 160, 255)
}

func assertLuma(t *testing.T, img image.Image, x, y int, min, max int) {
	t.Helper()
	r, g, b, _ := img.At(x, y).RGBA()
	luma := int((r + g + b) / 3 >> 8)
	if luma < min || luma > max {
		t.Errorf("pixel (%d,%d) luma %d outside [%d,%d]", x, y, luma, min, max)
	}
}

func TestRenderPoster(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{
		"/scene/42/screenshot": solidJPEG(t, 1920, 1080, color.RGBA{255, 0, 0, 255}),
	}}
	service := NewService(fetcher)

	poster := service.RenderPoster(context.Background(), "42")
	require.NotNil(t, poster)

	img, _, err := image.Decode(bytes.NewReader(poster))
	require.NoError(t, err)
	assert.Equal(t, PosterWidth, img.Bounds().Dx())
	assert.Equal(t, PosterHeight, img.Bounds().Dy())
	assert.Equal(t, []string{"/scene/42/screenshot"}, fetcher.calls)
}

func TestRenderPosterFetchFailure(t *testing.T) {
	service := NewService(&fakeFetcher{})
	assert.Nil(t, service.RenderPoster(context.Background(), "42"))
}

func TestRenderPosterDecodeFailure(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{
		"/scene/42/screenshot": []byte("not an image"),
	}}
	service := NewService(fetcher)
	assert.Nil(t, service.RenderPoster(context.Background(), "42"))
}

func TestResourcePaths(t *testing.T) {
	tests := []struct {
		got      string
		expected string
	}{
		{ScreenshotPath("42"), "/scene/42/screenshot"},
		{PerformerImagePath("9"), "/performer/9/image"},
		{GroupFrontPath("3"), "/group/3/front_image"},
	}

	for _, tt := range tests {
		if tt.got != tt.expected {
			t.Errorf("got %q, expected %q", tt.got, tt.expected)
		}
	}
}
