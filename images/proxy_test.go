package images

import (
	"context"
	"errors"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	data        []byte
	contentType string
	err         error
}

func (s *stubFetcher) GetImage(ctx context.Context, resourcePath string) ([]byte, string, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return s.data, s.contentType, nil
}

func TestProxyRelaysImage(t *testing.T) {
	service := NewService(&stubFetcher{data: []byte("raw-image"), contentType: "image/webp"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stash/scene/42/screenshot", nil)
	service.Proxy(rec, req, "/scene/42/screenshot")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/webp", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "raw-image", rec.Body.String())
}

func TestProxyFailureIsBareGateway(t *testing.T) {
	service := NewService(&stubFetcher{err: errors.New("connection refused: 192.168.1.71")})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stash/scene/42/screenshot", nil)
	service.Proxy(rec, req, "/scene/42/screenshot")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Bad Gateway\n", rec.Body.String())
	// backend error details must not leak
	assert.NotContains(t, rec.Body.String(), "192.168")
}

func TestServePoster(t *testing.T) {
	fetcher := &fakeFetcher{images: map[string][]byte{
		"/scene/42/screenshot": solidJPEG(t, 1280, 720, color.RGBA{0, 0, 255, 255}),
	}}
	service := NewService(fetcher)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stash/scene/42/poster", nil)
	service.ServePoster(rec, req, "42")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
	assert.NotEmpty(t, rec.Header().Get("Content-Length"))
	assert.NotZero(t, rec.Body.Len())
}

func TestServePosterFailure(t *testing.T) {
	service := NewService(&stubFetcher{err: errors.New("down")})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stash/scene/42/poster", nil)
	service.ServePoster(rec, req, "42")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Image processing error\n", rec.Body.String())
}
