package images

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png" // screenshots are not always jpeg
	"log"
	"math"

	xdraw "golang.org/x/image/draw"
)

const (
	// PosterWidth and PosterHeight give the fixed 2:3 poster canvas
	PosterWidth  = 600
	PosterHeight = 900

	posterQuality = 85
)

// RenderPoster fetches the scene screenshot and reshapes it into a 600x900
// letterboxed poster. Returns nil when no poster could be produced; any
// fetch, decode or encode failure is absorbed here.
func (s *Service) RenderPoster(ctx context.Context, sceneID string) []byte {
	data, _, err := s.stash.GetImage(ctx, ScreenshotPath(sceneID))
	if err != nil {
		log.Printf("❌ Poster fetch failed for scene %s: %v", sceneID, err)
		return nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Printf("❌ Poster decode failed for scene %s: %v", sceneID, err)
		return nil
	}

	poster, err := Letterbox(src)
	if err != nil {
		log.Printf("❌ Poster generation failed for scene %s: %v", sceneID, err)
		return nil
	}
	return poster
}

// Letterbox scales the source to the poster width and composes it centered
// on an opaque black 2:3 canvas. A source taller than the canvas after
// scaling is pasted at a negative offset rather than cropped.
func Letterbox(src image.Image) ([]byte, error) {
	bounds := src.Bounds()
	scale := float64(PosterWidth) / float64(bounds.Dx())
	scaledHeight := int(math.Round(float64(bounds.Dy()) * scale))

	scaled := image.NewRGBA(image.Rect(0, 0, PosterWidth, scaledHeight))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, xdraw.Src, nil)

	poster := image.NewRGBA(image.Rect(0, 0, PosterWidth, PosterHeight))
	draw.Draw(poster, poster.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	yOffset := (PosterHeight - scaledHeight) / 2
	target := image.Rect(0, yOffset, PosterWidth, yOffset+scaledHeight)
	draw.Draw(poster, target, scaled, image.Point{}, draw.Src)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, poster, &jpeg.Options{Quality: posterQuality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
