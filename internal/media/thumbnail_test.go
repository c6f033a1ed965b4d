package media

import (
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"pet-feed-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	img image.Image
	err error
}

func (s stubExtractor) ExtractFrame(_ context.Context, _ string) (image.Image, error) {
	return s.img, s.err
}

func testFrame(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	return img
}

func TestPhotoThumbnailsPassThrough(t *testing.T) {
	tn := NewThumbnailer(stubExtractor{err: errors.New("must not be called")}, 480, 480)

	thumb := models.Thumbnail{PostID: 1, MediaPath: "/x.jpg", MediaType: models.MediaPhoto}
	got := tn.ForThumbnail(context.Background(), thumb)
	assert.Equal(t, thumb, got)
}

func TestVideoThumbnailGeneratedOnceAndCached(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "zoomies.mp4")
	tn := NewThumbnailer(stubExtractor{img: testFrame(1280, 720)}, 480, 480)

	thumb := models.Thumbnail{PostID: 2, MediaPath: mediaPath, MediaType: models.MediaVideo}

	first := tn.ForThumbnail(context.Background(), thumb)
	require.NotEqual(t, mediaPath, first.MediaPath)
	assert.True(t, strings.HasPrefix(filepath.Base(first.MediaPath), "zoomies_thumb_"))
	assert.Equal(t, ThumbnailDir(mediaPath), filepath.Dir(first.MediaPath))

	// A failing extractor proves the second call hits the cached file.
	tn = NewThumbnailer(stubExtractor{err: errors.New("ffmpeg exploded")}, 480, 480)
	second := tn.ForThumbnail(context.Background(), thumb)
	assert.Equal(t, first.MediaPath, second.MediaPath)
}

func TestVideoThumbnailDegradesToOriginal(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "clip.mov")
	tn := NewThumbnailer(stubExtractor{err: errors.New("no ffmpeg")}, 480, 480)

	thumb := models.Thumbnail{PostID: 3, MediaPath: mediaPath, MediaType: models.MediaVideo}
	got := tn.ForThumbnail(context.Background(), thumb)
	assert.Equal(t, thumb, got, "extraction failure serves the original media")
}

func TestFitInBox(t *testing.T) {
	scaled := fitInBox(testFrame(1280, 720), 480, 480)
	bounds := scaled.Bounds()
	assert.Equal(t, 480, bounds.Dx())
	assert.Equal(t, 270, bounds.Dy())

	small := testFrame(100, 80)
	assert.Equal(t, small, fitInBox(small, 480, 480), "images inside the box are not upscaled")

	tall := fitInBox(testFrame(200, 1000), 480, 480)
	assert.Equal(t, 480, tall.Bounds().Dy())
	assert.Equal(t, 96, tall.Bounds().Dx())
}
