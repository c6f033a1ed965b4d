package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"

	"pet-feed-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

// FrameExtractor pulls a single still frame out of a video file.
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, videoPath string) (image.Image, error)
}

// FFmpegExtractor extracts frames by shelling out to ffmpeg.
type FFmpegExtractor struct {
	// Binary is the ffmpeg executable; defaults to "ffmpeg" on PATH.
	Binary string
}

// ExtractFrame decodes the first frame of the video as a JPEG.
func (e FFmpegExtractor) ExtractFrame(ctx context.Context, videoPath string) (image.Image, error) {
	binary := e.Binary
	if binary == "" {
		binary = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, binary,
		"-i", videoPath,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"pipe:1",
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to extract frame from %s: %w", videoPath, err)
	}
	img, err := jpeg.Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode extracted frame: %w", err)
	}
	return img, nil
}

// Thumbnailer derives still thumbnails for video posts. Generation happens
// once per media file; later requests find the cached file by name prefix.
type Thumbnailer struct {
	extractor FrameExtractor
	maxWidth  int
	maxHeight int
}

// NewThumbnailer creates a thumbnailer bounded by the given box.
func NewThumbnailer(extractor FrameExtractor, maxWidth, maxHeight int) *Thumbnailer {
	if extractor == nil {
		extractor = FFmpegExtractor{}
	}
	return &Thumbnailer{extractor: extractor, maxWidth: maxWidth, maxHeight: maxHeight}
}

// ForThumbnail resolves the display view for a post thumbnail. Photo posts
// pass through untouched. For video posts the generated still is returned,
// producing it on first request; any failure degrades to the original view
// and is logged, never propagated.
func (t *Thumbnailer) ForThumbnail(ctx context.Context, thumb models.Thumbnail) models.Thumbnail {
	if thumb.MediaType != models.MediaVideo {
		return thumb
	}
	if existing, ok := FindThumbnail(thumb.MediaPath); ok {
		thumb.MediaPath = existing
		return thumb
	}

	generated, err := t.generate(ctx, thumb.MediaPath)
	if err != nil {
		log.Warn().
			Err(err).
			Int64("post_id", thumb.PostID).
			Str("media_path", thumb.MediaPath).
			Msg("Thumbnail generation failed, serving original media")
		return thumb
	}
	thumb.MediaPath = generated
	return thumb
}

// generate extracts a frame, scales it into the bounding box and writes it
// under the thumbnails directory.
func (t *Thumbnailer) generate(ctx context.Context, mediaPath string) (string, error) {
	frame, err := t.extractor.ExtractFrame(ctx, mediaPath)
	if err != nil {
		return "", err
	}

	scaled := fitInBox(frame, t.maxWidth, t.maxHeight)

	dir := ThumbnailDir(mediaPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail dir: %w", err)
	}
	name := ThumbnailPrefix(mediaPath) + uuid.New().String() + ".jpg"
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	defer f.Close()

	if err := jpeg.Encode(f, scaled, &jpeg.Options{Quality: 85}); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return path, nil
}

// fitInBox downscales the image to fit within (maxWidth, maxHeight)
// preserving aspect ratio; images already inside the box are not upscaled.
func fitInBox(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxWidth && height <= maxHeight {
		return img
	}

	scaleW := float64(maxWidth) / float64(width)
	scaleH := float64(maxHeight) / float64(height)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	dstW := int(float64(width) * scale)
	dstH := int(float64(height) * scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
