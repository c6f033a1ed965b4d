package media

import (
	"os"
	"path/filepath"
	"testing"

	"pet-feed-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutDirs(t *testing.T) {
	l := Layout{Root: "/srv/data"}

	assert.Equal(t, filepath.Join("/srv/data", "uploads", "rex"), l.UploadDir("rex"))
	assert.Equal(t, filepath.Join("/srv/data", "uploads", "temp_uploads", "rex"), l.TempUploadDir("rex"))
	assert.Equal(t, filepath.Join("/srv/data", "uploads", "profile_pictures", "rex"), l.ProfilePictureDir("rex"))
}

func TestProfilePictureNaming(t *testing.T) {
	assert.Equal(t, "user_7_me.jpg", ProfilePictureName(7, "me.jpg"))
	assert.Equal(t, "user_7_", ProfilePicturePrefix(7))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "my_photo_1_.jpg", SanitizeFilename("my photo(1).jpg"))
	assert.Equal(t, "plain.png", SanitizeFilename("plain.png"))
}

func TestMediaTypeForFile(t *testing.T) {
	mt, ok := MediaTypeForFile("walk.JPG")
	require.True(t, ok)
	assert.Equal(t, models.MediaPhoto, mt)

	mt, ok = MediaTypeForFile("clip.mp4")
	require.True(t, ok)
	assert.Equal(t, models.MediaVideo, mt)

	_, ok = MediaTypeForFile("notes.txt")
	assert.False(t, ok)
}

func TestThumbnailNaming(t *testing.T) {
	path := filepath.Join("/srv/data/uploads/rex", "zoomies.mp4")

	assert.Equal(t, filepath.Join("/srv/data/uploads/rex", "thumbnails"), ThumbnailDir(path))
	assert.Equal(t, "zoomies_thumb_", ThumbnailPrefix(path))
}

func TestFindThumbnail(t *testing.T) {
	dir := t.TempDir()
	mediaPath := filepath.Join(dir, "zoomies.mp4")

	_, ok := FindThumbnail(mediaPath)
	assert.False(t, ok, "no thumbnails directory yet")

	thumbDir := ThumbnailDir(mediaPath)
	require.NoError(t, os.MkdirAll(thumbDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(thumbDir, "other_thumb_x.jpg"), nil, 0o644))

	_, ok = FindThumbnail(mediaPath)
	assert.False(t, ok, "prefix must match the source filename")

	want := filepath.Join(thumbDir, "zoomies_thumb_abc.jpg")
	require.NoError(t, os.WriteFile(want, nil, 0o644))

	got, ok := FindThumbnail(mediaPath)
	require.True(t, ok)
	assert.Equal(t, want, got)
}
