// Package media owns the on-disk layout for uploaded files and the derived
// video thumbnails.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"pet-feed-backend/internal/models"
)

var (
	photoExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}
	videoExts = map[string]bool{".mp4": true, ".mov": true, ".avi": true}

	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)
)

// Layout resolves the directories of the upload tree:
//
//	<root>/uploads/<username>/<file>                          finalized posts
//	<root>/uploads/temp_uploads/<username>/<file>             pending previews
//	<root>/uploads/profile_pictures/<username>/user_<id>_<f>  avatars
type Layout struct {
	Root string
}

// UploadDir is the directory of a user's finalized media.
func (l Layout) UploadDir(username string) string {
	return filepath.Join(l.Root, "uploads", username)
}

// TempUploadDir is the directory of a user's pending previews.
func (l Layout) TempUploadDir(username string) string {
	return filepath.Join(l.Root, "uploads", "temp_uploads", username)
}

// ProfilePictureDir is the directory of a user's avatars.
func (l Layout) ProfilePictureDir(username string) string {
	return filepath.Join(l.Root, "uploads", "profile_pictures", username)
}

// ProfilePictureName prefixes an avatar file with the owning user id so
// stale avatars can be found and replaced by prefix.
func ProfilePictureName(userID int64, filename string) string {
	return fmt.Sprintf("user_%d_%s", userID, SanitizeFilename(filename))
}

// ProfilePicturePrefix is the name prefix shared by a user's avatar files.
func ProfilePicturePrefix(userID int64) string {
	return fmt.Sprintf("user_%d_", userID)
}

// SanitizeFilename strips path separators and shell-unfriendly characters
// from an uploaded filename.
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	return unsafeChars.ReplaceAllString(filename, "_")
}

// MediaTypeForFile discriminates photo from video by extension; unknown
// extensions are rejected.
func MediaTypeForFile(filename string) (models.MediaType, bool) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case photoExts[ext]:
		return models.MediaPhoto, true
	case videoExts[ext]:
		return models.MediaVideo, true
	}
	return "", false
}

// ThumbnailDir is the thumbnails directory next to the media file.
func ThumbnailDir(mediaPath string) string {
	return filepath.Join(filepath.Dir(mediaPath), "thumbnails")
}

// ThumbnailPrefix is the stable name prefix for a media file's generated
// thumbnails, derived from the source filename.
func ThumbnailPrefix(mediaPath string) string {
	base := filepath.Base(mediaPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + "_thumb_"
}

// FindThumbnail looks for an already-generated thumbnail for the media file
// by name-prefix match.
func FindThumbnail(mediaPath string) (string, bool) {
	dir := ThumbnailDir(mediaPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	prefix := ThumbnailPrefix(mediaPath)
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			return filepath.Join(dir, entry.Name()), true
		}
	}
	return "", false
}
