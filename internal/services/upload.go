package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"pet-feed-backend/internal/media"
	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	// ErrUnsupportedMedia is returned for file extensions that are neither
	// photo nor video.
	ErrUnsupportedMedia = errors.New("unsupported media type")
	// ErrNoPendingUpload is returned when finalize names an upload id with
	// no staged file.
	ErrNoPendingUpload = errors.New("no pending upload")
)

// PendingUpload describes a staged file awaiting finalization.
type PendingUpload struct {
	ID        string           `json:"id"`
	Path      string           `json:"path"`
	MediaType models.MediaType `json:"media_type"`
}

// UploadService stages uploads in a per-user temp directory and turns them
// into posts on finalize. An upload only becomes visible to other users once
// finalized.
type UploadService struct {
	repo   repository.Repository
	layout media.Layout
	hub    *FeedHub
}

// NewUploadService creates a new upload service.
func NewUploadService(repo repository.Repository, layout media.Layout, hub *FeedHub) *UploadService {
	return &UploadService{
		repo:   repo,
		layout: layout,
		hub:    hub,
	}
}

// Stage writes an uploaded file into the user's temp directory and returns
// a pending upload handle. Any previously staged file is discarded.
func (s *UploadService) Stage(user *models.User, filename string, src io.Reader) (*PendingUpload, error) {
	mediaType, ok := media.MediaTypeForFile(filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMedia, filepath.Ext(filename))
	}

	dir := s.layout.TempUploadDir(user.Username)
	if err := os.RemoveAll(dir); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("Failed to clear temp uploads")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp upload dir: %w", err)
	}

	id := uuid.New().String()
	dest := filepath.Join(dir, id+strings.ToLower(filepath.Ext(filename)))
	if err := writeFile(dest, src); err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}

	return &PendingUpload{
		ID:        id,
		Path:      dest,
		MediaType: mediaType,
	}, nil
}

// Discard removes the user's staged upload, if any.
func (s *UploadService) Discard(user *models.User) {
	dir := s.layout.TempUploadDir(user.Username)
	if err := os.RemoveAll(dir); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("Failed to discard temp uploads")
	}
}

// Finalize moves the staged file identified by uploadID into the user's
// upload directory and creates the post for it.
func (s *UploadService) Finalize(ctx context.Context, user *models.User, uploadID, caption string, tags []string) (*models.Post, error) {
	staged, err := s.findStaged(user, uploadID)
	if err != nil {
		return nil, err
	}

	uploadDir := s.layout.UploadDir(user.Username)
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	dest := filepath.Join(uploadDir, filepath.Base(staged))
	if err := os.Rename(staged, dest); err != nil {
		return nil, fmt.Errorf("failed to move staged upload: %w", err)
	}
	s.Discard(user)

	mediaType, _ := media.MediaTypeForFile(dest)
	width, height := imageSize(dest, mediaType)

	post, err := s.repo.CreatePost(ctx, user, caption, tags, dest, mediaType, width, height)
	if err != nil {
		return nil, err
	}
	s.hub.BroadcastPostCreated(post, user.Username)
	return post, nil
}

func (s *UploadService) findStaged(user *models.User, uploadID string) (string, error) {
	dir := s.layout.TempUploadDir(user.Username)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", ErrNoPendingUpload
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), uploadID) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", ErrNoPendingUpload
}

// imageSize reads the pixel dimensions of a photo without decoding the full
// image. Videos report zero dimensions.
func imageSize(path string, mediaType models.MediaType) (int, int) {
	if mediaType != models.MediaPhoto {
		return 0, 0
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, 0
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to read image dimensions")
		return 0, 0
	}
	return cfg.Width, cfg.Height
}
