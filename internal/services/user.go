package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pet-feed-backend/internal/media"
	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

const maxBioLength = 500

// ErrBioTooLong is returned when a profile bio exceeds the length limit.
var ErrBioTooLong = errors.New("bio too long")

// UserService handles profiles, follow relations and kind conversion.
type UserService struct {
	repo   repository.Repository
	layout media.Layout
}

// NewUserService creates a new user service.
func NewUserService(repo repository.Repository, layout media.Layout) *UserService {
	return &UserService{
		repo:   repo,
		layout: layout,
	}
}

// GetProfile returns the user for a username regardless of kind.
func (s *UserService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	return s.repo.GetUserByName(ctx, username)
}

// UpdateBio replaces the user's bio after validating its length.
func (s *UserService) UpdateBio(ctx context.Context, user *models.User, bio string) error {
	bio = strings.TrimSpace(bio)
	if len(bio) > maxBioLength {
		return ErrBioTooLong
	}
	user.Bio = bio
	return s.repo.UpdateUser(ctx, user)
}

// SaveProfilePicture stores a new avatar for the user and removes any
// previous ones. Avatar files are named with a per-user prefix so the stale
// ones can be found without a database round trip.
func (s *UserService) SaveProfilePicture(ctx context.Context, user *models.User, filename string, src io.Reader) (string, error) {
	mediaType, ok := media.MediaTypeForFile(filename)
	if !ok || mediaType != models.MediaPhoto {
		return "", fmt.Errorf("unsupported profile picture type: %s", filepath.Ext(filename))
	}

	dir := s.layout.ProfilePictureDir(user.Username)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create profile picture dir: %w", err)
	}

	s.removeStaleAvatars(dir, user.ID)

	name := media.ProfilePictureName(user.ID, media.SanitizeFilename(filename))
	dest := filepath.Join(dir, name)
	if err := writeFile(dest, src); err != nil {
		return "", fmt.Errorf("failed to save profile picture: %w", err)
	}

	user.ProfilePicturePath = dest
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return "", err
	}
	return dest, nil
}

func (s *UserService) removeStaleAvatars(dir string, userID int64) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	prefix := media.ProfilePicturePrefix(userID)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to remove stale avatar")
		}
	}
}

// Follow records that follower follows the user with followeeID.
// Following yourself or an already-followed user is a no-op.
func (s *UserService) Follow(ctx context.Context, follower *models.User, followeeID int64) error {
	if follower.ID == followeeID {
		return nil
	}
	followee, err := s.repo.GetUserByID(ctx, followeeID)
	if err != nil {
		return err
	}
	return s.repo.FollowUser(ctx, follower, followee)
}

// Unfollow removes the follow edge if it exists.
func (s *UserService) Unfollow(ctx context.Context, follower *models.User, followeeID int64) error {
	followee, err := s.repo.GetUserByID(ctx, followeeID)
	if err != nil {
		return err
	}
	return s.repo.UnfollowUser(ctx, follower, followee)
}

// IsFollowing reports whether follower currently follows followee.
func (s *UserService) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	return s.repo.IsFollowing(ctx, followerID, followeeID)
}

// Followers lists the users following a given user.
func (s *UserService) Followers(ctx context.Context, userID int64) ([]*models.User, error) {
	ids, err := s.repo.GetFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	followers := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		follower, err := s.repo.GetUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		followers = append(followers, follower)
	}
	return followers, nil
}

// Convert changes a user's kind while keeping its id, credentials and
// follow relations.
func (s *UserService) Convert(ctx context.Context, userID int64, to models.UserKind, animal models.AnimalType) (*models.User, error) {
	return s.repo.ConvertUser(ctx, userID, to, animal)
}

func writeFile(dest string, src io.Reader) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, src); err != nil {
		return err
	}
	return f.Close()
}
