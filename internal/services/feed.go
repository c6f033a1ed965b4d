package services

import (
	"context"

	"pet-feed-backend/internal/media"
	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository"
)

// FeedService assembles the public photo feed and per-user thumbnail grids.
type FeedService struct {
	repo        repository.Repository
	thumbnailer *media.Thumbnailer
}

// NewFeedService creates a new feed service.
func NewFeedService(repo repository.Repository, thumbnailer *media.Thumbnailer) *FeedService {
	return &FeedService{
		repo:        repo,
		thumbnailer: thumbnailer,
	}
}

// PhotoFeed lists all photo posts newest first.
func (s *FeedService) PhotoFeed(ctx context.Context) ([]*models.Post, error) {
	return s.repo.GetPhotoPosts(ctx)
}

// UserThumbnails lists thumbnail views of a user's posts, most recent first.
// Video entries point at a still-frame thumbnail, generated on first access.
func (s *FeedService) UserThumbnails(ctx context.Context, userID int64) ([]models.Thumbnail, error) {
	thumbs, err := s.repo.GetPostThumbnails(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i, thumb := range thumbs {
		thumbs[i] = s.thumbnailer.ForThumbnail(ctx, thumb)
	}
	return thumbs, nil
}

// UserPostPaths lists the media paths of a user's posts.
func (s *FeedService) UserPostPaths(ctx context.Context, user *models.User) ([]string, error) {
	return s.repo.GetUserPostPaths(ctx, user)
}
