package services

import (
	"context"
	"testing"
	"time"

	"pet-feed-backend/internal/media"
	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoFeedExcludesVideos(t *testing.T) {
	repo := memory.New()
	svc := NewFeedService(repo, media.NewThumbnailer(nil, 480, 480))
	ctx := context.Background()

	rex := addPet(t, repo, "rex")
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.AddPosts(ctx, rex, []*models.Post{
		{UserID: rex.ID, CreatedAt: base, MediaPath: "/a.jpg", MediaType: models.MediaPhoto},
		{UserID: rex.ID, CreatedAt: base.Add(time.Hour), MediaPath: "/b.mp4", MediaType: models.MediaVideo},
		{UserID: rex.ID, CreatedAt: base.Add(2 * time.Hour), MediaPath: "/c.jpg", MediaType: models.MediaPhoto},
	}))

	posts, err := svc.PhotoFeed(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "/c.jpg", posts[0].MediaPath)
	assert.Equal(t, "/a.jpg", posts[1].MediaPath)
}

func TestUserThumbnailsMostRecentFirst(t *testing.T) {
	repo := memory.New()
	svc := NewFeedService(repo, media.NewThumbnailer(nil, 480, 480))
	ctx := context.Background()

	rex := addPet(t, repo, "rex")
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	old := &models.Post{UserID: rex.ID, CreatedAt: base, MediaPath: "/a.jpg", MediaType: models.MediaPhoto}
	recent := &models.Post{UserID: rex.ID, CreatedAt: base.Add(time.Hour), MediaPath: "/c.jpg", MediaType: models.MediaPhoto}
	require.NoError(t, repo.AddPosts(ctx, rex, []*models.Post{old, recent}))

	thumbs, err := svc.UserThumbnails(ctx, rex.ID)
	require.NoError(t, err)
	require.Len(t, thumbs, 2)
	assert.Equal(t, recent.ID, thumbs[0].PostID)
	assert.Equal(t, old.ID, thumbs[1].PostID)

	paths, err := svc.UserPostPaths(ctx, rex)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.jpg", "/c.jpg"}, paths)
}
