package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository"
	"pet-feed-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPostFixture(t *testing.T, repo *memory.Repository) (*models.User, *models.User, *models.Post) {
	t.Helper()
	ctx := context.Background()

	rex := models.NewPetUser(0, "rex", "rex@example.com", "hash", models.AnimalDog, time.Now())
	require.NoError(t, repo.AddPetUser(ctx, rex))
	ava := models.NewHumanUser(0, "ava", "ava@example.com", "hash", time.Now())
	require.NoError(t, repo.AddHumanUser(ctx, ava))

	post, err := repo.CreatePost(ctx, rex, "walk", nil, "/x.jpg", models.MediaPhoto, 0, 0)
	require.NoError(t, err)
	return rex, ava, post
}

func TestViewPostBumpsViews(t *testing.T) {
	repo := memory.New()
	svc := NewPostService(repo, NewFeedHub())
	_, _, post := seedPostFixture(t, repo)

	got, owner, err := svc.ViewPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, got.ID)
	assert.Equal(t, "rex", owner.Username)
	assert.Equal(t, 1, got.Views)

	_, _, err = svc.ViewPost(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestToggleLike(t *testing.T) {
	repo := memory.New()
	svc := NewPostService(repo, NewFeedHub())
	_, ava, post := seedPostFixture(t, repo)
	ctx := context.Background()

	liked, err := svc.ToggleLike(ctx, ava, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = svc.ToggleLike(ctx, ava, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	has, err := svc.HasLiked(ctx, ava.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestDeletePostChecksOwnership(t *testing.T) {
	repo := memory.New()
	svc := NewPostService(repo, NewFeedHub())
	rex, ava, post := seedPostFixture(t, repo)
	ctx := context.Background()

	err := svc.DeletePost(ctx, ava, post.ID)
	assert.ErrorIs(t, err, repository.ErrNotOwner)

	require.NoError(t, svc.DeletePost(ctx, rex, post.ID))
	_, err = repo.GetPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCommentValidation(t *testing.T) {
	repo := memory.New()
	svc := NewPostService(repo, NewFeedHub())
	_, ava, post := seedPostFixture(t, repo)
	ctx := context.Background()

	_, err := svc.Comment(ctx, ava, post.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyComment)

	_, err = svc.Comment(ctx, ava, post.ID, strings.Repeat("a", maxCommentLength+1))
	assert.ErrorIs(t, err, ErrCommentTooLong)

	comment, err := svc.Comment(ctx, ava, post.ID, "  what a good boy  ")
	require.NoError(t, err)
	assert.Equal(t, "what a good boy", comment.Text)

	comments, err := svc.Comments(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 1)
}

func TestDeleteCommentByAuthorOnly(t *testing.T) {
	repo := memory.New()
	svc := NewPostService(repo, NewFeedHub())
	rex, ava, post := seedPostFixture(t, repo)
	ctx := context.Background()

	comment, err := svc.Comment(ctx, ava, post.ID, "cute")
	require.NoError(t, err)

	err = svc.DeleteComment(ctx, rex, post.ID, comment.ID)
	assert.ErrorIs(t, err, repository.ErrNotOwner)

	assert.ErrorIs(t, svc.DeleteComment(ctx, ava, post.ID, 999), repository.ErrNotFound)

	require.NoError(t, svc.DeleteComment(ctx, ava, post.ID, comment.ID))
	comments, err := svc.Comments(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestLikeComment(t *testing.T) {
	repo := memory.New()
	svc := NewPostService(repo, NewFeedHub())
	_, ava, post := seedPostFixture(t, repo)
	ctx := context.Background()

	comment, err := svc.Comment(ctx, ava, post.ID, "cute")
	require.NoError(t, err)

	require.NoError(t, svc.LikeComment(ctx, comment.ID))
	assert.Equal(t, 1, comment.Likes)
}
