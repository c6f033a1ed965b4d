package services

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pet-feed-backend/internal/media"
	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository"
	"pet-feed-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addPet(t *testing.T, repo *memory.Repository, username string) *models.User {
	t.Helper()
	user := models.NewPetUser(0, username, username+"@example.com", "hash", models.AnimalDog, time.Now())
	require.NoError(t, repo.AddPetUser(context.Background(), user))
	return user
}

func TestUpdateBio(t *testing.T) {
	repo := memory.New()
	svc := NewUserService(repo, media.Layout{Root: t.TempDir()})
	rex := addPet(t, repo, "rex")
	ctx := context.Background()

	require.NoError(t, svc.UpdateBio(ctx, rex, "  good boy  "))
	assert.Equal(t, "good boy", rex.Bio)

	err := svc.UpdateBio(ctx, rex, strings.Repeat("a", maxBioLength+1))
	assert.ErrorIs(t, err, ErrBioTooLong)
}

func TestSaveProfilePictureReplacesStaleFiles(t *testing.T) {
	repo := memory.New()
	svc := NewUserService(repo, media.Layout{Root: t.TempDir()})
	rex := addPet(t, repo, "rex")
	ctx := context.Background()

	first, err := svc.SaveProfilePicture(ctx, rex, "old.jpg", bytes.NewReader([]byte("old")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(first), "user_1_"))
	assert.FileExists(t, first)

	second, err := svc.SaveProfilePicture(ctx, rex, "new.png", bytes.NewReader([]byte("new")))
	require.NoError(t, err)

	assert.NoFileExists(t, first, "previous avatar is removed by prefix")
	assert.FileExists(t, second)
	assert.Equal(t, second, rex.ProfilePicturePath)
}

func TestSaveProfilePictureRejectsVideos(t *testing.T) {
	repo := memory.New()
	svc := NewUserService(repo, media.Layout{Root: t.TempDir()})
	rex := addPet(t, repo, "rex")

	_, err := svc.SaveProfilePicture(context.Background(), rex, "clip.mp4", bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestFollowLifecycle(t *testing.T) {
	repo := memory.New()
	svc := NewUserService(repo, media.Layout{Root: t.TempDir()})
	rex := addPet(t, repo, "rex")
	milo := addPet(t, repo, "milo")
	ctx := context.Background()

	// Self-follow is ignored.
	require.NoError(t, svc.Follow(ctx, rex, rex.ID))
	following, err := svc.IsFollowing(ctx, rex.ID, rex.ID)
	require.NoError(t, err)
	assert.False(t, following)

	require.NoError(t, svc.Follow(ctx, rex, milo.ID))
	followers, err := svc.Followers(ctx, milo.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "rex", followers[0].Username)

	require.NoError(t, svc.Unfollow(ctx, rex, milo.ID))
	followers, err = svc.Followers(ctx, milo.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)

	err = svc.Follow(ctx, rex, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConvertDelegatesToRepository(t *testing.T) {
	repo := memory.New()
	svc := NewUserService(repo, media.Layout{Root: t.TempDir()})
	ctx := context.Background()

	temp := models.NewTempUser(0, "newbie", "n@example.com", "hash", time.Now())
	require.NoError(t, repo.AddTempUser(ctx, temp))

	converted, err := svc.Convert(ctx, temp.ID, models.KindHuman, "")
	require.NoError(t, err)
	assert.Equal(t, models.KindHuman, converted.Kind)
	assert.Equal(t, temp.ID, converted.ID)
}
