package services

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pet-feed-backend/internal/media"
	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadFixture(t *testing.T) (*UploadService, *memory.Repository, *models.User) {
	t.Helper()
	repo := memory.New()
	rex := models.NewPetUser(0, "rex", "rex@example.com", "hash", models.AnimalDog, time.Now())
	require.NoError(t, repo.AddPetUser(context.Background(), rex))

	layout := media.Layout{Root: t.TempDir()}
	return NewUploadService(repo, layout, NewFeedHub()), repo, rex
}

func TestStageRejectsUnknownExtensions(t *testing.T) {
	svc, _, rex := newUploadFixture(t)

	_, err := svc.Stage(rex, "notes.txt", bytes.NewReader([]byte("hi")))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}

func TestStageReplacesPreviousUpload(t *testing.T) {
	svc, _, rex := newUploadFixture(t)

	first, err := svc.Stage(rex, "one.jpg", bytes.NewReader([]byte("one")))
	require.NoError(t, err)
	second, err := svc.Stage(rex, "two.jpg", bytes.NewReader([]byte("two")))
	require.NoError(t, err)

	assert.NoFileExists(t, first.Path, "staging again discards the previous file")
	assert.FileExists(t, second.Path)
	assert.Equal(t, models.MediaPhoto, second.MediaType)
}

func TestFinalizeCreatesPostAndMovesFile(t *testing.T) {
	svc, repo, rex := newUploadFixture(t)
	ctx := context.Background()

	pending, err := svc.Stage(rex, "walk.jpg", bytes.NewReader([]byte("jpeg-bytes")))
	require.NoError(t, err)

	post, err := svc.Finalize(ctx, rex, pending.ID, "first walk", []string{"park"})
	require.NoError(t, err)

	assert.Equal(t, rex.ID, post.UserID)
	assert.Equal(t, "first walk", post.Caption)
	assert.Equal(t, models.MediaPhoto, post.MediaType)
	assert.Equal(t, filepath.Base(pending.Path), filepath.Base(post.MediaPath))
	assert.FileExists(t, post.MediaPath)
	assert.NoFileExists(t, pending.Path, "staged file is moved, not copied")

	stored, err := repo.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.MediaPath, stored.MediaPath)

	// The staged upload is consumed; finalizing twice fails.
	_, err = svc.Finalize(ctx, rex, pending.ID, "again", nil)
	assert.ErrorIs(t, err, ErrNoPendingUpload)
}

func TestFinalizeUnknownUploadID(t *testing.T) {
	svc, _, rex := newUploadFixture(t)

	_, err := svc.Finalize(context.Background(), rex, "missing", "caption", nil)
	assert.ErrorIs(t, err, ErrNoPendingUpload)
}

func TestDiscardRemovesStagedFiles(t *testing.T) {
	svc, _, rex := newUploadFixture(t)

	pending, err := svc.Stage(rex, "walk.jpg", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	require.FileExists(t, pending.Path)

	svc.Discard(rex)
	_, err = os.Stat(pending.Path)
	assert.True(t, os.IsNotExist(err))
}
