package datareader

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, petUserFile,
		"id,username,email,password_hash,profile_image_path,created_at,bio,follower_ids,animal_type\n"+
			"1,rex,rex@example.com,hash,/img/rex.jpg,2023-04-01 10:00:00,woof,\"2\",Dog\n"+
			"2,milo,milo@example.com,hash,,2023-04-02T11:30:00,,,Cat\n")
	writeFixture(t, dir, postsFile,
		"id,user_id,caption,views,created_at,size,tags,media_path,media_type\n"+
			"1,1,first walk,3,2023-05-01 09:00:00,\"640, 480\",\"park, sunny\",/data/rex/walk.jpg,photo\n"+
			"2,1,zoomies,0,2023-05-02 09:00:00,,,/data/rex/zoomies.mp4,video\n")
	writeFixture(t, dir, likesFile,
		"id,user_id,post_id,created_at\n"+
			"1,2,1,2023-05-01 10:00:00\n")
	writeFixture(t, dir, commentsFile,
		"id,user_id,post_id,created_at,comment_string,likes\n"+
			"1,2,1,2023-05-01 11:00:00,what a good boy,2\n")
	return dir
}

func TestLoadCrossLinksGraph(t *testing.T) {
	ds, err := Load(fixtureDir(t))
	require.NoError(t, err)

	require.Len(t, ds.PetUsers, 2)
	require.Len(t, ds.Posts, 2)
	require.Len(t, ds.Likes, 1)
	require.Len(t, ds.Comments, 1)
	assert.Equal(t, int64(1), ds.MaxLikeID)

	rex := ds.PetUsers[0]
	assert.Equal(t, "rex", rex.Username)
	assert.Equal(t, models.AnimalDog, rex.AnimalType)
	assert.Equal(t, []int64{2}, rex.FollowerIDs)
	assert.Len(t, rex.Posts, 2, "posts are attached to their owner")

	walk := ds.Posts[0]
	assert.Equal(t, 640, walk.Width)
	assert.Equal(t, 480, walk.Height)
	assert.Equal(t, []string{"park", "sunny"}, walk.Tags)
	assert.Len(t, walk.Likes, 1)
	require.Len(t, walk.Comments, 1)
	assert.Equal(t, "what a good boy", walk.Comments[0].Text)

	zoomies := ds.Posts[1]
	assert.Equal(t, models.MediaVideo, zoomies.MediaType)
	assert.Zero(t, zoomies.Width)
}

func TestParseTimestampFormats(t *testing.T) {
	want := time.Date(2023, 4, 1, 10, 30, 0, 0, time.UTC)

	for _, value := range []string{
		"2023-04-01T10:30:00Z",
		"2023-04-01T10:30:00",
		"2023-04-01 10:30:00",
	} {
		got, err := parseTimestamp(value)
		require.NoError(t, err, value)
		assert.True(t, got.Equal(want), value)
	}

	_, err := parseTimestamp("01/04/2023")
	assert.Error(t, err)
}

func TestMalformedRowsAreSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, likesFile,
		"id,user_id,post_id,created_at\n"+
			"1,2,1,2023-05-01 10:00:00\n"+
			"oops,2,1,2023-05-01 10:00:00\n"+
			"3,2,1,not-a-date\n"+
			"4,2,1,2023-05-01 12:00:00\n")

	likes, err := ReadLikes(filepath.Join(dir, likesFile))
	require.NoError(t, err)
	require.Len(t, likes, 2, "bad rows must not abort the load")
	assert.Equal(t, int64(1), likes[0].ID)
	assert.Equal(t, int64(4), likes[1].ID)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestPopulateSeedsRepository(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	require.NoError(t, Populate(ctx, repo, fixtureDir(t)))

	total, err := repo.TotalUserCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	// Counts round-trip through the repository.
	pets, err := repo.GetPetUsers(ctx)
	require.NoError(t, err)
	require.Len(t, pets, 2)

	post, err := repo.GetPostByID(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, post.Likes, 1)
	assert.Len(t, post.Comments, 1)

	// Fixture follower lists become live follow edges.
	following, err := repo.IsFollowing(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, following)
}
