package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddLikeKeepsUserPostPairUnique(t *testing.T) {
	p := &Post{ID: 1, UserID: 2}

	p.AddLike(&Like{ID: 1, UserID: 5, PostID: 1})
	p.AddLike(&Like{ID: 2, UserID: 5, PostID: 1})
	p.AddLike(&Like{ID: 3, UserID: 6, PostID: 1})
	p.AddLike(&Like{ID: 4, UserID: 7, PostID: 99})

	require.Len(t, p.Likes, 2)
	assert.True(t, p.LikedBy(5))
	assert.True(t, p.LikedBy(6))
	assert.False(t, p.LikedBy(7))

	p.RemoveLike(5)
	p.RemoveLike(5)
	assert.Len(t, p.Likes, 1)
	assert.False(t, p.LikedBy(5))
}

func TestAddCommentChecksPostID(t *testing.T) {
	p := &Post{ID: 4}

	p.AddComment(&Comment{ID: 1, PostID: 4, Text: "nice"})
	p.AddComment(&Comment{ID: 1, PostID: 4, Text: "nice"})
	p.AddComment(&Comment{ID: 2, PostID: 5, Text: "wrong post"})

	require.Len(t, p.Comments, 1)

	p.RemoveComment(1)
	assert.Empty(t, p.Comments)
}

func TestTagsAndTaggedUsers(t *testing.T) {
	p := &Post{ID: 1}

	p.AddTag("sunny")
	p.AddTag("sunny")
	p.AddTag("park")
	assert.Equal(t, []string{"sunny", "park"}, p.Tags)

	p.RemoveTag("sunny")
	assert.Equal(t, []string{"park"}, p.Tags)

	p.TagUser(3)
	p.TagUser(3)
	assert.Equal(t, []int64{3}, p.TaggedUserIDs)
	p.UntagUser(3)
	assert.Empty(t, p.TaggedUserIDs)
}

func TestThumbnailViewDoesNotAliasPost(t *testing.T) {
	p := &Post{ID: 9, MediaPath: "/data/u/x.mp4", MediaType: MediaVideo}

	thumb := p.ThumbnailView()
	assert.Equal(t, int64(9), thumb.PostID)
	assert.Equal(t, MediaVideo, thumb.MediaType)

	thumb.MediaPath = "/elsewhere.jpg"
	assert.Equal(t, "/data/u/x.mp4", p.MediaPath)
}

func TestCommentLikeCounter(t *testing.T) {
	c := &Comment{ID: 1, PostID: 2}
	c.AddLike()
	c.AddLike()
	assert.Equal(t, 2, c.Likes)
}
