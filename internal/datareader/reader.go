// Package datareader parses CSV fixture tables into domain entities and
// cross-links them into an object graph ready for repository population.
// Malformed rows (bad integers, bad timestamps) are logged and skipped so a
// single dirty row cannot abort the whole load.
package datareader

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"pet-feed-backend/internal/models"
)

// Fixture file names expected under the fixtures directory.
const (
	petUserFile  = "pet_user_table.csv"
	postsFile    = "posts_table.csv"
	likesFile    = "likes_table.csv"
	commentsFile = "comments_table.csv"
)

// Dataset is the fully cross-linked result of a fixture load: likes and
// comments are attached to their posts, posts to their owning pet users.
// Slice order follows file order.
type Dataset struct {
	PetUsers  []*models.User
	Posts     []*models.Post
	Likes     []*models.Like
	Comments  []*models.Comment
	MaxLikeID int64
}

// Load reads all fixture tables from dir and cross-links the object graph.
func Load(dir string) (*Dataset, error) {
	users, err := ReadPetUsers(filepath.Join(dir, petUserFile))
	if err != nil {
		return nil, err
	}
	posts, err := ReadPosts(filepath.Join(dir, postsFile))
	if err != nil {
		return nil, err
	}
	likes, err := ReadLikes(filepath.Join(dir, likesFile))
	if err != nil {
		return nil, err
	}
	comments, err := ReadComments(filepath.Join(dir, commentsFile))
	if err != nil {
		return nil, err
	}

	ds := &Dataset{PetUsers: users, Posts: posts, Likes: likes, Comments: comments}
	ds.link()
	return ds, nil
}

// link attaches likes and comments to their posts and posts to their owning
// users, using id-keyed lookups. Rows referencing unknown parents are left
// unattached.
func (ds *Dataset) link() {
	postsByID := make(map[int64]*models.Post, len(ds.Posts))
	for _, post := range ds.Posts {
		postsByID[post.ID] = post
	}
	for _, like := range ds.Likes {
		if post, ok := postsByID[like.PostID]; ok {
			post.AddLike(like)
		}
		if like.ID > ds.MaxLikeID {
			ds.MaxLikeID = like.ID
		}
	}
	for _, comment := range ds.Comments {
		if post, ok := postsByID[comment.PostID]; ok {
			post.AddComment(comment)
		}
	}

	usersByID := make(map[int64]*models.User, len(ds.PetUsers))
	for _, user := range ds.PetUsers {
		usersByID[user.ID] = user
	}
	for _, post := range ds.Posts {
		if user, ok := usersByID[post.UserID]; ok {
			user.AddPost(post)
		}
	}
}

// parseTimestamp accepts strict ISO-8601 and the legacy space-separated
// fixture format.
func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", value, err)
	}
	return t, nil
}

// splitList splits a comma-separated column into trimmed, non-empty items,
// preserving order.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// splitIDList splits a comma-separated column into int64 ids.
func splitIDList(value string) ([]int64, error) {
	var ids []int64
	for _, item := range splitList(value) {
		id, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse id %q: %w", item, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
