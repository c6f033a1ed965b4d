// Package memory provides the reference Repository backend. Collections are
// plain ordered slices and every lookup is a linear scan, which is fine at
// fixture scale. The backend is single-process and carries no locking; it is
// meant for tests and "memory mode" deployments only.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository"
)

// Repository is the in-memory backend. Mutations apply directly to the shared
// entity pointers, so previously returned entities stay in sync with the
// store. Callers must mutate collections only through the documented methods.
type Repository struct {
	petUsers   []*models.User
	humanUsers []*models.User
	tempUsers  []*models.User
	posts      []*models.Post

	// Last accepted username per user id, used to roll back a rename that
	// UpdateUser rejects after the caller already mutated the shared pointer.
	usernames map[int64]string

	// Monotonic counters owned by the repository; never recomputed by
	// scanning.
	nextUserID    int64
	nextPostID    int64
	nextCommentID int64
	nextLikeID    int64
}

var _ repository.Repository = (*Repository)(nil)

// New creates an empty in-memory repository.
func New() *Repository {
	return &Repository{
		usernames:     make(map[int64]string),
		nextUserID:    1,
		nextPostID:    1,
		nextCommentID: 1,
		nextLikeID:    1,
	}
}

func (r *Repository) addUser(ctx context.Context, list *[]*models.User, user *models.User, kind models.UserKind) error {
	if user == nil {
		return fmt.Errorf("add user: nil user")
	}
	if strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("add user: empty username")
	}
	if existing, _ := r.GetUserByName(ctx, user.Username); existing != nil {
		return repository.ErrNameNotUnique
	}
	user.Kind = kind
	if user.ID == 0 {
		user.ID = r.nextUserID
	}
	if user.ID >= r.nextUserID {
		r.nextUserID = user.ID + 1
	}
	*list = append(*list, user)
	r.usernames[user.ID] = user.Username
	return nil
}

// AddPetUser adds one pet user.
func (r *Repository) AddPetUser(ctx context.Context, user *models.User) error {
	return r.addUser(ctx, &r.petUsers, user, models.KindPet)
}

// AddPetUsers adds pet users in order.
func (r *Repository) AddPetUsers(ctx context.Context, users []*models.User) error {
	for _, user := range users {
		if err := r.AddPetUser(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

// AddHumanUser adds one human user.
func (r *Repository) AddHumanUser(ctx context.Context, user *models.User) error {
	return r.addUser(ctx, &r.humanUsers, user, models.KindHuman)
}

// AddHumanUsers adds human users in order.
func (r *Repository) AddHumanUsers(ctx context.Context, users []*models.User) error {
	for _, user := range users {
		if err := r.AddHumanUser(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

// AddTempUser stores a provisional account.
func (r *Repository) AddTempUser(ctx context.Context, user *models.User) error {
	return r.addUser(ctx, &r.tempUsers, user, models.KindTemp)
}

// UpdateUser validates a mutated user. Users are stored by reference, so the
// caller's changes are already visible; only uniqueness needs re-checking. A
// rename that would collide with another user is undone before the error is
// returned, so the store never holds two users with the same name.
func (r *Repository) UpdateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("update user: %w", repository.ErrNotFound)
	}
	if _, err := r.GetUserByID(ctx, user.ID); err != nil {
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}
	for _, list := range [][]*models.User{r.petUsers, r.humanUsers, r.tempUsers} {
		for _, other := range list {
			if other.Username == user.Username && other.ID != user.ID {
				user.Username = r.usernames[user.ID]
				return fmt.Errorf("update user %d: %w", user.ID, repository.ErrNameNotUnique)
			}
		}
	}
	r.usernames[user.ID] = user.Username
	return nil
}

func userByName(users []*models.User, username string) *models.User {
	for _, user := range users {
		if user.Username == username {
			return user
		}
	}
	return nil
}

func userByID(users []*models.User, id int64) *models.User {
	for _, user := range users {
		if user.ID == id {
			return user
		}
	}
	return nil
}

// GetPetUserByName looks up a pet user by exact username.
func (r *Repository) GetPetUserByName(_ context.Context, username string) (*models.User, error) {
	if user := userByName(r.petUsers, username); user != nil {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

// GetPetUserByID looks up a pet user by id.
func (r *Repository) GetPetUserByID(_ context.Context, id int64) (*models.User, error) {
	if user := userByID(r.petUsers, id); user != nil {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

// GetHumanUserByName looks up a human user by exact username.
func (r *Repository) GetHumanUserByName(_ context.Context, username string) (*models.User, error) {
	if user := userByName(r.humanUsers, username); user != nil {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

// GetHumanUserByID looks up a human user by id.
func (r *Repository) GetHumanUserByID(_ context.Context, id int64) (*models.User, error) {
	if user := userByID(r.humanUsers, id); user != nil {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

// GetUserByName looks a user up by username across all kinds.
func (r *Repository) GetUserByName(_ context.Context, username string) (*models.User, error) {
	for _, list := range [][]*models.User{r.petUsers, r.humanUsers, r.tempUsers} {
		if user := userByName(list, username); user != nil {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

// GetUserByID looks a user up by id across all kinds.
func (r *Repository) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	for _, list := range [][]*models.User{r.petUsers, r.humanUsers, r.tempUsers} {
		if user := userByID(list, id); user != nil {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

// GetPetUsers lists all pet users in insertion order.
func (r *Repository) GetPetUsers(_ context.Context) ([]*models.User, error) {
	return r.petUsers, nil
}

// GetHumanUsers lists all human users in insertion order.
func (r *Repository) GetHumanUsers(_ context.Context) ([]*models.User, error) {
	return r.humanUsers, nil
}

// TotalUserCount returns the combined user count across all kinds.
func (r *Repository) TotalUserCount(_ context.Context) (int, error) {
	return len(r.petUsers) + len(r.humanUsers) + len(r.tempUsers), nil
}

func removeUser(list []*models.User, id int64) []*models.User {
	for i, user := range list {
		if user.ID == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// ConvertUser switches a user's kind in place, preserving the numeric id and
// the shared fields. The old entry is dropped and the converted user joins
// the list for its new kind.
func (r *Repository) ConvertUser(ctx context.Context, userID int64, to models.UserKind, animal models.AnimalType) (*models.User, error) {
	existing, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing.Kind == to {
		return nil, repository.ErrAlreadyConverted
	}
	converted, err := models.ConvertUser(existing, to, animal)
	if err != nil {
		return nil, err
	}

	r.petUsers = removeUser(r.petUsers, userID)
	r.humanUsers = removeUser(r.humanUsers, userID)
	r.tempUsers = removeUser(r.tempUsers, userID)
	switch to {
	case models.KindPet:
		r.petUsers = append(r.petUsers, converted)
	case models.KindHuman:
		r.humanUsers = append(r.humanUsers, converted)
	}
	return converted, nil
}

// AddPost adds a post owned by the given pet user.
func (r *Repository) AddPost(_ context.Context, user *models.User, post *models.Post) error {
	if post == nil {
		return fmt.Errorf("add post: nil post")
	}
	if user == nil || userByID(r.petUsers, post.UserID) == nil {
		return repository.ErrReferencedEntityNotFound
	}
	if post.ID == 0 {
		post.ID = r.nextPostID
	}
	if post.ID >= r.nextPostID {
		r.nextPostID = post.ID + 1
	}
	r.posts = append(r.posts, post)
	user.AddPost(post)
	return nil
}

// AddPosts adds posts in order.
func (r *Repository) AddPosts(ctx context.Context, user *models.User, posts []*models.Post) error {
	for _, post := range posts {
		if err := r.AddPost(ctx, user, post); err != nil {
			return err
		}
	}
	return nil
}

// CreatePost allocates an id and stores a new post for the user.
func (r *Repository) CreatePost(ctx context.Context, user *models.User, caption string, tags []string, mediaPath string, mediaType models.MediaType, width, height int) (*models.Post, error) {
	if user == nil {
		return nil, repository.ErrReferencedEntityNotFound
	}
	post := &models.Post{
		ID:        r.nextPostID,
		UserID:    user.ID,
		Caption:   caption,
		CreatedAt: time.Now().UTC(),
		Width:     width,
		Height:    height,
		Tags:      tags,
		MediaPath: mediaPath,
		MediaType: mediaType,
	}
	if err := r.AddPost(ctx, user, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes the post and cascades its likes and comments.
func (r *Repository) DeletePost(_ context.Context, user *models.User, post *models.Post) error {
	if post == nil {
		return nil
	}
	for i, existing := range r.posts {
		if existing.ID == post.ID {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			break
		}
	}
	if owner := userByID(r.petUsers, post.UserID); owner != nil {
		owner.RemovePost(post)
	}
	// Drop authored-comment references so nothing dangles.
	for _, list := range [][]*models.User{r.petUsers, r.humanUsers, r.tempUsers} {
		for _, u := range list {
			kept := u.Comments[:0]
			for _, c := range u.Comments {
				if c.PostID != post.ID {
					kept = append(kept, c)
				}
			}
			u.Comments = kept
		}
	}
	post.Likes = nil
	post.Comments = nil
	return nil
}

// GetPostByID looks up a post by id; first match wins.
func (r *Repository) GetPostByID(_ context.Context, id int64) (*models.Post, error) {
	for _, post := range r.posts {
		if post.ID == id {
			return post, nil
		}
	}
	return nil, repository.ErrNotFound
}

// GetPhotoPosts lists photo posts newest first; ties keep insertion order.
func (r *Repository) GetPhotoPosts(_ context.Context) ([]*models.Post, error) {
	var photos []*models.Post
	for _, post := range r.posts {
		if post.MediaType == models.MediaPhoto {
			photos = append(photos, post)
		}
	}
	sort.SliceStable(photos, func(i, j int) bool {
		return photos[i].CreatedAt.After(photos[j].CreatedAt)
	})
	return photos, nil
}

// GetUserPostPaths lists the media paths of all posts owned by the user.
func (r *Repository) GetUserPostPaths(_ context.Context, user *models.User) ([]string, error) {
	if user == nil {
		return nil, repository.ErrNotFound
	}
	var paths []string
	for _, post := range r.posts {
		if post.UserID == user.ID {
			paths = append(paths, post.MediaPath)
		}
	}
	return paths, nil
}

// GetPostThumbnails lists thumbnail views for the user's posts, most recent
// first.
func (r *Repository) GetPostThumbnails(_ context.Context, userID int64) ([]models.Thumbnail, error) {
	var owned []*models.Post
	for _, post := range r.posts {
		if post.UserID == userID {
			owned = append(owned, post)
		}
	}
	sort.SliceStable(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	thumbs := make([]models.Thumbnail, 0, len(owned))
	for _, post := range owned {
		thumbs = append(thumbs, post.ThumbnailView())
	}
	return thumbs, nil
}

// IncrementPostViews bumps the view counter for a post.
func (r *Repository) IncrementPostViews(ctx context.Context, postID int64) error {
	post, err := r.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	post.IncrementViews()
	return nil
}

// AddComment attaches a comment to its post and its author.
func (r *Repository) AddComment(ctx context.Context, user *models.User, comment *models.Comment) error {
	if comment == nil {
		return fmt.Errorf("add comment: nil comment")
	}
	post, err := r.GetPostByID(ctx, comment.PostID)
	if err != nil {
		return repository.ErrReferencedEntityNotFound
	}
	if comment.ID == 0 {
		comment.ID = r.nextCommentID
	}
	if comment.ID >= r.nextCommentID {
		r.nextCommentID = comment.ID + 1
	}
	post.AddComment(comment)
	if user != nil {
		user.AddComment(comment)
	}
	return nil
}

// AddComments adds comments in order.
func (r *Repository) AddComments(ctx context.Context, user *models.User, comments []*models.Comment) error {
	for _, comment := range comments {
		if err := r.AddComment(ctx, user, comment); err != nil {
			return err
		}
	}
	return nil
}

// GetCommentsByPost lists comments attached to the post.
func (r *Repository) GetCommentsByPost(ctx context.Context, post *models.Post) ([]*models.Comment, error) {
	if post == nil {
		return nil, repository.ErrNotFound
	}
	return r.GetCommentsForPost(ctx, post.ID)
}

// GetCommentsForPost lists comments for the post id. The result set matches
// GetCommentsByPost for the same post.
func (r *Repository) GetCommentsForPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	post, err := r.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return post.Comments, nil
}

// DeleteComment removes a comment. Only the comment's author may delete it.
func (r *Repository) DeleteComment(ctx context.Context, user *models.User, comment *models.Comment) error {
	if comment == nil {
		return nil
	}
	if user == nil || user.ID != comment.UserID {
		return repository.ErrNotOwner
	}
	post, err := r.GetPostByID(ctx, comment.PostID)
	if err == nil {
		post.RemoveComment(comment.ID)
	}
	user.RemoveComment(comment)
	return nil
}

// NextCommentID reserves and returns the next unique comment id.
func (r *Repository) NextCommentID(_ context.Context) (int64, error) {
	id := r.nextCommentID
	r.nextCommentID++
	return id, nil
}

// CreateComment allocates an id and stores a new comment on the post.
func (r *Repository) CreateComment(ctx context.Context, user *models.User, post *models.Post, text string) (*models.Comment, error) {
	if user == nil || post == nil {
		return nil, repository.ErrReferencedEntityNotFound
	}
	id, err := r.NextCommentID(ctx)
	if err != nil {
		return nil, err
	}
	comment := &models.Comment{
		ID:        id,
		UserID:    user.ID,
		PostID:    post.ID,
		CreatedAt: time.Now().UTC(),
		Text:      text,
	}
	if err := r.AddComment(ctx, user, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// AddLikeToComment bumps a comment's like counter.
func (r *Repository) AddLikeToComment(_ context.Context, commentID int64) error {
	for _, post := range r.posts {
		for _, comment := range post.Comments {
			if comment.ID == commentID {
				comment.AddLike()
				return nil
			}
		}
	}
	return repository.ErrNotFound
}

// AddLike attaches a like to its post. A duplicate like from the same user
// is a no-op.
func (r *Repository) AddLike(ctx context.Context, _ *models.User, like *models.Like) error {
	if like == nil {
		return fmt.Errorf("add like: nil like")
	}
	post, err := r.GetPostByID(ctx, like.PostID)
	if err != nil {
		return repository.ErrReferencedEntityNotFound
	}
	if post.LikedBy(like.UserID) {
		return nil
	}
	if like.ID == 0 {
		like.ID = r.nextLikeID
	}
	if like.ID >= r.nextLikeID {
		r.nextLikeID = like.ID + 1
	}
	post.AddLike(like)
	return nil
}

// AddLikes adds likes in order.
func (r *Repository) AddLikes(ctx context.Context, likes []*models.Like) error {
	for _, like := range likes {
		if err := r.AddLike(ctx, nil, like); err != nil {
			return err
		}
	}
	return nil
}

// DeleteLike removes the user's like from the post; absent likes are a no-op.
func (r *Repository) DeleteLike(ctx context.Context, user *models.User, post *models.Post) error {
	if user == nil || post == nil {
		return nil
	}
	stored, err := r.GetPostByID(ctx, post.ID)
	if err != nil {
		return nil
	}
	stored.RemoveLike(user.ID)
	return nil
}

// NextLikeID reserves and returns the next unique like id.
func (r *Repository) NextLikeID(_ context.Context) (int64, error) {
	id := r.nextLikeID
	r.nextLikeID++
	return id, nil
}

// HasLiked reports whether the user currently likes the post.
func (r *Repository) HasLiked(ctx context.Context, userID, postID int64) (bool, error) {
	post, err := r.GetPostByID(ctx, postID)
	if err != nil {
		return false, err
	}
	return post.LikedBy(userID), nil
}

// FollowUser adds a follow edge and synchronizes both endpoints' cached id
// lists. Following twice is a no-op.
func (r *Repository) FollowUser(_ context.Context, follower, followee *models.User) error {
	if follower == nil || followee == nil {
		return repository.ErrReferencedEntityNotFound
	}
	follower.Follow(followee.ID)
	followee.AddFollower(follower.ID)
	return nil
}

// UnfollowUser removes a follow edge; unfollowing when not following is a
// no-op.
func (r *Repository) UnfollowUser(_ context.Context, follower, followee *models.User) error {
	if follower == nil || followee == nil {
		return nil
	}
	follower.Unfollow(followee.ID)
	followee.RemoveFollower(follower.ID)
	return nil
}

// IsFollowing reports whether the follow edge exists.
func (r *Repository) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	follower, err := r.GetUserByID(ctx, followerID)
	if err != nil {
		return false, nil
	}
	return follower.IsFollowing(followeeID), nil
}

// GetFollowers lists the follower ids for the user.
func (r *Repository) GetFollowers(ctx context.Context, userID int64) ([]int64, error) {
	user, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append([]int64(nil), user.FollowerIDs...), nil
}

// AddFollowerEdges bulk-adds follow edges; unknown endpoints are skipped.
func (r *Repository) AddFollowerEdges(ctx context.Context, edges []repository.FollowEdge) error {
	for _, edge := range edges {
		follower, err := r.GetUserByID(ctx, edge.FollowerID)
		if err != nil {
			continue
		}
		followee, err := r.GetUserByID(ctx, edge.FolloweeID)
		if err != nil {
			continue
		}
		if err := r.FollowUser(ctx, follower, followee); err != nil {
			return err
		}
	}
	return nil
}

// Populate bulk-loads an ingested entity set by direct assignment. The
// readers have already cross-linked likes and comments onto their posts and
// posts onto their owners, so only the containers and counters need setting.
func (r *Repository) Populate(_ context.Context, users []*models.User, posts []*models.Post, likes []*models.Like, comments []*models.Comment) error {
	r.petUsers = users
	r.posts = posts

	for _, user := range users {
		if user.ID >= r.nextUserID {
			r.nextUserID = user.ID + 1
		}
		r.usernames[user.ID] = user.Username
		// Fixture users carry follower id lists; mirror them onto the
		// follower side so both ends of each edge agree.
		for _, followerID := range user.FollowerIDs {
			if follower := userByID(users, followerID); follower != nil {
				follower.Follow(user.ID)
			}
		}
	}
	for _, post := range posts {
		if post.ID >= r.nextPostID {
			r.nextPostID = post.ID + 1
		}
	}
	for _, like := range likes {
		if like.ID >= r.nextLikeID {
			r.nextLikeID = like.ID + 1
		}
	}
	for _, comment := range comments {
		if comment.ID >= r.nextCommentID {
			r.nextCommentID = comment.ID + 1
		}
	}
	return nil
}
