package repository

import (
	"context"
	"errors"

	"pet-feed-backend/internal/models"
)

// Sentinel errors shared by every backend. Callers distinguish conditions
// with errors.Is so the web layer can map them to friendly responses.
var (
	// ErrNotFound is returned by lookups whose subject does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNameNotUnique is returned when adding a user whose username is taken.
	ErrNameNotUnique = errors.New("username not unique")
	// ErrReferencedEntityNotFound is returned when a write names a foreign id
	// (post, user) that does not exist in the store.
	ErrReferencedEntityNotFound = errors.New("referenced entity not found")
	// ErrNotOwner is returned when a caller mutates a resource it does not own.
	ErrNotOwner = errors.New("not the owner")
	// ErrAlreadyConverted is returned when converting an account to the kind
	// it already has.
	ErrAlreadyConverted = errors.New("account already converted")
)

// FollowEdge is a directed follower -> followee relation used for bulk loads.
type FollowEdge struct {
	FollowerID int64
	FolloweeID int64
}

// Repository is the capability contract both storage backends satisfy. The
// rest of the system only ever talks to this interface; an instance is
// injected explicitly into each consumer rather than held in package state.
//
// Lookups return ErrNotFound for absent subjects. Writes referencing unknown
// foreign ids return ErrReferencedEntityNotFound. Deletes of absent rows are
// no-ops. Adding a like for a (user, post) pair that already has one is a
// no-op; unliking is a separate DeleteLike call.
type Repository interface {
	// Users.
	AddPetUser(ctx context.Context, user *models.User) error
	AddPetUsers(ctx context.Context, users []*models.User) error
	AddHumanUser(ctx context.Context, user *models.User) error
	AddHumanUsers(ctx context.Context, users []*models.User) error
	GetPetUserByName(ctx context.Context, username string) (*models.User, error)
	GetPetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetHumanUserByName(ctx context.Context, username string) (*models.User, error)
	GetHumanUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByName(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetPetUsers(ctx context.Context) ([]*models.User, error)
	GetHumanUsers(ctx context.Context) ([]*models.User, error)
	TotalUserCount(ctx context.Context) (int, error)

	// AddTempUser stores a provisional account awaiting kind conversion.
	AddTempUser(ctx context.Context, user *models.User) error

	// UpdateUser persists changes to a user's mutable fields (username,
	// email, password hash, profile path, bio).
	UpdateUser(ctx context.Context, user *models.User) error

	// ConvertUser atomically replaces a user with the same id under a new
	// kind, carrying username, email, password hash, profile path, bio and
	// follow edges. Either the whole switch happens or none of it.
	ConvertUser(ctx context.Context, userID int64, to models.UserKind, animal models.AnimalType) (*models.User, error)

	// Posts.
	AddPost(ctx context.Context, user *models.User, post *models.Post) error
	AddPosts(ctx context.Context, user *models.User, posts []*models.Post) error
	CreatePost(ctx context.Context, user *models.User, caption string, tags []string, mediaPath string, mediaType models.MediaType, width, height int) (*models.Post, error)
	// DeletePost removes the post and cascades its likes and comments.
	DeletePost(ctx context.Context, user *models.User, post *models.Post) error
	GetPostByID(ctx context.Context, id int64) (*models.Post, error)
	GetPhotoPosts(ctx context.Context) ([]*models.Post, error)
	GetUserPostPaths(ctx context.Context, user *models.User) ([]string, error)
	// GetPostThumbnails lists thumbnail views for a user's posts, most recent
	// first.
	GetPostThumbnails(ctx context.Context, userID int64) ([]models.Thumbnail, error)
	IncrementPostViews(ctx context.Context, postID int64) error

	// Comments.
	AddComment(ctx context.Context, user *models.User, comment *models.Comment) error
	AddComments(ctx context.Context, user *models.User, comments []*models.Comment) error
	GetCommentsByPost(ctx context.Context, post *models.Post) ([]*models.Comment, error)
	GetCommentsForPost(ctx context.Context, postID int64) ([]*models.Comment, error)
	DeleteComment(ctx context.Context, user *models.User, comment *models.Comment) error
	NextCommentID(ctx context.Context) (int64, error)
	CreateComment(ctx context.Context, user *models.User, post *models.Post, text string) (*models.Comment, error)
	AddLikeToComment(ctx context.Context, commentID int64) error

	// Likes.
	AddLike(ctx context.Context, user *models.User, like *models.Like) error
	AddLikes(ctx context.Context, likes []*models.Like) error
	DeleteLike(ctx context.Context, user *models.User, post *models.Post) error
	NextLikeID(ctx context.Context) (int64, error)
	HasLiked(ctx context.Context, userID, postID int64) (bool, error)

	// Follow graph.
	FollowUser(ctx context.Context, follower, followee *models.User) error
	UnfollowUser(ctx context.Context, follower, followee *models.User) error
	IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error)
	GetFollowers(ctx context.Context, userID int64) ([]int64, error)
	AddFollowerEdges(ctx context.Context, edges []FollowEdge) error

	// Populate bulk-loads an ingested entity set into an empty store.
	Populate(ctx context.Context, users []*models.User, posts []*models.Post, likes []*models.Like, comments []*models.Comment) error
}
