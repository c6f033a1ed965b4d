package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"pet-feed-backend/internal/media"
	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository"

	"github.com/rs/zerolog/log"
)

const maxCommentLength = 500

var (
	// ErrEmptyComment is returned when a comment has no visible text.
	ErrEmptyComment = errors.New("empty comment")
	// ErrCommentTooLong is returned when a comment exceeds the length limit.
	ErrCommentTooLong = errors.New("comment too long")
)

// PostService handles viewing, deleting, liking and commenting on posts.
type PostService struct {
	repo repository.Repository
	hub  *FeedHub
}

// NewPostService creates a new post service.
func NewPostService(repo repository.Repository, hub *FeedHub) *PostService {
	return &PostService{
		repo: repo,
		hub:  hub,
	}
}

// ViewPost returns a post together with its owner and bumps the view
// counter. The counter bump is best-effort; a miss is logged, not returned.
func (s *PostService) ViewPost(ctx context.Context, postID int64) (*models.Post, *models.User, error) {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	owner, err := s.repo.GetUserByID(ctx, post.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve post owner: %w", err)
	}
	if err := s.repo.IncrementPostViews(ctx, postID); err != nil {
		log.Warn().Err(err).Int64("post_id", postID).Msg("Failed to bump view count")
	}
	return post, owner, nil
}

// DeletePost removes a post the user owns, cascading its likes and comments,
// and deletes the media file from disk.
func (s *PostService) DeletePost(ctx context.Context, user *models.User, postID int64) error {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != user.ID {
		return repository.ErrNotOwner
	}
	if err := s.repo.DeletePost(ctx, user, post); err != nil {
		return err
	}
	s.removeMedia(post.MediaPath)
	s.hub.BroadcastPostDeleted(postID, user.ID)
	return nil
}

func (s *PostService) removeMedia(mediaPath string) {
	if mediaPath == "" {
		return
	}
	if err := os.Remove(mediaPath); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", mediaPath).Msg("Failed to remove media file")
	}
	if thumb, ok := media.FindThumbnail(mediaPath); ok {
		if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", thumb).Msg("Failed to remove thumbnail")
		}
	}
}

// Like records that the user likes the post. Liking an already-liked post
// is a no-op.
func (s *PostService) Like(ctx context.Context, user *models.User, postID int64) error {
	like := &models.Like{
		UserID:    user.ID,
		PostID:    postID,
		CreatedAt: time.Now().UTC(),
	}
	return s.repo.AddLike(ctx, user, like)
}

// Unlike removes the user's like from the post if present.
func (s *PostService) Unlike(ctx context.Context, user *models.User, postID int64) error {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	return s.repo.DeleteLike(ctx, user, post)
}

// ToggleLike likes the post if the user has not liked it yet and unlikes it
// otherwise. Returns whether the post is liked after the call.
func (s *PostService) ToggleLike(ctx context.Context, user *models.User, postID int64) (bool, error) {
	liked, err := s.repo.HasLiked(ctx, user.ID, postID)
	if err != nil {
		return false, err
	}
	if liked {
		if err := s.Unlike(ctx, user, postID); err != nil {
			return false, err
		}
		return false, nil
	}
	if err := s.Like(ctx, user, postID); err != nil {
		return false, err
	}
	return true, nil
}

// HasLiked reports whether the user has liked the post.
func (s *PostService) HasLiked(ctx context.Context, userID, postID int64) (bool, error) {
	return s.repo.HasLiked(ctx, userID, postID)
}

// Comment validates and stores a new comment on a post.
func (s *PostService) Comment(ctx context.Context, user *models.User, postID int64, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyComment
	}
	if len(text) > maxCommentLength {
		return nil, ErrCommentTooLong
	}
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateComment(ctx, user, post, text)
}

// Comments lists a post's comments oldest first.
func (s *PostService) Comments(ctx context.Context, postID int64) ([]*models.Comment, error) {
	return s.repo.GetCommentsForPost(ctx, postID)
}

// DeleteComment removes a comment the user authored.
func (s *PostService) DeleteComment(ctx context.Context, user *models.User, postID, commentID int64) error {
	comments, err := s.repo.GetCommentsForPost(ctx, postID)
	if err != nil {
		return err
	}
	for _, comment := range comments {
		if comment.ID == commentID {
			return s.repo.DeleteComment(ctx, user, comment)
		}
	}
	return repository.ErrNotFound
}

// LikeComment bumps a comment's like counter.
func (s *PostService) LikeComment(ctx context.Context, commentID int64) error {
	return s.repo.AddLikeToComment(ctx, commentID)
}
