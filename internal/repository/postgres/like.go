package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository"

	"github.com/jackc/pgx/v5"
)

func (r *Repository) insertLike(ctx context.Context, q dbtx, like *models.Like) error {
	if like == nil {
		return fmt.Errorf("insert like: nil like")
	}
	if like.CreatedAt.IsZero() {
		like.CreatedAt = time.Now().UTC()
	}

	var err error
	if like.ID == 0 {
		// ON CONFLICT keeps the (user, post) pair unique: a duplicate add is
		// a no-op and the like keeps a zero id.
		query := `
			INSERT INTO likes (user_id, post_id, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id, post_id) DO NOTHING
			RETURNING id
		`
		err = q.QueryRow(ctx, query, like.UserID, like.PostID, like.CreatedAt).Scan(&like.ID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
	} else {
		query := `
			INSERT INTO likes (` + likeColumns + `)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, post_id) DO NOTHING
		`
		_, err = q.Exec(ctx, query, likeRowArgs(like)...)
	}
	if err != nil {
		if isPgErr(err, codeForeignKeyViolation) {
			return repository.ErrReferencedEntityNotFound
		}
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// AddLike stores a like. Liking a post the user already likes is a no-op;
// liking a nonexistent post fails with ErrReferencedEntityNotFound.
func (r *Repository) AddLike(ctx context.Context, _ *models.User, like *models.Like) error {
	return r.insertLike(ctx, r.db, like)
}

// AddLikes stores likes in one transaction.
func (r *Repository) AddLikes(ctx context.Context, likes []*models.Like) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		for _, like := range likes {
			if err := r.insertLike(ctx, tx, like); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteLike removes the user's like from the post; absent likes are a
// no-op.
func (r *Repository) DeleteLike(ctx context.Context, user *models.User, post *models.Post) error {
	if user == nil || post == nil {
		return nil
	}
	_, err := r.db.Exec(ctx, `DELETE FROM likes WHERE user_id = $1 AND post_id = $2`, user.ID, post.ID)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	post.RemoveLike(user.ID)
	return nil
}

// NextLikeID reserves and returns the next unique like id from the
// store-native sequence.
func (r *Repository) NextLikeID(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `SELECT nextval(pg_get_serial_sequence('likes', 'id'))`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate like id: %w", err)
	}
	return id, nil
}

// HasLiked reports whether the user currently likes the post.
func (r *Repository) HasLiked(ctx context.Context, userID, postID int64) (bool, error) {
	if err := r.postExists(ctx, postID); err != nil {
		return false, err
	}
	var liked bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM likes WHERE user_id = $1 AND post_id = $2)
	`, userID, postID).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("failed to check like existence: %w", err)
	}
	return liked, nil
}
