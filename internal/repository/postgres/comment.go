package postgres

import (
	"context"
	"fmt"
	"time"

	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository"

	"github.com/jackc/pgx/v5"
)

func (r *Repository) insertComment(ctx context.Context, q dbtx, comment *models.Comment) error {
	if comment == nil {
		return fmt.Errorf("insert comment: nil comment")
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}

	var err error
	if comment.ID == 0 {
		query := `
			INSERT INTO comments (user_id, post_id, created_at, body, likes)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		err = q.QueryRow(ctx, query, commentRowArgs(comment)[1:]...).Scan(&comment.ID)
	} else {
		query := `
			INSERT INTO comments (` + commentColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		_, err = q.Exec(ctx, query, commentRowArgs(comment)...)
	}
	if err != nil {
		if isPgErr(err, codeForeignKeyViolation) {
			return repository.ErrReferencedEntityNotFound
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// AddComment stores a comment authored by the user.
func (r *Repository) AddComment(ctx context.Context, user *models.User, comment *models.Comment) error {
	if err := r.insertComment(ctx, r.db, comment); err != nil {
		return err
	}
	if user != nil {
		user.AddComment(comment)
	}
	return nil
}

// AddComments stores comments in one transaction.
func (r *Repository) AddComments(ctx context.Context, user *models.User, comments []*models.Comment) error {
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		for _, comment := range comments {
			if err := r.insertComment(ctx, tx, comment); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if user != nil {
		for _, comment := range comments {
			user.AddComment(comment)
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
	if err := r.postExists(ctx, postID); err != nil {
		return nil, err
	}
	query := `SELECT ` + commentColumns + ` FROM comments WHERE post_id = $1 ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes a comment. The delete is scoped to the comment's
// author; deleting someone else's comment fails with ErrNotOwner and
// deleting an absent comment is a no-op.
func (r *Repository) DeleteComment(ctx context.Context, user *models.User, comment *models.Comment) error {
	if comment == nil {
		return nil
	}
	if user == nil {
		return repository.ErrNotOwner
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1 AND user_id = $2`, comment.ID, user.ID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM comments WHERE id = $1)`, comment.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check comment existence: %w", err)
		}
		if exists {
			return repository.ErrNotOwner
		}
	}
	user.RemoveComment(comment)
	return nil
}

// NextCommentID reserves and returns the next unique comment id from the
// store-native sequence.
func (r *Repository) NextCommentID(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `SELECT nextval(pg_get_serial_sequence('comments', 'id'))`).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate comment id: %w", err)
	}
	return id, nil
}

// CreateComment allocates an id and stores a new comment on the post.
func (r *Repository) CreateComment(ctx context.Context, user *models.User, post *models.Post, text string) (*models.Comment, error) {
	if user == nil || post == nil {
		return nil, repository.ErrReferencedEntityNotFound
	}
	comment := &models.Comment{
		UserID:    user.ID,
		PostID:    post.ID,
		CreatedAt: time.Now().UTC(),
		Text:      text,
	}
	if err := r.AddComment(ctx, user, comment); err != nil {
		return nil, err
	}
	post.AddComment(comment)
	return comment, nil
}

// AddLikeToComment bumps a comment's like counter.
func (r *Repository) AddLikeToComment(ctx context.Context, commentID int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE comments SET likes = likes + 1 WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("failed to like comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
