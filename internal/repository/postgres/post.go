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

func (r *Repository) insertPost(ctx context.Context, q dbtx, post *models.Post) error {
	if post == nil {
		return fmt.Errorf("insert post: nil post")
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}

	var err error
	if post.ID == 0 {
		query := `
			INSERT INTO posts (user_id, caption, views, created_at, width, height, tags, tagged_user_ids, media_path, media_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`
		err = q.QueryRow(ctx, query, postRowArgs(post)[1:]...).Scan(&post.ID)
	} else {
		query := `
			INSERT INTO posts (` + postColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		_, err = q.Exec(ctx, query, postRowArgs(post)...)
	}
	if err != nil {
		if isPgErr(err, codeForeignKeyViolation) {
			return repository.ErrReferencedEntityNotFound
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// AddPost stores a post owned by the given user.
func (r *Repository) AddPost(ctx context.Context, user *models.User, post *models.Post) error {
	if post != nil && post.UserID == 0 && user != nil {
		post.UserID = user.ID
	}
	if err := r.insertPost(ctx, r.db, post); err != nil {
		return err
	}
	if user != nil {
		user.AddPost(post)
	}
	return nil
}

// AddPosts stores posts in one transaction.
func (r *Repository) AddPosts(ctx context.Context, user *models.User, posts []*models.Post) error {
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		for _, post := range posts {
			if post != nil && post.UserID == 0 && user != nil {
				post.UserID = user.ID
			}
			if err := r.insertPost(ctx, tx, post); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	if user != nil {
		for _, post := range posts {
			user.AddPost(post)
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

// DeletePost removes the post and explicitly cascades its likes and comments
// in one transaction. Deleting an absent post is a no-op.
func (r *Repository) DeletePost(ctx context.Context, user *models.User, post *models.Post) error {
	if post == nil {
		return nil
	}
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE post_id = $1`, post.ID); err != nil {
			return fmt.Errorf("failed to delete post likes: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE post_id = $1`, post.ID); err != nil {
			return fmt.Errorf("failed to delete post comments: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, post.ID); err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if user != nil {
		user.RemovePost(post)
	}
	return nil
}

// GetPostByID retrieves a post with its likes and comments hydrated.
func (r *Repository) GetPostByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`
	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	likeRows, err := r.db.Query(ctx, `SELECT `+likeColumns+` FROM likes WHERE post_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get post likes: %w", err)
	}
	defer likeRows.Close()
	for likeRows.Next() {
		like, err := scanLike(likeRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		post.Likes = append(post.Likes, like)
	}
	if err := likeRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating likes: %w", err)
	}

	comments, err := r.GetCommentsForPost(ctx, id)
	if err != nil {
		return nil, err
	}
	post.Comments = comments
	return post, nil
}

func (r *Repository) listPosts(ctx context.Context, where string, args ...any) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE ` + where + ` ORDER BY created_at DESC, id`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return posts, nil
}

// GetPhotoPosts lists photo posts newest first.
func (r *Repository) GetPhotoPosts(ctx context.Context) ([]*models.Post, error) {
	return r.listPosts(ctx, `media_type = 'photo'`)
}

// GetUserPostPaths lists the media paths of all posts owned by the user.
func (r *Repository) GetUserPostPaths(ctx context.Context, user *models.User) ([]string, error) {
	if user == nil {
		return nil, repository.ErrNotFound
	}
	rows, err := r.db.Query(ctx, `SELECT media_path FROM posts WHERE user_id = $1 ORDER BY id`, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post paths: %w", err)
	}
	paths, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan post paths: %w", err)
	}
	return paths, nil
}

// GetPostThumbnails lists thumbnail views for the user's posts, most recent
// first.
func (r *Repository) GetPostThumbnails(ctx context.Context, userID int64) ([]models.Thumbnail, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, media_path, media_type FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post thumbnails: %w", err)
	}
	defer rows.Close()

	var thumbs []models.Thumbnail
	for rows.Next() {
		var (
			t         models.Thumbnail
			mediaType string
		)
		if err := rows.Scan(&t.PostID, &t.MediaPath, &mediaType); err != nil {
			return nil, fmt.Errorf("failed to scan thumbnail: %w", err)
		}
		t.MediaType = models.MediaType(mediaType)
		thumbs = append(thumbs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating thumbnails: %w", err)
	}
	return thumbs, nil
}

// IncrementPostViews bumps the view counter for a post.
func (r *Repository) IncrementPostViews(ctx context.Context, postID int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE posts SET views = views + 1 WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
