package postgres

import (
	"context"
	"fmt"

	"pet-feed-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// Populate bulk-loads an ingested entity set by issuing the full sequence of
// inserts inside one transaction. The fixture rows carry explicit ids, so
// the identity sequences are advanced afterwards to keep later allocations
// unique.
func (r *Repository) Populate(ctx context.Context, users []*models.User, posts []*models.Post, likes []*models.Like, comments []*models.Comment) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		for _, user := range users {
			if err := r.insertUser(ctx, tx, user); err != nil {
				return err
			}
		}
		for _, post := range posts {
			if err := r.insertPost(ctx, tx, post); err != nil {
				return err
			}
		}
		for _, comment := range comments {
			if err := r.insertComment(ctx, tx, comment); err != nil {
				return err
			}
		}
		for _, like := range likes {
			if err := r.insertLike(ctx, tx, like); err != nil {
				return err
			}
		}
		// Fixture users carry follower id lists; materialize them as edges.
		for _, user := range users {
			for _, followerID := range user.FollowerIDs {
				_, err := tx.Exec(ctx, `
					INSERT INTO user_followers (follower_id, followee_id)
					SELECT $1, $2
					WHERE EXISTS(SELECT 1 FROM users WHERE id = $1)
					ON CONFLICT DO NOTHING
				`, followerID, user.ID)
				if err != nil {
					return fmt.Errorf("failed to add follow edge: %w", err)
				}
			}
		}
		for _, table := range []string{"users", "posts", "comments", "likes"} {
			query := fmt.Sprintf(`
				SELECT setval(
					pg_get_serial_sequence('%[1]s', 'id'),
					(SELECT COALESCE(MAX(id), 0) + 1 FROM %[1]s),
					false
				)
			`, table)
			if _, err := tx.Exec(ctx, query); err != nil {
				return fmt.Errorf("failed to advance %s id sequence: %w", table, err)
			}
		}
		return nil
	})
}
