package postgres

import (
	"context"
	"fmt"

	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository"

	"github.com/jackc/pgx/v5"
)

// FollowUser adds a follow edge to the association table and synchronizes
// both endpoint objects' cached id lists. Following twice is a no-op.
func (r *Repository) FollowUser(ctx context.Context, follower, followee *models.User) error {
	if follower == nil || followee == nil {
		return repository.ErrReferencedEntityNotFound
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_followers (follower_id, followee_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, follower.ID, followee.ID)
	if err != nil {
		if isPgErr(err, codeForeignKeyViolation) {
			return repository.ErrReferencedEntityNotFound
		}
		return fmt.Errorf("failed to follow user: %w", err)
	}
	follower.Follow(followee.ID)
	followee.AddFollower(follower.ID)
	return nil
}

// UnfollowUser removes a follow edge; unfollowing when not following is a
// no-op.
func (r *Repository) UnfollowUser(ctx context.Context, follower, followee *models.User) error {
	if follower == nil || followee == nil {
		return nil
	}
	_, err := r.db.Exec(ctx, `
		DELETE FROM user_followers WHERE follower_id = $1 AND followee_id = $2
	`, follower.ID, followee.ID)
	if err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	follower.Unfollow(followee.ID)
	followee.RemoveFollower(follower.ID)
	return nil
}

// IsFollowing reports whether the follow edge exists.
func (r *Repository) IsFollowing(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var following bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM user_followers WHERE follower_id = $1 AND followee_id = $2)
	`, followerID, followeeID).Scan(&following)
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return following, nil
}

// GetFollowers lists the follower ids for the user.
func (r *Repository) GetFollowers(ctx context.Context, userID int64) ([]int64, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check user existence: %w", err)
	}
	if !exists {
		return nil, repository.ErrNotFound
	}
	rows, err := r.db.Query(ctx, `
		SELECT follower_id FROM user_followers WHERE followee_id = $1 ORDER BY follower_id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}
	followers, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("failed to scan followers: %w", err)
	}
	return followers, nil
}

// AddFollowerEdges bulk-adds follow edges in one transaction; edges naming
// unknown users are skipped.
func (r *Repository) AddFollowerEdges(ctx context.Context, edges []repository.FollowEdge) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		for _, edge := range edges {
			_, err := tx.Exec(ctx, `
				INSERT INTO user_followers (follower_id, followee_id)
				SELECT $1, $2
				WHERE EXISTS(SELECT 1 FROM users WHERE id = $1)
				  AND EXISTS(SELECT 1 FROM users WHERE id = $2)
				ON CONFLICT DO NOTHING
			`, edge.FollowerID, edge.FolloweeID)
			if err != nil {
				return fmt.Errorf("failed to add follow edge: %w", err)
			}
		}
		return nil
	})
}
