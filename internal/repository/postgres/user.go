package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository"

	"github.com/jackc/pgx/v5"
)

func (r *Repository) insertUser(ctx context.Context, q dbtx, user *models.User) error {
	if user == nil {
		return fmt.Errorf("insert user: nil user")
	}
	if strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("insert user: empty username")
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	var err error
	if user.ID == 0 {
		query := `
			INSERT INTO users (kind, username, email, password_hash, profile_picture_path, created_at, bio, animal_type, favourite_animals, friend_ids)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id
		`
		err = q.QueryRow(ctx, query, userRowArgs(user)[1:]...).Scan(&user.ID)
	} else {
		query := `
			INSERT INTO users (` + userColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		_, err = q.Exec(ctx, query, userRowArgs(user)...)
	}
	if err != nil {
		if isPgErr(err, codeUniqueViolation) {
			return repository.ErrNameNotUnique
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// AddPetUser adds one pet user.
func (r *Repository) AddPetUser(ctx context.Context, user *models.User) error {
	if user != nil {
		user.Kind = models.KindPet
	}
	return r.insertUser(ctx, r.db, user)
}

// AddPetUsers adds pet users in one transaction.
func (r *Repository) AddPetUsers(ctx context.Context, users []*models.User) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		for _, user := range users {
			if user != nil {
				user.Kind = models.KindPet
			}
			if err := r.insertUser(ctx, tx, user); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddHumanUser adds one human user.
func (r *Repository) AddHumanUser(ctx context.Context, user *models.User) error {
	if user != nil {
		user.Kind = models.KindHuman
	}
	return r.insertUser(ctx, r.db, user)
}

// AddHumanUsers adds human users in one transaction.
func (r *Repository) AddHumanUsers(ctx context.Context, users []*models.User) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		for _, user := range users {
			if user != nil {
				user.Kind = models.KindHuman
			}
			if err := r.insertUser(ctx, tx, user); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddTempUser stores a provisional account.
func (r *Repository) AddTempUser(ctx context.Context, user *models.User) error {
	if user != nil {
		user.Kind = models.KindTemp
	}
	return r.insertUser(ctx, r.db, user)
}

// UpdateUser persists the mutable profile fields of an existing user.
func (r *Repository) UpdateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("update user: %w", repository.ErrNotFound)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE users
		SET username = $2, email = $3, password_hash = $4, profile_picture_path = $5, bio = $6
		WHERE id = $1
	`, user.ID, user.Username, user.Email, user.PasswordHash, user.ProfilePicturePath, user.Bio)
	if err != nil {
		if isPgErr(err, codeUniqueViolation) {
			return repository.ErrNameNotUnique
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update user %d: %w", user.ID, repository.ErrNotFound)
	}
	return nil
}

// loadFollowEdges fills the cached following/follower id lists from the
// association table.
func (r *Repository) loadFollowEdges(ctx context.Context, q dbtx, user *models.User) error {
	rows, err := q.Query(ctx, `SELECT followee_id FROM user_followers WHERE follower_id = $1 ORDER BY followee_id`, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load following: %w", err)
	}
	user.Following, err = pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return fmt.Errorf("failed to scan following: %w", err)
	}

	rows, err = q.Query(ctx, `SELECT follower_id FROM user_followers WHERE followee_id = $1 ORDER BY follower_id`, user.ID)
	if err != nil {
		return fmt.Errorf("failed to load followers: %w", err)
	}
	user.FollowerIDs, err = pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return fmt.Errorf("failed to scan followers: %w", err)
	}
	return nil
}

func (r *Repository) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	user, err := scanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := r.loadFollowEdges(ctx, r.db, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetPetUserByName looks up a pet user by exact username.
func (r *Repository) GetPetUserByName(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, `username = $1 AND kind = 'pet'`, username)
}

// GetPetUserByID looks up a pet user by id.
func (r *Repository) GetPetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, `id = $1 AND kind = 'pet'`, id)
}

// GetHumanUserByName looks up a human user by exact username.
func (r *Repository) GetHumanUserByName(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, `username = $1 AND kind = 'human'`, username)
}

// GetHumanUserByID looks up a human user by id.
func (r *Repository) GetHumanUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, `id = $1 AND kind = 'human'`, id)
}

// GetUserByName looks a user up by username regardless of kind.
func (r *Repository) GetUserByName(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, `username = $1`, username)
}

// GetUserByID looks a user up by id regardless of kind.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getUser(ctx, `id = $1`, id)
}

func (r *Repository) listUsers(ctx context.Context, kind models.UserKind) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE kind = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// GetPetUsers lists all pet users ordered by id.
func (r *Repository) GetPetUsers(ctx context.Context) ([]*models.User, error) {
	return r.listUsers(ctx, models.KindPet)
}

// GetHumanUsers lists all human users ordered by id.
func (r *Repository) GetHumanUsers(ctx context.Context) ([]*models.User, error) {
	return r.listUsers(ctx, models.KindHuman)
}

// TotalUserCount returns the combined user count across all kinds.
func (r *Repository) TotalUserCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// ConvertUser switches a user's kind as a delete-old-row plus insert-new-row
// inside one transaction. The numeric id and shared fields carry over, and
// the follow edges are restored after the replacement row is in place.
func (r *Repository) ConvertUser(ctx context.Context, userID int64, to models.UserKind, animal models.AnimalType) (*models.User, error) {
	var converted *models.User
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
		existing, err := scanUser(tx.QueryRow(ctx, query, userID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return repository.ErrNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		if existing.Kind == to {
			return repository.ErrAlreadyConverted
		}
		if existing.Kind == models.KindPet && to != models.KindPet {
			var postCount int
			if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID).Scan(&postCount); err != nil {
				return fmt.Errorf("failed to count posts: %w", err)
			}
			if postCount > 0 {
				return fmt.Errorf("convert user: pet account still owns %d posts", postCount)
			}
		}

		converted, err = models.ConvertUser(existing, to, animal)
		if err != nil {
			return err
		}

		// Deleting the row cascades the association edges, so read them
		// first and restore them once the replacement row exists.
		rows, err := tx.Query(ctx, `
			SELECT follower_id, followee_id FROM user_followers
			WHERE follower_id = $1 OR followee_id = $1
		`, userID)
		if err != nil {
			return fmt.Errorf("failed to load follow edges: %w", err)
		}
		edges, err := pgx.CollectRows(rows, pgx.RowToStructByPos[repository.FollowEdge])
		if err != nil {
			return fmt.Errorf("failed to scan follow edges: %w", err)
		}
		for _, edge := range edges {
			if edge.FollowerID == userID {
				converted.Follow(edge.FolloweeID)
			}
			if edge.FolloweeID == userID {
				converted.AddFollower(edge.FollowerID)
			}
		}

		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		if err := r.insertUser(ctx, tx, converted); err != nil {
			return err
		}
		for _, edge := range edges {
			if _, err := tx.Exec(ctx, `
				INSERT INTO user_followers (follower_id, followee_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, edge.FollowerID, edge.FolloweeID); err != nil {
				return fmt.Errorf("failed to restore follow edge: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return converted, nil
}
