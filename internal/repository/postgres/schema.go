package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the schema if it does not exist. Ids are store-native
// identity columns; the follower relation is a dedicated association table
// keyed by (follower_id, followee_id).
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			kind TEXT NOT NULL CHECK (kind IN ('temp', 'pet', 'human')),
			username TEXT UNIQUE NOT NULL CHECK (username <> ''),
			email TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			profile_picture_path TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			bio TEXT NOT NULL DEFAULT '',
			animal_type TEXT NOT NULL DEFAULT '',
			favourite_animals TEXT[] NOT NULL DEFAULT '{}',
			friend_ids BIGINT[] NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			caption TEXT NOT NULL DEFAULT '',
			views INT NOT NULL DEFAULT 0 CHECK (views >= 0),
			created_at TIMESTAMPTZ NOT NULL,
			width INT NOT NULL DEFAULT 0,
			height INT NOT NULL DEFAULT 0,
			tags TEXT[] NOT NULL DEFAULT '{}',
			tagged_user_ids BIGINT[] NOT NULL DEFAULT '{}',
			media_path TEXT NOT NULL,
			media_type TEXT NOT NULL CHECK (media_type IN ('photo', 'video'))
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL,
			body TEXT NOT NULL,
			likes INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS likes (
			id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, post_id)
		)`,
		`CREATE TABLE IF NOT EXISTS user_followers (
			follower_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			followee_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			PRIMARY KEY (follower_id, followee_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id)`,
		`CREATE INDEX IF NOT EXISTS idx_likes_post_id ON likes(post_id)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
	}
	return nil
}
