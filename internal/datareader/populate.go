package datareader

import (
	"context"
	"fmt"

	"pet-feed-backend/internal/repository"
)

// Populate loads the fixture tables from dir into the repository. The
// memory backend takes the fast direct-assignment path; the persistent
// backend replays the same data as individual inserts.
func Populate(ctx context.Context, repo repository.Repository, dir string) error {
	ds, err := Load(dir)
	if err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}
	if err := repo.Populate(ctx, ds.PetUsers, ds.Posts, ds.Likes, ds.Comments); err != nil {
		return fmt.Errorf("failed to populate repository: %w", err)
	}
	return nil
}
