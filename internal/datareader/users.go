package datareader

import (
	"fmt"
	"strconv"

	"pet-feed-backend/internal/models"
)

// ReadPetUsers parses the pet user fixture table. Column schema:
// id, username, email, password_hash, profile_image_path, created_at, bio,
// follower_ids (comma-list).
func ReadPetUsers(path string) ([]*models.User, error) {
	var users []*models.User
	err := forEachRow(path, func(r row) error {
		id, err := strconv.ParseInt(r.get("id"), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse user id: %w", err)
		}
		createdAt, err := parseTimestamp(r.get("created_at"))
		if err != nil {
			return err
		}
		followerIDs, err := splitIDList(r.get("follower_ids"))
		if err != nil {
			return err
		}

		animal := models.AnimalType(r.get("animal_type"))
		if !animal.Valid() {
			animal = models.AnimalOther
		}

		user := models.NewPetUser(id, r.get("username"), r.get("email"), r.get("password_hash"), animal, createdAt)
		user.ProfilePicturePath = r.get("profile_image_path")
		user.Bio = r.get("bio")
		user.FollowerIDs = followerIDs
		users = append(users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
