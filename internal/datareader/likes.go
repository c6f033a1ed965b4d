package datareader

import (
	"fmt"
	"strconv"

	"pet-feed-backend/internal/models"
)

// ReadLikes parses the likes fixture table. Column schema:
// id, user_id, post_id, created_at.
func ReadLikes(path string) ([]*models.Like, error) {
	var likes []*models.Like
	err := forEachRow(path, func(r row) error {
		id, err := strconv.ParseInt(r.get("id"), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse like id: %w", err)
		}
		userID, err := strconv.ParseInt(r.get("user_id"), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse like user id: %w", err)
		}
		postID, err := strconv.ParseInt(r.get("post_id"), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse like post id: %w", err)
		}
		createdAt, err := parseTimestamp(r.get("created_at"))
		if err != nil {
			return err
		}

		likes = append(likes, &models.Like{
			ID:        id,
			UserID:    userID,
			PostID:    postID,
			CreatedAt: createdAt,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return likes, nil
}
