package datareader

import (
	"fmt"
	"strconv"

	"pet-feed-backend/internal/models"
)

// ReadComments parses the comments fixture table. Column schema:
// id, user_id, post_id, created_at, comment_string, likes.
func ReadComments(path string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := forEachRow(path, func(r row) error {
		id, err := strconv.ParseInt(r.get("id"), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse comment id: %w", err)
		}
		userID, err := strconv.ParseInt(r.get("user_id"), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse comment user id: %w", err)
		}
		postID, err := strconv.ParseInt(r.get("post_id"), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse comment post id: %w", err)
		}
		createdAt, err := parseTimestamp(r.get("created_at"))
		if err != nil {
			return err
		}
		likes, err := strconv.Atoi(r.get("likes"))
		if err != nil {
			return fmt.Errorf("failed to parse comment likes: %w", err)
		}

		comments = append(comments, &models.Comment{
			ID:        id,
			UserID:    userID,
			PostID:    postID,
			CreatedAt: createdAt,
			Text:      r.get("comment_string"),
			Likes:     likes,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}
