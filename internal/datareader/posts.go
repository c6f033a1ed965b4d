package datareader

import (
	"fmt"
	"strconv"
	"strings"

	"pet-feed-backend/internal/models"
)

// ReadPosts parses the posts fixture table. Column schema:
// id, user_id, caption, views, created_at, size ("W, H"), tags (comma-list),
// media_path, media_type.
func ReadPosts(path string) ([]*models.Post, error) {
	var posts []*models.Post
	err := forEachRow(path, func(r row) error {
		id, err := strconv.ParseInt(r.get("id"), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse post id: %w", err)
		}
		userID, err := strconv.ParseInt(r.get("user_id"), 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse post user id: %w", err)
		}
		views, err := strconv.Atoi(r.get("views"))
		if err != nil {
			return fmt.Errorf("failed to parse post views: %w", err)
		}
		createdAt, err := parseTimestamp(r.get("created_at"))
		if err != nil {
			return err
		}
		width, height, err := parseSize(r.get("size"))
		if err != nil {
			return err
		}
		mediaType := models.MediaType(r.get("media_type"))
		if mediaType != models.MediaPhoto && mediaType != models.MediaVideo {
			return fmt.Errorf("unknown media type %q", r.get("media_type"))
		}

		posts = append(posts, &models.Post{
			ID:        id,
			UserID:    userID,
			Caption:   r.get("caption"),
			Views:     views,
			CreatedAt: createdAt,
			Width:     width,
			Height:    height,
			Tags:      splitList(r.get("tags")),
			MediaPath: r.get("media_path"),
			MediaType: mediaType,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// parseSize parses a "W, H" pixel dimension pair; an empty column means the
// dimensions are unknown.
func parseSize(value string) (int, int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, 0, nil
	}
	parts := splitList(value)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("failed to parse size %q", value)
	}
	width, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse size width: %w", err)
	}
	height, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse size height: %w", err)
	}
	return width, height, nil
}
