package models

import "time"

// Comment represents a user's comment on a post. Likes on a comment are a
// bare counter rather than a collection of Like rows.
type Comment struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	PostID    int64     `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
	Text      string    `json:"text"`
	Likes     int       `json:"likes"`
}

// AddLike bumps the comment's like counter.
func (c *Comment) AddLike() {
	c.Likes++
}

// Like represents a user's like on a post. Conceptually at most one Like
// exists per (user, post) pair.
type Like struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	PostID    int64     `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
