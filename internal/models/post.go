package models

import "time"

// MediaType discriminates post media.
type MediaType string

const (
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
)

// Post represents a media post authored by a pet user.
type Post struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Caption       string    `json:"caption"`
	Views         int       `json:"views"`
	CreatedAt     time.Time `json:"created_at"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	Tags          []string  `json:"tags"`
	TaggedUserIDs []int64   `json:"tagged_user_ids"`
	MediaPath     string    `json:"media_path"`
	MediaType     MediaType `json:"media_type"`

	Likes    []*Like    `json:"-"`
	Comments []*Comment `json:"-"`
}

// AddLike attaches a like to the post. A like from a user who already liked
// the post is ignored, keeping the (user, post) pair unique.
func (p *Post) AddLike(l *Like) {
	if l == nil || l.PostID != p.ID {
		return
	}
	for _, existing := range p.Likes {
		if existing.UserID == l.UserID {
			return
		}
	}
	p.Likes = append(p.Likes, l)
}

// RemoveLike detaches the like from userID; absent likes are a no-op.
func (p *Post) RemoveLike(userID int64) {
	for i, existing := range p.Likes {
		if existing.UserID == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return
		}
	}
}

// LikedBy reports whether userID has liked the post.
func (p *Post) LikedBy(userID int64) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}

// AddComment attaches a comment; comments already attached or targeting a
// different post are ignored.
func (p *Post) AddComment(c *Comment) {
	if c == nil || c.PostID != p.ID {
		return
	}
	for _, existing := range p.Comments {
		if existing.ID == c.ID {
			return
		}
	}
	p.Comments = append(p.Comments, c)
}

// RemoveComment detaches a comment; unknown comments are a no-op.
func (p *Post) RemoveComment(commentID int64) {
	for i, existing := range p.Comments {
		if existing.ID == commentID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			return
		}
	}
}

// IncrementViews bumps the monotonic view counter.
func (p *Post) IncrementViews() {
	p.Views++
}

// AddTag appends a tag unless already present.
func (p *Post) AddTag(tag string) {
	for _, existing := range p.Tags {
		if existing == tag {
			return
		}
	}
	p.Tags = append(p.Tags, tag)
}

// RemoveTag drops a tag; absent tags are a no-op.
func (p *Post) RemoveTag(tag string) {
	for i, existing := range p.Tags {
		if existing == tag {
			p.Tags = append(p.Tags[:i], p.Tags[i+1:]...)
			return
		}
	}
}

// TagUser marks a user as tagged in the post.
func (p *Post) TagUser(userID int64) {
	if containsID(p.TaggedUserIDs, userID) {
		return
	}
	p.TaggedUserIDs = append(p.TaggedUserIDs, userID)
}

// UntagUser removes a tagged user; absent ids are a no-op.
func (p *Post) UntagUser(userID int64) {
	p.TaggedUserIDs = removeID(p.TaggedUserIDs, userID)
}

// Thumbnail is a derived, non-persisted view of a post used for grid display.
// It never aliases or mutates the post it was derived from.
type Thumbnail struct {
	PostID    int64     `json:"id"`
	MediaPath string    `json:"media_path"`
	MediaType MediaType `json:"media_type"`
}

// ThumbnailView derives the listing view for the post.
func (p *Post) ThumbnailView() Thumbnail {
	return Thumbnail{PostID: p.ID, MediaPath: p.MediaPath, MediaType: p.MediaType}
}
