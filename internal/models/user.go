package models

import (
	"fmt"
	"time"
)

// UserKind discriminates the closed set of account variants.
type UserKind string

const (
	// KindTemp is a provisional identity created before the account type is
	// finalized. It can be converted to a pet or human account exactly once.
	KindTemp UserKind = "temp"
	// KindPet is an animal account; the only kind that can author posts.
	KindPet UserKind = "pet"
	// KindHuman is a human account; it can have favourite animals and friends
	// but cannot author posts.
	KindHuman UserKind = "human"
)

// Valid reports whether k is one of the known user kinds.
func (k UserKind) Valid() bool {
	switch k {
	case KindTemp, KindPet, KindHuman:
		return true
	}
	return false
}

// User represents an account of any kind. Kind-specific fields (AnimalType,
// Posts, FollowerIDs for pets; FavouriteAnimals, FriendIDs for humans) are
// only meaningful for the matching kind and stay empty otherwise.
type User struct {
	ID                 int64     `json:"id"`
	Kind               UserKind  `json:"kind"`
	Username           string    `json:"username"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	ProfilePicturePath string    `json:"profile_picture_path"`
	CreatedAt          time.Time `json:"created_at"`
	Bio                string    `json:"bio"`

	// Following holds the ids of users this user follows.
	Following []int64 `json:"following"`
	// Comments holds the comments authored by this user.
	Comments []*Comment `json:"-"`

	// Pet-only fields.
	AnimalType  AnimalType `json:"animal_type,omitempty"`
	Posts       []*Post    `json:"-"`
	FollowerIDs []int64    `json:"follower_ids,omitempty"`

	// Human-only fields.
	FavouriteAnimals []AnimalType `json:"favourite_animals,omitempty"`
	FriendIDs        []int64      `json:"friend_ids,omitempty"`
}

// NewPetUser creates a pet account.
func NewPetUser(id int64, username, email, passwordHash string, animal AnimalType, createdAt time.Time) *User {
	return &User{
		ID:           id,
		Kind:         KindPet,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
		AnimalType:   animal,
	}
}

// NewHumanUser creates a human account.
func NewHumanUser(id int64, username, email, passwordHash string, createdAt time.Time) *User {
	return &User{
		ID:           id,
		Kind:         KindHuman,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}
}

// NewTempUser creates a provisional account awaiting conversion.
func NewTempUser(id int64, username, email, passwordHash string, createdAt time.Time) *User {
	return &User{
		ID:           id,
		Kind:         KindTemp,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}
}

// Follow records that the user follows followeeID. Adding an id already
// present is a no-op.
func (u *User) Follow(followeeID int64) {
	if containsID(u.Following, followeeID) {
		return
	}
	u.Following = append(u.Following, followeeID)
}

// Unfollow removes followeeID from the following set; absent ids are a no-op.
func (u *User) Unfollow(followeeID int64) {
	u.Following = removeID(u.Following, followeeID)
}

// IsFollowing reports whether followeeID is in the following set.
func (u *User) IsFollowing(followeeID int64) bool {
	return containsID(u.Following, followeeID)
}

// AddFollower records followerID in the reverse edge cache.
func (u *User) AddFollower(followerID int64) {
	if containsID(u.FollowerIDs, followerID) {
		return
	}
	u.FollowerIDs = append(u.FollowerIDs, followerID)
}

// RemoveFollower removes followerID from the reverse edge cache.
func (u *User) RemoveFollower(followerID int64) {
	u.FollowerIDs = removeID(u.FollowerIDs, followerID)
}

// AddPost attaches a post to the owning pet user. Posts already attached are
// ignored, as are posts that belong to another user.
func (u *User) AddPost(p *Post) {
	if p == nil || p.UserID != u.ID {
		return
	}
	for _, existing := range u.Posts {
		if existing.ID == p.ID {
			return
		}
	}
	u.Posts = append(u.Posts, p)
}

// RemovePost detaches a post; unknown posts are a no-op.
func (u *User) RemovePost(p *Post) {
	if p == nil {
		return
	}
	for i, existing := range u.Posts {
		if existing.ID == p.ID {
			u.Posts = append(u.Posts[:i], u.Posts[i+1:]...)
			return
		}
	}
}

// AddComment records a comment authored by this user.
func (u *User) AddComment(c *Comment) {
	if c == nil {
		return
	}
	for _, existing := range u.Comments {
		if existing.ID == c.ID {
			return
		}
	}
	u.Comments = append(u.Comments, c)
}

// RemoveComment forgets an authored comment; unknown comments are a no-op.
func (u *User) RemoveComment(c *Comment) {
	if c == nil {
		return
	}
	for i, existing := range u.Comments {
		if existing.ID == c.ID {
			u.Comments = append(u.Comments[:i], u.Comments[i+1:]...)
			return
		}
	}
}

// AddFavouriteAnimal adds an animal tag to a human account.
func (u *User) AddFavouriteAnimal(a AnimalType) {
	if !a.Valid() {
		return
	}
	for _, existing := range u.FavouriteAnimals {
		if existing == a {
			return
		}
	}
	u.FavouriteAnimals = append(u.FavouriteAnimals, a)
}

// RemoveFavouriteAnimal removes an animal tag; absent tags are a no-op.
func (u *User) RemoveFavouriteAnimal(a AnimalType) {
	for i, existing := range u.FavouriteAnimals {
		if existing == a {
			u.FavouriteAnimals = append(u.FavouriteAnimals[:i], u.FavouriteAnimals[i+1:]...)
			return
		}
	}
}

// AddFriend records a friend edge on a human account.
func (u *User) AddFriend(friendID int64) {
	if containsID(u.FriendIDs, friendID) {
		return
	}
	u.FriendIDs = append(u.FriendIDs, friendID)
}

// RemoveFriend removes a friend edge; absent edges are a no-op.
func (u *User) RemoveFriend(friendID int64) {
	u.FriendIDs = removeID(u.FriendIDs, friendID)
}

// ConvertUser produces the replacement user for an account switching kind.
// The numeric id, username, email, password hash, profile path, bio, creation
// time and follow edges carry over; kind-specific collections start empty on
// the new account. A pet account that still owns posts cannot be converted
// away from the pet kind.
func ConvertUser(existing *User, to UserKind, animal AnimalType) (*User, error) {
	if existing == nil {
		return nil, fmt.Errorf("convert user: nil user")
	}
	if !to.Valid() || to == KindTemp {
		return nil, fmt.Errorf("convert user: invalid target kind %q", to)
	}
	if existing.Kind == to {
		return nil, fmt.Errorf("convert user: already a %s account", to)
	}
	if existing.Kind == KindPet && len(existing.Posts) > 0 {
		return nil, fmt.Errorf("convert user: pet account still owns %d posts", len(existing.Posts))
	}

	converted := &User{
		ID:                 existing.ID,
		Kind:               to,
		Username:           existing.Username,
		Email:              existing.Email,
		PasswordHash:       existing.PasswordHash,
		ProfilePicturePath: existing.ProfilePicturePath,
		CreatedAt:          existing.CreatedAt,
		Bio:                existing.Bio,
		Following:          append([]int64(nil), existing.Following...),
	}
	switch to {
	case KindPet:
		converted.AnimalType = animal
		converted.FollowerIDs = append([]int64(nil), existing.FollowerIDs...)
	case KindHuman:
		// follower edges pointing at the account survive the switch
		converted.FollowerIDs = append([]int64(nil), existing.FollowerIDs...)
	}
	return converted, nil
}

func containsID(ids []int64, id int64) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func removeID(ids []int64, id int64) []int64 {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
