package postgres

import (
	"pet-feed-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// Explicit per-entity row mappings. The relationship between the domain
// model and the storage schema lives in these functions and nowhere else.

const userColumns = `id, kind, username, email, password_hash, profile_picture_path, created_at, bio, animal_type, favourite_animals, friend_ids`

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u          models.User
		kind       string
		animal     string
		favourites []string
	)
	err := row.Scan(
		&u.ID, &kind, &u.Username, &u.Email, &u.PasswordHash,
		&u.ProfilePicturePath, &u.CreatedAt, &u.Bio, &animal,
		&favourites, &u.FriendIDs,
	)
	if err != nil {
		return nil, err
	}
	u.Kind = models.UserKind(kind)
	u.AnimalType = models.AnimalType(animal)
	for _, a := range favourites {
		u.FavouriteAnimals = append(u.FavouriteAnimals, models.AnimalType(a))
	}
	return &u, nil
}

func userRowArgs(u *models.User) []any {
	favourites := make([]string, 0, len(u.FavouriteAnimals))
	for _, a := range u.FavouriteAnimals {
		favourites = append(favourites, string(a))
	}
	friendIDs := u.FriendIDs
	if friendIDs == nil {
		friendIDs = []int64{}
	}
	return []any{
		u.ID, string(u.Kind), u.Username, u.Email, u.PasswordHash,
		u.ProfilePicturePath, u.CreatedAt, u.Bio, string(u.AnimalType),
		favourites, friendIDs,
	}
}

const postColumns = `id, user_id, caption, views, created_at, width, height, tags, tagged_user_ids, media_path, media_type`

func scanPost(row pgx.Row) (*models.Post, error) {
	var (
		p         models.Post
		mediaType string
	)
	err := row.Scan(
		&p.ID, &p.UserID, &p.Caption, &p.Views, &p.CreatedAt,
		&p.Width, &p.Height, &p.Tags, &p.TaggedUserIDs,
		&p.MediaPath, &mediaType,
	)
	if err != nil {
		return nil, err
	}
	p.MediaType = models.MediaType(mediaType)
	return &p, nil
}

func postRowArgs(p *models.Post) []any {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	taggedUserIDs := p.TaggedUserIDs
	if taggedUserIDs == nil {
		taggedUserIDs = []int64{}
	}
	return []any{
		p.ID, p.UserID, p.Caption, p.Views, p.CreatedAt,
		p.Width, p.Height, tags, taggedUserIDs,
		p.MediaPath, string(p.MediaType),
	}
}

const commentColumns = `id, user_id, post_id, created_at, body, likes`

func scanComment(row pgx.Row) (*models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.UserID, &c.PostID, &c.CreatedAt, &c.Text, &c.Likes)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func commentRowArgs(c *models.Comment) []any {
	return []any{c.ID, c.UserID, c.PostID, c.CreatedAt, c.Text, c.Likes}
}

const likeColumns = `id, user_id, post_id, created_at`

func scanLike(row pgx.Row) (*models.Like, error) {
	var l models.Like
	err := row.Scan(&l.ID, &l.UserID, &l.PostID, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func likeRowArgs(l *models.Like) []any {
	return []any{l.ID, l.UserID, l.PostID, l.CreatedAt}
}
