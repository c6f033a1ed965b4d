package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowIsIdempotent(t *testing.T) {
	u := NewHumanUser(1, "ava", "ava@example.com", "hash", time.Now())

	u.Follow(7)
	u.Follow(7)
	u.Follow(9)

	assert.Equal(t, []int64{7, 9}, u.Following)
	assert.True(t, u.IsFollowing(7))
	assert.False(t, u.IsFollowing(8))

	u.Unfollow(7)
	u.Unfollow(7)
	assert.Equal(t, []int64{9}, u.Following)
}

func TestAddPostRejectsForeignPosts(t *testing.T) {
	u := NewPetUser(3, "rex", "rex@example.com", "hash", AnimalDog, time.Now())

	u.AddPost(&Post{ID: 10, UserID: 3})
	u.AddPost(&Post{ID: 10, UserID: 3})
	u.AddPost(&Post{ID: 11, UserID: 4})

	require.Len(t, u.Posts, 1)
	assert.Equal(t, int64(10), u.Posts[0].ID)
}

func TestConvertUserCarriesSharedFields(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	temp := NewTempUser(5, "newbie", "newbie@example.com", "hash", created)
	temp.Bio = "hello"
	temp.Follow(2)
	temp.AddFollower(8)

	pet, err := ConvertUser(temp, KindPet, AnimalCat)
	require.NoError(t, err)

	assert.Equal(t, int64(5), pet.ID)
	assert.Equal(t, KindPet, pet.Kind)
	assert.Equal(t, "newbie", pet.Username)
	assert.Equal(t, "hash", pet.PasswordHash)
	assert.Equal(t, "hello", pet.Bio)
	assert.Equal(t, created, pet.CreatedAt)
	assert.Equal(t, AnimalCat, pet.AnimalType)
	assert.Equal(t, []int64{2}, pet.Following)
	assert.Equal(t, []int64{8}, pet.FollowerIDs)
	assert.Empty(t, pet.Posts)
}

func TestConvertUserRejectsInvalidTargets(t *testing.T) {
	human := NewHumanUser(1, "ava", "ava@example.com", "hash", time.Now())

	_, err := ConvertUser(nil, KindPet, AnimalDog)
	assert.Error(t, err)

	_, err = ConvertUser(human, KindTemp, "")
	assert.Error(t, err)

	_, err = ConvertUser(human, KindHuman, "")
	assert.Error(t, err)
}

func TestConvertUserRejectsPetWithPosts(t *testing.T) {
	pet := NewPetUser(2, "rex", "rex@example.com", "hash", AnimalDog, time.Now())
	pet.AddPost(&Post{ID: 1, UserID: 2})

	_, err := ConvertUser(pet, KindHuman, "")
	assert.Error(t, err)

	// Once the post is gone the conversion goes through.
	pet.RemovePost(&Post{ID: 1, UserID: 2})
	human, err := ConvertUser(pet, KindHuman, "")
	require.NoError(t, err)
	assert.Equal(t, KindHuman, human.Kind)
}

func TestUserKindValid(t *testing.T) {
	assert.True(t, KindPet.Valid())
	assert.True(t, KindHuman.Valid())
	assert.True(t, KindTemp.Valid())
	assert.False(t, UserKind("robot").Valid())
}
