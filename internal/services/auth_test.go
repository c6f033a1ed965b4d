package services

import (
	"context"
	"testing"

	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository"
	"pet-feed-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestRegisterAndLoginRoundTrip(t *testing.T) {
	svc := NewAuthService(memory.New(), testSecret)
	ctx := context.Background()

	user, err := svc.RegisterPetUser(ctx, "rex", "rex@example.com", "Sup3rSecret", models.AnimalDog)
	require.NoError(t, err)
	assert.Equal(t, models.KindPet, user.Kind)
	assert.NotEqual(t, "Sup3rSecret", user.PasswordHash, "password must be stored hashed")

	loggedIn, token, err := svc.Login(ctx, "rex", "Sup3rSecret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	require.NotEmpty(t, token)

	userID, err := svc.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestLoginDistinguishesFailures(t *testing.T) {
	svc := NewAuthService(memory.New(), testSecret)
	ctx := context.Background()

	_, err := svc.RegisterHumanUser(ctx, "ava", "ava@example.com", "Sup3rSecret")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "nobody", "Sup3rSecret")
	assert.ErrorIs(t, err, ErrUnknownUser)

	_, _, err = svc.Login(ctx, "ava", "WrongPass1")
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestRegisterValidatesCredentials(t *testing.T) {
	svc := NewAuthService(memory.New(), testSecret)
	ctx := context.Background()

	_, err := svc.RegisterHumanUser(ctx, "ab", "x@example.com", "Sup3rSecret")
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = svc.RegisterHumanUser(ctx, "has space", "x@example.com", "Sup3rSecret")
	assert.ErrorIs(t, err, ErrInvalidUsername)

	for _, password := range []string{"short1A", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		_, err = svc.RegisterHumanUser(ctx, "valid", "x@example.com", password)
		assert.ErrorIs(t, err, ErrWeakPassword, password)
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc := NewAuthService(memory.New(), testSecret)
	ctx := context.Background()

	_, err := svc.RegisterPetUser(ctx, "rex", "rex@example.com", "Sup3rSecret", models.AnimalDog)
	require.NoError(t, err)

	_, err = svc.RegisterHumanUser(ctx, "rex", "other@example.com", "Sup3rSecret")
	assert.ErrorIs(t, err, repository.ErrNameNotUnique)
}

func TestChangePassword(t *testing.T) {
	repo := memory.New()
	svc := NewAuthService(repo, testSecret)
	ctx := context.Background()

	user, err := svc.RegisterHumanUser(ctx, "ava", "ava@example.com", "Sup3rSecret")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, user, "weak"), ErrWeakPassword)

	require.NoError(t, svc.ChangePassword(ctx, user, "N3wSecret!"))
	_, _, err = svc.Login(ctx, "ava", "Sup3rSecret")
	assert.ErrorIs(t, err, ErrAuthentication)
	_, _, err = svc.Login(ctx, "ava", "N3wSecret!")
	assert.NoError(t, err)
}

func TestValidateJWTRejectsForeignTokens(t *testing.T) {
	svc := NewAuthService(memory.New(), testSecret)
	other := NewAuthService(memory.New(), "different-secret")

	token, err := other.GenerateJWT(42)
	require.NoError(t, err)

	_, err = svc.ValidateJWT(token)
	assert.Error(t, err)

	_, err = svc.ValidateJWT("not-a-token")
	assert.Error(t, err)
}
