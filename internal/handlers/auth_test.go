package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pet-feed-backend/internal/repository/memory"
	"pet-feed-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, handler http.HandlerFunc, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestRegisterAndLoginEndpoints(t *testing.T) {
	authService := services.NewAuthService(memory.New(), "secret")
	h := NewAuthHandler(authService)

	rec := postJSON(t, h.Register, "/api/v1/auth/register", RegisterRequest{
		Username:   "rex",
		Email:      "rex@example.com",
		Password:   "Sup3rSecret",
		Kind:       "pet",
		AnimalType: "Dog",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "rex", created.User.Username)

	rec = postJSON(t, h.Login, "/api/v1/auth/login", LoginRequest{Username: "rex", Password: "Sup3rSecret"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, h.Login, "/api/v1/auth/login", LoginRequest{Username: "rex", Password: "WrongPass1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(t, h.Login, "/api/v1/auth/login", LoginRequest{Username: "nobody", Password: "Sup3rSecret"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterRejectsBadInput(t *testing.T) {
	authService := services.NewAuthService(memory.New(), "secret")
	h := NewAuthHandler(authService)

	rec := postJSON(t, h.Register, "/api/v1/auth/register", RegisterRequest{
		Username: "rex", Email: "rex@example.com", Password: "Sup3rSecret", Kind: "robot",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h.Register, "/api/v1/auth/register", RegisterRequest{
		Username: "rex", Email: "rex@example.com", Password: "Sup3rSecret", Kind: "pet", AnimalType: "Dragon",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, h.Register, "/api/v1/auth/register", RegisterRequest{
		Username: "rex", Email: "rex@example.com", Password: "weak", Kind: "human",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	authService := services.NewAuthService(memory.New(), "secret")
	h := NewAuthHandler(authService)

	payload := RegisterRequest{Username: "rex", Email: "rex@example.com", Password: "Sup3rSecret", Kind: "human"}
	rec := postJSON(t, h.Register, "/api/v1/auth/register", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, h.Register, "/api/v1/auth/register", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
