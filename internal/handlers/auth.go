package handlers

import (
	"encoding/json"
	"net/http"

	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// AuthHandler handles registration and login requests
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRequest is the register payload. Kind selects the account type;
// animal_type is required for pet accounts.
type RegisterRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Kind       string `json:"kind"`
	AnimalType string `json:"animal_type,omitempty"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries the user and a bearer token
type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var user *models.User
	var err error
	switch models.UserKind(req.Kind) {
	case models.KindPet:
		animal := models.AnimalType(req.AnimalType)
		if !animal.Valid() {
			respondError(w, "Invalid animal type", http.StatusBadRequest)
			return
		}
		user, err = h.authService.RegisterPetUser(ctx, req.Username, req.Email, req.Password, animal)
	case models.KindHuman:
		user, err = h.authService.RegisterHumanUser(ctx, req.Username, req.Email, req.Password)
	case models.KindTemp:
		user, err = h.authService.RegisterTempUser(ctx, req.Username, req.Email, req.Password)
	default:
		respondError(w, "Invalid user kind", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("Failed to register user")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	token, err := h.authService.GenerateJWT(user.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to issue token")
		respondError(w, "Failed to issue token", http.StatusInternalServerError)
		return
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Str("kind", string(user.Kind)).
		Msg("User registered")

	respondJSON(w, http.StatusCreated, AuthResponse{User: user, Token: token})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, token, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", req.Username).Msg("Login failed")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, AuthResponse{User: user, Token: token})
}
