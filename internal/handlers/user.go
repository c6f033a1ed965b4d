package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository"
	"pet-feed-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// maxAvatarBytes caps profile picture uploads.
const maxAvatarBytes = 10 << 20

// UserHandler handles profile, follow and conversion requests
type UserHandler struct {
	userService *services.UserService
	repo        repository.Repository
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService, repo repository.Repository) *UserHandler {
	return &UserHandler{
		userService: userService,
		repo:        repo,
	}
}

// GetProfile handles GET /api/v1/profiles/{username}
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := chi.URLParam(r, "username")

	user, err := h.userService.GetProfile(ctx, username)
	if err != nil {
		respondError(w, "User not found", statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateBioRequest is the bio update payload
type UpdateBioRequest struct {
	Bio string `json:"bio"`
}

// UpdateBio handles PUT /api/v1/me/bio
func (h *UserHandler) UpdateBio(w http.ResponseWriter, r *http.Request) {
	user, err := authedUser(r, h.repo)
	if err != nil {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var req UpdateBioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.userService.UpdateBio(r.Context(), user, req.Bio); err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UploadAvatar handles POST /api/v1/me/avatar with a multipart "file" part
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, err := authedUser(r, h.repo)
	if err != nil {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, "file part required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	path, err := h.userService.SaveProfilePicture(r.Context(), user, header.Filename, file)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to save profile picture")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"profile_picture_path": path})
}

// Follow handles POST /api/v1/users/{id}/follow
func (h *UserHandler) Follow(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, true)
}

// Unfollow handles DELETE /api/v1/users/{id}/follow
func (h *UserHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.changeFollow(w, r, false)
}

func (h *UserHandler) changeFollow(w http.ResponseWriter, r *http.Request, follow bool) {
	user, err := authedUser(r, h.repo)
	if err != nil {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	followeeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	if follow {
		err = h.userService.Follow(r.Context(), user, followeeID)
	} else {
		err = h.userService.Unfollow(r.Context(), user, followeeID)
	}
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}

	following, err := h.userService.IsFollowing(r.Context(), user.ID, followeeID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"following": following})
}

// Followers handles GET /api/v1/users/{id}/followers
func (h *UserHandler) Followers(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	followers, err := h.userService.Followers(r.Context(), userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"followers": followers,
		"total":     len(followers),
	})
}

// ConvertRequest selects the target kind for an account conversion
type ConvertRequest struct {
	Kind       string `json:"kind"`
	AnimalType string `json:"animal_type,omitempty"`
}

// Convert handles POST /api/v1/me/convert
func (h *UserHandler) Convert(w http.ResponseWriter, r *http.Request) {
	user, err := authedUser(r, h.repo)
	if err != nil {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	to := models.UserKind(req.Kind)
	animal := models.AnimalType(req.AnimalType)
	if to == models.KindPet && !animal.Valid() {
		respondError(w, "Invalid animal type", http.StatusBadRequest)
		return
	}

	converted, err := h.userService.Convert(r.Context(), user.ID, to, animal)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Str("kind", req.Kind).Msg("Failed to convert user")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	log.Info().
		Int64("user_id", converted.ID).
		Str("kind", string(converted.Kind)).
		Msg("User converted")

	respondJSON(w, http.StatusOK, converted)
}
