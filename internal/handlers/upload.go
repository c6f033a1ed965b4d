package handlers

import (
	"encoding/json"
	"net/http"

	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository"
	"pet-feed-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// maxUploadBytes caps post media uploads.
const maxUploadBytes = 100 << 20

// UploadHandler handles the two-step post upload flow
type UploadHandler struct {
	uploadService *services.UploadService
	repo          repository.Repository
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(uploadService *services.UploadService, repo repository.Repository) *UploadHandler {
	return &UploadHandler{
		uploadService: uploadService,
		repo:          repo,
	}
}

// Stage handles POST /api/v1/uploads with a multipart "file" part. Only pet
// accounts can author posts.
func (h *UploadHandler) Stage(w http.ResponseWriter, r *http.Request) {
	user, err := authedUser(r, h.repo)
	if err != nil {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	if user.Kind != models.KindPet {
		respondError(w, "Only pet accounts can post", http.StatusForbidden)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, "file part required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	pending, err := h.uploadService.Stage(user, header.Filename, file)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Str("filename", header.Filename).Msg("Failed to stage upload")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusCreated, pending)
}

// FinalizeRequest carries the caption and tags for a staged upload
type FinalizeRequest struct {
	Caption string   `json:"caption"`
	Tags    []string `json:"tags,omitempty"`
}

// Finalize handles POST /api/v1/uploads/{id}/finalize
func (h *UploadHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	user, err := authedUser(r, h.repo)
	if err != nil {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	uploadID := chi.URLParam(r, "id")
	if uploadID == "" {
		respondError(w, "Invalid upload id", http.StatusBadRequest)
		return
	}

	var req FinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	post, err := h.uploadService.Finalize(r.Context(), user, uploadID, req.Caption, req.Tags)
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Str("upload_id", uploadID).Msg("Failed to finalize upload")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	log.Info().
		Int64("user_id", user.ID).
		Int64("post_id", post.ID).
		Str("media_type", string(post.MediaType)).
		Msg("Post created")

	respondJSON(w, http.StatusCreated, post)
}

// Discard handles DELETE /api/v1/uploads
func (h *UploadHandler) Discard(w http.ResponseWriter, r *http.Request) {
	user, err := authedUser(r, h.repo)
	if err != nil {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	h.uploadService.Discard(user)
	w.WriteHeader(http.StatusNoContent)
}
