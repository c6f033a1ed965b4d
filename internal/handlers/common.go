package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"pet-feed-backend/internal/middleware"
	"pet-feed-backend/internal/models"
	"pet-feed-backend/internal/repository"
	"pet-feed-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// authedUser resolves the authenticated user for the request.
func authedUser(r *http.Request, repo repository.Repository) (*models.User, error) {
	userID := middleware.GetUserID(r.Context())
	if userID == 0 {
		return nil, fmt.Errorf("not authenticated")
	}
	return repo.GetUserByID(r.Context(), userID)
}

// statusForError maps service and repository errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrReferencedEntityNotFound),
		errors.Is(err, services.ErrUnknownUser),
		errors.Is(err, services.ErrNoPendingUpload):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrNameNotUnique),
		errors.Is(err, repository.ErrAlreadyConverted):
		return http.StatusConflict
	case errors.Is(err, repository.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, services.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidUsername),
		errors.Is(err, services.ErrWeakPassword),
		errors.Is(err, services.ErrBioTooLong),
		errors.Is(err, services.ErrEmptyComment),
		errors.Is(err, services.ErrCommentTooLong),
		errors.Is(err, services.ErrUnsupportedMedia):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
