package handlers

import (
	"net/http"
	"strconv"

	"pet-feed-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// FeedHandler handles feed and thumbnail listing requests
type FeedHandler struct {
	feedService *services.FeedService
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(feedService *services.FeedService) *FeedHandler {
	return &FeedHandler{
		feedService: feedService,
	}
}

// GetFeed handles GET /api/v1/feed
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts, err := h.feedService.PhotoFeed(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load feed")
		respondError(w, "Failed to load feed", http.StatusInternalServerError)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"posts": posts,
		"total": len(posts),
	})
}

// GetUserThumbnails handles GET /api/v1/users/{id}/thumbnails
func (h *FeedHandler) GetUserThumbnails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	thumbs, err := h.feedService.UserThumbnails(ctx, userID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"thumbnails": thumbs,
		"total":      len(thumbs),
	})
}
