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

// PostHandler handles post, like and comment requests
type PostHandler struct {
	postService *services.PostService
	repo        repository.Repository
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService *services.PostService, repo repository.Repository) *PostHandler {
	return &PostHandler{
		postService: postService,
		repo:        repo,
	}
}

func postIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

// PostView is the detail payload for a single post
type PostView struct {
	Post     *models.Post      `json:"post"`
	Owner    *models.User      `json:"owner"`
	Likes    int               `json:"likes"`
	Comments []*models.Comment `json:"comments"`
}

// GetPost handles GET /api/v1/posts/{id}
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	postID, ok := postIDParam(r)
	if !ok {
		respondError(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	post, owner, err := h.postService.ViewPost(ctx, postID)
	if err != nil {
		respondError(w, "Post not found", statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, PostView{
		Post:     post,
		Owner:    owner,
		Likes:    len(post.Likes),
		Comments: post.Comments,
	})
}

// DeletePost handles DELETE /api/v1/posts/{id}
func (h *PostHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	user, err := authedUser(r, h.repo)
	if err != nil {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	postID, ok := postIDParam(r)
	if !ok {
		respondError(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	if err := h.postService.DeletePost(r.Context(), user, postID); err != nil {
		log.Error().Err(err).Int64("post_id", postID).Int64("user_id", user.ID).Msg("Failed to delete post")
		respondError(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleLike handles POST /api/v1/posts/{id}/like
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	user, err := authedUser(r, h.repo)
	if err != nil {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	postID, ok := postIDParam(r)
	if !ok {
		respondError(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	liked, err := h.postService.ToggleLike(r.Context(), user, postID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

// GetComments handles GET /api/v1/posts/{id}/comments
func (h *PostHandler) GetComments(w http.ResponseWriter, r *http.Request) {
	postID, ok := postIDParam(r)
	if !ok {
		respondError(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	comments, err := h.postService.Comments(r.Context(), postID)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"comments": comments,
		"total":    len(comments),
	})
}

// CommentRequest is the create-comment payload
type CommentRequest struct {
	Text string `json:"text"`
}

// CreateComment handles POST /api/v1/posts/{id}/comments
func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user, err := authedUser(r, h.repo)
	if err != nil {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	postID, ok := postIDParam(r)
	if !ok {
		respondError(w, "Invalid post id", http.StatusBadRequest)
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	comment, err := h.postService.Comment(r.Context(), user, postID, req.Text)
	if err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}

	respondJSON(w, http.StatusCreated, comment)
}

// DeleteComment handles DELETE /api/v1/posts/{id}/comments/{commentID}
func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	user, err := authedUser(r, h.repo)
	if err != nil {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	postID, ok := postIDParam(r)
	if !ok {
		respondError(w, "Invalid post id", http.StatusBadRequest)
		return
	}
	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentID"), 10, 64)
	if err != nil {
		respondError(w, "Invalid comment id", http.StatusBadRequest)
		return
	}

	if err := h.postService.DeleteComment(r.Context(), user, postID, commentID); err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LikeComment handles POST /api/v1/comments/{id}/like
func (h *PostHandler) LikeComment(w http.ResponseWriter, r *http.Request) {
	if _, err := authedUser(r, h.repo); err != nil {
		respondError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	commentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, "Invalid comment id", http.StatusBadRequest)
		return
	}

	if err := h.postService.LikeComment(r.Context(), commentID); err != nil {
		respondError(w, err.Error(), statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
