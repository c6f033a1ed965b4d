package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"pet-feed-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// FeedEvent is a WebSocket message pushed to connected clients when the
// feed changes.
type FeedEvent struct {
	Type      string           `json:"type"`
	Timestamp int64            `json:"timestamp"`
	PostID    int64            `json:"post_id,omitempty"`
	UserID    int64            `json:"user_id,omitempty"`
	Username  string           `json:"username,omitempty"`
	Caption   string           `json:"caption,omitempty"`
	MediaType models.MediaType `json:"media_type,omitempty"`
}

// FeedHub manages WebSocket connections for live feed updates. One
// connection per user; a new connection replaces the previous one.
type FeedHub struct {
	mu          sync.RWMutex
	connections map[int64]*websocket.Conn
}

// NewFeedHub creates a new feed hub.
func NewFeedHub() *FeedHub {
	return &FeedHub{
		connections: make(map[int64]*websocket.Conn),
	}
}

// Register registers a WebSocket connection for a user.
func (h *FeedHub) Register(userID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.connections[userID]; ok {
		existing.Close()
	}
	h.connections[userID] = conn

	log.Info().Int64("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes a user's WebSocket connection.
func (h *FeedHub) Unregister(userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, ok := h.connections[userID]; ok {
		conn.Close()
		delete(h.connections, userID)
		log.Info().Int64("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// IsOnline checks if a user has a live connection.
func (h *FeedHub) IsOnline(userID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.connections[userID]
	return ok
}

// SendToUser sends an event to a specific user.
func (h *FeedHub) SendToUser(userID int64, event FeedEvent) error {
	h.mu.RLock()
	conn, ok := h.connections[userID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("user %d is not connected", userID)
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send event: %w", err)
	}

	return nil
}

// Broadcast sends an event to every connected user. Dead connections are
// dropped along the way.
func (h *FeedHub) Broadcast(event FeedEvent) {
	h.mu.RLock()
	userIDs := make([]int64, 0, len(h.connections))
	for userID := range h.connections {
		userIDs = append(userIDs, userID)
	}
	h.mu.RUnlock()

	for _, userID := range userIDs {
		if err := h.SendToUser(userID, event); err != nil {
			log.Debug().Err(err).Int64("user_id", userID).Msg("Failed to deliver feed event")
		}
	}
}

// BroadcastPostCreated notifies connected clients about a new post.
func (h *FeedHub) BroadcastPostCreated(post *models.Post, username string) {
	if h == nil || post == nil {
		return
	}
	h.Broadcast(FeedEvent{
		Type:      "post_created",
		Timestamp: time.Now().UnixMilli(),
		PostID:    post.ID,
		UserID:    post.UserID,
		Username:  username,
		Caption:   post.Caption,
		MediaType: post.MediaType,
	})
}

// BroadcastPostDeleted notifies connected clients about a removed post.
func (h *FeedHub) BroadcastPostDeleted(postID, userID int64) {
	if h == nil {
		return
	}
	h.Broadcast(FeedEvent{
		Type:      "post_deleted",
		Timestamp: time.Now().UnixMilli(),
		PostID:    postID,
		UserID:    userID,
	})
}
