package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat-relay/internal/repositories"
)

// HistoryHandler serves the read API over the event log.
type HistoryHandler struct {
	messages repositories.MessageRepository
	rooms    repositories.RoomRepository
}

// NewHistoryHandler builds a HistoryHandler.
func NewHistoryHandler(messages repositories.MessageRepository, rooms repositories.RoomRepository) *HistoryHandler {
	return &HistoryHandler{messages: messages, rooms: rooms}
}

// ListRooms returns all room announcements, most recent first.
func (h *HistoryHandler) ListRooms(c *gin.Context) {
	rooms, err := h.rooms.ListRooms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chatrooms"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// ListMessages returns the full message history, oldest first.
func (h *HistoryHandler) ListMessages(c *gin.Context) {
	msgs, err := h.messages.ListMessages(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}
