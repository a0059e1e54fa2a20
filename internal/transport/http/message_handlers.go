package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gridpaddock/gpchat-server/internal/core"
	"github.com/gridpaddock/gpchat-server/internal/proto"
	"github.com/gridpaddock/gpchat-server/internal/store"
)

// MessageHandlers serves room history over plain HTTP for non-websocket
// consumers. The same recent-window bound as replay applies.
type MessageHandlers struct {
	store store.MessageStore
	limit int
	log   *zerolog.Logger
}

// NewMessageHandlers creates a new message handlers instance.
func NewMessageHandlers(st store.MessageStore, limit int, logger *zerolog.Logger) *MessageHandlers {
	return &MessageHandlers{store: st, limit: limit, log: logger}
}

// ListMessages handles listing a room's message history.
// GET /api/rooms/:roomId/messages
func (h *MessageHandlers) ListMessages(c *gin.Context) {
	roomID := c.Param("roomId")
	if !core.ValidRoomID(roomID) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid room id"})
		return
	}

	records, err := h.store.ListByRoom(c.Request.Context(), roomID, h.limit)
	if err != nil {
		h.log.Error().Err(err).Str("room", roomID).Msg("failed to list messages")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]proto.WireMessage, 0, len(records))
	for _, rec := range records {
		response = append(response, proto.WireMessage{
			ID:        rec.ID,
			Room:      rec.Room,
			Author:    rec.Author,
			Text:      rec.Text,
			CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, response)
}
