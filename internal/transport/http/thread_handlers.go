package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gridpaddock/gpchat-server/internal/threads"
)

// ThreadHandlers serves the read-only thread directory.
type ThreadHandlers struct {
	svc *threads.Service
	log *zerolog.Logger
}

// NewThreadHandlers creates a new thread handlers instance.
func NewThreadHandlers(svc *threads.Service, logger *zerolog.Logger) *ThreadHandlers {
	return &ThreadHandlers{svc: svc, log: logger}
}

// ListThreads handles listing discussion threads.
// GET /api/threads
func (h *ThreadHandlers) ListThreads(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = parsed
	}

	list, err := h.svc.Threads(c.Request.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list threads")
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "schedule unavailable"})
		return
	}

	c.JSON(http.StatusOK, list)
}
