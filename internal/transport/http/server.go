package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gridpaddock/gpchat-server/internal/config"
	"github.com/gridpaddock/gpchat-server/internal/core"
	"github.com/gridpaddock/gpchat-server/internal/store"
	"github.com/gridpaddock/gpchat-server/internal/threads"
)

// NewServer builds the HTTP server: health check, thread directory,
// message history REST and the websocket endpoint.
func NewServer(hub *core.Hub, threadsSvc *threads.Service, st store.MessageStore, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	threadHandlers := NewThreadHandlers(threadsSvc, logger)
	messageHandlers := NewMessageHandlers(st, cfg.HistoryLimit, logger)

	api := router.Group("/api")
	api.GET("/threads", threadHandlers.ListThreads)
	api.GET("/rooms/:roomId/messages", messageHandlers.ListMessages)

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}

// ErrorResponse is the JSON body for REST errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
