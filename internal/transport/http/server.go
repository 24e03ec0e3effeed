package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jparr721/boysdotapp/internal/config"
	"github.com/jparr721/boysdotapp/internal/core"
	"github.com/jparr721/boysdotapp/internal/store"
)

// NewServer builds the HTTP server: REST endpoints for room discovery
// and the websocket endpoint for the live relay.
func NewServer(broker *core.Broker, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", healthHandler)

	rooms := NewRoomHandlers(broker, st, logger)
	api := router.Group("/api")
	api.GET("/rooms", rooms.ListRooms)
	api.POST("/rooms", rooms.CreateRoom)
	api.GET("/rooms/:id/messages", rooms.ListMessages)

	router.GET("/ws", gin.WrapH(NewWSHandler(broker, cfg.WSMessageLimit, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
