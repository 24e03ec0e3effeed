package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jparr721/boysdotapp/internal/core"
	"github.com/jparr721/boysdotapp/internal/store"
)

// RoomHandlers provides REST handlers for room discovery and history.
// The websocket is the primary surface; these exist for landing pages
// and tooling that only need a snapshot.
type RoomHandlers struct {
	broker *core.Broker
	store  store.Store
	log    *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(broker *core.Broker, st store.Store, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		broker: broker,
		store:  st,
		log:    logger,
	}
}

// ErrorResponse is the common error body for API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RoomListResponse carries all known room ids.
type RoomListResponse struct {
	Rooms []string `json:"rooms"`
}

// RoomResponse represents a freshly created room.
type RoomResponse struct {
	Room string `json:"room"`
}

// MessageResponse represents a message in API responses.
type MessageResponse struct {
	ID     string `json:"id"`
	Room   string `json:"room"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
	TS     int64  `json:"ts"`
}

// ListRooms handles room discovery.
// GET /api/rooms
func (h *RoomHandlers) ListRooms(c *gin.Context) {
	ids := h.broker.ListRoomIDs(c.Request.Context())
	c.JSON(http.StatusOK, RoomListResponse{Rooms: ids})
}

// CreateRoom creates a room with a server-generated id. The caller is
// not joined; joining happens over the websocket.
// POST /api/rooms
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	id, err := h.broker.CreateRoom(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, RoomResponse{Room: id})
}

// ListMessages returns a room's history, oldest first. Best-effort
// like the websocket snapshot: a store failure yields an empty list.
// GET /api/rooms/:id/messages
func (h *RoomHandlers) ListMessages(c *gin.Context) {
	roomID := c.Param("id")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "room id is required"})
		return
	}

	rows, err := h.store.ListMessages(c.Request.Context(), roomID)
	if err != nil {
		h.log.Error().Err(err).Str("room", roomID).Msg("failed to list messages")
		rows = nil
	}

	response := make([]MessageResponse, 0, len(rows))
	for _, row := range rows {
		response = append(response, MessageResponse{
			ID:     row.ID,
			Room:   row.RoomID,
			Sender: row.Sender,
			Text:   row.Text,
			TS:     row.Timestamp,
		})
	}

	c.JSON(http.StatusOK, response)
}
