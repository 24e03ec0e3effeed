package store

import (
	"context"
	"time"
)

// Room represents a chat room.
type Room struct {
	ID        string
	CreatedAt time.Time
}

// Message represents a persisted chat message.
type Message struct {
	ID        string
	RoomID    string
	Text      string
	Sender    string
	Timestamp int64 // unix milliseconds, the sole ordering key
}

// RoomStore handles room persistence.
type RoomStore interface {
	// EnsureRoom creates the room if it does not exist. Creating an
	// existing room is a no-op, never an error.
	EnsureRoom(ctx context.Context, id string) error

	// RoomExists reports whether a room with the given id exists.
	RoomExists(ctx context.Context, id string) (bool, error)

	// ListRoomIDs returns all known room identifiers.
	ListRoomIDs(ctx context.Context) ([]string, error)
}

// MessageStore handles message persistence.
type MessageStore interface {
	// AppendMessage persists one message. The owning room is created
	// first if absent, so a message never references a missing room.
	AppendMessage(ctx context.Context, msg *Message) error

	// ListMessages returns all messages for a room ordered by
	// timestamp ascending, ties broken by insertion order. A room
	// with no messages yields an empty slice, not an error.
	ListMessages(ctx context.Context, roomID string) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	RoomStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
