package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomMessage notifies clients about a chat message in a room.
	EventRoomMessage EventKind = iota
	// EventRoomCreated confirms room creation to the requester.
	EventRoomCreated
	// EventHistory delivers message history to a client upon joining a room.
	EventHistory
	// EventRoomList delivers the known room ids to a client.
	EventRoomList
	// EventError notifies clients about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Room     string
	Message  Message
	Messages []Message // for EventHistory
	Rooms    []string  // for EventRoomList
	Error    *CoreError
}
