package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	InboundTypeCreateRoom = "create-room"
	InboundTypeJoinRoom   = "join-room"
	InboundTypeSendMsg    = "send-message"
	InboundTypeListRooms  = "list-rooms"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventRoomCreated = "room-created"
	EventRoomHistory = "room-history"
	EventMessage     = "message-received"
	EventRoomList    = "room-list"
)

// JoinData requests to join a specific room.
type JoinData struct {
	Room string `json:"room"`
}

// MsgData is a chat message from the client.
type MsgData struct {
	Room   string `json:"room"`
	Text   string `json:"text"`
	Sender string `json:"sender"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventRoomCreatedData confirms room creation to the requester.
type EventRoomCreatedData struct {
	Room string `json:"room"`
}

// EventMessageData is one chat message on the wire.
type EventMessageData struct {
	ID     string `json:"id"`
	Room   string `json:"room"`
	Sender string `json:"sender"`
	Text   string `json:"text"`
	TS     int64  `json:"ts"`
}

// EventRoomHistoryData replays a room's messages in send order.
type EventRoomHistoryData struct {
	Room     string             `json:"room"`
	Messages []EventMessageData `json:"messages"`
}

// EventRoomListData carries the known room ids.
type EventRoomListData struct {
	Rooms []string `json:"rooms"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
