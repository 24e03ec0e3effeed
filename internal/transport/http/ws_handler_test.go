package http

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/jparr721/boysdotapp/internal/core"
	"github.com/jparr721/boysdotapp/internal/proto"
)

func TestHealthEndpoint(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func dialWS(t *testing.T, ctx context.Context, ts string) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })

	return conn
}

func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, kind string, data any) {
	t.Helper()

	var payload json.RawMessage
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			t.Fatalf("marshal %s: %v", kind, err)
		}
		payload = raw
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: kind, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", kind, err)
	}
}

// awaitEvent reads until the wanted event arrives, failing on errors.
func awaitEvent(t *testing.T, ctx context.Context, conn *websocket.Conn, event string) proto.Outbound {
	t.Helper()

	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			t.Fatalf("read waiting for %s: %v", event, err)
		}
		if outbound.Type == proto.OutboundTypeError {
			t.Fatalf("unexpected error waiting for %s: %+v", event, outbound.Error)
		}
		if outbound.Event == event {
			return outbound
		}
	}
}

// awaitError reads until an error envelope arrives.
func awaitError(t *testing.T, ctx context.Context, conn *websocket.Conn) *proto.Error {
	t.Helper()

	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			t.Fatalf("read waiting for error: %v", err)
		}
		if outbound.Type == proto.OutboundTypeError && outbound.Error != nil {
			return outbound.Error
		}
	}
}

func TestWebSocketCreateJoinSendFlow(t *testing.T) {
	ts, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts.URL)
	connB := dialWS(t, ctx, ts.URL)

	// A creates a room and joins it.
	sendInbound(t, ctx, connA, proto.InboundTypeCreateRoom, nil)
	created := awaitEvent(t, ctx, connA, proto.EventRoomCreated)
	var createdData proto.EventRoomCreatedData
	decodeData(t, created.Data, &createdData)
	if createdData.Room == "" {
		t.Fatal("empty room id in room-created")
	}
	roomID := createdData.Room

	sendInbound(t, ctx, connA, proto.InboundTypeJoinRoom, proto.JoinData{Room: roomID})
	historyA := awaitEvent(t, ctx, connA, proto.EventRoomHistory)
	var historyData proto.EventRoomHistoryData
	decodeData(t, historyA.Data, &historyData)
	if len(historyData.Messages) != 0 {
		t.Fatalf("expected empty history, got %+v", historyData.Messages)
	}

	// B joins the same room.
	sendInbound(t, ctx, connB, proto.InboundTypeJoinRoom, proto.JoinData{Room: roomID})
	awaitEvent(t, ctx, connB, proto.EventRoomHistory)

	// A sends; both receive the broadcast, A included.
	sendInbound(t, ctx, connA, proto.InboundTypeSendMsg, proto.MsgData{Room: roomID, Text: "hi", Sender: "Alice"})

	for _, conn := range []*websocket.Conn{connA, connB} {
		received := awaitEvent(t, ctx, conn, proto.EventMessage)
		var msg proto.EventMessageData
		decodeData(t, received.Data, &msg)
		if msg.Text != "hi" || msg.Sender != "Alice" || msg.Room != roomID {
			t.Fatalf("unexpected broadcast: %+v", msg)
		}
	}

	// A late joiner replays the message.
	connC := dialWS(t, ctx, ts.URL)
	sendInbound(t, ctx, connC, proto.InboundTypeJoinRoom, proto.JoinData{Room: roomID})
	replay := awaitEvent(t, ctx, connC, proto.EventRoomHistory)
	decodeData(t, replay.Data, &historyData)
	if len(historyData.Messages) != 1 || historyData.Messages[0].Text != "hi" {
		t.Fatalf("unexpected replay: %+v", historyData.Messages)
	}
}

func TestWebSocketSendWithoutJoinRejected(t *testing.T) {
	ts, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts.URL)
	sendInbound(t, ctx, conn, proto.InboundTypeSendMsg, proto.MsgData{Room: "nowhere", Text: "hi", Sender: "x"})

	wireErr := awaitError(t, ctx, conn)
	if wireErr.Code != core.ErrCodeNotInRoom {
		t.Fatalf("expected not_in_room, got %+v", wireErr)
	}
}

func TestWebSocketJoinWithoutRoomRejected(t *testing.T) {
	ts, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts.URL)
	sendInbound(t, ctx, conn, proto.InboundTypeJoinRoom, proto.JoinData{Room: ""})

	wireErr := awaitError(t, ctx, conn)
	if wireErr.Code != core.ErrCodeBadRequest {
		t.Fatalf("expected bad_request, got %+v", wireErr)
	}
}

func TestWebSocketListRooms(t *testing.T) {
	ts, st := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, id := range []string{"one", "two"} {
		if err := st.EnsureRoom(ctx, id); err != nil {
			t.Fatalf("seed room %s: %v", id, err)
		}
	}

	conn := dialWS(t, ctx, ts.URL)
	sendInbound(t, ctx, conn, proto.InboundTypeListRooms, nil)

	listed := awaitEvent(t, ctx, conn, proto.EventRoomList)
	var data proto.EventRoomListData
	decodeData(t, listed.Data, &data)
	if len(data.Rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %v", data.Rooms)
	}
}

func TestWebSocketUnknownTypeRejected(t *testing.T) {
	ts, _ := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts.URL)
	sendInbound(t, ctx, conn, "make-coffee", nil)

	wireErr := awaitError(t, ctx, conn)
	if wireErr.Code != "invalid_message" {
		t.Fatalf("expected invalid_message, got %+v", wireErr)
	}
}
