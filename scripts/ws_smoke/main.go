package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/jparr721/boysdotapp/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	sender := flag.String("sender", "tester", "display name to send with")
	room := flag.String("room", "", "room id to join (empty creates a new one)")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	roomID := *room
	if roomID == "" {
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeCreateRoom}); err != nil {
			return fmt.Errorf("send create-room: %w", err)
		}
		created, err := await(ctx, conn, proto.EventRoomCreated)
		if err != nil {
			return err
		}
		var data proto.EventRoomCreatedData
		if err := remarshal(created.Data, &data); err != nil {
			return err
		}
		roomID = data.Room
		log.Printf("created room %s", roomID)
	}

	joinPayload, err := json.Marshal(proto.JoinData{Room: roomID})
	if err != nil {
		return fmt.Errorf("marshal join: %w", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeJoinRoom, Data: joinPayload}); err != nil {
		return fmt.Errorf("send join-room: %w", err)
	}
	if _, err := await(ctx, conn, proto.EventRoomHistory); err != nil {
		return err
	}
	log.Printf("joined room %s", roomID)

	msgPayload, err := json.Marshal(proto.MsgData{Room: roomID, Text: *text, Sender: *sender})
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeSendMsg, Data: msgPayload}); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	echoed, err := await(ctx, conn, proto.EventMessage)
	if err != nil {
		return err
	}
	var msg proto.EventMessageData
	if err := remarshal(echoed.Data, &msg); err != nil {
		return err
	}
	log.Printf("received own broadcast: %q from %s", msg.Text, msg.Sender)

	return nil
}

// await reads outbound envelopes until the wanted event arrives.
func await(ctx context.Context, conn *websocket.Conn, event string) (proto.Outbound, error) {
	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return outbound, fmt.Errorf("read: %w", err)
		}
		if outbound.Type == proto.OutboundTypeError {
			return outbound, fmt.Errorf("server error: %s (%s)", outbound.Error.Msg, outbound.Error.Code)
		}
		if outbound.Event == event {
			return outbound, nil
		}
	}
}

// remarshal converts the loosely-typed Data field into a concrete type.
func remarshal(data any, dst any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("remarshal: %w", err)
	}
	return json.Unmarshal(raw, dst)
}
