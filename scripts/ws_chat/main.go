package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/jparr721/boysdotapp/internal/proto"
)

// Interactive terminal client. Lines typed on stdin are sent to the
// joined room; incoming broadcasts are printed as they arrive.
func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	sender := flag.String("sender", "cli-user", "display name")
	room := flag.String("room", "", "room id to join (required)")
	flag.Parse()

	if *room == "" {
		return errors.New("-room is required")
	}

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	joinPayload, err := json.Marshal(proto.JoinData{Room: *room})
	if err != nil {
		return fmt.Errorf("marshal join: %w", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeJoinRoom, Data: joinPayload}); err != nil {
		return fmt.Errorf("send join-room: %w", err)
	}

	// Print incoming events.
	go func() {
		for {
			var outbound proto.Outbound
			if err := wsjson.Read(ctx, conn, &outbound); err != nil {
				if ctx.Err() == nil {
					log.Printf("read: %v", err)
				}
				cancel()
				return
			}
			printOutbound(outbound)
		}
	}()

	// Forward stdin lines as messages.
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "/quit" {
			return nil
		}
		payload, err := json.Marshal(proto.MsgData{Room: *room, Text: text, Sender: *sender})
		if err != nil {
			return fmt.Errorf("marshal message: %w", err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeSendMsg, Data: payload}); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}

	return scanner.Err()
}

func printOutbound(outbound proto.Outbound) {
	raw, err := json.Marshal(outbound.Data)
	if err != nil {
		return
	}

	switch {
	case outbound.Type == proto.OutboundTypeError && outbound.Error != nil:
		fmt.Printf("! %s (%s)\n", outbound.Error.Msg, outbound.Error.Code)
	case outbound.Event == proto.EventMessage:
		var msg proto.EventMessageData
		if json.Unmarshal(raw, &msg) == nil {
			fmt.Printf("[%s] %s: %s\n", msg.Room, msg.Sender, msg.Text)
		}
	case outbound.Event == proto.EventRoomHistory:
		var history proto.EventRoomHistoryData
		if json.Unmarshal(raw, &history) == nil {
			for _, msg := range history.Messages {
				fmt.Printf("[%s] %s: %s\n", msg.Room, msg.Sender, msg.Text)
			}
			fmt.Printf("-- joined %s (%d messages) --\n", history.Room, len(history.Messages))
		}
	}
}
