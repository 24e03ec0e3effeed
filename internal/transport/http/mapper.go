package http

import (
	"context"
	"encoding/json"

	"github.com/jparr721/boysdotapp/internal/core"
	"github.com/jparr721/boysdotapp/internal/proto"
)

// handleInbound dispatches one inbound envelope to the broker. The
// returned event, if any, is the reply for the requesting client only;
// room broadcasts travel through the broker's own fan-out. A non-nil
// *proto.Error is a client mistake, a non-nil error tears the
// connection down.
func handleInbound(ctx context.Context, broker *core.Broker, client *core.Client, inbound proto.Inbound) (*core.Event, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeCreateRoom:
		id, err := broker.CreateRoom(ctx)
		if err != nil {
			return errorEvent(err), nil, nil
		}
		return &core.Event{Kind: core.EventRoomCreated, Room: id}, nil, nil

	case proto.InboundTypeJoinRoom:
		var join proto.JoinData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		history, err := broker.Join(ctx, client, join.Room)
		if err != nil {
			return errorEvent(err), nil, nil
		}
		return &core.Event{Kind: core.EventHistory, Room: join.Room, Messages: history}, nil, nil

	case proto.InboundTypeSendMsg:
		var msg proto.MsgData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		if msg.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		// The sender hears its own message through the broadcast, so
		// a successful send produces no direct reply.
		if _, err := broker.Send(ctx, client, msg.Room, msg.Text, msg.Sender); err != nil {
			return errorEvent(err), nil, nil
		}
		return nil, nil, nil

	case proto.InboundTypeListRooms:
		ids := broker.ListRoomIDs(ctx)
		return &core.Event{Kind: core.EventRoomList, Rooms: ids}, nil, nil

	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func errorEvent(err error) *core.Event {
	return &core.Event{Kind: core.EventError, Error: core.AsCoreError(err)}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventMessage,
			Data:  wireMessage(event.Message),
		}
	case core.EventRoomCreated:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRoomCreated,
			Data:  proto.EventRoomCreatedData{Room: event.Room},
		}
	case core.EventHistory:
		messages := make([]proto.EventMessageData, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, wireMessage(msg))
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRoomHistory,
			Data:  proto.EventRoomHistoryData{Room: event.Room, Messages: messages},
		}
	case core.EventRoomList:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventRoomList,
			Data:  proto.EventRoomListData{Rooms: event.Rooms},
		}
	case core.EventError:
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: "internal", Msg: "unknown event"},
		}
	}
}

func wireMessage(msg core.Message) proto.EventMessageData {
	return proto.EventMessageData{
		ID:     msg.ID,
		Room:   msg.Room,
		Sender: msg.Sender,
		Text:   msg.Text,
		TS:     msg.Timestamp,
	}
}
