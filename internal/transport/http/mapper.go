package http

import (
	"encoding/json"
	"time"

	"github.com/gridpaddock/gpchat-server/internal/core"
	"github.com/gridpaddock/gpchat-server/internal/proto"
)

func inboundToMessage(session *core.Session, inbound proto.Inbound) (*core.Message, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeMessage:
		var data proto.MsgData
		if err := json.Unmarshal(inbound.Data, &data); err != nil {
			return nil, nil, err
		}

		author := data.Author
		if author == "" {
			author = session.Author
		}

		// Honor the caller's timestamp when it parses, stamp otherwise.
		createdAt, err := time.Parse(time.RFC3339, data.CreatedAt)
		if err != nil {
			createdAt = time.Now()
		}

		return &core.Message{
			Room:      session.Room,
			Author:    author,
			Text:      data.Text,
			CreatedAt: createdAt,
		}, nil, nil
	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRoomMessage:
		return proto.Outbound{
			Type: proto.OutboundTypeMessage,
			Data: wireMessage(event.Message),
		}
	case core.EventHistory:
		messages := make([]proto.WireMessage, 0, len(event.Messages))
		for _, msg := range event.Messages {
			messages = append(messages, wireMessage(msg))
		}
		return proto.Outbound{
			Type: proto.OutboundTypeHistory,
			Data: messages,
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown event"}}
	}
}

func wireMessage(msg core.Message) proto.WireMessage {
	return proto.WireMessage{
		ID:        msg.ID,
		Room:      msg.Room,
		Author:    msg.Author,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt.Format(time.RFC3339),
	}
}
