package core

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gridpaddock/gpchat-server/internal/store"
)

// Router persists inbound messages and fans them out to the sessions of
// the originating room. Persist must complete and succeed before
// fan-out begins; the two phases form one unit of work per room.
type Router struct {
	store        store.MessageStore
	registry     *Registry
	log          *zerolog.Logger
	historyLimit int
}

// NewRouter constructs a router over the given store and registry.
// historyLimit bounds the replay window; 0 replays everything.
func NewRouter(st store.MessageStore, registry *Registry, logger *zerolog.Logger, historyLimit int) *Router {
	return &Router{
		store:        st,
		registry:     registry,
		log:          logger,
		historyLimit: historyLimit,
	}
}

// Route appends the message and, only on success, pushes it to every
// session currently in the room, the sender included. A failed push to
// one session never aborts delivery to the rest.
func (r *Router) Route(ctx context.Context, msg *Message) error {
	record := toStoreMessage(msg)
	if _, err := r.store.Append(ctx, record); err != nil {
		return &CoreError{
			Code:    ErrCodeStorage,
			Message: "message was not sent",
			Err:     fmt.Errorf("append message: %w", err),
		}
	}
	msg.ID = record.ID

	ev := &Event{Kind: EventRoomMessage, Room: msg.Room, Message: *msg}
	for _, s := range r.registry.SessionsOf(msg.Room) {
		if !s.deliver(ev) {
			r.log.Warn().
				Str("session_id", s.ID).
				Str("room", msg.Room).
				Msg("dropped broadcast to slow session")
		}
	}
	return nil
}

// Replay sends the room's prior messages to the session as a single
// snapshot event. A store read failure degrades to an empty snapshot;
// losing history must not block live participation.
func (r *Router) Replay(ctx context.Context, s *Session) {
	records, err := r.store.ListByRoom(ctx, s.Room, r.historyLimit)
	if err != nil {
		r.log.Error().Err(err).Str("room", s.Room).Msg("history read failed, replaying empty snapshot")
		records = nil
	}

	messages := make([]Message, 0, len(records))
	for _, rec := range records {
		messages = append(messages, fromStoreMessage(rec))
	}

	if !s.deliver(&Event{Kind: EventHistory, Room: s.Room, Messages: messages}) {
		r.log.Warn().Str("session_id", s.ID).Str("room", s.Room).Msg("dropped history snapshot")
	}
}

func toStoreMessage(msg *Message) *store.Message {
	return &store.Message{
		Room:      msg.Room,
		Author:    msg.Author,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
}

func fromStoreMessage(rec *store.Message) Message {
	return Message{
		ID:        rec.ID,
		Room:      rec.Room,
		Author:    rec.Author,
		Text:      rec.Text,
		CreatedAt: rec.CreatedAt,
	}
}
