package core

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/gridpaddock/gpchat-server/internal/store"
)

// Hub is the single dispatcher driving all sessions. Join, send and
// close commands are processed one at a time, so a message is fully
// appended and broadcast before the next command for any room begins.
// History replay happens inside the join step, which guarantees a
// session never sees a live broadcast before its snapshot.
type Hub struct {
	registry      *Registry
	router        *Router
	log           *zerolog.Logger
	commands      chan *Command
	maxMessageLen int
}

// NewHub constructs a hub over the given message store. maxMessageLen
// bounds the accepted text length in runes; historyLimit bounds replay.
func NewHub(st store.MessageStore, logger *zerolog.Logger, maxMessageLen, historyLimit int) *Hub {
	registry := NewRegistry()
	return &Hub{
		registry:      registry,
		router:        NewRouter(st, registry, logger, historyLimit),
		log:           logger,
		commands:      make(chan *Command, 64),
		maxMessageLen: maxMessageLen,
	}
}

// Registry exposes the room registry, mainly for tests and metrics.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Join submits the session for validation, registration and replay.
func (h *Hub) Join(s *Session) {
	h.commands <- &Command{Kind: CommandJoin, Session: s}
}

// Send submits a message on behalf of the session.
func (h *Hub) Send(s *Session, msg Message) {
	h.commands <- &Command{Kind: CommandSendMessage, Session: s, Message: msg}
}

// Disconnect submits the session for teardown. Safe to call more than
// once; only the first close takes effect.
func (h *Hub) Disconnect(s *Session) {
	h.commands <- &Command{Kind: CommandClose, Session: s}
}

// Run processes commands until the context is cancelled, then tears
// down every remaining session.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case cmd := <-h.commands:
			h.dispatch(ctx, cmd)
		}
	}
}

func (h *Hub) dispatch(ctx context.Context, cmd *Command) {
	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(ctx, cmd.Session)
	case CommandSendMessage:
		h.handleSend(ctx, cmd.Session, cmd.Message)
	case CommandClose:
		h.teardown(cmd.Session)
	}
}

func (h *Hub) handleJoin(ctx context.Context, s *Session) {
	if !ValidRoomID(s.Room) {
		s.deliver(&Event{
			Kind:  EventError,
			Error: coreError(ErrCodeValidation, ErrInvalidRoom.Error()),
		})
		h.teardown(s)
		return
	}

	h.registry.Register(s.Room, s)
	s.markJoined()
	h.router.Replay(ctx, s)

	h.log.Debug().
		Str("session_id", s.ID).
		Str("room", s.Room).
		Int("rooms", h.registry.Rooms()).
		Msg("session joined")
}

func (h *Hub) handleSend(ctx context.Context, s *Session, msg Message) {
	if s.State() != StateJoined {
		s.deliver(&Event{
			Kind:  EventError,
			Error: coreError(ErrCodeNotJoined, "session has not joined a room"),
		})
		return
	}

	// The room binding is the session's, never the caller's.
	msg.Room = s.Room

	if err := h.validate(&msg); err != nil {
		s.deliver(&Event{
			Kind:  EventError,
			Error: coreError(ErrCodeValidation, err.Error()),
		})
		return
	}

	if err := h.router.Route(ctx, &msg); err != nil {
		h.log.Error().Err(err).Str("room", msg.Room).Msg("route message")
		var ce *CoreError
		if !errors.As(err, &ce) {
			ce = coreError(ErrCodeStorage, "message was not sent")
		}
		s.deliver(&Event{Kind: EventError, Error: ce})
	}
}

func (h *Hub) validate(msg *Message) error {
	if strings.TrimSpace(msg.Text) == "" {
		return ErrEmptyMessage
	}
	if h.maxMessageLen > 0 && utf8.RuneCountInString(msg.Text) > h.maxMessageLen {
		return ErrMessageTooBig
	}
	if msg.Author == "" {
		return ErrMissingAuthor
	}
	return nil
}

// teardown performs the transition to StateClosed exactly once and
// closes the event channel so the transport write loop unblocks.
func (h *Hub) teardown(s *Session) {
	prev := s.shutdown()
	if prev == StateClosed {
		return
	}
	if prev == StateJoined {
		h.registry.Unregister(s.Room, s)
	}
	close(s.Events)

	h.log.Debug().
		Str("session_id", s.ID).
		Str("room", s.Room).
		Msg("session closed")
}

func (h *Hub) shutdown() {
	sessions := h.registry.AllSessions()
	for _, s := range sessions {
		h.teardown(s)
	}
	if len(sessions) > 0 {
		h.log.Info().Int("sessions", len(sessions)).Msg("hub shut down")
	}
}
