package core

import (
	"regexp"
	"sync/atomic"
)

// SessionState tracks the session lifecycle.
type SessionState int32

const (
	// StateConnecting means the transport is up but the room has not
	// been validated yet.
	StateConnecting SessionState = iota
	// StateJoined means the session is registered in its room.
	StateJoined
	// StateClosed is terminal; the session is out of the registry.
	StateClosed
)

var roomIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidRoomID reports whether id matches the expected identifier shape.
// The thread directory is advisory only; this syntactic rule is the
// sole check the core performs.
func ValidRoomID(id string) bool {
	return roomIDPattern.MatchString(id)
}

// Session is one live connection bound to exactly one room for its
// lifetime. The room is fixed at construction and never changes.
type Session struct {
	ID     string
	Room   string
	Author string // default display name, may be overridden per message

	// Events carries outbound events to the transport write loop. The
	// hub closes it exactly once when the session reaches StateClosed.
	Events chan *Event

	state atomic.Int32
}

// NewSession constructs a session in StateConnecting.
func NewSession(id, room, author string, buffer int) *Session {
	if buffer < 1 {
		buffer = 1
	}
	return &Session{
		ID:     id,
		Room:   room,
		Author: author,
		Events: make(chan *Event, buffer),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// markJoined transitions Connecting -> Joined.
func (s *Session) markJoined() bool {
	return s.state.CompareAndSwap(int32(StateConnecting), int32(StateJoined))
}

// shutdown moves the session to StateClosed and returns the previous
// state, making close idempotent under overlapping disconnect signals.
func (s *Session) shutdown() SessionState {
	return SessionState(s.state.Swap(int32(StateClosed)))
}

// deliver pushes an event without blocking. A full buffer means the
// peer is too slow; the event is dropped and the caller logs it.
func (s *Session) deliver(ev *Event) bool {
	select {
	case s.Events <- ev:
		return true
	default:
		return false
	}
}
