package core

// EventKind is a notification the core emits to sessions.
type EventKind int

const (
	// EventHistory delivers the one-time message snapshot after a
	// session joins its room.
	EventHistory EventKind = iota
	// EventRoomMessage notifies sessions about a chat message in their room.
	EventRoomMessage
	// EventError notifies the originating session about a domain error.
	EventError
)

// Event is sent to sessions to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Room     string
	Message  Message
	Messages []Message // for EventHistory
	Error    *CoreError
}
