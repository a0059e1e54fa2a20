package store

import (
	"context"
	"time"
)

// Message is a persisted chat message. Once appended it is never
// mutated or deleted.
type Message struct {
	ID        int64
	Room      string
	Author    string
	Text      string
	CreatedAt time.Time
}

// MessageStore is an append-only log of chat messages keyed by room.
type MessageStore interface {
	// Append durably commits a message and returns its sequence id.
	// The id is monotonically increasing and defines read order.
	Append(ctx context.Context, msg *Message) (int64, error)

	// ListByRoom returns the room's messages in insertion order.
	// If limit > 0, only the newest limit messages are returned (still
	// ascending). An unknown room yields an empty slice, not an error.
	ListByRoom(ctx context.Context, roomID string, limit int) ([]*Message, error)

	// Close closes the underlying database connection.
	Close() error
}
