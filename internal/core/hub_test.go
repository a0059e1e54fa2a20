package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func startHub(t *testing.T, st *memStore, maxLen int) *Hub {
	t.Helper()

	logger := zerolog.New(nil)
	hub := NewHub(st, &logger, maxLen, 0)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	return hub
}

func TestJoinEmptyHistorySendEchoAndLateJoin(t *testing.T) {
	st := newMemStore()
	hub := startHub(t, st, 2000)

	ann := NewSession("a", "5", "Ann", 8)
	hub.Join(ann)

	history := mustEvent(t, ann.Events, EventHistory)
	if len(history.Messages) != 0 {
		t.Fatalf("expected empty history, got %d messages", len(history.Messages))
	}

	t1 := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	hub.Send(ann, Message{Author: "Ann", Text: "hi", CreatedAt: t1})

	echo := mustEvent(t, ann.Events, EventRoomMessage)
	if echo.Message.Author != "Ann" || echo.Message.Text != "hi" || echo.Message.Room != "5" {
		t.Fatalf("unexpected echo: %+v", echo.Message)
	}
	if echo.Message.ID == 0 {
		t.Fatalf("expected persisted id in echo, got 0")
	}

	bob := NewSession("b", "5", "Bob", 8)
	hub.Join(bob)

	bobHistory := mustEvent(t, bob.Events, EventHistory)
	if len(bobHistory.Messages) != 1 {
		t.Fatalf("expected 1 message in history, got %d", len(bobHistory.Messages))
	}
	got := bobHistory.Messages[0]
	if got.Author != "Ann" || got.Text != "hi" || !got.CreatedAt.Equal(t1) {
		t.Fatalf("unexpected history message: %+v", got)
	}
}

func TestHistoryArrivesBeforeLiveBroadcast(t *testing.T) {
	st := newMemStore()
	hub := startHub(t, st, 2000)

	ann := NewSession("a", "monza", "Ann", 8)
	hub.Join(ann)
	mustEvent(t, ann.Events, EventHistory)

	hub.Send(ann, Message{Author: "Ann", Text: "first", CreatedAt: time.Now()})
	mustEvent(t, ann.Events, EventRoomMessage)

	bob := NewSession("b", "monza", "Bob", 8)
	hub.Join(bob)
	hub.Send(ann, Message{Author: "Ann", Text: "second", CreatedAt: time.Now()})

	// Bob's first event must be the snapshot, the live message second.
	first := <-bob.Events
	if first.Kind != EventHistory {
		t.Fatalf("expected history first, got kind %v", first.Kind)
	}
	if len(first.Messages) != 1 || first.Messages[0].Text != "first" {
		t.Fatalf("unexpected snapshot: %+v", first.Messages)
	}

	second := mustEvent(t, bob.Events, EventRoomMessage)
	if second.Message.Text != "second" {
		t.Fatalf("expected live message second, got %+v", second.Message)
	}
}

func TestRoomIsolation(t *testing.T) {
	st := newMemStore()
	hub := startHub(t, st, 2000)

	ann := NewSession("a", "5", "Ann", 8)
	bob := NewSession("b", "6", "Bob", 8)
	hub.Join(ann)
	hub.Join(bob)
	mustEvent(t, ann.Events, EventHistory)
	mustEvent(t, bob.Events, EventHistory)

	hub.Send(ann, Message{Author: "Ann", Text: "only for room 5", CreatedAt: time.Now()})
	mustEvent(t, ann.Events, EventRoomMessage)

	mustNoEvent(t, bob.Events)
	if st.count("6") != 0 {
		t.Fatalf("message leaked into room 6's log")
	}
}

func TestInvalidRoomIDClosesSession(t *testing.T) {
	st := newMemStore()
	hub := startHub(t, st, 2000)

	s := NewSession("a", "bad room!", "Ann", 8)
	hub.Join(s)

	ev := mustEvent(t, s.Events, EventError)
	if ev.Error == nil || ev.Error.Code != ErrCodeValidation {
		t.Fatalf("expected validation error, got %+v", ev)
	}

	if _, ok := <-s.Events; ok {
		t.Fatalf("expected event channel to be closed after invalid room")
	}
	if s.State() != StateClosed {
		t.Fatalf("expected closed state, got %v", s.State())
	}
}

func TestEmptyAndAuthorlessMessagesRejected(t *testing.T) {
	st := newMemStore()
	hub := startHub(t, st, 2000)

	s := NewSession("a", "5", "Ann", 8)
	hub.Join(s)
	mustEvent(t, s.Events, EventHistory)

	hub.Send(s, Message{Author: "Ann", Text: "   ", CreatedAt: time.Now()})
	ev := mustEvent(t, s.Events, EventError)
	if ev.Error.Code != ErrCodeValidation {
		t.Fatalf("expected validation error for blank text, got %+v", ev.Error)
	}

	hub.Send(s, Message{Author: "", Text: "hello", CreatedAt: time.Now()})
	ev = mustEvent(t, s.Events, EventError)
	if ev.Error.Code != ErrCodeValidation {
		t.Fatalf("expected validation error for missing author, got %+v", ev.Error)
	}

	if st.count("5") != 0 {
		t.Fatalf("rejected messages must not be persisted, found %d", st.count("5"))
	}
}

func TestOversizedMessageRejected(t *testing.T) {
	st := newMemStore()
	hub := startHub(t, st, 10)

	ann := NewSession("a", "5", "Ann", 8)
	bob := NewSession("b", "5", "Bob", 8)
	hub.Join(ann)
	hub.Join(bob)
	mustEvent(t, ann.Events, EventHistory)
	mustEvent(t, bob.Events, EventHistory)

	hub.Send(ann, Message{Author: "Ann", Text: strings.Repeat("x", 11), CreatedAt: time.Now()})

	ev := mustEvent(t, ann.Events, EventError)
	if ev.Error.Code != ErrCodeValidation {
		t.Fatalf("expected validation error, got %+v", ev.Error)
	}
	mustNoEvent(t, bob.Events)
	if st.count("5") != 0 {
		t.Fatalf("oversized message must not change room history")
	}
}

func TestAppendFailureAbortsBroadcast(t *testing.T) {
	st := newMemStore()
	hub := startHub(t, st, 2000)

	ann := NewSession("a", "5", "Ann", 8)
	bob := NewSession("b", "5", "Bob", 8)
	hub.Join(ann)
	hub.Join(bob)
	mustEvent(t, ann.Events, EventHistory)
	mustEvent(t, bob.Events, EventHistory)

	st.mu.Lock()
	st.appendErr = errors.New("disk full")
	st.mu.Unlock()

	hub.Send(ann, Message{Author: "Ann", Text: "lost", CreatedAt: time.Now()})

	ev := mustEvent(t, ann.Events, EventError)
	if ev.Error.Code != ErrCodeStorage {
		t.Fatalf("expected storage error, got %+v", ev.Error)
	}
	mustNoEvent(t, bob.Events)
	if st.count("5") != 0 {
		t.Fatalf("failed append must leave the log unchanged")
	}
}

func TestSendBeforeJoinRejected(t *testing.T) {
	st := newMemStore()
	hub := startHub(t, st, 2000)

	s := NewSession("a", "5", "Ann", 8)
	hub.Send(s, Message{Author: "Ann", Text: "too early", CreatedAt: time.Now()})

	ev := mustEvent(t, s.Events, EventError)
	if ev.Error.Code != ErrCodeNotJoined {
		t.Fatalf("expected not_joined error, got %+v", ev.Error)
	}
}

func TestDisconnectIsIdempotent(t *testing.T) {
	st := newMemStore()
	hub := startHub(t, st, 2000)

	ann := NewSession("a", "5", "Ann", 8)
	bob := NewSession("b", "5", "Bob", 8)
	hub.Join(ann)
	hub.Join(bob)
	mustEvent(t, ann.Events, EventHistory)
	mustEvent(t, bob.Events, EventHistory)

	hub.Disconnect(bob)
	hub.Disconnect(bob)

	// Fan-out after the disconnect must still reach the rest of the room.
	hub.Send(ann, Message{Author: "Ann", Text: "still here", CreatedAt: time.Now()})
	echo := mustEvent(t, ann.Events, EventRoomMessage)
	if echo.Message.Text != "still here" {
		t.Fatalf("unexpected echo after disconnect: %+v", echo.Message)
	}

	if got := len(hub.Registry().SessionsOf("5")); got != 1 {
		t.Fatalf("expected 1 session left in room, got %d", got)
	}
}
