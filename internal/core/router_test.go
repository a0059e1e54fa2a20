package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestRouter(st *memStore, historyLimit int) (*Router, *Registry) {
	logger := zerolog.New(nil)
	registry := NewRegistry()
	return NewRouter(st, registry, &logger, historyLimit), registry
}

func TestRouteStorageFailureReturnsCoreError(t *testing.T) {
	st := newMemStore()
	st.appendErr = errors.New("locked")
	router, _ := newTestRouter(st, 0)

	err := router.Route(context.Background(), &Message{Room: "5", Author: "Ann", Text: "hi", CreatedAt: time.Now()})
	var ce *CoreError
	if !errors.As(err, &ce) || ce.Code != ErrCodeStorage {
		t.Fatalf("expected storage CoreError, got %v", err)
	}
}

func TestRouteSkipsSlowSession(t *testing.T) {
	st := newMemStore()
	router, registry := newTestRouter(st, 0)

	slow := NewSession("slow", "5", "Slow", 1)
	slow.Events <- &Event{Kind: EventHistory} // fill the buffer
	fast := NewSession("fast", "5", "Fast", 8)
	registry.Register("5", slow)
	registry.Register("5", fast)

	if err := router.Route(context.Background(), &Message{Room: "5", Author: "Ann", Text: "hi", CreatedAt: time.Now()}); err != nil {
		t.Fatalf("route failed: %v", err)
	}

	ev := mustEvent(t, fast.Events, EventRoomMessage)
	if ev.Message.Text != "hi" {
		t.Fatalf("fast session missed the broadcast: %+v", ev)
	}
}

func TestReplayDegradesToEmptyOnReadFailure(t *testing.T) {
	st := newMemStore()
	st.listErr = errors.New("corrupt page")
	router, _ := newTestRouter(st, 0)

	s := NewSession("a", "5", "Ann", 8)
	router.Replay(context.Background(), s)

	ev := mustEvent(t, s.Events, EventHistory)
	if len(ev.Messages) != 0 {
		t.Fatalf("expected empty snapshot on read failure, got %d", len(ev.Messages))
	}
}

func TestReplayHonorsRecentWindow(t *testing.T) {
	st := newMemStore()
	for _, text := range []string{"one", "two", "three"} {
		if _, err := st.Append(context.Background(), toStoreMessage(&Message{Room: "5", Author: "Ann", Text: text, CreatedAt: time.Now()})); err != nil {
			t.Fatalf("seed append: %v", err)
		}
	}
	router, _ := newTestRouter(st, 2)

	s := NewSession("a", "5", "Ann", 8)
	router.Replay(context.Background(), s)

	ev := mustEvent(t, s.Events, EventHistory)
	if len(ev.Messages) != 2 {
		t.Fatalf("expected 2 messages in window, got %d", len(ev.Messages))
	}
	if ev.Messages[0].Text != "two" || ev.Messages[1].Text != "three" {
		t.Fatalf("window out of order: %+v", ev.Messages)
	}
}
