package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gridpaddock/gpchat-server/internal/store"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev, ok := <-ch:
			if !ok {
				t.Fatalf("event channel closed while waiting for kind %v", kind)
			}
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev, ok := <-ch:
		if ok {
			t.Fatalf("expected no event, got %+v", ev)
		}
	case <-time.After(150 * time.Millisecond):
	}
}

// memStore is an in-memory store.MessageStore for hub tests.
type memStore struct {
	mu        sync.Mutex
	seq       int64
	byRoom    map[string][]*store.Message
	appendErr error
	listErr   error
}

func newMemStore() *memStore {
	return &memStore{byRoom: make(map[string][]*store.Message)}
}

func (m *memStore) Append(_ context.Context, msg *store.Message) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.appendErr != nil {
		return 0, m.appendErr
	}
	m.seq++
	stored := *msg
	stored.ID = m.seq
	m.byRoom[msg.Room] = append(m.byRoom[msg.Room], &stored)
	msg.ID = m.seq
	return m.seq, nil
}

func (m *memStore) ListByRoom(_ context.Context, roomID string, limit int) ([]*store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listErr != nil {
		return nil, m.listErr
	}
	messages := m.byRoom[roomID]
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	result := make([]*store.Message, len(messages))
	copy(result, messages)
	return result, nil
}

func (m *memStore) Close() error {
	return nil
}

func (m *memStore) count(roomID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byRoom[roomID])
}
