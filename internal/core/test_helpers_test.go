package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jparr721/boysdotapp/internal/store"
)

// fakeStore is an in-memory store.Store for broker tests.
type fakeStore struct {
	mu       sync.Mutex
	rooms    map[string]bool
	messages map[string][]*store.Message

	appendErr  error // injected AppendMessage failure
	listErr    error // injected ListMessages failure
	roomsErr   error // injected ListRoomIDs failure
	ensureErr  error // injected EnsureRoom failure
	collisions int   // RoomExists reports ids as taken this many times; -1 forever
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:    make(map[string]bool),
		messages: make(map[string][]*store.Message),
	}
}

func (f *fakeStore) EnsureRoom(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ensureErr != nil {
		return f.ensureErr
	}
	f.rooms[id] = true
	return nil
}

func (f *fakeStore) RoomExists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.collisions != 0 {
		if f.collisions > 0 {
			f.collisions--
		}
		return true, nil
	}
	return f.rooms[id], nil
}

func (f *fakeStore) ListRoomIDs(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.roomsErr != nil {
		return nil, f.roomsErr
	}
	ids := make([]string, 0, len(f.rooms))
	for id := range f.rooms {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeStore) AppendMessage(_ context.Context, msg *store.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.rooms[msg.RoomID] = true
	f.messages[msg.RoomID] = append(f.messages[msg.RoomID], msg)
	return nil
}

func (f *fakeStore) ListMessages(_ context.Context, roomID string) ([]*store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]*store.Message{}, f.messages[roomID]...), nil
}

func (f *fakeStore) Close() error { return nil }

func newTestBroker(st store.Store) *Broker {
	logger := zerolog.Nop()
	return NewBroker(st, &logger, time.Second)
}

// mustEvent waits for the next event of the wanted kind, skipping others.
func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		case <-deadline:
			t.Fatalf("expected event kind %v not received", kind)
			return nil
		}
	}
}

// mustNoEvent asserts the channel stays quiet for a short window.
func mustNoEvent(t *testing.T, ch <-chan *Event) {
	t.Helper()

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(100 * time.Millisecond):
	}
}
