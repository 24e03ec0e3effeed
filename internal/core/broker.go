package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/jparr721/boysdotapp/internal/store"
	"github.com/jparr721/boysdotapp/internal/utils"
)

// maxIDAttempts bounds the room id collision retry loop. With an
// 8-char base-36 token the id space is ~2.8e12, so a second attempt
// is already unlikely.
const maxIDAttempts = 5

// Broker is the single authority for room lifecycle and message
// sequencing. All requests funnel through it: per-room locks serialize
// joins and sends on the same room while unrelated rooms proceed
// concurrently. The registry is the only shared mutable state and is
// mutated exclusively here.
type Broker struct {
	store        store.Store
	log          *zerolog.Logger
	storeTimeout time.Duration

	mu        sync.Mutex // guards reg, roomLocks, lastTS
	reg       *registry
	roomLocks map[string]*sync.Mutex
	lastTS    map[string]int64 // per-room timestamp clamp
}

// NewBroker constructs the broker. storeTimeout bounds every durable
// store call so a stalled database cannot hold a room lock forever;
// zero means no bound.
func NewBroker(st store.Store, logger *zerolog.Logger, storeTimeout time.Duration) *Broker {
	return &Broker{
		store:        st,
		log:          logger,
		storeTimeout: storeTimeout,
		reg:          newRegistry(),
		roomLocks:    make(map[string]*sync.Mutex),
		lastTS:       make(map[string]int64),
	}
}

// lockRoom returns the mutex serializing operations on roomID,
// creating it on first use. Lock entries are never removed; an idle
// mutex for a dead room is a few bytes.
func (b *Broker) lockRoom(roomID string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()

	l, ok := b.roomLocks[roomID]
	if !ok {
		l = &sync.Mutex{}
		b.roomLocks[roomID] = l
	}
	return l
}

func (b *Broker) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.storeTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, b.storeTimeout)
}

// CreateRoom generates a fresh room id, persists the room, and
// registers an empty membership set. The requester is not joined;
// callers follow with Join. Id collisions are retried transparently.
func (b *Broker) CreateRoom(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := utils.NewRoomID()

		sctx, cancel := b.storeCtx(ctx)
		exists, err := b.store.RoomExists(sctx, id)
		cancel()
		if err != nil {
			return "", coreError(ErrCodeStorage, fmt.Sprintf("check room: %v", err))
		}
		if exists {
			b.log.Warn().Str("room", id).Int("attempt", attempt).Msg("room id collision, regenerating")
			continue
		}

		sctx, cancel = b.storeCtx(ctx)
		err = b.store.EnsureRoom(sctx, id)
		cancel()
		if err != nil {
			return "", coreError(ErrCodeStorage, fmt.Sprintf("create room: %v", err))
		}

		b.mu.Lock()
		b.reg.track(id)
		b.mu.Unlock()

		b.log.Info().Str("room", id).Msg("room created")
		return id, nil
	}

	return "", coreError(ErrCodeIDExhausted, "could not generate a unique room id")
}

// Join subscribes the client to the room, creating it if absent, and
// returns the full message history as of the join. The room lock is
// held across registration and the history fetch, so a concurrent
// Send either lands in the snapshot or reaches the client via
// broadcast; there is no gap. Joining a new room silently leaves the
// previous one with no notification to its members.
func (b *Broker) Join(ctx context.Context, c *Client, roomID string) ([]Message, error) {
	if roomID == "" {
		return nil, coreError(ErrCodeBadRequest, "room is required")
	}

	l := b.lockRoom(roomID)
	l.Lock()
	defer l.Unlock()

	sctx, cancel := b.storeCtx(ctx)
	err := b.store.EnsureRoom(sctx, roomID)
	cancel()
	if err != nil {
		return nil, coreError(ErrCodeStorage, fmt.Sprintf("ensure room: %v", err))
	}

	b.mu.Lock()
	prev, moved := b.reg.join(c, roomID)
	b.mu.Unlock()
	if moved {
		b.log.Debug().Str("client", c.ID).Str("from", prev).Str("to", roomID).Msg("client switched rooms")
	}

	// History is best-effort: a failed fetch degrades to an empty
	// snapshot rather than aborting the join.
	sctx, cancel = b.storeCtx(ctx)
	rows, err := b.store.ListMessages(sctx, roomID)
	cancel()
	if err != nil {
		b.log.Error().Err(err).Str("room", roomID).Msg("history fetch failed")
		return []Message{}, nil
	}

	history := make([]Message, 0, len(rows))
	for _, row := range rows {
		history = append(history, fromStored(row))
	}
	return history, nil
}

// Send persists a message and broadcasts it to every member of the
// room, the sender included: the sender gets no local echo and relies
// on its own broadcast, so what it renders is always what was stored.
// If the append fails nothing is broadcast.
func (b *Broker) Send(ctx context.Context, c *Client, roomID, text, sender string) (Message, error) {
	if roomID == "" {
		return Message{}, coreError(ErrCodeBadRequest, "room is required")
	}
	if strings.TrimSpace(text) == "" {
		return Message{}, coreError(ErrCodeBadRequest, "text is required")
	}

	b.mu.Lock()
	current, ok := b.reg.roomOf(c)
	b.mu.Unlock()
	if !ok || current != roomID {
		return Message{}, coreError(ErrCodeNotInRoom, "not a member of room "+roomID)
	}

	l := b.lockRoom(roomID)
	l.Lock()
	defer l.Unlock()

	msg := Message{
		ID:        xid.New().String(),
		Room:      roomID,
		Sender:    sender,
		Text:      text,
		Timestamp: b.nextTimestamp(roomID),
	}

	sctx, cancel := b.storeCtx(ctx)
	err := b.store.AppendMessage(sctx, toStored(msg))
	cancel()
	if err != nil {
		b.log.Error().Err(err).Str("room", roomID).Msg("append failed, dropping message")
		return Message{}, coreError(ErrCodeStorage, fmt.Sprintf("append message: %v", err))
	}

	event := &Event{Kind: EventRoomMessage, Room: roomID, Message: msg}
	b.mu.Lock()
	members := b.reg.members(roomID)
	b.mu.Unlock()
	for _, member := range members {
		if !member.Send(event) {
			b.log.Warn().Str("client", member.ID).Str("room", roomID).Msg("slow consumer, event dropped")
		}
	}

	return msg, nil
}

// Disconnect releases the client's room membership. Safe to call
// twice; the second call is a no-op.
func (b *Broker) Disconnect(c *Client) {
	b.mu.Lock()
	roomID, ok := b.reg.remove(c)
	b.mu.Unlock()
	if ok {
		b.log.Debug().Str("client", c.ID).Str("room", roomID).Msg("client disconnected")
	}
}

// ListRoomIDs returns all known room ids. Discovery is best-effort: a
// store failure yields an empty list, never an error.
func (b *Broker) ListRoomIDs(ctx context.Context) []string {
	sctx, cancel := b.storeCtx(ctx)
	defer cancel()

	ids, err := b.store.ListRoomIDs(sctx)
	if err != nil {
		b.log.Error().Err(err).Msg("list rooms failed")
		return []string{}
	}
	return ids
}

// nextTimestamp returns the current time in unix milliseconds,
// clamped so timestamps never decrease within a room. Two sends in
// the same millisecond share a timestamp; the store breaks the tie by
// insertion order. Caller holds the room lock.
func (b *Broker) nextTimestamp(roomID string) int64 {
	now := time.Now().UnixMilli()

	b.mu.Lock()
	defer b.mu.Unlock()
	if last := b.lastTS[roomID]; now < last {
		now = last
	}
	b.lastTS[roomID] = now
	return now
}

func toStored(m Message) *store.Message {
	return &store.Message{
		ID:        m.ID,
		RoomID:    m.Room,
		Text:      m.Text,
		Sender:    m.Sender,
		Timestamp: m.Timestamp,
	}
}

func fromStored(row *store.Message) Message {
	return Message{
		ID:        row.ID,
		Room:      row.RoomID,
		Sender:    row.Sender,
		Text:      row.Text,
		Timestamp: row.Timestamp,
	}
}
