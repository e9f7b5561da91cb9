package service

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/codapos/pos-agent/internal/domain/entity"
	"github.com/codapos/pos-agent/internal/infrastructure/api"
	"github.com/codapos/pos-agent/pkg/apperror"
)

// ChatService owns the room summary replica and the set of open chat
// sessions. Room summaries poll on the slow interval; an open session polls
// its own messages on the fast one.
type ChatService struct {
	api          *api.ChatAPI
	roomInterval time.Duration
	msgInterval  time.Duration
	tickers      TickerFactory

	roomPoller *Poller

	mu       sync.Mutex
	rooms    []entity.ChatRoom
	sessions map[uuid.UUID]*ChatSession
}

func NewChatService(chatAPI *api.ChatAPI, roomInterval, msgInterval time.Duration, tickers TickerFactory) *ChatService {
	s := &ChatService{
		api:          chatAPI,
		roomInterval: roomInterval,
		msgInterval:  msgInterval,
		tickers:      tickers,
		sessions:     make(map[uuid.UUID]*ChatSession),
	}
	s.roomPoller = NewPoller(roomInterval, func(ctx context.Context) {
		if err := s.RefreshRooms(ctx); err != nil {
			log.Printf("chat: room poll failed: %v", err)
		}
	}, tickers)
	return s
}

// Start begins room summary polling with an inline warm-up fetch.
func (s *ChatService) Start(ctx context.Context) {
	if err := s.RefreshRooms(ctx); err != nil {
		log.Printf("chat: initial room fetch failed: %v", err)
	}
	s.roomPoller.Start()
}

// Stop halts room polling and closes every open session.
func (s *ChatService) Stop() {
	s.roomPoller.Stop()
	s.mu.Lock()
	sessions := make([]*ChatSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()
	for _, sess := range sessions {
		sess.Close()
	}
}

// RefreshRooms replaces the room summary replica. A failed fetch keeps the
// previous data.
func (s *ChatService) RefreshRooms(ctx context.Context) error {
	rooms, err := s.api.ListRooms(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.rooms = rooms
	s.mu.Unlock()
	return nil
}

// Rooms returns a snapshot of the room summaries.
func (s *ChatService) Rooms() []entity.ChatRoom {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.ChatRoom, len(s.rooms))
	copy(out, s.rooms)
	return out
}

// UnreadTotal sums unread counts across all rooms.
func (s *ChatService) UnreadTotal() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, r := range s.rooms {
		total += r.UnreadCount
	}
	return total
}

// Open returns the session for a room, creating it on first use. Opening
// fetches the backlog inline, marks the room read in the background, and
// starts the fast message poller.
func (s *ChatService) Open(ctx context.Context, roomID uuid.UUID) (*ChatSession, error) {
	s.mu.Lock()
	if sess, ok := s.sessions[roomID]; ok {
		s.mu.Unlock()
		return sess, nil
	}
	s.mu.Unlock()

	sess := newChatSession(s, roomID)
	if err := sess.refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if existing, ok := s.sessions[roomID]; ok {
		// Another caller opened the room while we were fetching.
		s.mu.Unlock()
		return existing, nil
	}
	s.sessions[roomID] = sess
	s.mu.Unlock()

	// Read receipts are best effort; a failure never blocks the open.
	go func() {
		mrCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.api.MarkRead(mrCtx, roomID); err != nil {
			log.Printf("chat: mark read failed for room %s: %v", roomID, err)
		}
	}()

	sess.poller.Start()
	return sess, nil
}

// Session returns the open session for a room, if any.
func (s *ChatService) Session(roomID uuid.UUID) (*ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[roomID]
	return sess, ok
}

func (s *ChatService) drop(roomID uuid.UUID) {
	s.mu.Lock()
	delete(s.sessions, roomID)
	s.mu.Unlock()
}

// ChatSession is one open conversation. Messages are kept de-duplicated by
// id and ordered by creation time; sends are serialized so they reach the
// server in the order the cashier typed them.
type ChatSession struct {
	svc    *ChatService
	roomID uuid.UUID
	poller *Poller

	mu       sync.Mutex
	messages []entity.ChatMessage
	closed   bool

	// sendMu serializes Send calls per room.
	sendMu sync.Mutex

	subMu   sync.Mutex
	subs    map[int]func([]entity.ChatMessage)
	nextSub int
}

func newChatSession(svc *ChatService, roomID uuid.UUID) *ChatSession {
	sess := &ChatSession{
		svc:    svc,
		roomID: roomID,
		subs:   make(map[int]func([]entity.ChatMessage)),
	}
	sess.poller = NewPoller(svc.msgInterval, func(ctx context.Context) {
		if err := sess.refresh(ctx); err != nil {
			log.Printf("chat: message poll failed for room %s: %v", roomID, err)
		}
	}, svc.tickers)
	return sess
}

// RoomID returns the room this session belongs to.
func (c *ChatSession) RoomID() uuid.UUID {
	return c.roomID
}

// Messages returns a snapshot of the conversation, oldest first.
func (c *ChatSession) Messages() []entity.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entity.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Subscribe registers a callback fired with the full message list after
// every refresh. Returns an unsubscribe func.
func (c *ChatSession) Subscribe(fn func([]entity.ChatMessage)) func() {
	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subMu.Unlock()
	return func() {
		c.subMu.Lock()
		delete(c.subs, id)
		c.subMu.Unlock()
	}
}

// Send posts a message and refreshes the conversation right away so the
// sender sees their own message without waiting for the next poll. Empty
// and whitespace-only messages are rejected.
func (c *ChatSession) Send(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return apperror.NewBadRequestError("Pesan tidak boleh kosong")
	}
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return apperror.NewBadRequestError("Percakapan sudah ditutup")
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if err := c.svc.api.SendMessage(ctx, c.roomID, content); err != nil {
		return err
	}
	if err := c.refresh(ctx); err != nil {
		log.Printf("chat: refresh after send failed for room %s: %v", c.roomID, err)
	}
	return nil
}

// Close stops the message poller and detaches the session. After Close
// returns, no further fetches fire for this room.
func (c *ChatSession) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.poller.Stop()
	c.svc.drop(c.roomID)
}

func (c *ChatSession) refresh(ctx context.Context) error {
	fetched, err := c.svc.api.ListMessages(ctx, c.roomID, 0, 0)
	if err != nil {
		return err
	}

	// The server list is authoritative, but polling can overlap a send
	// echo, so collapse duplicate ids before ordering.
	seen := make(map[uuid.UUID]struct{}, len(fetched))
	merged := make([]entity.ChatMessage, 0, len(fetched))
	for _, m := range fetched {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		merged = append(merged, m)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.messages = merged
	c.mu.Unlock()

	c.notify(merged)
	return nil
}

func (c *ChatSession) notify(messages []entity.ChatMessage) {
	c.subMu.Lock()
	fns := make([]func([]entity.ChatMessage), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()
	for _, fn := range fns {
		fn(messages)
	}
}
