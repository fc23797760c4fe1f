package transcript

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memorySession struct {
	messages []Message
	touched  time.Time
}

// MemoryStore is the in-process Store used when Redis is not configured.
// Sessions idle for longer than ttl are dropped on the next access.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, msg Message) (Message, error) {
	if sessionID == "" {
		return Message{}, ErrSessionRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictLocked(now)

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = now.UTC()
	}
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &memorySession{}
		s.sessions[sessionID] = sess
	}
	sess.messages = append(sess.messages, msg)
	sess.touched = now
	return msg, nil
}

func (s *MemoryStore) List(_ context.Context, sessionID string, limit int64) ([]Message, error) {
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked(s.now())
	sess, ok := s.sessions[sessionID]
	if !ok {
		return []Message{}, nil
	}
	return tail(sess.messages, limit), nil
}

func (s *MemoryStore) evictLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if now.Sub(sess.touched) > s.ttl {
			delete(s.sessions, id)
		}
	}
}
