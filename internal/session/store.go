package session

import (
	"container/list"
	"context"
	"sync"
	"time"

	"readbrief/internal/domain"
)

// Store keeps at most one follow-up session per user. A session disappears
// once its TTL has passed since the last Put.
type Store interface {
	Get(ctx context.Context, userID string) (domain.Session, bool, error)
	Put(ctx context.Context, s domain.Session) error
	PurgeExpired(ctx context.Context) (int, error)
}

type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

type memoryEntry struct {
	session   domain.Session
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	return NewMemoryStoreWithClock(ttl, maxEntries, time.Now)
}

// NewMemoryStoreWithClock is NewMemoryStore with an injected clock.
func NewMemoryStoreWithClock(ttl time.Duration, maxEntries int, now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        now,
	}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (domain.Session, bool, error) {
	session, ok := s.get(userID, s.now())
	return session, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, session domain.Session) error {
	s.set(session, s.now())
	return nil
}

func (s *MemoryStore) PurgeExpired(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.evictExpiredLocked(s.now()), nil
}

func (s *MemoryStore) get(userID string, now time.Time) (domain.Session, bool) {
	if userID == "" {
		return domain.Session{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[userID]
	if !ok {
		return domain.Session{}, false
	}

	entry, ok := elem.Value.(*memoryEntry)
	if !ok {
		return domain.Session{}, false
	}

	if !now.Before(entry.expiresAt) {
		s.removeElement(elem)

		return domain.Session{}, false
	}

	return entry.session, true
}

func (s *MemoryStore) set(session domain.Session, now time.Time) {
	if session.UserID == "" {
		return
	}

	expiresAt := now.Add(s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[session.UserID]; ok {
		entry, castOk := elem.Value.(*memoryEntry)
		if !castOk {
			return
		}

		entry.session = session
		entry.expiresAt = expiresAt
		s.order.MoveToFront(elem)

		return
	}

	elem := s.order.PushFront(&memoryEntry{
		session:   session,
		expiresAt: expiresAt,
	})
	s.entries[session.UserID] = elem

	s.evictExpiredLocked(now)
	s.enforceSizeLimitLocked()
}

func (s *MemoryStore) evictExpiredLocked(now time.Time) int {
	evicted := 0

	for elem := s.order.Back(); elem != nil; {
		prev := elem.Prev()

		entry, ok := elem.Value.(*memoryEntry)
		if ok && !now.Before(entry.expiresAt) {
			s.removeElement(elem)
			evicted++
		}

		elem = prev
	}

	return evicted
}

func (s *MemoryStore) enforceSizeLimitLocked() {
	if s.maxEntries <= 0 {
		return
	}

	for len(s.entries) > s.maxEntries {
		elem := s.order.Back()
		if elem == nil {
			return
		}
		s.removeElement(elem)
	}
}

func (s *MemoryStore) removeElement(elem *list.Element) {
	entry, ok := elem.Value.(*memoryEntry)
	if !ok {
		return
	}

	delete(s.entries, entry.session.UserID)
	s.order.Remove(elem)
}
