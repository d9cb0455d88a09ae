package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"readbrief/internal/domain"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func newTestStore(maxEntries int) (*MemoryStore, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)}
	return NewMemoryStoreWithClock(5*time.Minute, maxEntries, clock.Now), clock
}

func TestMemoryStoreGetPut(t *testing.T) {
	store, _ := newTestStore(10)
	ctx := context.Background()

	want := domain.Session{UserID: "u1", LastURL: "https://example.com/a", Prompt: "prompt"}
	if err := store.Put(ctx, want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := store.Get(ctx, "u1")
	if err != nil || !ok {
		t.Fatalf("expected session to be present, ok = %v, err = %v", ok, err)
	}

	if got != want {
		t.Fatalf("unexpected session: %+v", got)
	}

	if _, ok, _ = store.Get(ctx, "u2"); ok {
		t.Fatalf("expected no session for unknown user")
	}
}

func TestMemoryStoreExpiresEntries(t *testing.T) {
	store, clock := newTestStore(10)
	ctx := context.Background()

	_ = store.Put(ctx, domain.Session{UserID: "u1", LastURL: "https://example.com/a"})

	clock.Advance(4*time.Minute + 59*time.Second)
	if _, ok, _ := store.Get(ctx, "u1"); !ok {
		t.Fatalf("expected session to be alive before TTL")
	}

	clock.Advance(time.Second)
	if _, ok, _ := store.Get(ctx, "u1"); ok {
		t.Fatalf("expected session to expire after TTL")
	}

	if len(store.entries) != 0 {
		t.Fatalf("expected expired session to be removed")
	}
}

func TestMemoryStorePutRefreshesTTL(t *testing.T) {
	store, clock := newTestStore(10)
	ctx := context.Background()

	_ = store.Put(ctx, domain.Session{UserID: "u1", LastURL: "https://example.com/a"})

	clock.Advance(4 * time.Minute)
	_ = store.Put(ctx, domain.Session{UserID: "u1", LastURL: "https://example.com/a", Prompt: "q"})

	clock.Advance(4 * time.Minute)
	got, ok, _ := store.Get(ctx, "u1")
	if !ok {
		t.Fatalf("expected rewritten session to be alive")
	}

	if got.Prompt != "q" {
		t.Fatalf("unexpected prompt: %q", got.Prompt)
	}
}

func TestMemoryStoreEvictsOldestWrite(t *testing.T) {
	store, _ := newTestStore(2)
	ctx := context.Background()

	_ = store.Put(ctx, domain.Session{UserID: "a"})
	_ = store.Put(ctx, domain.Session{UserID: "b"})
	_ = store.Put(ctx, domain.Session{UserID: "a", Prompt: "again"})
	_ = store.Put(ctx, domain.Session{UserID: "c"})

	if _, ok, _ := store.Get(ctx, "b"); ok {
		t.Fatalf("expected entry b to be evicted")
	}

	for _, userID := range []string{"a", "c"} {
		if _, ok, _ := store.Get(ctx, userID); !ok {
			t.Fatalf("expected entry %s to remain", userID)
		}
	}
}

func TestMemoryStorePurgeExpired(t *testing.T) {
	store, clock := newTestStore(10)
	ctx := context.Background()

	_ = store.Put(ctx, domain.Session{UserID: "old"})
	clock.Advance(3 * time.Minute)
	_ = store.Put(ctx, domain.Session{UserID: "new"})
	clock.Advance(3 * time.Minute)

	purged, err := store.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if purged != 1 {
		t.Fatalf("expected one purged entry, got %d", purged)
	}

	if len(store.entries) != 1 {
		t.Fatalf("expected one remaining entry, got %d", len(store.entries))
	}
}

func TestRedisKeyAndDecode(t *testing.T) {
	if got := redisKey("42"); got != "readbrief:session:42" {
		t.Fatalf("unexpected key: %q", got)
	}

	session, err := decodeSession([]byte(`{"userId":"42","lastUrl":"https://example.com","prompt":"p"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.UserID != "42" || session.LastURL != "https://example.com" || session.Prompt != "p" {
		t.Fatalf("unexpected session: %+v", session)
	}

	if _, err = decodeSession([]byte("not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}
