package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mindwell/internal/screening"
)

type memoryEntry struct {
	sess      *screening.Session
	expiresAt time.Time
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore keeps sessions in process. Expired entries are dropped
// lazily on access.
func NewMemoryStore(ttl time.Duration) SessionStore {
	return &memoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// lookup returns a live entry; callers hold mu
func (m *memoryStore) lookup(id string) (memoryEntry, bool) {
	e, ok := m.entries[id]
	if !ok {
		return e, false
	}
	if m.ttl > 0 && !m.now().Before(e.expiresAt) {
		delete(m.entries, id)
		return e, false
	}
	return e, true
}

func (m *memoryStore) put(sess *screening.Session) {
	m.entries[sess.ID] = memoryEntry{
		sess:      sess.Clone(),
		expiresAt: m.now().Add(m.ttl),
	}
}

func (m *memoryStore) Create(ctx context.Context, sess *screening.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.lookup(sess.ID); ok {
		return fmt.Errorf("%w: %s", ErrSessionExists, sess.ID)
	}
	m.put(sess)
	return nil
}

func (m *memoryStore) Get(ctx context.Context, id string) (*screening.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(id)
	if !ok {
		return nil, nil
	}
	return e.sess.Clone(), nil
}

func (m *memoryStore) Update(ctx context.Context, id string, fn UpdateFunc) (*screening.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	sess := e.sess.Clone()
	if err := fn(sess); err != nil {
		return nil, err
	}
	m.put(sess)
	return sess.Clone(), nil
}

func (m *memoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}
