package store

import (
	"context"
	"sync"
	"time"

	"github.com/linkmint/linkmint/internal/shortlink"
)

// MemoryStore is an in-process implementation of shortlink.DurableStore.
// It assigns monotonically increasing ids and enforces code uniqueness the
// same way the Postgres adapter does.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	links  map[int64]*shortlink.ShortLink
	codes  map[shortlink.Code]int64
}

// NewMemoryStore creates a new in-memory durable store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[int64]*shortlink.ShortLink),
		codes: make(map[shortlink.Code]int64),
	}
}

func (m *MemoryStore) InsertPending(_ context.Context, owner, target, category string) (int64, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	now := time.Now().UTC()

	m.links[m.nextID] = &shortlink.ShortLink{
		ID:        m.nextID,
		Target:    target,
		Owner:     owner,
		Category:  category,
		CreatedAt: now,
	}

	return m.nextID, now, nil
}

func (m *MemoryStore) SetCode(_ context.Context, id int64, code shortlink.Code) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.codes[code]; taken {
		return shortlink.ErrDuplicateCode
	}

	link, ok := m.links[id]
	if !ok {
		return shortlink.ErrNotFound
	}

	link.Code = code
	m.codes[code] = id

	return nil
}

func (m *MemoryStore) InsertWithCode(_ context.Context, owner, target string, code shortlink.Code, category string) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.codes[code]; taken {
		return time.Time{}, shortlink.ErrDuplicateCode
	}

	m.nextID++
	now := time.Now().UTC()

	m.links[m.nextID] = &shortlink.ShortLink{
		ID:        m.nextID,
		Code:      code,
		Target:    target,
		Owner:     owner,
		Category:  category,
		CreatedAt: now,
	}
	m.codes[code] = m.nextID

	return now, nil
}

func (m *MemoryStore) FindByCode(_ context.Context, code shortlink.Code) (*shortlink.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.codes[code]
	if !ok {
		return nil, shortlink.ErrNotFound
	}

	cp := *m.links[id]

	return &cp, nil
}

func (m *MemoryStore) TouchAccessed(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	link, ok := m.links[id]
	if !ok {
		return shortlink.ErrNotFound
	}

	link.LastAccessedAt = time.Now().UTC()

	return nil
}

// Count returns the number of links holding the given code. At most one
// row may ever hold a code.
func (m *MemoryStore) Count(code shortlink.Code) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0

	for _, link := range m.links {
		if link.Code == code {
			n++
		}
	}

	return n
}

// Compile-time check.
var _ shortlink.DurableStore = (*MemoryStore)(nil)
