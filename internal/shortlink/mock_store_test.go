package shortlink_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/linkmint/linkmint/internal/shortlink"
)

var errDown = errors.New("connection refused")

// faultyDurable wraps a durable store and fails every call while down.
type faultyDurable struct {
	inner shortlink.DurableStore

	mu   sync.Mutex
	down bool
}

func (f *faultyDurable) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *faultyDurable) fail() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.down
}

func (f *faultyDurable) InsertPending(ctx context.Context, owner, target, category string) (int64, time.Time, error) {
	if f.fail() {
		return 0, time.Time{}, errDown
	}

	return f.inner.InsertPending(ctx, owner, target, category)
}

func (f *faultyDurable) SetCode(ctx context.Context, id int64, code shortlink.Code) error {
	if f.fail() {
		return errDown
	}

	return f.inner.SetCode(ctx, id, code)
}

func (f *faultyDurable) InsertWithCode(ctx context.Context, owner, target string, code shortlink.Code, category string) (time.Time, error) {
	if f.fail() {
		return time.Time{}, errDown
	}

	return f.inner.InsertWithCode(ctx, owner, target, code, category)
}

func (f *faultyDurable) FindByCode(ctx context.Context, code shortlink.Code) (*shortlink.ShortLink, error) {
	if f.fail() {
		return nil, errDown
	}

	return f.inner.FindByCode(ctx, code)
}

func (f *faultyDurable) TouchAccessed(ctx context.Context, id int64) error {
	if f.fail() {
		return errDown
	}

	return f.inner.TouchAccessed(ctx, id)
}

// faultyCache wraps a cache store and fails every call while down.
type faultyCache struct {
	inner shortlink.CacheStore

	mu   sync.Mutex
	down bool
}

func (f *faultyCache) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *faultyCache) fail() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.down
}

func (f *faultyCache) GetStructured(ctx context.Context, code shortlink.Code) (*shortlink.Record, error) {
	if f.fail() {
		return nil, errDown
	}

	return f.inner.GetStructured(ctx, code)
}

func (f *faultyCache) GetLegacy(ctx context.Context, code shortlink.Code) (string, error) {
	if f.fail() {
		return "", errDown
	}

	return f.inner.GetLegacy(ctx, code)
}

func (f *faultyCache) SetStructured(ctx context.Context, code shortlink.Code, rec *shortlink.Record, ttl time.Duration) error {
	if f.fail() {
		return errDown
	}

	return f.inner.SetStructured(ctx, code, rec, ttl)
}

func (f *faultyCache) DeleteLegacy(ctx context.Context, code shortlink.Code) error {
	if f.fail() {
		return errDown
	}

	return f.inner.DeleteLegacy(ctx, code)
}

func (f *faultyCache) UpdateField(ctx context.Context, code shortlink.Code, field, value string) error {
	if f.fail() {
		return errDown
	}

	return f.inner.UpdateField(ctx, code, field, value)
}

// readOnlyCache serves reads but fails every write, pinning the cache in
// its current state.
type readOnlyCache struct {
	shortlink.CacheStore
}

func (r *readOnlyCache) SetStructured(_ context.Context, _ shortlink.Code, _ *shortlink.Record, _ time.Duration) error {
	return errDown
}

func (r *readOnlyCache) DeleteLegacy(_ context.Context, _ shortlink.Code) error {
	return errDown
}

// racingDurable simulates a concurrent writer that wins the alias race:
// the existence pre-check misses but the insert hits the uniqueness
// constraint.
type racingDurable struct {
	shortlink.DurableStore
}

func (r *racingDurable) FindByCode(_ context.Context, _ shortlink.Code) (*shortlink.ShortLink, error) {
	return nil, shortlink.ErrNotFound
}

func (r *racingDurable) InsertWithCode(_ context.Context, _, _ string, _ shortlink.Code, _ string) (time.Time, error) {
	return time.Time{}, shortlink.ErrDuplicateCode
}
