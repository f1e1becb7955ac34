package shortlink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/linkmint/linkmint/pkg/base62"
	"go.uber.org/zap"
)

const (
	// DefaultTTL bounds the staleness window of cache records.
	DefaultTTL = 24 * time.Hour

	// taskTimeout bounds detached cache repairs (migration, touch).
	taskTimeout = 5 * time.Second
)

// fieldLastAccessed is the record field updated opportunistically on a
// structured cache hit.
const fieldLastAccessed = "last_accessed"

// Engine orchestrates creation and lookup across the durable store and
// the cache. The engine serializes nothing itself: concurrent creations
// of the same alias are arbitrated by the durable store's uniqueness
// constraint, and cache writes are idempotent, so duplicate concurrent
// backfills and migrations are harmless.
type Engine struct {
	durable DurableStore
	cache   CacheStore
	ttl     time.Duration
	logger  *zap.Logger

	wg sync.WaitGroup
}

// NewEngine creates a resolution engine. The cache TTL defaults to
// DefaultTTL when ttl is zero.
func NewEngine(durable DurableStore, cache CacheStore, ttl time.Duration, logger *zap.Logger) *Engine {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Engine{
		durable: durable,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// CreateParams are the inputs for creating a short link. Alias is
// optional; when empty the code is derived from the assigned id.
type CreateParams struct {
	Owner    string
	Target   string
	Alias    string
	Category string
}

// Create reserves a code for a target and writes the mapping through to
// the cache. A caller that receives a successful result may resolve the
// new code from the cache alone for the duration of the TTL. A failed
// cache write degrades performance only and never fails the creation.
func (e *Engine) Create(ctx context.Context, params CreateParams) (*ShortLink, error) {
	if params.Target == "" {
		return nil, fmt.Errorf("%w: empty target", ErrInvalidInput)
	}

	var link *ShortLink

	var err error

	if params.Alias != "" {
		link, err = e.createWithAlias(ctx, params)
	} else {
		link, err = e.createGenerated(ctx, params)
	}

	if err != nil {
		return nil, err
	}

	// Write-through: synchronous, part of the create contract.
	rec := &Record{
		Target:    link.Target,
		Code:      string(link.Code),
		Owner:     link.Owner,
		Category:  link.Category,
		Status:    StatusActive,
		CreatedAt: link.CreatedAt,
	}

	if err := e.cache.SetStructured(ctx, link.Code, rec, e.ttl); err != nil {
		e.logger.Warn("cache write-through failed, next lookup repairs it",
			zap.String("code", string(link.Code)),
			zap.Error(err),
		)
	}

	return link, nil
}

// createWithAlias reserves a caller-supplied alias. The existence check is
// a race window; the uniqueness constraint on code is the source of truth
// and a constraint violation at commit time is reported as the same
// ErrAliasTaken outcome.
func (e *Engine) createWithAlias(ctx context.Context, params CreateParams) (*ShortLink, error) {
	if !base62.IsValid(params.Alias) {
		return nil, fmt.Errorf("%w: alias %q contains characters outside the code alphabet", ErrInvalidInput, params.Alias)
	}

	code := Code(params.Alias)

	_, err := e.durable.FindByCode(ctx, code)
	if err == nil {
		return nil, fmt.Errorf("%w: %q", ErrAliasTaken, params.Alias)
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: alias check: %v", ErrUnavailable, err)
	}

	createdAt, err := e.durable.InsertWithCode(ctx, params.Owner, params.Target, code, params.Category)
	if err != nil {
		if errors.Is(err, ErrDuplicateCode) {
			return nil, fmt.Errorf("%w: %q", ErrAliasTaken, params.Alias)
		}

		return nil, fmt.Errorf("%w: insert: %v", ErrUnavailable, err)
	}

	return &ShortLink{
		Code:      code,
		Target:    params.Target,
		Owner:     params.Owner,
		Category:  params.Category,
		CreatedAt: createdAt,
	}, nil
}

// createGenerated inserts a pending row to obtain the id, derives the code
// from it, then commits the code. The pending row is never resolvable:
// FindByCode only matches rows whose code is set.
func (e *Engine) createGenerated(ctx context.Context, params CreateParams) (*ShortLink, error) {
	id, createdAt, err := e.durable.InsertPending(ctx, params.Owner, params.Target, params.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: insert: %v", ErrUnavailable, err)
	}

	encoded, err := base62.Encode(id)
	if err != nil {
		return nil, fmt.Errorf("%w: id %d: %v", ErrInvalidInput, id, err)
	}

	code := Code(encoded)

	if err := e.durable.SetCode(ctx, id, code); err != nil {
		// A generated code can still collide with a pre-existing alias that
		// happens to be a valid encoding; the constraint applies uniformly.
		if errors.Is(err, ErrDuplicateCode) {
			return nil, fmt.Errorf("%w: generated code %q collides with an alias", ErrAliasTaken, code)
		}

		return nil, fmt.Errorf("%w: set code: %v", ErrUnavailable, err)
	}

	return &ShortLink{
		ID:        id,
		Code:      code,
		Target:    params.Target,
		Owner:     params.Owner,
		Category:  params.Category,
		CreatedAt: createdAt,
	}, nil
}

// Resolve maps a code to its target through three tiers: structured cache,
// legacy cache, durable store. Cache faults degrade to the next tier; only
// the durable store can produce ErrNotFound or ErrUnavailable.
func (e *Engine) Resolve(ctx context.Context, code Code) (string, error) {
	if code == "" {
		return "", fmt.Errorf("%w: empty code", ErrInvalidInput)
	}

	// Tier 1: structured cache hit.
	rec, err := e.cache.GetStructured(ctx, code)
	if err == nil && rec.Target != "" {
		e.detach("touch cache record", code, func(ctx context.Context) error {
			return e.cache.UpdateField(ctx, code, fieldLastAccessed, time.Now().UTC().Format(time.RFC3339Nano))
		})

		return rec.Target, nil
	}

	if err != nil && !errors.Is(err, ErrCacheMiss) {
		e.logger.Warn("structured cache read failed, degrading",
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}

	// Tier 2: legacy flat entry. Serve it, then migrate in the background
	// so the schema heals without a flag-day cutover.
	target, err := e.cache.GetLegacy(ctx, code)
	if err == nil && target != "" {
		e.detach("migrate legacy record", code, func(ctx context.Context) error {
			return e.migrateLegacy(ctx, code, target)
		})

		return target, nil
	}

	if err != nil && !errors.Is(err, ErrCacheMiss) {
		e.logger.Warn("legacy cache read failed, degrading",
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}

	// Tier 3: durable store, the authoritative answer.
	link, err := e.durable.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: %q", ErrNotFound, code)
		}

		return "", fmt.Errorf("%w: lookup: %v", ErrUnavailable, err)
	}

	e.backfill(ctx, link)

	e.detach("touch link", code, func(ctx context.Context) error {
		return e.durable.TouchAccessed(ctx, link.ID)
	})

	return link.Target, nil
}

// backfill repopulates the cache after a durable-store-served read so the
// next resolution hits tier 1. A failure is logged, never surfaced: the
// durable answer already stands.
func (e *Engine) backfill(ctx context.Context, link *ShortLink) {
	rec := &Record{
		Target:    link.Target,
		Code:      string(link.Code),
		Owner:     link.Owner,
		Category:  link.Category,
		Status:    StatusActive,
		CreatedAt: link.CreatedAt,
	}

	if err := e.cache.SetStructured(ctx, link.Code, rec, e.ttl); err != nil {
		e.logger.Warn("cache backfill failed",
			zap.String("code", string(link.Code)),
			zap.Error(err),
		)
	}
}

// migrateLegacy rewrites a legacy flat entry as a structured record with a
// fresh TTL and removes the old key. Runs detached from the resolution
// that discovered it.
func (e *Engine) migrateLegacy(ctx context.Context, code Code, target string) error {
	rec := &Record{
		Target: target,
		Code:   string(code),
		Status: StatusActive,
	}

	if err := e.cache.SetStructured(ctx, code, rec, e.ttl); err != nil {
		return err
	}

	return e.cache.DeleteLegacy(ctx, code)
}

// detach runs a cache or bookkeeping repair in the background with its own
// bounded deadline. The originating request does not await it; errors are
// logged only.
func (e *Engine) detach(name string, code Code, fn func(ctx context.Context) error) {
	e.wg.Add(1)

	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), taskTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			e.logger.Warn("background task failed",
				zap.String("task", name),
				zap.String("code", string(code)),
				zap.Error(err),
			)
		}
	}()
}

// Wait blocks until all detached background tasks have finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Shutdown drains in-flight background tasks.
func (e *Engine) Shutdown() error {
	e.Wait()

	return nil
}
