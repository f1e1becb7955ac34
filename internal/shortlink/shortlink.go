// Package shortlink contains the short-link resolution engine: the
// two-store consistency protocol used when a link is created and the
// tiered lookup protocol, including self-healing of legacy cache entries.
package shortlink

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors. Callers branch on kind with errors.Is; anything else
// wrapping ErrUnavailable is a durable-store fault surfaced to the caller.
var (
	// ErrInvalidInput marks a malformed target, identifier or alias.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAliasTaken marks a custom alias already reserved by another link.
	ErrAliasTaken = errors.New("alias already taken")

	// ErrNotFound marks a code absent from both stores.
	ErrNotFound = errors.New("short link not found")

	// ErrUnavailable marks an unreachable or timed-out durable store.
	ErrUnavailable = errors.New("durable store unavailable")

	// ErrDuplicateCode is returned by durable stores when an insert hits
	// the uniqueness constraint on code.
	ErrDuplicateCode = errors.New("duplicate code")

	// ErrCacheMiss is returned by cache stores when a key is absent or
	// expired. It never propagates out of the engine.
	ErrCacheMiss = errors.New("cache miss")
)

// Code is a short link code: either base-62 encoded from the durable-store
// id or a caller-supplied alias.
type Code string

// ShortLink is the canonical link entity. Only LastAccessedAt mutates
// after creation.
type ShortLink struct {
	ID             int64
	Code           Code
	Target         string
	Owner          string
	Category       string
	CreatedAt      time.Time
	LastAccessedAt time.Time
}

// Record status markers. A pending record exists but has not finished its
// write-through; the lookup path never serves it.
const (
	StatusActive  = "active"
	StatusPending = "pending"
)

// Record is the denormalized cache copy of a link, stored under its code
// with a bounded TTL.
type Record struct {
	Target       string
	Code         string
	Owner        string
	Category     string
	Status       string
	CreatedAt    time.Time
	LastAccessed time.Time
}

// DurableStore is the system of record for links. It assigns identifiers,
// enforces code uniqueness and never expires entries.
type DurableStore interface {
	// InsertPending inserts a row without a code and returns the assigned
	// id. The row is not resolvable until SetCode commits.
	InsertPending(ctx context.Context, owner, target, category string) (int64, time.Time, error)

	// SetCode assigns the derived code to a pending row.
	SetCode(ctx context.Context, id int64, code Code) error

	// InsertWithCode inserts a row with a caller-supplied alias as its
	// code. Returns ErrDuplicateCode if the code is already reserved.
	InsertWithCode(ctx context.Context, owner, target string, code Code, category string) (time.Time, error)

	// FindByCode returns the link for a code, or ErrNotFound.
	FindByCode(ctx context.Context, code Code) (*ShortLink, error)

	// TouchAccessed updates the link's last-accessed timestamp.
	TouchAccessed(ctx context.Context, id int64) error
}

// CacheStore is the TTL-bound accelerator. All of its failures are
// recoverable: the engine logs them and falls through to the next tier.
type CacheStore interface {
	// GetStructured returns the structured record for a code, or
	// ErrCacheMiss when absent, expired, or stored in the legacy format.
	GetStructured(ctx context.Context, code Code) (*Record, error)

	// GetLegacy returns the target stored under the retired flat format,
	// or ErrCacheMiss.
	GetLegacy(ctx context.Context, code Code) (string, error)

	// SetStructured writes a structured record with the given TTL,
	// replacing any previous record for the code.
	SetStructured(ctx context.Context, code Code, rec *Record, ttl time.Duration) error

	// DeleteLegacy removes a legacy entry after migration.
	DeleteLegacy(ctx context.Context, code Code) error

	// UpdateField updates a single record field best-effort. A miss is
	// not an error.
	UpdateField(ctx context.Context, code Code, field, value string) error
}
