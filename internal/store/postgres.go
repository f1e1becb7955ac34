package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/linkmint/linkmint/internal/shortlink"
)

// pgUniqueViolation is the PostgreSQL error code for a unique constraint
// violation. The constraint on short_links.code is the arbiter of alias
// conflicts; see shortlink.Engine.
const pgUniqueViolation = "23505"

// PostgresStore is a PostgreSQL implementation of shortlink.DurableStore.
// Generated-path rows are inserted with a NULL code and only become
// resolvable once SetCode commits: FindByCode matches non-null codes only.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed durable store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) InsertPending(ctx context.Context, owner, target, category string) (int64, time.Time, error) {
	query := `
		INSERT INTO short_links (owner, target, category, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, created_at
	`

	var id int64

	var createdAt time.Time

	err := p.pool.QueryRow(ctx, query, owner, target, nullable(category)).Scan(&id, &createdAt)
	if err != nil {
		return 0, time.Time{}, err
	}

	return id, createdAt, nil
}

func (p *PostgresStore) SetCode(ctx context.Context, id int64, code shortlink.Code) error {
	query := `UPDATE short_links SET code = $1 WHERE id = $2 AND code IS NULL`

	tag, err := p.pool.Exec(ctx, query, string(code), id)
	if err != nil {
		if isUniqueViolation(err) {
			return shortlink.ErrDuplicateCode
		}

		return err
	}

	if tag.RowsAffected() == 0 {
		return shortlink.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) InsertWithCode(ctx context.Context, owner, target string, code shortlink.Code, category string) (time.Time, error) {
	query := `
		INSERT INTO short_links (code, owner, target, category, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING created_at
	`

	var createdAt time.Time

	err := p.pool.QueryRow(ctx, query, string(code), owner, target, nullable(category)).Scan(&createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return time.Time{}, shortlink.ErrDuplicateCode
		}

		return time.Time{}, err
	}

	return createdAt, nil
}

func (p *PostgresStore) FindByCode(ctx context.Context, code shortlink.Code) (*shortlink.ShortLink, error) {
	query := `
		SELECT id, code, target, owner, category, created_at, last_accessed_at
		FROM short_links
		WHERE code = $1
	`

	var link shortlink.ShortLink

	var category *string

	var lastAccessed *time.Time

	err := p.pool.QueryRow(ctx, query, string(code)).Scan(
		&link.ID,
		&link.Code,
		&link.Target,
		&link.Owner,
		&category,
		&link.CreatedAt,
		&lastAccessed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortlink.ErrNotFound
		}

		return nil, err
	}

	if category != nil {
		link.Category = *category
	}

	if lastAccessed != nil {
		link.LastAccessedAt = *lastAccessed
	}

	return &link, nil
}

func (p *PostgresStore) TouchAccessed(ctx context.Context, id int64) error {
	query := `UPDATE short_links SET last_accessed_at = now() WHERE id = $1`

	_, err := p.pool.Exec(ctx, query, id)

	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// Compile-time check.
var _ shortlink.DurableStore = (*PostgresStore)(nil)
