package handlers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// HealthChecker defines the interface for checking a dependency's health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RedisHealthChecker adapts redis.Client to the HealthChecker interface.
type RedisHealthChecker struct {
	client *redis.Client
}

// NewRedisHealthChecker creates a new Redis health checker.
func NewRedisHealthChecker(client *redis.Client) *RedisHealthChecker {
	return &RedisHealthChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisHealthChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// PoolHealthChecker adapts pgxpool.Pool to the HealthChecker interface.
type PoolHealthChecker struct {
	pool *pgxpool.Pool
}

// NewPoolHealthChecker creates a new Postgres pool health checker.
func NewPoolHealthChecker(pool *pgxpool.Pool) *PoolHealthChecker {
	return &PoolHealthChecker{pool: pool}
}

// Ping checks database connectivity.
func (p *PoolHealthChecker) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// HealthHandler handles health check operations. A cache fault degrades
// the service; a durable-store fault makes it unhealthy.
type HealthHandler struct {
	cache   HealthChecker
	durable HealthChecker
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(cache, durable HealthChecker) *HealthHandler {
	return &HealthHandler{cache: cache, durable: durable}
}

// HealthResponse is the response for the health check endpoint.
type HealthResponse struct {
	Body struct {
		Status  string `json:"status"`
		Cache   string `json:"cache"`
		Durable string `json:"durable"`
	}
}

// Check performs a health check of the service and its stores.
func (h *HealthHandler) Check(ctx context.Context, _ *struct{}) (*HealthResponse, error) {
	resp := &HealthResponse{}
	resp.Body.Status = "ok"
	resp.Body.Cache = check(ctx, h.cache)
	resp.Body.Durable = check(ctx, h.durable)

	if resp.Body.Cache == "unhealthy" {
		resp.Body.Status = "degraded"
	}

	if resp.Body.Durable == "unhealthy" {
		resp.Body.Status = "unhealthy"
	}

	return resp, nil
}

func check(ctx context.Context, hc HealthChecker) string {
	if hc == nil {
		return "disabled"
	}

	if err := hc.Ping(ctx); err != nil {
		return "unhealthy"
	}

	return "healthy"
}
