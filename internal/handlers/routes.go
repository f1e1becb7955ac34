package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linkmint/linkmint/internal/ratelimit"
)

// RegisterRoutes registers all short link routes with per-endpoint rate
// limit configuration.
func RegisterRoutes(api huma.API, linkHandler *LinkHandler, healthHandler *HealthHandler) {
	// POST /shorten - Create short link
	// Uses stricter rate limits for write operations
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Create short link",
		Description: "Creates a short link for a target URL, optionally under a custom alias.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 10},
					{Window: time.Hour, Max: 100},
					{Window: 24 * time.Hour, Max: 500},
				},
			},
		},
	}, linkHandler.CreateShortLink)

	// GET /{code} - Redirect to the target URL
	// Uses relaxed rate limits for high-traffic read operations
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to target URL",
		Description: "Redirects to the target URL associated with the short code.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Limits: []ratelimit.LimitConfig{
					{Window: time.Minute, Max: 1000},
				},
			},
		},
	}, linkHandler.Redirect)

	// GET /health - Service health
	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports the health of the service and its stores.",
		Tags:        []string{"Health"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{
				Disabled: true,
			},
		},
	}, healthHandler.Check)
}
