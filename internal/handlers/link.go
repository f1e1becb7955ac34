package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/linkmint/linkmint/internal/analytics"
	"github.com/linkmint/linkmint/internal/messaging"
	"github.com/linkmint/linkmint/internal/shortlink"
	"go.uber.org/zap"
)

// LinkHandler handles short link operations.
type LinkHandler struct {
	engine             *shortlink.Engine
	baseURL            string
	publishLinkCreated messaging.Publish[analytics.LinkCreatedEvent]
	publishVisit       messaging.Publish[analytics.VisitEvent]
	logger             *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	engine *shortlink.Engine,
	baseURL string,
	publishLinkCreated messaging.Publish[analytics.LinkCreatedEvent],
	publishVisit messaging.Publish[analytics.VisitEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		engine:             engine,
		baseURL:            baseURL,
		publishLinkCreated: publishLinkCreated,
		publishVisit:       publishVisit,
		logger:             logger,
	}
}

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata for visit events.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Referrer  string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

func (h *LinkHandler) CreateShortLink(ctx context.Context, req *CreateShortLinkRequest) (*CreateShortLinkResponse, error) {
	link, err := h.engine.Create(ctx, shortlink.CreateParams{
		Owner:    req.Body.Owner,
		Target:   req.Body.Target,
		Alias:    req.Body.Alias,
		Category: req.Body.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, shortlink.ErrInvalidInput):
			return nil, huma.Error400BadRequest(err.Error())
		case errors.Is(err, shortlink.ErrAliasTaken):
			return nil, huma.Error409Conflict(fmt.Sprintf("alias %q is already taken", req.Body.Alias))
		case errors.Is(err, shortlink.ErrUnavailable):
			return nil, huma.Error503ServiceUnavailable("storage unavailable")
		default:
			return nil, huma.Error500InternalServerError("failed to create short link")
		}
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.LinkCreatedEvent{
		Code:      string(link.Code),
		Target:    link.Target,
		Owner:     link.Owner,
		Category:  link.Category,
		Alias:     req.Body.Alias != "",
		CreatedAt: link.CreatedAt,
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
	}

	if err := h.publishLinkCreated(event); err != nil {
		h.logger.Error("failed to publish link created event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	shortURL := fmt.Sprintf("%s/%s", h.baseURL, link.Code)

	resp := &CreateShortLinkResponse{}
	resp.Headers.Location = shortURL
	resp.Body.Code = string(link.Code)
	resp.Body.ShortURL = shortURL
	resp.Body.Target = link.Target
	resp.Body.CreatedAt = link.CreatedAt.UTC().Format(time.RFC3339)

	return resp, nil
}

// RedirectResponse is the redirect to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `header:"Location"`
	}
}

func (h *LinkHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	target, err := h.engine.Resolve(ctx, shortlink.Code(req.Code))
	if err != nil {
		switch {
		case errors.Is(err, shortlink.ErrNotFound), errors.Is(err, shortlink.ErrInvalidInput):
			return nil, huma.Error404NotFound("short link not found")
		case errors.Is(err, shortlink.ErrUnavailable):
			return nil, huma.Error503ServiceUnavailable("storage unavailable")
		default:
			return nil, huma.Error500InternalServerError("failed to resolve short link")
		}
	}

	// The visit recorder is fire-and-forget: it never delays or fails the
	// redirect.
	meta := RequestMetaFromContext(ctx)
	event := &analytics.VisitEvent{
		Code:      req.Code,
		VisitedAt: time.Now(),
		ClientIP:  meta.ClientIP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
	}

	if err = h.publishVisit(event); err != nil {
		h.logger.Error("failed to publish visit event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{
		Status: http.StatusMovedPermanently,
	}
	resp.Headers.Location = target

	return resp, nil
}
