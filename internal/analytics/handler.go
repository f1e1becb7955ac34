package analytics

import (
	"context"

	"github.com/linkmint/linkmint/internal/messaging"
)

// NewLinkCreatedHandler returns a handler that persists created-link
// events to the store.
func NewLinkCreatedHandler(store Store) messaging.Handler[LinkCreatedEvent] {
	return func(ctx context.Context, event *LinkCreatedEvent) error {
		return store.SaveLinkCreated(ctx, event)
	}
}

// NewVisitHandler returns a handler that persists visit events to the
// store.
func NewVisitHandler(store Store) messaging.Handler[VisitEvent] {
	return func(ctx context.Context, event *VisitEvent) error {
		return store.SaveVisit(ctx, event)
	}
}
