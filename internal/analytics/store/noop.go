package store

import (
	"context"

	"github.com/linkmint/linkmint/internal/analytics"
	"go.uber.org/zap"
)

// Noop is an analytics.Store that only logs events. The consumer runs with
// it until a real sink is wired; the aggregation schema is out of scope
// here.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveLinkCreated(_ context.Context, event *analytics.LinkCreatedEvent) error {
	n.logger.Info("link created event received",
		zap.String("code", event.Code),
		zap.String("target", event.Target),
		zap.String("owner", event.Owner),
		zap.Bool("alias", event.Alias),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (n *Noop) SaveVisit(_ context.Context, event *analytics.VisitEvent) error {
	n.logger.Info("visit event received",
		zap.String("code", event.Code),
		zap.Time("visitedAt", event.VisitedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}
