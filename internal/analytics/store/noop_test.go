package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/linkmint/linkmint/internal/analytics"
	"github.com/linkmint/linkmint/internal/analytics/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewNoop(t *testing.T) {
	logger := zap.NewNop()
	noop := store.NewNoop(logger)

	assert.NotNil(t, noop)
}

func TestNoop_SaveLinkCreated(t *testing.T) {
	logger := zap.NewNop()
	noop := store.NewNoop(logger)

	event := &analytics.LinkCreatedEvent{
		Code:      "abc123",
		Target:    "https://example.com",
		Owner:     "alice",
		CreatedAt: time.Now(),
	}

	err := noop.SaveLinkCreated(context.Background(), event)

	require.NoError(t, err)
}

func TestNoop_SaveVisit(t *testing.T) {
	logger := zap.NewNop()
	noop := store.NewNoop(logger)

	event := &analytics.VisitEvent{
		Code:      "abc123",
		VisitedAt: time.Now(),
		ClientIP:  "127.0.0.1",
		UserAgent: "TestAgent/1.0",
		Referrer:  "https://referrer.com",
	}

	err := noop.SaveVisit(context.Background(), event)

	require.NoError(t, err)
}
