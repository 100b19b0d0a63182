package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/coolair/coolair-backend/internal/events"
	"github.com/coolair/coolair-backend/internal/logging"
)

// Cache is the subset of internal/cache used for the plan catalog.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// publish sends e and logs a failure. The write it describes has already
// committed, so the caller's result is unaffected.
func publish(ctx context.Context, pub events.Publisher, e events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, e); err != nil {
		slog.Warn("event publish failed",
			"event", e.Type,
			"entity_id", e.EntityID.String(),
			logging.Err(err),
		)
	}
}

func utcNow() time.Time {
	return time.Now().UTC()
}
