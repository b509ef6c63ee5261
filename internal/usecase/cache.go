package usecase

import (
	"context"
	"time"
)

// ResultCache backs the analytics endpoints with short-lived cached
// aggregates. Implementations may degrade to a no-op when the cache is
// unreachable.
type ResultCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// AggregateFlusher drops cached analytics aggregates whose inputs
// changed. All analytics keys share one prefix, so a single pattern
// covers every report.
type AggregateFlusher interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}
