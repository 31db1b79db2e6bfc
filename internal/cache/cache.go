// Package cache provides the snapshot TTL cache used by the orchestrator.
// The cache is an explicitly constructed value passed into the service, not
// module state, so tests can run isolated instances side by side.
package cache

import (
	"context"

	"tokenlens/internal/domain"
)

// SnapshotCache memoizes successful fetches keyed by token address. Entries
// expire after the TTL configured at construction; expired entries are
// evicted lazily on access.
type SnapshotCache interface {
	Get(ctx context.Context, address string) (*domain.MarketSnapshot, bool)
	Set(ctx context.Context, address string, snap *domain.MarketSnapshot)
	// Invalidate removes one entry; InvalidateAll clears everything.
	Invalidate(ctx context.Context, address string)
	InvalidateAll(ctx context.Context)
}
