package job

import (
	"context"
	"log"
	"time"

	"tokenlens/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// SnapshotFetcher is the slice of the market service the refresher needs.
type SnapshotFetcher interface {
	Fetch(ctx context.Context, address string) (*domain.FetchResult, error)
}

// WatchlistRefresher keeps the snapshot cache warm for a fixed set of token
// addresses so interactive requests land on cached data.
type WatchlistRefresher struct {
	tracer    trace.Tracer
	market    SnapshotFetcher
	addresses []string
	interval  time.Duration
}

func NewWatchlistRefresher(tracer trace.Tracer, market SnapshotFetcher, addresses []string, pollSecs int) *WatchlistRefresher {
	return &WatchlistRefresher{
		tracer:    tracer,
		market:    market,
		addresses: addresses,
		interval:  time.Duration(pollSecs) * time.Second,
	}
}

// Start blocks until ctx is cancelled. With an empty watchlist it returns
// immediately.
func (w *WatchlistRefresher) Start(ctx context.Context) {
	if len(w.addresses) == 0 {
		log.Println("Watchlist empty, refresher not started")
		return
	}
	log.Printf("Watchlist refresher starting for %d addresses (every %s)", len(w.addresses), w.interval)

	// Run immediately on start
	w.refreshAll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Watchlist refresher stopped")
			return
		case <-ticker.C:
			w.refreshAll(ctx)
		}
	}
}

func (w *WatchlistRefresher) refreshAll(ctx context.Context) {
	ctx, span := w.tracer.Start(ctx, "watchlist.refresh-all")
	defer span.End()

	for _, address := range w.addresses {
		if ctx.Err() != nil {
			return
		}
		if _, err := w.market.Fetch(ctx, address); err != nil {
			log.Printf("watchlist refresh error for %s: %v", address, err)
		}
	}
}
