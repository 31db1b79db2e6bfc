package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"tokenlens/internal/cache"
	"tokenlens/internal/domain"
	"tokenlens/internal/provider"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultProviderTimeout bounds a provider attempt when no per-provider
// budget is configured.
const DefaultProviderTimeout = 5 * time.Second

// MarketService routes snapshot requests through the configured provider
// chain: cache first, then each adapter in order under its own timeout.
// Transient provider failures never reach the caller as long as one provider
// in the chain succeeds.
type MarketService struct {
	tracer   trace.Tracer
	chain    []provider.Adapter
	timeouts map[domain.ProviderID]time.Duration
	cache    cache.SnapshotCache
	now      func() time.Time

	mu         sync.Mutex
	lastServed map[string]domain.ProviderID
}

// NewMarketService wires the chain. An empty chain is a configuration fault
// and is rejected at startup rather than per request.
func NewMarketService(
	tracer trace.Tracer,
	chain []provider.Adapter,
	timeouts map[domain.ProviderID]time.Duration,
	snapshots cache.SnapshotCache,
) (*MarketService, error) {
	if len(chain) == 0 {
		return nil, fmt.Errorf("no market data providers configured")
	}
	return &MarketService{
		tracer:     tracer,
		chain:      chain,
		timeouts:   timeouts,
		cache:      snapshots,
		now:        time.Now,
		lastServed: make(map[string]domain.ProviderID),
	}, nil
}

// Fetch returns a snapshot for the address with routing metadata. The only
// error it can return is a ChainExhaustedError after every provider failed.
func (s *MarketService) Fetch(ctx context.Context, address string) (*domain.FetchResult, error) {
	ctx, span := s.tracer.Start(ctx, "market.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("token.address", address))

	start := s.now()

	if snap, ok := s.cache.Get(ctx, address); ok {
		meta := domain.RouteMeta{
			Provider:    snap.Provider,
			Fallback:    false,
			Cached:      true,
			LatencyMs:   s.now().Sub(start).Milliseconds(),
			TimestampMs: s.now().UnixMilli(),
		}
		span.SetAttributes(
			attribute.Bool("cache.hit", true),
			attribute.String("serving.provider", string(snap.Provider)),
		)
		return &domain.FetchResult{Snapshot: snap, Meta: meta}, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	var attempts []domain.ProviderAttempt
	for i, adapter := range s.chain {
		id := adapter.ID()
		attemptStart := s.now()

		attemptCtx, cancel := context.WithTimeout(ctx, s.timeoutFor(id))
		snap, err := adapter.Fetch(attemptCtx, address)
		cancel()

		elapsed := s.now().Sub(attemptStart).Milliseconds()
		if err != nil {
			attempts = append(attempts, domain.ProviderAttempt{
				Provider:  id,
				OK:        false,
				ElapsedMs: elapsed,
				Error:     err.Error(),
			})
			span.AddEvent("provider.attempt", trace.WithAttributes(
				attribute.String("provider", string(id)),
				attribute.Bool("ok", false),
				attribute.Int64("elapsed_ms", elapsed),
			))
			log.Printf("provider %s failed for %s after %dms: %v", id, address, elapsed, err)
			continue
		}

		attempts = append(attempts, domain.ProviderAttempt{Provider: id, OK: true, ElapsedMs: elapsed})
		span.AddEvent("provider.attempt", trace.WithAttributes(
			attribute.String("provider", string(id)),
			attribute.Bool("ok", true),
			attribute.Int64("elapsed_ms", elapsed),
		))

		s.cache.Set(ctx, address, snap)
		s.noteServing(address, id)

		meta := domain.RouteMeta{
			Provider:    id,
			Fallback:    i > 0,
			Cached:      false,
			LatencyMs:   s.now().Sub(start).Milliseconds(),
			TimestampMs: s.now().UnixMilli(),
			Attempts:    attempts,
		}
		span.SetAttributes(
			attribute.String("serving.provider", string(id)),
			attribute.Bool("fallback", meta.Fallback),
			attribute.Int64("latency_ms", meta.LatencyMs),
		)
		log.Printf("market fetch %s served by %s (fallback=%v latency=%dms)",
			address, id, meta.Fallback, meta.LatencyMs)
		return &domain.FetchResult{Snapshot: snap, Meta: meta}, nil
	}

	err := &domain.ChainExhaustedError{Address: address, Attempts: attempts}
	span.RecordError(err)
	return nil, err
}

// Invalidate drops one cached address so the next fetch goes upstream.
func (s *MarketService) Invalidate(ctx context.Context, address string) {
	s.cache.Invalidate(ctx, address)
}

// InvalidateAll clears the entire snapshot cache.
func (s *MarketService) InvalidateAll(ctx context.Context) {
	s.cache.InvalidateAll(ctx)
}

func (s *MarketService) timeoutFor(id domain.ProviderID) time.Duration {
	if d, ok := s.timeouts[id]; ok && d > 0 {
		return d
	}
	return DefaultProviderTimeout
}

// noteServing logs when the serving provider changes for an address, which
// signals the start of a primary-provider degradation.
func (s *MarketService) noteServing(address string, id domain.ProviderID) {
	s.mu.Lock()
	prev, seen := s.lastServed[address]
	s.lastServed[address] = id
	s.mu.Unlock()

	if seen && prev != id {
		log.Printf("provider switch for %s: %s -> %s", address, prev, id)
	}
}
