package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tokenlens/internal/cache"
	"tokenlens/internal/domain"
	"tokenlens/internal/provider"

	"go.opentelemetry.io/otel/trace"
)

type fakeAdapter struct {
	id    domain.ProviderID
	snap  *domain.MarketSnapshot
	err   error
	block bool
	calls int
}

func (f *fakeAdapter) ID() domain.ProviderID { return f.id }

func (f *fakeAdapter) Fetch(ctx context.Context, address string) (*domain.MarketSnapshot, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	snap := *f.snap
	snap.Address = address
	return &snap, nil
}

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

func snapFor(id domain.ProviderID) *domain.MarketSnapshot {
	return &domain.MarketSnapshot{Symbol: "TEST", Price: 1, Provider: id}
}

func TestFetchPrimarySuccess(t *testing.T) {
	t.Parallel()

	primary := &fakeAdapter{id: domain.ProviderDexScreener, snap: snapFor(domain.ProviderDexScreener)}
	svc, err := NewMarketService(testTracer(), []provider.Adapter{primary}, nil, cache.NewMemoryCache(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Fetch(context.Background(), "addr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Meta.Provider != domain.ProviderDexScreener || result.Meta.Fallback || result.Meta.Cached {
		t.Fatalf("unexpected meta: %+v", result.Meta)
	}
	if len(result.Meta.Attempts) != 1 || !result.Meta.Attempts[0].OK {
		t.Fatalf("expected one successful attempt, got %+v", result.Meta.Attempts)
	}
}

func TestFetchFallsBackOnPrimaryFailure(t *testing.T) {
	t.Parallel()

	primary := &fakeAdapter{id: domain.ProviderDexScreener, err: errors.New("rate limited")}
	secondary := &fakeAdapter{id: domain.ProviderBirdeye, snap: snapFor(domain.ProviderBirdeye)}
	svc, err := NewMarketService(testTracer(), []provider.Adapter{primary, secondary}, nil, cache.NewMemoryCache(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Fetch(context.Background(), "addr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Meta.Provider != domain.ProviderBirdeye {
		t.Fatalf("expected birdeye to serve, got %s", result.Meta.Provider)
	}
	if !result.Meta.Fallback {
		t.Fatal("expected fallback=true when a non-primary provider serves")
	}
	if len(result.Meta.Attempts) != 2 {
		t.Fatalf("expected 2 attempts recorded, got %d", len(result.Meta.Attempts))
	}
	if result.Meta.Attempts[0].OK || result.Meta.Attempts[0].Error == "" {
		t.Fatalf("expected failed first attempt with error text, got %+v", result.Meta.Attempts[0])
	}
}

func TestFetchServesFromCache(t *testing.T) {
	t.Parallel()

	primary := &fakeAdapter{id: domain.ProviderDexScreener, snap: snapFor(domain.ProviderDexScreener)}
	svc, err := NewMarketService(testTracer(), []provider.Adapter{primary}, nil, cache.NewMemoryCache(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	if _, err := svc.Fetch(ctx, "addr"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := svc.Fetch(ctx, "addr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Meta.Cached {
		t.Fatal("expected second fetch to be served from cache")
	}
	if result.Meta.Fallback {
		t.Fatal("cached responses are never fallbacks")
	}
	if primary.calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", primary.calls)
	}
}

func TestFetchChainExhausted(t *testing.T) {
	t.Parallel()

	first := &fakeAdapter{id: domain.ProviderDexScreener, err: errors.New("boom")}
	second := &fakeAdapter{id: domain.ProviderGeckoTerminal, err: errors.New("bust")}
	svc, err := NewMarketService(testTracer(), []provider.Adapter{first, second}, nil, cache.NewMemoryCache(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Fetch(context.Background(), "addr")
	if err == nil {
		t.Fatal("expected error when every provider fails")
	}
	var exhausted *domain.ChainExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected ChainExhaustedError, got %T", err)
	}
	if len(exhausted.Attempts) != 2 {
		t.Fatalf("expected both attempts recorded, got %d", len(exhausted.Attempts))
	}
	msg := err.Error()
	if !strings.Contains(msg, "dexscreener") || !strings.Contains(msg, "geckoterminal") {
		t.Fatalf("expected error to name every provider, got %q", msg)
	}
}

func TestFetchProviderTimeout(t *testing.T) {
	t.Parallel()

	slow := &fakeAdapter{id: domain.ProviderDexScreener, block: true}
	fast := &fakeAdapter{id: domain.ProviderBirdeye, snap: snapFor(domain.ProviderBirdeye)}
	timeouts := map[domain.ProviderID]time.Duration{
		domain.ProviderDexScreener: 20 * time.Millisecond,
	}
	svc, err := NewMarketService(testTracer(), []provider.Adapter{slow, fast}, timeouts, cache.NewMemoryCache(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := svc.Fetch(context.Background(), "addr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Meta.Provider != domain.ProviderBirdeye {
		t.Fatalf("expected timeout to advance the chain, got %s", result.Meta.Provider)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	t.Parallel()

	primary := &fakeAdapter{id: domain.ProviderDexScreener, snap: snapFor(domain.ProviderDexScreener)}
	svc, err := NewMarketService(testTracer(), []provider.Adapter{primary}, nil, cache.NewMemoryCache(time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	if _, err := svc.Fetch(ctx, "addr"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.Invalidate(ctx, "addr")
	if _, err := svc.Fetch(ctx, "addr"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if primary.calls != 2 {
		t.Fatalf("expected refetch after invalidation, got %d calls", primary.calls)
	}
}

func TestNewMarketServiceRejectsEmptyChain(t *testing.T) {
	t.Parallel()

	if _, err := NewMarketService(testTracer(), nil, nil, cache.NewMemoryCache(time.Minute)); err == nil {
		t.Fatal("expected error for empty chain")
	}
}
