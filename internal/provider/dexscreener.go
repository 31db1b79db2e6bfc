package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tokenlens/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const dexScreenerBaseURL = "https://api.dexscreener.com"

// DexScreenerAdapter fetches token pair data from the DexScreener public API.
type DexScreenerAdapter struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewDexScreenerAdapter creates the adapter with built-in rate limiting
// (DexScreener allows ~300 requests per minute on the free tier).
func NewDexScreenerAdapter(tracer trace.Tracer) *DexScreenerAdapter {
	return &DexScreenerAdapter{
		client:  &http.Client{},
		baseURL: dexScreenerBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(5, 200*time.Millisecond),
	}
}

func (a *DexScreenerAdapter) ID() domain.ProviderID { return domain.ProviderDexScreener }

// Fetch retrieves all pairs for the token and normalizes the deepest one.
func (a *DexScreenerAdapter) Fetch(ctx context.Context, address string) (*domain.MarketSnapshot, error) {
	ctx, span := a.tracer.Start(ctx, "dexscreener.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("token.address", address))

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/latest/dex/tokens/%s", a.baseURL, address)
	body, err := doGet(ctx, a.client, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dexscreener fetch %s: %w", address, err)
	}

	var payload dexScreenerPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("dexscreener parse %s: %w", address, err)
	}

	return normalizeDexScreener(&payload, address), nil
}

type dexScreenerPayload struct {
	Pairs []dexScreenerPair `json:"pairs"`
}

type dexScreenerPair struct {
	BaseToken *struct {
		Address *string `json:"address"`
		Name    *string `json:"name"`
		Symbol  *string `json:"symbol"`
	} `json:"baseToken"`
	PriceUsd    *string `json:"priceUsd"`
	PriceChange *struct {
		H24 *float64 `json:"h24"`
	} `json:"priceChange"`
	Volume *struct {
		H24 *float64 `json:"h24"`
	} `json:"volume"`
	Liquidity *struct {
		USD *float64 `json:"usd"`
	} `json:"liquidity"`
}

// normalizeDexScreener maps a DexScreener payload onto the canonical
// snapshot. Total: an empty payload, a nil pair list, or missing fields all
// degrade to the documented defaults instead of failing.
func normalizeDexScreener(payload *dexScreenerPayload, address string) *domain.MarketSnapshot {
	snap := &domain.MarketSnapshot{
		Address:     address,
		Symbol:      domain.UnknownSymbol,
		Name:        domain.UnknownTokenName,
		TimestampMs: nowMs(),
		Provider:    domain.ProviderDexScreener,
	}
	if payload == nil || len(payload.Pairs) == 0 {
		return snap
	}

	pair := deepestPair(payload.Pairs)

	if pair.BaseToken != nil {
		snap.Symbol = stringOr(pair.BaseToken.Symbol, domain.UnknownSymbol)
		snap.Name = stringOr(pair.BaseToken.Name, domain.UnknownTokenName)
	}
	snap.Price = numericString(pair.PriceUsd, 0)
	if pair.PriceChange != nil {
		snap.Change24Pct = floatOr(pair.PriceChange.H24, 0)
	}
	if pair.Volume != nil {
		snap.Volume24 = floatOr(pair.Volume.H24, 0)
	}
	if pair.Liquidity != nil {
		snap.Liquidity = floatOr(pair.Liquidity.USD, 0)
	}

	// DexScreener reports no OHLC; estimate the 24h range from the change.
	snap.High24, snap.Low24 = rangeFromChange(snap.Price, snap.Change24Pct)
	return snap
}

// deepestPair picks the pair with the most USD liquidity, which is the most
// representative market for the token.
func deepestPair(pairs []dexScreenerPair) dexScreenerPair {
	best := pairs[0]
	bestLiq := -1.0
	for _, p := range pairs {
		liq := 0.0
		if p.Liquidity != nil {
			liq = floatOr(p.Liquidity.USD, 0)
		}
		if liq > bestLiq {
			best = p
			bestLiq = liq
		}
	}
	return best
}
