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

const birdeyeBaseURL = "https://public-api.birdeye.so"

// BirdeyeAdapter fetches the token overview from the Birdeye API. Requires an
// API key; without one the endpoint returns 401 and the orchestrator falls
// through to the next provider.
type BirdeyeAdapter struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewBirdeyeAdapter creates the adapter. The free tier is limited to roughly
// one request per second.
func NewBirdeyeAdapter(tracer trace.Tracer, apiKey string) *BirdeyeAdapter {
	return &BirdeyeAdapter{
		client:  &http.Client{},
		baseURL: birdeyeBaseURL,
		apiKey:  apiKey,
		tracer:  tracer,
		limiter: NewRateLimiter(1, time.Second),
	}
}

func (a *BirdeyeAdapter) ID() domain.ProviderID { return domain.ProviderBirdeye }

func (a *BirdeyeAdapter) Fetch(ctx context.Context, address string) (*domain.MarketSnapshot, error) {
	ctx, span := a.tracer.Start(ctx, "birdeye.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("token.address", address))

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/defi/token_overview?address=%s", a.baseURL, address)
	headers := map[string]string{"x-chain": "solana"}
	if a.apiKey != "" {
		headers["X-API-KEY"] = a.apiKey
	}

	body, err := doGet(ctx, a.client, url, headers)
	if err != nil {
		return nil, fmt.Errorf("birdeye fetch %s: %w", address, err)
	}

	var payload birdeyePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("birdeye parse %s: %w", address, err)
	}
	if payload.Success != nil && !*payload.Success {
		return nil, fmt.Errorf("birdeye fetch %s: upstream reported failure", address)
	}

	return normalizeBirdeye(&payload, address), nil
}

type birdeyePayload struct {
	Success *bool `json:"success"`
	Data    *struct {
		Symbol           *string  `json:"symbol"`
		Name             *string  `json:"name"`
		Price            *float64 `json:"price"`
		High24h          *float64 `json:"high24h"`
		Low24h           *float64 `json:"low24h"`
		PriceChange24Pct *float64 `json:"priceChange24hPercent"`
		Volume24USD      *float64 `json:"v24hUSD"`
		Liquidity        *float64 `json:"liquidity"`
	} `json:"data"`
}

// normalizeBirdeye maps a Birdeye token_overview payload onto the canonical
// snapshot. Missing high/low fall back to the price, never to zero.
func normalizeBirdeye(payload *birdeyePayload, address string) *domain.MarketSnapshot {
	snap := &domain.MarketSnapshot{
		Address:     address,
		Symbol:      domain.UnknownSymbol,
		Name:        domain.UnknownTokenName,
		TimestampMs: nowMs(),
		Provider:    domain.ProviderBirdeye,
	}
	if payload == nil || payload.Data == nil {
		return snap
	}

	d := payload.Data
	snap.Symbol = stringOr(d.Symbol, domain.UnknownSymbol)
	snap.Name = stringOr(d.Name, domain.UnknownTokenName)
	snap.Price = floatOr(d.Price, 0)
	snap.High24 = floatOr(d.High24h, snap.Price)
	snap.Low24 = floatOr(d.Low24h, snap.Price)
	snap.Change24Pct = floatOr(d.PriceChange24Pct, 0)
	snap.Volume24 = floatOr(d.Volume24USD, 0)
	snap.Liquidity = floatOr(d.Liquidity, 0)
	return snap
}
