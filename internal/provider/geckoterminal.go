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

const geckoTerminalBaseURL = "https://api.geckoterminal.com/api/v2"

// GeckoTerminalAdapter fetches token data from the GeckoTerminal JSON:API.
type GeckoTerminalAdapter struct {
	client  *http.Client
	baseURL string
	network string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewGeckoTerminalAdapter creates the adapter. GeckoTerminal allows 30
// requests per minute without a key.
func NewGeckoTerminalAdapter(tracer trace.Tracer) *GeckoTerminalAdapter {
	return &GeckoTerminalAdapter{
		client:  &http.Client{},
		baseURL: geckoTerminalBaseURL,
		network: "solana",
		tracer:  tracer,
		limiter: NewRateLimiter(30, 2*time.Second),
	}
}

func (a *GeckoTerminalAdapter) ID() domain.ProviderID { return domain.ProviderGeckoTerminal }

func (a *GeckoTerminalAdapter) Fetch(ctx context.Context, address string) (*domain.MarketSnapshot, error) {
	ctx, span := a.tracer.Start(ctx, "geckoterminal.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("token.address", address))

	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/networks/%s/tokens/%s", a.baseURL, a.network, address)
	body, err := doGet(ctx, a.client, url, nil)
	if err != nil {
		return nil, fmt.Errorf("geckoterminal fetch %s: %w", address, err)
	}

	var payload geckoTerminalPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("geckoterminal parse %s: %w", address, err)
	}

	return normalizeGeckoTerminal(&payload, address), nil
}

type geckoTerminalPayload struct {
	Data *struct {
		Attributes *struct {
			Symbol    *string `json:"symbol"`
			Name      *string `json:"name"`
			PriceUSD  *string `json:"price_usd"`
			VolumeUSD *struct {
				H24 *string `json:"h24"`
			} `json:"volume_usd"`
			TotalReserveUSD *string `json:"total_reserve_in_usd"`
		} `json:"attributes"`
	} `json:"data"`
}

// normalizeGeckoTerminal maps a GeckoTerminal token payload onto the
// canonical snapshot. The API encodes numerics as strings and reports no
// OHLC or 24h change, so high/low fall back to the price.
func normalizeGeckoTerminal(payload *geckoTerminalPayload, address string) *domain.MarketSnapshot {
	snap := &domain.MarketSnapshot{
		Address:     address,
		Symbol:      domain.UnknownSymbol,
		Name:        domain.UnknownTokenName,
		TimestampMs: nowMs(),
		Provider:    domain.ProviderGeckoTerminal,
	}
	if payload == nil || payload.Data == nil || payload.Data.Attributes == nil {
		return snap
	}

	attrs := payload.Data.Attributes
	snap.Symbol = stringOr(attrs.Symbol, domain.UnknownSymbol)
	snap.Name = stringOr(attrs.Name, domain.UnknownTokenName)
	snap.Price = numericString(attrs.PriceUSD, 0)
	snap.High24 = snap.Price
	snap.Low24 = snap.Price
	if attrs.VolumeUSD != nil {
		snap.Volume24 = numericString(attrs.VolumeUSD.H24, 0)
	}
	snap.Liquidity = numericString(attrs.TotalReserveUSD, 0)
	return snap
}
