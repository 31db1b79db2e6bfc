package provider

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"tokenlens/internal/domain"
)

func TestGeckoTerminalFetch(t *testing.T) {
	t.Parallel()

	adapter := NewGeckoTerminalAdapter(testTracer())
	adapter.baseURL = "http://example"
	adapter.limiter = NewRateLimiter(10, time.Millisecond)
	adapter.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if !strings.Contains(req.URL.Path, "/networks/solana/tokens/addr1") {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			return jsonResponse(http.StatusOK, `{
				"data": {
					"attributes": {
						"symbol": "JUP",
						"name": "Jupiter",
						"price_usd": "0.85",
						"volume_usd": {"h24": "12500000.5"},
						"total_reserve_in_usd": "30000000"
					}
				}
			}`), nil
		}),
	}

	snap, err := adapter.Fetch(context.Background(), "addr1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Symbol != "JUP" || snap.Price != 0.85 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Volume24 != 12500000.5 || snap.Liquidity != 30000000 {
		t.Fatalf("expected string-encoded numerics parsed, got %+v", snap)
	}
	// No OHLC from this API: range collapses to price.
	if snap.High24 != 0.85 || snap.Low24 != 0.85 {
		t.Fatalf("expected high/low at price, got high=%f low=%f", snap.High24, snap.Low24)
	}
	if snap.Provider != domain.ProviderGeckoTerminal {
		t.Fatalf("unexpected provider tag: %s", snap.Provider)
	}
}

func TestNormalizeGeckoTerminalGarbageNumerics(t *testing.T) {
	t.Parallel()

	adapter := NewGeckoTerminalAdapter(testTracer())
	adapter.baseURL = "http://example"
	adapter.limiter = NewRateLimiter(10, time.Millisecond)
	adapter.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{
				"data": {
					"attributes": {
						"symbol": "X",
						"price_usd": "n/a",
						"volume_usd": {"h24": ""}
					}
				}
			}`), nil
		}),
	}

	snap, err := adapter.Fetch(context.Background(), "addr1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Price != 0 || snap.Volume24 != 0 {
		t.Fatalf("expected unparseable numerics to default to zero, got %+v", snap)
	}
}

func TestNormalizeGeckoTerminalNilData(t *testing.T) {
	t.Parallel()

	snap := normalizeGeckoTerminal(&geckoTerminalPayload{}, "addr")
	if snap.Symbol != domain.UnknownSymbol || snap.Address != "addr" {
		t.Fatalf("expected default snapshot, got %+v", snap)
	}
}
