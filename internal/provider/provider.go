package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tokenlens/internal/domain"
)

// nowMs stamps snapshots at normalization time. Swapped out in tests.
var nowMs = func() int64 { return time.Now().UnixMilli() }

// Adapter fetches and normalizes market data for one upstream provider.
// Fetch honors the deadline on ctx; the orchestrator is responsible for
// setting the per-provider budget.
type Adapter interface {
	ID() domain.ProviderID
	Fetch(ctx context.Context, address string) (*domain.MarketSnapshot, error)
}

// doGet issues a context-bound GET and returns the body on 2xx. Non-2xx
// responses are errors so the orchestrator can advance the chain.
func doGet(ctx context.Context, client *http.Client, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

// Presence-checking accessors. Raw payloads are decoded into structs with
// pointer fields; every read goes through one of these with an explicit
// default, so an absent field can never invalidate the rest of the record
// and a legitimate zero is distinguished from "missing".

func floatOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func stringOr(v *string, def string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return def
	}
	return strings.TrimSpace(*v)
}

// numericString parses a string-encoded number ("1.2345"), returning def on
// absence or garbage. Several DEX APIs encode prices as strings to avoid
// float truncation in JavaScript clients.
func numericString(v *string, def float64) float64 {
	if v == nil {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*v), 64)
	if err != nil {
		return def
	}
	return f
}

// rangeFromChange backs out a 24h high/low estimate for providers that report
// a 24h change but no OHLC: the price 24h ago brackets the range together
// with the current price. Falls back to price on both sides when no change is
// known, per the normalization defaulting rules.
func rangeFromChange(price, changePct float64) (high, low float64) {
	high, low = price, price
	if changePct == 0 || price == 0 {
		return high, low
	}
	// A change of -100% or below makes the implied previous price undefined
	// (zero or negative denominator); keep the collapsed range.
	denom := 1 + changePct/100
	if denom <= 0 {
		return high, low
	}
	prev := price / denom
	if prev > high {
		high = prev
	}
	if prev < low {
		low = prev
	}
	return high, low
}
