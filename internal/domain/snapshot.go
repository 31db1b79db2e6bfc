package domain

import (
	"fmt"
	"strings"
)

// ProviderID identifies the market data source that produced a snapshot.
type ProviderID string

const (
	ProviderDexScreener   ProviderID = "dexscreener"
	ProviderBirdeye       ProviderID = "birdeye"
	ProviderGeckoTerminal ProviderID = "geckoterminal"
)

// KnownProviders lists every provider that can appear in a chain, in the
// default preference order.
var KnownProviders = []ProviderID{
	ProviderDexScreener,
	ProviderBirdeye,
	ProviderGeckoTerminal,
}

func (p ProviderID) IsValid() bool {
	for _, known := range KnownProviders {
		if p == known {
			return true
		}
	}
	return false
}

// Defaults applied during normalization when a provider omits a field.
const (
	UnknownSymbol    = "UNKNOWN"
	UnknownTokenName = "Unknown Token"
)

// MarketSnapshot is the canonical, provider-agnostic market record for one
// token at one point in time. Every adapter returns a structurally complete
// snapshot regardless of how partial the upstream payload was: Symbol/Name
// default to the UNKNOWN placeholders, High24/Low24 default to Price (never
// to zero, which would corrupt range math), Volume24/Liquidity default to
// zero. A price of exactly zero is valid data and is preserved as-is.
type MarketSnapshot struct {
	Address     string     `json:"address"`
	Symbol      string     `json:"symbol"`
	Name        string     `json:"name"`
	Price       float64    `json:"price"`
	High24      float64    `json:"high_24h"`
	Low24       float64    `json:"low_24h"`
	Change24Pct float64    `json:"change_24h_pct"`
	Volume24    float64    `json:"volume_24h"`
	Liquidity   float64    `json:"liquidity"`
	TimestampMs int64      `json:"timestamp_ms"`
	Provider    ProviderID `json:"provider"`
}

// RouteMeta describes how one orchestrator call was served.
type RouteMeta struct {
	Provider    ProviderID        `json:"provider"`
	Fallback    bool              `json:"fallback"`
	Cached      bool              `json:"cached"`
	LatencyMs   int64             `json:"latency_ms"`
	TimestampMs int64             `json:"timestamp_ms"`
	Attempts    []ProviderAttempt `json:"attempts,omitempty"`
}

// ProviderAttempt records one step of the fallback walk.
type ProviderAttempt struct {
	Provider  ProviderID `json:"provider"`
	OK        bool       `json:"ok"`
	ElapsedMs int64      `json:"elapsed_ms"`
	Error     string     `json:"error,omitempty"`
}

// FetchResult is what the orchestrator hands to every caller: the snapshot
// plus the routing metadata.
type FetchResult struct {
	Snapshot *MarketSnapshot `json:"snapshot"`
	Meta     RouteMeta       `json:"meta"`
}

// ChainExhaustedError is the single error surface of the orchestrator: it is
// returned only when every provider in the chain has failed, and names each
// attempt so the caller can see the whole walk.
type ChainExhaustedError struct {
	Address  string
	Attempts []ProviderAttempt
}

func (e *ChainExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, fmt.Sprintf("%s: %s", a.Provider, a.Error))
	}
	return fmt.Sprintf("all providers failed for %s: %s", e.Address, strings.Join(parts, "; "))
}
