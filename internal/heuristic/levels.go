package heuristic

import (
	"math"
	"math/rand"
)

const (
	fixedBandPct     = 0.05
	snapTolerancePct = 0.01
)

// LevelVariant selects how the support/resistance band is derived.
type LevelVariant string

const (
	// VariantFixed is the authoritative ±5% band.
	VariantFixed LevelVariant = "fixed"
	// VariantSeeded derives a ±1.5–3.5% band from a generator seeded by the
	// price bits, so identical prices always produce identical levels.
	VariantSeeded LevelVariant = "seeded"
)

// levels derives the support/resistance band around price. The band starts at
// the variant's percentage offset and widens to enclose the reported 24h
// high/low, so price always lies strictly inside even when the provider data
// is internally inconsistent. A non-positive price yields degenerate zero
// levels.
func levels(variant LevelVariant, price, high, low float64) (support, resistance float64) {
	if price <= 0 {
		return 0, 0
	}

	pct := fixedBandPct
	if variant == VariantSeeded {
		pct = seededBandPct(price)
	}

	support = price * (1 - pct)
	resistance = price * (1 + pct)
	if low > 0 && low < support {
		support = low
	}
	if high > 0 && high > resistance {
		resistance = high
	}

	support = snapLevel(support, price, true)
	resistance = snapLevel(resistance, price, false)
	return support, resistance
}

// seededBandPct picks an offset in [1.5%, 3.5%) from the price itself.
// Deterministic by construction: the rand source is seeded with the price
// bits, not the clock.
func seededBandPct(price float64) float64 {
	rng := rand.New(rand.NewSource(int64(math.Float64bits(price))))
	return (1.5 + rng.Float64()*2.0) / 100
}

// snapLevel nudges a level toward the nearest psychologically-round number,
// but only when the move is within tolerance and keeps price strictly inside
// the band.
func snapLevel(level, price float64, isSupport bool) float64 {
	step := roundStep(price)
	if step <= 0 {
		return level
	}
	snapped := math.Round(level/step) * step
	if snapped <= 0 {
		return level
	}
	if math.Abs(snapped-level) > snapTolerancePct*price {
		return level
	}
	if isSupport && snapped >= price {
		return level
	}
	if !isSupport && snapped < price {
		return level
	}
	return snapped
}

// roundStep is the round-number granularity for a price magnitude: 10 for a
// price in the hundreds, 0.1 for single digits, 1e-6 for micro-cap prices.
func roundStep(price float64) float64 {
	if price <= 0 {
		return 0
	}
	return math.Pow(10, math.Floor(math.Log10(price))-1)
}
