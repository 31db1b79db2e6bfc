// Package heuristic derives a deterministic technical-analysis read from a
// single market snapshot. Analyze is a pure function: no I/O, no clock, no
// hidden randomness; identical inputs always produce identical output.
package heuristic

import (
	"math"
	"strconv"
	"strings"

	"tokenlens/internal/domain"
)

// Bias score thresholds. Positive score means overextension pressure (price
// near resistance, overbought RSI, stretched 24h move), so a high score reads
// bearish and a low score bullish.
const (
	strongChangePct    = 5.0
	mildChangePct      = 2.0
	volumeAmplifyRatio = 2.0
	rsiOverbought      = 60.0
	rsiOversold        = 40.0
	rangePosHigh       = 0.7
	rangePosLow        = 0.3
	biasThreshold      = 2
)

// Engine computes heuristic analyses. It holds only the level variant chosen
// at startup and no mutable state.
type Engine struct {
	variant LevelVariant
}

func NewEngine(variant LevelVariant) *Engine {
	if variant != VariantSeeded {
		variant = VariantFixed
	}
	return &Engine{variant: variant}
}

// Analyze produces the full heuristic read for one snapshot plus optional
// OCR indicator hints.
func (e *Engine) Analyze(snap *domain.MarketSnapshot, hints []domain.OCRHint) domain.HeuristicAnalysis {
	support, resistance := levels(e.variant, snap.Price, snap.High24, snap.Low24)
	volatility := volatilityPct(snap)
	score := biasScore(snap, hints)
	bias := biasFromScore(score)

	analysis := domain.HeuristicAnalysis{
		SupportLevel:    support,
		ResistanceLevel: resistance,
		VolatilityPct:   volatility,
		RangeSize:       rangeSize(volatility),
		Bias:            bias,
		BiasScore:       score,
		Confidence:      confidence(snap, hints, volatility),
		Source:          "heuristic",
	}
	applyZones(&analysis, bias, support, resistance)
	return analysis
}

func volatilityPct(snap *domain.MarketSnapshot) float64 {
	if snap.Price <= 0 {
		return 0
	}
	spread := snap.High24 - snap.Low24
	if spread < 0 {
		spread = -spread
	}
	return spread / snap.Price * 100
}

func rangeSize(volatility float64) domain.RangeSize {
	switch {
	case volatility >= 8:
		return domain.RangeHigh
	case volatility >= 3:
		return domain.RangeMedium
	default:
		return domain.RangeLow
	}
}

// biasScore accumulates the independent signals. The scheme is additive and
// order-independent; a tie or a score of exactly ±1 resolves to Neutral.
func biasScore(snap *domain.MarketSnapshot, hints []domain.OCRHint) int {
	score := 0

	change := snap.Change24Pct
	switch {
	case change >= strongChangePct:
		score += 2
	case change <= -strongChangePct:
		score -= 2
	case change >= mildChangePct:
		score++
	case change <= -mildChangePct:
		score--
	}

	// Heavy turnover relative to pool depth amplifies the move signal.
	if snap.Liquidity > 0 && snap.Volume24/snap.Liquidity > volumeAmplifyRatio {
		if change >= mildChangePct {
			score++
		} else if change <= -mildChangePct {
			score--
		}
	}

	if rsi, ok := HintNumber(hints, "rsi"); ok {
		if rsi > rsiOverbought {
			score++
		} else if rsi < rsiOversold {
			score--
		}
	}

	if snap.High24 > snap.Low24 && snap.Price > 0 {
		pos := (snap.Price - snap.Low24) / (snap.High24 - snap.Low24)
		if pos > rangePosHigh {
			score++ // near resistance
		} else if pos < rangePosLow {
			score-- // near support
		}
	}

	return score
}

func biasFromScore(score int) domain.Bias {
	switch {
	case score >= biasThreshold:
		return domain.BiasBearish
	case score <= -biasThreshold:
		return domain.BiasBullish
	default:
		return domain.BiasNeutral
	}
}

func applyZones(a *domain.HeuristicAnalysis, bias domain.Bias, support, resistance float64) {
	bandRange := resistance - support
	if bandRange <= 0 {
		return
	}

	switch bias {
	case domain.BiasBullish:
		a.EntryZone = &domain.PriceZone{Min: support, Max: support + 0.3*bandRange}
		stop := support - 0.1*bandRange
		if stop < 0 {
			stop = 0
		}
		a.StopLoss = &stop
		a.TakeProfits = []float64{resistance, resistance + 0.5*bandRange}
	case domain.BiasBearish:
		a.EntryZone = &domain.PriceZone{Min: resistance - 0.3*bandRange, Max: resistance}
		stop := resistance + 0.1*bandRange
		a.StopLoss = &stop
		tp2 := support - 0.5*bandRange
		if tp2 < 0 {
			tp2 = 0
		}
		a.TakeProfits = []float64{support, tp2}
	default:
		mid := (support + resistance) / 2
		a.EntryZone = &domain.PriceZone{Min: mid - 0.1*bandRange, Max: mid + 0.1*bandRange}
	}
}

// confidence starts at 0.5 and adds independent bonuses; the sum is clamped
// to [0,1].
func confidence(snap *domain.MarketSnapshot, hints []domain.OCRHint, volatility float64) float64 {
	c := 0.5

	if snap.Liquidity >= 50_000 {
		c += 0.1
	}
	if snap.Liquidity >= 500_000 {
		c += 0.05
	}

	// Neither dead-flat nor extreme.
	if volatility >= 1 && volatility <= 10 {
		c += 0.1
	}

	if len(hints) > 0 {
		c += 0.1
		var sum float64
		for _, h := range hints {
			sum += h.Confidence
		}
		if sum/float64(len(hints)) >= 0.7 {
			c += 0.05
		}
	}

	if math.Abs(snap.Change24Pct) >= mildChangePct {
		c += 0.1
	}

	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// HintNumber finds the first hint whose name contains the given fragment and
// whose value is numeric (or a numeric string).
func HintNumber(hints []domain.OCRHint, nameFragment string) (float64, bool) {
	for _, h := range hints {
		if !strings.Contains(strings.ToLower(h.Name), nameFragment) {
			continue
		}
		switch v := h.Value.(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// HintText finds the first hint whose name contains the fragment and whose
// value is free text (e.g. a Bollinger position description).
func HintText(hints []domain.OCRHint, nameFragment string) (string, bool) {
	for _, h := range hints {
		if !strings.Contains(strings.ToLower(h.Name), nameFragment) {
			continue
		}
		if s, ok := h.Value.(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}
