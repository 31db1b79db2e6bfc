package teaser

import (
	"fmt"
	"strings"

	"tokenlens/internal/domain"
	"tokenlens/internal/heuristic"
)

// FromHeuristic converts a deterministic analysis into the teaser shape. This
// is the terminal branch: it always succeeds and always returns a complete
// result tagged provider=heuristic.
func FromHeuristic(snap *domain.MarketSnapshot, heur *domain.HeuristicAnalysis, hints []domain.OCRHint) *domain.TeaserAnalysis {
	return &domain.TeaserAnalysis{
		SRLevels: []domain.SRLevel{
			{Label: "Support", Price: heur.SupportLevel, Type: "support"},
			{Label: "Resistance", Price: heur.ResistanceLevel, Type: "resistance"},
		},
		StopLoss:    fallbackStop(heur),
		TakeProfits: fallbackTargets(heur),
		Indicators:  buildIndicators(heur, hints),
		TeaserText:  buildNarrative(snap, heur),
		Confidence:  heur.Confidence,
		Provider:    domain.TeaserHeuristic,
	}
}

func fallbackStop(heur *domain.HeuristicAnalysis) float64 {
	if heur.StopLoss != nil {
		return *heur.StopLoss
	}
	// Neutral bias carries no directional stop; publish a conservative one
	// just below support.
	return heur.SupportLevel * 0.98
}

func fallbackTargets(heur *domain.HeuristicAnalysis) []float64 {
	if len(heur.TakeProfits) > 0 {
		return heur.TakeProfits
	}
	return []float64{heur.ResistanceLevel}
}

// buildIndicators lists the indicator observations backing the narrative:
// overbought/oversold and Bollinger flags from OCR hints, plus the
// volatility and range descriptors.
func buildIndicators(heur *domain.HeuristicAnalysis, hints []domain.OCRHint) []string {
	var out []string

	if rsi, ok := heuristic.HintNumber(hints, "rsi"); ok {
		switch {
		case rsi > 70:
			out = append(out, fmt.Sprintf("RSI %0.f (overbought)", rsi))
		case rsi < 30:
			out = append(out, fmt.Sprintf("RSI %0.f (oversold)", rsi))
		default:
			out = append(out, fmt.Sprintf("RSI %0.f", rsi))
		}
	}
	if bb, ok := heuristic.HintText(hints, "boll"); ok {
		out = append(out, "Bollinger: "+bb)
	}

	out = append(out, fmt.Sprintf("%s volatility (%.1f%% 24h range)", strings.ToLower(string(heur.RangeSize)), heur.VolatilityPct))
	out = append(out, fmt.Sprintf("Bias: %s", heur.Bias))
	return out
}

// buildNarrative assembles a short template-driven summary keyed on bias,
// volatility, and where the price sits between the levels.
func buildNarrative(snap *domain.MarketSnapshot, heur *domain.HeuristicAnalysis) string {
	var sb strings.Builder

	name := snap.Symbol
	if name == domain.UnknownSymbol {
		name = "The token"
	}

	switch heur.Bias {
	case domain.BiasBullish:
		sb.WriteString(fmt.Sprintf("%s looks stretched to the downside with support near $%.8g.", name, heur.SupportLevel))
		if heur.EntryZone != nil {
			sb.WriteString(fmt.Sprintf(" Accumulation between $%.8g and $%.8g offers the cleaner entry, targeting $%.8g.",
				heur.EntryZone.Min, heur.EntryZone.Max, heur.ResistanceLevel))
		}
	case domain.BiasBearish:
		sb.WriteString(fmt.Sprintf("%s is pressing into resistance near $%.8g and looks overextended.", name, heur.ResistanceLevel))
		if heur.EntryZone != nil {
			sb.WriteString(fmt.Sprintf(" Fades between $%.8g and $%.8g target a move back toward $%.8g.",
				heur.EntryZone.Min, heur.EntryZone.Max, heur.SupportLevel))
		}
	default:
		sb.WriteString(fmt.Sprintf("%s is rangebound between $%.8g and $%.8g with no directional edge.",
			name, heur.SupportLevel, heur.ResistanceLevel))
	}

	switch heur.RangeSize {
	case domain.RangeHigh:
		sb.WriteString(" The 24h range is wide, so size entries accordingly.")
	case domain.RangeLow:
		sb.WriteString(" The 24h range is tight; expect a volatility expansion before a clean break.")
	}

	if proximity(snap.Price, heur.SupportLevel, heur.ResistanceLevel) == "support" {
		sb.WriteString(" Price is currently sitting on support.")
	} else if proximity(snap.Price, heur.SupportLevel, heur.ResistanceLevel) == "resistance" {
		sb.WriteString(" Price is currently testing resistance.")
	}

	return sb.String()
}

// proximity reports which level the price is within 20% of the band of, or
// "" when it is mid-range.
func proximity(price, support, resistance float64) string {
	band := resistance - support
	if band <= 0 {
		return ""
	}
	switch {
	case price-support <= 0.2*band:
		return "support"
	case resistance-price <= 0.2*band:
		return "resistance"
	default:
		return ""
	}
}
