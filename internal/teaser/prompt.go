package teaser

import (
	"fmt"
	"strings"

	"tokenlens/internal/domain"
)

const analystRole = `You are a technical analysis assistant for DEX-traded tokens. You receive one market snapshot plus a deterministic heuristic read and optionally indicator values extracted from a chart screenshot.

Rules:
- Base every statement on the provided numbers. Never invent data.
- Respond with a single JSON object and nothing else. No prose outside JSON.
- Required shape:
  {"sr_levels":[{"label":string,"price":number,"type":"support"|"resistance"}],
   "stop_loss":number,
   "tp":[number],
   "indicators":[string],
   "teaser_text":string,
   "confidence":number between 0 and 1}
- teaser_text is 2-3 sentences, concrete, no financial-advice disclaimers.`

// BuildSystemPrompt returns the fixed system role for the narrative call.
func BuildSystemPrompt() string {
	return analystRole
}

// BuildUserPrompt encodes the market snapshot, the heuristic read, and any
// OCR indicator readings for the model.
func BuildUserPrompt(snap *domain.MarketSnapshot, heur *domain.HeuristicAnalysis, hints []domain.OCRHint) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Token: %s (%s) address=%s\n", snap.Name, snap.Symbol, snap.Address))
	sb.WriteString(fmt.Sprintf("Price: $%.8g\n24h High/Low: $%.8g / $%.8g\n", snap.Price, snap.High24, snap.Low24))
	sb.WriteString(fmt.Sprintf("24h Change: %+.2f%%\n24h Volume: $%.0f\nLiquidity: $%.0f\n", snap.Change24Pct, snap.Volume24, snap.Liquidity))

	if heur != nil {
		sb.WriteString(fmt.Sprintf("\nHeuristic read: bias=%s support=%.8g resistance=%.8g volatility=%.2f%% range=%s confidence=%.2f\n",
			heur.Bias, heur.SupportLevel, heur.ResistanceLevel, heur.VolatilityPct, heur.RangeSize, heur.Confidence))
	}

	if len(hints) > 0 {
		sb.WriteString("\nChart indicator readings (OCR, with extraction confidence):\n")
		for _, h := range hints {
			sb.WriteString(fmt.Sprintf("  %s = %v (confidence %.2f)\n", h.Name, h.Value, h.Confidence))
		}
	}

	sb.WriteString("\nProduce the JSON analysis now.")
	return sb.String()
}
