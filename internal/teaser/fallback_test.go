package teaser

import (
	"strings"
	"testing"

	"tokenlens/internal/domain"
)

func TestFromHeuristicNeutral(t *testing.T) {
	t.Parallel()

	snap, heur := testInputs()
	result := FromHeuristic(snap, heur, nil)

	if result.Provider != domain.TeaserHeuristic {
		t.Fatalf("unexpected provider: %s", result.Provider)
	}
	if len(result.SRLevels) != 2 {
		t.Fatalf("expected both levels, got %+v", result.SRLevels)
	}
	if result.SRLevels[0].Type != "support" || result.SRLevels[1].Type != "resistance" {
		t.Fatalf("unexpected level types: %+v", result.SRLevels)
	}
	// Neutral heuristic has no stop: conservative one below support.
	if result.StopLoss != heur.SupportLevel*0.98 {
		t.Fatalf("unexpected stop: %f", result.StopLoss)
	}
	if len(result.TakeProfits) != 1 || result.TakeProfits[0] != heur.ResistanceLevel {
		t.Fatalf("unexpected targets: %+v", result.TakeProfits)
	}
	if !strings.Contains(result.TeaserText, "rangebound") && !strings.Contains(result.TeaserText, "Rangebound") {
		t.Fatalf("neutral narrative should mention the range: %q", result.TeaserText)
	}
	if result.Confidence != heur.Confidence {
		t.Fatalf("confidence must carry over, got %f", result.Confidence)
	}
}

func TestFromHeuristicDirectionalCarriesZones(t *testing.T) {
	t.Parallel()

	snap, heur := testInputs()
	stop := 140.0
	heur.Bias = domain.BiasBullish
	heur.StopLoss = &stop
	heur.TakeProfits = []float64{157.5, 165}
	heur.EntryZone = &domain.PriceZone{Min: 142.5, Max: 147}

	result := FromHeuristic(snap, heur, nil)
	if result.StopLoss != 140.0 {
		t.Fatalf("expected heuristic stop carried over, got %f", result.StopLoss)
	}
	if len(result.TakeProfits) != 2 {
		t.Fatalf("expected heuristic targets carried over, got %+v", result.TakeProfits)
	}
	if !strings.Contains(result.TeaserText, "support") {
		t.Fatalf("bullish narrative should reference support: %q", result.TeaserText)
	}
}

func TestFromHeuristicUnknownSymbol(t *testing.T) {
	t.Parallel()

	snap, heur := testInputs()
	snap.Symbol = domain.UnknownSymbol

	result := FromHeuristic(snap, heur, nil)
	if strings.Contains(result.TeaserText, domain.UnknownSymbol) {
		t.Fatalf("narrative must not print the placeholder symbol: %q", result.TeaserText)
	}
	if !strings.HasPrefix(result.TeaserText, "The token") {
		t.Fatalf("expected generic subject, got %q", result.TeaserText)
	}
}

func TestBuildIndicators(t *testing.T) {
	t.Parallel()

	_, heur := testInputs()
	hints := []domain.OCRHint{
		{Name: "RSI (14)", Value: 75.0, Confidence: 0.9},
		{Name: "Bollinger position", Value: "above upper band", Confidence: 0.8},
	}

	indicators := buildIndicators(heur, hints)
	joined := strings.Join(indicators, "|")
	if !strings.Contains(joined, "overbought") {
		t.Fatalf("expected overbought flag: %v", indicators)
	}
	if !strings.Contains(joined, "Bollinger: above upper band") {
		t.Fatalf("expected bollinger line: %v", indicators)
	}
	if !strings.Contains(joined, "medium volatility") {
		t.Fatalf("expected volatility descriptor: %v", indicators)
	}
	if !strings.Contains(joined, "Bias: Neutral") {
		t.Fatalf("expected bias line: %v", indicators)
	}
}

func TestProximity(t *testing.T) {
	t.Parallel()

	// band 100..110: 20% of band is 2
	if got := proximity(101, 100, 110); got != "support" {
		t.Fatalf("expected support proximity, got %q", got)
	}
	if got := proximity(109, 100, 110); got != "resistance" {
		t.Fatalf("expected resistance proximity, got %q", got)
	}
	if got := proximity(105, 100, 110); got != "" {
		t.Fatalf("expected mid-range, got %q", got)
	}
	if got := proximity(5, 10, 10); got != "" {
		t.Fatalf("degenerate band must report mid-range, got %q", got)
	}
}

func TestNarrativeRangeSizeLines(t *testing.T) {
	t.Parallel()

	snap, heur := testInputs()

	heur.RangeSize = domain.RangeHigh
	if text := buildNarrative(snap, heur); !strings.Contains(text, "wide") {
		t.Fatalf("high range narrative should warn about width: %q", text)
	}

	heur.RangeSize = domain.RangeLow
	if text := buildNarrative(snap, heur); !strings.Contains(text, "tight") {
		t.Fatalf("low range narrative should mention compression: %q", text)
	}
}
