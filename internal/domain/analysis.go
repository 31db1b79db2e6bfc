package domain

// Bias is the categorical directional read of a snapshot.
type Bias string

const (
	BiasBullish Bias = "Bullish"
	BiasBearish Bias = "Bearish"
	BiasNeutral Bias = "Neutral"
)

// RangeSize buckets 24h volatility.
type RangeSize string

const (
	RangeLow    RangeSize = "Low"
	RangeMedium RangeSize = "Medium"
	RangeHigh   RangeSize = "High"
)

// OCRHint is an optional indicator reading supplied by the OCR collaborator,
// e.g. {Name: "RSI", Value: 72, Confidence: 0.9}. Value may be numeric or a
// string such as "above upper band" for Bollinger position.
type OCRHint struct {
	Name       string  `json:"name"`
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
}

// PriceZone is an inclusive price band.
type PriceZone struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// HeuristicAnalysis is the deterministic technical read derived from a
// snapshot. It is produced fresh on every call and owns no state.
type HeuristicAnalysis struct {
	SupportLevel    float64    `json:"support_level"`
	ResistanceLevel float64    `json:"resistance_level"`
	VolatilityPct   float64    `json:"volatility_pct"`
	RangeSize       RangeSize  `json:"range_size"`
	Bias            Bias       `json:"bias"`
	BiasScore       int        `json:"bias_score"`
	EntryZone       *PriceZone `json:"entry_zone,omitempty"`
	StopLoss        *float64   `json:"stop_loss,omitempty"`
	TakeProfits     []float64  `json:"take_profits,omitempty"`
	Confidence      float64    `json:"confidence"`
	Source          string     `json:"source"`
}

// TeaserProvider tags which branch produced a teaser.
type TeaserProvider string

const (
	TeaserOpenAI    TeaserProvider = "openai"
	TeaserGrok      TeaserProvider = "grok"
	TeaserAnthropic TeaserProvider = "anthropic"
	TeaserHeuristic TeaserProvider = "heuristic"
)

// SRLevel is a labelled support or resistance level in a teaser.
type SRLevel struct {
	Label string  `json:"label"`
	Price float64 `json:"price"`
	Type  string  `json:"type"` // "support" or "resistance"
}

// TeaserAnalysis is the narrative layer. It is always complete: the fallback
// branch guarantees a valid instance even when every AI call fails.
type TeaserAnalysis struct {
	SRLevels     []SRLevel      `json:"sr_levels"`
	StopLoss     float64        `json:"stop_loss"`
	TakeProfits  []float64      `json:"tp"`
	Indicators   []string       `json:"indicators"`
	TeaserText   string         `json:"teaser_text"`
	Confidence   float64        `json:"confidence"`
	Provider     TeaserProvider `json:"provider"`
	ProcessingMs int64          `json:"processing_ms"`
}

// AnalysisResult bundles everything handed to the presentation layer and the
// journal: the routed snapshot, the heuristic read, and the optional teaser.
type AnalysisResult struct {
	Snapshot  *MarketSnapshot    `json:"snapshot"`
	Meta      RouteMeta          `json:"meta"`
	Heuristic *HeuristicAnalysis `json:"heuristic"`
	Teaser    *TeaserAnalysis    `json:"teaser,omitempty"`
}
