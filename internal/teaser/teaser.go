// Package teaser produces the narrative layer on top of a heuristic
// analysis. The AI path is best-effort under a hard time budget; every
// failure mode (timeout, HTTP error, malformed or schema-invalid JSON)
// collapses into the deterministic heuristic branch, so callers never see an
// error — only a provider tag disclosing which branch answered.
package teaser

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"tokenlens/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout is the hard budget for one AI call.
const DefaultTimeout = 3 * time.Second

const defaultMaxTokens = 600

type TeaserService struct {
	tracer   trace.Tracer
	llm      LLMClient
	provider domain.TeaserProvider
	timeout  time.Duration
	now      func() time.Time
}

// NewTeaserService wires the narrative service. Pass a nil llm or the
// heuristic provider to disable the AI branch entirely.
func NewTeaserService(tracer trace.Tracer, llm LLMClient, provider domain.TeaserProvider, timeout time.Duration) *TeaserService {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TeaserService{
		tracer:   tracer,
		llm:      llm,
		provider: provider,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Generate returns a complete teaser for the snapshot. It never fails: any
// problem on the AI path yields the heuristic teaser instead.
func (s *TeaserService) Generate(ctx context.Context, snap *domain.MarketSnapshot, heur *domain.HeuristicAnalysis, hints []domain.OCRHint) *domain.TeaserAnalysis {
	ctx, span := s.tracer.Start(ctx, "teaser.generate")
	defer span.End()

	start := s.now()

	result := s.tryAI(ctx, snap, heur, hints)
	if result == nil {
		result = FromHeuristic(snap, heur, hints)
	}

	result.ProcessingMs = s.now().Sub(start).Milliseconds()
	span.SetAttributes(
		attribute.String("teaser.provider", string(result.Provider)),
		attribute.Int64("teaser.processing_ms", result.ProcessingMs),
	)
	log.Printf("teaser for %s produced by %s in %dms", snap.Address, result.Provider, result.ProcessingMs)
	return result
}

// tryAI runs the LLM branch and returns nil on any failure.
func (s *TeaserService) tryAI(ctx context.Context, snap *domain.MarketSnapshot, heur *domain.HeuristicAnalysis, hints []domain.OCRHint) *domain.TeaserAnalysis {
	if s.llm == nil || s.provider == domain.TeaserHeuristic || s.provider == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	content, err := s.llm.Complete(ctx, CompletionRequest{
		Provider:     string(s.provider),
		SystemPrompt: BuildSystemPrompt(),
		UserPrompt:   BuildUserPrompt(snap, heur, hints),
		MaxTokens:    defaultMaxTokens,
	})
	if err != nil {
		log.Printf("teaser AI call failed, falling back to heuristic: %v", err)
		return nil
	}

	parsed, err := parseTeaser(content)
	if err != nil {
		log.Printf("teaser AI response rejected, falling back to heuristic: %v", err)
		return nil
	}
	parsed.Provider = domain.TeaserProvider(s.provider)
	return parsed
}

// aiPayload mirrors the required response shape with pointer fields so that
// absent keys are distinguishable from present-but-zero values during
// validation.
type aiPayload struct {
	SRLevels []struct {
		Label *string  `json:"label"`
		Price *float64 `json:"price"`
		Type  *string  `json:"type"`
	} `json:"sr_levels"`
	StopLoss   *float64  `json:"stop_loss"`
	TP         []float64 `json:"tp"`
	Indicators []string  `json:"indicators"`
	TeaserText *string   `json:"teaser_text"`
	Confidence *float64  `json:"confidence"`
}

// parseTeaser decodes and validates the model output. Models often wrap JSON
// in a markdown code fence; that wrapper is tolerated.
func parseTeaser(content string) (*domain.TeaserAnalysis, error) {
	content = stripCodeFence(content)

	var payload aiPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("parse teaser JSON: %w", err)
	}

	if len(payload.SRLevels) == 0 {
		return nil, fmt.Errorf("teaser missing sr_levels")
	}
	levels := make([]domain.SRLevel, 0, len(payload.SRLevels))
	for i, l := range payload.SRLevels {
		if l.Label == nil || l.Price == nil || l.Type == nil {
			return nil, fmt.Errorf("sr_levels[%d] incomplete", i)
		}
		if *l.Type != "support" && *l.Type != "resistance" {
			return nil, fmt.Errorf("sr_levels[%d] has invalid type %q", i, *l.Type)
		}
		levels = append(levels, domain.SRLevel{Label: *l.Label, Price: *l.Price, Type: *l.Type})
	}

	if payload.StopLoss == nil {
		return nil, fmt.Errorf("teaser missing stop_loss")
	}
	if payload.TP == nil {
		return nil, fmt.Errorf("teaser missing tp")
	}
	if payload.Indicators == nil {
		return nil, fmt.Errorf("teaser missing indicators")
	}
	if payload.TeaserText == nil || strings.TrimSpace(*payload.TeaserText) == "" {
		return nil, fmt.Errorf("teaser missing teaser_text")
	}
	if payload.Confidence == nil || *payload.Confidence < 0 || *payload.Confidence > 1 {
		return nil, fmt.Errorf("teaser confidence out of range")
	}

	return &domain.TeaserAnalysis{
		SRLevels:    levels,
		StopLoss:    *payload.StopLoss,
		TakeProfits: payload.TP,
		Indicators:  payload.Indicators,
		TeaserText:  strings.TrimSpace(*payload.TeaserText),
		Confidence:  *payload.Confidence,
	}, nil
}

// stripCodeFence removes a single wrapping ```json ... ``` or ``` ... ```
// block if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:] // drop the language tag line
	}
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
