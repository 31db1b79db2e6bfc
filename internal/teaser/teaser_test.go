package teaser

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tokenlens/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type fakeLLM struct {
	content string
	err     error
	delay   time.Duration
	lastReq CompletionRequest
}

func (f *fakeLLM) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	f.lastReq = req
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.delay):
		}
	}
	return f.content, f.err
}

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

func testInputs() (*domain.MarketSnapshot, *domain.HeuristicAnalysis) {
	snap := &domain.MarketSnapshot{
		Address: "addr",
		Symbol:  "TEST",
		Name:    "Test Token",
		Price:   150,
		High24:  155,
		Low24:   145,
	}
	heur := &domain.HeuristicAnalysis{
		SupportLevel:    142.5,
		ResistanceLevel: 157.5,
		VolatilityPct:   6.7,
		RangeSize:       domain.RangeMedium,
		Bias:            domain.BiasNeutral,
		Confidence:      0.6,
		Source:          "heuristic",
	}
	return snap, heur
}

const validTeaserJSON = `{
	"sr_levels": [
		{"label": "Support", "price": 142.5, "type": "support"},
		{"label": "Resistance", "price": 157.5, "type": "resistance"}
	],
	"stop_loss": 140.0,
	"tp": [157.5, 165.0],
	"indicators": ["RSI 55"],
	"teaser_text": "Rangebound between the levels with no edge.",
	"confidence": 0.7
}`

func TestGenerateAISuccess(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{content: validTeaserJSON}
	svc := NewTeaserService(testTracer(), llm, domain.TeaserOpenAI, time.Second)
	snap, heur := testInputs()

	result := svc.Generate(context.Background(), snap, heur, nil)
	if result.Provider != domain.TeaserOpenAI {
		t.Fatalf("expected openai branch, got %s", result.Provider)
	}
	if result.StopLoss != 140.0 || len(result.TakeProfits) != 2 {
		t.Fatalf("unexpected parsed result: %+v", result)
	}
	if llm.lastReq.MaxTokens != defaultMaxTokens {
		t.Fatalf("expected max tokens budget, got %d", llm.lastReq.MaxTokens)
	}
}

func TestGenerateStripsCodeFence(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{content: "```json\n" + validTeaserJSON + "\n```"}
	svc := NewTeaserService(testTracer(), llm, domain.TeaserGrok, time.Second)
	snap, heur := testInputs()

	result := svc.Generate(context.Background(), snap, heur, nil)
	if result.Provider != domain.TeaserGrok {
		t.Fatalf("expected grok branch despite fencing, got %s", result.Provider)
	}
}

func TestGenerateFallsBackOnError(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{err: errors.New("upstream 500")}
	svc := NewTeaserService(testTracer(), llm, domain.TeaserOpenAI, time.Second)
	snap, heur := testInputs()

	result := svc.Generate(context.Background(), snap, heur, nil)
	if result.Provider != domain.TeaserHeuristic {
		t.Fatalf("expected heuristic fallback, got %s", result.Provider)
	}
	if result.TeaserText == "" || len(result.SRLevels) != 2 {
		t.Fatalf("fallback must be complete: %+v", result)
	}
}

func TestGenerateFallsBackOnTimeout(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{content: validTeaserJSON, delay: 500 * time.Millisecond}
	svc := NewTeaserService(testTracer(), llm, domain.TeaserOpenAI, 30*time.Millisecond)
	snap, heur := testInputs()

	start := time.Now()
	result := svc.Generate(context.Background(), snap, heur, nil)
	if result.Provider != domain.TeaserHeuristic {
		t.Fatalf("expected heuristic fallback after timeout, got %s", result.Provider)
	}
	if time.Since(start) > 400*time.Millisecond {
		t.Fatal("timeout budget not enforced")
	}
}

func TestGenerateFallsBackOnMalformedJSON(t *testing.T) {
	t.Parallel()

	llm := &fakeLLM{content: "{not json at all"}
	svc := NewTeaserService(testTracer(), llm, domain.TeaserOpenAI, time.Second)
	snap, heur := testInputs()

	result := svc.Generate(context.Background(), snap, heur, nil)
	if result.Provider != domain.TeaserHeuristic {
		t.Fatalf("expected heuristic fallback, got %s", result.Provider)
	}
}

func TestGenerateWithoutLLM(t *testing.T) {
	t.Parallel()

	svc := NewTeaserService(testTracer(), nil, "", 0)
	snap, heur := testInputs()

	result := svc.Generate(context.Background(), snap, heur, nil)
	if result.Provider != domain.TeaserHeuristic {
		t.Fatalf("expected heuristic branch with no llm, got %s", result.Provider)
	}
	if result.ProcessingMs < 0 {
		t.Fatalf("processing time must be non-negative, got %d", result.ProcessingMs)
	}
}

func TestParseTeaserValidation(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"missing sr_levels":  `{"stop_loss":1,"tp":[2],"indicators":[],"teaser_text":"x","confidence":0.5}`,
		"bad level type":     `{"sr_levels":[{"label":"S","price":1,"type":"pivot"}],"stop_loss":1,"tp":[2],"indicators":[],"teaser_text":"x","confidence":0.5}`,
		"incomplete level":   `{"sr_levels":[{"label":"S","type":"support"}],"stop_loss":1,"tp":[2],"indicators":[],"teaser_text":"x","confidence":0.5}`,
		"missing stop_loss":  `{"sr_levels":[{"label":"S","price":1,"type":"support"}],"tp":[2],"indicators":[],"teaser_text":"x","confidence":0.5}`,
		"missing tp":         `{"sr_levels":[{"label":"S","price":1,"type":"support"}],"stop_loss":1,"indicators":[],"teaser_text":"x","confidence":0.5}`,
		"missing indicators": `{"sr_levels":[{"label":"S","price":1,"type":"support"}],"stop_loss":1,"tp":[2],"teaser_text":"x","confidence":0.5}`,
		"blank teaser_text":  `{"sr_levels":[{"label":"S","price":1,"type":"support"}],"stop_loss":1,"tp":[2],"indicators":[],"teaser_text":"  ","confidence":0.5}`,
		"confidence too big": `{"sr_levels":[{"label":"S","price":1,"type":"support"}],"stop_loss":1,"tp":[2],"indicators":[],"teaser_text":"x","confidence":1.5}`,
	}
	for name, payload := range cases {
		if _, err := parseTeaser(payload); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}

	// Present-but-zero values are valid.
	ok := `{"sr_levels":[{"label":"S","price":0,"type":"support"}],"stop_loss":0,"tp":[],"indicators":[],"teaser_text":"x","confidence":0}`
	parsed, err := parseTeaser(ok)
	if err != nil {
		t.Fatalf("unexpected error for zero values: %v", err)
	}
	if parsed.StopLoss != 0 || parsed.Confidence != 0 {
		t.Fatalf("zero values must survive parsing: %+v", parsed)
	}
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"{\"a\":1}", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripCodeFence(tc.in); got != tc.want {
			t.Errorf("stripCodeFence(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestBuildUserPromptIncludesEverything(t *testing.T) {
	t.Parallel()

	snap, heur := testInputs()
	hints := []domain.OCRHint{{Name: "RSI", Value: 71.0, Confidence: 0.9}}

	prompt := BuildUserPrompt(snap, heur, hints)
	for _, want := range []string{"TEST", "addr", "bias=Neutral", "support=142.5", "RSI", "0.90"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildSystemPromptNamesSchema(t *testing.T) {
	t.Parallel()

	prompt := BuildSystemPrompt()
	for _, want := range []string{"sr_levels", "stop_loss", "teaser_text", "confidence"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}
