package repository

import (
	"context"
	"strings"
	"testing"

	"tokenlens/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

type fakePool struct {
	sqls []string
	args [][]any
	err  error
}

func (f *fakePool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sqls = append(f.sqls, sql)
	f.args = append(f.args, args)
	return pgconn.CommandTag{}, f.err
}

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

func testResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Snapshot: &domain.MarketSnapshot{
			Address: "addr",
			Symbol:  "TEST",
			Price:   150,
		},
		Meta: domain.RouteMeta{
			Provider: domain.ProviderDexScreener,
			Fallback: true,
			Cached:   false,
		},
		Heuristic: &domain.HeuristicAnalysis{
			SupportLevel:    142.5,
			ResistanceLevel: 157.5,
			Bias:            domain.BiasNeutral,
			Confidence:      0.6,
		},
	}
}

func TestAppendWithoutTeaser(t *testing.T) {
	t.Parallel()

	pool := &fakePool{}
	repo := NewAnalysisRepository(pool, testTracer())

	if err := repo.Append(context.Background(), testResult()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool.args) != 1 {
		t.Fatalf("expected one insert, got %d", len(pool.args))
	}
	args := pool.args[0]
	if len(args) != 13 {
		t.Fatalf("expected 13 insert args, got %d", len(args))
	}
	if args[0] != "addr" || args[1] != "TEST" {
		t.Fatalf("unexpected identity args: %v", args[:2])
	}
	if args[2] != "dexscreener" || args[3] != true || args[4] != false {
		t.Fatalf("unexpected route args: %v", args[2:5])
	}
	if ptr, ok := args[10].(*string); !ok || ptr != nil {
		t.Fatalf("expected nil teaser provider, got %v", args[10])
	}
}

func TestAppendWithTeaser(t *testing.T) {
	t.Parallel()

	pool := &fakePool{}
	repo := NewAnalysisRepository(pool, testTracer())

	result := testResult()
	result.Teaser = &domain.TeaserAnalysis{Provider: domain.TeaserOpenAI, TeaserText: "t"}

	if err := repo.Append(context.Background(), result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ptr, ok := pool.args[0][10].(*string)
	if !ok || ptr == nil || *ptr != "openai" {
		t.Fatalf("expected teaser provider recorded, got %v", pool.args[0][10])
	}
	payload, ok := pool.args[0][11].([]byte)
	if !ok || !strings.Contains(string(payload), `"teaser_text":"t"`) {
		t.Fatalf("expected full payload JSON, got %v", pool.args[0][11])
	}
}

func TestAppendPropagatesError(t *testing.T) {
	t.Parallel()

	pool := &fakePool{err: context.DeadlineExceeded}
	repo := NewAnalysisRepository(pool, testTracer())

	if err := repo.Append(context.Background(), testResult()); err == nil {
		t.Fatal("expected error from pool")
	}
}
