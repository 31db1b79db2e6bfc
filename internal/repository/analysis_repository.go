package repository

import (
	"context"
	"encoding/json"
	"time"

	"tokenlens/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

// PgxPool is the slice of pgxpool used by the journal.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AnalysisRepository is the write-only analysis journal. The core never reads
// it back; it exists for display and export downstream. The analyses schema
// is created by cmd/migrate.
type AnalysisRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewAnalysisRepository(pool PgxPool, tracer trace.Tracer) *AnalysisRepository {
	return &AnalysisRepository{pool: pool, tracer: tracer}
}

// Append records one served analysis.
func (r *AnalysisRepository) Append(ctx context.Context, result *domain.AnalysisResult) error {
	ctx, span := r.tracer.Start(ctx, "analysis-repo.append")
	defer span.End()

	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	var teaserProvider *string
	if result.Teaser != nil {
		p := string(result.Teaser.Provider)
		teaserProvider = &p
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO analyses (address, symbol, provider, fallback, cached, price,
		     support_level, resistance_level, bias, confidence, teaser_provider, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		result.Snapshot.Address,
		result.Snapshot.Symbol,
		string(result.Meta.Provider),
		result.Meta.Fallback,
		result.Meta.Cached,
		result.Snapshot.Price,
		result.Heuristic.SupportLevel,
		result.Heuristic.ResistanceLevel,
		string(result.Heuristic.Bias),
		result.Heuristic.Confidence,
		teaserProvider,
		payload,
		time.Now().UTC(),
	)
	return err
}
