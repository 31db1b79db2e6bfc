package handler

import (
	"context"

	"tokenlens/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// MarketFetcher is the orchestrator surface the handlers depend on.
type MarketFetcher interface {
	Fetch(ctx context.Context, address string) (*domain.FetchResult, error)
	Invalidate(ctx context.Context, address string)
	InvalidateAll(ctx context.Context)
}

// Analyzer produces the deterministic read for a snapshot.
type Analyzer interface {
	Analyze(snap *domain.MarketSnapshot, hints []domain.OCRHint) domain.HeuristicAnalysis
}

// TeaserGenerator produces the narrative layer; it never fails.
type TeaserGenerator interface {
	Generate(ctx context.Context, snap *domain.MarketSnapshot, heur *domain.HeuristicAnalysis, hints []domain.OCRHint) *domain.TeaserAnalysis
}

// Journal records served analyses for export; nil disables it.
type Journal interface {
	Append(ctx context.Context, result *domain.AnalysisResult) error
}

type Handler struct {
	tracer  trace.Tracer
	market  MarketFetcher
	engine  Analyzer
	teasers TeaserGenerator
	journal Journal
	apiKey  string
}

func New(tracer trace.Tracer, market MarketFetcher, engine Analyzer, teasers TeaserGenerator, journal Journal, apiKey string) *Handler {
	return &Handler{
		tracer:  tracer,
		market:  market,
		engine:  engine,
		teasers: teasers,
		journal: journal,
		apiKey:  apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/snapshot/:address", h.GetSnapshot)
	r.GET("/api/analysis/:address", h.GetAnalysis)
	r.POST("/api/analysis", h.PostAnalysis)

	admin := r.Group("/api/cache", APIKeyAuth(h.apiKey))
	admin.DELETE("", h.InvalidateCache)
	admin.DELETE("/:address", h.InvalidateAddress)
}
