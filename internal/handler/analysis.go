package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"tokenlens/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetSnapshot godoc
// @Summary      Get a normalized market snapshot for a token
// @Description  Resolves the token through the provider chain and returns the canonical snapshot with routing metadata
// @Tags         market
// @Produce      json
// @Param        address  path  string  true  "Token address"
// @Success      200  {object}  domain.FetchResult
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}
// @Router       /api/snapshot/{address} [get]
func (h *Handler) GetSnapshot(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-snapshot")
	defer span.End()

	address := strings.TrimSpace(c.Param("address"))
	span.SetAttributes(attribute.String("token.address", address))
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}

	result, err := h.market.Fetch(ctx, address)
	if err != nil {
		h.renderFetchError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAnalysis godoc
// @Summary      Get a technical analysis for a token
// @Description  Fetches a snapshot and derives the deterministic analysis; pass teaser=true for the narrative layer
// @Tags         analysis
// @Produce      json
// @Param        address  path   string  true   "Token address"
// @Param        teaser   query  bool    false  "Include the narrative teaser"  default(false)
// @Success      200  {object}  domain.AnalysisResult
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}
// @Router       /api/analysis/{address} [get]
func (h *Handler) GetAnalysis(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-analysis")
	defer span.End()

	address := strings.TrimSpace(c.Param("address"))
	span.SetAttributes(attribute.String("token.address", address))
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}

	wantTeaser := c.Query("teaser") == "true"
	h.analyze(ctx, c, address, nil, wantTeaser)
}

type analysisRequest struct {
	Address string           `json:"address" binding:"required"`
	Hints   []domain.OCRHint `json:"hints"`
	Teaser  bool             `json:"teaser"`
}

// PostAnalysis godoc
// @Summary      Analyze a token with OCR indicator hints
// @Description  Same as GET /api/analysis but accepts indicator readings extracted from a chart screenshot
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body  analysisRequest  true  "Analysis request"
// @Success      200  {object}  domain.AnalysisResult
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]interface{}
// @Router       /api/analysis [post]
func (h *Handler) PostAnalysis(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.post-analysis")
	defer span.End()

	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	span.SetAttributes(attribute.String("token.address", req.Address))

	for i, hint := range req.Hints {
		if hint.Confidence < 0 || hint.Confidence > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hint confidence out of range", "hint": i})
			return
		}
	}

	h.analyze(ctx, c, req.Address, req.Hints, req.Teaser)
}

// analyze runs the fetch/analyze/teaser pipeline under the caller's span
// context, so downstream spans parent correctly.
func (h *Handler) analyze(ctx context.Context, c *gin.Context, address string, hints []domain.OCRHint, wantTeaser bool) {
	fetched, err := h.market.Fetch(ctx, address)
	if err != nil {
		h.renderFetchError(c, err)
		return
	}

	heur := h.engine.Analyze(fetched.Snapshot, hints)
	result := &domain.AnalysisResult{
		Snapshot:  fetched.Snapshot,
		Meta:      fetched.Meta,
		Heuristic: &heur,
	}

	if wantTeaser && h.teasers != nil {
		result.Teaser = h.teasers.Generate(ctx, fetched.Snapshot, &heur, hints)
	}

	if h.journal != nil {
		if err := h.journal.Append(ctx, result); err != nil {
			log.Printf("analysis journal append failed: %v", err)
		}
	}

	c.JSON(http.StatusOK, result)
}

// renderFetchError maps the orchestrator's terminal error. A chain-exhausted
// failure is an upstream problem, not ours, hence 502 with the attempt list.
func (h *Handler) renderFetchError(c *gin.Context, err error) {
	var exhausted *domain.ChainExhaustedError
	if errors.As(err, &exhausted) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":    exhausted.Error(),
			"attempts": exhausted.Attempts,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
