package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// InvalidateCache godoc
// @Summary      Drop every cached snapshot
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/cache [delete]
func (h *Handler) InvalidateCache(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.invalidate-cache")
	defer span.End()

	h.market.InvalidateAll(ctx)
	c.JSON(http.StatusOK, gin.H{"status": "cache cleared"})
}

// InvalidateAddress godoc
// @Summary      Drop the cached snapshot for one token
// @Tags         admin
// @Produce      json
// @Param        address  path  string  true  "Token address"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/cache/{address} [delete]
func (h *Handler) InvalidateAddress(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.invalidate-address")
	defer span.End()

	address := strings.TrimSpace(c.Param("address"))
	span.SetAttributes(attribute.String("token.address", address))
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}

	h.market.Invalidate(ctx, address)
	c.JSON(http.StatusOK, gin.H{"status": "cache cleared", "address": address})
}
