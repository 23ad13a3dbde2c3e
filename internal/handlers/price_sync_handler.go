package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finances/internal/services"
)

// PriceSyncHandler exposes the fiat price cache refresh to pipelines.
type PriceSyncHandler struct {
	priceSyncService services.PriceSyncServicer
}

// NewPriceSyncHandler creates a new PriceSyncHandler.
func NewPriceSyncHandler(priceSyncService services.PriceSyncServicer) *PriceSyncHandler {
	return &PriceSyncHandler{priceSyncService: priceSyncService}
}

// RefreshPrices refreshes the cached currency prices.
// @Summary     Refresh currency prices
// @Description Fetch fiat quotes from the upstream provider and update the price cache (pipeline endpoint)
// @Tags        pipeline
// @Produce     json
// @Param       X-API-Key header   string                 true "Pipeline API key"
// @Success     200       {object} services.RefreshResult "Refresh outcome"
// @Failure     401       {object} ErrorResponse          "Invalid API key"
// @Failure     503       {object} ErrorResponse          "Pipeline not configured or provider unavailable"
// @Router      /pipeline/currency-prices/refresh [post]
func (h *PriceSyncHandler) RefreshPrices(c *gin.Context) {
	result, err := h.priceSyncService.Refresh(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
