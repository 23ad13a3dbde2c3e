package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finances/internal/pagination"
	"finances/internal/services"
)

// AssetHandler handles asset-related requests.
type AssetHandler struct {
	assetService  services.AssetServicer
	reportService services.ReportServicer
	auditService  services.AuditServicer
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService services.AssetServicer, reportService services.ReportServicer, auditService services.AuditServicer) *AssetHandler {
	return &AssetHandler{assetService: assetService, reportService: reportService, auditService: auditService}
}

// AssetRequest represents the request payload for creating or updating an asset
type AssetRequest struct {
	Title      string  `json:"title" binding:"required,max=255"`
	CurrencyID *string `json:"currency_id" binding:"omitempty,uuid"`
}

// CreateAsset handles the creation of a new asset
// @Summary     Create an asset
// @Description Create a cash holding, optionally held in a currency
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body AssetRequest true "Asset details"
// @Success     201 {object} models.Asset "Asset created"
// @Failure     400 {object} ErrorResponse "Invalid input or title taken"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Router      /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	asset, err := h.assetService.CreateAsset(c.Request.Context(), userID, req.Title, req.CurrencyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_ASSET", "asset", asset.ID, c.ClientIP(),
		map[string]any{"title": asset.Title, "currency_id": asset.CurrencyID})

	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// GetAssets lists the user's active assets
// @Summary     List assets
// @Description Get a paginated list of the user's assets
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Asset] "Paginated assets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /assets [get]
func (h *AssetHandler) GetAssets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.assetService.GetAssets(c.Request.Context(), userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAsset returns one asset
// @Summary     Get an asset
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     200 {object} models.Asset "Asset"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /assets/{id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.assetService.GetAsset(c.Request.Context(), userID, assetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// UpdateAsset renames an asset or changes its currency
// @Summary     Update an asset
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string       true "Asset ID"
// @Param       request body AssetRequest true "Asset details"
// @Success     200 {object} models.Asset "Asset updated"
// @Failure     400 {object} ErrorResponse "Invalid input or title taken"
// @Failure     404 {object} ErrorResponse "Asset or currency not found"
// @Router      /assets/{id} [put]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	asset, err := h.assetService.UpdateAsset(c.Request.Context(), userID, assetID, req.Title, req.CurrencyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_ASSET", "asset", asset.ID, c.ClientIP(),
		map[string]any{"title": asset.Title, "currency_id": asset.CurrencyID})

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// DeleteAsset soft-deletes an asset
// @Summary     Delete an asset
// @Description Hide an asset. Its transactions stay in the history.
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     200 {object} map[string]string "Asset deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.assetService.DeleteAsset(c.Request.Context(), userID, assetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_ASSET", "asset", assetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}

// TotalAssets sums every asset in the user's base currency
// @Summary     Total of all assets
// @Description Sum all asset balances converted to the user's base currency
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]string "Total"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     503 {object} ErrorResponse "Price unavailable"
// @Router      /assets/total [get]
func (h *AssetHandler) TotalAssets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	total, err := h.reportService.TotalAssets(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total})
}

// AssetTotals returns an asset's income and expense for a period
// @Summary     Asset income and expense
// @Description Raw income and expense sums of one asset between two dates, both included
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       id         path  string true "Asset ID"
// @Param       start_date query string true "Start date (YYYY-MM-DD or RFC3339)"
// @Param       end_date   query string true "End date (YYYY-MM-DD or RFC3339)"
// @Success     200 {object} services.AssetTotals "Totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /assets/{id}/totals [get]
func (h *AssetHandler) AssetTotals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	start, end, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.reportService.TotalsByAsset(c.Request.Context(), userID, assetID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, totals)
}
