package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finances/internal/errors"
	"finances/internal/services"
)

// CryptoAssetHandler handles crypto holdings.
type CryptoAssetHandler struct {
	cryptoAssetService services.CryptoAssetServicer
	auditService       services.AuditServicer
}

// NewCryptoAssetHandler creates a new CryptoAssetHandler.
func NewCryptoAssetHandler(cryptoAssetService services.CryptoAssetServicer, auditService services.AuditServicer) *CryptoAssetHandler {
	return &CryptoAssetHandler{cryptoAssetService: cryptoAssetService, auditService: auditService}
}

// GetCryptoAssets lists a portfolio's holdings
// @Summary     List crypto assets
// @Tags        crypto
// @Produce     json
// @Security    BearerAuth
// @Param       portfolio_id query string true "Portfolio ID"
// @Success     200 {array} models.CryptoAsset "Crypto assets"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /crypto-assets [get]
func (h *CryptoAssetHandler) GetCryptoAssets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	portfolioID, err := optionalQueryID(c, "portfolio_id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if portfolioID == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "portfolio_id is required"))
		return
	}

	assets, err := h.cryptoAssetService.GetCryptoAssets(c.Request.Context(), userID, *portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"crypto_assets": assets})
}

// GetCryptoAsset returns one holding
// @Summary     Get a crypto asset
// @Tags        crypto
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Crypto asset ID"
// @Success     200 {object} models.CryptoAsset "Crypto asset"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Crypto asset not found"
// @Router      /crypto-assets/{id} [get]
func (h *CryptoAssetHandler) GetCryptoAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	cryptoAssetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.cryptoAssetService.GetCryptoAsset(c.Request.Context(), userID, cryptoAssetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"crypto_asset": asset})
}

// DeleteCryptoAsset deletes a holding with its transactions
// @Summary     Delete a crypto asset
// @Tags        crypto
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Crypto asset ID"
// @Success     200 {object} map[string]string "Crypto asset deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Crypto asset not found"
// @Router      /crypto-assets/{id} [delete]
func (h *CryptoAssetHandler) DeleteCryptoAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	cryptoAssetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.cryptoAssetService.DeleteCryptoAsset(c.Request.Context(), userID, cryptoAssetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_CRYPTO_ASSET", "crypto_asset", cryptoAssetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Crypto asset deleted successfully"})
}

// TotalBuy returns what was paid for the holding's current amount
// @Summary     Crypto asset cost basis
// @Description Weighted-average cost of the units still held
// @Tags        crypto
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Crypto asset ID"
// @Success     200 {object} map[string]string "Total buy"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Crypto asset not found"
// @Router      /crypto-assets/{id}/total-buy [get]
func (h *CryptoAssetHandler) TotalBuy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	cryptoAssetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	total, err := h.cryptoAssetService.TotalBuyForCryptoAsset(c.Request.Context(), userID, cryptoAssetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total_buy": total})
}
