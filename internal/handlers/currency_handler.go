package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finances/internal/services"
)

// CurrencyHandler handles system and custom currencies.
type CurrencyHandler struct {
	currencyService services.CurrencyServicer
	auditService    services.AuditServicer
}

// NewCurrencyHandler creates a new CurrencyHandler.
func NewCurrencyHandler(currencyService services.CurrencyServicer, auditService services.AuditServicer) *CurrencyHandler {
	return &CurrencyHandler{currencyService: currencyService, auditService: auditService}
}

// CreateCurrencyRequest represents the request payload for creating a custom currency
type CreateCurrencyRequest struct {
	Code string          `json:"code" binding:"required,currency_code"`
	Name string          `json:"name" binding:"max=255"`
	Rate decimal.Decimal `json:"rate_to_base_currency" binding:"decimal_gt0" swaggertype:"string"`
}

// UpdateCurrencyRequest represents the request payload for updating a custom currency
type UpdateCurrencyRequest struct {
	Name *string          `json:"name" binding:"omitempty,max=255"`
	Rate *decimal.Decimal `json:"rate_to_base_currency" binding:"omitempty,decimal_gt0" swaggertype:"string"`
}

// CreateCurrency creates a custom currency
// @Summary     Create a custom currency
// @Description Create a currency priced by a fixed rate against the user's base currency
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCurrencyRequest true "Currency details"
// @Success     201 {object} models.Currency "Currency created"
// @Failure     400 {object} ErrorResponse "Invalid input or code taken"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /currencies [post]
func (h *CurrencyHandler) CreateCurrency(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	currency, err := h.currencyService.CreateCustomCurrency(c.Request.Context(), userID, req.Code, req.Name, req.Rate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_CURRENCY", "currency", currency.ID, c.ClientIP(),
		map[string]any{"code": currency.Code, "rate": req.Rate.String()})

	c.JSON(http.StatusCreated, gin.H{"currency": currency})
}

// GetCurrencies lists system currencies and the user's custom ones
// @Summary     List currencies
// @Tags        currencies
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Currency "Currencies"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /currencies [get]
func (h *CurrencyHandler) GetCurrencies(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	currencies, err := h.currencyService.GetCurrencies(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currencies": currencies})
}

// GetCurrency returns one visible currency
// @Summary     Get a currency
// @Tags        currencies
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Currency ID"
// @Success     200 {object} models.Currency "Currency"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Router      /currencies/{id} [get]
func (h *CurrencyHandler) GetCurrency(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	currencyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	currency, err := h.currencyService.GetCurrency(c.Request.Context(), userID, currencyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"currency": currency})
}

// UpdateCurrency changes a custom currency's name or rate
// @Summary     Update a custom currency
// @Tags        currencies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Currency ID"
// @Param       request body UpdateCurrencyRequest true "Fields to change"
// @Success     200 {object} models.Currency "Currency updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Router      /currencies/{id} [put]
func (h *CurrencyHandler) UpdateCurrency(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	currencyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	currency, err := h.currencyService.UpdateCustomCurrency(c.Request.Context(), userID, currencyID, req.Name, req.Rate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]any{}
	if req.Name != nil {
		changes["name"] = *req.Name
	}
	if req.Rate != nil {
		changes["rate"] = req.Rate.String()
	}
	h.auditService.Log(c.Request.Context(), userID, "UPDATE_CURRENCY", "currency", currency.ID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"currency": currency})
}

// DeleteCurrency removes an unused custom currency
// @Summary     Delete a custom currency
// @Tags        currencies
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Currency ID"
// @Success     200 {object} map[string]string "Currency deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Failure     409 {object} ErrorResponse "Currency in use"
// @Router      /currencies/{id} [delete]
func (h *CurrencyHandler) DeleteCurrency(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	currencyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.currencyService.DeleteCustomCurrency(c.Request.Context(), userID, currencyID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_CURRENCY", "currency", currencyID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Currency deleted successfully"})
}
