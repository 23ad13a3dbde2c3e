package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finances/internal/services"
)

// CryptoCurrencyHandler serves crypto currency reference data and live prices.
type CryptoCurrencyHandler struct {
	cryptoCurrencyService services.CryptoCurrencyServicer
}

// NewCryptoCurrencyHandler creates a new CryptoCurrencyHandler.
func NewCryptoCurrencyHandler(cryptoCurrencyService services.CryptoCurrencyServicer) *CryptoCurrencyHandler {
	return &CryptoCurrencyHandler{cryptoCurrencyService: cryptoCurrencyService}
}

// GetCryptoCurrencies lists the supported crypto currencies
// @Summary     List crypto currencies
// @Tags        crypto
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.CryptoCurrency "Crypto currencies"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /crypto-currencies [get]
func (h *CryptoCurrencyHandler) GetCryptoCurrencies(c *gin.Context) {
	currencies, err := h.cryptoCurrencyService.GetCryptoCurrencies(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"crypto_currencies": currencies})
}

// GetCryptoCurrency returns one crypto currency
// @Summary     Get a crypto currency
// @Tags        crypto
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Crypto currency ID"
// @Success     200 {object} models.CryptoCurrency "Crypto currency"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Crypto currency not found"
// @Router      /crypto-currencies/{id} [get]
func (h *CryptoCurrencyHandler) GetCryptoCurrency(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	currency, err := h.cryptoCurrencyService.GetCryptoCurrency(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"crypto_currency": currency})
}

// GetCryptoCurrencyPrice returns the live market price
// @Summary     Live crypto price
// @Description Current price of a crypto currency in the quote asset
// @Tags        crypto
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Crypto currency ID"
// @Success     200 {object} services.CryptoCurrencyPrice "Price"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Crypto currency not found"
// @Failure     503 {object} ErrorResponse "Price unavailable"
// @Router      /crypto-currencies/{id}/price [get]
func (h *CryptoCurrencyHandler) GetCryptoCurrencyPrice(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	price, err := h.cryptoCurrencyService.GetCryptoCurrencyPrice(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, price)
}
