package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finances/internal/models"
	"finances/internal/pagination"
	"finances/internal/services"
)

// CryptoTransactionHandler handles crypto BUY and SELL transactions.
type CryptoTransactionHandler struct {
	cryptoTransactionService services.CryptoTransactionServicer
	auditService             services.AuditServicer
}

// NewCryptoTransactionHandler creates a new CryptoTransactionHandler.
func NewCryptoTransactionHandler(cryptoTransactionService services.CryptoTransactionServicer, auditService services.AuditServicer) *CryptoTransactionHandler {
	return &CryptoTransactionHandler{cryptoTransactionService: cryptoTransactionService, auditService: auditService}
}

// CreateCryptoTransactionRequest represents the request payload for a new trade.
// Exactly one of crypto_asset_id and crypto_currency_id must be given.
type CreateCryptoTransactionRequest struct {
	PortfolioID      string                       `json:"portfolio_id" binding:"required,uuid"`
	CryptoAssetID    *string                      `json:"crypto_asset_id" binding:"omitempty,uuid"`
	CryptoCurrencyID *string                      `json:"crypto_currency_id" binding:"omitempty,uuid"`
	Type             models.CryptoTransactionType `json:"type" binding:"required,crypto_transaction_type"`
	Amount           decimal.Decimal              `json:"amount" binding:"decimal_gt0" swaggertype:"string"`
	Price            decimal.Decimal              `json:"price" binding:"decimal_gt0" swaggertype:"string"`
	Date             *string                      `json:"date"`
}

// UpdateCryptoTransactionRequest represents the request payload for changing a trade
type UpdateCryptoTransactionRequest struct {
	Type   models.CryptoTransactionType `json:"type" binding:"required,crypto_transaction_type"`
	Amount decimal.Decimal              `json:"amount" binding:"decimal_gt0" swaggertype:"string"`
	Price  decimal.Decimal              `json:"price" binding:"decimal_gt0" swaggertype:"string"`
	Date   *string                      `json:"date"`
}

// CreateCryptoTransaction records a trade
// @Summary     Create a crypto transaction
// @Description Record a BUY or SELL. Giving crypto_currency_id creates the holding when the portfolio has none.
// @Tags        crypto
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateCryptoTransactionRequest true "Trade details"
// @Success     201 {object} models.CryptoTransaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Portfolio, asset or currency not found"
// @Router      /crypto-transactions [post]
func (h *CryptoTransactionHandler) CreateCryptoTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCryptoTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	date, err := optionalTime(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.cryptoTransactionService.AddCryptoTransaction(c.Request.Context(), userID, services.AddCryptoTransactionInput{
		PortfolioID:      req.PortfolioID,
		CryptoAssetID:    req.CryptoAssetID,
		CryptoCurrencyID: req.CryptoCurrencyID,
		Type:             req.Type,
		Amount:           req.Amount,
		Price:            req.Price,
		Date:             date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_CRYPTO_TRANSACTION", "crypto_transaction", transaction.ID, c.ClientIP(),
		map[string]any{"type": req.Type, "amount": req.Amount.String(), "price": req.Price.String()})

	c.JSON(http.StatusCreated, gin.H{"crypto_transaction": transaction})
}

// GetCryptoTransactions lists trades
// @Summary     List crypto transactions
// @Tags        crypto
// @Produce     json
// @Security    BearerAuth
// @Param       crypto_asset_id query string false "Filter by crypto asset ID"
// @Param       page            query int    false "Page number (default 1)"
// @Param       page_size       query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.CryptoTransaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Crypto asset not found"
// @Router      /crypto-transactions [get]
func (h *CryptoTransactionHandler) GetCryptoTransactions(c *gin.Context) {
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
	cryptoAssetID, err := optionalQueryID(c, "crypto_asset_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.cryptoTransactionService.GetCryptoTransactions(c.Request.Context(), userID, cryptoAssetID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCryptoTransaction returns one trade
// @Summary     Get a crypto transaction
// @Tags        crypto
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Crypto transaction ID"
// @Success     200 {object} models.CryptoTransaction "Crypto transaction"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Crypto transaction not found"
// @Router      /crypto-transactions/{id} [get]
func (h *CryptoTransactionHandler) GetCryptoTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.cryptoTransactionService.GetCryptoTransaction(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"crypto_transaction": transaction})
}

// UpdateCryptoTransaction changes a trade and rebalances its holding
// @Summary     Change a crypto transaction
// @Tags        crypto
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                         true "Crypto transaction ID"
// @Param       request body UpdateCryptoTransactionRequest true "New trade details"
// @Success     200 {object} models.CryptoTransaction "Crypto transaction changed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Crypto transaction not found"
// @Router      /crypto-transactions/{id} [put]
func (h *CryptoTransactionHandler) UpdateCryptoTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCryptoTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	date, err := optionalTime(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.cryptoTransactionService.ChangeCryptoTransaction(c.Request.Context(), userID, transactionID, req.Type, req.Amount, req.Price, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_CRYPTO_TRANSACTION", "crypto_transaction", transaction.ID, c.ClientIP(),
		map[string]any{"type": req.Type, "amount": req.Amount.String(), "price": req.Price.String()})

	c.JSON(http.StatusOK, gin.H{"crypto_transaction": transaction})
}

// DeleteCryptoTransaction removes a trade and reverses its effect
// @Summary     Delete a crypto transaction
// @Tags        crypto
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Crypto transaction ID"
// @Success     200 {object} map[string]string "Crypto transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Crypto transaction not found"
// @Router      /crypto-transactions/{id} [delete]
func (h *CryptoTransactionHandler) DeleteCryptoTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.cryptoTransactionService.DeleteCryptoTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_CRYPTO_TRANSACTION", "crypto_transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Crypto transaction deleted successfully"})
}
