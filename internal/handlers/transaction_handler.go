package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finances/internal/errors"
	"finances/internal/models"
	"finances/internal/pagination"
	"finances/internal/repository"
	"finances/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	reportService      services.ReportServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, reportService services.ReportServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, reportService: reportService, auditService: auditService}
}

// TransactionRequest represents the request payload for creating or changing a transaction.
// The category decides whether the amount is income or expense.
type TransactionRequest struct {
	AssetID    string          `json:"asset_id" binding:"required,uuid"`
	CategoryID string          `json:"category_id" binding:"required,uuid"`
	Amount     decimal.Decimal `json:"amount" binding:"decimal_gt0" swaggertype:"string"`
	Date       *string         `json:"date"`
}

// CreateTransaction handles the creation of a new transaction
// @Summary     Create a transaction
// @Description Record income or expense on an asset and move its balance
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body TransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Asset or category not found"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	date, err := optionalTime(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.AddTransaction(c.Request.Context(), userID, req.AssetID, req.CategoryID, req.Amount, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]any{"asset_id": req.AssetID, "category_id": req.CategoryID, "amount": req.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions lists the user's transactions
// @Summary     List transactions
// @Description Get a paginated list of transactions, newest first, with optional filters
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       from_date   query string false "Filter by start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date     query string false "Filter by end date (RFC3339 or YYYY-MM-DD)"
// @Param       asset_id    query string false "Filter by asset ID"
// @Param       category_id query string false "Filter by category ID"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
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

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetTransactions(c.Request.Context(), userID, filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (repository.TransactionFilter, error) {
	var filter repository.TransactionFilter
	for key, dst := range map[string]**time.Time{"from_date": &filter.FromDate, "to_date": &filter.ToDate} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		t, err := parseFlexibleTime(raw)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		*dst = &t
	}

	var err error
	if filter.AssetID, err = optionalQueryID(c, "asset_id"); err != nil {
		return filter, err
	}
	if filter.CategoryID, err = optionalQueryID(c, "category_id"); err != nil {
		return filter, err
	}
	return filter, nil
}

// GetTransaction returns one transaction
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
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

	transaction, err := h.transactionService.GetTransaction(c.Request.Context(), userID, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// UpdateTransaction changes a transaction and rebalances the assets involved
// @Summary     Change a transaction
// @Description Change the asset, category, amount or date. The category type cannot change.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Transaction ID"
// @Param       request body TransactionRequest true "New transaction details"
// @Success     200 {object} models.Transaction "Transaction changed"
// @Failure     400 {object} ErrorResponse "Invalid input or transaction can't be changed"
// @Failure     404 {object} ErrorResponse "Transaction, asset or category not found"
// @Router      /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
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

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	date, err := optionalTime(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.ChangeTransaction(c.Request.Context(), userID, transactionID, req.AssetID, req.CategoryID, req.Amount, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]any{"asset_id": req.AssetID, "category_id": req.CategoryID, "amount": req.Amount.String()})

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// DeleteTransaction removes a transaction and reverses its effect
// @Summary     Delete a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} map[string]string "Transaction deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
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

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// parsePeriodQuery reads start_date, end_date, the required type and an optional asset_id.
func parsePeriodQuery(c *gin.Context) (services.PeriodQuery, error) {
	var query services.PeriodQuery
	start, end, err := parseDateRange(c)
	if err != nil {
		return query, err
	}
	query.Start, query.End = start, end

	query.Type = models.CategoryType(c.Query("type"))
	if query.Type != models.CategoryTypeIncome && query.Type != models.CategoryTypeExpense {
		return query, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be INCOME or EXPENSE")
	}

	if query.AssetID, err = optionalQueryID(c, "asset_id"); err != nil {
		return query, err
	}
	return query, nil
}

// TotalByPeriod sums income or expense for a period in the base currency
// @Summary     Total for a period
// @Description Sum transactions of one type between two dates, both included, in the base currency
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       start_date query string true  "Start date (YYYY-MM-DD or RFC3339)"
// @Param       end_date   query string true  "End date (YYYY-MM-DD or RFC3339)"
// @Param       type       query string true  "INCOME or EXPENSE"
// @Param       asset_id   query string false "Restrict to one asset"
// @Success     200 {object} map[string]string "Total"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     503 {object} ErrorResponse "Price unavailable"
// @Router      /transactions/total [get]
func (h *TransactionHandler) TotalByPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	query, err := parsePeriodQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	total, err := h.reportService.TotalByPeriod(c.Request.Context(), userID, query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total})
}

// TotalCategoriesByPeriod sums a period per category in the base currency
// @Summary     Totals per category
// @Description Per-category totals between two dates, largest first, in the base currency
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       start_date query string true  "Start date (YYYY-MM-DD or RFC3339)"
// @Param       end_date   query string true  "End date (YYYY-MM-DD or RFC3339)"
// @Param       type       query string true  "INCOME or EXPENSE"
// @Param       asset_id   query string false "Restrict to one asset"
// @Success     200 {array} services.CategoryTotal "Category totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     503 {object} ErrorResponse "Price unavailable"
// @Router      /transactions/total-by-category [get]
func (h *TransactionHandler) TotalCategoriesByPeriod(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	query, err := parsePeriodQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	totals, err := h.reportService.TotalCategoriesByPeriod(c.Request.Context(), userID, query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": totals})
}

// TransactionsByDay groups a period's transactions by day
// @Summary     Transactions grouped by day
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       start_date query string true  "Start date (YYYY-MM-DD or RFC3339)"
// @Param       end_date   query string true  "End date (YYYY-MM-DD or RFC3339)"
// @Param       type       query string true  "INCOME or EXPENSE"
// @Param       asset_id   query string false "Restrict to one asset"
// @Success     200 {array} services.DayTransactions "Days"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions/by-day [get]
func (h *TransactionHandler) TransactionsByDay(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	query, err := parsePeriodQuery(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	days, err := h.reportService.TransactionsGroupedByDay(c.Request.Context(), userID, query)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": days})
}
