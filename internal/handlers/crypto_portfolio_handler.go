package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finances/internal/services"
)

// CryptoPortfolioHandler handles crypto portfolios.
type CryptoPortfolioHandler struct {
	portfolioService services.CryptoPortfolioServicer
	auditService     services.AuditServicer
}

// NewCryptoPortfolioHandler creates a new CryptoPortfolioHandler.
func NewCryptoPortfolioHandler(portfolioService services.CryptoPortfolioServicer, auditService services.AuditServicer) *CryptoPortfolioHandler {
	return &CryptoPortfolioHandler{portfolioService: portfolioService, auditService: auditService}
}

// CryptoPortfolioRequest represents the request payload for creating or renaming a portfolio
type CryptoPortfolioRequest struct {
	Title string `json:"title" binding:"required,max=255"`
}

// CreatePortfolio creates a crypto portfolio
// @Summary     Create a crypto portfolio
// @Description Create a portfolio. The first one becomes the user's base portfolio.
// @Tags        crypto
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CryptoPortfolioRequest true "Portfolio details"
// @Success     201 {object} models.CryptoPortfolio "Portfolio created"
// @Failure     400 {object} ErrorResponse "Invalid input or title taken"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /crypto-portfolios [post]
func (h *CryptoPortfolioHandler) CreatePortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CryptoPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(c.Request.Context(), userID, req.Title)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CREATE_CRYPTO_PORTFOLIO", "crypto_portfolio", portfolio.ID, c.ClientIP(),
		map[string]any{"title": portfolio.Title})

	c.JSON(http.StatusCreated, gin.H{"crypto_portfolio": portfolio})
}

// GetPortfolios lists the user's portfolios
// @Summary     List crypto portfolios
// @Tags        crypto
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.CryptoPortfolio "Portfolios"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /crypto-portfolios [get]
func (h *CryptoPortfolioHandler) GetPortfolios(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	portfolios, err := h.portfolioService.GetPortfolios(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"crypto_portfolios": portfolios})
}

// GetPortfolio returns one portfolio
// @Summary     Get a crypto portfolio
// @Tags        crypto
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Portfolio ID"
// @Success     200 {object} models.CryptoPortfolio "Portfolio"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /crypto-portfolios/{id} [get]
func (h *CryptoPortfolioHandler) GetPortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	portfolio, err := h.portfolioService.GetPortfolio(c.Request.Context(), userID, portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"crypto_portfolio": portfolio})
}

// UpdatePortfolio renames a portfolio
// @Summary     Rename a crypto portfolio
// @Tags        crypto
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                 true "Portfolio ID"
// @Param       request body CryptoPortfolioRequest true "Portfolio details"
// @Success     200 {object} models.CryptoPortfolio "Portfolio updated"
// @Failure     400 {object} ErrorResponse "Invalid input or title taken"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /crypto-portfolios/{id} [put]
func (h *CryptoPortfolioHandler) UpdatePortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CryptoPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	portfolio, err := h.portfolioService.UpdatePortfolio(c.Request.Context(), userID, portfolioID, req.Title)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "UPDATE_CRYPTO_PORTFOLIO", "crypto_portfolio", portfolio.ID, c.ClientIP(),
		map[string]any{"title": portfolio.Title})

	c.JSON(http.StatusOK, gin.H{"crypto_portfolio": portfolio})
}

// DeletePortfolio deletes a portfolio with its assets and transactions
// @Summary     Delete a crypto portfolio
// @Tags        crypto
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Portfolio ID"
// @Success     200 {object} map[string]string "Portfolio deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Router      /crypto-portfolios/{id} [delete]
func (h *CryptoPortfolioHandler) DeletePortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.portfolioService.DeletePortfolio(c.Request.Context(), userID, portfolioID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "DELETE_CRYPTO_PORTFOLIO", "crypto_portfolio", portfolioID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Crypto portfolio deleted successfully"})
}

// PortfolioTotal values a portfolio at market prices
// @Summary     Crypto portfolio total
// @Description Market value of the portfolio and profit over its remaining cost basis
// @Tags        crypto
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Portfolio ID"
// @Success     200 {object} services.PortfolioTotal "Total and profit"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Portfolio not found"
// @Failure     503 {object} ErrorResponse "Price unavailable"
// @Router      /crypto-portfolios/{id}/total [get]
func (h *CryptoPortfolioHandler) PortfolioTotal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	portfolioID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	total, err := h.portfolioService.TotalByCryptoPortfolio(c.Request.Context(), userID, portfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, total)
}
