package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"finances/internal/services"
)

// UserHandler handles the authenticated user's profile and settings.
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// ChangePasswordRequest represents the request payload for changing the password
type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required,max=128"`
}

// SetBaseCurrencyRequest represents the request payload for choosing the base currency
type SetBaseCurrencyRequest struct {
	CurrencyID string `json:"currency_id" binding:"required,uuid"`
}

// SetBaseCryptoPortfolioRequest represents the request payload for choosing the base portfolio
type SetBaseCryptoPortfolioRequest struct {
	CryptoPortfolioID string `json:"crypto_portfolio_id" binding:"required,uuid"`
}

// GetMe returns the authenticated user with their configuration
// @Summary     Get current user
// @Description Get the authenticated user's profile and reporting configuration
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.User "User"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangePassword replaces the user's password
// @Summary     Change password
// @Description Replace the authenticated user's password
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ChangePasswordRequest true "New password"
// @Success     200 {object} map[string]string "Password changed"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /users/me/password [post]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	if err := h.userService.SetPassword(c.Request.Context(), userID, req.Password); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "CHANGE_PASSWORD", "user", userID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// SetBaseCurrency chooses the currency totals are reported in
// @Summary     Set base currency
// @Description Choose the system currency that totals are converted to
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetBaseCurrencyRequest true "Base currency"
// @Success     200 {object} models.UserConfig "Updated configuration"
// @Failure     400 {object} ErrorResponse "Invalid input or custom currency"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Currency not found"
// @Router      /users/me/base-currency [put]
func (h *UserHandler) SetBaseCurrency(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetBaseCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	cfg, err := h.userService.SetBaseCurrency(c.Request.Context(), userID, req.CurrencyID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "SET_BASE_CURRENCY", "user", userID, c.ClientIP(),
		map[string]any{"currency_id": req.CurrencyID})

	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// SetBaseCryptoPortfolio chooses the default crypto portfolio
// @Summary     Set base crypto portfolio
// @Description Choose the crypto portfolio shown by default
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SetBaseCryptoPortfolioRequest true "Base crypto portfolio"
// @Success     200 {object} models.UserConfig "Updated configuration"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Crypto portfolio not found"
// @Router      /users/me/base-crypto-portfolio [put]
func (h *UserHandler) SetBaseCryptoPortfolio(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SetBaseCryptoPortfolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	cfg, err := h.userService.SetBaseCryptoPortfolio(c.Request.Context(), userID, req.CryptoPortfolioID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), userID, "SET_BASE_CRYPTO_PORTFOLIO", "user", userID, c.ClientIP(),
		map[string]any{"crypto_portfolio_id": req.CryptoPortfolioID})

	c.JSON(http.StatusOK, gin.H{"config": cfg})
}
