package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "finances/internal/errors"
	"finances/internal/middleware"
	"finances/internal/models"
	"finances/internal/services"
)

// AuthHandler handles signup and login.
type AuthHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService services.UserServicer, auditService services.AuditServicer) *AuthHandler {
	return &AuthHandler{userService: userService, auditService: auditService}
}

// CredentialsRequest represents the signup and login request payload
type CredentialsRequest struct {
	Username string `json:"username" binding:"required,max=32"`
	Password string `json:"password" binding:"required,max=128"`
}

// UserResponse represents the user data in the response
type UserResponse struct {
	ID       string          `json:"id"`
	Username string          `json:"username"`
	Type     models.UserType `json:"type"`
}

// AuthResponse represents the authentication response with token
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{ID: user.ID, Username: user.Username, Type: user.Type}
}

// respondWithToken issues an access token for user and writes it with status.
func respondWithToken(c *gin.Context, status int, user *models.User) {
	token, err := middleware.GenerateAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	c.JSON(status, AuthResponse{Token: token, User: newUserResponse(user)})
}

// Signup handles user registration
// @Summary     Register a new user
// @Description Register a new user. Passwords need 8 to 32 characters with upper and lower case letters, a digit and a symbol.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body CredentialsRequest true "User registration data"
// @Success     201 {object} AuthResponse "User registered and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input or username taken"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.Signup(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), user.ID, "SIGNUP", "user", user.ID, c.ClientIP(), nil)

	respondWithToken(c, http.StatusCreated, user)
}

// Login handles user login
// @Summary     Login user
// @Description Authenticate a user and get an access token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body CredentialsRequest true "User login credentials"
// @Success     200 {object} AuthResponse "User authenticated and token generated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), user.ID, "LOGIN", "user", user.ID, c.ClientIP(), nil)

	respondWithToken(c, http.StatusOK, user)
}
