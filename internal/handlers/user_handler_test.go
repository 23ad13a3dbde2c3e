package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "finances/internal/errors"
	"finances/internal/models"
)

const testCurrencyID = "0191c3a0-0000-7000-8000-0000000000c1"

func setupUserRouter(handler *UserHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("/users/me", injectUserID(testUserID))
	auth.GET("", handler.GetMe)
	auth.POST("/password", handler.ChangePassword)
	auth.PUT("/base-currency", handler.SetBaseCurrency)
	auth.PUT("/base-crypto-portfolio", handler.SetBaseCryptoPortfolio)
	return r
}

func TestUserHandler_GetMe(t *testing.T) {
	t.Run("returns 200 with the user", func(t *testing.T) {
		userSvc := &mockUserService{
			getUserFn: func(_ context.Context, userID string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: userID}, Username: "alice"}, nil
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/users/me", "")
		assertStatus(t, rec, http.StatusOK)
		user := parseJSON(t, rec)["user"].(map[string]interface{})
		if user["id"] != testUserID || user["username"] != "alice" {
			t.Errorf("unexpected user: %v", user)
		}
		if _, ok := user["password"]; ok {
			t.Error("password hash must not be serialized")
		}
	})

	t.Run("returns 401 without a user in context", func(t *testing.T) {
		handler := NewUserHandler(&mockUserService{}, &mockAuditService{})
		r := gin.New()
		r.GET("/users/me", handler.GetMe)

		rec := doRequest(r, http.MethodGet, "/users/me", "")
		assertStatus(t, rec, http.StatusUnauthorized)
		assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
	})
}

func TestUserHandler_ChangePassword(t *testing.T) {
	t.Run("returns 200 and audits", func(t *testing.T) {
		var got string
		audit := &mockAuditService{}
		userSvc := &mockUserService{
			setPasswordFn: func(_ context.Context, _ string, password string) error {
				got = password
				return nil
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, audit))

		rec := doRequest(r, http.MethodPost, "/users/me/password", `{"password":"N3w!pass"}`)
		assertStatus(t, rec, http.StatusOK)
		if got != "N3w!pass" {
			t.Errorf("expected password to be passed through, got %q", got)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "CHANGE_PASSWORD" {
			t.Errorf("unexpected audit entries: %v", actions)
		}
	})

	t.Run("returns 400 on weak password", func(t *testing.T) {
		userSvc := &mockUserService{
			setPasswordFn: func(context.Context, string, string) error {
				return apperrors.WithMessage(apperrors.ErrInvalidInput, "password must be 8 to 32 characters long")
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/users/me/password", `{"password":"short"}`)
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestUserHandler_SetBaseCurrency(t *testing.T) {
	t.Run("returns 200 with the new config", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/users/me/base-currency", `{"currency_id":"`+testCurrencyID+`"}`)
		assertStatus(t, rec, http.StatusOK)
		cfg := parseJSON(t, rec)["config"].(map[string]interface{})
		if cfg["base_currency_id"] != testCurrencyID {
			t.Errorf("unexpected config: %v", cfg)
		}
	})

	t.Run("returns 400 for a custom currency", func(t *testing.T) {
		userSvc := &mockUserService{
			setBaseCurrencyFn: func(context.Context, string, string) (*models.UserConfig, error) {
				return nil, apperrors.ErrCurrencyCantBeBase
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/users/me/base-currency", `{"currency_id":"`+testCurrencyID+`"}`)
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "CURRENCY_CANT_BE_BASE")
	})

	t.Run("returns 400 for a malformed id", func(t *testing.T) {
		r := setupUserRouter(NewUserHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/users/me/base-currency", `{"currency_id":"usd"}`)
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}

func TestUserHandler_SetBaseCryptoPortfolio(t *testing.T) {
	t.Run("returns 404 for a foreign portfolio", func(t *testing.T) {
		userSvc := &mockUserService{
			setBaseCryptoPortfolioFn: func(context.Context, string, string) (*models.UserConfig, error) {
				return nil, apperrors.ErrCryptoPortfolioNotFound
			},
		}
		r := setupUserRouter(NewUserHandler(userSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/users/me/base-crypto-portfolio", `{"crypto_portfolio_id":"`+testOtherID+`"}`)
		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "CRYPTO_PORTFOLIO_NOT_FOUND")
	})
}
