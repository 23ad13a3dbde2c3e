package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "finances/internal/errors"
	"finances/internal/middleware"
	"finances/internal/models"
	"finances/internal/services"
	"finances/internal/validator"
)

const (
	testUserID  = "0191c3a0-0000-7000-8000-000000000001"
	testOtherID = "0191c3a0-0000-7000-8000-000000000002"
)

// --- mock services ---

type mockUserService struct {
	signupFn                 func(ctx context.Context, username, password string) (*models.User, error)
	authenticateFn           func(ctx context.Context, username, password string) (*models.User, error)
	getUserFn                func(ctx context.Context, userID string) (*models.User, error)
	setPasswordFn            func(ctx context.Context, userID, password string) error
	getConfigFn              func(ctx context.Context, userID string) (*models.UserConfig, error)
	setBaseCurrencyFn        func(ctx context.Context, userID, currencyID string) (*models.UserConfig, error)
	setBaseCryptoPortfolioFn func(ctx context.Context, userID, portfolioID string) (*models.UserConfig, error)
}

var _ services.UserServicer = (*mockUserService)(nil)

func (m *mockUserService) Signup(ctx context.Context, username, password string) (*models.User, error) {
	if m.signupFn != nil {
		return m.signupFn(ctx, username, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, username, password)
	}
	return &models.User{}, nil
}

func (m *mockUserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, userID)
	}
	return &models.User{}, nil
}

func (m *mockUserService) SetPassword(ctx context.Context, userID, password string) error {
	if m.setPasswordFn != nil {
		return m.setPasswordFn(ctx, userID, password)
	}
	return nil
}

func (m *mockUserService) GetConfig(ctx context.Context, userID string) (*models.UserConfig, error) {
	if m.getConfigFn != nil {
		return m.getConfigFn(ctx, userID)
	}
	return &models.UserConfig{UserID: userID}, nil
}

func (m *mockUserService) SetBaseCurrency(ctx context.Context, userID, currencyID string) (*models.UserConfig, error) {
	if m.setBaseCurrencyFn != nil {
		return m.setBaseCurrencyFn(ctx, userID, currencyID)
	}
	return &models.UserConfig{UserID: userID, BaseCurrencyID: &currencyID}, nil
}

func (m *mockUserService) SetBaseCryptoPortfolio(ctx context.Context, userID, portfolioID string) (*models.UserConfig, error) {
	if m.setBaseCryptoPortfolioFn != nil {
		return m.setBaseCryptoPortfolioFn(ctx, userID, portfolioID)
	}
	return &models.UserConfig{UserID: userID, BaseCryptoPortfolioID: &portfolioID}, nil
}

type auditEntry struct {
	userID, action, resourceType, resourceID string
}

type mockAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
}

var _ services.AuditServicer = (*mockAuditService)(nil)

func (m *mockAuditService) Log(_ context.Context, userID, action, resourceType, resourceID, _ string, _ map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, auditEntry{userID: userID, action: action, resourceType: resourceType, resourceID: resourceID})
}

func (m *mockAuditService) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.action)
	}
	return out
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func setupAuthRouter(handler *AuthHandler) *gin.Engine {
	r := gin.New()
	r.POST("/auth/signup", handler.Signup)
	r.POST("/auth/login", handler.Login)
	return r
}

func injectUserID(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
}

// --- tests ---

func TestAuthHandler_Signup(t *testing.T) {
	t.Run("returns 201 with a token on success", func(t *testing.T) {
		audit := &mockAuditService{}
		userSvc := &mockUserService{
			signupFn: func(_ context.Context, username, _ string) (*models.User, error) {
				return &models.User{Base: models.Base{ID: testUserID}, Username: username, Type: models.UserTypeUser}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, audit))

		rec := doRequest(r, http.MethodPost, "/auth/signup", `{"username":"alice","password":"Secret1!x"}`)
		assertStatus(t, rec, http.StatusCreated)

		var resp AuthResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.User.Username != "alice" || resp.User.ID != testUserID {
			t.Errorf("unexpected user: %+v", resp.User)
		}
		claims, err := middleware.ParseAccessToken(resp.Token)
		if err != nil {
			t.Fatalf("token should parse: %v", err)
		}
		if claims.UserID != testUserID {
			t.Errorf("expected token for %s, got %s", testUserID, claims.UserID)
		}
		if got := audit.actions(); len(got) != 1 || got[0] != "SIGNUP" {
			t.Errorf("expected SIGNUP audit entry, got %v", got)
		}
	})

	t.Run("returns 400 on missing password", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/signup", `{"username":"alice"}`)
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 when the username is taken", func(t *testing.T) {
		userSvc := &mockUserService{
			signupFn: func(context.Context, string, string) (*models.User, error) {
				return nil, apperrors.ErrUsernameTaken
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/signup", `{"username":"alice","password":"Secret1!x"}`)
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "USERNAME_TAKEN")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 with a token on success", func(t *testing.T) {
		userSvc := &mockUserService{
			authenticateFn: func(_ context.Context, username, password string) (*models.User, error) {
				if username != "alice" || password != "Secret1!x" {
					t.Errorf("unexpected credentials %q/%q", username, password)
				}
				return &models.User{Base: models.Base{ID: testUserID}, Username: "alice"}, nil
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"username":"alice","password":"Secret1!x"}`)
		assertStatus(t, rec, http.StatusOK)
		if token, _ := parseJSON(t, rec)["token"].(string); token == "" {
			t.Error("expected a token")
		}
	})

	t.Run("returns 401 on invalid credentials", func(t *testing.T) {
		userSvc := &mockUserService{
			authenticateFn: func(context.Context, string, string) (*models.User, error) {
				return nil, apperrors.ErrInvalidCredentials
			},
		}
		r := setupAuthRouter(NewAuthHandler(userSvc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong"}`)
		assertStatus(t, rec, http.StatusUnauthorized)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_CREDENTIALS")
	})

	t.Run("returns 400 on malformed body", func(t *testing.T) {
		r := setupAuthRouter(NewAuthHandler(&mockUserService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/auth/login", `{bad json`)
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})
}
