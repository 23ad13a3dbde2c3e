package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "finances/internal/errors"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"app_error", apperrors.ErrAssetNotFound, http.StatusNotFound, "ASSET_NOT_FOUND"},
		{"wrapped_app_error", apperrors.Wrap(apperrors.ErrCantGetPrice, errors.New("upstream down")), http.StatusServiceUnavailable, "CANT_GET_PRICE"},
		{"plain_error", errors.New("db exploded"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(RequestLogging(), ErrorHandler())
			r.GET("/fail", func(c *gin.Context) {
				_ = c.Error(tt.err)
			})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", http.NoBody))

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("expected X-Request-ID header")
			}
			errObj, ok := parseBody(t, rec)["error"].(map[string]interface{})
			if !ok || errObj["code"] != tt.wantCode {
				t.Errorf("expected code %s, got %v", tt.wantCode, errObj)
			}
		})
	}

	t.Run("written_response_kept", func(t *testing.T) {
		r := gin.New()
		r.Use(ErrorHandler())
		r.GET("/ok", func(c *gin.Context) {
			c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
			_ = c.Error(errors.New("late failure"))
		})

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", http.NoBody))
		if rec.Code != http.StatusAccepted {
			t.Errorf("expected status %d, got %d", http.StatusAccepted, rec.Code)
		}
	})
}

func TestRequestLogging_KeepsIncomingRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	const id = "0191c3a0-0000-7000-8000-0000000000aa"
	req := httptest.NewRequest(http.MethodGet, "/ping", http.NoBody)
	req.Header.Set("X-Request-ID", id)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != id {
		t.Errorf("expected request id %s, got %s", id, got)
	}
}
