package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "finances/internal/errors"
	"finances/internal/models"
	"finances/internal/pagination"
	"finances/internal/services"
)

const testAssetID = "0191c3a0-0000-7000-8000-0000000000a1"

type mockAssetService struct {
	createAssetFn func(ctx context.Context, userID, title string, currencyID *string) (*models.Asset, error)
	getAssetsFn   func(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	getAssetFn    func(ctx context.Context, userID, assetID string) (*models.Asset, error)
	updateAssetFn func(ctx context.Context, userID, assetID, title string, currencyID *string) (*models.Asset, error)
	deleteAssetFn func(ctx context.Context, userID, assetID string) error
}

var _ services.AssetServicer = (*mockAssetService)(nil)

func (m *mockAssetService) CreateAsset(ctx context.Context, userID, title string, currencyID *string) (*models.Asset, error) {
	if m.createAssetFn != nil {
		return m.createAssetFn(ctx, userID, title, currencyID)
	}
	return &models.Asset{Base: models.Base{ID: testAssetID}, UserID: userID, Title: title, CurrencyID: currencyID}, nil
}

func (m *mockAssetService) GetAssets(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	if m.getAssetsFn != nil {
		return m.getAssetsFn(ctx, userID, page)
	}
	resp := pagination.NewPageResponse[models.Asset](nil, 1, 20, 0)
	return &resp, nil
}

func (m *mockAssetService) GetAsset(ctx context.Context, userID, assetID string) (*models.Asset, error) {
	if m.getAssetFn != nil {
		return m.getAssetFn(ctx, userID, assetID)
	}
	return &models.Asset{Base: models.Base{ID: assetID}, UserID: userID}, nil
}

func (m *mockAssetService) UpdateAsset(ctx context.Context, userID, assetID, title string, currencyID *string) (*models.Asset, error) {
	if m.updateAssetFn != nil {
		return m.updateAssetFn(ctx, userID, assetID, title, currencyID)
	}
	return &models.Asset{Base: models.Base{ID: assetID}, UserID: userID, Title: title, CurrencyID: currencyID}, nil
}

func (m *mockAssetService) DeleteAsset(ctx context.Context, userID, assetID string) error {
	if m.deleteAssetFn != nil {
		return m.deleteAssetFn(ctx, userID, assetID)
	}
	return nil
}

type mockReportService struct {
	totalAssetsFn             func(ctx context.Context, userID string) (decimal.Decimal, error)
	totalByPeriodFn           func(ctx context.Context, userID string, query services.PeriodQuery) (decimal.Decimal, error)
	totalCategoriesByPeriodFn func(ctx context.Context, userID string, query services.PeriodQuery) ([]services.CategoryTotal, error)
	groupedByDayFn            func(ctx context.Context, userID string, query services.PeriodQuery) ([]services.DayTransactions, error)
	totalsByAssetFn           func(ctx context.Context, userID, assetID string, start, end time.Time) (*services.AssetTotals, error)
}

var _ services.ReportServicer = (*mockReportService)(nil)

func (m *mockReportService) TotalAssets(ctx context.Context, userID string) (decimal.Decimal, error) {
	if m.totalAssetsFn != nil {
		return m.totalAssetsFn(ctx, userID)
	}
	return decimal.Zero, nil
}

func (m *mockReportService) TotalByPeriod(ctx context.Context, userID string, query services.PeriodQuery) (decimal.Decimal, error) {
	if m.totalByPeriodFn != nil {
		return m.totalByPeriodFn(ctx, userID, query)
	}
	return decimal.Zero, nil
}

func (m *mockReportService) TotalCategoriesByPeriod(ctx context.Context, userID string, query services.PeriodQuery) ([]services.CategoryTotal, error) {
	if m.totalCategoriesByPeriodFn != nil {
		return m.totalCategoriesByPeriodFn(ctx, userID, query)
	}
	return []services.CategoryTotal{}, nil
}

func (m *mockReportService) TransactionsGroupedByDay(ctx context.Context, userID string, query services.PeriodQuery) ([]services.DayTransactions, error) {
	if m.groupedByDayFn != nil {
		return m.groupedByDayFn(ctx, userID, query)
	}
	return []services.DayTransactions{}, nil
}

func (m *mockReportService) TotalsByAsset(ctx context.Context, userID, assetID string, start, end time.Time) (*services.AssetTotals, error) {
	if m.totalsByAssetFn != nil {
		return m.totalsByAssetFn(ctx, userID, assetID, start, end)
	}
	return &services.AssetTotals{}, nil
}

func setupAssetRouter(handler *AssetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("/", injectUserID(testUserID))
	auth.POST("/assets", handler.CreateAsset)
	auth.GET("/assets", handler.GetAssets)
	auth.GET("/assets/total", handler.TotalAssets)
	auth.GET("/assets/:id", handler.GetAsset)
	auth.PUT("/assets/:id", handler.UpdateAsset)
	auth.DELETE("/assets/:id", handler.DeleteAsset)
	auth.GET("/assets/:id/totals", handler.AssetTotals)
	return r
}

func TestAssetHandler_CreateAsset(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupAssetRouter(NewAssetHandler(&mockAssetService{}, &mockReportService{}, audit))

		rec := doRequest(r, http.MethodPost, "/assets", `{"title":"Wallet","currency_id":"`+testCurrencyID+`"}`)
		assertStatus(t, rec, http.StatusCreated)
		asset := parseJSON(t, rec)["asset"].(map[string]interface{})
		if asset["title"] != "Wallet" || asset["currency_id"] != testCurrencyID {
			t.Errorf("unexpected asset: %v", asset)
		}
		if actions := audit.actions(); len(actions) != 1 || actions[0] != "CREATE_ASSET" {
			t.Errorf("unexpected audit entries: %v", actions)
		}
	})

	t.Run("returns 400 without a title", func(t *testing.T) {
		r := setupAssetRouter(NewAssetHandler(&mockAssetService{}, &mockReportService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/assets", `{"currency_id":"`+testCurrencyID+`"}`)
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 when the title is taken", func(t *testing.T) {
		svc := &mockAssetService{
			createAssetFn: func(context.Context, string, string, *string) (*models.Asset, error) {
				return nil, apperrors.ErrAssetExists
			},
		}
		r := setupAssetRouter(NewAssetHandler(svc, &mockReportService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/assets", `{"title":"Wallet"}`)
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "ASSET_EXISTS")
	})
}

func TestAssetHandler_GetAssets(t *testing.T) {
	t.Run("passes pagination through", func(t *testing.T) {
		svc := &mockAssetService{
			getAssetsFn: func(_ context.Context, _ string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
				if page.Page != 2 || page.PageSize != 5 {
					t.Errorf("unexpected page request %+v", page)
				}
				resp := pagination.NewPageResponse([]models.Asset{{Title: "Wallet"}}, 2, 5, 6)
				return &resp, nil
			},
		}
		r := setupAssetRouter(NewAssetHandler(svc, &mockReportService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/assets?page=2&page_size=5", "")
		assertStatus(t, rec, http.StatusOK)
		body := parseJSON(t, rec)
		if body["total_items"] != float64(6) || body["total_pages"] != float64(2) {
			t.Errorf("unexpected page metadata: %v", body)
		}
	})

	t.Run("returns 400 for page_size over the limit", func(t *testing.T) {
		r := setupAssetRouter(NewAssetHandler(&mockAssetService{}, &mockReportService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/assets?page_size=1000", "")
		assertStatus(t, rec, http.StatusBadRequest)
	})
}

func TestAssetHandler_GetAsset(t *testing.T) {
	t.Run("returns 400 for a malformed id", func(t *testing.T) {
		r := setupAssetRouter(NewAssetHandler(&mockAssetService{}, &mockReportService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/assets/42", "")
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 404 for a foreign asset", func(t *testing.T) {
		svc := &mockAssetService{
			getAssetFn: func(context.Context, string, string) (*models.Asset, error) {
				return nil, apperrors.ErrAssetNotFound
			},
		}
		r := setupAssetRouter(NewAssetHandler(svc, &mockReportService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/assets/"+testAssetID, "")
		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "ASSET_NOT_FOUND")
	})
}

func TestAssetHandler_UpdateAndDelete(t *testing.T) {
	audit := &mockAuditService{}
	r := setupAssetRouter(NewAssetHandler(&mockAssetService{}, &mockReportService{}, audit))

	rec := doRequest(r, http.MethodPut, "/assets/"+testAssetID, `{"title":"Savings"}`)
	assertStatus(t, rec, http.StatusOK)
	if title := parseJSON(t, rec)["asset"].(map[string]interface{})["title"]; title != "Savings" {
		t.Errorf("expected renamed asset, got %v", title)
	}

	rec = doRequest(r, http.MethodDelete, "/assets/"+testAssetID, "")
	assertStatus(t, rec, http.StatusOK)

	actions := audit.actions()
	if len(actions) != 2 || actions[0] != "UPDATE_ASSET" || actions[1] != "DELETE_ASSET" {
		t.Errorf("unexpected audit entries: %v", actions)
	}
}

func TestAssetHandler_TotalAssets(t *testing.T) {
	t.Run("returns the converted total", func(t *testing.T) {
		report := &mockReportService{
			totalAssetsFn: func(context.Context, string) (decimal.Decimal, error) {
				return decimal.RequireFromString("125.5"), nil
			},
		}
		r := setupAssetRouter(NewAssetHandler(&mockAssetService{}, report, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/assets/total", "")
		assertStatus(t, rec, http.StatusOK)
		if total := parseJSON(t, rec)["total"]; total != "125.5" {
			t.Errorf("expected total 125.5, got %v", total)
		}
	})

	t.Run("returns 503 when a price is missing", func(t *testing.T) {
		report := &mockReportService{
			totalAssetsFn: func(context.Context, string) (decimal.Decimal, error) {
				return decimal.Zero, apperrors.ErrCantGetPrice
			},
		}
		r := setupAssetRouter(NewAssetHandler(&mockAssetService{}, report, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/assets/total", "")
		assertStatus(t, rec, http.StatusServiceUnavailable)
		assertErrorCode(t, parseJSON(t, rec), "CANT_GET_PRICE")
	})
}

func TestAssetHandler_AssetTotals(t *testing.T) {
	t.Run("parses the period", func(t *testing.T) {
		report := &mockReportService{
			totalsByAssetFn: func(_ context.Context, _, assetID string, start, end time.Time) (*services.AssetTotals, error) {
				if assetID != testAssetID {
					t.Errorf("unexpected asset %s", assetID)
				}
				if start.Format(time.DateOnly) != "2024-01-01" || end.Format(time.DateOnly) != "2024-01-31" {
					t.Errorf("unexpected period %s..%s", start, end)
				}
				return &services.AssetTotals{Income: decimal.NewFromInt(100), Expense: decimal.NewFromInt(30)}, nil
			},
		}
		r := setupAssetRouter(NewAssetHandler(&mockAssetService{}, report, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/assets/"+testAssetID+"/totals?start_date=2024-01-01&end_date=2024-01-31", "")
		assertStatus(t, rec, http.StatusOK)
		body := parseJSON(t, rec)
		if body["income"] != "100" || body["expense"] != "30" {
			t.Errorf("unexpected totals: %v", body)
		}
	})

	t.Run("returns 400 without end_date", func(t *testing.T) {
		r := setupAssetRouter(NewAssetHandler(&mockAssetService{}, &mockReportService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/assets/"+testAssetID+"/totals?start_date=2024-01-01", "")
		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 for an inverted period", func(t *testing.T) {
		r := setupAssetRouter(NewAssetHandler(&mockAssetService{}, &mockReportService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/assets/"+testAssetID+"/totals?start_date=2024-02-01&end_date=2024-01-01", "")
		assertStatus(t, rec, http.StatusBadRequest)
	})
}
