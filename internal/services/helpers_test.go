package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finances/internal/config"
	"finances/internal/models"
	"finances/internal/pricing"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

// assetAmount reads the stored balance of an asset, deleted or not.
func assetAmount(t *testing.T, db *gorm.DB, assetID string) decimal.Decimal {
	t.Helper()
	var asset models.Asset
	if err := db.Unscoped().Where("id = ?", assetID).First(&asset).Error; err != nil {
		t.Fatalf("failed to load asset %s: %v", assetID, err)
	}
	return asset.Amount
}

// cryptoAssetAmount reads the stored amount of a crypto holding.
func cryptoAssetAmount(t *testing.T, db *gorm.DB, cryptoAssetID string) decimal.Decimal {
	t.Helper()
	var asset models.CryptoAsset
	if err := db.Where("id = ?", cryptoAssetID).First(&asset).Error; err != nil {
		t.Fatalf("failed to load crypto asset %s: %v", cryptoAssetID, err)
	}
	return asset.Amount
}

// stubCryptoSource serves fixed prices keyed by market symbol.
type stubCryptoSource struct {
	prices map[string]decimal.Decimal
	err    error
	calls  int
}

func (s *stubCryptoSource) CryptoPrice(_ context.Context, symbol string) (decimal.Decimal, error) {
	s.calls++
	if s.err != nil {
		return decimal.Zero, s.err
	}
	return s.prices[symbol], nil
}

func (s *stubCryptoSource) CryptoPrices(_ context.Context, _ []string) (map[string]decimal.Decimal, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.prices, nil
}

func newTestResolver(source *stubCryptoSource, policy config.MissingPricePolicy) *pricing.Resolver {
	if source == nil {
		source = &stubCryptoSource{}
	}
	return pricing.NewResolver(source, "USDT", policy)
}
