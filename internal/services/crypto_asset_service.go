package services

import (
	"context"

	"github.com/shopspring/decimal"

	"finances/internal/models"
	"finances/internal/repository"
)

// cryptoAssetService handles crypto holdings.
type cryptoAssetService struct {
	store *repository.Store
}

// NewCryptoAssetService creates a new CryptoAssetServicer.
func NewCryptoAssetService(store *repository.Store) CryptoAssetServicer {
	return &cryptoAssetService{store: store}
}

// GetCryptoAssets lists the holdings of one of the user's portfolios.
func (s *cryptoAssetService) GetCryptoAssets(ctx context.Context, userID, portfolioID string) ([]models.CryptoAsset, error) {
	if _, err := s.store.CryptoPortfolios.Get(ctx, userID, portfolioID); err != nil {
		return nil, err
	}
	return s.store.CryptoAssets.ListByPortfolio(ctx, userID, portfolioID)
}

// GetCryptoAsset retrieves a holding with its crypto currency.
func (s *cryptoAssetService) GetCryptoAsset(ctx context.Context, userID, cryptoAssetID string) (*models.CryptoAsset, error) {
	return s.store.CryptoAssets.Get(ctx, userID, cryptoAssetID)
}

// DeleteCryptoAsset removes a holding together with its trades.
func (s *cryptoAssetService) DeleteCryptoAsset(ctx context.Context, userID, cryptoAssetID string) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.CryptoAssets.Get(ctx, userID, cryptoAssetID); err != nil {
			return err
		}
		if err := tx.CryptoTransactions.DeleteByAsset(ctx, userID, cryptoAssetID); err != nil {
			return err
		}
		return tx.CryptoAssets.Delete(ctx, userID, cryptoAssetID)
	})
}

// TotalBuyForCryptoAsset returns the weighted-average cost of what the
// holding still contains, rounded to cents.
func (s *cryptoAssetService) TotalBuyForCryptoAsset(ctx context.Context, userID, cryptoAssetID string) (decimal.Decimal, error) {
	var trades []models.CryptoTransaction
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.CryptoAssets.Get(ctx, userID, cryptoAssetID); err != nil {
			return err
		}
		var err error
		trades, err = tx.CryptoTransactions.ListByAsset(ctx, userID, cryptoAssetID)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return costBasis(trades).Round(2), nil
}
