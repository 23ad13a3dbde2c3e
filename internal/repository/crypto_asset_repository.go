package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finances/internal/errors"
	"finances/internal/models"
)

type cryptoAssetRepository struct {
	db *gorm.DB
}

func (r *cryptoAssetRepository) Get(ctx context.Context, userID, id string) (*models.CryptoAsset, error) {
	var asset models.CryptoAsset
	err := r.db.WithContext(ctx).Preload("CryptoCurrency").
		Where("id = ? AND user_id = ?", id, userID).
		First(&asset).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrCryptoAssetNotFound, nil, nil)
	}
	return &asset, nil
}

func (r *cryptoAssetRepository) FindByCurrency(ctx context.Context, userID, portfolioID, cryptoCurrencyID string) (*models.CryptoAsset, error) {
	var asset models.CryptoAsset
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND portfolio_id = ? AND crypto_currency_id = ?", userID, portfolioID, cryptoCurrencyID).
		First(&asset).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrCryptoAssetNotFound, nil, nil)
	}
	return &asset, nil
}

func (r *cryptoAssetRepository) ListByPortfolio(ctx context.Context, userID, portfolioID string) ([]models.CryptoAsset, error) {
	var assets []models.CryptoAsset
	err := r.db.WithContext(ctx).Preload("CryptoCurrency").
		Where("user_id = ? AND portfolio_id = ?", userID, portfolioID).
		Order("created_at").
		Find(&assets).Error
	if err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return assets, nil
}

func (r *cryptoAssetRepository) Create(ctx context.Context, asset *models.CryptoAsset) error {
	err := r.db.WithContext(ctx).Omit("CryptoCurrency").Create(asset).Error
	return translate(err, nil, nil, nil)
}

func (r *cryptoAssetRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Unscoped().
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CryptoAsset{})
	return affected(result, apperrors.ErrCryptoAssetNotFound, nil)
}

func (r *cryptoAssetRepository) DeleteByPortfolio(ctx context.Context, userID, portfolioID string) error {
	err := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND portfolio_id = ?", userID, portfolioID).
		Delete(&models.CryptoAsset{}).Error
	return translate(err, nil, nil, nil)
}

func (r *cryptoAssetRepository) ApplyDelta(ctx context.Context, userID, id string, delta decimal.Decimal) error {
	result := r.db.WithContext(ctx).Model(&models.CryptoAsset{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("amount", gorm.Expr("amount + ?", delta))
	return affected(result, apperrors.ErrCryptoAssetNotFound, nil)
}
