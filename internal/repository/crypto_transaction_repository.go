package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "finances/internal/errors"
	"finances/internal/models"
	"finances/internal/pagination"
)

type cryptoTransactionRepository struct {
	db *gorm.DB
}

func (r *cryptoTransactionRepository) Get(ctx context.Context, userID, id string) (*models.CryptoTransaction, error) {
	var tx models.CryptoTransaction
	err := r.db.WithContext(ctx).Preload("CryptoAsset.CryptoCurrency").
		Where("id = ? AND user_id = ?", id, userID).
		First(&tx).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrCryptoTransactionNotFound, nil, nil)
	}
	return &tx, nil
}

func (r *cryptoTransactionRepository) GetForUpdate(ctx context.Context, userID, id string) (*models.CryptoTransaction, error) {
	var tx models.CryptoTransaction
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&tx).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrCryptoTransactionNotFound, nil, nil)
	}
	return &tx, nil
}

func (r *cryptoTransactionRepository) ListByAsset(ctx context.Context, userID, cryptoAssetID string) ([]models.CryptoTransaction, error) {
	return r.ListByAssets(ctx, userID, []string{cryptoAssetID})
}

func (r *cryptoTransactionRepository) ListByAssets(ctx context.Context, userID string, cryptoAssetIDs []string) ([]models.CryptoTransaction, error) {
	var txs []models.CryptoTransaction
	if len(cryptoAssetIDs) == 0 {
		return txs, nil
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND crypto_asset_id IN ?", userID, cryptoAssetIDs).
		Order("date, id").
		Find(&txs).Error
	if err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return txs, nil
}

func (r *cryptoTransactionRepository) Page(ctx context.Context, userID string, cryptoAssetID *string, page pagination.PageRequest) (*pagination.PageResponse[models.CryptoTransaction], error) {
	query := r.db.WithContext(ctx).Model(&models.CryptoTransaction{}).Where("user_id = ?", userID)
	if cryptoAssetID != nil {
		query = query.Where("crypto_asset_id = ?", *cryptoAssetID)
	}
	resp, err := pagination.Fetch[models.CryptoTransaction](query.Order("date DESC, id DESC"), page,
		func(db *gorm.DB) *gorm.DB { return db.Preload("CryptoAsset.CryptoCurrency") })
	if err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return resp, nil
}

func (r *cryptoTransactionRepository) Create(ctx context.Context, tx *models.CryptoTransaction) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(tx).Error
	return translate(err, nil, nil, nil)
}

func (r *cryptoTransactionRepository) Update(ctx context.Context, tx *models.CryptoTransaction) error {
	result := r.db.WithContext(ctx).Model(&models.CryptoTransaction{}).
		Where("id = ? AND user_id = ?", tx.ID, tx.UserID).
		Updates(map[string]any{
			"type":   tx.Type,
			"amount": tx.Amount,
			"price":  tx.Price,
			"date":   tx.Date,
		})
	return affected(result, apperrors.ErrCryptoTransactionNotFound, nil)
}

func (r *cryptoTransactionRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Unscoped().
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CryptoTransaction{})
	return affected(result, apperrors.ErrCryptoTransactionNotFound, apperrors.ErrCryptoTransactionCantBeDeleted)
}

func (r *cryptoTransactionRepository) DeleteByAsset(ctx context.Context, userID, cryptoAssetID string) error {
	err := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND crypto_asset_id = ?", userID, cryptoAssetID).
		Delete(&models.CryptoTransaction{}).Error
	return translate(err, nil, nil, apperrors.ErrCryptoTransactionCantBeDeleted)
}

func (r *cryptoTransactionRepository) DeleteByPortfolio(ctx context.Context, userID, portfolioID string) error {
	err := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND portfolio_id = ?", userID, portfolioID).
		Delete(&models.CryptoTransaction{}).Error
	return translate(err, nil, nil, apperrors.ErrCryptoTransactionCantBeDeleted)
}
