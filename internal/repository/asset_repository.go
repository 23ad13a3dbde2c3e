package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finances/internal/errors"
	"finances/internal/models"
	"finances/internal/pagination"
)

type assetRepository struct {
	db *gorm.DB
}

func (r *assetRepository) scoped(ctx context.Context, userID string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Asset{}).Where("user_id = ?", userID)
}

func (r *assetRepository) Get(ctx context.Context, userID, id string) (*models.Asset, error) {
	var asset models.Asset
	err := r.scoped(ctx, userID).Preload("Currency").Where("id = ?", id).First(&asset).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrAssetNotFound, nil, nil)
	}
	return &asset, nil
}

func (r *assetRepository) List(ctx context.Context, userID string) ([]models.Asset, error) {
	var assets []models.Asset
	if err := r.scoped(ctx, userID).Preload("Currency").Order("title").Find(&assets).Error; err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return assets, nil
}

func (r *assetRepository) Page(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	resp, err := pagination.Fetch[models.Asset](r.scoped(ctx, userID).Order("title"), page,
		func(db *gorm.DB) *gorm.DB { return db.Preload("Currency") })
	if err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return resp, nil
}

func (r *assetRepository) Create(ctx context.Context, asset *models.Asset) error {
	err := r.db.WithContext(ctx).Omit("Currency").Create(asset).Error
	return translate(err, nil, apperrors.ErrAssetExists, nil)
}

func (r *assetRepository) Update(ctx context.Context, asset *models.Asset) error {
	result := r.scoped(ctx, asset.UserID).
		Where("id = ?", asset.ID).
		Select("title", "currency_id").
		Updates(map[string]any{"title": asset.Title, "currency_id": asset.CurrencyID})
	if result.Error != nil {
		return translate(result.Error, apperrors.ErrAssetNotFound, apperrors.ErrAssetExists, nil)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAssetNotFound
	}
	return nil
}

func (r *assetRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Asset{})
	return affected(result, apperrors.ErrAssetNotFound, apperrors.ErrAssetCantBeDeleted)
}

// ApplyDelta is unscoped so that transactions of a soft-deleted asset still
// keep its balance consistent.
func (r *assetRepository) ApplyDelta(ctx context.Context, userID, id string, delta decimal.Decimal) error {
	result := r.db.WithContext(ctx).Unscoped().Model(&models.Asset{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("amount", gorm.Expr("amount + ?", delta))
	return affected(result, apperrors.ErrAssetNotFound, nil)
}

func (r *assetRepository) UsesCurrency(ctx context.Context, userID, currencyID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Asset{}).
		Where("user_id = ? AND currency_id = ?", userID, currencyID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, nil, nil, nil)
	}
	return count > 0, nil
}
