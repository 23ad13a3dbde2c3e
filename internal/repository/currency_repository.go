package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "finances/internal/errors"
	"finances/internal/models"
)

type currencyRepository struct {
	db *gorm.DB
}

// visible restricts to system currencies plus the user's own custom ones.
func (r *currencyRepository) visible(ctx context.Context, userID string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Currency{}).
		Where("(user_id IS NULL OR user_id = ?)", userID)
}

func (r *currencyRepository) Get(ctx context.Context, userID, id string) (*models.Currency, error) {
	var currency models.Currency
	if err := r.visible(ctx, userID).Where("id = ?", id).First(&currency).Error; err != nil {
		return nil, translate(err, apperrors.ErrCurrencyNotFound, nil, nil)
	}
	return &currency, nil
}

func (r *currencyRepository) GetCustom(ctx context.Context, userID, id string) (*models.Currency, error) {
	var currency models.Currency
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_custom = ?", id, userID, true).
		First(&currency).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrCurrencyNotFound, nil, nil)
	}
	return &currency, nil
}

func (r *currencyRepository) GetSystemByCode(ctx context.Context, code string) (*models.Currency, error) {
	var currency models.Currency
	err := r.db.WithContext(ctx).
		Where("code = ? AND user_id IS NULL", code).
		First(&currency).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrCurrencyNotFound, nil, nil)
	}
	return &currency, nil
}

func (r *currencyRepository) List(ctx context.Context, userID string) ([]models.Currency, error) {
	var currencies []models.Currency
	if err := r.visible(ctx, userID).Order("is_custom, code").Find(&currencies).Error; err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return currencies, nil
}

func (r *currencyRepository) CodeTaken(ctx context.Context, userID, code string) (bool, error) {
	var count int64
	if err := r.visible(ctx, userID).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, translate(err, nil, nil, nil)
	}
	return count > 0, nil
}

func (r *currencyRepository) Create(ctx context.Context, currency *models.Currency) error {
	err := r.db.WithContext(ctx).Create(currency).Error
	return translate(err, nil, apperrors.ErrCurrencyExists, nil)
}

func (r *currencyRepository) Update(ctx context.Context, currency *models.Currency) error {
	if currency.UserID == nil {
		return apperrors.ErrCurrencyNotFound
	}
	result := r.db.WithContext(ctx).Model(&models.Currency{}).
		Where("id = ? AND user_id = ? AND is_custom = ?", currency.ID, *currency.UserID, true).
		Updates(map[string]any{
			"name":                  currency.Name,
			"rate_to_base_currency": currency.RateToBaseCurrency,
		})
	return affected(result, apperrors.ErrCurrencyNotFound, nil)
}

func (r *currencyRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_custom = ?", id, userID, true).
		Delete(&models.Currency{})
	return affected(result, apperrors.ErrCurrencyNotFound, apperrors.ErrCurrencyCantBeDeleted)
}

func (r *currencyRepository) BaseCodes(ctx context.Context) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&models.UserConfig{}).
		Joins("JOIN currencies ON currencies.id = user_configs.base_currency_id").
		Distinct().
		Pluck("currencies.code", &codes).Error
	if err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return codes, nil
}

func (r *currencyRepository) SystemCodes(ctx context.Context) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&models.Currency{}).
		Where("user_id IS NULL").
		Order("code").
		Distinct().
		Pluck("code", &codes).Error
	if err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return codes, nil
}

type currencyPriceRepository struct {
	db *gorm.DB
}

func (r *currencyPriceRepository) Find(ctx context.Context, baseCode string, quoteCodes []string) ([]models.CurrencyPrice, error) {
	var prices []models.CurrencyPrice
	if len(quoteCodes) == 0 {
		return prices, nil
	}
	err := r.db.WithContext(ctx).
		Where("base_code = ? AND quote_code IN ?", baseCode, quoteCodes).
		Find(&prices).Error
	if err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return prices, nil
}

func (r *currencyPriceRepository) Upsert(ctx context.Context, prices []models.CurrencyPrice) error {
	if len(prices) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "base_code"}, {Name: "quote_code"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
	}).CreateInBatches(prices, 500).Error
	return translate(err, nil, nil, nil)
}
