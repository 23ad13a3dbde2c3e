package repository

import (
	"context"

	"gorm.io/gorm"

	apperrors "finances/internal/errors"
	"finances/internal/models"
)

type cryptoCurrencyRepository struct {
	db *gorm.DB
}

func (r *cryptoCurrencyRepository) Get(ctx context.Context, id string) (*models.CryptoCurrency, error) {
	var currency models.CryptoCurrency
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&currency).Error; err != nil {
		return nil, translate(err, apperrors.ErrCryptoCurrencyNotFound, nil, nil)
	}
	return &currency, nil
}

func (r *cryptoCurrencyRepository) List(ctx context.Context) ([]models.CryptoCurrency, error) {
	var currencies []models.CryptoCurrency
	if err := r.db.WithContext(ctx).Order("code").Find(&currencies).Error; err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return currencies, nil
}

type cryptoPortfolioRepository struct {
	db *gorm.DB
}

func (r *cryptoPortfolioRepository) Get(ctx context.Context, userID, id string) (*models.CryptoPortfolio, error) {
	var portfolio models.CryptoPortfolio
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&portfolio).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrCryptoPortfolioNotFound, nil, nil)
	}
	return &portfolio, nil
}

func (r *cryptoPortfolioRepository) List(ctx context.Context, userID string) ([]models.CryptoPortfolio, error) {
	var portfolios []models.CryptoPortfolio
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at, id").Find(&portfolios).Error; err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return portfolios, nil
}

func (r *cryptoPortfolioRepository) Count(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CryptoPortfolio{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, translate(err, nil, nil, nil)
	}
	return count, nil
}

func (r *cryptoPortfolioRepository) Create(ctx context.Context, portfolio *models.CryptoPortfolio) error {
	err := r.db.WithContext(ctx).Create(portfolio).Error
	return translate(err, nil, apperrors.ErrCryptoPortfolioExists, nil)
}

func (r *cryptoPortfolioRepository) Update(ctx context.Context, portfolio *models.CryptoPortfolio) error {
	result := r.db.WithContext(ctx).Model(&models.CryptoPortfolio{}).
		Where("id = ? AND user_id = ?", portfolio.ID, portfolio.UserID).
		Update("title", portfolio.Title)
	if result.Error != nil {
		return translate(result.Error, apperrors.ErrCryptoPortfolioNotFound, apperrors.ErrCryptoPortfolioExists, nil)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrCryptoPortfolioNotFound
	}
	return nil
}

func (r *cryptoPortfolioRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Unscoped().
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CryptoPortfolio{})
	return affected(result, apperrors.ErrCryptoPortfolioNotFound, nil)
}
