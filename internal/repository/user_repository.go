package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "finances/internal/errors"
	"finances/internal/models"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, apperrors.ErrUserNotFound, nil, nil)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", strings.ToLower(username)).First(&user).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrUserNotFound, nil, nil)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Username = strings.ToLower(user.Username)
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
	return translate(err, nil, apperrors.ErrUsernameTaken, nil)
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", passwordHash)
	return affected(result, apperrors.ErrUserNotFound, nil)
}

func (r *userRepository) GetConfig(ctx context.Context, userID string) (*models.UserConfig, error) {
	cfg := models.UserConfig{UserID: userID}
	err := r.db.WithContext(ctx).
		Preload("BaseCurrency").
		Preload("BaseCryptoPortfolio").
		Where(models.UserConfig{UserID: userID}).
		FirstOrCreate(&cfg).Error
	if err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return &cfg, nil
}

func (r *userRepository) SaveConfig(ctx context.Context, cfg *models.UserConfig) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"base_currency_id", "base_crypto_portfolio_id"}),
	}).Omit(clause.Associations).Create(cfg).Error
	return translate(err, nil, nil, nil)
}

type auditRepository struct {
	db *gorm.DB
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error, nil, nil, nil)
}
