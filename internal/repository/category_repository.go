package repository

import (
	"context"

	"gorm.io/gorm"

	apperrors "finances/internal/errors"
	"finances/internal/models"
)

type categoryRepository struct {
	db *gorm.DB
}

func (r *categoryRepository) Get(ctx context.Context, userID, id string) (*models.TransactionCategory, error) {
	var category models.TransactionCategory
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&category).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrCategoryNotFound, nil, nil)
	}
	return &category, nil
}

func (r *categoryRepository) FindByTitle(ctx context.Context, userID, title string, categoryType models.CategoryType) (*models.TransactionCategory, error) {
	var category models.TransactionCategory
	err := r.db.WithContext(ctx).Unscoped().
		Where("user_id = ? AND title = ? AND type = ?", userID, title, categoryType).
		First(&category).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrCategoryNotFound, nil, nil)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, userID string, categoryType *models.CategoryType) ([]models.TransactionCategory, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if categoryType != nil {
		query = query.Where("type = ?", *categoryType)
	}
	var categories []models.TransactionCategory
	if err := query.Order("type, title").Find(&categories).Error; err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return categories, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.TransactionCategory) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return translate(err, nil, apperrors.ErrCategoryExists, nil)
	}
	category.State = models.CategoryActive
	return nil
}

func (r *categoryRepository) Restore(ctx context.Context, category *models.TransactionCategory) error {
	result := r.db.WithContext(ctx).Unscoped().Model(&models.TransactionCategory{}).
		Where("id = ? AND user_id = ?", category.ID, category.UserID).
		Update("deleted_at", nil)
	if err := affected(result, apperrors.ErrCategoryNotFound, nil); err != nil {
		return err
	}
	category.DeletedAt = gorm.DeletedAt{}
	category.State = models.CategoryActive
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.TransactionCategory{})
	return affected(result, apperrors.ErrCategoryNotFound, nil)
}
