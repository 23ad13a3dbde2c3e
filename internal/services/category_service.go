package services

import (
	"context"
	"strings"

	apperrors "finances/internal/errors"
	"finances/internal/models"
	"finances/internal/repository"
)

// categoryService handles transaction categories.
type categoryService struct {
	store *repository.Store
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(store *repository.Store) CategoryServicer {
	return &categoryService{store: store}
}

// CreateCategory creates a category, or brings back a deleted one with the
// same title and type.
func (s *categoryService) CreateCategory(ctx context.Context, userID, title string, categoryType models.CategoryType) (*models.TransactionCategory, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if categoryType != models.CategoryTypeIncome && categoryType != models.CategoryTypeExpense {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be INCOME or EXPENSE")
	}

	var result *models.TransactionCategory
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		existing, err := tx.Categories.FindByTitle(ctx, userID, title, categoryType)
		switch {
		case err == nil && existing.State == models.CategoryDeleted:
			if err := tx.Categories.Restore(ctx, existing); err != nil {
				return err
			}
			result = existing
			return nil
		case err == nil:
			return apperrors.ErrCategoryExists
		case !apperrors.Is(err, apperrors.ErrCategoryNotFound):
			return err
		}

		category := &models.TransactionCategory{UserID: userID, Title: title, Type: categoryType}
		if err := tx.Categories.Create(ctx, category); err != nil {
			return err
		}
		result = category
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetCategories lists the user's active categories, optionally of one type.
func (s *categoryService) GetCategories(ctx context.Context, userID string, categoryType *models.CategoryType) ([]models.TransactionCategory, error) {
	return s.store.Categories.List(ctx, userID, categoryType)
}

// GetCategory retrieves one of the user's active categories.
func (s *categoryService) GetCategory(ctx context.Context, userID, categoryID string) (*models.TransactionCategory, error) {
	return s.store.Categories.Get(ctx, userID, categoryID)
}

// DeleteCategory marks a category deleted. Past transactions keep it.
func (s *categoryService) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	return s.store.Categories.Delete(ctx, userID, categoryID)
}
