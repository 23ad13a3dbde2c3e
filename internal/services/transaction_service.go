package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	apperrors "finances/internal/errors"
	"finances/internal/models"
	"finances/internal/pagination"
	"finances/internal/repository"
)

// transactionService handles the asset ledger: every income or expense
// moves its asset's running balance inside the same database transaction.
type transactionService struct {
	store *repository.Store
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(store *repository.Store) TransactionServicer {
	return &transactionService{store: store}
}

// applyAssetDelta is the single place an asset balance changes. The update
// is arithmetic so concurrent ledger operations never lose each other's delta.
func applyAssetDelta(ctx context.Context, tx *repository.Store, userID, assetID string, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	return tx.Assets.ApplyDelta(ctx, userID, assetID, delta)
}

// AddTransaction records an income or expense and adjusts the asset balance.
func (s *transactionService) AddTransaction(
	ctx context.Context,
	userID, assetID, categoryID string,
	amount decimal.Decimal,
	date time.Time,
) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if date.IsZero() {
		date = time.Now().UTC()
	}

	var result *models.Transaction
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		asset, err := tx.Assets.Get(ctx, userID, assetID)
		if err != nil {
			return err
		}
		category, err := tx.Categories.Get(ctx, userID, categoryID)
		if err != nil {
			return err
		}

		transaction := &models.Transaction{
			UserID:     userID,
			AssetID:    asset.ID,
			CategoryID: category.ID,
			Amount:     amount,
			Date:       date,
		}
		if err := tx.Transactions.Create(ctx, transaction); err != nil {
			return err
		}
		if err := applyAssetDelta(ctx, tx, userID, asset.ID, transaction.SignedAmount(category.Type)); err != nil {
			return err
		}

		result, err = tx.Transactions.Get(ctx, userID, transaction.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ChangeTransaction edits a transaction and compensates the balances it touched.
// The category may change only to another category of the same type, and an
// edit that changes nothing is rejected.
func (s *transactionService) ChangeTransaction(
	ctx context.Context,
	userID, transactionID, assetID, categoryID string,
	amount decimal.Decimal,
	date time.Time,
) (*models.Transaction, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	var result *models.Transaction
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		current, err := tx.Transactions.GetForUpdate(ctx, userID, transactionID)
		if err != nil {
			return err
		}
		if current.Category == nil {
			return apperrors.ErrCategoryNotFound
		}
		if date.IsZero() {
			date = current.Date
		}

		category := current.Category
		if categoryID != current.CategoryID {
			category, err = tx.Categories.Get(ctx, userID, categoryID)
			if err != nil {
				return err
			}
			if category.Type != current.Category.Type {
				return apperrors.WithMessage(apperrors.ErrTransactionCantBeChanged, "Category type cannot be changed")
			}
		}

		if assetID == current.AssetID &&
			categoryID == current.CategoryID &&
			amount.Equal(current.Amount) &&
			date.Equal(current.Date) {
			return apperrors.WithMessage(apperrors.ErrTransactionCantBeChanged, "Nothing to change")
		}

		oldEffect := current.SignedAmount(category.Type)
		updated := *current
		updated.AssetID = assetID
		updated.CategoryID = category.ID
		updated.Amount = amount
		updated.Date = date
		newEffect := updated.SignedAmount(category.Type)

		if assetID != current.AssetID {
			if _, err := tx.Assets.Get(ctx, userID, assetID); err != nil {
				return err
			}
			if err := applyAssetDelta(ctx, tx, userID, current.AssetID, oldEffect.Neg()); err != nil {
				return err
			}
			if err := applyAssetDelta(ctx, tx, userID, assetID, newEffect); err != nil {
				return err
			}
		} else if err := applyAssetDelta(ctx, tx, userID, assetID, newEffect.Sub(oldEffect)); err != nil {
			return err
		}

		if err := tx.Transactions.Update(ctx, &updated); err != nil {
			return err
		}

		result, err = tx.Transactions.Get(ctx, userID, transactionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteTransaction removes a transaction and reverses its effect on the asset.
func (s *transactionService) DeleteTransaction(ctx context.Context, userID, transactionID string) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		current, err := tx.Transactions.GetForUpdate(ctx, userID, transactionID)
		if err != nil {
			return err
		}
		if current.Category == nil {
			return apperrors.ErrCategoryNotFound
		}
		if err := tx.Transactions.Delete(ctx, userID, transactionID); err != nil {
			return err
		}
		return applyAssetDelta(ctx, tx, userID, current.AssetID, current.SignedAmount(current.Category.Type).Neg())
	})
}

// GetTransaction retrieves a transaction with its asset and category.
func (s *transactionService) GetTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error) {
	return s.store.Transactions.Get(ctx, userID, transactionID)
}

// GetTransactions retrieves a paginated, filtered list of the user's transactions.
func (s *transactionService) GetTransactions(
	ctx context.Context,
	userID string,
	filter repository.TransactionFilter,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.Transaction], error) {
	return s.store.Transactions.Page(ctx, userID, filter, page)
}
