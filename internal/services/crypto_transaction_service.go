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

// cryptoTransactionService handles the crypto ledger: BUY adds to the
// holding, SELL subtracts, inside the same database transaction.
type cryptoTransactionService struct {
	store *repository.Store
}

// NewCryptoTransactionService creates a new CryptoTransactionServicer.
func NewCryptoTransactionService(store *repository.Store) CryptoTransactionServicer {
	return &cryptoTransactionService{store: store}
}

// applyCryptoDelta is the single place a crypto holding changes.
func applyCryptoDelta(ctx context.Context, tx *repository.Store, userID, cryptoAssetID string, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	return tx.CryptoAssets.ApplyDelta(ctx, userID, cryptoAssetID, delta)
}

func validateCryptoTrade(txType models.CryptoTransactionType, amount, price decimal.Decimal) error {
	if txType != models.CryptoTransactionBuy && txType != models.CryptoTransactionSell {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be BUY or SELL")
	}
	if !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if !price.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "price must be greater than zero")
	}
	return nil
}

// AddCryptoTransaction records a BUY or SELL. When a crypto currency is given
// instead of a holding, the portfolio's holding of that currency is used,
// created empty on first trade.
func (s *cryptoTransactionService) AddCryptoTransaction(ctx context.Context, userID string, input AddCryptoTransactionInput) (*models.CryptoTransaction, error) {
	if (input.CryptoAssetID == nil) == (input.CryptoCurrencyID == nil) {
		return nil, apperrors.ErrInvalidTransactionRequest
	}
	if err := validateCryptoTrade(input.Type, input.Amount, input.Price); err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		input.Date = time.Now().UTC()
	}

	var result *models.CryptoTransaction
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		portfolio, err := tx.CryptoPortfolios.Get(ctx, userID, input.PortfolioID)
		if err != nil {
			return err
		}

		asset, err := resolveCryptoAsset(ctx, tx, userID, portfolio.ID, input)
		if err != nil {
			return err
		}

		transaction := &models.CryptoTransaction{
			UserID:        userID,
			PortfolioID:   portfolio.ID,
			CryptoAssetID: asset.ID,
			Type:          input.Type,
			Amount:        input.Amount,
			Price:         input.Price,
			Date:          input.Date,
		}
		if err := tx.CryptoTransactions.Create(ctx, transaction); err != nil {
			return err
		}
		if err := applyCryptoDelta(ctx, tx, userID, asset.ID, transaction.SignedAmount()); err != nil {
			return err
		}

		result, err = tx.CryptoTransactions.Get(ctx, userID, transaction.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func resolveCryptoAsset(ctx context.Context, tx *repository.Store, userID, portfolioID string, input AddCryptoTransactionInput) (*models.CryptoAsset, error) {
	if input.CryptoAssetID != nil {
		asset, err := tx.CryptoAssets.Get(ctx, userID, *input.CryptoAssetID)
		if err != nil {
			return nil, err
		}
		if asset.PortfolioID != portfolioID {
			return nil, apperrors.ErrCryptoAssetNotFound
		}
		return asset, nil
	}

	currency, err := tx.CryptoCurrencies.Get(ctx, *input.CryptoCurrencyID)
	if err != nil {
		return nil, err
	}
	asset, err := tx.CryptoAssets.FindByCurrency(ctx, userID, portfolioID, currency.ID)
	if err == nil {
		return asset, nil
	}
	if !apperrors.Is(err, apperrors.ErrCryptoAssetNotFound) {
		return nil, err
	}

	asset = &models.CryptoAsset{
		UserID:           userID,
		PortfolioID:      portfolioID,
		CryptoCurrencyID: currency.ID,
		Amount:           decimal.Zero,
	}
	if err := tx.CryptoAssets.Create(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// ChangeCryptoTransaction edits a trade, replacing its old effect on the
// holding with the new one.
func (s *cryptoTransactionService) ChangeCryptoTransaction(
	ctx context.Context,
	userID, transactionID string,
	txType models.CryptoTransactionType,
	amount, price decimal.Decimal,
	date time.Time,
) (*models.CryptoTransaction, error) {
	if err := validateCryptoTrade(txType, amount, price); err != nil {
		return nil, err
	}

	var result *models.CryptoTransaction
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		current, err := tx.CryptoTransactions.GetForUpdate(ctx, userID, transactionID)
		if err != nil {
			return err
		}

		updated := *current
		updated.Type = txType
		updated.Amount = amount
		updated.Price = price
		if !date.IsZero() {
			updated.Date = date
		}

		delta := updated.SignedAmount().Sub(current.SignedAmount())
		if err := applyCryptoDelta(ctx, tx, userID, current.CryptoAssetID, delta); err != nil {
			return err
		}
		if err := tx.CryptoTransactions.Update(ctx, &updated); err != nil {
			return err
		}

		result, err = tx.CryptoTransactions.Get(ctx, userID, transactionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteCryptoTransaction removes a trade and reverses its effect on the holding.
func (s *cryptoTransactionService) DeleteCryptoTransaction(ctx context.Context, userID, transactionID string) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		current, err := tx.CryptoTransactions.GetForUpdate(ctx, userID, transactionID)
		if err != nil {
			return err
		}
		if err := tx.CryptoTransactions.Delete(ctx, userID, transactionID); err != nil {
			return err
		}
		return applyCryptoDelta(ctx, tx, userID, current.CryptoAssetID, current.SignedAmount().Neg())
	})
}

// GetCryptoTransaction retrieves a crypto transaction with its holding.
func (s *cryptoTransactionService) GetCryptoTransaction(ctx context.Context, userID, transactionID string) (*models.CryptoTransaction, error) {
	return s.store.CryptoTransactions.Get(ctx, userID, transactionID)
}

// GetCryptoTransactions lists the user's crypto transactions, newest first,
// optionally for a single holding.
func (s *cryptoTransactionService) GetCryptoTransactions(
	ctx context.Context,
	userID string,
	cryptoAssetID *string,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.CryptoTransaction], error) {
	if cryptoAssetID != nil {
		if _, err := s.store.CryptoAssets.Get(ctx, userID, *cryptoAssetID); err != nil {
			return nil, err
		}
	}
	return s.store.CryptoTransactions.Page(ctx, userID, cryptoAssetID, page)
}
