package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "finances/internal/errors"
	"finances/internal/models"
	"finances/internal/repository"
)

// currencyService handles system currencies and the user's custom ones.
type currencyService struct {
	store *repository.Store
}

// NewCurrencyService creates a new CurrencyServicer.
func NewCurrencyService(store *repository.Store) CurrencyServicer {
	return &currencyService{store: store}
}

// GetCurrencies lists system currencies followed by the user's custom ones.
func (s *currencyService) GetCurrencies(ctx context.Context, userID string) ([]models.Currency, error) {
	return s.store.Currencies.List(ctx, userID)
}

// GetCurrency retrieves a system currency or one of the user's custom ones.
func (s *currencyService) GetCurrency(ctx context.Context, userID, currencyID string) (*models.Currency, error) {
	return s.store.Currencies.Get(ctx, userID, currencyID)
}

// CreateCustomCurrency creates a currency valued at a fixed rate: rate units
// of it per one unit of the user's base currency.
func (s *currencyService) CreateCustomCurrency(ctx context.Context, userID, code, name string, rate decimal.Decimal) (*models.Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "code is required")
	}
	if !rate.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "rate must be greater than zero")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = code
	}

	currency := &models.Currency{
		Name:               name,
		Code:               code,
		IsCustom:           true,
		RateToBaseCurrency: decimal.NewNullDecimal(rate),
		UserID:             &userID,
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		taken, err := tx.Currencies.CodeTaken(ctx, userID, code)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrCurrencyExists
		}
		return tx.Currencies.Create(ctx, currency)
	})
	if err != nil {
		return nil, err
	}
	return currency, nil
}

// UpdateCustomCurrency changes the name or rate of a custom currency.
func (s *currencyService) UpdateCustomCurrency(ctx context.Context, userID, currencyID string, name *string, rate *decimal.Decimal) (*models.Currency, error) {
	currency, err := s.store.Currencies.GetCustom(ctx, userID, currencyID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		if trimmed := strings.TrimSpace(*name); trimmed != "" {
			currency.Name = trimmed
		}
	}
	if rate != nil {
		if !rate.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "rate must be greater than zero")
		}
		currency.RateToBaseCurrency = decimal.NewNullDecimal(*rate)
	}
	if err := s.store.Currencies.Update(ctx, currency); err != nil {
		return nil, err
	}
	return currency, nil
}

// DeleteCustomCurrency deletes a custom currency that no asset is held in.
// System currencies cannot be deleted.
func (s *currencyService) DeleteCustomCurrency(ctx context.Context, userID, currencyID string) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		currency, err := tx.Currencies.Get(ctx, userID, currencyID)
		if err != nil {
			return err
		}
		if !currency.IsCustom {
			return apperrors.WithMessage(apperrors.ErrCurrencyCantBeDeleted, "System currencies cannot be deleted")
		}
		used, err := tx.Assets.UsesCurrency(ctx, userID, currencyID)
		if err != nil {
			return err
		}
		if used {
			return apperrors.WithMessage(apperrors.ErrCurrencyCantBeDeleted, "Currency is used by an asset")
		}
		return tx.Currencies.Delete(ctx, userID, currencyID)
	})
}
