package services

import (
	"context"

	"finances/internal/models"
	"finances/internal/pricing"
	"finances/internal/repository"
)

// cryptoCurrencyService serves crypto reference data and live prices.
type cryptoCurrencyService struct {
	store    *repository.Store
	resolver *pricing.Resolver
}

// NewCryptoCurrencyService creates a new CryptoCurrencyServicer.
func NewCryptoCurrencyService(store *repository.Store, resolver *pricing.Resolver) CryptoCurrencyServicer {
	return &cryptoCurrencyService{store: store, resolver: resolver}
}

func (s *cryptoCurrencyService) GetCryptoCurrencies(ctx context.Context) ([]models.CryptoCurrency, error) {
	return s.store.CryptoCurrencies.List(ctx)
}

func (s *cryptoCurrencyService) GetCryptoCurrency(ctx context.Context, cryptoCurrencyID string) (*models.CryptoCurrency, error) {
	return s.store.CryptoCurrencies.Get(ctx, cryptoCurrencyID)
}

// GetCryptoCurrencyPrice fetches the live market price of a crypto currency.
func (s *cryptoCurrencyService) GetCryptoCurrencyPrice(ctx context.Context, cryptoCurrencyID string) (*CryptoCurrencyPrice, error) {
	currency, err := s.store.CryptoCurrencies.Get(ctx, cryptoCurrencyID)
	if err != nil {
		return nil, err
	}
	price, err := s.resolver.CryptoPrice(ctx, currency.Code)
	if err != nil {
		return nil, err
	}
	return &CryptoCurrencyPrice{
		Code:   currency.Code,
		Symbol: s.resolver.Symbol(currency.Code),
		Price:  price,
	}, nil
}
