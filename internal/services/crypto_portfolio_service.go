package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "finances/internal/errors"
	"finances/internal/models"
	"finances/internal/pricing"
	"finances/internal/repository"
)

// cryptoPortfolioService handles crypto portfolios and their valuation.
type cryptoPortfolioService struct {
	store    *repository.Store
	resolver *pricing.Resolver
}

// NewCryptoPortfolioService creates a new CryptoPortfolioServicer.
func NewCryptoPortfolioService(store *repository.Store, resolver *pricing.Resolver) CryptoPortfolioServicer {
	return &cryptoPortfolioService{store: store, resolver: resolver}
}

// CreatePortfolio creates a portfolio. The user's first portfolio becomes
// their base crypto portfolio.
func (s *cryptoPortfolioService) CreatePortfolio(ctx context.Context, userID, title string) (*models.CryptoPortfolio, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}

	portfolio := &models.CryptoPortfolio{UserID: userID, Title: title}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.CryptoPortfolios.Create(ctx, portfolio); err != nil {
			return err
		}
		cfg, err := tx.Users.GetConfig(ctx, userID)
		if err != nil {
			return err
		}
		if cfg.BaseCryptoPortfolioID != nil {
			return nil
		}
		cfg.BaseCryptoPortfolioID = &portfolio.ID
		return tx.Users.SaveConfig(ctx, cfg)
	})
	if err != nil {
		return nil, err
	}
	return portfolio, nil
}

func (s *cryptoPortfolioService) GetPortfolios(ctx context.Context, userID string) ([]models.CryptoPortfolio, error) {
	return s.store.CryptoPortfolios.List(ctx, userID)
}

func (s *cryptoPortfolioService) GetPortfolio(ctx context.Context, userID, portfolioID string) (*models.CryptoPortfolio, error) {
	return s.store.CryptoPortfolios.Get(ctx, userID, portfolioID)
}

// UpdatePortfolio renames a portfolio.
func (s *cryptoPortfolioService) UpdatePortfolio(ctx context.Context, userID, portfolioID, title string) (*models.CryptoPortfolio, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}

	portfolio, err := s.store.CryptoPortfolios.Get(ctx, userID, portfolioID)
	if err != nil {
		return nil, err
	}
	portfolio.Title = title
	if err := s.store.CryptoPortfolios.Update(ctx, portfolio); err != nil {
		return nil, err
	}
	return portfolio, nil
}

// DeletePortfolio removes a portfolio with its holdings and trades. If it was
// the base portfolio, the oldest remaining one takes its place.
func (s *cryptoPortfolioService) DeletePortfolio(ctx context.Context, userID, portfolioID string) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.CryptoPortfolios.Get(ctx, userID, portfolioID); err != nil {
			return err
		}

		cfg, err := tx.Users.GetConfig(ctx, userID)
		if err != nil {
			return err
		}
		if cfg.BaseCryptoPortfolioID != nil && *cfg.BaseCryptoPortfolioID == portfolioID {
			cfg.BaseCryptoPortfolioID = nil
			portfolios, err := tx.CryptoPortfolios.List(ctx, userID)
			if err != nil {
				return err
			}
			for i := range portfolios {
				if portfolios[i].ID != portfolioID {
					cfg.BaseCryptoPortfolioID = &portfolios[i].ID
					break
				}
			}
			if err := tx.Users.SaveConfig(ctx, cfg); err != nil {
				return err
			}
		}

		if err := tx.CryptoTransactions.DeleteByPortfolio(ctx, userID, portfolioID); err != nil {
			return err
		}
		if err := tx.CryptoAssets.DeleteByPortfolio(ctx, userID, portfolioID); err != nil {
			return err
		}
		return tx.CryptoPortfolios.Delete(ctx, userID, portfolioID)
	})
}

// TotalByCryptoPortfolio values the portfolio at live prices in one batched
// upstream call and reports the profit over the remaining cost basis.
// Holdings without a market price count as zero.
func (s *cryptoPortfolioService) TotalByCryptoPortfolio(ctx context.Context, userID, portfolioID string) (*PortfolioTotal, error) {
	var (
		assets []models.CryptoAsset
		trades []models.CryptoTransaction
	)
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.CryptoPortfolios.Get(ctx, userID, portfolioID); err != nil {
			return err
		}
		var err error
		assets, err = tx.CryptoAssets.ListByPortfolio(ctx, userID, portfolioID)
		if err != nil {
			return err
		}
		ids := make([]string, len(assets))
		for i := range assets {
			ids[i] = assets[i].ID
		}
		trades, err = tx.CryptoTransactions.ListByAssets(ctx, userID, ids)
		return err
	})
	if err != nil {
		return nil, err
	}

	result := &PortfolioTotal{Total: decimal.Zero, Profit: decimal.Zero}
	if len(assets) == 0 {
		return result, nil
	}

	codes := make([]string, 0, len(assets))
	for i := range assets {
		if assets[i].CryptoCurrency != nil && !assets[i].Amount.IsZero() {
			codes = append(codes, assets[i].CryptoCurrency.Code)
		}
	}
	prices, err := s.resolver.ResolveCrypto(ctx, codes)
	if err != nil {
		return nil, err
	}

	tradesByAsset := make(map[string][]models.CryptoTransaction, len(assets))
	for _, t := range trades {
		tradesByAsset[t.CryptoAssetID] = append(tradesByAsset[t.CryptoAssetID], t)
	}

	total := decimal.Zero
	cost := decimal.Zero
	for i := range assets {
		asset := &assets[i]
		if asset.CryptoCurrency != nil {
			if price, ok := prices[strings.ToUpper(asset.CryptoCurrency.Code)]; ok {
				total = total.Add(asset.Amount.Mul(price))
			}
		}
		cost = cost.Add(costBasis(tradesByAsset[asset.ID]))
	}

	result.Total = total.Round(2)
	result.Profit = total.Sub(cost).Round(2)
	return result, nil
}
