package services

import (
	"context"
	"strings"

	apperrors "finances/internal/errors"
	"finances/internal/models"
	"finances/internal/pagination"
	"finances/internal/repository"
)

// assetService handles asset-related business logic. Balances are never set
// here; they only move through the transaction ledger.
type assetService struct {
	store *repository.Store
}

// NewAssetService creates a new AssetServicer.
func NewAssetService(store *repository.Store) AssetServicer {
	return &assetService{store: store}
}

// CreateAsset creates an empty asset, optionally held in one of the
// currencies visible to the user.
func (s *assetService) CreateAsset(ctx context.Context, userID, title string, currencyID *string) (*models.Asset, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}

	var currency *models.Currency
	if currencyID != nil {
		var err error
		if currency, err = s.store.Currencies.Get(ctx, userID, *currencyID); err != nil {
			return nil, err
		}
	}

	asset := &models.Asset{UserID: userID, Title: title, CurrencyID: currencyID}
	if err := s.store.Assets.Create(ctx, asset); err != nil {
		return nil, err
	}
	asset.Currency = currency
	return asset, nil
}

// GetAssets retrieves a paginated list of the user's assets.
func (s *assetService) GetAssets(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	return s.store.Assets.Page(ctx, userID, page)
}

// GetAsset retrieves one of the user's assets.
func (s *assetService) GetAsset(ctx context.Context, userID, assetID string) (*models.Asset, error) {
	return s.store.Assets.Get(ctx, userID, assetID)
}

// UpdateAsset renames an asset and changes its currency.
func (s *assetService) UpdateAsset(ctx context.Context, userID, assetID, title string, currencyID *string) (*models.Asset, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}

	asset, err := s.store.Assets.Get(ctx, userID, assetID)
	if err != nil {
		return nil, err
	}
	if currencyID != nil {
		if _, err := s.store.Currencies.Get(ctx, userID, *currencyID); err != nil {
			return nil, err
		}
	}

	asset.Title = title
	asset.CurrencyID = currencyID
	if err := s.store.Assets.Update(ctx, asset); err != nil {
		return nil, err
	}
	return s.store.Assets.Get(ctx, userID, assetID)
}

// DeleteAsset hides an asset. Its transactions stay in the history.
func (s *assetService) DeleteAsset(ctx context.Context, userID, assetID string) error {
	return s.store.Assets.Delete(ctx, userID, assetID)
}
