package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finances/internal/models"
	"finances/internal/pagination"
)

// Id-scoped lookups return the entity's NotFound *AppError when the row does
// not exist or belongs to another user. List methods return empty slices.

// AssetRepository provides owner-scoped access to assets.
type AssetRepository interface {
	Get(ctx context.Context, userID, id string) (*models.Asset, error)
	List(ctx context.Context, userID string) ([]models.Asset, error)
	Page(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	Create(ctx context.Context, asset *models.Asset) error
	Update(ctx context.Context, asset *models.Asset) error
	Delete(ctx context.Context, userID, id string) error
	// ApplyDelta adds delta to the stored amount in a single UPDATE.
	ApplyDelta(ctx context.Context, userID, id string, delta decimal.Decimal) error
	// UsesCurrency reports whether any of the user's assets, deleted ones
	// included, is held in the currency.
	UsesCurrency(ctx context.Context, userID, currencyID string) (bool, error)
}

// CurrencyRepository provides access to system currencies and the caller's custom ones.
type CurrencyRepository interface {
	// Get returns a system currency or one of the user's custom currencies.
	Get(ctx context.Context, userID, id string) (*models.Currency, error)
	// GetCustom returns a custom currency owned by the user.
	GetCustom(ctx context.Context, userID, id string) (*models.Currency, error)
	GetSystemByCode(ctx context.Context, code string) (*models.Currency, error)
	List(ctx context.Context, userID string) ([]models.Currency, error)
	CodeTaken(ctx context.Context, userID, code string) (bool, error)
	Create(ctx context.Context, currency *models.Currency) error
	Update(ctx context.Context, currency *models.Currency) error
	Delete(ctx context.Context, userID, id string) error
	// BaseCodes returns the distinct base currency codes chosen by users.
	BaseCodes(ctx context.Context) ([]string, error)
	// SystemCodes returns the codes of all system currencies.
	SystemCodes(ctx context.Context) ([]string, error)
}

// CurrencyPriceRepository reads and refreshes the cached fiat prices.
type CurrencyPriceRepository interface {
	Find(ctx context.Context, baseCode string, quoteCodes []string) ([]models.CurrencyPrice, error)
	Upsert(ctx context.Context, prices []models.CurrencyPrice) error
}

// CategoryRepository provides owner-scoped access to transaction categories.
type CategoryRepository interface {
	// Get returns an active category.
	Get(ctx context.Context, userID, id string) (*models.TransactionCategory, error)
	// FindByTitle returns the category with the natural key whatever its state.
	FindByTitle(ctx context.Context, userID, title string, categoryType models.CategoryType) (*models.TransactionCategory, error)
	List(ctx context.Context, userID string, categoryType *models.CategoryType) ([]models.TransactionCategory, error)
	Create(ctx context.Context, category *models.TransactionCategory) error
	Restore(ctx context.Context, category *models.TransactionCategory) error
	Delete(ctx context.Context, userID, id string) error
}

// PeriodFilter selects transactions whose date falls in [Start, End], both
// days included, optionally narrowed to one category type and one asset.
type PeriodFilter struct {
	Start   time.Time
	End     time.Time
	Type    *models.CategoryType
	AssetID *string
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	AssetID    *string
	CategoryID *string
}

// CurrencyTotal is the sum of transaction amounts in one currency.
type CurrencyTotal struct {
	Code     string
	IsCustom bool
	Rate     decimal.NullDecimal
	Total    decimal.Decimal
}

// CategoryCurrencyTotal is the sum of one category's transactions in one currency.
type CategoryCurrencyTotal struct {
	CategoryID    string
	CategoryTitle string
	CurrencyTotal
}

// TransactionRepository provides owner-scoped access to transactions and their sums.
type TransactionRepository interface {
	Get(ctx context.Context, userID, id string) (*models.Transaction, error)
	// GetForUpdate locks the row until the surrounding transaction ends and
	// attaches the asset and category like Get.
	GetForUpdate(ctx context.Context, userID, id string) (*models.Transaction, error)
	Page(ctx context.Context, userID string, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
	ListInPeriod(ctx context.Context, userID string, filter PeriodFilter) ([]models.Transaction, error)
	Create(ctx context.Context, tx *models.Transaction) error
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, userID, id string) error
	SumByCurrency(ctx context.Context, userID string, filter PeriodFilter) ([]CurrencyTotal, error)
	SumByCategoryAndCurrency(ctx context.Context, userID string, filter PeriodFilter) ([]CategoryCurrencyTotal, error)
	SumByCategoryType(ctx context.Context, userID string, filter PeriodFilter) (map[models.CategoryType]decimal.Decimal, error)
}

// CryptoCurrencyRepository reads crypto currency reference data.
type CryptoCurrencyRepository interface {
	Get(ctx context.Context, id string) (*models.CryptoCurrency, error)
	List(ctx context.Context) ([]models.CryptoCurrency, error)
}

// CryptoPortfolioRepository provides owner-scoped access to crypto portfolios.
type CryptoPortfolioRepository interface {
	Get(ctx context.Context, userID, id string) (*models.CryptoPortfolio, error)
	List(ctx context.Context, userID string) ([]models.CryptoPortfolio, error)
	Count(ctx context.Context, userID string) (int64, error)
	Create(ctx context.Context, portfolio *models.CryptoPortfolio) error
	Update(ctx context.Context, portfolio *models.CryptoPortfolio) error
	Delete(ctx context.Context, userID, id string) error
}

// CryptoAssetRepository provides owner-scoped access to crypto holdings.
type CryptoAssetRepository interface {
	Get(ctx context.Context, userID, id string) (*models.CryptoAsset, error)
	FindByCurrency(ctx context.Context, userID, portfolioID, cryptoCurrencyID string) (*models.CryptoAsset, error)
	ListByPortfolio(ctx context.Context, userID, portfolioID string) ([]models.CryptoAsset, error)
	Create(ctx context.Context, asset *models.CryptoAsset) error
	Delete(ctx context.Context, userID, id string) error
	DeleteByPortfolio(ctx context.Context, userID, portfolioID string) error
	// ApplyDelta adds delta to the stored amount in a single UPDATE.
	ApplyDelta(ctx context.Context, userID, id string, delta decimal.Decimal) error
}

// CryptoTransactionRepository provides owner-scoped access to crypto transactions.
type CryptoTransactionRepository interface {
	Get(ctx context.Context, userID, id string) (*models.CryptoTransaction, error)
	GetForUpdate(ctx context.Context, userID, id string) (*models.CryptoTransaction, error)
	// ListByAsset returns the asset's transactions oldest first.
	ListByAsset(ctx context.Context, userID, cryptoAssetID string) ([]models.CryptoTransaction, error)
	ListByAssets(ctx context.Context, userID string, cryptoAssetIDs []string) ([]models.CryptoTransaction, error)
	Page(ctx context.Context, userID string, cryptoAssetID *string, page pagination.PageRequest) (*pagination.PageResponse[models.CryptoTransaction], error)
	Create(ctx context.Context, tx *models.CryptoTransaction) error
	Update(ctx context.Context, tx *models.CryptoTransaction) error
	Delete(ctx context.Context, userID, id string) error
	DeleteByAsset(ctx context.Context, userID, cryptoAssetID string) error
	DeleteByPortfolio(ctx context.Context, userID, portfolioID string) error
}

// UserRepository provides access to users and their configuration.
type UserRepository interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// GetConfig returns the user's configuration, creating an empty one if missing.
	GetConfig(ctx context.Context, userID string) (*models.UserConfig, error)
	SaveConfig(ctx context.Context, cfg *models.UserConfig) error
}

// AuditRepository stores audit entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
}
