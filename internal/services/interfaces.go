package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finances/internal/models"
	"finances/internal/pagination"
	"finances/internal/repository"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Signup(ctx context.Context, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	SetPassword(ctx context.Context, userID, password string) error
	GetConfig(ctx context.Context, userID string) (*models.UserConfig, error)
	SetBaseCurrency(ctx context.Context, userID, currencyID string) (*models.UserConfig, error)
	SetBaseCryptoPortfolio(ctx context.Context, userID, portfolioID string) (*models.UserConfig, error)
}

// AssetServicer defines the contract for asset-related business logic.
type AssetServicer interface {
	CreateAsset(ctx context.Context, userID, title string, currencyID *string) (*models.Asset, error)
	GetAssets(ctx context.Context, userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error)
	GetAsset(ctx context.Context, userID, assetID string) (*models.Asset, error)
	UpdateAsset(ctx context.Context, userID, assetID, title string, currencyID *string) (*models.Asset, error)
	DeleteAsset(ctx context.Context, userID, assetID string) error
}

// CurrencyServicer defines the contract for system and custom currencies.
type CurrencyServicer interface {
	GetCurrencies(ctx context.Context, userID string) ([]models.Currency, error)
	GetCurrency(ctx context.Context, userID, currencyID string) (*models.Currency, error)
	CreateCustomCurrency(ctx context.Context, userID, code, name string, rate decimal.Decimal) (*models.Currency, error)
	UpdateCustomCurrency(ctx context.Context, userID, currencyID string, name *string, rate *decimal.Decimal) (*models.Currency, error)
	DeleteCustomCurrency(ctx context.Context, userID, currencyID string) error
}

// CategoryServicer defines the contract for transaction categories.
type CategoryServicer interface {
	CreateCategory(ctx context.Context, userID, title string, categoryType models.CategoryType) (*models.TransactionCategory, error)
	GetCategories(ctx context.Context, userID string, categoryType *models.CategoryType) ([]models.TransactionCategory, error)
	GetCategory(ctx context.Context, userID, categoryID string) (*models.TransactionCategory, error)
	DeleteCategory(ctx context.Context, userID, categoryID string) error
}

// TransactionServicer defines the contract for the asset ledger.
type TransactionServicer interface {
	AddTransaction(ctx context.Context, userID, assetID, categoryID string, amount decimal.Decimal, date time.Time) (*models.Transaction, error)
	ChangeTransaction(ctx context.Context, userID, transactionID, assetID, categoryID string, amount decimal.Decimal, date time.Time) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, transactionID string) error
	GetTransaction(ctx context.Context, userID, transactionID string) (*models.Transaction, error)
	GetTransactions(ctx context.Context, userID string, filter repository.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)
}

// PeriodQuery selects transactions dated within [Start, End], both days
// included, of one category type and optionally one asset.
type PeriodQuery struct {
	Start   time.Time
	End     time.Time
	Type    models.CategoryType
	AssetID *string
}

// CategoryTotal is one category's converted total for a period.
type CategoryTotal struct {
	CategoryID    string          `json:"category_id"`
	CategoryTitle string          `json:"category_title"`
	Total         decimal.Decimal `json:"total"`
}

// DayTransactions holds one day's transactions with raw subtotals.
type DayTransactions struct {
	Date         string               `json:"date"`
	Transactions []models.Transaction `json:"transactions"`
	Income       decimal.Decimal      `json:"income"`
	Expense      decimal.Decimal      `json:"expense"`
}

// AssetTotals are an asset's raw income and expense sums for a period.
type AssetTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// ReportServicer defines the contract for multi-currency aggregation.
type ReportServicer interface {
	TotalAssets(ctx context.Context, userID string) (decimal.Decimal, error)
	TotalByPeriod(ctx context.Context, userID string, query PeriodQuery) (decimal.Decimal, error)
	TotalCategoriesByPeriod(ctx context.Context, userID string, query PeriodQuery) ([]CategoryTotal, error)
	TransactionsGroupedByDay(ctx context.Context, userID string, query PeriodQuery) ([]DayTransactions, error)
	TotalsByAsset(ctx context.Context, userID, assetID string, start, end time.Time) (*AssetTotals, error)
}

// CryptoCurrencyPrice is the live price of a crypto currency.
type CryptoCurrencyPrice struct {
	Code   string          `json:"code"`
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

// CryptoCurrencyServicer defines the contract for crypto reference data.
type CryptoCurrencyServicer interface {
	GetCryptoCurrencies(ctx context.Context) ([]models.CryptoCurrency, error)
	GetCryptoCurrency(ctx context.Context, cryptoCurrencyID string) (*models.CryptoCurrency, error)
	GetCryptoCurrencyPrice(ctx context.Context, cryptoCurrencyID string) (*CryptoCurrencyPrice, error)
}

// PortfolioTotal is the market value of a crypto portfolio and its profit
// over the remaining cost basis.
type PortfolioTotal struct {
	Total  decimal.Decimal `json:"total"`
	Profit decimal.Decimal `json:"profit"`
}

// CryptoPortfolioServicer defines the contract for crypto portfolios.
type CryptoPortfolioServicer interface {
	CreatePortfolio(ctx context.Context, userID, title string) (*models.CryptoPortfolio, error)
	GetPortfolios(ctx context.Context, userID string) ([]models.CryptoPortfolio, error)
	GetPortfolio(ctx context.Context, userID, portfolioID string) (*models.CryptoPortfolio, error)
	UpdatePortfolio(ctx context.Context, userID, portfolioID, title string) (*models.CryptoPortfolio, error)
	DeletePortfolio(ctx context.Context, userID, portfolioID string) error
	TotalByCryptoPortfolio(ctx context.Context, userID, portfolioID string) (*PortfolioTotal, error)
}

// CryptoAssetServicer defines the contract for crypto holdings.
type CryptoAssetServicer interface {
	GetCryptoAssets(ctx context.Context, userID, portfolioID string) ([]models.CryptoAsset, error)
	GetCryptoAsset(ctx context.Context, userID, cryptoAssetID string) (*models.CryptoAsset, error)
	DeleteCryptoAsset(ctx context.Context, userID, cryptoAssetID string) error
	TotalBuyForCryptoAsset(ctx context.Context, userID, cryptoAssetID string) (decimal.Decimal, error)
}

// AddCryptoTransactionInput describes a new BUY or SELL. Exactly one of
// CryptoAssetID and CryptoCurrencyID must be set.
type AddCryptoTransactionInput struct {
	PortfolioID      string
	CryptoAssetID    *string
	CryptoCurrencyID *string
	Type             models.CryptoTransactionType
	Amount           decimal.Decimal
	Price            decimal.Decimal
	Date             time.Time
}

// CryptoTransactionServicer defines the contract for the crypto ledger.
type CryptoTransactionServicer interface {
	AddCryptoTransaction(ctx context.Context, userID string, input AddCryptoTransactionInput) (*models.CryptoTransaction, error)
	ChangeCryptoTransaction(ctx context.Context, userID, transactionID string, txType models.CryptoTransactionType, amount, price decimal.Decimal, date time.Time) (*models.CryptoTransaction, error)
	DeleteCryptoTransaction(ctx context.Context, userID, transactionID string) error
	GetCryptoTransaction(ctx context.Context, userID, transactionID string) (*models.CryptoTransaction, error)
	GetCryptoTransactions(ctx context.Context, userID string, cryptoAssetID *string, page pagination.PageRequest) (*pagination.PageResponse[models.CryptoTransaction], error)
}

// PriceSyncServicer refreshes the cached fiat prices.
type PriceSyncServicer interface {
	Refresh(ctx context.Context) (*RefreshResult, error)
	Run(ctx context.Context, interval time.Duration)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
