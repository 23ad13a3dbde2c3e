package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"finances/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "Password1!"

// CreateTestUser creates a user with a hashed password and unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithUsername(t, db, fmt.Sprintf("user%d", nextID()))
}

// CreateTestUserWithUsername creates a user with the given username.
func CreateTestUserWithUsername(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Password: string(hash),
		Type:     models.UserTypeUser,
	}
	if err := db.Omit("Config").Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestCurrency creates a system currency with the given code.
func CreateTestCurrency(t *testing.T, db *gorm.DB, code string) *models.Currency {
	t.Helper()

	currency := &models.Currency{Name: code, Code: code}
	if err := db.Create(currency).Error; err != nil {
		t.Fatalf("failed to create test currency: %v", err)
	}
	return currency
}

// CreateTestCustomCurrency creates a user-owned currency with a fixed rate.
func CreateTestCustomCurrency(t *testing.T, db *gorm.DB, userID, code string, rate string) *models.Currency {
	t.Helper()

	currency := &models.Currency{
		Name:               code,
		Code:               code,
		IsCustom:           true,
		RateToBaseCurrency: decimal.NewNullDecimal(decimal.RequireFromString(rate)),
		UserID:             &userID,
	}
	if err := db.Create(currency).Error; err != nil {
		t.Fatalf("failed to create test custom currency: %v", err)
	}
	return currency
}

// CreateTestPrice caches the price of quote in units per one base.
func CreateTestPrice(t *testing.T, db *gorm.DB, base, quote, price string) {
	t.Helper()

	p := &models.CurrencyPrice{BaseCode: base, QuoteCode: quote, Price: decimal.RequireFromString(price)}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create test price: %v", err)
	}
}

// SetTestBaseCurrency stores the user's base currency.
func SetTestBaseCurrency(t *testing.T, db *gorm.DB, userID, currencyID string) {
	t.Helper()

	cfg := &models.UserConfig{UserID: userID, BaseCurrencyID: &currencyID}
	if err := db.Omit("BaseCurrency", "BaseCryptoPortfolio").Save(cfg).Error; err != nil {
		t.Fatalf("failed to set test base currency: %v", err)
	}
}

// CreateTestAsset creates an asset with a zero balance.
func CreateTestAsset(t *testing.T, db *gorm.DB, userID string, currencyID *string) *models.Asset {
	t.Helper()
	return CreateTestAssetWithAmount(t, db, userID, currencyID, "0")
}

// CreateTestAssetWithAmount creates an asset with the given balance.
func CreateTestAssetWithAmount(t *testing.T, db *gorm.DB, userID string, currencyID *string, amount string) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		UserID:     userID,
		Title:      fmt.Sprintf("Test Asset %d", nextID()),
		CurrencyID: currencyID,
		Amount:     decimal.RequireFromString(amount),
	}
	if err := db.Omit("Currency").Create(asset).Error; err != nil {
		t.Fatalf("failed to create test asset: %v", err)
	}
	return asset
}

// CreateTestCategory creates a category of the given type.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType) *models.TransactionCategory {
	t.Helper()

	category := &models.TransactionCategory{
		UserID: userID,
		Title:  fmt.Sprintf("Test Category %d", nextID()),
		Type:   categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction inserts a transaction row without touching the asset balance.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, assetID, categoryID, amount string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:     userID,
		AssetID:    assetID,
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
	}
	if err := db.Omit("Asset", "Category").Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestCryptoCurrency creates a crypto currency with the given code.
func CreateTestCryptoCurrency(t *testing.T, db *gorm.DB, code string) *models.CryptoCurrency {
	t.Helper()

	currency := &models.CryptoCurrency{Name: code, Code: code}
	if err := db.Create(currency).Error; err != nil {
		t.Fatalf("failed to create test crypto currency: %v", err)
	}
	return currency
}

// CreateTestCryptoPortfolio creates a crypto portfolio.
func CreateTestCryptoPortfolio(t *testing.T, db *gorm.DB, userID string) *models.CryptoPortfolio {
	t.Helper()

	portfolio := &models.CryptoPortfolio{
		UserID: userID,
		Title:  fmt.Sprintf("Test Portfolio %d", nextID()),
	}
	if err := db.Create(portfolio).Error; err != nil {
		t.Fatalf("failed to create test crypto portfolio: %v", err)
	}
	return portfolio
}

// CreateTestCryptoAsset creates a crypto holding with the given amount.
func CreateTestCryptoAsset(t *testing.T, db *gorm.DB, userID, portfolioID, cryptoCurrencyID, amount string) *models.CryptoAsset {
	t.Helper()

	asset := &models.CryptoAsset{
		UserID:           userID,
		PortfolioID:      portfolioID,
		CryptoCurrencyID: cryptoCurrencyID,
		Amount:           decimal.RequireFromString(amount),
	}
	if err := db.Omit("CryptoCurrency").Create(asset).Error; err != nil {
		t.Fatalf("failed to create test crypto asset: %v", err)
	}
	return asset
}

// CreateTestCryptoTransaction inserts a crypto transaction row without
// touching the holding.
func CreateTestCryptoTransaction(t *testing.T, db *gorm.DB, asset *models.CryptoAsset, txType models.CryptoTransactionType, amount, price string, date time.Time) *models.CryptoTransaction {
	t.Helper()

	tx := &models.CryptoTransaction{
		UserID:        asset.UserID,
		PortfolioID:   asset.PortfolioID,
		CryptoAssetID: asset.ID,
		Type:          txType,
		Amount:        decimal.RequireFromString(amount),
		Price:         decimal.RequireFromString(price),
		Date:          date,
	}
	if err := db.Omit("CryptoAsset").Create(tx).Error; err != nil {
		t.Fatalf("failed to create test crypto transaction: %v", err)
	}
	return tx
}
