package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CryptoTransactionType is BUY or SELL.
type CryptoTransactionType string

const (
	CryptoTransactionBuy  CryptoTransactionType = "BUY"
	CryptoTransactionSell CryptoTransactionType = "SELL"
)

// CryptoPortfolio is a named group of crypto holdings.
type CryptoPortfolio struct {
	Base
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_crypto_portfolios_user_title" json:"user_id"`
	Title  string `gorm:"not null;uniqueIndex:idx_crypto_portfolios_user_title" json:"title"`
}

// CryptoCurrency is reference data; it is always valued at market price.
type CryptoCurrency struct {
	Base
	Name string `gorm:"not null" json:"name"`
	Code string `gorm:"size:10;not null;uniqueIndex" json:"code"`
}

// CryptoAsset is the holding of one crypto currency inside one portfolio.
type CryptoAsset struct {
	Base
	UserID           string          `gorm:"type:uuid;not null;uniqueIndex:idx_crypto_assets_owner_currency" json:"user_id"`
	PortfolioID      string          `gorm:"type:uuid;not null;uniqueIndex:idx_crypto_assets_owner_currency" json:"portfolio_id"`
	CryptoCurrencyID string          `gorm:"type:uuid;not null;uniqueIndex:idx_crypto_assets_owner_currency" json:"crypto_currency_id"`
	Amount           decimal.Decimal `gorm:"type:numeric(28,10);not null;default:0" json:"amount"`

	CryptoCurrency *CryptoCurrency `gorm:"foreignKey:CryptoCurrencyID" json:"crypto_currency,omitempty"`
}

// CryptoTransaction is a BUY or SELL of Amount units at Price (fiat per unit).
type CryptoTransaction struct {
	Base
	UserID        string                `gorm:"type:uuid;not null;index" json:"user_id"`
	PortfolioID   string                `gorm:"type:uuid;not null;index" json:"portfolio_id"`
	CryptoAssetID string                `gorm:"type:uuid;not null;index" json:"crypto_asset_id"`
	Type          CryptoTransactionType `gorm:"not null" json:"type"`
	Amount        decimal.Decimal       `gorm:"type:numeric(28,10);not null" json:"amount"`
	Price         decimal.Decimal       `gorm:"type:numeric(20,8);not null" json:"price"`
	Date          time.Time             `gorm:"not null" json:"date"`

	CryptoAsset *CryptoAsset `gorm:"foreignKey:CryptoAssetID" json:"crypto_asset,omitempty"`
}

// SignedAmount is the effect of the transaction on its crypto asset.
func (t *CryptoTransaction) SignedAmount() decimal.Decimal {
	return SignedCryptoAmount(t.Type, t.Amount)
}

// SignedCryptoAmount returns +amount for BUY and -amount for SELL.
func SignedCryptoAmount(txType CryptoTransactionType, amount decimal.Decimal) decimal.Decimal {
	if txType == CryptoTransactionSell {
		return amount.Neg()
	}
	return amount
}
