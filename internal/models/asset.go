package models

import "github.com/shopspring/decimal"

// Asset is a cash holding. Amount is the running balance of its
// transactions: income adds, expense subtracts.
type Asset struct {
	Base
	UserID     string          `gorm:"type:uuid;not null;uniqueIndex:idx_assets_user_title" json:"user_id"`
	Title      string          `gorm:"not null;uniqueIndex:idx_assets_user_title" json:"title"`
	CurrencyID *string         `gorm:"type:uuid" json:"currency_id"`
	Amount     decimal.Decimal `gorm:"type:numeric(20,8);not null;default:0" json:"amount"`

	Currency *Currency `gorm:"foreignKey:CurrencyID" json:"currency,omitempty"`
}
