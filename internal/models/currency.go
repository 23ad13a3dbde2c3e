package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is either a system currency valued through the price cache, or a
// user-defined custom currency with a fixed rate. A custom currency's rate is
// the number of its units per one unit of the owner's base currency, so an
// amount converts to base as amount / rate.
type Currency struct {
	Base
	Name               string              `gorm:"not null" json:"name"`
	Code               string              `gorm:"size:5;not null;index" json:"code"`
	IsCustom           bool                `gorm:"not null;default:false" json:"is_custom"`
	RateToBaseCurrency decimal.NullDecimal `gorm:"type:numeric(20,8)" json:"rate_to_base_currency"`
	UserID             *string             `gorm:"type:uuid;index" json:"user_id,omitempty"`
}

// Rate returns the custom rate, or false when the currency has none.
func (c *Currency) Rate() (decimal.Decimal, bool) {
	if c == nil || !c.IsCustom || !c.RateToBaseCurrency.Valid {
		return decimal.Decimal{}, false
	}
	return c.RateToBaseCurrency.Decimal, true
}

// CurrencyPrice caches how many units of QuoteCode one unit of BaseCode buys.
type CurrencyPrice struct {
	BaseCode  string          `gorm:"size:5;primaryKey" json:"base_code"`
	QuoteCode string          `gorm:"size:5;primaryKey" json:"quote_code"`
	Price     decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"price"`
	UpdatedAt time.Time       `json:"updated_at"`
}
