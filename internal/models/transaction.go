package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is an income or expense against an asset. Amount is always
// positive; the category type decides the sign applied to the asset.
type Transaction struct {
	Base
	UserID     string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AssetID    string          `gorm:"type:uuid;not null;index" json:"asset_id"`
	CategoryID string          `gorm:"type:uuid;not null;index" json:"category_id"`
	Amount     decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"amount"`
	Date       time.Time       `gorm:"not null;index" json:"date"`

	Asset    *Asset               `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	Category *TransactionCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// SignedAmount is the effect of the transaction on its asset.
func (t *Transaction) SignedAmount(categoryType CategoryType) decimal.Decimal {
	if categoryType == CategoryTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
