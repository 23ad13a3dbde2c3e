package models

// UserType distinguishes regular users from administrators.
type UserType string

const (
	UserTypeUser  UserType = "user"
	UserTypeAdmin UserType = "admin"
)

// User represents an account holder.
type User struct {
	Base
	Username string   `gorm:"uniqueIndex;not null" json:"username"`
	Password string   `gorm:"not null" json:"-"`
	Type     UserType `gorm:"not null;default:user" json:"type"`

	Config *UserConfig `gorm:"foreignKey:UserID" json:"config,omitempty"`
}

// UserConfig holds the per-user reporting settings consulted by totals.
type UserConfig struct {
	UserID                string  `gorm:"type:uuid;primaryKey" json:"user_id"`
	BaseCurrencyID        *string `gorm:"type:uuid" json:"base_currency_id"`
	BaseCryptoPortfolioID *string `gorm:"type:uuid" json:"base_crypto_portfolio_id"`

	BaseCurrency        *Currency        `gorm:"foreignKey:BaseCurrencyID" json:"base_currency,omitempty"`
	BaseCryptoPortfolio *CryptoPortfolio `gorm:"foreignKey:BaseCryptoPortfolioID" json:"base_crypto_portfolio,omitempty"`
}
