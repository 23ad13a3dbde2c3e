// Package repository implements owner-scoped persistence for every entity on
// top of GORM and composes the per-entity repositories into one Store.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "finances/internal/errors"
)

// Store is the facade handed to services. A Store bound to a database
// transaction is obtained through Transaction.
type Store struct {
	db *gorm.DB

	Assets             AssetRepository
	Currencies         CurrencyRepository
	Prices             CurrencyPriceRepository
	Categories         CategoryRepository
	Transactions       TransactionRepository
	CryptoCurrencies   CryptoCurrencyRepository
	CryptoPortfolios   CryptoPortfolioRepository
	CryptoAssets       CryptoAssetRepository
	CryptoTransactions CryptoTransactionRepository
	Users              UserRepository
	Audit              AuditRepository
}

// New builds a Store backed by db.
func New(db *gorm.DB) *Store {
	return &Store{
		db:                 db,
		Assets:             &assetRepository{db: db},
		Currencies:         &currencyRepository{db: db},
		Prices:             &currencyPriceRepository{db: db},
		Categories:         &categoryRepository{db: db},
		Transactions:       &transactionRepository{db: db},
		CryptoCurrencies:   &cryptoCurrencyRepository{db: db},
		CryptoPortfolios:   &cryptoPortfolioRepository{db: db},
		CryptoAssets:       &cryptoAssetRepository{db: db},
		CryptoTransactions: &cryptoTransactionRepository{db: db},
		Users:              &userRepository{db: db},
		Audit:              &auditRepository{db: db},
	}
}

// Transaction runs fn with a Store bound to a single database transaction.
// Returning an error from fn rolls everything back and returns that error unchanged.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// translate maps a storage error onto the entity's typed errors.
// exists and blocked may be nil when the operation cannot produce them.
func translate(err error, notFound, exists, blocked *apperrors.AppError) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil:
		return notFound
	case exists != nil && isUniqueConstraintError(err):
		return apperrors.Wrap(exists, err)
	case blocked != nil && isForeignKeyError(err):
		return apperrors.Wrap(blocked, err)
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

// affected turns a zero-row write into the entity's NotFound error.
func affected(result *gorm.DB, notFound, blocked *apperrors.AppError) error {
	if result.Error != nil {
		return translate(result.Error, notFound, nil, blocked)
	}
	if result.RowsAffected == 0 {
		return notFound
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // SQLite
		strings.Contains(msg, "duplicate key value violates unique constraint") // PostgreSQL
}

func isForeignKeyError(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") || // SQLite
		strings.Contains(msg, "violates foreign key constraint") // PostgreSQL
}

// dayBounds returns the half-open range [start day 00:00, day after end 00:00)
// so that both boundary dates are included whatever their time of day.
func dayBounds(start, end time.Time) (time.Time, time.Time) {
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1)
	return from, to
}
