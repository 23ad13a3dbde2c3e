package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "finances/internal/errors"
	"finances/internal/models"
	"finances/internal/pagination"
)

type transactionRepository struct {
	db *gorm.DB
}

// withRelations preloads the asset with its currency and the category,
// including soft-deleted ones so history stays readable.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Asset", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Asset.Currency").
		Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}

func (r *transactionRepository) Get(ctx context.Context, userID, id string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).Scopes(withRelations).
		Where("id = ? AND user_id = ?", id, userID).
		First(&tx).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrTransactionNotFound, nil, nil)
	}
	return &tx, nil
}

func (r *transactionRepository) GetForUpdate(ctx context.Context, userID, id string) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.WithContext(ctx).Scopes(withRelations).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&tx).Error
	if err != nil {
		return nil, translate(err, apperrors.ErrTransactionNotFound, nil, nil)
	}
	return &tx, nil
}

func (r *transactionRepository) Page(ctx context.Context, userID string, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	query := r.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	if filter.AssetID != nil {
		query = query.Where("asset_id = ?", *filter.AssetID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	resp, err := pagination.Fetch[models.Transaction](query.Order("date DESC, id DESC"), page, withRelations)
	if err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return resp, nil
}

// inPeriod filters transactions joined with their category and asset.
func inPeriod(db *gorm.DB, userID string, filter PeriodFilter) *gorm.DB {
	from, to := dayBounds(filter.Start, filter.End)
	db = db.
		Joins("JOIN transaction_categories ON transaction_categories.id = transactions.category_id").
		Joins("JOIN assets ON assets.id = transactions.asset_id").
		Where("transactions.user_id = ?", userID).
		Where("transactions.date >= ? AND transactions.date < ?", from, to)
	if filter.Type != nil {
		db = db.Where("transaction_categories.type = ?", *filter.Type)
	}
	if filter.AssetID != nil {
		db = db.Where("transactions.asset_id = ?", *filter.AssetID)
	}
	return db
}

func (r *transactionRepository) ListInPeriod(ctx context.Context, userID string, filter PeriodFilter) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := inPeriod(r.db.WithContext(ctx).Model(&models.Transaction{}), userID, filter).
		Scopes(withRelations).
		Order("transactions.date DESC, transactions.id DESC").
		Find(&txs).Error
	if err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return txs, nil
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(tx).Error
	return translate(err, nil, nil, nil)
}

func (r *transactionRepository) Update(ctx context.Context, tx *models.Transaction) error {
	result := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND user_id = ?", tx.ID, tx.UserID).
		Updates(map[string]any{
			"asset_id":    tx.AssetID,
			"category_id": tx.CategoryID,
			"amount":      tx.Amount,
			"date":        tx.Date,
		})
	return affected(result, apperrors.ErrTransactionNotFound, nil)
}

func (r *transactionRepository) Delete(ctx context.Context, userID, id string) error {
	result := r.db.WithContext(ctx).Unscoped().
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Transaction{})
	return affected(result, apperrors.ErrTransactionNotFound, apperrors.ErrTransactionCantBeDeleted)
}

// Assets without a currency cannot be converted and are left out of the sums.
const currencyTotalColumns = "currencies.code AS code, " +
	"currencies.is_custom AS is_custom, " +
	"currencies.rate_to_base_currency AS rate, " +
	"SUM(transactions.amount) AS total"

func (r *transactionRepository) SumByCurrency(ctx context.Context, userID string, filter PeriodFilter) ([]CurrencyTotal, error) {
	var rows []CurrencyTotal
	err := inPeriod(r.db.WithContext(ctx).Table("transactions"), userID, filter).
		Joins("JOIN currencies ON currencies.id = assets.currency_id").
		Select(currencyTotalColumns).
		Group("currencies.id, currencies.code, currencies.is_custom, currencies.rate_to_base_currency").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return rows, nil
}

func (r *transactionRepository) SumByCategoryAndCurrency(ctx context.Context, userID string, filter PeriodFilter) ([]CategoryCurrencyTotal, error) {
	var rows []CategoryCurrencyTotal
	err := inPeriod(r.db.WithContext(ctx).Table("transactions"), userID, filter).
		Joins("JOIN currencies ON currencies.id = assets.currency_id").
		Select("transaction_categories.id AS category_id, transaction_categories.title AS category_title, " + currencyTotalColumns).
		Group("transaction_categories.id, transaction_categories.title, " +
			"currencies.id, currencies.code, currencies.is_custom, currencies.rate_to_base_currency").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, nil, nil, nil)
	}
	return rows, nil
}

func (r *transactionRepository) SumByCategoryType(ctx context.Context, userID string, filter PeriodFilter) (map[models.CategoryType]decimal.Decimal, error) {
	var rows []struct {
		Type  models.CategoryType
		Total decimal.Decimal
	}
	err := inPeriod(r.db.WithContext(ctx).Table("transactions"), userID, filter).
		Select("transaction_categories.type AS type, SUM(transactions.amount) AS total").
		Group("transaction_categories.type").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, nil, nil, nil)
	}

	totals := make(map[models.CategoryType]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.Type] = row.Total
	}
	return totals, nil
}
