package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finances/internal/models"
	"finances/internal/pricing"
	"finances/internal/repository"
)

// reportService converts balances and transaction sums into the user's
// base currency.
type reportService struct {
	store        *repository.Store
	resolver     *pricing.Resolver
	fallbackBase string
}

// NewReportService creates a new ReportServicer. fallbackBase is the base
// currency code for users who have not chosen one.
func NewReportService(store *repository.Store, resolver *pricing.Resolver, fallbackBase string) ReportServicer {
	return &reportService{store: store, resolver: resolver, fallbackBase: strings.ToUpper(fallbackBase)}
}

func (s *reportService) baseCode(ctx context.Context, tx *repository.Store, userID string) (string, error) {
	cfg, err := tx.Users.GetConfig(ctx, userID)
	if err != nil {
		return "", err
	}
	if cfg.BaseCurrency != nil {
		return strings.ToUpper(cfg.BaseCurrency.Code), nil
	}
	return s.fallbackBase, nil
}

// marketCodes returns the codes that need a market price, skipping custom
// currencies that carry their own rate.
func marketCodes(totals []repository.CurrencyTotal) []string {
	codes := make([]string, 0, len(totals))
	for _, t := range totals {
		if t.Code == "" || (t.IsCustom && t.Rate.Valid) {
			continue
		}
		codes = append(codes, t.Code)
	}
	return codes
}

// rateFor picks the custom rate, then the market price, then 1.
func rateFor(t repository.CurrencyTotal, prices map[string]decimal.Decimal) decimal.Decimal {
	if t.IsCustom && t.Rate.Valid {
		return t.Rate.Decimal
	}
	if price, ok := prices[strings.ToUpper(t.Code)]; ok {
		return price
	}
	return decimal.NewFromInt(1)
}

// toBase converts an amount with a units-per-base rate.
func toBase(amount, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() {
		return amount
	}
	return amount.Div(rate)
}

func (q PeriodQuery) filter() repository.PeriodFilter {
	f := repository.PeriodFilter{Start: q.Start, End: q.End, AssetID: q.AssetID}
	if q.Type != "" {
		categoryType := q.Type
		f.Type = &categoryType
	}
	return f
}

// TotalAssets sums every asset balance in the user's base currency, rounded to cents.
func (s *reportService) TotalAssets(ctx context.Context, userID string) (decimal.Decimal, error) {
	total := decimal.Zero
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		base, err := s.baseCode(ctx, tx, userID)
		if err != nil {
			return err
		}
		assets, err := tx.Assets.List(ctx, userID)
		if err != nil {
			return err
		}

		// Assets without a currency cannot be valued and are left out.
		totals := make([]repository.CurrencyTotal, 0, len(assets))
		for _, a := range assets {
			if a.Currency == nil {
				continue
			}
			totals = append(totals, repository.CurrencyTotal{
				Code:     a.Currency.Code,
				IsCustom: a.Currency.IsCustom,
				Rate:     a.Currency.RateToBaseCurrency,
				Total:    a.Amount,
			})
		}

		prices, err := s.resolver.ResolveFiat(ctx, tx.Prices, base, marketCodes(totals))
		if err != nil {
			return err
		}
		for _, t := range totals {
			total = total.Add(toBase(t.Total, rateFor(t, prices)))
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return total.Round(2), nil
}

// TotalByPeriod sums the period's transactions of one category type in the
// user's base currency, rounded to cents.
func (s *reportService) TotalByPeriod(ctx context.Context, userID string, query PeriodQuery) (decimal.Decimal, error) {
	total := decimal.Zero
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		base, err := s.baseCode(ctx, tx, userID)
		if err != nil {
			return err
		}
		rows, err := tx.Transactions.SumByCurrency(ctx, userID, query.filter())
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		prices, err := s.resolver.ResolveFiat(ctx, tx.Prices, base, marketCodes(rows))
		if err != nil {
			return err
		}
		for _, row := range rows {
			total = total.Add(toBase(row.Total, rateFor(row, prices)))
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return total.Round(2), nil
}

// TotalCategoriesByPeriod converts the period's totals per category, largest first.
func (s *reportService) TotalCategoriesByPeriod(ctx context.Context, userID string, query PeriodQuery) ([]CategoryTotal, error) {
	var result []CategoryTotal
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		base, err := s.baseCode(ctx, tx, userID)
		if err != nil {
			return err
		}
		rows, err := tx.Transactions.SumByCategoryAndCurrency(ctx, userID, query.filter())
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		currencyRows := make([]repository.CurrencyTotal, len(rows))
		for i := range rows {
			currencyRows[i] = rows[i].CurrencyTotal
		}
		prices, err := s.resolver.ResolveFiat(ctx, tx.Prices, base, marketCodes(currencyRows))
		if err != nil {
			return err
		}

		index := make(map[string]int)
		for _, row := range rows {
			converted := toBase(row.Total, rateFor(row.CurrencyTotal, prices))
			if i, ok := index[row.CategoryID]; ok {
				result[i].Total = result[i].Total.Add(converted)
				continue
			}
			index[row.CategoryID] = len(result)
			result = append(result, CategoryTotal{
				CategoryID:    row.CategoryID,
				CategoryTitle: row.CategoryTitle,
				Total:         converted,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range result {
		result[i].Total = result[i].Total.Round(2)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Total.GreaterThan(result[j].Total)
	})
	if result == nil {
		result = []CategoryTotal{}
	}
	return result, nil
}

// TransactionsGroupedByDay lists the period's transactions per day, newest
// day first, with unconverted income and expense subtotals.
func (s *reportService) TransactionsGroupedByDay(ctx context.Context, userID string, query PeriodQuery) ([]DayTransactions, error) {
	txs, err := s.store.Transactions.ListInPeriod(ctx, userID, query.filter())
	if err != nil {
		return nil, err
	}
	return groupByDay(txs, query.Start.Location()), nil
}

// groupByDay buckets transactions by calendar day in loc, the location the
// period bounds were drawn in, so a row lands on the day the filter counted
// it for whatever zone the driver returned it in.
func groupByDay(txs []models.Transaction, loc *time.Location) []DayTransactions {
	days := []DayTransactions{}
	index := make(map[string]int)
	for _, t := range txs {
		key := t.Date.In(loc).Format(time.DateOnly)
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, DayTransactions{Date: key, Income: decimal.Zero, Expense: decimal.Zero})
		}
		day := &days[i]
		day.Transactions = append(day.Transactions, t)
		if t.Category != nil && t.Category.Type == models.CategoryTypeExpense {
			day.Expense = day.Expense.Add(t.Amount)
		} else {
			day.Income = day.Income.Add(t.Amount)
		}
	}

	sort.SliceStable(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	return days
}

// TotalsByAsset returns one asset's raw income and expense sums for the period.
func (s *reportService) TotalsByAsset(ctx context.Context, userID, assetID string, start, end time.Time) (*AssetTotals, error) {
	result := &AssetTotals{Income: decimal.Zero, Expense: decimal.Zero}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if _, err := tx.Assets.Get(ctx, userID, assetID); err != nil {
			return err
		}
		sums, err := tx.Transactions.SumByCategoryType(ctx, userID, repository.PeriodFilter{
			Start:   start,
			End:     end,
			AssetID: &assetID,
		})
		if err != nil {
			return err
		}
		if income, ok := sums[models.CategoryTypeIncome]; ok {
			result.Income = income
		}
		if expense, ok := sums[models.CategoryTypeExpense]; ok {
			result.Expense = expense
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
