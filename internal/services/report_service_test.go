package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finances/internal/config"
	"finances/internal/models"
	"finances/internal/repository"
	"finances/internal/testutil"
)

func TestTotalAssets(t *testing.T) {
	ctx := context.Background()

	t.Run("custom_rate_conversion", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(repository.New(db), newTestResolver(nil, config.MissingPriceDefaultOne), "USD")
		user := testutil.CreateTestUser(t, db)
		usd := testutil.CreateTestCurrency(t, db, "USD")
		testutil.SetTestBaseCurrency(t, db, user.ID, usd.ID)
		xau := testutil.CreateTestCustomCurrency(t, db, user.ID, "XAU", "0.0005")
		testutil.CreateTestAssetWithAmount(t, db, user.ID, &xau.ID, "10")

		total, err := svc.TotalAssets(ctx, user.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "20000", total)
	})

	t.Run("custom_rate_beats_cached_price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(repository.New(db), newTestResolver(nil, config.MissingPriceDefaultOne), "USD")
		user := testutil.CreateTestUser(t, db)
		usd := testutil.CreateTestCurrency(t, db, "USD")
		testutil.SetTestBaseCurrency(t, db, user.ID, usd.ID)
		xau := testutil.CreateTestCustomCurrency(t, db, user.ID, "XAU", "0.0005")
		testutil.CreateTestPrice(t, db, "USD", "XAU", "0.001")
		testutil.CreateTestAssetWithAmount(t, db, user.ID, &xau.ID, "1")

		total, err := svc.TotalAssets(ctx, user.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "2000", total)
	})

	t.Run("mixed_currencies", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(repository.New(db), newTestResolver(nil, config.MissingPriceDefaultOne), "USD")
		user := testutil.CreateTestUser(t, db)
		usd := testutil.CreateTestCurrency(t, db, "USD")
		eur := testutil.CreateTestCurrency(t, db, "EUR")
		testutil.SetTestBaseCurrency(t, db, user.ID, usd.ID)
		testutil.CreateTestPrice(t, db, "USD", "EUR", "2")
		testutil.CreateTestAssetWithAmount(t, db, user.ID, &usd.ID, "100.50")
		testutil.CreateTestAssetWithAmount(t, db, user.ID, &eur.ID, "50")
		testutil.CreateTestAssetWithAmount(t, db, user.ID, nil, "999")

		total, err := svc.TotalAssets(ctx, user.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "125.5", total)
	})

	t.Run("rounds_to_cents", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(repository.New(db), newTestResolver(nil, config.MissingPriceDefaultOne), "USD")
		user := testutil.CreateTestUser(t, db)
		usd := testutil.CreateTestCurrency(t, db, "USD")
		eur := testutil.CreateTestCurrency(t, db, "EUR")
		testutil.SetTestBaseCurrency(t, db, user.ID, usd.ID)
		testutil.CreateTestPrice(t, db, "USD", "EUR", "3")
		testutil.CreateTestAssetWithAmount(t, db, user.ID, &eur.ID, "10")

		total, err := svc.TotalAssets(ctx, user.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "3.33", total)
	})

	t.Run("missing_price_default_one", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(repository.New(db), newTestResolver(nil, config.MissingPriceDefaultOne), "USD")
		user := testutil.CreateTestUser(t, db)
		gbp := testutil.CreateTestCurrency(t, db, "GBP")
		testutil.CreateTestAssetWithAmount(t, db, user.ID, &gbp.ID, "42")

		total, err := svc.TotalAssets(ctx, user.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "42", total)
	})

	t.Run("missing_price_fail", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(repository.New(db), newTestResolver(nil, config.MissingPriceFail), "USD")
		user := testutil.CreateTestUser(t, db)
		gbp := testutil.CreateTestCurrency(t, db, "GBP")
		testutil.CreateTestAssetWithAmount(t, db, user.ID, &gbp.ID, "42")

		_, err := svc.TotalAssets(ctx, user.ID)
		testutil.AssertAppError(t, err, "CANT_GET_PRICE")
	})

	t.Run("no_assets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewReportService(repository.New(db), newTestResolver(nil, config.MissingPriceFail), "USD")
		user := testutil.CreateTestUser(t, db)

		total, err := svc.TotalAssets(ctx, user.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "0", total)
	})
}

func TestTotalByPeriod(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(repository.New(db), newTestResolver(nil, config.MissingPriceDefaultOne), "USD")
	user := testutil.CreateTestUser(t, db)
	usd := testutil.CreateTestCurrency(t, db, "USD")
	eur := testutil.CreateTestCurrency(t, db, "EUR")
	testutil.SetTestBaseCurrency(t, db, user.ID, usd.ID)
	testutil.CreateTestPrice(t, db, "USD", "EUR", "2")

	usdAsset := testutil.CreateTestAsset(t, db, user.ID, &usd.ID)
	eurAsset := testutil.CreateTestAsset(t, db, user.ID, &eur.ID)
	salary := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)
	food := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

	testutil.CreateTestTransaction(t, db, user.ID, usdAsset.ID, salary.ID, "30", day(2024, 5, 1))
	testutil.CreateTestTransaction(t, db, user.ID, eurAsset.ID, salary.ID, "20", day(2024, 5, 31))
	testutil.CreateTestTransaction(t, db, user.ID, usdAsset.ID, food.ID, "7", day(2024, 5, 15))
	testutil.CreateTestTransaction(t, db, user.ID, usdAsset.ID, salary.ID, "1000", day(2024, 6, 1))

	// An asset without a currency cannot be converted and stays out of every total.
	cash := testutil.CreateTestAsset(t, db, user.ID, nil)
	testutil.CreateTestTransaction(t, db, user.ID, cash.ID, salary.ID, "500", day(2024, 5, 10))

	t.Run("income_in_base_currency", func(t *testing.T) {
		total, err := svc.TotalByPeriod(ctx, user.ID, PeriodQuery{Start: day(2024, 5, 1), End: day(2024, 5, 31), Type: models.CategoryTypeIncome})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "40", total)
	})

	t.Run("expense", func(t *testing.T) {
		total, err := svc.TotalByPeriod(ctx, user.ID, PeriodQuery{Start: day(2024, 5, 1), End: day(2024, 5, 31), Type: models.CategoryTypeExpense})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "7", total)
	})

	t.Run("single_asset", func(t *testing.T) {
		total, err := svc.TotalByPeriod(ctx, user.ID, PeriodQuery{
			Start:   day(2024, 5, 1),
			End:     day(2024, 6, 30),
			Type:    models.CategoryTypeIncome,
			AssetID: &usdAsset.ID,
		})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "1030", total)
	})

	t.Run("asset_without_currency_excluded_under_fail_policy", func(t *testing.T) {
		strict := NewReportService(repository.New(db), newTestResolver(nil, config.MissingPriceFail), "USD")
		total, err := strict.TotalByPeriod(ctx, user.ID, PeriodQuery{Start: day(2024, 5, 1), End: day(2024, 5, 31), Type: models.CategoryTypeIncome})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "40", total)

		onlyCash, err := strict.TotalByPeriod(ctx, user.ID, PeriodQuery{
			Start:   day(2024, 5, 1),
			End:     day(2024, 5, 31),
			Type:    models.CategoryTypeIncome,
			AssetID: &cash.ID,
		})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "0", onlyCash)
	})

	t.Run("empty_period", func(t *testing.T) {
		total, err := svc.TotalByPeriod(ctx, user.ID, PeriodQuery{Start: day(2023, 1, 1), End: day(2023, 1, 31), Type: models.CategoryTypeIncome})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "0", total)
	})

	t.Run("other_user_sees_nothing", func(t *testing.T) {
		other := testutil.CreateTestUser(t, db)
		total, err := svc.TotalByPeriod(ctx, other.ID, PeriodQuery{Start: day(2024, 1, 1), End: day(2024, 12, 31), Type: models.CategoryTypeIncome})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "0", total)
	})
}

func TestTotalCategoriesByPeriod(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(repository.New(db), newTestResolver(nil, config.MissingPriceDefaultOne), "USD")
	user := testutil.CreateTestUser(t, db)
	usd := testutil.CreateTestCurrency(t, db, "USD")
	eur := testutil.CreateTestCurrency(t, db, "EUR")
	testutil.SetTestBaseCurrency(t, db, user.ID, usd.ID)
	testutil.CreateTestPrice(t, db, "USD", "EUR", "2")

	usdAsset := testutil.CreateTestAsset(t, db, user.ID, &usd.ID)
	eurAsset := testutil.CreateTestAsset(t, db, user.ID, &eur.ID)
	food := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	rent := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

	testutil.CreateTestTransaction(t, db, user.ID, usdAsset.ID, food.ID, "10", day(2024, 5, 1))
	testutil.CreateTestTransaction(t, db, user.ID, eurAsset.ID, food.ID, "10", day(2024, 5, 2))
	testutil.CreateTestTransaction(t, db, user.ID, usdAsset.ID, rent.ID, "500", day(2024, 5, 3))

	cash := testutil.CreateTestAsset(t, db, user.ID, nil)
	gifts := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)
	testutil.CreateTestTransaction(t, db, user.ID, cash.ID, food.ID, "1000", day(2024, 5, 4))
	testutil.CreateTestTransaction(t, db, user.ID, cash.ID, gifts.ID, "70", day(2024, 5, 5))

	totals, err := svc.TotalCategoriesByPeriod(ctx, user.ID, PeriodQuery{Start: day(2024, 5, 1), End: day(2024, 5, 31), Type: models.CategoryTypeExpense})
	testutil.AssertNoError(t, err)

	if len(totals) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(totals))
	}
	if totals[0].CategoryID != rent.ID {
		t.Errorf("expected largest category first, got %s", totals[0].CategoryTitle)
	}
	testutil.AssertDecimal(t, "500", totals[0].Total)
	testutil.AssertDecimal(t, "15", totals[1].Total)
	if totals[1].CategoryTitle != food.Title {
		t.Errorf("expected title %q, got %q", food.Title, totals[1].CategoryTitle)
	}

	t.Run("empty_is_not_nil", func(t *testing.T) {
		totals, err := svc.TotalCategoriesByPeriod(ctx, user.ID, PeriodQuery{Start: day(2020, 1, 1), End: day(2020, 1, 2)})
		testutil.AssertNoError(t, err)
		if totals == nil || len(totals) != 0 {
			t.Errorf("expected empty slice, got %v", totals)
		}
	})
}

func TestTransactionsGroupedByDay(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(repository.New(db), newTestResolver(nil, config.MissingPriceDefaultOne), "USD")
	user := testutil.CreateTestUser(t, db)
	asset := testutil.CreateTestAsset(t, db, user.ID, nil)
	income := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)
	expense := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

	testutil.CreateTestTransaction(t, db, user.ID, asset.ID, income.ID, "100", day(2024, 7, 1))
	testutil.CreateTestTransaction(t, db, user.ID, asset.ID, expense.ID, "15", day(2024, 7, 1))
	testutil.CreateTestTransaction(t, db, user.ID, asset.ID, expense.ID, "5", day(2024, 7, 3))

	days, err := svc.TransactionsGroupedByDay(ctx, user.ID, PeriodQuery{Start: day(2024, 7, 1), End: day(2024, 7, 31)})
	testutil.AssertNoError(t, err)

	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Date != "2024-07-03" || days[1].Date != "2024-07-01" {
		t.Errorf("expected newest day first, got %s then %s", days[0].Date, days[1].Date)
	}
	if len(days[1].Transactions) != 2 {
		t.Errorf("expected 2 transactions on 2024-07-01, got %d", len(days[1].Transactions))
	}
	testutil.AssertDecimal(t, "100", days[1].Income)
	testutil.AssertDecimal(t, "15", days[1].Expense)
	testutil.AssertDecimal(t, "0", days[0].Income)
	testutil.AssertDecimal(t, "5", days[0].Expense)
}

func TestGroupByDay_UsesPeriodLocation(t *testing.T) {
	income := &models.TransactionCategory{Type: models.CategoryTypeIncome}
	expense := &models.TransactionCategory{Type: models.CategoryTypeExpense}
	// 23:30 UTC on July 4th is already July 5th two hours east.
	late := models.Transaction{Amount: decimal.NewFromInt(10), Date: time.Date(2024, 7, 4, 23, 30, 0, 0, time.UTC), Category: income}
	early := models.Transaction{Amount: decimal.NewFromInt(3), Date: time.Date(2024, 7, 5, 8, 0, 0, 0, time.UTC), Category: expense}
	txs := []models.Transaction{late, early}

	t.Run("utc", func(t *testing.T) {
		days := groupByDay(txs, time.UTC)
		if len(days) != 2 || days[0].Date != "2024-07-05" || days[1].Date != "2024-07-04" {
			t.Fatalf("unexpected buckets: %+v", days)
		}
		testutil.AssertDecimal(t, "10", days[1].Income)
		testutil.AssertDecimal(t, "3", days[0].Expense)
	})

	t.Run("east_of_utc", func(t *testing.T) {
		days := groupByDay(txs, time.FixedZone("UTC+2", 2*60*60))
		if len(days) != 1 || days[0].Date != "2024-07-05" {
			t.Fatalf("expected a single 2024-07-05 bucket, got %+v", days)
		}
		testutil.AssertDecimal(t, "10", days[0].Income)
		testutil.AssertDecimal(t, "3", days[0].Expense)
	})

	t.Run("empty", func(t *testing.T) {
		if days := groupByDay(nil, time.UTC); days == nil || len(days) != 0 {
			t.Errorf("expected empty slice, got %v", days)
		}
	})
}

func TestTotalsByAsset(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(repository.New(db), newTestResolver(nil, config.MissingPriceDefaultOne), "USD")
	user := testutil.CreateTestUser(t, db)
	asset := testutil.CreateTestAsset(t, db, user.ID, nil)
	other := testutil.CreateTestAsset(t, db, user.ID, nil)
	income := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeIncome)
	expense := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeExpense)

	testutil.CreateTestTransaction(t, db, user.ID, asset.ID, income.ID, "80", day(2024, 8, 1))
	testutil.CreateTestTransaction(t, db, user.ID, asset.ID, income.ID, "20", day(2024, 8, 2))
	testutil.CreateTestTransaction(t, db, user.ID, asset.ID, expense.ID, "30", day(2024, 8, 3))
	testutil.CreateTestTransaction(t, db, user.ID, other.ID, expense.ID, "99", day(2024, 8, 3))

	t.Run("sums", func(t *testing.T) {
		totals, err := svc.TotalsByAsset(ctx, user.ID, asset.ID, day(2024, 8, 1), day(2024, 8, 31))
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "100", totals.Income)
		testutil.AssertDecimal(t, "30", totals.Expense)
	})

	t.Run("foreign_asset", func(t *testing.T) {
		stranger := testutil.CreateTestUser(t, db)
		_, err := svc.TotalsByAsset(ctx, stranger.ID, asset.ID, day(2024, 8, 1), day(2024, 8, 31))
		testutil.AssertAppError(t, err, "ASSET_NOT_FOUND")
	})
}
