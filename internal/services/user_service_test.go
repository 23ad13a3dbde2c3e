package services

import (
	"context"
	"testing"

	"finances/internal/repository"
	"finances/internal/testutil"
)

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("success_with_default_base", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(repository.New(db), "usd")
		usd := testutil.CreateTestCurrency(t, db, "USD")

		user, err := svc.Signup(ctx, "Alice_1", "Secret1!")
		testutil.AssertNoError(t, err)
		if user.Username != "alice_1" {
			t.Errorf("expected lower-cased username, got %q", user.Username)
		}
		if user.Password == "Secret1!" {
			t.Error("expected password to be hashed")
		}

		cfg, err := svc.GetConfig(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if cfg.BaseCurrencyID == nil || *cfg.BaseCurrencyID != usd.ID {
			t.Errorf("expected base currency %s, got %v", usd.ID, cfg.BaseCurrencyID)
		}
	})

	t.Run("no_default_currency_seeded", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(repository.New(db), "USD")

		user, err := svc.Signup(ctx, "bob", "Secret1!")
		testutil.AssertNoError(t, err)

		cfg, err := svc.GetConfig(ctx, user.ID)
		testutil.AssertNoError(t, err)
		if cfg.BaseCurrencyID != nil {
			t.Errorf("expected no base currency, got %s", *cfg.BaseCurrencyID)
		}
	})

	t.Run("duplicate_username", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(repository.New(db), "USD")

		_, err := svc.Signup(ctx, "carol", "Secret1!")
		testutil.AssertNoError(t, err)
		_, err = svc.Signup(ctx, "CAROL", "Secret1!")
		testutil.AssertAppError(t, err, "USERNAME_TAKEN")
	})

	t.Run("invalid_input", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(repository.New(db), "USD")

		cases := map[string][2]string{
			"short_username":    {"ab", "Secret1!"},
			"bad_username":      {"a b c", "Secret1!"},
			"short_password":    {"dave", "Se1!"},
			"no_symbol":         {"dave", "Secret12"},
			"no_upper":          {"dave", "secret1!"},
			"no_digit":          {"dave", "Secrets!"},
			"too_long_password": {"dave", "Secret1!Secret1!Secret1!Secret1!x"},
		}
		for name, c := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := svc.Signup(ctx, c[0], c[1])
				testutil.AssertAppError(t, err, "INVALID_INPUT")
			})
		}
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(repository.New(db), "USD")
	user := testutil.CreateTestUserWithUsername(t, db, "erin")

	t.Run("success", func(t *testing.T) {
		got, err := svc.Authenticate(ctx, "erin", testutil.TestPassword)
		testutil.AssertNoError(t, err)
		if got.ID != user.ID {
			t.Errorf("expected user %s, got %s", user.ID, got.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "erin", "Wrong1!x")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_user", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody", testutil.TestPassword)
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("after_password_change", func(t *testing.T) {
		testutil.AssertNoError(t, svc.SetPassword(ctx, user.ID, "Changed9#"))
		_, err := svc.Authenticate(ctx, "erin", "Changed9#")
		testutil.AssertNoError(t, err)
		_, err = svc.Authenticate(ctx, "erin", testutil.TestPassword)
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestSetBaseCurrency(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(repository.New(db), "USD")
	user := testutil.CreateTestUser(t, db)
	eur := testutil.CreateTestCurrency(t, db, "EUR")
	custom := testutil.CreateTestCustomCurrency(t, db, user.ID, "PTS", "10")

	t.Run("system_currency", func(t *testing.T) {
		cfg, err := svc.SetBaseCurrency(ctx, user.ID, eur.ID)
		testutil.AssertNoError(t, err)
		if cfg.BaseCurrency == nil || cfg.BaseCurrency.Code != "EUR" {
			t.Errorf("expected EUR base currency, got %+v", cfg.BaseCurrency)
		}
	})

	t.Run("custom_currency_rejected", func(t *testing.T) {
		_, err := svc.SetBaseCurrency(ctx, user.ID, custom.ID)
		testutil.AssertAppError(t, err, "CURRENCY_CANT_BE_BASE")
	})

	t.Run("unknown_currency", func(t *testing.T) {
		_, err := svc.SetBaseCurrency(ctx, user.ID, "0191c3a0-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "CURRENCY_NOT_FOUND")
	})
}

func TestSetBaseCryptoPortfolio(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(repository.New(db), "USD")
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	portfolio := testutil.CreateTestCryptoPortfolio(t, db, user.ID)

	cfg, err := svc.SetBaseCryptoPortfolio(ctx, user.ID, portfolio.ID)
	testutil.AssertNoError(t, err)
	if cfg.BaseCryptoPortfolioID == nil || *cfg.BaseCryptoPortfolioID != portfolio.ID {
		t.Errorf("expected base portfolio %s, got %v", portfolio.ID, cfg.BaseCryptoPortfolioID)
	}

	_, err = svc.SetBaseCryptoPortfolio(ctx, other.ID, portfolio.ID)
	testutil.AssertAppError(t, err, "CRYPTO_PORTFOLIO_NOT_FOUND")
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(repository.New(db), "USD")
	user := testutil.CreateTestUser(t, db)

	got, err := svc.GetUser(ctx, user.ID)
	testutil.AssertNoError(t, err)
	if got.Config == nil {
		t.Error("expected config to be attached")
	}

	_, err = svc.GetUser(ctx, "0191c3a0-0000-7000-8000-000000000000")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}
