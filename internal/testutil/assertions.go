package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "finances/internal/errors"
)

// AssertAppError fails the test unless err carries the expected error code.
// Codes are what clients see, so tests compare codes rather than sentinels.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error %s, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError %s, got %T: %v", expectedCode, err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %s, got %s (%s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError stops the test on any error.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertDecimal fails the test unless got equals the decimal written in want.
// Scale is ignored: "1.50" equals "1.5".
func AssertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()

	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s, got %s", want, got.String())
	}
}
