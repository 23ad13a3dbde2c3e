// Package errors provides custom error types for the finances API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import (
	stderrors "errors"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// Is reports whether err is an *AppError carrying the same code as sentinel.
func Is(err error, sentinel *AppError) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return false
	}
	return appErr.Code == sentinel.Code
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password", StatusCode: http.StatusUnauthorized}
)

// Pipeline errors.
var (
	ErrPipelineNotConfigured = &AppError{Code: "PIPELINE_NOT_CONFIGURED", Message: "Pipeline endpoints are not configured", StatusCode: http.StatusServiceUnavailable}
	ErrInvalidAPIKey         = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound  = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrUsernameTaken = &AppError{Code: "USERNAME_TAKEN", Message: "A user with this username already exists", StatusCode: http.StatusBadRequest}
)

// Asset errors.
var (
	ErrAssetNotFound      = &AppError{Code: "ASSET_NOT_FOUND", Message: "Asset not found", StatusCode: http.StatusNotFound}
	ErrAssetExists        = &AppError{Code: "ASSET_EXISTS", Message: "An asset with this title already exists", StatusCode: http.StatusBadRequest}
	ErrAssetCantBeDeleted = &AppError{Code: "ASSET_CANT_BE_DELETED", Message: "Asset can't be deleted", StatusCode: http.StatusConflict}
)

// Currency errors.
var (
	ErrCurrencyNotFound      = &AppError{Code: "CURRENCY_NOT_FOUND", Message: "Currency not found", StatusCode: http.StatusNotFound}
	ErrCurrencyExists        = &AppError{Code: "CURRENCY_EXISTS", Message: "A currency with this code already exists", StatusCode: http.StatusBadRequest}
	ErrCurrencyCantBeBase    = &AppError{Code: "CURRENCY_CANT_BE_BASE", Message: "A custom currency can't be the base currency", StatusCode: http.StatusBadRequest}
	ErrCurrencyCantBeDeleted = &AppError{Code: "CURRENCY_CANT_BE_DELETED", Message: "Currency can't be deleted", StatusCode: http.StatusConflict}
	ErrCantGetPrice          = &AppError{Code: "CANT_GET_PRICE", Message: "Can't get price", StatusCode: http.StatusServiceUnavailable}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryExists   = &AppError{Code: "CATEGORY_EXISTS", Message: "A category with this title and type already exists", StatusCode: http.StatusBadRequest}
)

// Transaction errors.
var (
	ErrTransactionNotFound       = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrTransactionCantBeChanged  = &AppError{Code: "TRANSACTION_CANT_BE_CHANGED", Message: "Transaction can't be changed", StatusCode: http.StatusBadRequest}
	ErrTransactionCantBeDeleted  = &AppError{Code: "TRANSACTION_CANT_BE_DELETED", Message: "Transaction can't be deleted", StatusCode: http.StatusConflict}
	ErrInvalidTransactionRequest = &AppError{Code: "INVALID_TRANSACTION_REQUEST", Message: "Exactly one of crypto_asset_id or crypto_currency_id is required", StatusCode: http.StatusBadRequest}
)

// Crypto errors.
var (
	ErrCryptoCurrencyNotFound         = &AppError{Code: "CRYPTO_CURRENCY_NOT_FOUND", Message: "Crypto currency not found", StatusCode: http.StatusNotFound}
	ErrCryptoPortfolioNotFound        = &AppError{Code: "CRYPTO_PORTFOLIO_NOT_FOUND", Message: "Crypto portfolio not found", StatusCode: http.StatusNotFound}
	ErrCryptoPortfolioExists          = &AppError{Code: "CRYPTO_PORTFOLIO_EXISTS", Message: "A crypto portfolio with this title already exists", StatusCode: http.StatusBadRequest}
	ErrCryptoAssetNotFound            = &AppError{Code: "CRYPTO_ASSET_NOT_FOUND", Message: "Crypto asset not found", StatusCode: http.StatusNotFound}
	ErrCryptoTransactionNotFound      = &AppError{Code: "CRYPTO_TRANSACTION_NOT_FOUND", Message: "Crypto transaction not found", StatusCode: http.StatusNotFound}
	ErrCryptoTransactionCantBeDeleted = &AppError{Code: "CRYPTO_TRANSACTION_CANT_BE_DELETED", Message: "Crypto transaction can't be deleted", StatusCode: http.StatusConflict}
)
