// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"regexp"

	"github.com/Rhymond/go-money"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"finances/internal/models"
)

var currencyCodeRegex = regexp.MustCompile(`^[A-Za-z]{3,5}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})
	_ = v.RegisterValidation("iso4217", validateISO4217)
	_ = v.RegisterValidation("currency_code", validateCurrencyCode)
	_ = v.RegisterValidation("category_type", validateCategoryType)
	_ = v.RegisterValidation("crypto_transaction_type", validateCryptoTransactionType)
	_ = v.RegisterValidation("decimal_gt0", validateDecimalGT0)
}

// decimalValue exposes decimals to validator as their string form so that
// required and custom tags see a comparable value.
func decimalValue(field reflect.Value) any {
	switch d := field.Interface().(type) {
	case decimal.Decimal:
		return d.String()
	case decimal.NullDecimal:
		if !d.Valid {
			return nil
		}
		return d.Decimal.String()
	}
	return nil
}

func validateISO4217(fl validator.FieldLevel) bool {
	return money.GetCurrency(fl.Field().String()) != nil
}

func validateCurrencyCode(fl validator.FieldLevel) bool {
	return currencyCodeRegex.MatchString(fl.Field().String())
}

func validateCategoryType(fl validator.FieldLevel) bool {
	switch models.CategoryType(fl.Field().String()) {
	case models.CategoryTypeIncome, models.CategoryTypeExpense:
		return true
	}
	return false
}

func validateCryptoTransactionType(fl validator.FieldLevel) bool {
	switch models.CryptoTransactionType(fl.Field().String()) {
	case models.CryptoTransactionBuy, models.CryptoTransactionSell:
		return true
	}
	return false
}

func validateDecimalGT0(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.IsPositive()
}
