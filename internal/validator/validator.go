// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"cryptowatch/internal/models"
)

var marketSymbolRegex = regexp.MustCompile(`^[A-Z0-9]{2,20}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("quote_currency", validateQuoteCurrency)
		_ = v.RegisterValidation("sort_field", validateSortField)
		_ = v.RegisterValidation("sort_dir", validateSortDir)
		_ = v.RegisterValidation("market_symbol", validateMarketSymbol)
	}
}

// IsMarketSymbol reports whether s looks like an exchange pair symbol, e.g. BTCUSDT.
func IsMarketSymbol(s string) bool {
	return marketSymbolRegex.MatchString(s)
}

func validateQuoteCurrency(fl validator.FieldLevel) bool {
	switch models.QuoteCurrency(fl.Field().String()) {
	case models.QuoteUSDT, models.QuoteUSD:
		return true
	}
	return false
}

func validateSortField(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "volume", "price", "change":
		return true
	}
	return false
}

func validateSortDir(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "asc", "desc":
		return true
	}
	return false
}

func validateMarketSymbol(fl validator.FieldLevel) bool {
	return IsMarketSymbol(fl.Field().String())
}
