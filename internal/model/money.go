package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseMoney parses a locale-independent decimal such as "10", "10.5" or
// "0.125". A comma is not accepted as the decimal separator.
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, NewValidationError("price", "price is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, NewValidationError("price", "price %q is not a decimal number", s)
	}
	return d, nil
}

// FormatMoney renders d with at least two fraction digits, keeping any extra
// precision the value carries.
func FormatMoney(d decimal.Decimal) string {
	places := int32(2)
	if exp := -d.Exponent(); exp > places {
		places = exp
	}
	return d.StringFixed(places)
}

// LineTotal is the total charged for quantity units at unitPrice.
func LineTotal(unitPrice decimal.Decimal, quantity int64) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(quantity))
}
