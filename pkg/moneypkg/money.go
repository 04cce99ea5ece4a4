// Package moneypkg provides parsing, formatting and validation of money amounts.
package moneypkg

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrNotANumber indicates that the text is not a decimal number.
var ErrNotANumber = errors.New("not a number")

// ParseAmount parses decimal text such as "100", "12.50" or " 3.1 ".
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrNotANumber
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrNotANumber
	}

	return d, nil
}

// Format renders the amount with a dollar sign and two decimals, e.g. $1234.50.
func Format(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// ValidAmount validates whether the field holds decimal text.
var ValidAmount validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		_, err := ParseAmount(s)
		return err == nil
	}

	return false
}
