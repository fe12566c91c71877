package domain

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Column sizes of the relational schema.
const (
	MaxUserNameLen        = 50
	MaxEmailLen           = 100
	MaxAccountNameLen     = 50
	MaxTagNameLen         = 50
	MaxTransactionNameLen = 100

	// AmountScale is the number of decimal places stored for money.
	AmountScale = 2
)

// numeric(12,2) leaves ten integer digits.
var amountLimit = decimal.New(1, 10)

// ValidateAmount checks that d is storable in a numeric(12,2) column
// without rounding.
func ValidateAmount(field string, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(AmountScale)) {
		return Validationf("%s must have at most %d decimal places", field, AmountScale)
	}
	if d.Abs().GreaterThanOrEqual(amountLimit) {
		return Validationf("%s must be less than %s in magnitude", field, amountLimit)
	}
	return nil
}

// ValidateLength checks that value has at most max characters.
func ValidateLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return Validationf("%s must be at most %d characters", field, max)
	}
	return nil
}
