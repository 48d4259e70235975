package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budgeter/internal/common"
)

// ParseAmount converts user or file input into a decimal amount.
//
// Surrounding whitespace is ignored. Empty and non-numeric strings fail with
// common.ErrInvalidInput. Sign is not checked here; callers that only accept
// positive entry must check it themselves.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount(" 300 ") -> 300, nil
//	ParseAmount("-10")   -> -10, nil
//	ParseAmount("abc")   -> 0, ErrInvalidInput
//	ParseAmount("1e400") -> 0, ErrInvalidInput
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is empty", common.ErrInvalidInput)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", common.ErrInvalidInput, s)
	}
	if err := CheckStorable(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

// CheckStorable rejects amounts too large to survive the float64 column
// they are stored in.
func CheckStorable(d decimal.Decimal) error {
	if math.IsInf(d.InexactFloat64(), 0) {
		return fmt.Errorf("%w: amount %s is out of range", common.ErrInvalidInput, d.String())
	}
	return nil
}

// ParsePositiveAmount is ParseAmount restricted to values greater than zero.
func ParsePositiveAmount(s string) (decimal.Decimal, error) {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be greater than zero, got %s", common.ErrInvalidInput, d)
	}
	return d, nil
}
