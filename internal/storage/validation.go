// Package storage provides the data persistence layer for the budget tracker.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budgeter/internal/common"
	"github.com/Veraticus/budgeter/internal/model"
)

// Validation errors.
var (
	ErrNilContext  = errors.New("context cannot be nil")
	ErrEmptyString = fmt.Errorf("%w: string parameter cannot be empty", common.ErrInvalidInput)
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// normalizeCategoryName trims a category name and rejects empty results.
func normalizeCategoryName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: category name cannot be empty", common.ErrInvalidInput)
	}
	return trimmed, nil
}

// validateSnapshot enforces the non-negative income and savings rule.
func validateSnapshot(snap model.Snapshot) error {
	if snap.Income.IsNegative() {
		return fmt.Errorf("%w: income cannot be negative, got %s", common.ErrInvalidInput, snap.Income)
	}
	if snap.Savings.IsNegative() {
		return fmt.Errorf("%w: savings cannot be negative, got %s", common.ErrInvalidInput, snap.Savings)
	}
	for _, amount := range []decimal.Decimal{snap.Income, snap.Savings, snap.Cash} {
		if err := model.CheckStorable(amount); err != nil {
			return err
		}
	}
	return nil
}
