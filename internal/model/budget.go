package model

import "github.com/shopspring/decimal"

// Snapshot is the single current income/savings/cash record.
type Snapshot struct {
	Income  decimal.Decimal
	Savings decimal.Decimal
	Cash    decimal.Decimal
}
