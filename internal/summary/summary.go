// Package summary derives the budget figures shown after every change.
// Nothing here touches storage; callers pass in a snapshot and the
// current expense list and get a fresh Summary back.
package summary

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/budgeter/internal/model"
)

// UncategorizedLabel groups expenses with no live category.
const UncategorizedLabel = "no category"

// weeksPerMonth is the divisor for the weekly allowance.
var weeksPerMonth = decimal.NewFromInt(4)

// Summary holds the derived budget figures.
type Summary struct {
	TotalExpenses   decimal.Decimal
	Remaining       decimal.Decimal
	SavingsPercent  decimal.Decimal
	WeeklyAllowance decimal.Decimal
	Overspending    bool
	NegativeCash    bool
}

// HasAlerts reports whether either warning is raised.
func (s Summary) HasAlerts() bool {
	return s.Overspending || s.NegativeCash
}

// CategoryTotal is the spending attributed to one category name.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// Summarize recomputes every figure from scratch.
func Summarize(snap model.Snapshot, expenses []model.Expense) Summary {
	total := Total(expenses)
	remaining := snap.Income.Sub(total).Sub(snap.Savings)

	s := Summary{
		TotalExpenses:   total,
		Remaining:       remaining,
		SavingsPercent:  decimal.Zero,
		WeeklyAllowance: decimal.Zero,
		Overspending:    remaining.IsNegative(),
		NegativeCash:    snap.Cash.IsNegative(),
	}

	if snap.Income.IsPositive() {
		s.SavingsPercent = snap.Savings.Div(snap.Income).Mul(decimal.NewFromInt(100))
	}
	if remaining.IsPositive() {
		s.WeeklyAllowance = remaining.Div(weeksPerMonth)
	}

	return s
}

// Total sums expense amounts. An empty list totals zero.
func Total(expenses []model.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, exp := range expenses {
		total = total.Add(exp.Amount)
	}
	return total
}

// ByCategory totals expenses per category name, largest first. Expenses
// whose category is unset or deleted share UncategorizedLabel.
func ByCategory(expenses []model.Expense) []CategoryTotal {
	index := make(map[string]int)
	var totals []CategoryTotal

	for _, exp := range expenses {
		name := exp.CategoryLabel()
		if name == "" {
			name = UncategorizedLabel
		}

		i, ok := index[name]
		if !ok {
			i = len(totals)
			index[name] = i
			totals = append(totals, CategoryTotal{Category: name, Total: decimal.Zero})
		}
		totals[i].Total = totals[i].Total.Add(exp.Amount)
		totals[i].Count++
	}

	sort.SliceStable(totals, func(i, j int) bool {
		if c := totals[i].Total.Cmp(totals[j].Total); c != 0 {
			return c > 0
		}
		return totals[i].Category < totals[j].Category
	})

	return totals
}
