package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/budgeter/internal/model"
	"github.com/Veraticus/budgeter/internal/summary"
)

// FormatMoney renders an amount with two decimals and thousands separators.
func FormatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if d.IsNegative() && !d.Round(2).IsZero() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

// Alerts lists the warnings raised by s, in display order.
func Alerts(s summary.Summary) []string {
	var alerts []string
	if s.Overspending {
		alerts = append(alerts, "Overspending: expenses and savings exceed income")
	}
	if s.NegativeCash {
		alerts = append(alerts, "Negative cash balance")
	}
	return alerts
}

// RenderSummary draws the snapshot and derived figures in a box.
func RenderSummary(snap model.Snapshot, s summary.Summary) string {
	money := func(d decimal.Decimal) string {
		if d.IsNegative() {
			return ErrorStyle.Render(FormatMoney(d))
		}
		return FormatMoney(d)
	}
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, LabelStyle.Render(label), value)
	}

	lines := []string{
		row("Income", money(snap.Income)),
		row("Savings", money(snap.Savings)+SubtleStyle.Render(" ("+FormatPercent(s.SavingsPercent)+")")),
		row("Cash", money(snap.Cash)),
		row("Total expenses", money(s.TotalExpenses)),
		row("Remaining", money(s.Remaining)),
		row("Weekly allowance", money(s.WeeklyAllowance)),
	}
	for _, alert := range Alerts(s) {
		lines = append(lines, FormatWarning(alert))
	}

	return RenderBox(ChartIcon+" Budget summary", strings.Join(lines, "\n"))
}

// RenderExpenses draws an expense table followed by the list total.
func RenderExpenses(expenses []model.Expense) string {
	if len(expenses) == 0 {
		return SubtleStyle.Render("No expenses recorded.")
	}

	rows := make([][]string, 0, len(expenses))
	for _, exp := range expenses {
		category := exp.CategoryLabel()
		if category == "" {
			category = summary.UncategorizedLabel
		}
		rows = append(rows, []string{strconv.Itoa(exp.ID), FormatMoney(exp.Amount), category, exp.OccurredAt})
	}

	table := renderTable([]string{"ID", "Amount", "Category", "Date"}, rows)
	total := fmt.Sprintf("%d expense(s), total %s", len(expenses), FormatMoney(summary.Total(expenses)))
	return table + "\n" + SubtleStyle.Render(total)
}

// RenderCategories draws the category list.
func RenderCategories(cats []model.Category) string {
	if len(cats) == 0 {
		return SubtleStyle.Render("No categories.")
	}

	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{strconv.Itoa(c.ID), c.Name})
	}
	return renderTable([]string{"ID", "Name"}, rows)
}

// RenderCategoryTotals draws spending per category.
func RenderCategoryTotals(totals []summary.CategoryTotal) string {
	if len(totals) == 0 {
		return SubtleStyle.Render("No expenses recorded.")
	}

	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{t.Category, strconv.Itoa(t.Count), FormatMoney(t.Total)})
	}
	return renderTable([]string{"Category", "Count", "Total"}, rows)
}

// renderTable left-aligns columns to their widest cell.
func renderTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = lipgloss.NewStyle().Width(widths[i] + 2).Render(h)
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(strings.Join(cells, "")))
	for _, row := range rows {
		b.WriteByte('\n')
		for i, cell := range row {
			b.WriteString(lipgloss.NewStyle().Width(widths[i] + 2).Render(cell))
		}
	}
	return b.String()
}
