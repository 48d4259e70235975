package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/budgeter/internal/cli"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if !m.ready {
		if m.lastError != nil {
			return m.theme.Negative.Render("Failed to load budget: "+m.lastError.Error()) + "\n" +
				m.theme.Status.Render("press r to retry, q to quit")
		}
		return m.theme.Status.Render("Loading budget...")
	}

	sections := []string{
		m.theme.Title.Render(cli.WalletIcon + " Budget dashboard"),
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderSummary(), " ", m.renderCategoryTotals()),
	}
	if alerts := m.renderAlerts(); alerts != "" {
		sections = append(sections, alerts)
	}
	sections = append(sections,
		m.theme.RoundedBox.Render(m.table.View()),
		m.renderStatus(),
		m.help.View(m.keymap),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) money(d decimal.Decimal) string {
	if d.IsNegative() {
		return m.theme.Negative.Render(cli.FormatMoney(d))
	}
	return m.theme.Normal.Render(cli.FormatMoney(d))
}

// renderSummary renders the snapshot and derived figures.
func (m Model) renderSummary() string {
	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, m.theme.Label.Render(label), value)
	}

	lines := []string{
		m.theme.Subtitle.Render("Summary"),
		row("Income", m.money(m.snapshot.Income)),
		row("Savings", m.money(m.snapshot.Savings)+m.theme.Subtitle.Render(" ("+cli.FormatPercent(m.summary.SavingsPercent)+")")),
		row("Cash", m.money(m.snapshot.Cash)),
		row("Total expenses", m.money(m.summary.TotalExpenses)),
		row("Remaining", m.money(m.summary.Remaining)),
		row("Weekly allowance", m.money(m.summary.WeeklyAllowance)),
	}
	return m.theme.RoundedBox.Render(strings.Join(lines, "\n"))
}

// renderCategoryTotals renders the largest category totals.
func (m Model) renderCategoryTotals() string {
	lines := []string{m.theme.Subtitle.Render("By category")}
	if len(m.totals) == 0 {
		lines = append(lines, m.theme.Status.Render("no expenses yet"))
	}

	const maxRows = 6
	for i, t := range m.totals {
		if i == maxRows {
			lines = append(lines, m.theme.Status.Render("..."))
			break
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, m.theme.Label.Render(t.Category), m.money(t.Total)))
	}
	return m.theme.RoundedBox.Render(strings.Join(lines, "\n"))
}

// renderAlerts renders the budget warnings, if any.
func (m Model) renderAlerts() string {
	alerts := cli.Alerts(m.summary)
	if len(alerts) == 0 {
		return ""
	}

	lines := make([]string, 0, len(alerts))
	for _, alert := range alerts {
		lines = append(lines, m.theme.Alert.Render(cli.WarningIcon+" "+alert))
	}
	return strings.Join(lines, "\n")
}

// renderStatus renders the last error or status message.
func (m Model) renderStatus() string {
	if m.lastError != nil {
		return m.theme.Negative.Render("Error: " + m.lastError.Error())
	}
	return m.theme.Status.Render(m.status)
}
