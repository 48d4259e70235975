// Package tui implements the interactive budget dashboard.
package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/budgeter/internal/cli"
	"github.com/Veraticus/budgeter/internal/model"
	"github.com/Veraticus/budgeter/internal/service"
	"github.com/Veraticus/budgeter/internal/summary"
	"github.com/Veraticus/budgeter/internal/tui/themes"
)

// chromeHeight is the number of lines outside the expense table.
const chromeHeight = 16

// Model holds the dashboard state.
type Model struct {
	ctx       context.Context
	storage   service.Storage
	lastError error
	theme     themes.Theme
	keymap    KeyMap
	help      help.Model
	table     table.Model
	status    string
	expenses  []model.Expense
	totals    []summary.CategoryTotal
	summary   summary.Summary
	snapshot  model.Snapshot
	width     int
	height    int
	ready     bool
	quitting  bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 6},
			{Title: "Amount", Width: 14},
			{Title: "Category", Width: 18},
			{Title: "Date", Width: 20},
		}),
		table.WithFocused(true),
		table.WithHeight(tableHeight(cfg.Height)),
	)

	m := Model{
		ctx:     contextOrBackground(ctx),
		storage: cfg.Storage,
		theme:   cfg.Theme,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		table:   t,
		width:   cfg.Width,
		height:  cfg.Height,
	}
	m.applyTheme()
	return m
}

func tableHeight(height int) int {
	if h := height - chromeHeight; h > 3 {
		return h
	}
	return 3
}

// Init loads the first view of the data.
func (m Model) Init() tea.Cmd {
	return m.loadData()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(tableHeight(msg.Height))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case dataLoadedMsg:
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.lastError = nil
		m.setData(msg.snapshot, msg.expenses)
		m.ready = true
		return m, nil

	case expenseDeletedMsg:
		if msg.err != nil {
			m.lastError = msg.err
			return m, nil
		}
		m.status = fmt.Sprintf("Deleted expense #%d", msg.id)
		return m, m.loadData()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.ToggleTheme):
		m.theme = themes.Toggle(m.theme)
		m.applyTheme()
		m.status = "Theme: " + m.theme.Name
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		m.status = "Refreshed"
		return m, m.loadData()

	case key.Matches(msg, m.keymap.Delete):
		exp, ok := m.selectedExpense()
		if !ok {
			m.status = "Nothing to delete"
			return m, nil
		}
		return m, m.deleteExpense(exp.ID)

	case key.Matches(msg, m.keymap.Up):
		m.table.MoveUp(1)
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		m.table.MoveDown(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// setData recomputes every derived figure from a fresh read.
func (m *Model) setData(snap model.Snapshot, expenses []model.Expense) {
	m.snapshot = snap
	m.expenses = expenses
	m.summary = summary.Summarize(snap, expenses)
	m.totals = summary.ByCategory(expenses)

	rows := make([]table.Row, 0, len(expenses))
	for _, exp := range expenses {
		category := exp.CategoryLabel()
		if category == "" {
			category = summary.UncategorizedLabel
		}
		rows = append(rows, table.Row{strconv.Itoa(exp.ID), cli.FormatMoney(exp.Amount), category, exp.OccurredAt})
	}
	m.table.SetRows(rows)

	if cursor := m.table.Cursor(); cursor >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func (m Model) selectedExpense() (model.Expense, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.expenses) {
		return model.Expense{}, false
	}
	return m.expenses[cursor], true
}

func (m *Model) applyTheme() {
	styles := table.DefaultStyles()
	styles.Header = m.theme.TableHeader
	styles.Selected = m.theme.Selected
	m.table.SetStyles(styles)
}
