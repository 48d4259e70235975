package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budgeter/internal/model"
	"github.com/Veraticus/budgeter/internal/testutil"
	"github.com/Veraticus/budgeter/internal/tui/themes"
)

func keyRune(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

// step feeds msg to m and runs any returned commands until none remain.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	for msg != nil {
		updated, cmd := m.Update(msg)
		m = updated.(Model)
		if cmd == nil {
			return m
		}
		msg = cmd()
		if _, quit := msg.(tea.QuitMsg); quit {
			return m
		}
	}
	return m
}

func loadedModel(t *testing.T, db *testutil.TestDB) Model {
	t.Helper()
	m := newModel(context.Background(), Config{Storage: db.Storage, Theme: themes.Light, Width: 120, Height: 40})
	m = step(t, m, m.Init()())
	require.True(t, m.ready)
	require.NoError(t, m.lastError)
	return m
}

func seededStore(t *testing.T) *testutil.TestDB {
	t.Helper()
	clock := time.Date(2024, 5, 1, 8, 0, 0, 0, time.Local)
	return testutil.SetupTestStoreWithOptions(t, testutil.TestDBOptions{
		Snapshot: &model.Snapshot{
			Income:  decimal.NewFromInt(1000),
			Savings: decimal.NewFromInt(200),
			Cash:    decimal.NewFromInt(50),
		},
		Expenses: []testutil.ExpenseFixture{
			{Amount: "300", Category: "Rent"},
			{Amount: "400", Category: "Food"},
		},
		Now: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
	})
}

func TestModel_Load(t *testing.T) {
	m := loadedModel(t, seededStore(t))

	assert.Len(t, m.expenses, 2)
	assert.True(t, m.summary.TotalExpenses.Equal(decimal.NewFromInt(700)))
	assert.True(t, m.summary.WeeklyAllowance.Equal(decimal.NewFromInt(25)))
	assert.Len(t, m.table.Rows(), 2)
	assert.Equal(t, "Food", m.table.Rows()[0][2], "newest expense first")

	view := m.View()
	assert.Contains(t, view, "Budget dashboard")
	assert.Contains(t, view, "$700.00")
	assert.NotContains(t, view, "Overspending")
}

func TestModel_DeleteRecomputesSummary(t *testing.T) {
	db := seededStore(t)
	m := loadedModel(t, db)

	// Select the second row (Rent) and delete it
	m = step(t, m, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 1, m.table.Cursor())
	m = step(t, m, keyRune("d"))

	require.NoError(t, m.lastError)
	require.Len(t, m.expenses, 1)
	assert.Equal(t, "Food", m.expenses[0].CategoryLabel())
	assert.True(t, m.summary.TotalExpenses.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, 0, m.table.Cursor(), "cursor clamps to the remaining rows")
	assert.Contains(t, m.status, "Deleted expense")

	assert.Len(t, db.Expenses(), 1)
}

func TestModel_DeleteOnEmptyTable(t *testing.T) {
	m := loadedModel(t, testutil.SetupTestStore(t))

	m = step(t, m, keyRune("d"))
	assert.Equal(t, "Nothing to delete", m.status)
}

func TestModel_RefreshPicksUpExternalChanges(t *testing.T) {
	db := seededStore(t)
	m := loadedModel(t, db)

	db.AddExpense("600", "Gas")
	m = step(t, m, keyRune("r"))

	assert.Len(t, m.expenses, 3)
	assert.True(t, m.summary.Overspending)
	assert.Contains(t, m.View(), "Overspending")
}

func TestModel_ToggleThemeAndHelp(t *testing.T) {
	m := loadedModel(t, testutil.SetupTestStore(t))
	require.Equal(t, themes.NameLight, m.theme.Name)

	m = step(t, m, keyRune("t"))
	assert.Equal(t, themes.NameDark, m.theme.Name)
	m = step(t, m, keyRune("t"))
	assert.Equal(t, themes.NameLight, m.theme.Name)

	assert.False(t, m.help.ShowAll)
	m = step(t, m, keyRune("?"))
	assert.True(t, m.help.ShowAll)
	assert.True(t, strings.Contains(m.View(), "toggle theme"))
}

func TestModel_Quit(t *testing.T) {
	m := loadedModel(t, testutil.SetupTestStore(t))

	updated, cmd := m.Update(keyRune("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, updated.(Model).View())
}

func TestModel_LoadError(t *testing.T) {
	m := newModel(context.Background(), defaultConfig())

	m = step(t, m, dataLoadedMsg{err: errors.New("disk on fire")})
	assert.False(t, m.ready)
	assert.Contains(t, m.View(), "disk on fire")
}

func TestModel_Resize(t *testing.T) {
	m := loadedModel(t, testutil.SetupTestStore(t))

	m = step(t, m, tea.WindowSizeMsg{Width: 80, Height: 10})
	assert.Equal(t, 80, m.width)
	assert.Equal(t, 10, m.height)
	assert.Equal(t, 3, tableHeight(m.height))
}

func TestRun_RequiresStorage(t *testing.T) {
	err := Run(context.Background())
	assert.Error(t, err)
}
