package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// loadData reads the snapshot and expenses from storage.
func (m Model) loadData() tea.Cmd {
	storage := m.storage
	ctx := m.ctx
	return func() tea.Msg {
		if storage == nil {
			return dataLoadedMsg{err: fmt.Errorf("storage not configured")}
		}

		snap, err := storage.GetSnapshot(ctx)
		if err != nil {
			return dataLoadedMsg{err: err}
		}

		expenses, err := storage.GetExpenses(ctx)
		if err != nil {
			return dataLoadedMsg{err: err}
		}

		return dataLoadedMsg{snapshot: snap, expenses: expenses}
	}
}

// deleteExpense removes an expense by id.
func (m Model) deleteExpense(id int) tea.Cmd {
	storage := m.storage
	ctx := m.ctx
	return func() tea.Msg {
		if storage == nil {
			return expenseDeletedMsg{id: id, err: fmt.Errorf("storage not configured")}
		}
		return expenseDeletedMsg{id: id, err: storage.DeleteExpense(ctx, id)}
	}
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
