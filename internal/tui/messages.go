package tui

import "github.com/Veraticus/budgeter/internal/model"

// dataLoadedMsg carries a fresh read of the snapshot and expenses.
type dataLoadedMsg struct {
	err      error
	expenses []model.Expense
	snapshot model.Snapshot
}

// expenseDeletedMsg reports the outcome of a delete.
type expenseDeletedMsg struct {
	err error
	id  int
}
