package model

// DefaultCategories are seeded into an empty category table on initialization.
var DefaultCategories = []string{"Rent", "Food", "Gas", "Utilities", "Personal"}

// Category is a named bucket for classifying expenses.
type Category struct {
	Name string
	ID   int
}
