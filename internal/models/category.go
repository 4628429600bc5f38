package models

// CategoryType represents the type of category
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "INCOME"
	CategoryTypeExpense CategoryType = "EXPENSE"
)

// Category is a tag offered when recording transactions. Transactions store
// the tag by value, so categories can change without touching the ledger.
type Category struct {
	Base
	Name string       `gorm:"not null" json:"name"`
	Type CategoryType `gorm:"type:varchar(16);not null" json:"type"`
	Icon string       `json:"icon"`
}

// IsValid reports whether t is a known category type.
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}
