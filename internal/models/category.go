package models

import "github.com/shopspring/decimal"

// CategoryType represents which hierarchy a category belongs to
type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

// Valid reports whether t is one of the known category types.
func (t CategoryType) Valid() bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

// Category represents a budget category ("tag"). A user's categories form two
// forests, one per type, linked through ParentID.
type Category struct {
	Base
	UserID       string          `gorm:"not null;index" json:"user_id"`
	ParentID     *uint           `gorm:"index" json:"parent_id"`
	Name         string          `gorm:"not null" json:"name"`
	BudgetAmount decimal.Decimal `gorm:"type:DECIMAL(20,8);not null" json:"budget_amount"`
	Type         CategoryType    `gorm:"not null" json:"type"`
}

// CategoryCreate holds the fields supplied when creating a category.
type CategoryCreate struct {
	ParentID     *uint           `json:"parent_id"`
	Name         string          `json:"name"`
	BudgetAmount decimal.Decimal `json:"budget_amount"`
	Type         CategoryType    `json:"type"`
}

// CategoryPatch is a partial update of a category. ParentID is always
// applied, nil meaning root; the other fields are applied only when set.
type CategoryPatch struct {
	ParentID     *uint            `json:"parent_id"`
	Name         *string          `json:"name,omitempty"`
	BudgetAmount *decimal.Decimal `json:"budget_amount,omitempty"`
	Type         *CategoryType    `json:"type,omitempty"`
}
