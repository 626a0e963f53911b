package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single bank or imported transaction. A positive amount is
// income, a negative amount is an expense.
type Transaction struct {
	Base
	UserID          string          `gorm:"not null;index" json:"user_id"`
	CategoryID      *uint           `gorm:"index" json:"category_id"`
	Date            time.Time       `gorm:"not null" json:"date"`
	Amount          decimal.Decimal `gorm:"type:DECIMAL(20,8);not null" json:"amount"`
	MerchantDetails string          `json:"merchant_details"`
}

// IsIncome reports whether the transaction brings money in.
func (t Transaction) IsIncome() bool { return t.Amount.IsPositive() }

// IsExpense reports whether the transaction takes money out.
func (t Transaction) IsExpense() bool { return t.Amount.IsNegative() }
