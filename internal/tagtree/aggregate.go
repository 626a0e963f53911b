package tagtree

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zdy718/ClearDollar/internal/models"
)

// Mode selects which hierarchy and which transactions are visible.
type Mode string

const (
	ModeIncome  Mode = "income"
	ModeExpense Mode = "expense"
)

// ParseMode converts a case-insensitive string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeIncome:
		return ModeIncome, nil
	case ModeExpense:
		return ModeExpense, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// CategoryType returns the hierarchy this mode navigates.
func (m Mode) CategoryType() models.CategoryType {
	if m == ModeIncome {
		return models.CategoryTypeIncome
	}
	return models.CategoryTypeExpense
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeIncome {
		return ModeExpense
	}
	return ModeIncome
}

// DefaultNodeName is the name given to a new root category created without one.
func (m Mode) DefaultNodeName() string {
	if m == ModeIncome {
		return "New Income Category"
	}
	return "New Expense Category"
}

// Contribution returns the non-negative magnitude an amount adds under the
// mode, and false when the amount's sign excludes it from the mode entirely.
func (m Mode) Contribution(amount decimal.Decimal) (decimal.Decimal, bool) {
	switch {
	case m == ModeExpense && amount.IsNegative():
		return amount.Neg(), true
	case m == ModeIncome && amount.IsPositive():
		return amount, true
	}
	return decimal.Zero, false
}

// Totals holds sign-filtered transaction sums per category for one mode.
type Totals struct {
	mode     Mode
	direct   map[uint]decimal.Decimal
	untagged decimal.Decimal
}

// Aggregate sums transactions per category under the mode. Transactions whose
// sign does not match the mode are skipped.
func Aggregate(txns []models.Transaction, mode Mode) *Totals {
	t := &Totals{mode: mode, direct: make(map[uint]decimal.Decimal)}
	for _, tx := range txns {
		v, ok := mode.Contribution(tx.Amount)
		if !ok {
			continue
		}
		if tx.CategoryID == nil {
			t.untagged = t.untagged.Add(v)
			continue
		}
		t.direct[*tx.CategoryID] = t.direct[*tx.CategoryID].Add(v)
	}
	return t
}

// Mode returns the mode the totals were computed under.
func (t *Totals) Mode() Mode { return t.mode }

// Direct returns the total tagged to exactly this category.
func (t *Totals) Direct(id uint) decimal.Decimal { return t.direct[id] }

// Untagged returns the total of transactions with no category.
func (t *Totals) Untagged() decimal.Decimal { return t.untagged }

// Recursive returns the node's direct total plus the recursive totals of all
// its descendants.
func (t *Totals) Recursive(n *Node) decimal.Decimal {
	sum := t.Direct(n.ID)
	for _, c := range n.Children {
		sum = sum.Add(t.Recursive(c))
	}
	return sum
}

var hundred = decimal.NewFromInt(100)

// Percent returns min(100, 100*spent/budget) rounded to two places. The second
// result is false when budget is not positive, in which case no bar applies.
func Percent(spent, budget decimal.Decimal) (decimal.Decimal, bool) {
	if !budget.IsPositive() {
		return decimal.Zero, false
	}
	pct := spent.Mul(hundred).Div(budget)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	return pct.Round(2), true
}
