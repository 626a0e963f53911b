package tagtree

import (
	"github.com/shopspring/decimal"
)

const (
	OtherLabel    = "Other"
	UntaggedLabel = "Other (Untagged)"
)

// Slice is one pie entry. Synthetic entries have a nil CategoryID and are
// never drill targets.
type Slice struct {
	CategoryID *uint           `json:"category_id"`
	Name       string          `json:"name"`
	Value      decimal.Decimal `json:"value"`
	IsLeaf     bool            `json:"is_leaf"`
	IsOther    bool            `json:"is_other"`
}

// Drillable reports whether the slice can be passed to Navigator.Descend.
func (s Slice) Drillable() bool { return s.CategoryID != nil && !s.IsLeaf }

// Bar compares a child's total against its budget.
type Bar struct {
	CategoryID *uint           `json:"category_id"`
	Name       string          `json:"name"`
	Spent      decimal.Decimal `json:"spent"`
	Budget     decimal.Decimal `json:"budget"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percent    decimal.Decimal `json:"percent"`
	HasBudget  bool            `json:"has_budget"`
	IsOther    bool            `json:"is_other"`
}

// View is the dashboard model for one drill position.
type View struct {
	Mode        Mode            `json:"mode"`
	Path        []uint          `json:"path"`
	Breadcrumbs []Breadcrumb    `json:"breadcrumbs"`
	Current     string          `json:"current"`
	Total       decimal.Decimal `json:"total"`
	Untagged    decimal.Decimal `json:"untagged"`
	Slices      []Slice         `json:"slices"`
	Bars        []Bar           `json:"bars"`
}

// BuildView derives the dashboard model for the navigator's position.
func BuildView(nav *Navigator, totals *Totals) View {
	current := nav.Current()
	atRoot := nav.AtRoot()

	v := View{
		Mode:        totals.Mode(),
		Path:        nav.Path(),
		Breadcrumbs: nav.Breadcrumbs(),
		Current:     current.Name,
		Slices:      Slices(current, totals, atRoot),
		Bars:        Bars(current, totals, atRoot),
	}
	if !atRoot {
		v.Total = totals.Recursive(current)
		return v
	}
	v.Untagged = totals.Untagged()
	v.Total = v.Untagged
	for _, r := range current.Children {
		v.Total = v.Total.Add(totals.Recursive(r))
	}
	return v
}

// Slices returns pie entries for the children of current: every child with a
// positive total, then "Other" for current's own direct total, then the
// untagged bucket when atRoot.
func Slices(current *Node, totals *Totals, atRoot bool) []Slice {
	out := []Slice{}
	for _, c := range current.Children {
		v := totals.Recursive(c)
		if !v.IsPositive() {
			continue
		}
		out = append(out, Slice{CategoryID: copyID(&c.ID), Name: c.Name, Value: v, IsLeaf: c.IsLeaf()})
	}
	if !atRoot {
		if self := totals.Direct(current.ID); self.IsPositive() {
			out = append(out, Slice{Name: OtherLabel, Value: self, IsLeaf: true, IsOther: true})
		}
	}
	if atRoot {
		if u := totals.Untagged(); u.IsPositive() {
			out = append(out, Slice{Name: UntaggedLabel, Value: u, IsLeaf: true, IsOther: true})
		}
	}
	return out
}

// Bars returns budget bars for the children of current, keeping entries that
// have either activity or a budget.
func Bars(current *Node, totals *Totals, atRoot bool) []Bar {
	out := []Bar{}
	for _, c := range current.Children {
		spent := totals.Recursive(c)
		if !spent.IsPositive() && !c.BudgetAmount.IsPositive() {
			continue
		}
		pct, ok := Percent(spent, c.BudgetAmount)
		out = append(out, Bar{
			CategoryID: copyID(&c.ID),
			Name:       c.Name,
			Spent:      spent,
			Budget:     c.BudgetAmount,
			Remaining:  c.BudgetAmount.Sub(spent),
			Percent:    pct,
			HasBudget:  ok,
		})
	}
	if !atRoot {
		if self := totals.Direct(current.ID); self.IsPositive() {
			out = append(out, Bar{Name: OtherLabel, Spent: self, IsOther: true})
		}
	}
	if atRoot {
		if u := totals.Untagged(); u.IsPositive() {
			out = append(out, Bar{Name: UntaggedLabel, Spent: u, IsOther: true})
		}
	}
	return out
}
