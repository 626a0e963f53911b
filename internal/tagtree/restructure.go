package tagtree

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/zdy718/ClearDollar/internal/errors"
	"github.com/zdy718/ClearDollar/internal/models"
)

// Normalize overwrites every node's ParentID with its positional parent and
// replaces nil child slices with empty ones.
func Normalize(f Forest) {
	var walk func(nodes []*Node, parent *uint)
	walk = func(nodes []*Node, parent *uint) {
		for _, n := range nodes {
			n.ParentID = copyID(parent)
			if n.Children == nil {
				n.Children = []*Node{}
			}
			id := n.ID
			walk(n.Children, &id)
		}
	}
	walk(f, nil)
}

// Diff returns the nodes of next whose positional parent differs from prev,
// in depth-first order of next.
func Diff(prev, next Forest) []Edge {
	before := prev.ParentMap()
	changes := []Edge{}
	for _, e := range next.Edges() {
		old, ok := before[e.NodeID]
		if ok && sameParent(old, e.ParentID) {
			continue
		}
		changes = append(changes, e)
	}
	return changes
}

// Restructure applies a proposed forest shape. The proposal is trusted for
// shape and the collapsed flag only: every other field is carried over from
// prev by id, and parent ids are recomputed from position. The proposal must
// hold exactly prev's node set with each id once.
//
// The returned forest is freshly allocated; prev is not modified.
func Restructure(prev, proposed Forest) (Forest, []Edge, error) {
	known := make(map[uint]*Node, prev.Len())
	prev.Walk(func(n *Node) bool {
		known[n.ID] = n
		return true
	})

	seen := make(map[uint]bool, len(known))
	var rebuild func(nodes []*Node) ([]*Node, error)
	rebuild = func(nodes []*Node) ([]*Node, error) {
		out := make([]*Node, 0, len(nodes))
		for _, p := range nodes {
			if p == nil {
				return nil, apperrors.WithMessage(apperrors.ErrMalformedForest, "Proposed tree contains an empty node")
			}
			base, ok := known[p.ID]
			if !ok {
				return nil, apperrors.WithMessage(apperrors.ErrMalformedForest, fmt.Sprintf("Unknown category %d in proposed tree", p.ID))
			}
			if seen[p.ID] {
				return nil, apperrors.WithMessage(apperrors.ErrMalformedForest, fmt.Sprintf("Category %d appears more than once", p.ID))
			}
			seen[p.ID] = true

			children, err := rebuild(p.Children)
			if err != nil {
				return nil, err
			}
			out = append(out, &Node{
				ID:           base.ID,
				Name:         base.Name,
				BudgetAmount: base.BudgetAmount,
				Type:         base.Type,
				Collapsed:    p.Collapsed,
				Children:     children,
			})
		}
		return out, nil
	}

	nodes, err := rebuild(proposed)
	if err != nil {
		return nil, nil, err
	}
	if len(seen) != len(known) {
		return nil, nil, apperrors.WithMessage(apperrors.ErrMalformedForest,
			fmt.Sprintf("Proposed tree has %d of %d categories", len(seen), len(known)))
	}

	next := Forest(nodes)
	Normalize(next)
	return next, Diff(prev, next), nil
}

// InsertRoot places a new record at the front of the forest.
func InsertRoot(f Forest, c models.Category) Forest {
	next := make(Forest, 0, len(f)+1)
	next = append(next, NewNode(c))
	next = append(next, f...)
	Normalize(next)
	return next
}

// ValidateName trims a category name and rejects blank ones.
func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Category name cannot be empty")
	}
	return trimmed, nil
}

// Rename sets the name of one node.
func Rename(f Forest, id uint, name string) error {
	trimmed, err := ValidateName(name)
	if err != nil {
		return err
	}
	n := f.Find(id)
	if n == nil {
		return apperrors.ErrCategoryNotFound
	}
	n.Name = trimmed
	return nil
}

// Rebudget sets the budget of one node. Budgets are stored as magnitudes
// regardless of category type.
func Rebudget(f Forest, id uint, amount decimal.Decimal) error {
	n := f.Find(id)
	if n == nil {
		return apperrors.ErrCategoryNotFound
	}
	n.BudgetAmount = amount.Abs()
	return nil
}
