// Package tagtree is the category tree engine. It rebuilds forests from flat
// category records, aggregates transaction totals per node, tracks drill-down
// navigation and reconciles restructured forests against the previous shape.
//
// Everything in this package is pure and synchronous. Persistence and
// reconciliation with the record store live in the session package.
package tagtree

import (
	"github.com/shopspring/decimal"

	"github.com/zdy718/ClearDollar/internal/models"
)

// Node is one category in a forest together with its ordered children.
type Node struct {
	ID           uint                `json:"id"`
	ParentID     *uint               `json:"parent_id"`
	Name         string              `json:"name"`
	BudgetAmount decimal.Decimal     `json:"budget_amount"`
	Type         models.CategoryType `json:"type"`
	Collapsed    bool                `json:"collapsed"`
	Children     []*Node             `json:"children"`
}

// NewNode wraps a category record in a fresh, collapsed node with no children.
func NewNode(c models.Category) *Node {
	return &Node{
		ID:           c.ID,
		ParentID:     copyID(c.ParentID),
		Name:         c.Name,
		BudgetAmount: c.BudgetAmount,
		Type:         c.Type,
		Collapsed:    true,
		Children:     []*Node{},
	}
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Child returns the direct child with the given id, or nil.
func (n *Node) Child(id uint) *Node {
	for _, c := range n.Children {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Forest is an ordered list of root nodes.
type Forest []*Node

// Walk visits every node depth-first, parents before children. Returning
// false from fn stops the walk.
func (f Forest) Walk(fn func(n *Node) bool) {
	var walk func(nodes []*Node) bool
	walk = func(nodes []*Node) bool {
		for _, n := range nodes {
			if !fn(n) {
				return false
			}
			if !walk(n.Children) {
				return false
			}
		}
		return true
	}
	walk(f)
}

// Find returns the node with the given id anywhere in the forest, or nil.
func (f Forest) Find(id uint) *Node {
	var found *Node
	f.Walk(func(n *Node) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// Len returns the number of nodes in the forest.
func (f Forest) Len() int {
	count := 0
	f.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Clone returns a deep copy of the forest.
func (f Forest) Clone() Forest {
	out := make(Forest, len(f))
	for i, n := range f {
		out[i] = n.clone()
	}
	return out
}

func (n *Node) clone() *Node {
	cp := *n
	cp.ParentID = copyID(n.ParentID)
	cp.Children = make([]*Node, len(n.Children))
	for i, c := range n.Children {
		cp.Children[i] = c.clone()
	}
	return &cp
}

// Edge is a (node, parent) pair. A nil ParentID places the node at the root.
type Edge struct {
	NodeID   uint  `json:"node_id"`
	ParentID *uint `json:"parent_id"`
}

// Edges flattens the forest into (id, parent id) pairs in depth-first order.
// Parent ids come from each node's position, not from its ParentID field.
func (f Forest) Edges() []Edge {
	var out []Edge
	var walk func(nodes []*Node, parent *uint)
	walk = func(nodes []*Node, parent *uint) {
		for _, n := range nodes {
			out = append(out, Edge{NodeID: n.ID, ParentID: copyID(parent)})
			id := n.ID
			walk(n.Children, &id)
		}
	}
	walk(f, nil)
	return out
}

// ParentMap maps every node id to its positional parent id.
func (f Forest) ParentMap() map[uint]*uint {
	edges := f.Edges()
	m := make(map[uint]*uint, len(edges))
	for _, e := range edges {
		m[e.NodeID] = e.ParentID
	}
	return m
}

// Depths maps every node id to its depth, roots being 0.
func (f Forest) Depths() map[uint]int {
	out := map[uint]int{}
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			out[n.ID] = depth
			walk(n.Children, depth+1)
		}
	}
	walk(f, 0)
	return out
}

func sameParent(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
