package tagtree

import "github.com/zdy718/ClearDollar/internal/models"

// Dangling describes a record whose parent id did not resolve within the
// records of its type. The node was placed at the root instead.
type Dangling struct {
	NodeID          uint
	MissingParentID uint
}

// BuildResult is the outcome of Build: the forest plus the corrections made
// while building it.
type BuildResult struct {
	Roots    Forest
	Dangling []Dangling
	// Detached lists nodes that were only reachable through a parent cycle in
	// a corrupted store and were promoted to roots.
	Detached []uint
}

// BuildForest converts flat category records of one type into a forest.
func BuildForest(records []models.Category, typ models.CategoryType) Forest {
	return Build(records, typ).Roots
}

// Build converts flat category records of one type into a forest. Roots keep
// the order of the input, children the order in which they were encountered.
// A record whose parent is missing from this type's records becomes a root
// and has its ParentID cleared.
func Build(records []models.Category, typ models.CategoryType) BuildResult {
	byID := make(map[uint]*Node, len(records))
	order := make([]*Node, 0, len(records))
	for _, r := range records {
		if r.Type != typ {
			continue
		}
		n := NewNode(r)
		byID[n.ID] = n
		order = append(order, n)
	}

	var res BuildResult
	for _, n := range order {
		if n.ParentID == nil {
			res.Roots = append(res.Roots, n)
			continue
		}
		parent, ok := byID[*n.ParentID]
		if !ok || parent == n {
			res.Dangling = append(res.Dangling, Dangling{NodeID: n.ID, MissingParentID: *n.ParentID})
			n.ParentID = nil
			res.Roots = append(res.Roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	// Anything not reachable from a root hangs off a parent cycle. Promote
	// unreached nodes in record order until every node is reachable.
	reached := make(map[uint]bool, len(order))
	mark := func(root *Node) {
		Forest{root}.Walk(func(n *Node) bool {
			reached[n.ID] = true
			return true
		})
	}
	for _, r := range res.Roots {
		mark(r)
	}
	for _, n := range order {
		if reached[n.ID] {
			continue
		}
		parent := byID[*n.ParentID]
		parent.Children = removeChild(parent.Children, n.ID)
		n.ParentID = nil
		res.Roots = append(res.Roots, n)
		res.Detached = append(res.Detached, n.ID)
		mark(n)
	}

	if res.Roots == nil {
		res.Roots = Forest{}
	}
	return res
}

func removeChild(children []*Node, id uint) []*Node {
	out := children[:0]
	for _, c := range children {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}
