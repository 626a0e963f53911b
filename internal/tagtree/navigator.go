package tagtree

import (
	apperrors "github.com/zdy718/ClearDollar/internal/errors"
)

// RootLabel names the pseudo-root shown when the drill path is empty.
const RootLabel = "All Categories"

// Breadcrumb is one step of the trail from the pseudo-root to the current
// node. Index is the AscendTo argument that returns to this step.
type Breadcrumb struct {
	Label      string `json:"label"`
	CategoryID *uint  `json:"category_id"`
	Index      int    `json:"index"`
}

// Navigator tracks a drill path through one forest.
type Navigator struct {
	forest Forest
	path   []uint
}

// NewNavigator returns a navigator positioned at the forest roots.
func NewNavigator(f Forest) *Navigator {
	return &Navigator{forest: f}
}

// NewNavigatorAt replays path from the roots. Each step must be a valid
// drill target; the first invalid step fails the whole call.
func NewNavigatorAt(f Forest, path []uint) (*Navigator, error) {
	nav := NewNavigator(f)
	for _, id := range path {
		if err := nav.Descend(id); err != nil {
			return nil, err
		}
	}
	return nav, nil
}

// Path returns a copy of the current drill path.
func (nav *Navigator) Path() []uint {
	out := make([]uint, len(nav.path))
	copy(out, nav.path)
	return out
}

// AtRoot reports whether the navigator is showing the forest roots.
func (nav *Navigator) AtRoot() bool { return len(nav.path) == 0 }

// Current returns the node addressed by the path. At the root it returns a
// synthetic node labelled RootLabel whose children are the forest roots; the
// synthetic node has ID 0, which no stored category uses.
func (nav *Navigator) Current() *Node {
	current := &Node{Name: RootLabel, Children: nav.forest}
	for _, id := range nav.path {
		next := current.Child(id)
		if next == nil {
			break
		}
		current = next
	}
	return current
}

// Descend moves into a child of the current node. Leaves cannot be drilled
// into since they have no further breakdown.
func (nav *Navigator) Descend(id uint) error {
	child := nav.Current().Child(id)
	if child == nil {
		return apperrors.WithMessage(apperrors.ErrInvalidDrillTarget, "Category is not a child of the current view")
	}
	if child.IsLeaf() {
		return apperrors.WithMessage(apperrors.ErrInvalidDrillTarget, "Category has no subcategories")
	}
	nav.path = append(nav.path, id)
	return nil
}

// AscendTo truncates the path to index entries. Zero returns to the roots.
func (nav *Navigator) AscendTo(index int) error {
	if index < 0 || index > len(nav.path) {
		return apperrors.ErrInvalidDrillTarget
	}
	nav.path = nav.path[:index]
	return nil
}

// Reset returns to the forest roots.
func (nav *Navigator) Reset() { nav.path = nil }

// Breadcrumbs returns the trail from the pseudo-root to the current node.
func (nav *Navigator) Breadcrumbs() []Breadcrumb {
	crumbs := []Breadcrumb{{Label: RootLabel, Index: 0}}
	current := &Node{Children: nav.forest}
	for i, id := range nav.path {
		current = current.Child(id)
		if current == nil {
			break
		}
		crumbs = append(crumbs, Breadcrumb{Label: current.Name, CategoryID: copyID(&current.ID), Index: i + 1})
	}
	return crumbs
}

// Revalidate swaps in a rebuilt forest and truncates the path at the first
// element that no longer resolves to a drillable node.
func (nav *Navigator) Revalidate(f Forest) {
	nav.forest = f
	current := &Node{Children: f}
	for i, id := range nav.path {
		next := current.Child(id)
		if next == nil || next.IsLeaf() {
			nav.path = nav.path[:i]
			return
		}
		current = next
	}
}
