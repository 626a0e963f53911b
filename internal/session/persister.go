// Package session runs the optimistic edit loop around one user's category
// forest: mutate locally, persist in the background, resync on failure.
package session

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/zdy718/ClearDollar/internal/models"
	"github.com/zdy718/ClearDollar/internal/store"
	"github.com/zdy718/ClearDollar/internal/tagtree"
)

// PatchError is one failed store write.
type PatchError struct {
	NodeID uint
	Err    error
}

func (e PatchError) Error() string {
	return fmt.Sprintf("category %d: %v", e.NodeID, e.Err)
}

func (e PatchError) Unwrap() error { return e.Err }

// PersistResult summarizes a batch of parent patches.
type PersistResult struct {
	Attempted int
	Failed    []PatchError
}

// OK reports whether every patch succeeded.
func (r PersistResult) OK() bool { return len(r.Failed) == 0 }

// Err joins the individual failures, or returns nil.
func (r PersistResult) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Persister writes tree changes to a Store.
type Persister struct {
	store store.Store
}

// NewPersister returns a persister writing to st.
func NewPersister(st store.Store) *Persister {
	return &Persister{store: st}
}

// PersistParents issues one parent-only patch per change. Patches go out in
// waves ordered by the node's depth in target, each wave concurrently, so a
// patch is only sent once its new parent's ancestors are final and a store
// that rejects cycles never sees a half-applied swap. Every patch is
// attempted regardless of the others failing.
func (p *Persister) PersistParents(ctx context.Context, userID string, target tagtree.Forest, changes []tagtree.Edge) PersistResult {
	errs := make([]error, len(changes))

	for _, wave := range wavesByDepth(target, changes) {
		var g errgroup.Group
		for _, i := range wave {
			change := changes[i]
			g.Go(func() error {
				_, errs[i] = p.store.PatchCategory(ctx, userID, change.NodeID, models.CategoryPatch{ParentID: change.ParentID})
				// Failures are collected per index, not through the group.
				return nil
			})
		}
		_ = g.Wait()
	}

	res := PersistResult{Attempted: len(changes)}
	for i, err := range errs {
		if err != nil {
			res.Failed = append(res.Failed, PatchError{NodeID: changes[i].NodeID, Err: err})
		}
	}
	return res
}

// wavesByDepth groups change indexes by the changed node's depth in target,
// shallowest first. Nodes missing from target go in the first wave.
func wavesByDepth(target tagtree.Forest, changes []tagtree.Edge) [][]int {
	depths := target.Depths()
	byDepth := map[int][]int{}
	maxDepth := 0
	for i, c := range changes {
		d := depths[c.NodeID]
		byDepth[d] = append(byDepth[d], i)
		maxDepth = max(maxDepth, d)
	}

	var waves [][]int
	for d := 0; d <= maxDepth; d++ {
		if len(byDepth[d]) > 0 {
			waves = append(waves, byDepth[d])
		}
	}
	return waves
}

// PersistFields writes one node's field patch. The node's current parent is
// always resupplied; only the fields set in patch are changed.
func (p *Persister) PersistFields(ctx context.Context, userID string, id uint, parentID *uint, patch models.CategoryPatch) error {
	patch.ParentID = parentID
	if _, err := p.store.PatchCategory(ctx, userID, id, patch); err != nil {
		return PatchError{NodeID: id, Err: err}
	}
	return nil
}
