package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	apperrors "github.com/zdy718/ClearDollar/internal/errors"
	"github.com/zdy718/ClearDollar/internal/logger"
	"github.com/zdy718/ClearDollar/internal/models"
	"github.com/zdy718/ClearDollar/internal/store"
	"github.com/zdy718/ClearDollar/internal/tagtree"
)

const (
	msgMovesFailed   = "Some moves failed to save. Refresh to re-sync."
	msgChangesFailed = "Some changes failed to save. Refresh to re-sync."
)

// Session owns the local forest for one (user, mode) pair. Local mutations
// happen synchronously under the session lock; store writes run in the
// background and a failed write discards the local forest via Resync.
type Session struct {
	mu        sync.Mutex
	userID    string
	mode      tagtree.Mode
	store     store.Store
	persister *Persister
	forest    tagtree.Forest
}

// New returns an unloaded session. Call Load before use.
func New(st store.Store, userID string, mode tagtree.Mode) *Session {
	return &Session{
		userID:    userID,
		mode:      mode,
		store:     st,
		persister: NewPersister(st),
		forest:    tagtree.Forest{},
	}
}

// UserID returns the user the session belongs to.
func (s *Session) UserID() string { return s.userID }

// Mode returns the hierarchy the session edits.
func (s *Session) Mode() tagtree.Mode { return s.mode }

// Load fetches the categories and builds the forest.
func (s *Session) Load(ctx context.Context) error {
	return s.Resync(ctx)
}

// Resync discards the local forest and rebuilds it from the store. It is the
// only path by which local state is reconciled with the store.
func (s *Session) Resync(ctx context.Context) error {
	records, err := s.store.ListCategories(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}

	res := tagtree.Build(records, s.mode.CategoryType())
	log := logger.Get()
	for _, d := range res.Dangling {
		log.Debugw("dangling parent reference corrected",
			"user_id", s.userID, "category_id", d.NodeID, "missing_parent_id", d.MissingParentID)
	}
	if len(res.Detached) > 0 {
		log.Warnw("categories detached from a parent cycle",
			"user_id", s.userID, "category_ids", res.Detached)
	}

	s.mu.Lock()
	s.forest = res.Roots
	s.mu.Unlock()
	return nil
}

// Forest returns a copy of the current local forest.
func (s *Session) Forest() tagtree.Forest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forest.Clone()
}

// ProposeRestructure replaces the local forest with the proposed shape and
// persists the changed parents in the background. A malformed proposal is
// rejected before anything changes.
func (s *Session) ProposeRestructure(ctx context.Context, proposed tagtree.Forest) ([]tagtree.Edge, *Task, error) {
	s.mu.Lock()
	next, changes, err := tagtree.Restructure(s.forest, proposed)
	if err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	s.forest = next
	target := next.Clone()
	s.mu.Unlock()

	if len(changes) == 0 {
		return changes, settledTask(nil), nil
	}

	task := newTask()
	go func() {
		bg := context.WithoutCancel(ctx)
		res := s.persister.PersistParents(bg, s.userID, target, changes)
		if res.OK() {
			task.finish(nil)
			return
		}
		logger.Get().Warnw("parent patches failed, resyncing",
			"user_id", s.userID, "attempted", res.Attempted, "failed", len(res.Failed), "error", res.Err())
		task.finish(s.failAndResync(bg, msgMovesFailed, res.Err()))
	}()
	return changes, task, nil
}

// RenameNode renames a node locally, then persists the new name in the
// background.
func (s *Session) RenameNode(ctx context.Context, id uint, name string) (*Task, error) {
	return s.editFields(ctx, id, func(f tagtree.Forest) (models.CategoryPatch, error) {
		if err := tagtree.Rename(f, id, name); err != nil {
			return models.CategoryPatch{}, err
		}
		renamed := f.Find(id).Name
		return models.CategoryPatch{Name: &renamed}, nil
	})
}

// RebudgetNode sets a node's budget locally, then persists the new budget in
// the background.
func (s *Session) RebudgetNode(ctx context.Context, id uint, amount decimal.Decimal) (*Task, error) {
	return s.editFields(ctx, id, func(f tagtree.Forest) (models.CategoryPatch, error) {
		if err := tagtree.Rebudget(f, id, amount); err != nil {
			return models.CategoryPatch{}, err
		}
		budget := f.Find(id).BudgetAmount
		return models.CategoryPatch{BudgetAmount: &budget}, nil
	})
}

// editFields applies mutate to the local forest and persists only the fields
// in the patch it returns, so concurrent edits of different fields of one
// node cannot overwrite each other.
func (s *Session) editFields(ctx context.Context, id uint, mutate func(tagtree.Forest) (models.CategoryPatch, error)) (*Task, error) {
	s.mu.Lock()
	patch, err := mutate(s.forest)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	parentID := s.forest.ParentMap()[id]
	s.mu.Unlock()

	task := newTask()
	go func() {
		bg := context.WithoutCancel(ctx)
		err := s.persister.PersistFields(bg, s.userID, id, parentID, patch)
		if err == nil {
			task.finish(nil)
			return
		}
		logger.Get().Warnw("category update failed, resyncing",
			"user_id", s.userID, "category_id", id, "error", err)
		task.finish(s.failAndResync(bg, msgChangesFailed, err))
	}()
	return task, nil
}

// CreateRootNode creates a category in the store and inserts it at the front
// of the local forest. Creation is not optimistic since the store assigns
// the id.
func (s *Session) CreateRootNode(ctx context.Context, name string, budget decimal.Decimal) (*tagtree.Node, error) {
	trimmed, err := tagtree.ValidateName(name)
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateCategory(ctx, s.userID, models.CategoryCreate{
		Name:         trimmed,
		BudgetAmount: budget.Abs(),
		Type:         s.mode.CategoryType(),
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.forest = tagtree.InsertRoot(s.forest, *created)
	n := *s.forest[0]
	return &n, nil
}

// Totals aggregates the user's transactions under the session's mode.
func (s *Session) Totals(ctx context.Context) (*tagtree.Totals, error) {
	txns, err := s.store.ListTransactions(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	return tagtree.Aggregate(txns, s.mode), nil
}

// View returns the dashboard model at the given drill path.
func (s *Session) View(ctx context.Context, path []uint) (tagtree.View, error) {
	totals, err := s.Totals(ctx)
	if err != nil {
		return tagtree.View{}, err
	}
	nav, err := tagtree.NewNavigatorAt(s.Forest(), path)
	if err != nil {
		return tagtree.View{}, err
	}
	return tagtree.BuildView(nav, totals), nil
}

func (s *Session) failAndResync(ctx context.Context, msg string, cause error) error {
	if err := s.Resync(ctx); err != nil {
		logger.Get().Errorw("resync after failed save", "user_id", s.userID, "error", err)
	}
	failure := apperrors.Wrap(apperrors.ErrPersistenceFailure, cause)
	failure.Message = msg
	return failure
}
