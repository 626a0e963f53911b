package services

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	apperrors "github.com/zdy718/ClearDollar/internal/errors"
	"github.com/zdy718/ClearDollar/internal/session"
	"github.com/zdy718/ClearDollar/internal/tagtree"
)

// budgetService drives per-user tree sessions for the HTTP layer.
type budgetService struct {
	sessions *session.Manager
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(sessions *session.Manager) BudgetServicer {
	return &budgetService{sessions: sessions}
}

func (s *budgetService) session(ctx context.Context, userID string, mode tagtree.Mode) (*session.Session, error) {
	sess, err := s.sessions.Get(ctx, userID, mode)
	if err != nil {
		return nil, asAppError(err)
	}
	return sess, nil
}

// View returns the dashboard at the given drill path.
func (s *budgetService) View(ctx context.Context, userID string, mode tagtree.Mode, path []uint) (*tagtree.View, error) {
	sess, err := s.session(ctx, userID, mode)
	if err != nil {
		return nil, err
	}
	view, err := sess.View(ctx, path)
	if err != nil {
		return nil, asAppError(err)
	}
	return &view, nil
}

// Tree returns the current local forest.
func (s *budgetService) Tree(ctx context.Context, userID string, mode tagtree.Mode) (tagtree.Forest, error) {
	sess, err := s.session(ctx, userID, mode)
	if err != nil {
		return nil, err
	}
	return sess.Forest(), nil
}

// Restructure applies a proposed forest and waits for its parent patches.
func (s *budgetService) Restructure(ctx context.Context, userID string, mode tagtree.Mode, proposed tagtree.Forest) (*RestructureResult, error) {
	sess, err := s.session(ctx, userID, mode)
	if err != nil {
		return nil, err
	}
	changes, task, err := sess.ProposeRestructure(ctx, proposed)
	if err != nil {
		return nil, err
	}
	if err := task.Wait(ctx); err != nil {
		return nil, asAppError(err)
	}
	return &RestructureResult{Changes: changes, Forest: sess.Forest()}, nil
}

// CreateNode adds a root category to the mode's hierarchy.
func (s *budgetService) CreateNode(ctx context.Context, userID string, mode tagtree.Mode, name string, budget decimal.Decimal) (*tagtree.Node, error) {
	sess, err := s.session(ctx, userID, mode)
	if err != nil {
		return nil, err
	}
	node, err := sess.CreateRootNode(ctx, name, budget)
	if err != nil {
		return nil, asAppError(err)
	}
	return node, nil
}

// UpdateNode renames and/or rebudgets one node and waits for the writes.
func (s *budgetService) UpdateNode(ctx context.Context, userID string, mode tagtree.Mode, nodeID uint, update NodeUpdate) (*tagtree.Node, error) {
	if update.Name == nil && update.BudgetAmount == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name or budget_amount is required")
	}
	if update.Name != nil {
		if _, err := tagtree.ValidateName(*update.Name); err != nil {
			return nil, err
		}
	}

	sess, err := s.session(ctx, userID, mode)
	if err != nil {
		return nil, err
	}

	var tasks []*session.Task
	if update.Name != nil {
		task, err := sess.RenameNode(ctx, nodeID, *update.Name)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if update.BudgetAmount != nil {
		task, err := sess.RebudgetNode(ctx, nodeID, *update.BudgetAmount)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	var failed error
	for _, task := range tasks {
		if err := task.Wait(ctx); err != nil && failed == nil {
			failed = err
		}
	}
	if failed != nil {
		return nil, asAppError(failed)
	}

	node := sess.Forest().Find(nodeID)
	if node == nil {
		return nil, apperrors.ErrCategoryNotFound
	}
	return node, nil
}

// Resync discards the local forest and rebuilds it from the store.
func (s *budgetService) Resync(ctx context.Context, userID string, mode tagtree.Mode) (tagtree.Forest, error) {
	sess, err := s.session(ctx, userID, mode)
	if err != nil {
		return nil, err
	}
	if err := sess.Resync(ctx); err != nil {
		return nil, asAppError(err)
	}
	return sess.Forest(), nil
}

// Invalidate drops the user's cached sessions.
func (s *budgetService) Invalidate(userID string) {
	s.sessions.Invalidate(userID)
}

// asAppError passes AppErrors through and wraps anything else as internal.
func asAppError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}
