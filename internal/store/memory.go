package store

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/zdy718/ClearDollar/internal/errors"
	"github.com/zdy718/ClearDollar/internal/models"
)

// Memory is an in-process Store keyed by user id. It keeps insertion order
// and assigns ids from a single counter per record kind.
type Memory struct {
	mu           sync.Mutex
	nextCategory uint
	nextTx       uint
	categories   map[string][]models.Category
	transactions map[string][]models.Transaction
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		categories:   make(map[string][]models.Category),
		transactions: make(map[string][]models.Transaction),
	}
}

func (m *Memory) ListCategories(_ context.Context, userID string) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Category, len(m.categories[userID]))
	copy(out, m.categories[userID])
	return out, nil
}

func (m *Memory) CreateCategory(_ context.Context, userID string, req models.CategoryCreate) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextCategory++
	c := models.Category{
		UserID:       userID,
		ParentID:     req.ParentID,
		Name:         req.Name,
		BudgetAmount: req.BudgetAmount.Abs(),
		Type:         req.Type,
	}
	c.ID = m.nextCategory
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.categories[userID] = append(m.categories[userID], c)
	return &c, nil
}

func (m *Memory) PatchCategory(_ context.Context, userID string, id uint, req models.CategoryPatch) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cats := m.categories[userID]
	for i := range cats {
		if cats[i].ID != id {
			continue
		}
		cats[i].ParentID = req.ParentID
		if req.Name != nil {
			cats[i].Name = *req.Name
		}
		if req.BudgetAmount != nil {
			cats[i].BudgetAmount = req.BudgetAmount.Abs()
		}
		if req.Type != nil {
			cats[i].Type = *req.Type
		}
		cats[i].UpdatedAt = time.Now()
		c := cats[i]
		return &c, nil
	}
	return nil, apperrors.ErrCategoryNotFound
}

func (m *Memory) ListTransactions(_ context.Context, userID string) ([]models.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Transaction, len(m.transactions[userID]))
	copy(out, m.transactions[userID])
	return out, nil
}

func (m *Memory) PatchTransactionCategory(_ context.Context, userID string, transactionID uint, categoryID *uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	txns := m.transactions[userID]
	for i := range txns {
		if txns[i].ID == transactionID {
			txns[i].CategoryID = categoryID
			return nil
		}
	}
	return apperrors.ErrTransactionNotFound
}

// AddTransactions appends transactions for a user, assigning ids.
func (m *Memory) AddTransactions(userID string, txns []models.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tx := range txns {
		m.nextTx++
		tx.ID = m.nextTx
		tx.UserID = userID
		m.transactions[userID] = append(m.transactions[userID], tx)
	}
}
