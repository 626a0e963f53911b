// Package store defines the user-scoped record store the category tree engine
// reads from and writes to.
package store

import (
	"context"

	"github.com/zdy718/ClearDollar/internal/models"
)

// Store is the durable source of truth for categories and transactions.
// Every method is scoped to one user. Implementations return *AppError
// values for domain failures.
type Store interface {
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)
	CreateCategory(ctx context.Context, userID string, req models.CategoryCreate) (*models.Category, error)
	// PatchCategory always applies req.ParentID, even when it is nil.
	PatchCategory(ctx context.Context, userID string, id uint, req models.CategoryPatch) (*models.Category, error)
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	PatchTransactionCategory(ctx context.Context, userID string, transactionID uint, categoryID *uint) error
}
