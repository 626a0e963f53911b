package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zdy718/ClearDollar/internal/models"
	"github.com/zdy718/ClearDollar/internal/pagination"
	"github.com/zdy718/ClearDollar/internal/tagtree"
)

// CategoryServicer defines the contract for category record storage.
type CategoryServicer interface {
	ListCategories(ctx context.Context, userID string) ([]models.Category, error)
	ListCategoriesByType(ctx context.Context, userID string, categoryType models.CategoryType) ([]models.Category, error)
	GetCategoryByID(ctx context.Context, userID string, categoryID uint) (*models.Category, error)
	CreateCategory(ctx context.Context, userID string, req models.CategoryCreate) (*models.Category, error)
	PatchCategory(ctx context.Context, userID string, categoryID uint, req models.CategoryPatch) (*models.Category, error)
	DeleteCategory(ctx context.Context, userID string, categoryID uint) error
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	CategoryID *uint
	Untagged   bool
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

// TransactionServicer defines the contract for transaction record storage.
type TransactionServicer interface {
	ListTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
	GetUserTransactions(ctx context.Context, userID string, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(ctx context.Context, userID string, transactionID uint) (*models.Transaction, error)
	PatchTransactionCategory(ctx context.Context, userID string, transactionID uint, categoryID *uint) error
	ImportTransactions(ctx context.Context, userID string, txns []models.Transaction) (int, error)
	DeleteTransaction(ctx context.Context, userID string, transactionID uint) error
}

// RestructureResult reports the outcome of a restructure once its writes
// have settled.
type RestructureResult struct {
	Changes []tagtree.Edge `json:"changes"`
	Forest  tagtree.Forest `json:"forest"`
}

// NodeUpdate holds the optional field edits for one tree node.
type NodeUpdate struct {
	Name         *string
	BudgetAmount *decimal.Decimal
}

// BudgetServicer defines the contract for the category tree engine as seen
// by the HTTP layer. Write methods wait for persistence to settle.
type BudgetServicer interface {
	View(ctx context.Context, userID string, mode tagtree.Mode, path []uint) (*tagtree.View, error)
	Tree(ctx context.Context, userID string, mode tagtree.Mode) (tagtree.Forest, error)
	Restructure(ctx context.Context, userID string, mode tagtree.Mode, proposed tagtree.Forest) (*RestructureResult, error)
	CreateNode(ctx context.Context, userID string, mode tagtree.Mode, name string, budget decimal.Decimal) (*tagtree.Node, error)
	UpdateNode(ctx context.Context, userID string, mode tagtree.Mode, nodeID uint, update NodeUpdate) (*tagtree.Node, error)
	Resync(ctx context.Context, userID string, mode tagtree.Mode) (tagtree.Forest, error)
	Invalidate(userID string)
}

// BankSyncer fetches transactions from the bank aggregator.
type BankSyncer interface {
	ExchangePublicToken(ctx context.Context, publicToken string) (string, error)
	Transactions(ctx context.Context, accessToken string, start, end time.Time) ([]models.Transaction, error)
}

// DemoServicer seeds example data for a user.
type DemoServicer interface {
	Seed(ctx context.Context, userID string) (*DemoSeedResult, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID string, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
