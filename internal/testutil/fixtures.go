package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zdy718/ClearDollar/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewUserID returns a user id not used by any other fixture.
func NewUserID() string {
	return fmt.Sprintf("user-%d", nextID())
}

// CreateTestCategory creates a category of the given type under parentID,
// or at the root when parentID is nil.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string, categoryType models.CategoryType, parentID *uint) *models.Category {
	t.Helper()
	return CreateNamedCategory(t, db, userID, fmt.Sprintf("Test Category %d", nextID()), categoryType, parentID)
}

// CreateNamedCategory creates a category with the given name and no budget.
func CreateNamedCategory(t *testing.T, db *gorm.DB, userID, name string, categoryType models.CategoryType, parentID *uint) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:   userID,
		ParentID: parentID,
		Name:     name,
		Type:     categoryType,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestTransaction creates a transaction dated today with a signed
// decimal amount such as "-45.00".
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID string, categoryID *uint, amount string) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:          userID,
		CategoryID:      categoryID,
		Amount:          decimal.RequireFromString(amount),
		Date:            time.Now().UTC().Truncate(24 * time.Hour),
		MerchantDetails: fmt.Sprintf("Merchant %d", nextID()),
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// UintPtr returns a pointer to v.
func UintPtr(v uint) *uint { return &v }
