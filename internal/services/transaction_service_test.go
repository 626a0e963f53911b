package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zdy718/ClearDollar/internal/models"
	"github.com/zdy718/ClearDollar/internal/pagination"
	"github.com/zdy718/ClearDollar/internal/testutil"
)

func TestGetUserTransactions(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, NewCategoryService(db))
	userID := testutil.NewUserID()
	food := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, nil)

	testutil.CreateTestTransaction(t, db, userID, &food.ID, "-10.00")
	testutil.CreateTestTransaction(t, db, userID, &food.ID, "-20.00")
	testutil.CreateTestTransaction(t, db, userID, nil, "30.00")
	testutil.CreateTestTransaction(t, db, testutil.NewUserID(), nil, "-5.00")

	t.Run("all", func(t *testing.T) {
		result, err := svc.GetUserTransactions(ctx, userID, pagination.PageRequest{}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 3 {
			t.Errorf("expected 3 transactions, got %d", result.TotalItems)
		}
		if result.PageSize != 20 {
			t.Errorf("expected default page size 20, got %d", result.PageSize)
		}
	})

	t.Run("by_category", func(t *testing.T) {
		result, err := svc.GetUserTransactions(ctx, userID, pagination.PageRequest{}, TransactionFilter{CategoryID: &food.ID})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 tagged transactions, got %d", result.TotalItems)
		}
	})

	t.Run("untagged", func(t *testing.T) {
		result, err := svc.GetUserTransactions(ctx, userID, pagination.PageRequest{}, TransactionFilter{Untagged: true})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Fatalf("expected 1 untagged transaction, got %d", result.TotalItems)
		}
		testutil.AssertDecimal(t, "30", result.Data[0].Amount)
	})

	t.Run("pagination", func(t *testing.T) {
		result, err := svc.GetUserTransactions(ctx, userID, pagination.PageRequest{Page: 2, PageSize: 2}, TransactionFilter{})
		testutil.AssertNoError(t, err)
		if len(result.Data) != 1 || result.TotalPages != 2 {
			t.Errorf("expected 1 item on page 2 of 2, got %d items of %d pages", len(result.Data), result.TotalPages)
		}
	})
}

func TestPatchTransactionCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("tag_and_untag", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		userID := testutil.NewUserID()
		food := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, nil)
		tx := testutil.CreateTestTransaction(t, db, userID, nil, "-9.99")

		testutil.AssertNoError(t, svc.PatchTransactionCategory(ctx, userID, tx.ID, &food.ID))
		got, err := svc.GetTransactionByID(ctx, userID, tx.ID)
		testutil.AssertNoError(t, err)
		if got.CategoryID == nil || *got.CategoryID != food.ID {
			t.Fatalf("expected category %d, got %v", food.ID, got.CategoryID)
		}

		testutil.AssertNoError(t, svc.PatchTransactionCategory(ctx, userID, tx.ID, nil))
		got, err = svc.GetTransactionByID(ctx, userID, tx.ID)
		testutil.AssertNoError(t, err)
		if got.CategoryID != nil {
			t.Errorf("expected untagged transaction, got category %d", *got.CategoryID)
		}
	})

	t.Run("unknown_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		userID := testutil.NewUserID()
		tx := testutil.CreateTestTransaction(t, db, userID, nil, "-9.99")

		err := svc.PatchTransactionCategory(ctx, userID, tx.ID, testutil.UintPtr(424242))
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("other_users_transaction", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewTransactionService(db, NewCategoryService(db))
		tx := testutil.CreateTestTransaction(t, db, testutil.NewUserID(), nil, "-9.99")

		err := svc.PatchTransactionCategory(ctx, testutil.NewUserID(), tx.ID, nil)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}

func TestImportTransactions(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, NewCategoryService(db))
	userID := testutil.NewUserID()

	parsed := []models.Transaction{
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("-12.34"), MerchantDetails: "COFFEE"},
		{Date: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Amount: decimal.RequireFromString("1500"), MerchantDetails: "PAYROLL"},
	}
	parsed[0].ID = 77

	count, err := svc.ImportTransactions(ctx, userID, parsed)
	testutil.AssertNoError(t, err)
	if count != 2 {
		t.Fatalf("expected 2 imported, got %d", count)
	}

	all, err := svc.ListTransactions(ctx, userID)
	testutil.AssertNoError(t, err)
	if len(all) != 2 {
		t.Fatalf("expected 2 stored transactions, got %d", len(all))
	}
	if all[0].MerchantDetails != "PAYROLL" {
		t.Errorf("expected newest first, got %q", all[0].MerchantDetails)
	}
	for _, tx := range all {
		if tx.UserID != userID || tx.CategoryID != nil {
			t.Errorf("expected untagged transaction of %s, got %+v", userID, tx)
		}
	}

	count, err = svc.ImportTransactions(ctx, userID, nil)
	testutil.AssertNoError(t, err)
	if count != 0 {
		t.Errorf("expected 0 imported, got %d", count)
	}
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewTransactionService(db, NewCategoryService(db))
	userID := testutil.NewUserID()
	tx := testutil.CreateTestTransaction(t, db, userID, nil, "-1.00")

	testutil.AssertNoError(t, svc.DeleteTransaction(ctx, userID, tx.ID))
	_, err := svc.GetTransactionByID(ctx, userID, tx.ID)
	testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
}
