package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/zdy718/ClearDollar/internal/models"
	"github.com/zdy718/ClearDollar/internal/testutil"
)

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()

		cat, err := svc.CreateCategory(ctx, userID, models.CategoryCreate{
			Name:         "  Food ",
			Type:         models.CategoryTypeExpense,
			BudgetAmount: decimal.NewFromInt(600),
		})
		testutil.AssertNoError(t, err)

		if cat.ID == 0 {
			t.Fatal("expected non-zero category ID")
		}
		if cat.Name != "Food" {
			t.Errorf("expected name Food, got %q", cat.Name)
		}
		testutil.AssertDecimal(t, "600", cat.BudgetAmount)
	})

	t.Run("negative_budget_stored_as_magnitude", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		cat, err := svc.CreateCategory(ctx, testutil.NewUserID(), models.CategoryCreate{
			Name: "Salary", Type: models.CategoryTypeIncome, BudgetAmount: decimal.RequireFromString("-2500.50"),
		})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "2500.50", cat.BudgetAmount)
	})

	t.Run("duplicate_names_allowed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()

		for i := 0; i < 2; i++ {
			_, err := svc.CreateCategory(ctx, userID, models.CategoryCreate{Name: "New Expense Category", Type: models.CategoryTypeExpense})
			testutil.AssertNoError(t, err)
		}
	})

	t.Run("with_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()
		parent := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, nil)

		child, err := svc.CreateCategory(ctx, userID, models.CategoryCreate{Name: "Snacks", Type: models.CategoryTypeExpense, ParentID: &parent.ID})
		testutil.AssertNoError(t, err)

		if child.ParentID == nil || *child.ParentID != parent.ID {
			t.Errorf("expected parent ID %d, got %v", parent.ID, child.ParentID)
		}
	})

	t.Run("invalid_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory(ctx, testutil.NewUserID(), models.CategoryCreate{Name: "Orphan", Type: models.CategoryTypeExpense, ParentID: testutil.UintPtr(99999)})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("parent_of_other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		other := testutil.CreateTestCategory(t, db, testutil.NewUserID(), models.CategoryTypeExpense, nil)

		_, err := svc.CreateCategory(ctx, testutil.NewUserID(), models.CategoryCreate{Name: "Child", Type: models.CategoryTypeExpense, ParentID: &other.ID})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})

	t.Run("parent_of_other_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()
		income := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeIncome, nil)

		_, err := svc.CreateCategory(ctx, userID, models.CategoryCreate{Name: "Food", Type: models.CategoryTypeExpense, ParentID: &income.ID})
		testutil.AssertAppError(t, err, "CATEGORY_TYPE_MISMATCH")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory(ctx, testutil.NewUserID(), models.CategoryCreate{Name: "   ", Type: models.CategoryTypeExpense})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)

		_, err := svc.CreateCategory(ctx, testutil.NewUserID(), models.CategoryCreate{Name: "Savings", Type: "savings"})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestListCategories(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCategoryService(db)

	user1 := testutil.NewUserID()
	user2 := testutil.NewUserID()
	a := testutil.CreateTestCategory(t, db, user1, models.CategoryTypeExpense, nil)
	b := testutil.CreateTestCategory(t, db, user1, models.CategoryTypeIncome, nil)
	testutil.CreateTestCategory(t, db, user2, models.CategoryTypeExpense, nil)

	all, err := svc.ListCategories(ctx, user1)
	testutil.AssertNoError(t, err)
	if len(all) != 2 || all[0].ID != a.ID || all[1].ID != b.ID {
		t.Fatalf("expected categories [%d %d] in creation order, got %+v", a.ID, b.ID, all)
	}

	incomeOnly, err := svc.ListCategoriesByType(ctx, user1, models.CategoryTypeIncome)
	testutil.AssertNoError(t, err)
	if len(incomeOnly) != 1 || incomeOnly[0].ID != b.ID {
		t.Errorf("expected only income category %d, got %+v", b.ID, incomeOnly)
	}
}

func TestPatchCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("parent_always_applied", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()
		food := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, nil)
		groceries := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, &food.ID)

		name := "Supermarket"
		updated, err := svc.PatchCategory(ctx, userID, groceries.ID, models.CategoryPatch{Name: &name})
		testutil.AssertNoError(t, err)

		if updated.ParentID != nil {
			t.Errorf("expected category moved to root, got parent %d", *updated.ParentID)
		}
		if updated.Name != "Supermarket" {
			t.Errorf("expected name Supermarket, got %q", updated.Name)
		}
	})

	t.Run("move_under_sibling", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()
		food := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, nil)
		housing := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, nil)

		updated, err := svc.PatchCategory(ctx, userID, food.ID, models.CategoryPatch{ParentID: &housing.ID})
		testutil.AssertNoError(t, err)

		if updated.ParentID == nil || *updated.ParentID != housing.ID {
			t.Errorf("expected parent %d, got %v", housing.ID, updated.ParentID)
		}
	})

	t.Run("budget_stored_as_magnitude", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()
		food := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, nil)

		budget := decimal.RequireFromString("-75.25")
		updated, err := svc.PatchCategory(ctx, userID, food.ID, models.CategoryPatch{BudgetAmount: &budget})
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, "75.25", updated.BudgetAmount)
	})

	t.Run("self_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()
		food := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, nil)

		_, err := svc.PatchCategory(ctx, userID, food.ID, models.CategoryPatch{ParentID: &food.ID})
		testutil.AssertAppError(t, err, "SELF_PARENT_CATEGORY")
	})

	t.Run("descendant_parent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()
		food := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, nil)
		groceries := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, &food.ID)
		produce := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, &groceries.ID)

		_, err := svc.PatchCategory(ctx, userID, food.ID, models.CategoryPatch{ParentID: &produce.ID})
		testutil.AssertAppError(t, err, "CATEGORY_CYCLE")
	})

	t.Run("type_mismatch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()
		food := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, nil)
		salary := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeIncome, nil)

		_, err := svc.PatchCategory(ctx, userID, food.ID, models.CategoryPatch{ParentID: &salary.ID})
		testutil.AssertAppError(t, err, "CATEGORY_TYPE_MISMATCH")
	})

	t.Run("empty_name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()
		food := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, nil)

		empty := " "
		_, err := svc.PatchCategory(ctx, userID, food.ID, models.CategoryPatch{Name: &empty})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("other_users_category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		food := testutil.CreateTestCategory(t, db, testutil.NewUserID(), models.CategoryTypeExpense, nil)

		_, err := svc.PatchCategory(ctx, testutil.NewUserID(), food.ID, models.CategoryPatch{})
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")
	})
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("untags_transactions", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()
		food := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, nil)
		tx := testutil.CreateTestTransaction(t, db, userID, &food.ID, "-12.00")

		testutil.AssertNoError(t, svc.DeleteCategory(ctx, userID, food.ID))

		_, err := svc.GetCategoryByID(ctx, userID, food.ID)
		testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

		var reloaded models.Transaction
		testutil.AssertNoError(t, db.First(&reloaded, tx.ID).Error)
		if reloaded.CategoryID != nil {
			t.Errorf("expected transaction to be untagged, got category %d", *reloaded.CategoryID)
		}
	})

	t.Run("has_children", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCategoryService(db)
		userID := testutil.NewUserID()
		food := testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, nil)
		testutil.CreateTestCategory(t, db, userID, models.CategoryTypeExpense, &food.ID)

		err := svc.DeleteCategory(ctx, userID, food.ID)
		testutil.AssertAppError(t, err, "CATEGORY_HAS_CHILDREN")
	})
}
