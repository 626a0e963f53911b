package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/zdy718/ClearDollar/internal/models"
	"github.com/zdy718/ClearDollar/internal/session"
	"github.com/zdy718/ClearDollar/internal/tagtree"
	"github.com/zdy718/ClearDollar/internal/testutil"
)

func newBudgetService(db *gorm.DB) (BudgetServicer, CategoryServicer) {
	categories := NewCategoryService(db)
	transactions := NewTransactionService(db, categories)
	manager := session.NewManager(NewRecordStore(categories, transactions), 16, time.Hour)
	return NewBudgetService(manager), categories
}

func TestBudgetServiceView(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc, _ := newBudgetService(db)
	userID := testutil.NewUserID()

	food := testutil.CreateNamedCategory(t, db, userID, "Food", models.CategoryTypeExpense, nil)
	groceries := testutil.CreateNamedCategory(t, db, userID, "Groceries", models.CategoryTypeExpense, &food.ID)
	testutil.CreateTestTransaction(t, db, userID, &groceries.ID, "-45.00")
	testutil.CreateTestTransaction(t, db, userID, nil, "30.00")

	view, err := svc.View(ctx, userID, tagtree.ModeExpense, nil)
	testutil.AssertNoError(t, err)
	if len(view.Slices) != 1 || view.Slices[0].Name != "Food" {
		t.Fatalf("expected a single Food slice, got %+v", view.Slices)
	}
	testutil.AssertDecimal(t, "45", view.Slices[0].Value)

	income, err := svc.View(ctx, userID, tagtree.ModeIncome, nil)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, "30", income.Untagged)

	_, err = svc.View(ctx, userID, tagtree.ModeExpense, []uint{groceries.ID})
	testutil.AssertAppError(t, err, "INVALID_DRILL_TARGET")
}

func TestBudgetServiceRestructure(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc, categories := newBudgetService(db)
	userID := testutil.NewUserID()

	food := testutil.CreateNamedCategory(t, db, userID, "Food", models.CategoryTypeExpense, nil)
	groceries := testutil.CreateNamedCategory(t, db, userID, "Groceries", models.CategoryTypeExpense, &food.ID)

	result, err := svc.Restructure(ctx, userID, tagtree.ModeExpense, tagtree.Forest{
		{ID: food.ID},
		{ID: groceries.ID},
	})
	testutil.AssertNoError(t, err)

	if len(result.Changes) != 1 || result.Changes[0].NodeID != groceries.ID || result.Changes[0].ParentID != nil {
		t.Fatalf("expected only groceries moved to root, got %+v", result.Changes)
	}
	stored, err := categories.GetCategoryByID(ctx, userID, groceries.ID)
	testutil.AssertNoError(t, err)
	if stored.ParentID != nil {
		t.Errorf("expected stored parent to be cleared, got %d", *stored.ParentID)
	}

	_, err = svc.Restructure(ctx, userID, tagtree.ModeExpense, tagtree.Forest{{ID: food.ID}})
	testutil.AssertAppError(t, err, "MALFORMED_FOREST")
}

func TestBudgetServiceRestructureReversesChains(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc, categories := newBudgetService(db)

	assertParent := func(t *testing.T, userID string, id uint, want *uint) {
		t.Helper()
		stored, err := categories.GetCategoryByID(ctx, userID, id)
		testutil.AssertNoError(t, err)
		switch {
		case want == nil && stored.ParentID != nil:
			t.Errorf("category %d: expected root, got parent %d", id, *stored.ParentID)
		case want != nil && (stored.ParentID == nil || *stored.ParentID != *want):
			t.Errorf("category %d: expected parent %d, got %v", id, *want, stored.ParentID)
		}
	}

	// Repeated so that any ordering of the concurrent patches would show up.
	for i := 0; i < 20; i++ {
		userID := testutil.NewUserID()
		a := testutil.CreateNamedCategory(t, db, userID, "A", models.CategoryTypeExpense, nil)
		b := testutil.CreateNamedCategory(t, db, userID, "B", models.CategoryTypeExpense, &a.ID)
		c := testutil.CreateNamedCategory(t, db, userID, "C", models.CategoryTypeExpense, &b.ID)

		result, err := svc.Restructure(ctx, userID, tagtree.ModeExpense, tagtree.Forest{
			{ID: c.ID, Children: []*tagtree.Node{
				{ID: b.ID, Children: []*tagtree.Node{{ID: a.ID}}},
			}},
		})
		testutil.AssertNoError(t, err)
		if len(result.Changes) != 3 {
			t.Fatalf("expected 3 changes, got %+v", result.Changes)
		}

		assertParent(t, userID, c.ID, nil)
		assertParent(t, userID, b.ID, &c.ID)
		assertParent(t, userID, a.ID, &b.ID)
	}
}

func TestRecordStoreSessionSwapsParentAndChild(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	categories := NewCategoryService(db)
	st := NewRecordStore(categories, NewTransactionService(db, categories))

	for i := 0; i < 20; i++ {
		userID := testutil.NewUserID()
		a := testutil.CreateNamedCategory(t, db, userID, "A", models.CategoryTypeExpense, nil)
		b := testutil.CreateNamedCategory(t, db, userID, "B", models.CategoryTypeExpense, &a.ID)

		sess := session.New(st, userID, tagtree.ModeExpense)
		testutil.AssertNoError(t, sess.Load(ctx))

		_, task, err := sess.ProposeRestructure(ctx, tagtree.Forest{
			{ID: b.ID, Children: []*tagtree.Node{{ID: a.ID}}},
		})
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, task.Wait(ctx))

		stored, err := categories.ListCategories(ctx, userID)
		testutil.AssertNoError(t, err)
		parents := map[uint]*uint{}
		for _, c := range stored {
			parents[c.ID] = c.ParentID
		}
		if parents[b.ID] != nil {
			t.Errorf("expected B at the root, got parent %d", *parents[b.ID])
		}
		if parents[a.ID] == nil || *parents[a.ID] != b.ID {
			t.Errorf("expected A under B, got %v", parents[a.ID])
		}
	}
}

func TestBudgetServiceNodes(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc, categories := newBudgetService(db)
	userID := testutil.NewUserID()
	testutil.CreateNamedCategory(t, db, userID, "Salary", models.CategoryTypeIncome, nil)

	node, err := svc.CreateNode(ctx, userID, tagtree.ModeIncome, "Bonus", decimal.NewFromInt(100))
	testutil.AssertNoError(t, err)

	tree, err := svc.Tree(ctx, userID, tagtree.ModeIncome)
	testutil.AssertNoError(t, err)
	if len(tree) != 2 || tree[0].ID != node.ID {
		t.Fatalf("expected new node first of 2 roots, got %+v", tree)
	}

	name := "Annual Bonus"
	budget := decimal.NewFromInt(-250)
	updated, err := svc.UpdateNode(ctx, userID, tagtree.ModeIncome, node.ID, NodeUpdate{Name: &name, BudgetAmount: &budget})
	testutil.AssertNoError(t, err)
	if updated.Name != "Annual Bonus" {
		t.Errorf("expected renamed node, got %q", updated.Name)
	}

	stored, err := categories.GetCategoryByID(ctx, userID, node.ID)
	testutil.AssertNoError(t, err)
	if stored.Name != "Annual Bonus" {
		t.Errorf("expected stored name Annual Bonus, got %q", stored.Name)
	}
	testutil.AssertDecimal(t, "250", stored.BudgetAmount)

	// A later combined edit keeps both fields in the store too.
	for i := 0; i < 10; i++ {
		name := fmt.Sprintf("Bonus %d", i)
		budget := decimal.NewFromInt(int64(500 + i))
		_, err := svc.UpdateNode(ctx, userID, tagtree.ModeIncome, node.ID, NodeUpdate{Name: &name, BudgetAmount: &budget})
		testutil.AssertNoError(t, err)

		stored, err := categories.GetCategoryByID(ctx, userID, node.ID)
		testutil.AssertNoError(t, err)
		if stored.Name != name {
			t.Errorf("expected stored name %q, got %q", name, stored.Name)
		}
		testutil.AssertDecimal(t, budget.String(), stored.BudgetAmount)
	}

	_, err = svc.UpdateNode(ctx, userID, tagtree.ModeIncome, node.ID, NodeUpdate{})
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	blank := ""
	_, err = svc.UpdateNode(ctx, userID, tagtree.ModeIncome, node.ID, NodeUpdate{Name: &blank})
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestBudgetServiceResyncAfterInvalidate(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc, categories := newBudgetService(db)
	userID := testutil.NewUserID()
	testutil.CreateNamedCategory(t, db, userID, "Food", models.CategoryTypeExpense, nil)

	tree, err := svc.Tree(ctx, userID, tagtree.ModeExpense)
	testutil.AssertNoError(t, err)
	if len(tree) != 1 {
		t.Fatalf("expected 1 root, got %d", len(tree))
	}

	_, err = categories.CreateCategory(ctx, userID, models.CategoryCreate{Name: "Housing", Type: models.CategoryTypeExpense})
	testutil.AssertNoError(t, err)

	tree, err = svc.Resync(ctx, userID, tagtree.ModeExpense)
	testutil.AssertNoError(t, err)
	if len(tree) != 2 {
		t.Errorf("expected 2 roots after resync, got %d", len(tree))
	}

	svc.Invalidate(userID)
	tree, err = svc.Tree(ctx, userID, tagtree.ModeExpense)
	testutil.AssertNoError(t, err)
	if len(tree) != 2 {
		t.Errorf("expected 2 roots after reload, got %d", len(tree))
	}
}
