package services

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/zdy718/ClearDollar/internal/errors"
	"github.com/zdy718/ClearDollar/internal/models"
)

// demoCategory is one node of the demo expense hierarchy.
type demoCategory struct {
	name     string
	budget   int64
	children []demoCategory
}

func leaves(names ...string) []demoCategory {
	out := make([]demoCategory, len(names))
	for i, n := range names {
		out[i] = demoCategory{name: n}
	}
	return out
}

var demoHierarchy = []demoCategory{
	{name: "Food", budget: 600, children: []demoCategory{
		{name: "Groceries", children: leaves("Produce", "Packaged Goods", "Beverages")},
		{name: "Restaurants", children: leaves("Fast Food", "Casual Dining", "Fine Dining")},
	}},
	{name: "Housing", budget: 1200, children: []demoCategory{
		{name: "Rent", children: leaves("Base")},
		{name: "Utilities", children: leaves("Electric", "Water", "Gas")},
	}},
	{name: "Transportation", budget: 300, children: []demoCategory{
		{name: "Fuel", children: leaves("Regular", "Premium")},
		{name: "Parking", children: leaves("Street", "Garage")},
	}},
	{name: "Entertainment", budget: 200, children: []demoCategory{
		{name: "Streaming", children: leaves("Netflix", "Hulu", "Spotify")},
		{name: "Events", children: leaves("Movies", "Live Show")},
	}},
}

const (
	demoTransactionCount = 20
	demoTaggedShare      = 0.85
	demoMerchant         = "Merchant Details Here"
)

// DemoSeedResult reports what Seed created.
type DemoSeedResult struct {
	Categories   int `json:"categories"`
	Transactions int `json:"transactions"`
}

// demoService seeds the demo expense hierarchy and sample spending.
type demoService struct {
	categories   CategoryServicer
	transactions TransactionServicer
	now          func() time.Time
	rng          *rand.Rand
}

// NewDemoService creates a new DemoServicer. seed fixes the generated sample
// transactions.
func NewDemoService(categories CategoryServicer, transactions TransactionServicer, seed uint64) DemoServicer {
	return &demoService{
		categories:   categories,
		transactions: transactions,
		now:          time.Now,
		rng:          rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Seed creates the demo hierarchy for a user who has no categories yet, plus
// a batch of sample expenses over the last 90 days.
func (s *demoService) Seed(ctx context.Context, userID string) (*DemoSeedResult, error) {
	existing, err := s.categories.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, apperrors.ErrAlreadySeeded
	}

	var created []uint
	var create func(nodes []demoCategory, parent *uint) error
	create = func(nodes []demoCategory, parent *uint) error {
		for _, n := range nodes {
			c, err := s.categories.CreateCategory(ctx, userID, models.CategoryCreate{
				ParentID:     parent,
				Name:         n.name,
				BudgetAmount: decimal.NewFromInt(n.budget),
				Type:         models.CategoryTypeExpense,
			})
			if err != nil {
				return err
			}
			created = append(created, c.ID)
			id := c.ID
			if err := create(n.children, &id); err != nil {
				return err
			}
		}
		return nil
	}
	if err := create(demoHierarchy, nil); err != nil {
		return nil, err
	}

	count, err := s.transactions.ImportTransactions(ctx, userID, s.sampleTransactions(created))
	if err != nil {
		return nil, err
	}
	return &DemoSeedResult{Categories: len(created), Transactions: count}, nil
}

func (s *demoService) sampleTransactions(categoryIDs []uint) []models.Transaction {
	today := s.now().Truncate(24 * time.Hour)
	txns := make([]models.Transaction, 0, demoTransactionCount)
	for i := 0; i < demoTransactionCount; i++ {
		cents := s.rng.Int64N(15000) + 1
		tx := models.Transaction{
			Date:            today.AddDate(0, 0, -s.rng.IntN(90)),
			Amount:          decimal.New(-cents, -2),
			MerchantDetails: demoMerchant,
		}
		if len(categoryIDs) > 0 && s.rng.Float64() < demoTaggedShare {
			id := categoryIDs[s.rng.IntN(len(categoryIDs))]
			tx.CategoryID = &id
		}
		txns = append(txns, tx)
	}
	return txns
}
