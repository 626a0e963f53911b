package services

import "github.com/zdy718/ClearDollar/internal/store"

// recordStore exposes the category and transaction services as the store the
// tree engine persists to.
type recordStore struct {
	CategoryServicer
	TransactionServicer
}

// NewRecordStore combines the two services into a store.Store.
func NewRecordStore(categories CategoryServicer, transactions TransactionServicer) store.Store {
	return recordStore{CategoryServicer: categories, TransactionServicer: transactions}
}
