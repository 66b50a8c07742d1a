// Package transaction stores transactions. The in-memory and Postgres
// implementations are interchangeable behind the service's store interface.
package transaction

import (
	"context"
	"sort"
	"sync"

	"github.com/smakki/FinanceManager-sub000/internal/transactions/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
)

type InMemory struct {
	mu           sync.RWMutex
	transactions map[id.TransactionID]*models.Transaction
}

func NewInMemory() *InMemory {
	return &InMemory{transactions: make(map[id.TransactionID]*models.Transaction)}
}

func (s *InMemory) Create(_ context.Context, t *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.transactions[t.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, transactionID id.TransactionID) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[transactionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *InMemory) List(_ context.Context, filter models.TransactionFilter) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		if filter.AccountID != nil && t.AccountID != *filter.AccountID {
			continue
		}
		if filter.CategoryID != nil && t.CategoryID != *filter.CategoryID {
			continue
		}
		if filter.From != nil && t.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && t.Date.After(*filter.To) {
			continue
		}
		if t.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sortTransactions(out)
	lo, hi := filter.Page.Bounds(len(out))
	return out[lo:hi], nil
}

func (s *InMemory) Update(_ context.Context, t *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[t.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *t
	s.transactions[t.ID] = &cp
	return nil
}

func (s *InMemory) Delete(_ context.Context, transactionID id.TransactionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[transactionID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.transactions, transactionID)
	return nil
}

// Execute runs validate and mutate on one transaction while holding the
// store lock, so no concurrent writer can slip between check and write.
func (s *InMemory) Execute(_ context.Context, transactionID id.TransactionID, validate func(*models.Transaction) error, mutate func(*models.Transaction)) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[transactionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *t
	if err := validate(&cp); err != nil {
		return nil, err
	}
	mutate(&cp)
	s.transactions[transactionID] = &cp
	out := cp
	return &out, nil
}

// sortTransactions orders by transaction date, newest last, with the id as
// tiebreaker so paging is stable.
func sortTransactions(list []*models.Transaction) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.Before(list[j].Date)
		}
		return list[i].ID.String() < list[j].ID.String()
	})
}
