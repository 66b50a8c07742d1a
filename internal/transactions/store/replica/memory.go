// Package replica stores the denormalized catalog copies. Only the sync job
// writes here; the request path reads accounts and categories to validate
// transaction references.
package replica

import (
	"context"
	"sync"

	"github.com/smakki/FinanceManager-sub000/internal/transactions/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
)

type InMemory struct {
	mu           sync.RWMutex
	holders      map[id.HolderID]*models.HolderReplica
	accounts     map[id.AccountID]*models.AccountReplica
	accountTypes map[id.AccountTypeID]*models.AccountTypeReplica
	categories   map[id.CategoryID]*models.CategoryReplica
	currencies   map[id.CurrencyID]*models.CurrencyReplica
}

func NewInMemory() *InMemory {
	return &InMemory{
		holders:      make(map[id.HolderID]*models.HolderReplica),
		accounts:     make(map[id.AccountID]*models.AccountReplica),
		accountTypes: make(map[id.AccountTypeID]*models.AccountTypeReplica),
		categories:   make(map[id.CategoryID]*models.CategoryReplica),
		currencies:   make(map[id.CurrencyID]*models.CurrencyReplica),
	}
}

func (s *InMemory) UpsertHolders(_ context.Context, records []*models.HolderReplica) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		cp := *r
		s.holders[r.ID] = &cp
	}
	return nil
}

func (s *InMemory) UpsertAccounts(_ context.Context, records []*models.AccountReplica) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		cp := *r
		s.accounts[r.ID] = &cp
	}
	return nil
}

func (s *InMemory) UpsertAccountTypes(_ context.Context, records []*models.AccountTypeReplica) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		cp := *r
		s.accountTypes[r.ID] = &cp
	}
	return nil
}

func (s *InMemory) UpsertCategories(_ context.Context, records []*models.CategoryReplica) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		cp := *r
		s.categories[r.ID] = &cp
	}
	return nil
}

func (s *InMemory) UpsertCurrencies(_ context.Context, records []*models.CurrencyReplica) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		cp := *r
		s.currencies[r.ID] = &cp
	}
	return nil
}

func (s *InMemory) FindAccount(_ context.Context, accountID id.AccountID) (*models.AccountReplica, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *InMemory) FindCategory(_ context.Context, categoryID id.CategoryID) (*models.CategoryReplica, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[categoryID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// Counts reports rows per replica kind, keyed by the kind's table suffix.
// The sync status endpoint exposes it.
func (s *InMemory) Counts(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[string]int{
		"holders":       len(s.holders),
		"accounts":      len(s.accounts),
		"account_types": len(s.accountTypes),
		"categories":    len(s.categories),
		"currencies":    len(s.currencies),
	}, nil
}
