// Package account stores accounts. The partial unique index on
// (registry_holder_id) WHERE is_default backs the one-default-per-holder
// invariant in Postgres; the in-memory store enforces the same rule under
// its lock.
package account

import (
	"context"
	"sort"
	"sync"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
)

type InMemory struct {
	mu       sync.RWMutex
	accounts map[id.AccountID]*models.Account
}

func NewInMemory() *InMemory {
	return &InMemory{accounts: make(map[id.AccountID]*models.Account)}
}

func (s *InMemory) Create(_ context.Context, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.IsDefault && s.defaultExists(a.RegistryHolderID, a.ID) {
		return sentinel.ErrDuplicate
	}
	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, accountID id.AccountID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *InMemory) FindDefaultForHolder(_ context.Context, holderID id.HolderID) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.RegistryHolderID == holderID && a.IsDefault {
			cp := *a
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context, filter models.AccountFilter) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		if filter.RegistryHolderID != nil && a.RegistryHolderID != *filter.RegistryHolderID {
			continue
		}
		if a.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		if a.IsArchived && !filter.IncludeArchived {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	lo, hi := filter.Page.Bounds(len(out))
	return out[lo:hi], nil
}

func (s *InMemory) Update(_ context.Context, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[a.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if a.IsDefault && s.defaultExists(a.RegistryHolderID, a.ID) {
		return sentinel.ErrDuplicate
	}
	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s *InMemory) Delete(_ context.Context, accountID id.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[accountID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.accounts, accountID)
	return nil
}

func (s *InMemory) CountByHolder(_ context.Context, holderID id.HolderID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, a := range s.accounts {
		if a.RegistryHolderID == holderID {
			count++
		}
	}
	return count, nil
}

func (s *InMemory) CountByBank(_ context.Context, bankID id.BankID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, a := range s.accounts {
		if a.BankID == bankID {
			count++
		}
	}
	return count, nil
}

func (s *InMemory) CountByCurrency(_ context.Context, currencyID id.CurrencyID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, a := range s.accounts {
		if a.CurrencyID == currencyID {
			count++
		}
	}
	return count, nil
}

func (s *InMemory) CountByType(_ context.Context, typeID id.AccountTypeID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, a := range s.accounts {
		if a.AccountTypeID == typeID {
			count++
		}
	}
	return count, nil
}

func (s *InMemory) Execute(_ context.Context, accountID id.AccountID, validate func(*models.Account) error, mutate func(*models.Account)) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *a
	if err := validate(&cp); err != nil {
		return nil, err
	}
	mutate(&cp)
	if cp.IsDefault && s.defaultExists(cp.RegistryHolderID, cp.ID) {
		return nil, sentinel.ErrDuplicate
	}
	s.accounts[accountID] = &cp
	out := cp
	return &out, nil
}

// defaultExists reports whether another account of the holder already holds
// the default flag. Callers hold the lock.
func (s *InMemory) defaultExists(holderID id.HolderID, exclude id.AccountID) bool {
	for _, a := range s.accounts {
		if a.ID != exclude && a.RegistryHolderID == holderID && a.IsDefault {
			return true
		}
	}
	return false
}
