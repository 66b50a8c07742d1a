// Package bank stores banks.
package bank

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
)

type InMemory struct {
	mu    sync.RWMutex
	banks map[id.BankID]*models.Bank
}

func NewInMemory() *InMemory {
	return &InMemory{banks: make(map[id.BankID]*models.Bank)}
}

func (s *InMemory) Create(_ context.Context, b *models.Bank) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.banks {
		if strings.EqualFold(existing.Name, b.Name) {
			return sentinel.ErrDuplicate
		}
	}
	cp := *b
	s.banks[b.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, bankID id.BankID) (*models.Bank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.banks[bankID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.Bank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.banks {
		if strings.EqualFold(b.Name, name) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context, filter models.ListFilter) ([]*models.Bank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Bank, 0, len(s.banks))
	for _, b := range s.banks {
		if b.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		cp := *b
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

func (s *InMemory) Update(_ context.Context, b *models.Bank) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.banks[b.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, existing := range s.banks {
		if existing.ID != b.ID && strings.EqualFold(existing.Name, b.Name) {
			return sentinel.ErrDuplicate
		}
	}
	cp := *b
	s.banks[b.ID] = &cp
	return nil
}

func (s *InMemory) Delete(_ context.Context, bankID id.BankID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.banks[bankID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.banks, bankID)
	return nil
}

// CountByCountry counts every bank referencing the country, soft-deleted
// rows included, because the reference itself is what blocks a hard delete.
func (s *InMemory) CountByCountry(_ context.Context, countryID id.CountryID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, b := range s.banks {
		if b.CountryID == countryID {
			count++
		}
	}
	return count, nil
}

func (s *InMemory) Execute(_ context.Context, bankID id.BankID, validate func(*models.Bank) error, mutate func(*models.Bank)) (*models.Bank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.banks[bankID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *b
	if err := validate(&cp); err != nil {
		return nil, err
	}
	mutate(&cp)
	s.banks[bankID] = &cp
	out := cp
	return &out, nil
}
