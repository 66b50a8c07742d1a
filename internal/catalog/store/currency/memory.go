// Package currency stores currencies. A currency has two natural keys, so
// duplicate errors are wrapped per key; both still match
// sentinel.ErrDuplicate.
package currency

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
)

var (
	ErrCharCodeTaken = fmt.Errorf("char code: %w", sentinel.ErrDuplicate)
	ErrNumCodeTaken  = fmt.Errorf("num code: %w", sentinel.ErrDuplicate)
)

type InMemory struct {
	mu         sync.RWMutex
	currencies map[id.CurrencyID]*models.Currency
}

func NewInMemory() *InMemory {
	return &InMemory{currencies: make(map[id.CurrencyID]*models.Currency)}
}

func (s *InMemory) Create(_ context.Context, c *models.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkCodes(c); err != nil {
		return err
	}
	cp := *c
	s.currencies[c.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, currencyID id.CurrencyID) (*models.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.currencies[currencyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *InMemory) FindByCharCode(_ context.Context, charCode string) (*models.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.currencies {
		if strings.EqualFold(c.CharCode, charCode) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByNumCode(_ context.Context, numCode string) (*models.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.currencies {
		if c.NumCode == numCode {
			cp := *c
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context, filter models.ListFilter) ([]*models.Currency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Currency, 0, len(s.currencies))
	for _, c := range s.currencies {
		if c.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		cp := *c
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

func (s *InMemory) Update(_ context.Context, c *models.Currency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.currencies[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if err := s.checkCodes(c); err != nil {
		return err
	}
	cp := *c
	s.currencies[c.ID] = &cp
	return nil
}

func (s *InMemory) Delete(_ context.Context, currencyID id.CurrencyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.currencies[currencyID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.currencies, currencyID)
	return nil
}

func (s *InMemory) Execute(_ context.Context, currencyID id.CurrencyID, validate func(*models.Currency) error, mutate func(*models.Currency)) (*models.Currency, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.currencies[currencyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	if err := validate(&cp); err != nil {
		return nil, err
	}
	mutate(&cp)
	s.currencies[currencyID] = &cp
	out := cp
	return &out, nil
}

// checkCodes enforces both natural keys against every other currency.
// Callers hold the write lock.
func (s *InMemory) checkCodes(c *models.Currency) error {
	for _, existing := range s.currencies {
		if existing.ID == c.ID {
			continue
		}
		if strings.EqualFold(existing.CharCode, c.CharCode) {
			return ErrCharCodeTaken
		}
		if existing.NumCode == c.NumCode {
			return ErrNumCodeTaken
		}
	}
	return nil
}
