// Package rate stores exchange rates, one row per (currency, calendar date).
package rate

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
)

type InMemory struct {
	mu    sync.RWMutex
	rates map[id.ExchangeRateID]*models.ExchangeRate
}

func NewInMemory() *InMemory {
	return &InMemory{rates: make(map[id.ExchangeRateID]*models.ExchangeRate)}
}

func (s *InMemory) Create(_ context.Context, r *models.ExchangeRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dateTaken(r) {
		return sentinel.ErrDuplicate
	}
	cp := *r
	s.rates[r.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, rateID id.ExchangeRateID) (*models.ExchangeRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rates[rateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *InMemory) FindByCurrencyAndDate(_ context.Context, currencyID id.CurrencyID, date time.Time) (*models.ExchangeRate, error) {
	date = models.NormalizeRateDate(date)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rates {
		if r.CurrencyID == currencyID && r.RateDate.Equal(date) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context, filter models.ExchangeRateFilter) ([]*models.ExchangeRate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.ExchangeRate, 0, len(s.rates))
	for _, r := range s.rates {
		if filter.CurrencyID != nil && r.CurrencyID != *filter.CurrencyID {
			continue
		}
		if filter.From != nil && r.RateDate.Before(models.NormalizeRateDate(*filter.From)) {
			continue
		}
		if filter.To != nil && r.RateDate.After(models.NormalizeRateDate(*filter.To)) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RateDate.Equal(out[j].RateDate) {
			return out[i].RateDate.Before(out[j].RateDate)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	lo, hi := filter.Page.Bounds(len(out))
	return out[lo:hi], nil
}

func (s *InMemory) Update(_ context.Context, r *models.ExchangeRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rates[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if s.dateTaken(r) {
		return sentinel.ErrDuplicate
	}
	cp := *r
	s.rates[r.ID] = &cp
	return nil
}

func (s *InMemory) Delete(_ context.Context, rateID id.ExchangeRateID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rates[rateID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.rates, rateID)
	return nil
}

func (s *InMemory) CountByCurrency(_ context.Context, currencyID id.CurrencyID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, r := range s.rates {
		if r.CurrencyID == currencyID {
			count++
		}
	}
	return count, nil
}

func (s *InMemory) Execute(_ context.Context, rateID id.ExchangeRateID, validate func(*models.ExchangeRate) error, mutate func(*models.ExchangeRate)) (*models.ExchangeRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rates[rateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	if err := validate(&cp); err != nil {
		return nil, err
	}
	mutate(&cp)
	if s.dateTaken(&cp) {
		return nil, sentinel.ErrDuplicate
	}
	s.rates[rateID] = &cp
	out := cp
	return &out, nil
}

func (s *InMemory) dateTaken(r *models.ExchangeRate) bool {
	for _, existing := range s.rates {
		if existing.ID != r.ID && existing.CurrencyID == r.CurrencyID && existing.RateDate.Equal(r.RateDate) {
			return true
		}
	}
	return false
}
