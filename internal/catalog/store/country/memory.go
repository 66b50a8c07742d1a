// Package country stores countries.
package country

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
	mu        sync.RWMutex
	countries map[id.CountryID]*models.Country
}

func NewInMemory() *InMemory {
	return &InMemory{countries: make(map[id.CountryID]*models.Country)}
}

func (s *InMemory) Create(_ context.Context, c *models.Country) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.countries {
		if strings.EqualFold(existing.Name, c.Name) {
			return sentinel.ErrDuplicate
		}
	}
	cp := *c
	s.countries[c.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, countryID id.CountryID) (*models.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.countries[countryID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *InMemory) FindByName(_ context.Context, name string) (*models.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.countries {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context, filter models.ListFilter) ([]*models.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Country, 0, len(s.countries))
	for _, c := range s.countries {
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

func (s *InMemory) Update(_ context.Context, c *models.Country) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.countries[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, existing := range s.countries {
		if existing.ID != c.ID && strings.EqualFold(existing.Name, c.Name) {
			return sentinel.ErrDuplicate
		}
	}
	cp := *c
	s.countries[c.ID] = &cp
	return nil
}

func (s *InMemory) Delete(_ context.Context, countryID id.CountryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.countries[countryID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.countries, countryID)
	return nil
}

func (s *InMemory) Execute(_ context.Context, countryID id.CountryID, validate func(*models.Country) error, mutate func(*models.Country)) (*models.Country, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.countries[countryID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	if err := validate(&cp); err != nil {
		return nil, err
	}
	mutate(&cp)
	s.countries[countryID] = &cp
	out := cp
	return &out, nil
}
