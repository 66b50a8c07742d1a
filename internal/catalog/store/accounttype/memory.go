// Package accounttype stores account types.
package accounttype

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
	types map[id.AccountTypeID]*models.AccountType
}

func NewInMemory() *InMemory {
	return &InMemory{types: make(map[id.AccountTypeID]*models.AccountType)}
}

func (s *InMemory) Create(_ context.Context, t *models.AccountType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.types {
		if strings.EqualFold(existing.Code, t.Code) {
			return sentinel.ErrDuplicate
		}
	}
	cp := *t
	s.types[t.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, typeID id.AccountTypeID) (*models.AccountType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.types[typeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *InMemory) FindByCode(_ context.Context, code string) (*models.AccountType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.types {
		if strings.EqualFold(t.Code, code) {
			cp := *t
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context, filter models.ListFilter) ([]*models.AccountType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.AccountType, 0, len(s.types))
	for _, t := range s.types {
		if t.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		cp := *t
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

func (s *InMemory) Update(_ context.Context, t *models.AccountType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.types[t.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, existing := range s.types {
		if existing.ID != t.ID && strings.EqualFold(existing.Code, t.Code) {
			return sentinel.ErrDuplicate
		}
	}
	cp := *t
	s.types[t.ID] = &cp
	return nil
}

func (s *InMemory) Delete(_ context.Context, typeID id.AccountTypeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.types[typeID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.types, typeID)
	return nil
}

func (s *InMemory) Execute(_ context.Context, typeID id.AccountTypeID, validate func(*models.AccountType) error, mutate func(*models.AccountType)) (*models.AccountType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.types[typeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *t
	if err := validate(&cp); err != nil {
		return nil, err
	}
	mutate(&cp)
	s.types[typeID] = &cp
	out := cp
	return &out, nil
}
