// Package holder stores registry holders. The in-memory and Postgres
// implementations are interchangeable behind the service's store interface.
package holder

import (
	"context"
	"sort"
	"sync"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
)

type InMemory struct {
	mu      sync.RWMutex
	holders map[id.HolderID]*models.RegistryHolder
}

func NewInMemory() *InMemory {
	return &InMemory{holders: make(map[id.HolderID]*models.RegistryHolder)}
}

func (s *InMemory) Create(_ context.Context, h *models.RegistryHolder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.holders {
		if existing.TelegramID == h.TelegramID {
			return sentinel.ErrDuplicate
		}
	}
	cp := *h
	s.holders[h.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, holderID id.HolderID) (*models.RegistryHolder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.holders[holderID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *h
	return &cp, nil
}

func (s *InMemory) FindByTelegramID(_ context.Context, telegramID int64) (*models.RegistryHolder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, h := range s.holders {
		if h.TelegramID == telegramID {
			cp := *h
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context, filter models.ListFilter) ([]*models.RegistryHolder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.RegistryHolder, 0, len(s.holders))
	for _, h := range s.holders {
		if h.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		cp := *h
		out = append(out, &cp)
	}
	sortHolders(out)
	lo, hi := filter.Page.Bounds(len(out))
	return out[lo:hi], nil
}

func (s *InMemory) Update(_ context.Context, h *models.RegistryHolder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.holders[h.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for _, existing := range s.holders {
		if existing.ID != h.ID && existing.TelegramID == h.TelegramID {
			return sentinel.ErrDuplicate
		}
	}
	cp := *h
	s.holders[h.ID] = &cp
	return nil
}

func (s *InMemory) Delete(_ context.Context, holderID id.HolderID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.holders[holderID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.holders, holderID)
	return nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.holders), nil
}

// Execute runs validate and mutate on one holder while holding the store
// lock, so no concurrent writer can slip between check and write.
func (s *InMemory) Execute(_ context.Context, holderID id.HolderID, validate func(*models.RegistryHolder) error, mutate func(*models.RegistryHolder)) (*models.RegistryHolder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.holders[holderID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *h
	if err := validate(&cp); err != nil {
		return nil, err
	}
	mutate(&cp)
	s.holders[holderID] = &cp
	out := cp
	return &out, nil
}

func sortHolders(list []*models.RegistryHolder) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID.String() < list[j].ID.String()
	})
}
