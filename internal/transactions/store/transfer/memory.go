// Package transfer stores transfers between accounts. The in-memory and
// Postgres implementations are interchangeable behind the service's store
// interface.
package transfer

import (
	"context"
	"sort"
	"sync"

	"github.com/smakki/FinanceManager-sub000/internal/transactions/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
)

type InMemory struct {
	mu        sync.RWMutex
	transfers map[id.TransferID]*models.Transfer
}

func NewInMemory() *InMemory {
	return &InMemory{transfers: make(map[id.TransferID]*models.Transfer)}
}

func (s *InMemory) Create(_ context.Context, t *models.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.transfers[t.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, transferID id.TransferID) (*models.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transfers[transferID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *InMemory) List(_ context.Context, filter models.TransferFilter) ([]*models.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Transfer, 0, len(s.transfers))
	for _, t := range s.transfers {
		// The account filter matches either side of the transfer.
		if filter.AccountID != nil && t.FromAccountID != *filter.AccountID && t.ToAccountID != *filter.AccountID {
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
	sortTransfers(out)
	lo, hi := filter.Page.Bounds(len(out))
	return out[lo:hi], nil
}

func (s *InMemory) Update(_ context.Context, t *models.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transfers[t.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *t
	s.transfers[t.ID] = &cp
	return nil
}

func (s *InMemory) Delete(_ context.Context, transferID id.TransferID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transfers[transferID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.transfers, transferID)
	return nil
}

// Execute runs validate and mutate on one transfer while holding the store
// lock, so no concurrent writer can slip between check and write.
func (s *InMemory) Execute(_ context.Context, transferID id.TransferID, validate func(*models.Transfer) error, mutate func(*models.Transfer)) (*models.Transfer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transfers[transferID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *t
	if err := validate(&cp); err != nil {
		return nil, err
	}
	mutate(&cp)
	s.transfers[transferID] = &cp
	out := cp
	return &out, nil
}

func sortTransfers(list []*models.Transfer) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.Before(list[j].Date)
		}
		return list[i].ID.String() < list[j].ID.String()
	})
}
