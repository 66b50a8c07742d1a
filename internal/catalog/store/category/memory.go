// Package category stores categories. Name uniqueness is scoped to
// (holder, parent); root categories compare against other roots only.
package category

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
	mu         sync.RWMutex
	categories map[id.CategoryID]*models.Category
}

func NewInMemory() *InMemory {
	return &InMemory{categories: make(map[id.CategoryID]*models.Category)}
}

func (s *InMemory) Create(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(c) {
		return sentinel.ErrDuplicate
	}
	cp := cloneCategory(c)
	s.categories[c.ID] = cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, categoryID id.CategoryID) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[categoryID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return cloneCategory(c), nil
}

func (s *InMemory) FindByHolderParentName(_ context.Context, holderID id.HolderID, parentID *id.CategoryID, name string) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.categories {
		if c.RegistryHolderID == holderID && sameParent(c.ParentID, parentID) && strings.EqualFold(c.Name, name) {
			return cloneCategory(c), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context, filter models.CategoryFilter) ([]*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Category, 0, len(s.categories))
	for _, c := range s.categories {
		if filter.RegistryHolderID != nil && c.RegistryHolderID != *filter.RegistryHolderID {
			continue
		}
		if filter.ParentID != nil && !sameParent(c.ParentID, filter.ParentID) {
			continue
		}
		if c.IsDeleted && !filter.IncludeDeleted {
			continue
		}
		out = append(out, cloneCategory(c))
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

func (s *InMemory) Update(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	if s.nameTaken(c) {
		return sentinel.ErrDuplicate
	}
	s.categories[c.ID] = cloneCategory(c)
	return nil
}

func (s *InMemory) Delete(_ context.Context, categoryID id.CategoryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[categoryID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.categories, categoryID)
	return nil
}

func (s *InMemory) CountByHolder(_ context.Context, holderID id.HolderID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, c := range s.categories {
		if c.RegistryHolderID == holderID {
			count++
		}
	}
	return count, nil
}

// CountChildren counts direct children of the category, deleted or not.
func (s *InMemory) CountChildren(_ context.Context, categoryID id.CategoryID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, c := range s.categories {
		if c.ParentID != nil && *c.ParentID == categoryID {
			count++
		}
	}
	return count, nil
}

func (s *InMemory) Execute(_ context.Context, categoryID id.CategoryID, validate func(*models.Category) error, mutate func(*models.Category)) (*models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[categoryID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := cloneCategory(c)
	if err := validate(cp); err != nil {
		return nil, err
	}
	mutate(cp)
	if s.nameTaken(cp) {
		return nil, sentinel.ErrDuplicate
	}
	s.categories[categoryID] = cloneCategory(cp)
	return cp, nil
}

func (s *InMemory) nameTaken(c *models.Category) bool {
	for _, existing := range s.categories {
		if existing.ID == c.ID {
			continue
		}
		if existing.RegistryHolderID == c.RegistryHolderID &&
			sameParent(existing.ParentID, c.ParentID) &&
			strings.EqualFold(existing.Name, c.Name) {
			return true
		}
	}
	return false
}

func sameParent(a, b *id.CategoryID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// cloneCategory copies the struct and its pointer field so callers never
// share memory with the store.
func cloneCategory(c *models.Category) *models.Category {
	cp := *c
	if c.ParentID != nil {
		parent := *c.ParentID
		cp.ParentID = &parent
	}
	return &cp
}
