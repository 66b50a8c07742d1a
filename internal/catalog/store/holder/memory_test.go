package holder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
)

type HolderStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *HolderStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestHolderStoreSuite(t *testing.T) {
	suite.Run(t, new(HolderStoreSuite))
}

func (s *HolderStoreSuite) newHolder(name string, telegramID int64) *models.RegistryHolder {
	now := time.Now()
	return &models.RegistryHolder{
		ID:         id.NewHolderID(),
		Name:       name,
		TelegramID: telegramID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// TestCreationAndLookups verifies the store correctly creates and retrieves holders.
func (s *HolderStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds holder by ID", func() {
		h := s.newHolder("alice", 111)
		s.Require().NoError(s.store.Create(s.ctx, h))

		found, err := s.store.FindByID(s.ctx, h.ID)
		s.Require().NoError(err)
		s.Equal(h.Name, found.Name)
		s.Equal(h.TelegramID, found.TelegramID)
	})

	s.Run("finds holder by telegram id", func() {
		h := s.newHolder("bob", 222)
		s.Require().NoError(s.store.Create(s.ctx, h))

		found, err := s.store.FindByTelegramID(s.ctx, 222)
		s.Require().NoError(err)
		s.Equal(h.ID, found.ID)
	})

	s.Run("returns ErrNotFound for unknown ID", func() {
		_, err := s.store.FindByID(s.ctx, id.NewHolderID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestTelegramIDUniqueness verifies the natural key on create and update.
func (s *HolderStoreSuite) TestTelegramIDUniqueness() {
	s.Run("rejects duplicate telegram id on create", func() {
		s.Require().NoError(s.store.Create(s.ctx, s.newHolder("first", 333)))
		err := s.store.Create(s.ctx, s.newHolder("second", 333))
		s.Require().ErrorIs(err, sentinel.ErrDuplicate)
	})

	s.Run("rejects duplicate telegram id on update", func() {
		a := s.newHolder("a", 444)
		b := s.newHolder("b", 555)
		s.Require().NoError(s.store.Create(s.ctx, a))
		s.Require().NoError(s.store.Create(s.ctx, b))

		b.TelegramID = 444
		s.Require().ErrorIs(s.store.Update(s.ctx, b), sentinel.ErrDuplicate)
	})
}

// TestList verifies soft-delete filtering and pagination.
func (s *HolderStoreSuite) TestList() {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := int64(1); i <= 5; i++ {
		h := s.newHolder("holder", i)
		h.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if i == 5 {
			h.IsDeleted = true
		}
		s.Require().NoError(s.store.Create(s.ctx, h))
	}

	s.Run("excludes soft-deleted by default", func() {
		list, err := s.store.List(s.ctx, models.ListFilter{})
		s.Require().NoError(err)
		s.Len(list, 4)
	})

	s.Run("includes soft-deleted on request", func() {
		list, err := s.store.List(s.ctx, models.ListFilter{IncludeDeleted: true})
		s.Require().NoError(err)
		s.Len(list, 5)
	})

	s.Run("pages through results in creation order", func() {
		page1, err := s.store.List(s.ctx, models.ListFilter{Page: id.PageParams{Page: 1, ItemsPerPage: 2}})
		s.Require().NoError(err)
		s.Require().Len(page1, 2)
		s.Equal(int64(1), page1[0].TelegramID)

		page2, err := s.store.List(s.ctx, models.ListFilter{Page: id.PageParams{Page: 2, ItemsPerPage: 2}})
		s.Require().NoError(err)
		s.Require().Len(page2, 2)
		s.Equal(int64(3), page2[0].TelegramID)

		page3, err := s.store.List(s.ctx, models.ListFilter{Page: id.PageParams{Page: 3, ItemsPerPage: 2}})
		s.Require().NoError(err)
		s.Empty(page3)
	})
}

// TestExecute verifies the atomic validate-then-mutate path.
func (s *HolderStoreSuite) TestExecute() {
	s.Run("applies mutation when validation passes", func() {
		h := s.newHolder("mutate me", 666)
		s.Require().NoError(s.store.Create(s.ctx, h))

		now := time.Now()
		updated, err := s.store.Execute(s.ctx, h.ID,
			func(*models.RegistryHolder) error { return nil },
			func(m *models.RegistryHolder) { m.ApplySoftDelete(now) },
		)
		s.Require().NoError(err)
		s.True(updated.IsDeleted)

		found, err := s.store.FindByID(s.ctx, h.ID)
		s.Require().NoError(err)
		s.True(found.IsDeleted)
	})

	s.Run("leaves the row untouched when validation fails", func() {
		h := s.newHolder("keep me", 777)
		s.Require().NoError(s.store.Create(s.ctx, h))

		_, err := s.store.Execute(s.ctx, h.ID,
			func(*models.RegistryHolder) error { return sentinel.ErrInvalidState },
			func(m *models.RegistryHolder) { m.IsDeleted = true },
		)
		s.Require().ErrorIs(err, sentinel.ErrInvalidState)

		found, err := s.store.FindByID(s.ctx, h.ID)
		s.Require().NoError(err)
		s.False(found.IsDeleted)
	})

	s.Run("returns ErrNotFound for unknown holder", func() {
		_, err := s.store.Execute(s.ctx, id.NewHolderID(),
			func(*models.RegistryHolder) error { return nil },
			func(*models.RegistryHolder) {},
		)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

// TestDelete verifies hard deletion.
func (s *HolderStoreSuite) TestDelete() {
	h := s.newHolder("doomed", 888)
	s.Require().NoError(s.store.Create(s.ctx, h))

	s.Require().NoError(s.store.Delete(s.ctx, h.ID))
	_, err := s.store.FindByID(s.ctx, h.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.store.Delete(s.ctx, h.ID), sentinel.ErrNotFound)
}

// TestCopySemantics verifies callers cannot mutate stored state through
// returned pointers.
func (s *HolderStoreSuite) TestCopySemantics() {
	h := s.newHolder("original", 999)
	s.Require().NoError(s.store.Create(s.ctx, h))

	found, err := s.store.FindByID(s.ctx, h.ID)
	s.Require().NoError(err)
	found.Name = "tampered"

	again, err := s.store.FindByID(s.ctx, h.ID)
	s.Require().NoError(err)
	s.Equal("original", again.Name)
}
