package bank

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
)

type BankStoreSuite struct {
	suite.Suite
	store   *InMemory
	ctx     context.Context
	country id.CountryID
}

func (s *BankStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.country = id.NewCountryID()
}

func TestBankStoreSuite(t *testing.T) {
	suite.Run(t, new(BankStoreSuite))
}

func (s *BankStoreSuite) newBank(name string) *models.Bank {
	now := time.Now()
	return &models.Bank{
		ID:        id.NewBankID(),
		CountryID: s.country,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TestNameUniqueness verifies case-insensitive bank names.
func (s *BankStoreSuite) TestNameUniqueness() {
	s.Require().NoError(s.store.Create(s.ctx, s.newBank("Sberbank")))

	err := s.store.Create(s.ctx, s.newBank("SBERBANK"))
	s.Require().ErrorIs(err, sentinel.ErrDuplicate)

	found, err := s.store.FindByName(s.ctx, "sberbank")
	s.Require().NoError(err)
	s.Equal("Sberbank", found.Name)
}

// TestCountryCounting verifies the guard counter for country deletion.
func (s *BankStoreSuite) TestCountryCounting() {
	b := s.newBank("Tinkoff")
	b.IsDeleted = true
	s.Require().NoError(s.store.Create(s.ctx, b))

	count, err := s.store.CountByCountry(s.ctx, s.country)
	s.Require().NoError(err)
	s.Equal(1, count, "soft-deleted banks still reference the country")

	count, err = s.store.CountByCountry(s.ctx, id.NewCountryID())
	s.Require().NoError(err)
	s.Zero(count)
}

// TestReassignment verifies moving a bank between countries.
func (s *BankStoreSuite) TestReassignment() {
	b := s.newBank("Raiffeisen")
	s.Require().NoError(s.store.Create(s.ctx, b))

	other := id.NewCountryID()
	b.CountryID = other
	s.Require().NoError(s.store.Update(s.ctx, b))

	found, err := s.store.FindByID(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal(other, found.CountryID)

	count, err := s.store.CountByCountry(s.ctx, s.country)
	s.Require().NoError(err)
	s.Zero(count)
}
