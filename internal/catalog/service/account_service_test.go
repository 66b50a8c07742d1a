package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
)

// AccountServiceSuite covers account CRUD, reference checks and the
// one-default-per-holder flag lifecycle.
type AccountServiceSuite struct {
	suite.Suite
	svc      *Service
	ctx      context.Context
	holder   *models.RegistryHolder
	accType  *models.AccountType
	currency *models.Currency
	bank     *models.Bank
}

func TestAccountServiceSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) SetupTest() {
	s.svc = newTestService()
	s.ctx = context.Background()

	var err error
	s.holder, err = s.svc.CreateRegistryHolder(s.ctx, &models.CreateRegistryHolderRequest{
		Name:       "Primary holder",
		TelegramID: 111,
	})
	s.Require().NoError(err)

	s.accType, err = s.svc.CreateAccountType(s.ctx, &models.CreateAccountTypeRequest{
		Name: "Debit card",
		Code: "debit_card",
	})
	s.Require().NoError(err)

	s.currency, err = s.svc.CreateCurrency(s.ctx, &models.CreateCurrencyRequest{
		Name:     "Euro",
		CharCode: "EUR",
		NumCode:  "978",
	})
	s.Require().NoError(err)

	country, err := s.svc.CreateCountry(s.ctx, &models.CreateCountryRequest{Name: "Georgia"})
	s.Require().NoError(err)
	s.bank, err = s.svc.CreateBank(s.ctx, &models.CreateBankRequest{CountryID: country.ID, Name: "TBC"})
	s.Require().NoError(err)
}

func (s *AccountServiceSuite) newRequest(name string) *models.CreateAccountRequest {
	return &models.CreateAccountRequest{
		RegistryHolderID:   s.holder.ID,
		AccountTypeID:      s.accType.ID,
		CurrencyID:         s.currency.ID,
		BankID:             s.bank.ID,
		Name:               name,
		IsIncludeInBalance: true,
	}
}

func (s *AccountServiceSuite) create(name string) *models.Account {
	account, err := s.svc.CreateAccount(s.ctx, s.newRequest(name))
	s.Require().NoError(err)
	return account
}

func (s *AccountServiceSuite) get(accountID id.AccountID) *models.Account {
	account, err := s.svc.GetAccount(s.ctx, accountID)
	s.Require().NoError(err)
	return account
}

func (s *AccountServiceSuite) TestCreateAccount() {
	s.Run("account created with live references", func() {
		account := s.create("Salary")
		s.Equal("Salary", account.Name)
		s.Equal(s.holder.ID, account.RegistryHolderID)
		s.Equal(s.bank.ID, account.BankID)
		s.False(account.IsDefault)
		s.False(account.IsArchived)
		s.False(account.IsDeleted)
	})

	s.Run("bank is optional", func() {
		req := s.newRequest("Cash stash")
		req.BankID = id.BankID{}
		account, err := s.svc.CreateAccount(s.ctx, req)
		s.Require().NoError(err)
		s.True(account.BankID.IsNil())
	})

	s.Run("soft-deleted bank still referencable", func() {
		_, err := s.svc.SoftDeleteBank(s.ctx, s.bank.ID)
		s.Require().NoError(err)
		defer func() {
			_, err := s.svc.RestoreBank(s.ctx, s.bank.ID)
			s.Require().NoError(err)
		}()

		account, err := s.svc.CreateAccount(s.ctx, s.newRequest("Legacy card"))
		s.Require().NoError(err)
		s.Equal(s.bank.ID, account.BankID)
	})

	s.Run("unknown bank rejected", func() {
		req := s.newRequest("Ghost bank")
		req.BankID = id.NewBankID()
		_, err := s.svc.CreateAccount(s.ctx, req)
		s.Require().Error(err)
		s.Equal("ACCOUNT_REFERENCE_INVALID", dErrors.ReasonOf(err))
	})

	s.Run("unknown account type rejected", func() {
		req := s.newRequest("Ghost type")
		req.AccountTypeID = id.NewAccountTypeID()
		_, err := s.svc.CreateAccount(s.ctx, req)
		s.Require().Error(err)
		s.Equal("ACCOUNT_REFERENCE_INVALID", dErrors.ReasonOf(err))
	})

	s.Run("soft-deleted currency rejected", func() {
		retired, err := s.svc.CreateCurrency(s.ctx, &models.CreateCurrencyRequest{
			Name:     "Mark",
			CharCode: "DEM",
			NumCode:  "276",
		})
		s.Require().NoError(err)
		_, err = s.svc.SoftDeleteCurrency(s.ctx, retired.ID)
		s.Require().NoError(err)

		req := s.newRequest("Old money")
		req.CurrencyID = retired.ID
		_, err = s.svc.CreateAccount(s.ctx, req)
		s.Require().Error(err)
		s.Equal("ACCOUNT_REFERENCE_INVALID", dErrors.ReasonOf(err))
	})

	s.Run("soft-deleted holder rejected", func() {
		_, err := s.svc.SoftDeleteRegistryHolder(s.ctx, s.holder.ID)
		s.Require().NoError(err)
		defer func() {
			_, err := s.svc.RestoreRegistryHolder(s.ctx, s.holder.ID)
			s.Require().NoError(err)
		}()

		_, err = s.svc.CreateAccount(s.ctx, s.newRequest("Orphan"))
		s.Require().Error(err)
		s.Equal("ACCOUNT_REFERENCE_INVALID", dErrors.ReasonOf(err))
	})

	s.Run("unknown holder reports not found", func() {
		req := s.newRequest("Nobody's")
		req.RegistryHolderID = id.NewHolderID()
		_, err := s.svc.CreateAccount(s.ctx, req)
		s.Require().Error(err)
		s.Equal("REGISTRY_HOLDER_NOT_FOUND", dErrors.ReasonOf(err))
	})

	s.Run("missing required ids rejected", func() {
		req := s.newRequest("No holder")
		req.RegistryHolderID = id.HolderID{}
		_, err := s.svc.CreateAccount(s.ctx, req)
		s.Equal("FIELD_REQUIRED", dErrors.ReasonOf(err))

		req = s.newRequest("No type")
		req.AccountTypeID = id.AccountTypeID{}
		_, err = s.svc.CreateAccount(s.ctx, req)
		s.Equal("FIELD_REQUIRED", dErrors.ReasonOf(err))

		req = s.newRequest("No currency")
		req.CurrencyID = id.CurrencyID{}
		_, err = s.svc.CreateAccount(s.ctx, req)
		s.Equal("FIELD_REQUIRED", dErrors.ReasonOf(err))
	})
}

func (s *AccountServiceSuite) TestCreateWithDefaultFlag() {
	req := s.newRequest("Cash")
	req.IsDefault = true
	first, err := s.svc.CreateAccount(s.ctx, req)
	s.Require().NoError(err)
	s.True(first.IsDefault)

	req = s.newRequest("Card")
	req.IsDefault = true
	second, err := s.svc.CreateAccount(s.ctx, req)
	s.Require().NoError(err)
	s.True(second.IsDefault)

	s.False(s.get(first.ID).IsDefault)
	s.True(s.get(second.ID).IsDefault)
}

func (s *AccountServiceSuite) TestSetDefaultAccount() {
	s.Run("first default for the holder", func() {
		account := s.create("Main")
		got, err := s.svc.SetDefaultAccount(s.ctx, account.ID)
		s.Require().NoError(err)
		s.True(got.IsDefault)
	})

	s.Run("flag moves off the previous default", func() {
		previous, err := s.svc.ListAccounts(s.ctx, models.AccountFilter{RegistryHolderID: &s.holder.ID})
		s.Require().NoError(err)
		s.Require().Len(previous, 1)

		next := s.create("Spare")
		got, err := s.svc.SetDefaultAccount(s.ctx, next.ID)
		s.Require().NoError(err)
		s.True(got.IsDefault)

		s.False(s.get(previous[0].ID).IsDefault)
	})

	s.Run("no-op on the current default", func() {
		account := s.create("Settled")
		_, err := s.svc.SetDefaultAccount(s.ctx, account.ID)
		s.Require().NoError(err)

		got, err := s.svc.SetDefaultAccount(s.ctx, account.ID)
		s.Require().NoError(err)
		s.True(got.IsDefault)
	})

	s.Run("archived account refused", func() {
		account := s.create("Dusty")
		archived := true
		_, err := s.svc.UpdateAccount(s.ctx, &models.UpdateAccountRequest{ID: account.ID, IsArchived: &archived})
		s.Require().NoError(err)

		_, err = s.svc.SetDefaultAccount(s.ctx, account.ID)
		s.Require().Error(err)
		s.Equal("ACCOUNT_NOT_USABLE", dErrors.ReasonOf(err))
	})

	s.Run("soft-deleted account refused", func() {
		account := s.create("Gone")
		_, err := s.svc.SoftDeleteAccount(s.ctx, account.ID)
		s.Require().NoError(err)

		_, err = s.svc.SetDefaultAccount(s.ctx, account.ID)
		s.Require().Error(err)
		s.Equal("ACCOUNT_NOT_USABLE", dErrors.ReasonOf(err))
	})

	s.Run("unknown account reports not found", func() {
		_, err := s.svc.SetDefaultAccount(s.ctx, id.NewAccountID())
		s.Require().Error(err)
		s.Equal("ACCOUNT_NOT_FOUND", dErrors.ReasonOf(err))
	})
}

func (s *AccountServiceSuite) TestUnsetDefaultAccount() {
	s.Run("flag moves to the replacement", func() {
		current := s.create("Current")
		replacement := s.create("Backup")
		_, err := s.svc.SetDefaultAccount(s.ctx, current.ID)
		s.Require().NoError(err)

		got, err := s.svc.UnsetDefaultAccount(s.ctx, current.ID, replacement.ID)
		s.Require().NoError(err)
		s.Equal(current.ID, got.ID)
		s.False(got.IsDefault)
		s.True(s.get(replacement.ID).IsDefault)
	})

	s.Run("non-default target rejected", func() {
		plain := s.create("Plain")
		other := s.create("Other")
		_, err := s.svc.UnsetDefaultAccount(s.ctx, plain.ID, other.ID)
		s.Require().Error(err)
		s.Equal("ACCOUNT_NOT_DEFAULT", dErrors.ReasonOf(err))
	})

	s.Run("replacement must differ from the target", func() {
		account := s.create("Lonely")
		_, err := s.svc.SetDefaultAccount(s.ctx, account.ID)
		s.Require().NoError(err)

		_, err = s.svc.UnsetDefaultAccount(s.ctx, account.ID, account.ID)
		s.Require().Error(err)
		s.Equal("ACCOUNT_REPLACEMENT_INVALID", dErrors.ReasonOf(err))
	})

	s.Run("missing replacement rejected", func() {
		account := s.create("Deserted")
		_, err := s.svc.SetDefaultAccount(s.ctx, account.ID)
		s.Require().NoError(err)

		_, err = s.svc.UnsetDefaultAccount(s.ctx, account.ID, id.NewAccountID())
		s.Require().Error(err)
		s.Equal("ACCOUNT_REPLACEMENT_INVALID", dErrors.ReasonOf(err))
	})

	s.Run("replacement of another holder rejected", func() {
		mine := s.create("Mine")
		_, err := s.svc.SetDefaultAccount(s.ctx, mine.ID)
		s.Require().NoError(err)

		stranger, err := s.svc.CreateRegistryHolder(s.ctx, &models.CreateRegistryHolderRequest{
			Name:       "Stranger",
			TelegramID: 222,
		})
		s.Require().NoError(err)
		req := s.newRequest("Foreign")
		req.RegistryHolderID = stranger.ID
		foreign, err := s.svc.CreateAccount(s.ctx, req)
		s.Require().NoError(err)

		_, err = s.svc.UnsetDefaultAccount(s.ctx, mine.ID, foreign.ID)
		s.Require().Error(err)
		s.Equal("ACCOUNT_REPLACEMENT_INVALID", dErrors.ReasonOf(err))
	})

	s.Run("archived replacement rejected", func() {
		current := s.create("Active")
		_, err := s.svc.SetDefaultAccount(s.ctx, current.ID)
		s.Require().NoError(err)

		shelved := s.create("Shelved")
		archived := true
		_, err = s.svc.UpdateAccount(s.ctx, &models.UpdateAccountRequest{ID: shelved.ID, IsArchived: &archived})
		s.Require().NoError(err)

		_, err = s.svc.UnsetDefaultAccount(s.ctx, current.ID, shelved.ID)
		s.Require().Error(err)
		s.Equal("ACCOUNT_REPLACEMENT_INVALID", dErrors.ReasonOf(err))
	})

	s.Run("nil replacement id rejected", func() {
		account := s.create("Unpaired")
		_, err := s.svc.UnsetDefaultAccount(s.ctx, account.ID, id.AccountID{})
		s.Require().Error(err)
		s.Equal("FIELD_REQUIRED", dErrors.ReasonOf(err))
	})
}

func (s *AccountServiceSuite) TestDefaultAccountProtection() {
	current := s.create("Protected")
	_, err := s.svc.SetDefaultAccount(s.ctx, current.ID)
	s.Require().NoError(err)

	s.Run("archive refused", func() {
		archived := true
		_, err := s.svc.UpdateAccount(s.ctx, &models.UpdateAccountRequest{ID: current.ID, IsArchived: &archived})
		s.Require().Error(err)
		s.Equal("ACCOUNT_DEFAULT_PROTECTED", dErrors.ReasonOf(err))
	})

	s.Run("soft delete refused", func() {
		_, err := s.svc.SoftDeleteAccount(s.ctx, current.ID)
		s.Require().Error(err)
		s.Equal("ACCOUNT_DEFAULT_PROTECTED", dErrors.ReasonOf(err))
	})

	s.Run("hard delete refused", func() {
		err := s.svc.DeleteAccount(s.ctx, current.ID)
		s.Require().Error(err)
		s.Equal("ACCOUNT_DEFAULT_PROTECTED", dErrors.ReasonOf(err))
	})

	s.Run("all allowed once the flag moved on", func() {
		replacement := s.create("Successor")
		_, err := s.svc.UnsetDefaultAccount(s.ctx, current.ID, replacement.ID)
		s.Require().NoError(err)

		archived := true
		_, err = s.svc.UpdateAccount(s.ctx, &models.UpdateAccountRequest{ID: current.ID, IsArchived: &archived})
		s.Require().NoError(err)

		unarchived := false
		_, err = s.svc.UpdateAccount(s.ctx, &models.UpdateAccountRequest{ID: current.ID, IsArchived: &unarchived})
		s.Require().NoError(err)

		s.Require().NoError(s.svc.DeleteAccount(s.ctx, current.ID))
	})
}

func (s *AccountServiceSuite) TestUpdateAccount() {
	s.Run("rename leaves the rest untouched", func() {
		account := s.create("Before")
		name := "After"
		got, err := s.svc.UpdateAccount(s.ctx, &models.UpdateAccountRequest{ID: account.ID, Name: &name})
		s.Require().NoError(err)
		s.Equal("After", got.Name)
		s.Equal(account.CurrencyID, got.CurrencyID)
		s.Equal(account.BankID, got.BankID)
	})

	s.Run("request changing nothing returns current state", func() {
		account := s.create("Stable")
		name := account.Name
		include := account.IsIncludeInBalance
		got, err := s.svc.UpdateAccount(s.ctx, &models.UpdateAccountRequest{
			ID:                 account.ID,
			Name:               &name,
			IsIncludeInBalance: &include,
		})
		s.Require().NoError(err)
		s.True(got.UpdatedAt.Equal(account.UpdatedAt))
	})

	s.Run("currency move re-checks the reference", func() {
		account := s.create("Multi")
		retired, err := s.svc.CreateCurrency(s.ctx, &models.CreateCurrencyRequest{
			Name:     "Litas",
			CharCode: "LTL",
			NumCode:  "440",
		})
		s.Require().NoError(err)
		_, err = s.svc.SoftDeleteCurrency(s.ctx, retired.ID)
		s.Require().NoError(err)

		_, err = s.svc.UpdateAccount(s.ctx, &models.UpdateAccountRequest{ID: account.ID, CurrencyID: &retired.ID})
		s.Require().Error(err)
		s.Equal("ACCOUNT_REFERENCE_INVALID", dErrors.ReasonOf(err))

		fresh, err := s.svc.CreateCurrency(s.ctx, &models.CreateCurrencyRequest{
			Name:     "US Dollar",
			CharCode: "USD",
			NumCode:  "840",
		})
		s.Require().NoError(err)
		got, err := s.svc.UpdateAccount(s.ctx, &models.UpdateAccountRequest{ID: account.ID, CurrencyID: &fresh.ID})
		s.Require().NoError(err)
		s.Equal(fresh.ID, got.CurrencyID)
	})

	s.Run("bank cleared with the nil id", func() {
		account := s.create("Branchless")
		s.Require().False(account.BankID.IsNil())

		none := id.BankID{}
		got, err := s.svc.UpdateAccount(s.ctx, &models.UpdateAccountRequest{ID: account.ID, BankID: &none})
		s.Require().NoError(err)
		s.True(got.BankID.IsNil())
	})

	s.Run("credit limit set and cleared", func() {
		account := s.create("Limited")
		limit := decimal.NewNullDecimal(decimal.NewFromInt(500))
		got, err := s.svc.UpdateAccount(s.ctx, &models.UpdateAccountRequest{ID: account.ID, CreditLimit: &limit})
		s.Require().NoError(err)
		s.Require().True(got.CreditLimit.Valid)
		s.True(got.CreditLimit.Decimal.Equal(decimal.NewFromInt(500)))

		cleared := decimal.NullDecimal{}
		got, err = s.svc.UpdateAccount(s.ctx, &models.UpdateAccountRequest{ID: account.ID, CreditLimit: &cleared})
		s.Require().NoError(err)
		s.False(got.CreditLimit.Valid)
	})

	s.Run("negative credit limit rejected", func() {
		account := s.create("Strict")
		limit := decimal.NewNullDecimal(decimal.NewFromInt(-1))
		_, err := s.svc.UpdateAccount(s.ctx, &models.UpdateAccountRequest{ID: account.ID, CreditLimit: &limit})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *AccountServiceSuite) TestAccountLifecycle() {
	s.Run("soft delete and restore are idempotent", func() {
		account := s.create("Cycled")
		deleted, err := s.svc.SoftDeleteAccount(s.ctx, account.ID)
		s.Require().NoError(err)
		s.True(deleted.IsDeleted)

		again, err := s.svc.SoftDeleteAccount(s.ctx, account.ID)
		s.Require().NoError(err)
		s.True(again.IsDeleted)

		restored, err := s.svc.RestoreAccount(s.ctx, account.ID)
		s.Require().NoError(err)
		s.False(restored.IsDeleted)

		restored, err = s.svc.RestoreAccount(s.ctx, account.ID)
		s.Require().NoError(err)
		s.False(restored.IsDeleted)
	})

	s.Run("listing hides archived and deleted by default", func() {
		lister, err := s.svc.CreateRegistryHolder(s.ctx, &models.CreateRegistryHolderRequest{
			Name:       "Lister",
			TelegramID: 333,
		})
		s.Require().NoError(err)
		mint := func(name string) *models.Account {
			req := s.newRequest(name)
			req.RegistryHolderID = lister.ID
			account, err := s.svc.CreateAccount(s.ctx, req)
			s.Require().NoError(err)
			return account
		}

		mint("Visible")

		shelved := mint("Shelved")
		archived := true
		_, err = s.svc.UpdateAccount(s.ctx, &models.UpdateAccountRequest{ID: shelved.ID, IsArchived: &archived})
		s.Require().NoError(err)

		buried := mint("Buried")
		_, err = s.svc.SoftDeleteAccount(s.ctx, buried.ID)
		s.Require().NoError(err)

		listed, err := s.svc.ListAccounts(s.ctx, models.AccountFilter{RegistryHolderID: &lister.ID})
		s.Require().NoError(err)
		s.Len(listed, 1)

		listed, err = s.svc.ListAccounts(s.ctx, models.AccountFilter{
			RegistryHolderID: &lister.ID,
			IncludeArchived:  true,
		})
		s.Require().NoError(err)
		s.Len(listed, 2)

		listed, err = s.svc.ListAccounts(s.ctx, models.AccountFilter{
			RegistryHolderID: &lister.ID,
			IncludeArchived:  true,
			IncludeDeleted:   true,
		})
		s.Require().NoError(err)
		s.Len(listed, 3)
	})

	s.Run("hard delete removes the account", func() {
		account := s.create("Condemned")
		s.Require().NoError(s.svc.DeleteAccount(s.ctx, account.ID))

		_, err := s.svc.GetAccount(s.ctx, account.ID)
		s.Require().Error(err)
		s.Equal("ACCOUNT_NOT_FOUND", dErrors.ReasonOf(err))
	})
}

// TestDefaultAccountFlow walks the flag through a holder's two accounts:
// created as default, displaced by a second default, protected from deletion
// and finally released by moving the flag back.
func (s *AccountServiceSuite) TestDefaultAccountFlow() {
	req := s.newRequest("Cash")
	req.IsDefault = true
	cash, err := s.svc.CreateAccount(s.ctx, req)
	s.Require().NoError(err)
	s.True(cash.IsDefault)

	req = s.newRequest("Card")
	req.IsDefault = true
	card, err := s.svc.CreateAccount(s.ctx, req)
	s.Require().NoError(err)
	s.True(card.IsDefault)
	s.False(s.get(cash.ID).IsDefault)

	_, err = s.svc.SoftDeleteAccount(s.ctx, card.ID)
	s.Require().Error(err)
	s.Equal("ACCOUNT_DEFAULT_PROTECTED", dErrors.ReasonOf(err))

	moved, err := s.svc.UnsetDefaultAccount(s.ctx, card.ID, cash.ID)
	s.Require().NoError(err)
	s.False(moved.IsDefault)
	s.True(s.get(cash.ID).IsDefault)

	deleted, err := s.svc.SoftDeleteAccount(s.ctx, card.ID)
	s.Require().NoError(err)
	s.True(deleted.IsDeleted)
}
