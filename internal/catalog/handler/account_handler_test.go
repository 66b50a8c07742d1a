package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
)

type accountRefs struct {
	holder   models.RegistryHolder
	accType  models.AccountType
	currency models.Currency
}

func (s *HandlerSuite) seedAccountRefs() accountRefs {
	s.T().Helper()
	return accountRefs{
		holder:   s.createHolder("Owner", 500),
		accType:  s.createAccountType("Debit card", "debit_card"),
		currency: s.createCurrency("Euro", "EUR", "978"),
	}
}

func (s *HandlerSuite) createAccountOverHTTP(refs accountRefs, name string, isDefault bool) models.Account {
	s.T().Helper()
	rec := s.do(http.MethodPost, "/api/v1/accounts", map[string]any{
		"registryHolderId":   refs.holder.ID,
		"accountTypeId":      refs.accType.ID,
		"currencyId":         refs.currency.ID,
		"name":               name,
		"isIncludeInBalance": true,
		"isDefault":          isDefault,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var account models.Account
	s.decode(rec, &account)
	return account
}

func (s *HandlerSuite) TestAccountCRUD() {
	refs := s.seedAccountRefs()
	account := s.createAccountOverHTTP(refs, "Cash", false)
	s.Equal(refs.holder.ID, account.RegistryHolderID)
	s.True(account.BankID.IsNil(), "bank stays optional")
	s.False(account.IsDefault)

	s.Run("missing holder id rejected", func() {
		rec := s.do(http.MethodPost, "/api/v1/accounts", map[string]any{
			"accountTypeId": refs.accType.ID,
			"currencyId":    refs.currency.ID,
			"name":          "Orphan",
		})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		s.Equal("FIELD_REQUIRED", s.problemCode(rec))
	})

	s.Run("unknown currency rejected", func() {
		rec := s.do(http.MethodPost, "/api/v1/accounts", map[string]any{
			"registryHolderId": refs.holder.ID,
			"accountTypeId":    refs.accType.ID,
			"currencyId":       uuid.NewString(),
			"name":             "Wrong money",
		})
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("ACCOUNT_REFERENCE_INVALID", s.problemCode(rec))
	})

	s.Run("update sets a credit limit", func() {
		rec := s.do(http.MethodPut, "/api/v1/accounts", map[string]any{
			"id":          account.ID,
			"creditLimit": "1500.50",
		})
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		var updated models.Account
		s.decode(rec, &updated)
		s.Require().True(updated.CreditLimit.Valid)
		s.Equal("1500.5", updated.CreditLimit.Decimal.String())
	})

	s.Run("listing filters by holder and archived", func() {
		stranger := s.createHolder("Stranger", 600)
		rec := s.do(http.MethodPost, "/api/v1/accounts", map[string]any{
			"registryHolderId": stranger.ID,
			"accountTypeId":    refs.accType.ID,
			"currencyId":       refs.currency.ID,
			"name":             "Not mine",
		})
		s.Require().Equal(http.StatusCreated, rec.Code)

		archived := s.createAccountOverHTTP(refs, "Old wallet", false)
		rec = s.do(http.MethodPut, "/api/v1/accounts", map[string]any{
			"id":         archived.ID,
			"isArchived": true,
		})
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

		rec = s.do(http.MethodGet, "/api/v1/accounts?registryHolderId="+refs.holder.ID.String(), nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var visible []models.Account
		s.decode(rec, &visible)
		s.Len(visible, 1, "archived accounts hidden by default")

		rec = s.do(http.MethodGet, "/api/v1/accounts?registryHolderId="+refs.holder.ID.String()+"&includeArchived=true", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var all []models.Account
		s.decode(rec, &all)
		s.Len(all, 2)
	})

	s.Run("soft delete and hard delete", func() {
		disposable := s.createAccountOverHTTP(refs, "Disposable", false)

		rec := s.do(http.MethodDelete, "/api/v1/accounts/"+disposable.ID.String()+"/soft", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var gone models.Account
		s.decode(rec, &gone)
		s.True(gone.IsDeleted)

		rec = s.do(http.MethodPost, "/api/v1/accounts/"+disposable.ID.String()+"/restore", nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		rec = s.do(http.MethodDelete, "/api/v1/accounts/"+disposable.ID.String(), nil)
		s.Equal(http.StatusNoContent, rec.Code)

		rec = s.do(http.MethodGet, "/api/v1/accounts/"+disposable.ID.String(), nil)
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal("ACCOUNT_NOT_FOUND", s.problemCode(rec))
	})
}

func (s *HandlerSuite) TestSetDefaultEndpoint() {
	refs := s.seedAccountRefs()
	cash := s.createAccountOverHTTP(refs, "Cash", false)
	card := s.createAccountOverHTTP(refs, "Card", false)

	rec := s.do(http.MethodPost, "/api/v1/accounts/"+cash.ID.String()+"/default", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var flagged models.Account
	s.decode(rec, &flagged)
	s.True(flagged.IsDefault)

	s.Run("flag moves on to the next account", func() {
		rec := s.do(http.MethodPost, "/api/v1/accounts/"+card.ID.String()+"/default", nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		rec = s.do(http.MethodGet, "/api/v1/accounts/"+cash.ID.String(), nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var demoted models.Account
		s.decode(rec, &demoted)
		s.False(demoted.IsDefault, "previous default loses the flag")
	})

	s.Run("unknown account", func() {
		rec := s.do(http.MethodPost, "/api/v1/accounts/"+uuid.NewString()+"/default", nil)
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal("ACCOUNT_NOT_FOUND", s.problemCode(rec))
	})

	s.Run("archived account refused", func() {
		shelved := s.createAccountOverHTTP(refs, "Shelved", false)
		rec := s.do(http.MethodPut, "/api/v1/accounts", map[string]any{
			"id":         shelved.ID,
			"isArchived": true,
		})
		s.Require().Equal(http.StatusOK, rec.Code)

		rec = s.do(http.MethodPost, "/api/v1/accounts/"+shelved.ID.String()+"/default", nil)
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("ACCOUNT_NOT_USABLE", s.problemCode(rec))
	})
}

func (s *HandlerSuite) TestUnsetDefaultEndpoint() {
	refs := s.seedAccountRefs()
	cash := s.createAccountOverHTTP(refs, "Cash", true)
	card := s.createAccountOverHTTP(refs, "Card", false)

	s.Run("replacement required", func() {
		rec := s.do(http.MethodPost, "/api/v1/accounts/"+cash.ID.String()+"/default/unset", map[string]any{})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		s.Equal("FIELD_REQUIRED", s.problemCode(rec))
	})

	s.Run("target must hold the flag", func() {
		rec := s.do(http.MethodPost, "/api/v1/accounts/"+card.ID.String()+"/default/unset", map[string]any{
			"replacementAccountId": cash.ID,
		})
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("ACCOUNT_NOT_DEFAULT", s.problemCode(rec))
	})

	s.Run("flag moves to the replacement", func() {
		rec := s.do(http.MethodPost, "/api/v1/accounts/"+cash.ID.String()+"/default/unset", map[string]any{
			"replacementAccountId": card.ID,
		})
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		var former models.Account
		s.decode(rec, &former)
		s.False(former.IsDefault)

		rec = s.do(http.MethodGet, "/api/v1/accounts/"+card.ID.String(), nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var successor models.Account
		s.decode(rec, &successor)
		s.True(successor.IsDefault)
	})
}

// TestDefaultAccountProtection walks the documented flow: the default account
// cannot be deleted until the flag is handed to a replacement.
func (s *HandlerSuite) TestDefaultAccountProtection() {
	refs := s.seedAccountRefs()
	cash := s.createAccountOverHTTP(refs, "Cash", true)
	card := s.createAccountOverHTTP(refs, "Card", true)

	rec := s.do(http.MethodGet, "/api/v1/accounts/"+cash.ID.String(), nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var demoted models.Account
	s.decode(rec, &demoted)
	s.False(demoted.IsDefault, "creating a second default displaces the first")

	rec = s.do(http.MethodDelete, "/api/v1/accounts/"+card.ID.String()+"/soft", nil)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("ACCOUNT_DEFAULT_PROTECTED", s.problemCode(rec))

	rec = s.do(http.MethodPost, "/api/v1/accounts/"+card.ID.String()+"/default/unset", map[string]any{
		"replacementAccountId": cash.ID,
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodDelete, "/api/v1/accounts/"+card.ID.String()+"/soft", nil)
	s.Require().Equal(http.StatusOK, rec.Code, "soft delete allowed once the flag moved on")
	var gone models.Account
	s.decode(rec, &gone)
	s.True(gone.IsDeleted)
}
