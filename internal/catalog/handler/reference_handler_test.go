package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
)

func (s *HandlerSuite) TestCountryRoutes() {
	georgia := s.createCountry("Georgia")
	s.Equal("Georgia", georgia.Name)

	s.Run("duplicate name conflicts case-insensitively", func() {
		rec := s.do(http.MethodPost, "/api/v1/countries", map[string]any{"name": "georgia"})
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("COUNTRY_NAME_EXISTS", s.problemCode(rec))
	})

	s.Run("update renames", func() {
		rec := s.do(http.MethodPut, "/api/v1/countries", map[string]any{
			"id":   georgia.ID,
			"name": "Sakartvelo",
		})
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		var renamed models.Country
		s.decode(rec, &renamed)
		s.Equal("Sakartvelo", renamed.Name)
	})

	s.Run("delete refused while banks reference it", func() {
		rec := s.do(http.MethodPost, "/api/v1/banks", map[string]any{
			"countryId": georgia.ID,
			"name":      "TBC",
		})
		s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
		var bank models.Bank
		s.decode(rec, &bank)

		rec = s.do(http.MethodDelete, "/api/v1/countries/"+georgia.ID.String(), nil)
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("COUNTRY_IN_USE", s.problemCode(rec))

		rec = s.do(http.MethodDelete, "/api/v1/banks/"+bank.ID.String(), nil)
		s.Require().Equal(http.StatusNoContent, rec.Code)

		rec = s.do(http.MethodDelete, "/api/v1/countries/"+georgia.ID.String(), nil)
		s.Equal(http.StatusNoContent, rec.Code)
	})
}

func (s *HandlerSuite) TestBankRoutes() {
	country := s.createCountry("Latvia")

	rec := s.do(http.MethodPost, "/api/v1/banks", map[string]any{
		"countryId": country.ID,
		"name":      "Citadele",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var bank models.Bank
	s.decode(rec, &bank)
	s.Equal(country.ID, bank.CountryID)

	s.Run("unknown country is 404", func() {
		rec := s.do(http.MethodPost, "/api/v1/banks", map[string]any{
			"countryId": uuid.NewString(),
			"name":      "Ghost Bank",
		})
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal("COUNTRY_NOT_FOUND", s.problemCode(rec))
	})

	s.Run("duplicate name conflicts", func() {
		rec := s.do(http.MethodPost, "/api/v1/banks", map[string]any{
			"countryId": country.ID,
			"name":      "citadele",
		})
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("BANK_NAME_EXISTS", s.problemCode(rec))
	})

	s.Run("soft delete hides from default listing", func() {
		rec := s.do(http.MethodDelete, "/api/v1/banks/"+bank.ID.String()+"/soft", nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		rec = s.do(http.MethodGet, "/api/v1/banks", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var active []models.Bank
		s.decode(rec, &active)
		s.Empty(active)

		rec = s.do(http.MethodGet, "/api/v1/banks?includeDeleted=true", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var all []models.Bank
		s.decode(rec, &all)
		s.Len(all, 1)

		rec = s.do(http.MethodPost, "/api/v1/banks/"+bank.ID.String()+"/restore", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
	})
}

func (s *HandlerSuite) TestCurrencyRoutes() {
	euro := s.createCurrency("Euro", "eur", "978")
	s.Equal("EUR", euro.CharCode, "char code normalizes to upper case")

	s.Run("duplicate char code conflicts", func() {
		rec := s.do(http.MethodPost, "/api/v1/currencies", map[string]any{
			"name":     "Other Euro",
			"charCode": "EUR",
			"numCode":  "979",
		})
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("CURRENCY_CHARCODE_EXISTS", s.problemCode(rec))
	})

	s.Run("duplicate num code conflicts", func() {
		rec := s.do(http.MethodPost, "/api/v1/currencies", map[string]any{
			"name":     "Shadow Euro",
			"charCode": "EUX",
			"numCode":  "978",
		})
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("CURRENCY_NUMCODE_EXISTS", s.problemCode(rec))
	})

	s.Run("malformed char code rejected", func() {
		rec := s.do(http.MethodPost, "/api/v1/currencies", map[string]any{
			"name":     "Broken",
			"charCode": "E1",
			"numCode":  "111",
		})
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("invariant_violation", s.problemCode(rec))
	})

	s.Run("update moves to a free code", func() {
		rec := s.do(http.MethodPut, "/api/v1/currencies", map[string]any{
			"id":       euro.ID,
			"charCode": "ge1",
		})
		s.Equal(http.StatusConflict, rec.Code, "non-letter char code rejected")

		rec = s.do(http.MethodPut, "/api/v1/currencies", map[string]any{
			"id":       euro.ID,
			"charCode": "gel",
			"numCode":  "981",
			"name":     "Lari",
		})
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		var lari models.Currency
		s.decode(rec, &lari)
		s.Equal("GEL", lari.CharCode)
		s.Equal("981", lari.NumCode)
	})
}

func (s *HandlerSuite) TestAccountTypeRoutes() {
	debit := s.createAccountType("Debit card", "debit_card")
	s.Equal("debit_card", debit.Code)

	s.Run("duplicate code conflicts", func() {
		rec := s.do(http.MethodPost, "/api/v1/account-types", map[string]any{
			"name": "Second debit",
			"code": "debit_card",
		})
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("ACCOUNT_TYPE_CODE_EXISTS", s.problemCode(rec))
	})

	s.Run("lifecycle", func() {
		rec := s.do(http.MethodDelete, "/api/v1/account-types/"+debit.ID.String()+"/soft", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var gone models.AccountType
		s.decode(rec, &gone)
		s.True(gone.IsDeleted)

		rec = s.do(http.MethodPost, "/api/v1/account-types/"+debit.ID.String()+"/restore", nil)
		s.Require().Equal(http.StatusOK, rec.Code)

		rec = s.do(http.MethodDelete, "/api/v1/account-types/"+debit.ID.String(), nil)
		s.Equal(http.StatusNoContent, rec.Code)

		rec = s.do(http.MethodGet, "/api/v1/account-types/"+debit.ID.String(), nil)
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal("ACCOUNT_TYPE_NOT_FOUND", s.problemCode(rec))
	})
}
