package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
)

func (s *HandlerSuite) TestExchangeRateRoutes() {
	currency := s.createCurrency("US Dollar", "USD", "840")

	rec := s.do(http.MethodPost, "/api/v1/exchange-rates", map[string]any{
		"currencyId": currency.ID,
		"rateDate":   "2024-03-10T15:04:05Z",
		"rate":       "92.5701",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var rate models.ExchangeRate
	s.decode(rec, &rate)
	s.True(rate.RateDate.Equal(time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)),
		"rate date truncates to midnight UTC, got %s", rate.RateDate)
	s.True(rate.Rate.Equal(decimal.RequireFromString("92.5701")))

	s.Run("second quote for the same day conflicts", func() {
		rec := s.do(http.MethodPost, "/api/v1/exchange-rates", map[string]any{
			"currencyId": currency.ID,
			"rateDate":   "2024-03-10T23:59:59Z",
			"rate":       "93.01",
		})
		s.Equal(http.StatusConflict, rec.Code)
		s.Equal("EXCHANGE_RATE_DATE_EXISTS", s.problemCode(rec))
	})

	s.Run("unknown currency is 404", func() {
		rec := s.do(http.MethodPost, "/api/v1/exchange-rates", map[string]any{
			"currencyId": uuid.NewString(),
			"rateDate":   "2024-03-10T00:00:00Z",
			"rate":       "1",
		})
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal("CURRENCY_NOT_FOUND", s.problemCode(rec))
	})

	s.Run("update corrects the quote in place", func() {
		rec := s.do(http.MethodPut, "/api/v1/exchange-rates", map[string]any{
			"id":   rate.ID,
			"rate": "92.6000",
		})
		s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
		var corrected models.ExchangeRate
		s.decode(rec, &corrected)
		s.True(corrected.Rate.Equal(decimal.RequireFromString("92.6")))
		s.True(corrected.RateDate.Equal(rate.RateDate))
	})

	s.Run("list filters by currency and day range", func() {
		for _, day := range []string{"2024-03-11", "2024-03-12", "2024-03-13"} {
			rec := s.do(http.MethodPost, "/api/v1/exchange-rates", map[string]any{
				"currencyId": currency.ID,
				"rateDate":   day + "T12:00:00Z",
				"rate":       "90",
			})
			s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
		}

		rec := s.do(http.MethodGet,
			"/api/v1/exchange-rates?currencyId="+currency.ID.String()+"&from=2024-03-11&to=2024-03-12", nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var window []models.ExchangeRate
		s.decode(rec, &window)
		s.Len(window, 2, "range bounds are inclusive")

		rec = s.do(http.MethodGet, "/api/v1/exchange-rates?currencyId="+currency.ID.String(), nil)
		s.Require().Equal(http.StatusOK, rec.Code)
		var all []models.ExchangeRate
		s.decode(rec, &all)
		s.Len(all, 4)
	})

	s.Run("unparseable range bound rejected", func() {
		rec := s.do(http.MethodGet, "/api/v1/exchange-rates?from=yesterday", nil)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		s.Equal("invalid_input", s.problemCode(rec))
	})

	s.Run("delete removes the quote", func() {
		rec := s.do(http.MethodDelete, "/api/v1/exchange-rates/"+rate.ID.String(), nil)
		s.Equal(http.StatusNoContent, rec.Code)

		rec = s.do(http.MethodGet, "/api/v1/exchange-rates/"+rate.ID.String(), nil)
		s.Equal(http.StatusNotFound, rec.Code)
		s.Equal("EXCHANGE_RATE_NOT_FOUND", s.problemCode(rec))
	})
}
