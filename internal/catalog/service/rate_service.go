package service

import (
	"context"
	"errors"
	"time"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
	"github.com/smakki/FinanceManager-sub000/pkg/requestcontext"
)

// CreateExchangeRate records a currency's quote for one calendar date. The
// date is truncated to a day; one quote per (currency, day).
func (s *Service) CreateExchangeRate(ctx context.Context, req *models.CreateExchangeRateRequest) (*models.ExchangeRate, error) {
	if err := requireCurrencyID(req.CurrencyID); err != nil {
		return nil, err
	}
	if req.RateDate.IsZero() {
		return nil, models.ErrRequired("rate date")
	}

	var rate *models.ExchangeRate
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		r, err := models.NewExchangeRate(id.NewExchangeRateID(), req.CurrencyID, req.RateDate, req.Rate, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		currency, err := s.currencies.FindByID(txCtx, r.CurrencyID)
		if err != nil {
			return wrapCurrencyErr(err, r.CurrencyID)
		}
		if currency.IsDeleted {
			return models.ErrCurrencyNotFound(r.CurrencyID)
		}
		if err := s.checkRateDateFree(txCtx, r.CurrencyID, r.RateDate, r.ID); err != nil {
			return err
		}
		if err := s.rates.Create(txCtx, r); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return models.ErrExchangeRateDateExists(r.CurrencyID)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create exchange rate")
		}
		rate = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rate, nil
}

func (s *Service) GetExchangeRate(ctx context.Context, rateID id.ExchangeRateID) (*models.ExchangeRate, error) {
	if err := requireRateID(rateID); err != nil {
		return nil, err
	}
	rate, err := s.rates.FindByID(ctx, rateID)
	if err != nil {
		return nil, wrapRateErr(err, rateID)
	}
	return rate, nil
}

func (s *Service) ListExchangeRates(ctx context.Context, filter models.ExchangeRateFilter) ([]*models.ExchangeRate, error) {
	filter.Page = filter.Page.Normalize()
	rates, err := s.rates.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list exchange rates")
	}
	return rates, nil
}

// UpdateExchangeRate changes the quote or moves it to another date. Moving
// re-checks (currency, day) uniqueness.
func (s *Service) UpdateExchangeRate(ctx context.Context, req *models.UpdateExchangeRateRequest) (*models.ExchangeRate, error) {
	if err := requireRateID(req.ID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var rate *models.ExchangeRate
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		r, err := s.rates.FindByID(txCtx, req.ID)
		if err != nil {
			return wrapRateErr(err, req.ID)
		}

		changed := false
		if req.Rate != nil && !req.Rate.Equal(r.Rate) {
			r.Rate = *req.Rate
			changed = true
		}
		if req.RateDate != nil {
			day := models.NormalizeRateDate(*req.RateDate)
			if !day.Equal(r.RateDate) {
				if err := s.checkRateDateFree(txCtx, r.CurrencyID, day, r.ID); err != nil {
					return err
				}
				r.RateDate = day
				changed = true
			}
		}
		if !changed {
			rate = r
			return nil
		}

		r.UpdatedAt = requestcontext.Now(txCtx)
		if err := s.rates.Update(txCtx, r); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return models.ErrExchangeRateDateExists(r.CurrencyID)
			}
			return wrapRateErr(err, req.ID)
		}
		rate = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// DeleteExchangeRate removes the quote. Rates are plain value rows with no
// dependents and no soft-delete cycle.
func (s *Service) DeleteExchangeRate(ctx context.Context, rateID id.ExchangeRateID) error {
	if err := requireRateID(rateID); err != nil {
		return err
	}
	if err := s.rates.Delete(ctx, rateID); err != nil {
		return wrapRateErr(err, rateID)
	}
	return nil
}

func (s *Service) checkRateDateFree(ctx context.Context, currencyID id.CurrencyID, date time.Time, selfID id.ExchangeRateID) error {
	existing, err := s.rates.FindByCurrencyAndDate(ctx, currencyID, date)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check rate date")
	}
	if existing.ID != selfID {
		return models.ErrExchangeRateDateExists(currencyID)
	}
	return nil
}

func requireRateID(rateID id.ExchangeRateID) error {
	if rateID.IsNil() {
		return models.ErrRequired("exchange rate id")
	}
	return nil
}

func wrapRateErr(err error, rateID id.ExchangeRateID) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ErrExchangeRateNotFound(rateID)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "exchange rate storage failure")
}
