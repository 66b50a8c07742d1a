package models

import (
	"time"

	"github.com/shopspring/decimal"

	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
)

// ExchangeRate is one currency's quote for one calendar date.
//
// Invariants:
//   - (CurrencyID, RateDate) is unique
//   - Rate is strictly positive
type ExchangeRate struct {
	ID         id.ExchangeRateID `json:"id"`
	CurrencyID id.CurrencyID     `json:"currencyId"`
	RateDate   time.Time         `json:"rateDate"`
	Rate       decimal.Decimal   `json:"rate"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

func NewExchangeRate(rateID id.ExchangeRateID, currencyID id.CurrencyID, rateDate time.Time, rate decimal.Decimal, now time.Time) (*ExchangeRate, error) {
	if !rate.IsPositive() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "rate must be positive")
	}
	return &ExchangeRate{
		ID:         rateID,
		CurrencyID: currencyID,
		RateDate:   NormalizeRateDate(rateDate),
		Rate:       rate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// NormalizeRateDate truncates to midnight UTC so uniqueness compares calendar
// dates, not instants.
func NormalizeRateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type CreateExchangeRateRequest struct {
	CurrencyID id.CurrencyID   `json:"currencyId"`
	RateDate   time.Time       `json:"rateDate"`
	Rate       decimal.Decimal `json:"rate"`
}

type UpdateExchangeRateRequest struct {
	ID       id.ExchangeRateID `json:"id"`
	RateDate *time.Time        `json:"rateDate,omitempty"`
	Rate     *decimal.Decimal  `json:"rate,omitempty"`
}

func (r *UpdateExchangeRateRequest) Validate() error {
	if r.Rate != nil && !r.Rate.IsPositive() {
		return dErrors.New(dErrors.CodeInvariantViolation, "rate must be positive")
	}
	return nil
}

// ExchangeRateFilter narrows rate listings.
type ExchangeRateFilter struct {
	CurrencyID *id.CurrencyID
	From       *time.Time
	To         *time.Time
	Page       id.PageParams
}
