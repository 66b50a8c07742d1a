package service

import (
	"context"
	"errors"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	currencystore "github.com/smakki/FinanceManager-sub000/internal/catalog/store/currency"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
	"github.com/smakki/FinanceManager-sub000/pkg/requestcontext"
)

// CreateCurrency adds a currency. Both natural keys are checked up front;
// races land on the unique indexes and map to the same structured errors.
func (s *Service) CreateCurrency(ctx context.Context, req *models.CreateCurrencyRequest) (*models.Currency, error) {
	req.Normalize()

	var currency *models.Currency
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := models.NewCurrency(id.NewCurrencyID(), req.Name, req.CharCode, req.NumCode, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		if err := s.checkCurrencyCodesFree(txCtx, c.CharCode, c.NumCode, c.ID); err != nil {
			return err
		}
		if err := s.currencies.Create(txCtx, c); err != nil {
			return mapCurrencyWriteErr(err, c)
		}
		currency = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return currency, nil
}

func (s *Service) GetCurrency(ctx context.Context, currencyID id.CurrencyID) (*models.Currency, error) {
	if err := requireCurrencyID(currencyID); err != nil {
		return nil, err
	}
	currency, err := s.currencies.FindByID(ctx, currencyID)
	if err != nil {
		return nil, wrapCurrencyErr(err, currencyID)
	}
	return currency, nil
}

func (s *Service) ListCurrencies(ctx context.Context, filter models.ListFilter) ([]*models.Currency, error) {
	filter.Page = filter.Page.Normalize()
	currencies, err := s.currencies.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list currencies")
	}
	return currencies, nil
}

func (s *Service) UpdateCurrency(ctx context.Context, req *models.UpdateCurrencyRequest) (*models.Currency, error) {
	if err := requireCurrencyID(req.ID); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var currency *models.Currency
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		c, err := s.currencies.FindByID(txCtx, req.ID)
		if err != nil {
			return wrapCurrencyErr(err, req.ID)
		}

		changed := false
		if req.Name != nil && *req.Name != c.Name {
			c.Name = *req.Name
			changed = true
		}
		charCode := c.CharCode
		if req.CharCode != nil && *req.CharCode != c.CharCode {
			charCode = *req.CharCode
			changed = true
		}
		numCode := c.NumCode
		if req.NumCode != nil && *req.NumCode != c.NumCode {
			numCode = *req.NumCode
			changed = true
		}
		if !changed {
			currency = c
			return nil
		}

		if charCode != c.CharCode || numCode != c.NumCode {
			if err := s.checkCurrencyCodesFree(txCtx, charCode, numCode, c.ID); err != nil {
				return err
			}
		}
		c.CharCode = charCode
		c.NumCode = numCode
		c.UpdatedAt = requestcontext.Now(txCtx)
		if err := s.currencies.Update(txCtx, c); err != nil {
			return mapCurrencyWriteErr(err, c)
		}
		currency = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return currency, nil
}

// SoftDeleteCurrency marks the currency deleted. Idempotent.
func (s *Service) SoftDeleteCurrency(ctx context.Context, currencyID id.CurrencyID) (*models.Currency, error) {
	if err := requireCurrencyID(currencyID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	currency, err := s.currencies.Execute(ctx, currencyID,
		func(*models.Currency) error { return nil },
		func(c *models.Currency) {
			if c.IsDeleted {
				return
			}
			c.ApplySoftDelete(now)
		},
	)
	if err != nil {
		return nil, wrapCurrencyErr(err, currencyID)
	}
	return currency, nil
}

// RestoreCurrency clears the deleted mark. Idempotent.
func (s *Service) RestoreCurrency(ctx context.Context, currencyID id.CurrencyID) (*models.Currency, error) {
	if err := requireCurrencyID(currencyID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	currency, err := s.currencies.Execute(ctx, currencyID,
		func(*models.Currency) error { return nil },
		func(c *models.Currency) {
			if !c.IsDeleted {
				return
			}
			c.ApplyRestore(now)
		},
	)
	if err != nil {
		return nil, wrapCurrencyErr(err, currencyID)
	}
	return currency, nil
}

// DeleteCurrency permanently removes the currency. Refused while accounts
// or exchange rates still reference it.
func (s *Service) DeleteCurrency(ctx context.Context, currencyID id.CurrencyID) error {
	if err := requireCurrencyID(currencyID); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.currencies.FindByID(txCtx, currencyID); err != nil {
			return wrapCurrencyErr(err, currencyID)
		}
		accounts, err := s.accounts.CountByCurrency(txCtx, currencyID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count currency accounts")
		}
		rates, err := s.rates.CountByCurrency(txCtx, currencyID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count currency rates")
		}
		if accounts+rates > 0 {
			return models.ErrCurrencyInUse(currencyID)
		}
		if err := s.currencies.Delete(txCtx, currencyID); err != nil {
			if errors.Is(err, sentinel.ErrInUse) {
				return models.ErrCurrencyInUse(currencyID)
			}
			return wrapCurrencyErr(err, currencyID)
		}
		return nil
	})
}

// checkCurrencyCodesFree verifies both natural keys against other
// currencies. selfID excludes the currency being updated.
func (s *Service) checkCurrencyCodesFree(ctx context.Context, charCode, numCode string, selfID id.CurrencyID) error {
	existing, err := s.currencies.FindByCharCode(ctx, charCode)
	if err == nil && existing.ID != selfID {
		return models.ErrCurrencyCharCodeExists(charCode)
	}
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check currency char code")
	}

	existing, err = s.currencies.FindByNumCode(ctx, numCode)
	if err == nil && existing.ID != selfID {
		return models.ErrCurrencyNumCodeExists(numCode)
	}
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check currency num code")
	}
	return nil
}

// mapCurrencyWriteErr translates store write failures. The currency store
// tags which unique key a violation hit, so races report the same reason
// codes as the up-front checks.
func mapCurrencyWriteErr(err error, c *models.Currency) error {
	switch {
	case errors.Is(err, currencystore.ErrCharCodeTaken):
		return models.ErrCurrencyCharCodeExists(c.CharCode)
	case errors.Is(err, currencystore.ErrNumCodeTaken):
		return models.ErrCurrencyNumCodeExists(c.NumCode)
	case errors.Is(err, sentinel.ErrDuplicate):
		return models.ErrCurrencyCharCodeExists(c.CharCode)
	case errors.Is(err, sentinel.ErrNotFound):
		return models.ErrCurrencyNotFound(c.ID)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to write currency")
}

func requireCurrencyID(currencyID id.CurrencyID) error {
	if currencyID.IsNil() {
		return models.ErrRequired("currency id")
	}
	return nil
}

func wrapCurrencyErr(err error, currencyID id.CurrencyID) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ErrCurrencyNotFound(currencyID)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "currency storage failure")
}
