package service

import (
	"context"
	"errors"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
	"github.com/smakki/FinanceManager-sub000/pkg/requestcontext"
)

// CreateBank adds a bank under a country. Names are unique
// case-insensitively across all banks; the country must exist and be live.
func (s *Service) CreateBank(ctx context.Context, req *models.CreateBankRequest) (*models.Bank, error) {
	req.Normalize()
	if err := requireCountryID(req.CountryID); err != nil {
		return nil, err
	}

	var bank *models.Bank
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		b, err := models.NewBank(id.NewBankID(), req.CountryID, req.Name, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		if err := s.checkCountryLive(txCtx, b.CountryID); err != nil {
			return err
		}
		if err := s.checkBankNameFree(txCtx, b.Name, b.ID); err != nil {
			return err
		}
		if err := s.banks.Create(txCtx, b); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return models.ErrBankNameExists(b.Name)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create bank")
		}
		bank = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bank, nil
}

func (s *Service) GetBank(ctx context.Context, bankID id.BankID) (*models.Bank, error) {
	if err := requireBankID(bankID); err != nil {
		return nil, err
	}
	bank, err := s.banks.FindByID(ctx, bankID)
	if err != nil {
		return nil, wrapBankErr(err, bankID)
	}
	return bank, nil
}

func (s *Service) ListBanks(ctx context.Context, filter models.ListFilter) ([]*models.Bank, error) {
	filter.Page = filter.Page.Normalize()
	banks, err := s.banks.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list banks")
	}
	return banks, nil
}

func (s *Service) UpdateBank(ctx context.Context, req *models.UpdateBankRequest) (*models.Bank, error) {
	if err := requireBankID(req.ID); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var bank *models.Bank
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		b, err := s.banks.FindByID(txCtx, req.ID)
		if err != nil {
			return wrapBankErr(err, req.ID)
		}

		changed := false
		if req.Name != nil && *req.Name != b.Name {
			if err := s.checkBankNameFree(txCtx, *req.Name, b.ID); err != nil {
				return err
			}
			b.Name = *req.Name
			changed = true
		}
		if req.CountryID != nil && *req.CountryID != b.CountryID {
			if err := requireCountryID(*req.CountryID); err != nil {
				return err
			}
			if err := s.checkCountryLive(txCtx, *req.CountryID); err != nil {
				return err
			}
			b.CountryID = *req.CountryID
			changed = true
		}
		if !changed {
			bank = b
			return nil
		}

		b.UpdatedAt = requestcontext.Now(txCtx)
		if err := s.banks.Update(txCtx, b); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return models.ErrBankNameExists(b.Name)
			}
			return wrapBankErr(err, req.ID)
		}
		bank = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bank, nil
}

// SoftDeleteBank marks the bank deleted. Idempotent. Accounts keep their
// reference; a deleted bank still identifies where an account is held.
func (s *Service) SoftDeleteBank(ctx context.Context, bankID id.BankID) (*models.Bank, error) {
	if err := requireBankID(bankID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	bank, err := s.banks.Execute(ctx, bankID,
		func(*models.Bank) error { return nil },
		func(b *models.Bank) {
			if b.IsDeleted {
				return
			}
			b.ApplySoftDelete(now)
		},
	)
	if err != nil {
		return nil, wrapBankErr(err, bankID)
	}
	return bank, nil
}

// RestoreBank clears the deleted mark. Idempotent.
func (s *Service) RestoreBank(ctx context.Context, bankID id.BankID) (*models.Bank, error) {
	if err := requireBankID(bankID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	bank, err := s.banks.Execute(ctx, bankID,
		func(*models.Bank) error { return nil },
		func(b *models.Bank) {
			if !b.IsDeleted {
				return
			}
			b.ApplyRestore(now)
		},
	)
	if err != nil {
		return nil, wrapBankErr(err, bankID)
	}
	return bank, nil
}

// DeleteBank permanently removes the bank. Refused while any account still
// references it.
func (s *Service) DeleteBank(ctx context.Context, bankID id.BankID) error {
	if err := requireBankID(bankID); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.banks.FindByID(txCtx, bankID); err != nil {
			return wrapBankErr(err, bankID)
		}
		accounts, err := s.accounts.CountByBank(txCtx, bankID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count bank accounts")
		}
		if accounts > 0 {
			return models.ErrBankInUse(bankID)
		}
		if err := s.banks.Delete(txCtx, bankID); err != nil {
			if errors.Is(err, sentinel.ErrInUse) {
				return models.ErrBankInUse(bankID)
			}
			return wrapBankErr(err, bankID)
		}
		return nil
	})
}

// checkCountryLive verifies the country exists and is not soft-deleted.
// New banks cannot be filed under a retired country.
func (s *Service) checkCountryLive(ctx context.Context, countryID id.CountryID) error {
	country, err := s.countries.FindByID(ctx, countryID)
	if err != nil {
		return wrapCountryErr(err, countryID)
	}
	if country.IsDeleted {
		return models.ErrCountryNotFound(countryID)
	}
	return nil
}

func (s *Service) checkBankNameFree(ctx context.Context, name string, selfID id.BankID) error {
	existing, err := s.banks.FindByName(ctx, name)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check bank name")
	}
	if existing.ID != selfID {
		return models.ErrBankNameExists(name)
	}
	return nil
}

func requireBankID(bankID id.BankID) error {
	if bankID.IsNil() {
		return models.ErrRequired("bank id")
	}
	return nil
}

func wrapBankErr(err error, bankID id.BankID) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ErrBankNotFound(bankID)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "bank storage failure")
}
