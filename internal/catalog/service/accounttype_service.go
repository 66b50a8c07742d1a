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

// CreateAccountType adds an account type. Codes are unique
// case-insensitively.
func (s *Service) CreateAccountType(ctx context.Context, req *models.CreateAccountTypeRequest) (*models.AccountType, error) {
	req.Normalize()

	var accountType *models.AccountType
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := models.NewAccountType(id.NewAccountTypeID(), req.Name, req.Code, requestcontext.Now(txCtx))
		if err != nil {
			return err
		}
		if err := s.checkAccountTypeCodeFree(txCtx, t.Code, t.ID); err != nil {
			return err
		}
		if err := s.accountTypes.Create(txCtx, t); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return models.ErrAccountTypeCodeExists(t.Code)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account type")
		}
		accountType = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accountType, nil
}

func (s *Service) GetAccountType(ctx context.Context, typeID id.AccountTypeID) (*models.AccountType, error) {
	if err := requireAccountTypeID(typeID); err != nil {
		return nil, err
	}
	accountType, err := s.accountTypes.FindByID(ctx, typeID)
	if err != nil {
		return nil, wrapAccountTypeErr(err, typeID)
	}
	return accountType, nil
}

func (s *Service) ListAccountTypes(ctx context.Context, filter models.ListFilter) ([]*models.AccountType, error) {
	filter.Page = filter.Page.Normalize()
	types, err := s.accountTypes.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list account types")
	}
	return types, nil
}

func (s *Service) UpdateAccountType(ctx context.Context, req *models.UpdateAccountTypeRequest) (*models.AccountType, error) {
	if err := requireAccountTypeID(req.ID); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var accountType *models.AccountType
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := s.accountTypes.FindByID(txCtx, req.ID)
		if err != nil {
			return wrapAccountTypeErr(err, req.ID)
		}

		changed := false
		if req.Name != nil && *req.Name != t.Name {
			t.Name = *req.Name
			changed = true
		}
		if req.Code != nil && *req.Code != t.Code {
			if err := s.checkAccountTypeCodeFree(txCtx, *req.Code, t.ID); err != nil {
				return err
			}
			t.Code = *req.Code
			changed = true
		}
		if !changed {
			accountType = t
			return nil
		}

		t.UpdatedAt = requestcontext.Now(txCtx)
		if err := s.accountTypes.Update(txCtx, t); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return models.ErrAccountTypeCodeExists(t.Code)
			}
			return wrapAccountTypeErr(err, req.ID)
		}
		accountType = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accountType, nil
}

// SoftDeleteAccountType marks the type deleted. Idempotent.
func (s *Service) SoftDeleteAccountType(ctx context.Context, typeID id.AccountTypeID) (*models.AccountType, error) {
	if err := requireAccountTypeID(typeID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	accountType, err := s.accountTypes.Execute(ctx, typeID,
		func(*models.AccountType) error { return nil },
		func(t *models.AccountType) {
			if t.IsDeleted {
				return
			}
			t.ApplySoftDelete(now)
		},
	)
	if err != nil {
		return nil, wrapAccountTypeErr(err, typeID)
	}
	return accountType, nil
}

// RestoreAccountType clears the deleted mark. Idempotent.
func (s *Service) RestoreAccountType(ctx context.Context, typeID id.AccountTypeID) (*models.AccountType, error) {
	if err := requireAccountTypeID(typeID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	accountType, err := s.accountTypes.Execute(ctx, typeID,
		func(*models.AccountType) error { return nil },
		func(t *models.AccountType) {
			if !t.IsDeleted {
				return
			}
			t.ApplyRestore(now)
		},
	)
	if err != nil {
		return nil, wrapAccountTypeErr(err, typeID)
	}
	return accountType, nil
}

// DeleteAccountType permanently removes the type. Refused while any account
// still references it.
func (s *Service) DeleteAccountType(ctx context.Context, typeID id.AccountTypeID) error {
	if err := requireAccountTypeID(typeID); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.accountTypes.FindByID(txCtx, typeID); err != nil {
			return wrapAccountTypeErr(err, typeID)
		}
		accounts, err := s.accounts.CountByType(txCtx, typeID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count account type usage")
		}
		if accounts > 0 {
			return models.ErrAccountTypeInUse(typeID)
		}
		if err := s.accountTypes.Delete(txCtx, typeID); err != nil {
			if errors.Is(err, sentinel.ErrInUse) {
				return models.ErrAccountTypeInUse(typeID)
			}
			return wrapAccountTypeErr(err, typeID)
		}
		return nil
	})
}

func (s *Service) checkAccountTypeCodeFree(ctx context.Context, code string, selfID id.AccountTypeID) error {
	existing, err := s.accountTypes.FindByCode(ctx, code)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check account type code")
	}
	if existing.ID != selfID {
		return models.ErrAccountTypeCodeExists(code)
	}
	return nil
}

func requireAccountTypeID(typeID id.AccountTypeID) error {
	if typeID.IsNil() {
		return models.ErrRequired("account type id")
	}
	return nil
}

func wrapAccountTypeErr(err error, typeID id.AccountTypeID) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ErrAccountTypeNotFound(typeID)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "account type storage failure")
}
