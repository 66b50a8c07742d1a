package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
	"github.com/smakki/FinanceManager-sub000/pkg/requestcontext"
)

// accountRefs identifies which foreign references to verify. Nil fields are
// skipped, so updates only re-check what actually changed.
type accountRefs struct {
	holderID   *id.HolderID
	typeID     *id.AccountTypeID
	currencyID *id.CurrencyID
	bankID     *id.BankID
}

// CreateAccount opens an account for a holder. When the request asks for
// the default flag, the holder's previous default is cleared inside the
// same unit of work, so the one-default invariant holds across the commit.
func (s *Service) CreateAccount(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error) {
	req.Normalize()
	if err := requireHolderID(req.RegistryHolderID); err != nil {
		return nil, err
	}
	if req.AccountTypeID.IsNil() {
		return nil, models.ErrRequired("account type id")
	}
	if req.CurrencyID.IsNil() {
		return nil, models.ErrRequired("currency id")
	}

	now := requestcontext.Now(ctx)
	account, err := models.NewAccount(id.NewAccountID(), req, now)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkAccountRefs(txCtx, accountRefs{
			holderID:   &account.RegistryHolderID,
			typeID:     &account.AccountTypeID,
			currencyID: &account.CurrencyID,
			bankID:     &account.BankID,
		}); err != nil {
			return err
		}
		if account.IsDefault {
			if err := s.clearDefaultAccount(txCtx, account.RegistryHolderID, now); err != nil {
				return err
			}
		}
		if err := s.accounts.Create(txCtx, account); err != nil {
			if errors.Is(err, sentinel.ErrDuplicate) {
				return dErrors.New(dErrors.CodeConflict, "holder already has a default account")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, "account_created",
		"account_id", account.ID, "holder_id", account.RegistryHolderID, "is_default", account.IsDefault)
	s.incrementAccountCreated()
	if account.IsDefault {
		s.incrementDefaultFlip()
	}
	return account, nil
}

func (s *Service) GetAccount(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	if err := requireAccountID(accountID); err != nil {
		return nil, err
	}
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, wrapAccountErr(err, accountID)
	}
	return account, nil
}

func (s *Service) ListAccounts(ctx context.Context, filter models.AccountFilter) ([]*models.Account, error) {
	filter.Page = filter.Page.Normalize()
	accounts, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list accounts")
	}
	return accounts, nil
}

// UpdateAccount applies the provided fields. Changed references are
// re-verified; the default flag is out of scope here and only moves through
// SetDefaultAccount and UnsetDefaultAccount.
func (s *Service) UpdateAccount(ctx context.Context, req *models.UpdateAccountRequest) (*models.Account, error) {
	if err := requireAccountID(req.ID); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var account *models.Account
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.accounts.FindByID(txCtx, req.ID)
		if err != nil {
			return wrapAccountErr(err, req.ID)
		}

		var refs accountRefs
		changed := false
		if req.Name != nil && *req.Name != a.Name {
			a.Name = *req.Name
			changed = true
		}
		if req.AccountTypeID != nil && *req.AccountTypeID != a.AccountTypeID {
			refs.typeID = req.AccountTypeID
			a.AccountTypeID = *req.AccountTypeID
			changed = true
		}
		if req.CurrencyID != nil && *req.CurrencyID != a.CurrencyID {
			refs.currencyID = req.CurrencyID
			a.CurrencyID = *req.CurrencyID
			changed = true
		}
		if req.BankID != nil && *req.BankID != a.BankID {
			refs.bankID = req.BankID
			a.BankID = *req.BankID
			changed = true
		}
		if req.IsIncludeInBalance != nil && *req.IsIncludeInBalance != a.IsIncludeInBalance {
			a.IsIncludeInBalance = *req.IsIncludeInBalance
			changed = true
		}
		if req.IsArchived != nil && *req.IsArchived != a.IsArchived {
			if *req.IsArchived {
				if err := a.CanArchive(); err != nil {
					return models.ErrAccountDefaultProtected(a.ID)
				}
			}
			a.IsArchived = *req.IsArchived
			changed = true
		}
		if req.CreditLimit != nil && !sameNullDecimal(*req.CreditLimit, a.CreditLimit) {
			a.CreditLimit = *req.CreditLimit
			changed = true
		}
		if !changed {
			account = a
			return nil
		}

		if err := s.checkAccountRefs(txCtx, refs); err != nil {
			return err
		}
		a.UpdatedAt = requestcontext.Now(txCtx)
		if err := s.accounts.Update(txCtx, a); err != nil {
			return wrapAccountErr(err, req.ID)
		}
		account = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// SoftDeleteAccount marks the account deleted. Idempotent. The holder's
// default account is protected; move the flag first.
func (s *Service) SoftDeleteAccount(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	if err := requireAccountID(accountID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	account, err := s.accounts.Execute(ctx, accountID,
		func(a *models.Account) error {
			if a.IsDeleted {
				return nil
			}
			if err := a.CanSoftDelete(); err != nil {
				return models.ErrAccountDefaultProtected(accountID)
			}
			return nil
		},
		func(a *models.Account) {
			if a.IsDeleted {
				return
			}
			a.ApplySoftDelete(now)
		},
	)
	if err != nil {
		return nil, wrapAccountErr(err, accountID)
	}
	return account, nil
}

// RestoreAccount clears the deleted mark. Idempotent.
func (s *Service) RestoreAccount(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	if err := requireAccountID(accountID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	account, err := s.accounts.Execute(ctx, accountID,
		func(*models.Account) error { return nil },
		func(a *models.Account) {
			if !a.IsDeleted {
				return
			}
			a.ApplyRestore(now)
		},
	)
	if err != nil {
		return nil, wrapAccountErr(err, accountID)
	}
	return account, nil
}

// DeleteAccount permanently removes the account. The holder's default
// account is protected.
func (s *Service) DeleteAccount(ctx context.Context, accountID id.AccountID) error {
	if err := requireAccountID(accountID); err != nil {
		return err
	}
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.accounts.FindByID(txCtx, accountID)
		if err != nil {
			return wrapAccountErr(err, accountID)
		}
		if err := a.CanHardDelete(); err != nil {
			return models.ErrAccountDefaultProtected(accountID)
		}
		if err := s.accounts.Delete(txCtx, accountID); err != nil {
			return wrapAccountErr(err, accountID)
		}
		return nil
	})
}

// SetDefaultAccount makes the account its holder's default. The previous
// default loses the flag in the same unit of work. Calling it on the
// current default is a no-op.
func (s *Service) SetDefaultAccount(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	if err := requireAccountID(accountID); err != nil {
		return nil, err
	}
	start := time.Now()
	now := requestcontext.Now(ctx)

	var account *models.Account
	flipped := false
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.accounts.FindByID(txCtx, accountID)
		if err != nil {
			return wrapAccountErr(err, accountID)
		}
		if a.IsDefault {
			account = a
			return nil
		}
		if err := a.CanBecomeDefault(); err != nil {
			return models.ErrAccountNotUsable(accountID)
		}
		if err := s.clearDefaultAccount(txCtx, a.RegistryHolderID, now); err != nil {
			return err
		}
		account, err = s.accounts.Execute(txCtx, accountID,
			func(a *models.Account) error { return a.CanBecomeDefault() },
			func(a *models.Account) { a.ApplyDefault(now) },
		)
		if err != nil {
			return wrapAccountErr(err, accountID)
		}
		flipped = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if flipped {
		s.logEvent(ctx, "account_default_changed",
			"account_id", account.ID, "holder_id", account.RegistryHolderID)
		s.incrementDefaultFlip()
	}
	s.observeSetDefault(start)
	return account, nil
}

// UnsetDefaultAccount moves the default flag from the account to the named
// replacement in one unit of work. The replacement must belong to the same
// holder and be neither archived nor deleted; a holder who has a default
// always keeps exactly one. Returns the formerly-default account.
func (s *Service) UnsetDefaultAccount(ctx context.Context, accountID, replacementID id.AccountID) (*models.Account, error) {
	if err := requireAccountID(accountID); err != nil {
		return nil, err
	}
	if replacementID.IsNil() {
		return nil, models.ErrRequired("replacement account id")
	}
	if replacementID == accountID {
		return nil, models.ErrAccountReplacementInvalid("replacement must be a different account")
	}
	now := requestcontext.Now(ctx)

	var account *models.Account
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		a, err := s.accounts.FindByID(txCtx, accountID)
		if err != nil {
			return wrapAccountErr(err, accountID)
		}
		if !a.IsDefault {
			return models.ErrAccountNotDefault(accountID)
		}
		replacement, err := s.accounts.FindByID(txCtx, replacementID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return models.ErrAccountReplacementInvalid("replacement account not found")
			}
			return wrapAccountErr(err, replacementID)
		}
		if replacement.RegistryHolderID != a.RegistryHolderID {
			return models.ErrAccountReplacementInvalid("replacement belongs to a different holder")
		}
		if !replacement.IsUsable() {
			return models.ErrAccountReplacementInvalid("replacement account is archived or deleted")
		}

		account, err = s.accounts.Execute(txCtx, accountID,
			func(*models.Account) error { return nil },
			func(a *models.Account) { a.ApplyUnsetDefault(now) },
		)
		if err != nil {
			return wrapAccountErr(err, accountID)
		}
		if _, err := s.accounts.Execute(txCtx, replacementID,
			func(r *models.Account) error { return r.CanBecomeDefault() },
			func(r *models.Account) { r.ApplyDefault(now) },
		); err != nil {
			return wrapAccountErr(err, replacementID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, "account_default_changed",
		"account_id", replacementID, "holder_id", account.RegistryHolderID)
	s.incrementDefaultFlip()
	return account, nil
}

// checkAccountRefs verifies an account's foreign references. Holder, type
// and currency must exist and be live. A bank only needs to exist: accounts
// at a soft-deleted bank keep pointing at it, and the nil bank id means the
// account has no bank at all.
func (s *Service) checkAccountRefs(ctx context.Context, refs accountRefs) error {
	if refs.holderID != nil {
		holder, err := s.holders.FindByID(ctx, *refs.holderID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return models.ErrHolderNotFound(*refs.holderID)
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registry holder")
		}
		if holder.IsDeleted {
			return models.ErrAccountReferenceInvalid("registry holder is deleted")
		}
	}
	if refs.typeID != nil {
		accountType, err := s.accountTypes.FindByID(ctx, *refs.typeID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return models.ErrAccountReferenceInvalid("account type not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account type")
		}
		if accountType.IsDeleted {
			return models.ErrAccountReferenceInvalid("account type is deleted")
		}
	}
	if refs.currencyID != nil {
		currency, err := s.currencies.FindByID(ctx, *refs.currencyID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return models.ErrAccountReferenceInvalid("currency not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load currency")
		}
		if currency.IsDeleted {
			return models.ErrAccountReferenceInvalid("currency is deleted")
		}
	}
	if refs.bankID != nil && !refs.bankID.IsNil() {
		if _, err := s.banks.FindByID(ctx, *refs.bankID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return models.ErrAccountReferenceInvalid("bank not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load bank")
		}
	}
	return nil
}

// clearDefaultAccount removes the default flag from the holder's current
// default account, if any. Runs inside the caller's unit of work.
func (s *Service) clearDefaultAccount(ctx context.Context, holderID id.HolderID, now time.Time) error {
	current, err := s.accounts.FindDefaultForHolder(ctx, holderID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load default account")
	}
	_, err = s.accounts.Execute(ctx, current.ID,
		func(*models.Account) error { return nil },
		func(a *models.Account) { a.ApplyUnsetDefault(now) },
	)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear default account")
	}
	return nil
}

func sameNullDecimal(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

func requireAccountID(accountID id.AccountID) error {
	if accountID.IsNil() {
		return models.ErrRequired("account id")
	}
	return nil
}

func wrapAccountErr(err error, accountID id.AccountID) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ErrAccountNotFound(accountID)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "account storage failure")
}

func (s *Service) incrementAccountCreated() {
	if s.metrics != nil {
		s.metrics.IncrementAccountCreated()
	}
}

func (s *Service) incrementDefaultFlip() {
	if s.metrics != nil {
		s.metrics.IncrementDefaultFlip()
	}
}

func (s *Service) observeSetDefault(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveSetDefault(start)
	}
}
