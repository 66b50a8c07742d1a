package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
)

// Account is the aggregate the catalog service exists for.
//
// Invariants:
//   - at most one account per holder has IsDefault = true
//   - a default account cannot be archived, soft-deleted or hard-deleted
//   - AccountTypeID and CurrencyID reference existing, non-deleted entities
//   - BankID is optional; when set it references an existing bank
//     (soft-deleted banks stay referencable)
//
// Default exclusivity is enforced by the service inside one transaction:
// flipping the flag on account A clears it on the holder's previous default
// in the same commit. There is no per-row version column, so two concurrent
// set-default calls for one holder race on storage-level row locking alone.
type Account struct {
	ID                 id.AccountID        `json:"id"`
	RegistryHolderID   id.HolderID         `json:"registryHolderId"`
	AccountTypeID      id.AccountTypeID    `json:"accountTypeId"`
	CurrencyID         id.CurrencyID       `json:"currencyId"`
	BankID             id.BankID           `json:"bankId"`
	Name               string              `json:"name"`
	IsIncludeInBalance bool                `json:"isIncludeInBalance"`
	IsDefault          bool                `json:"isDefault"`
	IsArchived         bool                `json:"isArchived"`
	IsDeleted          bool                `json:"isDeleted"`
	CreditLimit        decimal.NullDecimal `json:"creditLimit"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

func NewAccount(accountID id.AccountID, req *CreateAccountRequest, now time.Time) (*Account, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if req.CreditLimit.Valid && req.CreditLimit.Decimal.IsNegative() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "credit limit cannot be negative")
	}
	return &Account{
		ID:                 accountID,
		RegistryHolderID:   req.RegistryHolderID,
		AccountTypeID:      req.AccountTypeID,
		CurrencyID:         req.CurrencyID,
		BankID:             req.BankID,
		Name:               req.Name,
		IsIncludeInBalance: req.IsIncludeInBalance,
		IsDefault:          req.IsDefault,
		CreditLimit:        req.CreditLimit,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// IsUsable reports whether the account may take part in new activity:
// it must be neither archived nor soft-deleted.
func (a *Account) IsUsable() bool {
	return !a.IsArchived && !a.IsDeleted
}

// CanBecomeDefault checks the preconditions for receiving the default flag.
func (a *Account) CanBecomeDefault() error {
	if a.IsDeleted {
		return dErrors.New(dErrors.CodeConflict, "a deleted account cannot be made default")
	}
	if a.IsArchived {
		return dErrors.New(dErrors.CodeConflict, "an archived account cannot be made default")
	}
	return nil
}

// CanArchive rejects archiving the holder's default account.
func (a *Account) CanArchive() error {
	if a.IsDefault {
		return dErrors.New(dErrors.CodeConflict, "the default account cannot be archived")
	}
	return nil
}

// CanSoftDelete rejects soft-deleting the holder's default account.
func (a *Account) CanSoftDelete() error {
	if a.IsDefault {
		return dErrors.New(dErrors.CodeConflict, "the default account cannot be deleted")
	}
	return nil
}

// CanHardDelete rejects removing the holder's default account.
func (a *Account) CanHardDelete() error {
	if a.IsDefault {
		return dErrors.New(dErrors.CodeConflict, "the default account cannot be deleted")
	}
	return nil
}

func (a *Account) ApplyDefault(now time.Time) {
	a.IsDefault = true
	a.UpdatedAt = now
}

func (a *Account) ApplyUnsetDefault(now time.Time) {
	a.IsDefault = false
	a.UpdatedAt = now
}

func (a *Account) ApplySoftDelete(now time.Time) {
	a.IsDeleted = true
	a.UpdatedAt = now
}

func (a *Account) ApplyRestore(now time.Time) {
	a.IsDeleted = false
	a.UpdatedAt = now
}

// CreateAccountRequest is the POST payload.
type CreateAccountRequest struct {
	RegistryHolderID   id.HolderID         `json:"registryHolderId"`
	AccountTypeID      id.AccountTypeID    `json:"accountTypeId"`
	CurrencyID         id.CurrencyID       `json:"currencyId"`
	BankID             id.BankID           `json:"bankId"`
	Name               string              `json:"name"`
	IsIncludeInBalance bool                `json:"isIncludeInBalance"`
	IsDefault          bool                `json:"isDefault"`
	CreditLimit        decimal.NullDecimal `json:"creditLimit"`
}

func (r *CreateAccountRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// UpdateAccountRequest is the PUT payload. Nil fields are left untouched;
// the default flag is changed only through the dedicated endpoints.
type UpdateAccountRequest struct {
	ID                 id.AccountID         `json:"id"`
	AccountTypeID      *id.AccountTypeID    `json:"accountTypeId,omitempty"`
	CurrencyID         *id.CurrencyID       `json:"currencyId,omitempty"`
	BankID             *id.BankID           `json:"bankId,omitempty"`
	Name               *string              `json:"name,omitempty"`
	IsIncludeInBalance *bool                `json:"isIncludeInBalance,omitempty"`
	IsArchived         *bool                `json:"isArchived,omitempty"`
	CreditLimit        *decimal.NullDecimal `json:"creditLimit,omitempty"`
}

func (r *UpdateAccountRequest) Normalize() {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
}

func (r *UpdateAccountRequest) Validate() error {
	if r.Name != nil {
		if err := validateName(*r.Name); err != nil {
			return err
		}
	}
	if r.CreditLimit != nil && r.CreditLimit.Valid && r.CreditLimit.Decimal.IsNegative() {
		return dErrors.New(dErrors.CodeInvariantViolation, "credit limit cannot be negative")
	}
	return nil
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	RegistryHolderID *id.HolderID
	IncludeDeleted   bool
	IncludeArchived  bool
	Page             id.PageParams
}
