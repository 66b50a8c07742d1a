package models

import (
	"strings"
	"time"

	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
)

// AccountType classifies accounts (cash, card, deposit and the like).
//
// Invariants:
//   - Code is non-empty, at most 32 characters, unique case-insensitively
//   - Name is non-empty and at most 128 characters
type AccountType struct {
	ID        id.AccountTypeID `json:"id"`
	Name      string           `json:"name"`
	Code      string           `json:"code"`
	IsDeleted bool             `json:"isDeleted"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func NewAccountType(typeID id.AccountTypeID, name, code string, now time.Time) (*AccountType, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateCode(code); err != nil {
		return nil, err
	}
	return &AccountType{
		ID:        typeID,
		Name:      name,
		Code:      code,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (t *AccountType) ApplySoftDelete(now time.Time) {
	t.IsDeleted = true
	t.UpdatedAt = now
}

func (t *AccountType) ApplyRestore(now time.Time) {
	t.IsDeleted = false
	t.UpdatedAt = now
}

func validateCode(code string) error {
	if code == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "code cannot be empty")
	}
	if len(code) > 32 {
		return dErrors.New(dErrors.CodeInvariantViolation, "code must be 32 characters or less")
	}
	return nil
}

type CreateAccountTypeRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

func (r *CreateAccountTypeRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Code = strings.TrimSpace(r.Code)
}

type UpdateAccountTypeRequest struct {
	ID   id.AccountTypeID `json:"id"`
	Name *string          `json:"name,omitempty"`
	Code *string          `json:"code,omitempty"`
}

func (r *UpdateAccountTypeRequest) Normalize() {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
	if r.Code != nil {
		trimmed := strings.TrimSpace(*r.Code)
		r.Code = &trimmed
	}
}

func (r *UpdateAccountTypeRequest) Validate() error {
	if r.Name != nil {
		if err := validateName(*r.Name); err != nil {
			return err
		}
	}
	if r.Code != nil {
		if err := validateCode(*r.Code); err != nil {
			return err
		}
	}
	return nil
}
