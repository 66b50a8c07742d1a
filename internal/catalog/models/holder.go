package models

import (
	"strings"
	"time"

	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
)

// RegistryHolder is the account-owning user entity. Every account and
// category belongs to exactly one holder.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - TelegramID is positive and unique across holders
type RegistryHolder struct {
	ID         id.HolderID `json:"id"`
	Name       string      `json:"name"`
	TelegramID int64       `json:"telegramId"`
	IsDeleted  bool        `json:"isDeleted"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

func NewRegistryHolder(holderID id.HolderID, name string, telegramID int64, now time.Time) (*RegistryHolder, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if telegramID <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "telegram id must be positive")
	}
	return &RegistryHolder{
		ID:         holderID,
		Name:       name,
		TelegramID: telegramID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (h *RegistryHolder) ApplySoftDelete(now time.Time) {
	h.IsDeleted = true
	h.UpdatedAt = now
}

func (h *RegistryHolder) ApplyRestore(now time.Time) {
	h.IsDeleted = false
	h.UpdatedAt = now
}

// CreateRegistryHolderRequest is the POST payload.
type CreateRegistryHolderRequest struct {
	Name       string `json:"name"`
	TelegramID int64  `json:"telegramId"`
}

func (r *CreateRegistryHolderRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

// UpdateRegistryHolderRequest is the PUT payload. Nil fields are left
// untouched.
type UpdateRegistryHolderRequest struct {
	ID         id.HolderID `json:"id"`
	Name       *string     `json:"name,omitempty"`
	TelegramID *int64      `json:"telegramId,omitempty"`
}

func (r *UpdateRegistryHolderRequest) Normalize() {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
}

func (r *UpdateRegistryHolderRequest) Validate() error {
	if r.Name != nil {
		if err := validateName(*r.Name); err != nil {
			return err
		}
	}
	if r.TelegramID != nil && *r.TelegramID <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "telegram id must be positive")
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "name cannot be empty")
	}
	if len(name) > 128 {
		return dErrors.New(dErrors.CodeInvariantViolation, "name must be 128 characters or less")
	}
	return nil
}
