package models

import (
	"strings"
	"time"

	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
)

// Bank is reference data for accounts. A bank belongs to a country.
//
// Invariants:
//   - Name is non-empty, at most 128 characters, unique case-insensitively
//   - CountryID references an existing country
type Bank struct {
	ID        id.BankID    `json:"id"`
	CountryID id.CountryID `json:"countryId"`
	Name      string       `json:"name"`
	IsDeleted bool         `json:"isDeleted"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func NewBank(bankID id.BankID, countryID id.CountryID, name string, now time.Time) (*Bank, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &Bank{
		ID:        bankID,
		CountryID: countryID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (b *Bank) ApplySoftDelete(now time.Time) {
	b.IsDeleted = true
	b.UpdatedAt = now
}

func (b *Bank) ApplyRestore(now time.Time) {
	b.IsDeleted = false
	b.UpdatedAt = now
}

type CreateBankRequest struct {
	CountryID id.CountryID `json:"countryId"`
	Name      string       `json:"name"`
}

func (r *CreateBankRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

type UpdateBankRequest struct {
	ID        id.BankID     `json:"id"`
	CountryID *id.CountryID `json:"countryId,omitempty"`
	Name      *string       `json:"name,omitempty"`
}

func (r *UpdateBankRequest) Normalize() {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
}

func (r *UpdateBankRequest) Validate() error {
	if r.Name != nil {
		return validateName(*r.Name)
	}
	return nil
}
