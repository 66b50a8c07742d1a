package models

import (
	"strings"
	"time"

	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
)

// Country is reference data for banks.
//
// Invariants:
//   - Name is non-empty, at most 128 characters, unique case-insensitively
type Country struct {
	ID        id.CountryID `json:"id"`
	Name      string       `json:"name"`
	IsDeleted bool         `json:"isDeleted"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func NewCountry(countryID id.CountryID, name string, now time.Time) (*Country, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &Country{
		ID:        countryID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (c *Country) ApplySoftDelete(now time.Time) {
	c.IsDeleted = true
	c.UpdatedAt = now
}

func (c *Country) ApplyRestore(now time.Time) {
	c.IsDeleted = false
	c.UpdatedAt = now
}

type CreateCountryRequest struct {
	Name string `json:"name"`
}

func (r *CreateCountryRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

type UpdateCountryRequest struct {
	ID   id.CountryID `json:"id"`
	Name *string      `json:"name,omitempty"`
}

func (r *UpdateCountryRequest) Normalize() {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
}

func (r *UpdateCountryRequest) Validate() error {
	if r.Name != nil {
		return validateName(*r.Name)
	}
	return nil
}
