package models

import (
	"strings"
	"time"

	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
)

// Currency is ISO-4217-style reference data.
//
// Invariants:
//   - CharCode is exactly three letters, unique case-insensitively
//   - NumCode is exactly three digits, unique
//   - Name is non-empty and at most 128 characters
type Currency struct {
	ID        id.CurrencyID `json:"id"`
	Name      string        `json:"name"`
	CharCode  string        `json:"charCode"`
	NumCode   string        `json:"numCode"`
	IsDeleted bool          `json:"isDeleted"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func NewCurrency(currencyID id.CurrencyID, name, charCode, numCode string, now time.Time) (*Currency, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := ValidateCharCode(charCode); err != nil {
		return nil, err
	}
	if err := ValidateNumCode(numCode); err != nil {
		return nil, err
	}
	return &Currency{
		ID:        currencyID,
		Name:      name,
		CharCode:  strings.ToUpper(charCode),
		NumCode:   numCode,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (c *Currency) ApplySoftDelete(now time.Time) {
	c.IsDeleted = true
	c.UpdatedAt = now
}

func (c *Currency) ApplyRestore(now time.Time) {
	c.IsDeleted = false
	c.UpdatedAt = now
}

// ValidateCharCode rejects anything but a three-letter alphabetic code.
func ValidateCharCode(code string) error {
	if len(code) != 3 {
		return dErrors.New(dErrors.CodeInvariantViolation, "char code must be exactly 3 letters")
	}
	for _, r := range code {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return dErrors.New(dErrors.CodeInvariantViolation, "char code must contain only letters")
		}
	}
	return nil
}

// ValidateNumCode rejects anything but a three-digit numeric code.
func ValidateNumCode(code string) error {
	if len(code) != 3 {
		return dErrors.New(dErrors.CodeInvariantViolation, "num code must be exactly 3 digits")
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return dErrors.New(dErrors.CodeInvariantViolation, "num code must contain only digits")
		}
	}
	return nil
}

type CreateCurrencyRequest struct {
	Name     string `json:"name"`
	CharCode string `json:"charCode"`
	NumCode  string `json:"numCode"`
}

func (r *CreateCurrencyRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.CharCode = strings.ToUpper(strings.TrimSpace(r.CharCode))
	r.NumCode = strings.TrimSpace(r.NumCode)
}

type UpdateCurrencyRequest struct {
	ID       id.CurrencyID `json:"id"`
	Name     *string       `json:"name,omitempty"`
	CharCode *string       `json:"charCode,omitempty"`
	NumCode  *string       `json:"numCode,omitempty"`
}

func (r *UpdateCurrencyRequest) Normalize() {
	if r.Name != nil {
		trimmed := strings.TrimSpace(*r.Name)
		r.Name = &trimmed
	}
	if r.CharCode != nil {
		upper := strings.ToUpper(strings.TrimSpace(*r.CharCode))
		r.CharCode = &upper
	}
	if r.NumCode != nil {
		trimmed := strings.TrimSpace(*r.NumCode)
		r.NumCode = &trimmed
	}
}

func (r *UpdateCurrencyRequest) Validate() error {
	if r.Name != nil {
		if err := validateName(*r.Name); err != nil {
			return err
		}
	}
	if r.CharCode != nil {
		if err := ValidateCharCode(*r.CharCode); err != nil {
			return err
		}
	}
	if r.NumCode != nil {
		if err := ValidateNumCode(*r.NumCode); err != nil {
			return err
		}
	}
	return nil
}
