// Package domain holds identifier and paging primitives shared by both
// services. Every entity gets its own UUID-backed ID type so a bank id can
// never be passed where an account id is expected.
package domain

import (
	"github.com/google/uuid"

	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
)

// parseID validates the textual form shared by all ID types: a well-formed,
// non-nil UUID.
func parseID(raw, label string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid %s: %q", label, raw)
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be the nil UUID", label)
	}
	return id, nil
}

// HolderID identifies a registry holder.
type HolderID uuid.UUID

func NewHolderID() HolderID { return HolderID(uuid.New()) }

func ParseHolderID(raw string) (HolderID, error) {
	id, err := parseID(raw, "holder id")
	return HolderID(id), err
}

func (id HolderID) String() string { return uuid.UUID(id).String() }
func (id HolderID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id HolderID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *HolderID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// CountryID identifies a country.
type CountryID uuid.UUID

func NewCountryID() CountryID { return CountryID(uuid.New()) }

func ParseCountryID(raw string) (CountryID, error) {
	id, err := parseID(raw, "country id")
	return CountryID(id), err
}

func (id CountryID) String() string { return uuid.UUID(id).String() }
func (id CountryID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id CountryID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *CountryID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// BankID identifies a bank.
type BankID uuid.UUID

func NewBankID() BankID { return BankID(uuid.New()) }

func ParseBankID(raw string) (BankID, error) {
	id, err := parseID(raw, "bank id")
	return BankID(id), err
}

func (id BankID) String() string { return uuid.UUID(id).String() }
func (id BankID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id BankID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *BankID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// CurrencyID identifies a currency.
type CurrencyID uuid.UUID

func NewCurrencyID() CurrencyID { return CurrencyID(uuid.New()) }

func ParseCurrencyID(raw string) (CurrencyID, error) {
	id, err := parseID(raw, "currency id")
	return CurrencyID(id), err
}

func (id CurrencyID) String() string { return uuid.UUID(id).String() }
func (id CurrencyID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id CurrencyID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *CurrencyID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// AccountTypeID identifies an account type.
type AccountTypeID uuid.UUID

func NewAccountTypeID() AccountTypeID { return AccountTypeID(uuid.New()) }

func ParseAccountTypeID(raw string) (AccountTypeID, error) {
	id, err := parseID(raw, "account type id")
	return AccountTypeID(id), err
}

func (id AccountTypeID) String() string { return uuid.UUID(id).String() }
func (id AccountTypeID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id AccountTypeID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *AccountTypeID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// AccountID identifies an account.
type AccountID uuid.UUID

func NewAccountID() AccountID { return AccountID(uuid.New()) }

func ParseAccountID(raw string) (AccountID, error) {
	id, err := parseID(raw, "account id")
	return AccountID(id), err
}

func (id AccountID) String() string { return uuid.UUID(id).String() }
func (id AccountID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id AccountID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *AccountID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// CategoryID identifies a category.
type CategoryID uuid.UUID

func NewCategoryID() CategoryID { return CategoryID(uuid.New()) }

func ParseCategoryID(raw string) (CategoryID, error) {
	id, err := parseID(raw, "category id")
	return CategoryID(id), err
}

func (id CategoryID) String() string { return uuid.UUID(id).String() }
func (id CategoryID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id CategoryID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *CategoryID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// ExchangeRateID identifies an exchange rate entry.
type ExchangeRateID uuid.UUID

func NewExchangeRateID() ExchangeRateID { return ExchangeRateID(uuid.New()) }

func ParseExchangeRateID(raw string) (ExchangeRateID, error) {
	id, err := parseID(raw, "exchange rate id")
	return ExchangeRateID(id), err
}

func (id ExchangeRateID) String() string { return uuid.UUID(id).String() }
func (id ExchangeRateID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id ExchangeRateID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *ExchangeRateID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// TransactionID identifies a transaction.
type TransactionID uuid.UUID

func NewTransactionID() TransactionID { return TransactionID(uuid.New()) }

func ParseTransactionID(raw string) (TransactionID, error) {
	id, err := parseID(raw, "transaction id")
	return TransactionID(id), err
}

func (id TransactionID) String() string { return uuid.UUID(id).String() }
func (id TransactionID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id TransactionID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *TransactionID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

// TransferID identifies a transfer between two accounts.
type TransferID uuid.UUID

func NewTransferID() TransferID { return TransferID(uuid.New()) }

func ParseTransferID(raw string) (TransferID, error) {
	id, err := parseID(raw, "transfer id")
	return TransferID(id), err
}

func (id TransferID) String() string { return uuid.UUID(id).String() }
func (id TransferID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id TransferID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }
func (id *TransferID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}
