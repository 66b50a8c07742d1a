package models

import (
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
)

// Error factories. Every expected business failure flows through one of
// these so the API exposes stable machine codes, not raw storage errors.

func ErrHolderNotFound(holderID id.HolderID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "registry holder %s not found", holderID).
		WithReason("REGISTRY_HOLDER_NOT_FOUND")
}

func ErrHolderTelegramIDExists(telegramID int64) error {
	return dErrors.Newf(dErrors.CodeConflict, "registry holder with telegram id %d already exists", telegramID).
		WithReason("REGISTRY_HOLDER_TELEGRAM_ID_EXISTS")
}

func ErrHolderInUse(holderID id.HolderID) error {
	return dErrors.Newf(dErrors.CodeConflict, "registry holder %s still owns accounts or categories", holderID).
		WithReason("REGISTRY_HOLDER_IN_USE")
}

func ErrCountryNotFound(countryID id.CountryID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "country %s not found", countryID).
		WithReason("COUNTRY_NOT_FOUND")
}

func ErrCountryNameExists(name string) error {
	return dErrors.Newf(dErrors.CodeConflict, "country %q already exists", name).
		WithReason("COUNTRY_NAME_EXISTS")
}

func ErrCountryInUse(countryID id.CountryID) error {
	return dErrors.Newf(dErrors.CodeConflict, "country %s is referenced by banks", countryID).
		WithReason("COUNTRY_IN_USE")
}

func ErrBankNotFound(bankID id.BankID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "bank %s not found", bankID).
		WithReason("BANK_NOT_FOUND")
}

func ErrBankNameExists(name string) error {
	return dErrors.Newf(dErrors.CodeConflict, "bank %q already exists", name).
		WithReason("BANK_NAME_EXISTS")
}

func ErrBankInUse(bankID id.BankID) error {
	return dErrors.Newf(dErrors.CodeConflict, "bank %s is referenced by accounts", bankID).
		WithReason("BANK_IN_USE")
}

func ErrCurrencyNotFound(currencyID id.CurrencyID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "currency %s not found", currencyID).
		WithReason("CURRENCY_NOT_FOUND")
}

func ErrCurrencyCharCodeExists(charCode string) error {
	return dErrors.Newf(dErrors.CodeConflict, "currency with char code %q already exists", charCode).
		WithReason("CURRENCY_CHARCODE_EXISTS")
}

func ErrCurrencyNumCodeExists(numCode string) error {
	return dErrors.Newf(dErrors.CodeConflict, "currency with num code %q already exists", numCode).
		WithReason("CURRENCY_NUMCODE_EXISTS")
}

func ErrCurrencyInUse(currencyID id.CurrencyID) error {
	return dErrors.Newf(dErrors.CodeConflict, "currency %s is referenced by accounts or exchange rates", currencyID).
		WithReason("CURRENCY_IN_USE")
}

func ErrAccountTypeNotFound(typeID id.AccountTypeID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "account type %s not found", typeID).
		WithReason("ACCOUNT_TYPE_NOT_FOUND")
}

func ErrAccountTypeCodeExists(code string) error {
	return dErrors.Newf(dErrors.CodeConflict, "account type with code %q already exists", code).
		WithReason("ACCOUNT_TYPE_CODE_EXISTS")
}

func ErrAccountTypeInUse(typeID id.AccountTypeID) error {
	return dErrors.Newf(dErrors.CodeConflict, "account type %s is referenced by accounts", typeID).
		WithReason("ACCOUNT_TYPE_IN_USE")
}

func ErrAccountNotFound(accountID id.AccountID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "account %s not found", accountID).
		WithReason("ACCOUNT_NOT_FOUND")
}

func ErrAccountDefaultProtected(accountID id.AccountID) error {
	return dErrors.Newf(dErrors.CodeConflict, "account %s is the default account and cannot be archived or deleted", accountID).
		WithReason("ACCOUNT_DEFAULT_PROTECTED")
}

func ErrAccountNotUsable(accountID id.AccountID) error {
	return dErrors.Newf(dErrors.CodeConflict, "account %s is archived or deleted", accountID).
		WithReason("ACCOUNT_NOT_USABLE")
}

func ErrAccountNotDefault(accountID id.AccountID) error {
	return dErrors.Newf(dErrors.CodeConflict, "account %s is not the default account", accountID).
		WithReason("ACCOUNT_NOT_DEFAULT")
}

func ErrAccountReplacementInvalid(reason string) error {
	return dErrors.Newf(dErrors.CodeConflict, "replacement account is not eligible: %s", reason).
		WithReason("ACCOUNT_REPLACEMENT_INVALID")
}

func ErrAccountReferenceInvalid(detail string) error {
	return dErrors.Newf(dErrors.CodeInvariantViolation, "account references are invalid: %s", detail).
		WithReason("ACCOUNT_REFERENCE_INVALID")
}

func ErrCategoryNotFound(categoryID id.CategoryID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "category %s not found", categoryID).
		WithReason("CATEGORY_NOT_FOUND")
}

func ErrCategoryNameExists(name string) error {
	return dErrors.Newf(dErrors.CodeConflict, "category %q already exists under the same parent", name).
		WithReason("CATEGORY_NAME_EXISTS")
}

func ErrCategoryParentInvalid(detail string) error {
	return dErrors.Newf(dErrors.CodeConflict, "category parent is invalid: %s", detail).
		WithReason("CATEGORY_PARENT_INVALID")
}

func ErrCategoryParentCycle(categoryID id.CategoryID) error {
	return dErrors.Newf(dErrors.CodeConflict, "assigning this parent would make category %s its own ancestor", categoryID).
		WithReason("CATEGORY_PARENT_CYCLE")
}

func ErrCategoryInUse(categoryID id.CategoryID) error {
	return dErrors.Newf(dErrors.CodeConflict, "category %s still has child categories", categoryID).
		WithReason("CATEGORY_IN_USE")
}

func ErrExchangeRateNotFound(rateID id.ExchangeRateID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "exchange rate %s not found", rateID).
		WithReason("EXCHANGE_RATE_NOT_FOUND")
}

func ErrExchangeRateDateExists(currencyID id.CurrencyID) error {
	return dErrors.Newf(dErrors.CodeConflict, "an exchange rate for currency %s on that date already exists", currencyID).
		WithReason("EXCHANGE_RATE_DATE_EXISTS")
}

// ErrRequired flags a missing mandatory field.
func ErrRequired(field string) error {
	return dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", field).
		WithReason("FIELD_REQUIRED")
}
