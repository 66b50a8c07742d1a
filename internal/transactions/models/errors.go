package models

import (
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
)

func ErrTransactionNotFound(transactionID id.TransactionID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "transaction %s not found", transactionID).
		WithReason("TRANSACTION_NOT_FOUND")
}

func ErrTransferNotFound(transferID id.TransferID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "transfer %s not found", transferID).
		WithReason("TRANSFER_NOT_FOUND")
}

// ErrAccountNotFound means the account is absent from the local replica,
// either because it never existed or because the sync has not seen it yet.
func ErrAccountNotFound(accountID id.AccountID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "account %s not found", accountID).
		WithReason("ACCOUNT_NOT_FOUND")
}

func ErrAccountNotUsable(accountID id.AccountID) error {
	return dErrors.Newf(dErrors.CodeConflict, "account %s is archived or deleted", accountID).
		WithReason("ACCOUNT_NOT_USABLE")
}

func ErrCategoryNotFound(categoryID id.CategoryID) error {
	return dErrors.Newf(dErrors.CodeNotFound, "category %s not found", categoryID).
		WithReason("CATEGORY_NOT_FOUND")
}

func ErrCategoryNotUsable(categoryID id.CategoryID) error {
	return dErrors.Newf(dErrors.CodeConflict, "category %s is deleted", categoryID).
		WithReason("CATEGORY_NOT_USABLE")
}

func ErrTransferSameAccount() error {
	return dErrors.New(dErrors.CodeInvariantViolation, "transfer must move between two different accounts").
		WithReason("TRANSFER_SAME_ACCOUNT")
}

func ErrRequired(field string) error {
	return dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", field).
		WithReason("FIELD_REQUIRED")
}

// ErrExternalAPI wraps a failed call to the catalog service.
func ErrExternalAPI(err error, detail string) error {
	return dErrors.Wrap(err, dErrors.CodeUnavailable, "catalog API call failed: "+detail).
		WithReason("EXTERNAL_API_ERROR")
}
