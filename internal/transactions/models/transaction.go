// Package models holds the transactions-service domain: transactions,
// transfers and the denormalized catalog replicas the reference checks run
// against.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
)

// Transaction is a single movement on one account.
//
// Invariants:
//   - Amount is non-zero (sign carries direction)
//   - AccountID points at a known, non-deleted, non-archived account replica
//   - CategoryID points at a known, non-deleted category replica
type Transaction struct {
	ID         id.TransactionID `json:"id"`
	AccountID  id.AccountID     `json:"accountId"`
	CategoryID id.CategoryID    `json:"categoryId"`
	Amount     decimal.Decimal  `json:"amount"`
	Date       time.Time        `json:"date"`
	Comment    string           `json:"comment"`
	IsDeleted  bool             `json:"isDeleted"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

func NewTransaction(transactionID id.TransactionID, accountID id.AccountID, categoryID id.CategoryID, amount decimal.Decimal, date time.Time, comment string, now time.Time) (*Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	return &Transaction{
		ID:         transactionID,
		AccountID:  accountID,
		CategoryID: categoryID,
		Amount:     amount,
		Date:       date,
		Comment:    comment,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (t *Transaction) ApplySoftDelete(now time.Time) {
	t.IsDeleted = true
	t.UpdatedAt = now
}

func (t *Transaction) ApplyRestore(now time.Time) {
	t.IsDeleted = false
	t.UpdatedAt = now
}

type CreateTransactionRequest struct {
	AccountID  id.AccountID    `json:"accountId"`
	CategoryID id.CategoryID   `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Date       time.Time       `json:"date"`
	Comment    string          `json:"comment"`
}

func (r *CreateTransactionRequest) Normalize() {
	r.Comment = strings.TrimSpace(r.Comment)
}

// UpdateTransactionRequest is the PUT payload. Nil fields are left untouched.
type UpdateTransactionRequest struct {
	ID         id.TransactionID `json:"id"`
	AccountID  *id.AccountID    `json:"accountId,omitempty"`
	CategoryID *id.CategoryID   `json:"categoryId,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Date       *time.Time       `json:"date,omitempty"`
	Comment    *string          `json:"comment,omitempty"`
}

func (r *UpdateTransactionRequest) Normalize() {
	if r.Comment != nil {
		trimmed := strings.TrimSpace(*r.Comment)
		r.Comment = &trimmed
	}
}

func (r *UpdateTransactionRequest) Validate() error {
	if r.Amount != nil {
		if err := validateAmount(*r.Amount); err != nil {
			return err
		}
	}
	if r.Date != nil && r.Date.IsZero() {
		return ErrRequired("date")
	}
	return nil
}

type TransactionFilter struct {
	AccountID      *id.AccountID
	CategoryID     *id.CategoryID
	From           *time.Time
	To             *time.Time
	IncludeDeleted bool
	Page           id.PageParams
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsZero() {
		return dErrors.New(dErrors.CodeInvariantViolation, "amount must be non-zero")
	}
	return nil
}
