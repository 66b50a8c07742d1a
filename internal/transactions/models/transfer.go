package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
)

// Transfer moves value between two accounts, each side in its own currency
// and amount.
//
// Invariants:
//   - FromAccountID and ToAccountID are distinct
//   - both amounts are non-zero
//   - both accounts are known, non-deleted, non-archived replicas
type Transfer struct {
	ID            id.TransferID   `json:"id"`
	FromAccountID id.AccountID    `json:"fromAccountId"`
	ToAccountID   id.AccountID    `json:"toAccountId"`
	FromAmount    decimal.Decimal `json:"fromAmount"`
	ToAmount      decimal.Decimal `json:"toAmount"`
	Date          time.Time       `json:"date"`
	Comment       string          `json:"comment"`
	IsDeleted     bool            `json:"isDeleted"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func NewTransfer(transferID id.TransferID, fromAccountID, toAccountID id.AccountID, fromAmount, toAmount decimal.Decimal, date time.Time, comment string, now time.Time) (*Transfer, error) {
	if err := validateAmount(fromAmount); err != nil {
		return nil, err
	}
	if err := validateAmount(toAmount); err != nil {
		return nil, err
	}
	if fromAccountID == toAccountID {
		return nil, ErrTransferSameAccount()
	}
	return &Transfer{
		ID:            transferID,
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		FromAmount:    fromAmount,
		ToAmount:      toAmount,
		Date:          date,
		Comment:       comment,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (t *Transfer) ApplySoftDelete(now time.Time) {
	t.IsDeleted = true
	t.UpdatedAt = now
}

func (t *Transfer) ApplyRestore(now time.Time) {
	t.IsDeleted = false
	t.UpdatedAt = now
}

type CreateTransferRequest struct {
	FromAccountID id.AccountID    `json:"fromAccountId"`
	ToAccountID   id.AccountID    `json:"toAccountId"`
	FromAmount    decimal.Decimal `json:"fromAmount"`
	ToAmount      decimal.Decimal `json:"toAmount"`
	Date          time.Time       `json:"date"`
	Comment       string          `json:"comment"`
}

func (r *CreateTransferRequest) Normalize() {
	r.Comment = strings.TrimSpace(r.Comment)
}

// UpdateTransferRequest is the PUT payload. Nil fields are left untouched.
type UpdateTransferRequest struct {
	ID            id.TransferID    `json:"id"`
	FromAccountID *id.AccountID    `json:"fromAccountId,omitempty"`
	ToAccountID   *id.AccountID    `json:"toAccountId,omitempty"`
	FromAmount    *decimal.Decimal `json:"fromAmount,omitempty"`
	ToAmount      *decimal.Decimal `json:"toAmount,omitempty"`
	Date          *time.Time       `json:"date,omitempty"`
	Comment       *string          `json:"comment,omitempty"`
}

func (r *UpdateTransferRequest) Normalize() {
	if r.Comment != nil {
		trimmed := strings.TrimSpace(*r.Comment)
		r.Comment = &trimmed
	}
}

func (r *UpdateTransferRequest) Validate() error {
	if r.FromAmount != nil {
		if err := validateAmount(*r.FromAmount); err != nil {
			return err
		}
	}
	if r.ToAmount != nil {
		if err := validateAmount(*r.ToAmount); err != nil {
			return err
		}
	}
	if r.Date != nil && r.Date.IsZero() {
		return ErrRequired("date")
	}
	return nil
}

// TransferFilter's AccountID matches either side of the transfer.
type TransferFilter struct {
	AccountID      *id.AccountID
	From           *time.Time
	To             *time.Time
	IncludeDeleted bool
	Page           id.PageParams
}
