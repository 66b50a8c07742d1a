package service

import (
	"context"
	"errors"

	"github.com/smakki/FinanceManager-sub000/internal/transactions/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
	"github.com/smakki/FinanceManager-sub000/pkg/requestcontext"
)

// CreateTransfer records a movement between two accounts. Both sides carry
// their own amount, so cross-currency transfers need no rate lookup here.
// Both accounts are verified against the replicas in the insert's unit of
// work.
func (s *Service) CreateTransfer(ctx context.Context, req *models.CreateTransferRequest) (*models.Transfer, error) {
	req.Normalize()
	if req.FromAccountID.IsNil() {
		return nil, models.ErrRequired("from account id")
	}
	if req.ToAccountID.IsNil() {
		return nil, models.ErrRequired("to account id")
	}
	if req.Date.IsZero() {
		return nil, models.ErrRequired("date")
	}

	transfer, err := models.NewTransfer(id.NewTransferID(), req.FromAccountID, req.ToAccountID, req.FromAmount, req.ToAmount, req.Date, req.Comment, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkAccountUsable(txCtx, transfer.FromAccountID); err != nil {
			return err
		}
		if err := s.checkAccountUsable(txCtx, transfer.ToAccountID); err != nil {
			return err
		}
		if err := s.transfers.Create(txCtx, transfer); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create transfer")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, "transfer_created",
		"transfer_id", transfer.ID, "from_account_id", transfer.FromAccountID, "to_account_id", transfer.ToAccountID)
	s.incrementTransferCreated()
	return transfer, nil
}

func (s *Service) GetTransfer(ctx context.Context, transferID id.TransferID) (*models.Transfer, error) {
	if err := requireTransferID(transferID); err != nil {
		return nil, err
	}
	transfer, err := s.transfers.FindByID(ctx, transferID)
	if err != nil {
		return nil, wrapTransferErr(err, transferID)
	}
	return transfer, nil
}

func (s *Service) ListTransfers(ctx context.Context, filter models.TransferFilter) ([]*models.Transfer, error) {
	filter.Page = filter.Page.Normalize()
	transfers, err := s.transfers.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list transfers")
	}
	return transfers, nil
}

// UpdateTransfer applies the provided fields. Changed accounts are
// re-verified, and the two sides must stay distinct after the change.
func (s *Service) UpdateTransfer(ctx context.Context, req *models.UpdateTransferRequest) (*models.Transfer, error) {
	if err := requireTransferID(req.ID); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var transfer *models.Transfer
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := s.transfers.FindByID(txCtx, req.ID)
		if err != nil {
			return wrapTransferErr(err, req.ID)
		}

		checkFrom := false
		checkTo := false
		changed := false
		if req.FromAccountID != nil && *req.FromAccountID != t.FromAccountID {
			t.FromAccountID = *req.FromAccountID
			checkFrom = true
			changed = true
		}
		if req.ToAccountID != nil && *req.ToAccountID != t.ToAccountID {
			t.ToAccountID = *req.ToAccountID
			checkTo = true
			changed = true
		}
		if req.FromAmount != nil && !req.FromAmount.Equal(t.FromAmount) {
			t.FromAmount = *req.FromAmount
			changed = true
		}
		if req.ToAmount != nil && !req.ToAmount.Equal(t.ToAmount) {
			t.ToAmount = *req.ToAmount
			changed = true
		}
		if req.Date != nil && !req.Date.Equal(t.Date) {
			t.Date = *req.Date
			changed = true
		}
		if req.Comment != nil && *req.Comment != t.Comment {
			t.Comment = *req.Comment
			changed = true
		}
		if !changed {
			transfer = t
			return nil
		}

		if t.FromAccountID == t.ToAccountID {
			return models.ErrTransferSameAccount()
		}
		if checkFrom {
			if err := s.checkAccountUsable(txCtx, t.FromAccountID); err != nil {
				return err
			}
		}
		if checkTo {
			if err := s.checkAccountUsable(txCtx, t.ToAccountID); err != nil {
				return err
			}
		}
		t.UpdatedAt = requestcontext.Now(txCtx)
		if err := s.transfers.Update(txCtx, t); err != nil {
			return wrapTransferErr(err, req.ID)
		}
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// SoftDeleteTransfer marks the transfer deleted. Idempotent.
func (s *Service) SoftDeleteTransfer(ctx context.Context, transferID id.TransferID) (*models.Transfer, error) {
	if err := requireTransferID(transferID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	transfer, err := s.transfers.Execute(ctx, transferID,
		func(*models.Transfer) error { return nil },
		func(t *models.Transfer) {
			if t.IsDeleted {
				return
			}
			t.ApplySoftDelete(now)
		},
	)
	if err != nil {
		return nil, wrapTransferErr(err, transferID)
	}
	return transfer, nil
}

// RestoreTransfer clears the deleted mark. Idempotent.
func (s *Service) RestoreTransfer(ctx context.Context, transferID id.TransferID) (*models.Transfer, error) {
	if err := requireTransferID(transferID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	transfer, err := s.transfers.Execute(ctx, transferID,
		func(*models.Transfer) error { return nil },
		func(t *models.Transfer) {
			if !t.IsDeleted {
				return
			}
			t.ApplyRestore(now)
		},
	)
	if err != nil {
		return nil, wrapTransferErr(err, transferID)
	}
	return transfer, nil
}

// DeleteTransfer permanently removes the row. Transfers have no dependents.
func (s *Service) DeleteTransfer(ctx context.Context, transferID id.TransferID) error {
	if err := requireTransferID(transferID); err != nil {
		return err
	}
	if err := s.transfers.Delete(ctx, transferID); err != nil {
		return wrapTransferErr(err, transferID)
	}
	return nil
}

func requireTransferID(transferID id.TransferID) error {
	if transferID.IsNil() {
		return models.ErrRequired("transfer id")
	}
	return nil
}

func wrapTransferErr(err error, transferID id.TransferID) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ErrTransferNotFound(transferID)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "transfer storage failure")
}

func (s *Service) incrementTransferCreated() {
	if s.metrics != nil {
		s.metrics.IncrementTransferCreated()
	}
}
