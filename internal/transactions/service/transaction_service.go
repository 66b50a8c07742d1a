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

// CreateTransaction records a movement on an account. The account and
// category references are verified against the local catalog replicas in the
// same unit of work as the insert.
func (s *Service) CreateTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.Transaction, error) {
	req.Normalize()
	if req.AccountID.IsNil() {
		return nil, models.ErrRequired("account id")
	}
	if req.CategoryID.IsNil() {
		return nil, models.ErrRequired("category id")
	}
	if req.Date.IsZero() {
		return nil, models.ErrRequired("date")
	}

	transaction, err := models.NewTransaction(id.NewTransactionID(), req.AccountID, req.CategoryID, req.Amount, req.Date, req.Comment, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkAccountUsable(txCtx, transaction.AccountID); err != nil {
			return err
		}
		if err := s.checkCategoryUsable(txCtx, transaction.CategoryID); err != nil {
			return err
		}
		if err := s.transactions.Create(txCtx, transaction); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create transaction")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, "transaction_created",
		"transaction_id", transaction.ID, "account_id", transaction.AccountID, "amount", transaction.Amount)
	s.incrementTransactionCreated()
	return transaction, nil
}

func (s *Service) GetTransaction(ctx context.Context, transactionID id.TransactionID) (*models.Transaction, error) {
	if err := requireTransactionID(transactionID); err != nil {
		return nil, err
	}
	transaction, err := s.transactions.FindByID(ctx, transactionID)
	if err != nil {
		return nil, wrapTransactionErr(err, transactionID)
	}
	return transaction, nil
}

func (s *Service) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error) {
	filter.Page = filter.Page.Normalize()
	transactions, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list transactions")
	}
	return transactions, nil
}

// UpdateTransaction applies the provided fields. A changed account or
// category reference is re-verified against the replicas; unchanged
// references are trusted as checked at creation.
func (s *Service) UpdateTransaction(ctx context.Context, req *models.UpdateTransactionRequest) (*models.Transaction, error) {
	if err := requireTransactionID(req.ID); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var transaction *models.Transaction
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		t, err := s.transactions.FindByID(txCtx, req.ID)
		if err != nil {
			return wrapTransactionErr(err, req.ID)
		}

		checkAccount := false
		checkCategory := false
		changed := false
		if req.AccountID != nil && *req.AccountID != t.AccountID {
			t.AccountID = *req.AccountID
			checkAccount = true
			changed = true
		}
		if req.CategoryID != nil && *req.CategoryID != t.CategoryID {
			t.CategoryID = *req.CategoryID
			checkCategory = true
			changed = true
		}
		if req.Amount != nil && !req.Amount.Equal(t.Amount) {
			t.Amount = *req.Amount
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
			transaction = t
			return nil
		}

		if checkAccount {
			if err := s.checkAccountUsable(txCtx, t.AccountID); err != nil {
				return err
			}
		}
		if checkCategory {
			if err := s.checkCategoryUsable(txCtx, t.CategoryID); err != nil {
				return err
			}
		}
		t.UpdatedAt = requestcontext.Now(txCtx)
		if err := s.transactions.Update(txCtx, t); err != nil {
			return wrapTransactionErr(err, req.ID)
		}
		transaction = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// SoftDeleteTransaction marks the transaction deleted. Idempotent.
func (s *Service) SoftDeleteTransaction(ctx context.Context, transactionID id.TransactionID) (*models.Transaction, error) {
	if err := requireTransactionID(transactionID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	transaction, err := s.transactions.Execute(ctx, transactionID,
		func(*models.Transaction) error { return nil },
		func(t *models.Transaction) {
			if t.IsDeleted {
				return
			}
			t.ApplySoftDelete(now)
		},
	)
	if err != nil {
		return nil, wrapTransactionErr(err, transactionID)
	}
	return transaction, nil
}

// RestoreTransaction clears the deleted mark. Idempotent. The original
// references are not re-verified: restoring only returns the row to the
// state it already passed validation in.
func (s *Service) RestoreTransaction(ctx context.Context, transactionID id.TransactionID) (*models.Transaction, error) {
	if err := requireTransactionID(transactionID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	transaction, err := s.transactions.Execute(ctx, transactionID,
		func(*models.Transaction) error { return nil },
		func(t *models.Transaction) {
			if !t.IsDeleted {
				return
			}
			t.ApplyRestore(now)
		},
	)
	if err != nil {
		return nil, wrapTransactionErr(err, transactionID)
	}
	return transaction, nil
}

// DeleteTransaction permanently removes the row. Transactions have no
// dependents, so there is no guard beyond existence.
func (s *Service) DeleteTransaction(ctx context.Context, transactionID id.TransactionID) error {
	if err := requireTransactionID(transactionID); err != nil {
		return err
	}
	if err := s.transactions.Delete(ctx, transactionID); err != nil {
		return wrapTransactionErr(err, transactionID)
	}
	return nil
}

func requireTransactionID(transactionID id.TransactionID) error {
	if transactionID.IsNil() {
		return models.ErrRequired("transaction id")
	}
	return nil
}

func wrapTransactionErr(err error, transactionID id.TransactionID) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.ErrTransactionNotFound(transactionID)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "transaction storage failure")
}

func (s *Service) incrementTransactionCreated() {
	if s.metrics != nil {
		s.metrics.IncrementTransactionCreated()
	}
}
