package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/smakki/FinanceManager-sub000/internal/transactions/models"
	replicastore "github.com/smakki/FinanceManager-sub000/internal/transactions/store/replica"
	transactionstore "github.com/smakki/FinanceManager-sub000/internal/transactions/store/transaction"
	transferstore "github.com/smakki/FinanceManager-sub000/internal/transactions/store/transfer"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	dErrors "github.com/smakki/FinanceManager-sub000/pkg/domain-errors"
)

// TransactionsServiceSuite runs the service over fresh in-memory stores with
// hand-seeded replicas, standing in for catalog data the sync job would have
// delivered.
type TransactionsServiceSuite struct {
	suite.Suite
	svc      *Service
	replicas *replicastore.InMemory
	ctx      context.Context
}

func TestTransactionsServiceSuite(t *testing.T) {
	suite.Run(t, new(TransactionsServiceSuite))
}

func (s *TransactionsServiceSuite) SetupTest() {
	s.replicas = replicastore.NewInMemory()
	s.svc = New(Stores{
		Transactions: transactionstore.NewInMemory(),
		Transfers:    transferstore.NewInMemory(),
		Replicas:     s.replicas,
	})
	s.ctx = context.Background()
}

func (s *TransactionsServiceSuite) seedAccount(archived, deleted bool) id.AccountID {
	accountID := id.NewAccountID()
	s.Require().NoError(s.replicas.UpsertAccounts(s.ctx, []*models.AccountReplica{{
		ID:               accountID,
		RegistryHolderID: id.NewHolderID(),
		Name:             "Checking",
		IsArchived:       archived,
		IsDeleted:        deleted,
	}}))
	return accountID
}

func (s *TransactionsServiceSuite) seedCategory(deleted bool) id.CategoryID {
	categoryID := id.NewCategoryID()
	s.Require().NoError(s.replicas.UpsertCategories(s.ctx, []*models.CategoryReplica{{
		ID:               categoryID,
		RegistryHolderID: id.NewHolderID(),
		Name:             "Groceries",
		IsDeleted:        deleted,
	}}))
	return categoryID
}

func (s *TransactionsServiceSuite) createTransaction(accountID id.AccountID, categoryID id.CategoryID, amount string, date time.Time) *models.Transaction {
	transaction, err := s.svc.CreateTransaction(s.ctx, &models.CreateTransactionRequest{
		AccountID:  accountID,
		CategoryID: categoryID,
		Amount:     decimal.RequireFromString(amount),
		Date:       date,
	})
	s.Require().NoError(err)
	return transaction
}

func (s *TransactionsServiceSuite) createTransfer(fromID, toID id.AccountID, fromAmount, toAmount string, date time.Time) *models.Transfer {
	transfer, err := s.svc.CreateTransfer(s.ctx, &models.CreateTransferRequest{
		FromAccountID: fromID,
		ToAccountID:   toID,
		FromAmount:    decimal.RequireFromString(fromAmount),
		ToAmount:      decimal.RequireFromString(toAmount),
		Date:          date,
	})
	s.Require().NoError(err)
	return transfer
}

func day(yyyy int, mm time.Month, dd int) time.Time {
	return time.Date(yyyy, mm, dd, 0, 0, 0, 0, time.UTC)
}

func (s *TransactionsServiceSuite) TestTransactionCreate() {
	accountID := s.seedAccount(false, false)
	categoryID := s.seedCategory(false)

	s.Run("transaction created with trimmed comment", func() {
		transaction, err := s.svc.CreateTransaction(s.ctx, &models.CreateTransactionRequest{
			AccountID:  accountID,
			CategoryID: categoryID,
			Amount:     decimal.RequireFromString("-42.50"),
			Date:       day(2025, time.March, 3),
			Comment:    "  weekly shop  ",
		})
		s.Require().NoError(err)
		s.Equal("weekly shop", transaction.Comment)
		s.True(transaction.Amount.Equal(decimal.RequireFromString("-42.50")))
		s.False(transaction.IsDeleted)
		s.False(transaction.ID.IsNil())
	})

	s.Run("zero amount rejected", func() {
		_, err := s.svc.CreateTransaction(s.ctx, &models.CreateTransactionRequest{
			AccountID:  accountID,
			CategoryID: categoryID,
			Amount:     decimal.Zero,
			Date:       day(2025, time.March, 3),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("missing date rejected", func() {
		_, err := s.svc.CreateTransaction(s.ctx, &models.CreateTransactionRequest{
			AccountID:  accountID,
			CategoryID: categoryID,
			Amount:     decimal.RequireFromString("5"),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("unknown account rejected", func() {
		_, err := s.svc.CreateTransaction(s.ctx, &models.CreateTransactionRequest{
			AccountID:  id.NewAccountID(),
			CategoryID: categoryID,
			Amount:     decimal.RequireFromString("5"),
			Date:       day(2025, time.March, 3),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal("ACCOUNT_NOT_FOUND", dErrors.ReasonOf(err))
	})

	s.Run("archived account rejected", func() {
		archivedID := s.seedAccount(true, false)
		_, err := s.svc.CreateTransaction(s.ctx, &models.CreateTransactionRequest{
			AccountID:  archivedID,
			CategoryID: categoryID,
			Amount:     decimal.RequireFromString("5"),
			Date:       day(2025, time.March, 3),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal("ACCOUNT_NOT_USABLE", dErrors.ReasonOf(err))
	})

	s.Run("deleted category rejected", func() {
		deletedID := s.seedCategory(true)
		_, err := s.svc.CreateTransaction(s.ctx, &models.CreateTransactionRequest{
			AccountID:  accountID,
			CategoryID: deletedID,
			Amount:     decimal.RequireFromString("5"),
			Date:       day(2025, time.March, 3),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal("CATEGORY_NOT_USABLE", dErrors.ReasonOf(err))
	})
}

func (s *TransactionsServiceSuite) TestTransactionUpdate() {
	accountID := s.seedAccount(false, false)
	categoryID := s.seedCategory(false)

	s.Run("partial update leaves other fields alone", func() {
		transaction := s.createTransaction(accountID, categoryID, "-10", day(2025, time.March, 3))
		amount := decimal.RequireFromString("-12.30")
		updated, err := s.svc.UpdateTransaction(s.ctx, &models.UpdateTransactionRequest{
			ID:     transaction.ID,
			Amount: &amount,
		})
		s.Require().NoError(err)
		s.True(updated.Amount.Equal(amount))
		s.Equal(transaction.AccountID, updated.AccountID)
		s.Equal(transaction.CategoryID, updated.CategoryID)
		s.True(updated.Date.Equal(transaction.Date))
	})

	s.Run("no-op update returns current state", func() {
		transaction := s.createTransaction(accountID, categoryID, "-10", day(2025, time.March, 3))
		updated, err := s.svc.UpdateTransaction(s.ctx, &models.UpdateTransactionRequest{ID: transaction.ID})
		s.Require().NoError(err)
		s.Equal(transaction.ID, updated.ID)
		s.True(updated.UpdatedAt.Equal(transaction.UpdatedAt))
	})

	s.Run("moving to archived account rejected and row unchanged", func() {
		transaction := s.createTransaction(accountID, categoryID, "-10", day(2025, time.March, 3))
		archivedID := s.seedAccount(true, false)
		_, err := s.svc.UpdateTransaction(s.ctx, &models.UpdateTransactionRequest{
			ID:        transaction.ID,
			AccountID: &archivedID,
		})
		s.Require().Error(err)
		s.Equal("ACCOUNT_NOT_USABLE", dErrors.ReasonOf(err))

		current, err := s.svc.GetTransaction(s.ctx, transaction.ID)
		s.Require().NoError(err)
		s.Equal(accountID, current.AccountID)
	})

	s.Run("moving to deleted category rejected", func() {
		transaction := s.createTransaction(accountID, categoryID, "-10", day(2025, time.March, 3))
		deletedID := s.seedCategory(true)
		_, err := s.svc.UpdateTransaction(s.ctx, &models.UpdateTransactionRequest{
			ID:         transaction.ID,
			CategoryID: &deletedID,
		})
		s.Require().Error(err)
		s.Equal("CATEGORY_NOT_USABLE", dErrors.ReasonOf(err))
	})

	s.Run("zero amount rejected", func() {
		transaction := s.createTransaction(accountID, categoryID, "-10", day(2025, time.March, 3))
		zero := decimal.Zero
		_, err := s.svc.UpdateTransaction(s.ctx, &models.UpdateTransactionRequest{
			ID:     transaction.ID,
			Amount: &zero,
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("unknown transaction rejected", func() {
		_, err := s.svc.UpdateTransaction(s.ctx, &models.UpdateTransactionRequest{ID: id.NewTransactionID()})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal("TRANSACTION_NOT_FOUND", dErrors.ReasonOf(err))
	})
}

func (s *TransactionsServiceSuite) TestTransactionLifecycle() {
	accountID := s.seedAccount(false, false)
	categoryID := s.seedCategory(false)

	s.Run("soft delete and restore are idempotent", func() {
		transaction := s.createTransaction(accountID, categoryID, "-10", day(2025, time.March, 3))

		deleted, err := s.svc.SoftDeleteTransaction(s.ctx, transaction.ID)
		s.Require().NoError(err)
		s.True(deleted.IsDeleted)

		again, err := s.svc.SoftDeleteTransaction(s.ctx, transaction.ID)
		s.Require().NoError(err)
		s.True(again.IsDeleted)
		s.True(again.UpdatedAt.Equal(deleted.UpdatedAt))

		restored, err := s.svc.RestoreTransaction(s.ctx, transaction.ID)
		s.Require().NoError(err)
		s.False(restored.IsDeleted)

		restoredAgain, err := s.svc.RestoreTransaction(s.ctx, transaction.ID)
		s.Require().NoError(err)
		s.False(restoredAgain.IsDeleted)
	})

	s.Run("hard delete removes the row", func() {
		transaction := s.createTransaction(accountID, categoryID, "-10", day(2025, time.March, 3))
		s.Require().NoError(s.svc.DeleteTransaction(s.ctx, transaction.ID))

		_, err := s.svc.GetTransaction(s.ctx, transaction.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("restore survives references going stale", func() {
		// The account was usable at creation; archiving it later must not
		// block restoring a soft-deleted row to its validated state.
		staleAccountID := s.seedAccount(false, false)
		transaction := s.createTransaction(staleAccountID, categoryID, "-10", day(2025, time.March, 3))
		_, err := s.svc.SoftDeleteTransaction(s.ctx, transaction.ID)
		s.Require().NoError(err)

		s.Require().NoError(s.replicas.UpsertAccounts(s.ctx, []*models.AccountReplica{{
			ID: staleAccountID, RegistryHolderID: id.NewHolderID(), Name: "Checking", IsArchived: true,
		}}))

		restored, err := s.svc.RestoreTransaction(s.ctx, transaction.ID)
		s.Require().NoError(err)
		s.False(restored.IsDeleted)
	})
}

func (s *TransactionsServiceSuite) TestTransactionList() {
	accountID := s.seedAccount(false, false)
	otherAccountID := s.seedAccount(false, false)
	categoryID := s.seedCategory(false)
	otherCategoryID := s.seedCategory(false)

	first := s.createTransaction(accountID, categoryID, "-10", day(2025, time.March, 1))
	second := s.createTransaction(accountID, otherCategoryID, "-20", day(2025, time.March, 5))
	third := s.createTransaction(otherAccountID, categoryID, "30", day(2025, time.March, 9))
	deleted := s.createTransaction(accountID, categoryID, "-40", day(2025, time.March, 12))
	_, err := s.svc.SoftDeleteTransaction(s.ctx, deleted.ID)
	s.Require().NoError(err)

	s.Run("default listing hides deleted and orders by date", func() {
		transactions, err := s.svc.ListTransactions(s.ctx, models.TransactionFilter{})
		s.Require().NoError(err)
		s.Require().Len(transactions, 3)
		s.Equal(first.ID, transactions[0].ID)
		s.Equal(second.ID, transactions[1].ID)
		s.Equal(third.ID, transactions[2].ID)
	})

	s.Run("include deleted shows everything", func() {
		transactions, err := s.svc.ListTransactions(s.ctx, models.TransactionFilter{IncludeDeleted: true})
		s.Require().NoError(err)
		s.Len(transactions, 4)
	})

	s.Run("filter by account", func() {
		transactions, err := s.svc.ListTransactions(s.ctx, models.TransactionFilter{AccountID: &otherAccountID})
		s.Require().NoError(err)
		s.Require().Len(transactions, 1)
		s.Equal(third.ID, transactions[0].ID)
	})

	s.Run("filter by category", func() {
		transactions, err := s.svc.ListTransactions(s.ctx, models.TransactionFilter{CategoryID: &otherCategoryID})
		s.Require().NoError(err)
		s.Require().Len(transactions, 1)
		s.Equal(second.ID, transactions[0].ID)
	})

	s.Run("filter by date range", func() {
		from := day(2025, time.March, 2)
		to := day(2025, time.March, 9)
		transactions, err := s.svc.ListTransactions(s.ctx, models.TransactionFilter{From: &from, To: &to})
		s.Require().NoError(err)
		s.Require().Len(transactions, 2)
		s.Equal(second.ID, transactions[0].ID)
		s.Equal(third.ID, transactions[1].ID)
	})

	s.Run("pagination windows the result", func() {
		transactions, err := s.svc.ListTransactions(s.ctx, models.TransactionFilter{
			Page: id.PageParams{Page: 2, ItemsPerPage: 2},
		})
		s.Require().NoError(err)
		s.Require().Len(transactions, 1)
		s.Equal(third.ID, transactions[0].ID)
	})
}

func (s *TransactionsServiceSuite) TestTransferCreate() {
	fromID := s.seedAccount(false, false)
	toID := s.seedAccount(false, false)

	s.Run("transfer created with both sides", func() {
		transfer, err := s.svc.CreateTransfer(s.ctx, &models.CreateTransferRequest{
			FromAccountID: fromID,
			ToAccountID:   toID,
			FromAmount:    decimal.RequireFromString("-100"),
			ToAmount:      decimal.RequireFromString("91.40"),
			Date:          day(2025, time.April, 1),
			Comment:       " rebalance ",
		})
		s.Require().NoError(err)
		s.Equal("rebalance", transfer.Comment)
		s.Equal(fromID, transfer.FromAccountID)
		s.Equal(toID, transfer.ToAccountID)
		s.False(transfer.ID.IsNil())
	})

	s.Run("same account on both sides rejected", func() {
		_, err := s.svc.CreateTransfer(s.ctx, &models.CreateTransferRequest{
			FromAccountID: fromID,
			ToAccountID:   fromID,
			FromAmount:    decimal.RequireFromString("-100"),
			ToAmount:      decimal.RequireFromString("100"),
			Date:          day(2025, time.April, 1),
		})
		s.Require().Error(err)
		s.Equal("TRANSFER_SAME_ACCOUNT", dErrors.ReasonOf(err))
	})

	s.Run("zero destination amount rejected", func() {
		_, err := s.svc.CreateTransfer(s.ctx, &models.CreateTransferRequest{
			FromAccountID: fromID,
			ToAccountID:   toID,
			FromAmount:    decimal.RequireFromString("-100"),
			ToAmount:      decimal.Zero,
			Date:          day(2025, time.April, 1),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("deleted destination account rejected", func() {
		deletedID := s.seedAccount(false, true)
		_, err := s.svc.CreateTransfer(s.ctx, &models.CreateTransferRequest{
			FromAccountID: fromID,
			ToAccountID:   deletedID,
			FromAmount:    decimal.RequireFromString("-100"),
			ToAmount:      decimal.RequireFromString("100"),
			Date:          day(2025, time.April, 1),
		})
		s.Require().Error(err)
		s.Equal("ACCOUNT_NOT_USABLE", dErrors.ReasonOf(err))
	})
}

func (s *TransactionsServiceSuite) TestTransferUpdate() {
	fromID := s.seedAccount(false, false)
	toID := s.seedAccount(false, false)

	s.Run("collapsing both sides onto one account rejected", func() {
		transfer := s.createTransfer(fromID, toID, "-100", "100", day(2025, time.April, 1))
		_, err := s.svc.UpdateTransfer(s.ctx, &models.UpdateTransferRequest{
			ID:          transfer.ID,
			ToAccountID: &fromID,
		})
		s.Require().Error(err)
		s.Equal("TRANSFER_SAME_ACCOUNT", dErrors.ReasonOf(err))
	})

	s.Run("changed account is re-verified", func() {
		transfer := s.createTransfer(fromID, toID, "-100", "100", day(2025, time.April, 1))
		archivedID := s.seedAccount(true, false)
		_, err := s.svc.UpdateTransfer(s.ctx, &models.UpdateTransferRequest{
			ID:          transfer.ID,
			ToAccountID: &archivedID,
		})
		s.Require().Error(err)
		s.Equal("ACCOUNT_NOT_USABLE", dErrors.ReasonOf(err))
	})

	s.Run("amounts and date updated in place", func() {
		transfer := s.createTransfer(fromID, toID, "-100", "100", day(2025, time.April, 1))
		fromAmount := decimal.RequireFromString("-80")
		date := day(2025, time.April, 2)
		updated, err := s.svc.UpdateTransfer(s.ctx, &models.UpdateTransferRequest{
			ID:         transfer.ID,
			FromAmount: &fromAmount,
			Date:       &date,
		})
		s.Require().NoError(err)
		s.True(updated.FromAmount.Equal(fromAmount))
		s.True(updated.Date.Equal(date))
		s.True(updated.ToAmount.Equal(transfer.ToAmount))
	})
}

func (s *TransactionsServiceSuite) TestTransferLifecycleAndList() {
	firstID := s.seedAccount(false, false)
	secondID := s.seedAccount(false, false)
	thirdID := s.seedAccount(false, false)

	outbound := s.createTransfer(firstID, secondID, "-100", "100", day(2025, time.April, 1))
	inbound := s.createTransfer(thirdID, firstID, "-50", "50", day(2025, time.April, 3))
	unrelated := s.createTransfer(secondID, thirdID, "-25", "25", day(2025, time.April, 5))

	s.Run("account filter matches either side", func() {
		transfers, err := s.svc.ListTransfers(s.ctx, models.TransferFilter{AccountID: &firstID})
		s.Require().NoError(err)
		s.Require().Len(transfers, 2)
		s.Equal(outbound.ID, transfers[0].ID)
		s.Equal(inbound.ID, transfers[1].ID)
	})

	s.Run("soft deleted transfer drops out of default listing", func() {
		_, err := s.svc.SoftDeleteTransfer(s.ctx, unrelated.ID)
		s.Require().NoError(err)

		transfers, err := s.svc.ListTransfers(s.ctx, models.TransferFilter{})
		s.Require().NoError(err)
		s.Len(transfers, 2)

		all, err := s.svc.ListTransfers(s.ctx, models.TransferFilter{IncludeDeleted: true})
		s.Require().NoError(err)
		s.Len(all, 3)
	})

	s.Run("hard delete removes the row", func() {
		s.Require().NoError(s.svc.DeleteTransfer(s.ctx, inbound.ID))
		_, err := s.svc.GetTransfer(s.ctx, inbound.ID)
		s.Require().Error(err)
		s.Equal("TRANSFER_NOT_FOUND", dErrors.ReasonOf(err))
	})
}

func (s *TransactionsServiceSuite) TestReplicaCounts() {
	s.seedAccount(false, false)
	s.seedAccount(true, false)
	s.seedCategory(false)

	counts, err := s.svc.ReplicaCounts(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, counts["accounts"])
	s.Equal(1, counts["categories"])
	s.Equal(0, counts["holders"])
}
