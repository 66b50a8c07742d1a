package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/smakki/FinanceManager-sub000/internal/transactions/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/tx"
)

const transactionColumns = `id, account_id, category_id, amount, date, comment, is_deleted, created_at, updated_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, t *models.Transaction) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO transactions (id, account_id, category_id, amount, date, comment, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(t.ID), uuid.UUID(t.AccountID), uuid.UUID(t.CategoryID),
		t.Amount, t.Date, t.Comment, t.IsDeleted, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, transactionID id.TransactionID) (*models.Transaction, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, uuid.UUID(transactionID))
	return scanTransaction(row)
}

func (s *PostgresStore) List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error) {
	q := tx.QuerierFrom(ctx, s.db)

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE TRUE`
	args := []any{}
	if filter.AccountID != nil {
		args = append(args, uuid.UUID(*filter.AccountID))
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if filter.CategoryID != nil {
		args = append(args, uuid.UUID(*filter.CategoryID))
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if !filter.IncludeDeleted {
		query += ` AND NOT is_deleted`
	}
	args = append(args, filter.Page.Limit(), filter.Page.Offset())
	query += fmt.Sprintf(" ORDER BY date, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []*models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, t *models.Transaction) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE transactions
		SET account_id = $2, category_id = $3, amount = $4, date = $5,
			comment = $6, is_deleted = $7, updated_at = $8
		WHERE id = $1`,
		uuid.UUID(t.ID), uuid.UUID(t.AccountID), uuid.UUID(t.CategoryID),
		t.Amount, t.Date, t.Comment, t.IsDeleted, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, transactionID id.TransactionID) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = $1`, uuid.UUID(transactionID))
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res)
}

// Execute locks the row with FOR UPDATE, runs validate and mutate, and
// writes the result back, all inside one transaction.
func (s *PostgresStore) Execute(ctx context.Context, transactionID id.TransactionID, validate func(*models.Transaction) error, mutate func(*models.Transaction)) (*models.Transaction, error) {
	var out *models.Transaction
	err := tx.EnsureTx(ctx, s.db, func(txCtx context.Context) error {
		q := tx.QuerierFrom(txCtx, s.db)
		row := q.QueryRowContext(txCtx,
			`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 FOR UPDATE`, uuid.UUID(transactionID))
		t, err := scanTransaction(row)
		if err != nil {
			return err
		}
		if err := validate(t); err != nil {
			return err
		}
		mutate(t)

		res, err := q.ExecContext(txCtx, `
			UPDATE transactions
			SET account_id = $2, category_id = $3, amount = $4, date = $5,
				comment = $6, is_deleted = $7, updated_at = $8
			WHERE id = $1`,
			uuid.UUID(t.ID), uuid.UUID(t.AccountID), uuid.UUID(t.CategoryID),
			t.Amount, t.Date, t.Comment, t.IsDeleted, t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanTransaction(row interface{ Scan(dest ...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	var rowID, accountID, categoryID uuid.UUID
	err := row.Scan(&rowID, &accountID, &categoryID, &t.Amount, &t.Date,
		&t.Comment, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	t.ID = id.TransactionID(rowID)
	t.AccountID = id.AccountID(accountID)
	t.CategoryID = id.CategoryID(categoryID)
	return &t, nil
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
