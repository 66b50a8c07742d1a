package transfer

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

const transferColumns = `id, from_account_id, to_account_id, from_amount, to_amount, date, comment, is_deleted, created_at, updated_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, t *models.Transfer) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO transfers (id, from_account_id, to_account_id, from_amount, to_amount, date, comment, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(t.ID), uuid.UUID(t.FromAccountID), uuid.UUID(t.ToAccountID),
		t.FromAmount, t.ToAmount, t.Date, t.Comment, t.IsDeleted, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert transfer: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, transferID id.TransferID) (*models.Transfer, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE id = $1`, uuid.UUID(transferID))
	return scanTransfer(row)
}

func (s *PostgresStore) List(ctx context.Context, filter models.TransferFilter) ([]*models.Transfer, error) {
	q := tx.QuerierFrom(ctx, s.db)

	query := `SELECT ` + transferColumns + ` FROM transfers WHERE TRUE`
	args := []any{}
	if filter.AccountID != nil {
		args = append(args, uuid.UUID(*filter.AccountID))
		query += fmt.Sprintf(" AND (from_account_id = $%d OR to_account_id = $%d)", len(args), len(args))
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
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var out []*models.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, t *models.Transfer) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE transfers
		SET from_account_id = $2, to_account_id = $3, from_amount = $4, to_amount = $5,
			date = $6, comment = $7, is_deleted = $8, updated_at = $9
		WHERE id = $1`,
		uuid.UUID(t.ID), uuid.UUID(t.FromAccountID), uuid.UUID(t.ToAccountID),
		t.FromAmount, t.ToAmount, t.Date, t.Comment, t.IsDeleted, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, transferID id.TransferID) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx,
		`DELETE FROM transfers WHERE id = $1`, uuid.UUID(transferID))
	if err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	return requireAffected(res)
}

// Execute locks the row with FOR UPDATE, runs validate and mutate, and
// writes the result back, all inside one transaction.
func (s *PostgresStore) Execute(ctx context.Context, transferID id.TransferID, validate func(*models.Transfer) error, mutate func(*models.Transfer)) (*models.Transfer, error) {
	var out *models.Transfer
	err := tx.EnsureTx(ctx, s.db, func(txCtx context.Context) error {
		q := tx.QuerierFrom(txCtx, s.db)
		row := q.QueryRowContext(txCtx,
			`SELECT `+transferColumns+` FROM transfers WHERE id = $1 FOR UPDATE`, uuid.UUID(transferID))
		t, err := scanTransfer(row)
		if err != nil {
			return err
		}
		if err := validate(t); err != nil {
			return err
		}
		mutate(t)

		res, err := q.ExecContext(txCtx, `
			UPDATE transfers
			SET from_account_id = $2, to_account_id = $3, from_amount = $4, to_amount = $5,
				date = $6, comment = $7, is_deleted = $8, updated_at = $9
			WHERE id = $1`,
			uuid.UUID(t.ID), uuid.UUID(t.FromAccountID), uuid.UUID(t.ToAccountID),
			t.FromAmount, t.ToAmount, t.Date, t.Comment, t.IsDeleted, t.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update transfer: %w", err)
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

func scanTransfer(row interface{ Scan(dest ...any) error }) (*models.Transfer, error) {
	var t models.Transfer
	var rowID, fromID, toID uuid.UUID
	err := row.Scan(&rowID, &fromID, &toID, &t.FromAmount, &t.ToAmount,
		&t.Date, &t.Comment, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan transfer: %w", err)
	}
	t.ID = id.TransferID(rowID)
	t.FromAccountID = id.AccountID(fromID)
	t.ToAccountID = id.AccountID(toID)
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
