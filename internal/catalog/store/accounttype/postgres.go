package accounttype

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	"github.com/smakki/FinanceManager-sub000/internal/platform/database"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/tx"
)

const typeColumns = `id, name, code, is_deleted, created_at, updated_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, t *models.AccountType) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO account_types (id, name, code, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(t.ID), t.Name, t.Code, t.IsDeleted, t.CreatedAt, t.UpdatedAt)
	if database.IsUniqueViolation(err, "") {
		return sentinel.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert account type: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, typeID id.AccountTypeID) (*models.AccountType, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+typeColumns+` FROM account_types WHERE id = $1`, uuid.UUID(typeID))
	return scanType(row)
}

func (s *PostgresStore) FindByCode(ctx context.Context, code string) (*models.AccountType, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+typeColumns+` FROM account_types WHERE LOWER(code) = LOWER($1)`, code)
	return scanType(row)
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.AccountType, error) {
	q := tx.QuerierFrom(ctx, s.db)
	query := `SELECT ` + typeColumns + ` FROM account_types`
	if !filter.IncludeDeleted {
		query += ` WHERE NOT is_deleted`
	}
	query += ` ORDER BY created_at, id LIMIT $1 OFFSET $2`

	rows, err := q.QueryContext(ctx, query, filter.Page.Limit(), filter.Page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list account types: %w", err)
	}
	defer rows.Close()

	var out []*models.AccountType
	for rows.Next() {
		t, err := scanType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, t *models.AccountType) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE account_types
		SET name = $2, code = $3, is_deleted = $4, updated_at = $5
		WHERE id = $1`,
		uuid.UUID(t.ID), t.Name, t.Code, t.IsDeleted, t.UpdatedAt)
	if database.IsUniqueViolation(err, "") {
		return sentinel.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("update account type: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, typeID id.AccountTypeID) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM account_types WHERE id = $1`, uuid.UUID(typeID))
	if database.IsForeignKeyViolation(err) {
		return sentinel.ErrInUse
	}
	if err != nil {
		return fmt.Errorf("delete account type: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Execute(ctx context.Context, typeID id.AccountTypeID, validate func(*models.AccountType) error, mutate func(*models.AccountType)) (*models.AccountType, error) {
	var out *models.AccountType
	err := tx.EnsureTx(ctx, s.db, func(txCtx context.Context) error {
		q := tx.QuerierFrom(txCtx, s.db)
		row := q.QueryRowContext(txCtx,
			`SELECT `+typeColumns+` FROM account_types WHERE id = $1 FOR UPDATE`, uuid.UUID(typeID))
		t, err := scanType(row)
		if err != nil {
			return err
		}
		if err := validate(t); err != nil {
			return err
		}
		mutate(t)

		res, err := q.ExecContext(txCtx, `
			UPDATE account_types
			SET name = $2, code = $3, is_deleted = $4, updated_at = $5
			WHERE id = $1`,
			uuid.UUID(t.ID), t.Name, t.Code, t.IsDeleted, t.UpdatedAt)
		if database.IsUniqueViolation(err, "") {
			return sentinel.ErrDuplicate
		}
		if err != nil {
			return fmt.Errorf("update account type: %w", err)
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

func scanType(row interface{ Scan(dest ...any) error }) (*models.AccountType, error) {
	var t models.AccountType
	var rowID uuid.UUID
	err := row.Scan(&rowID, &t.Name, &t.Code, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account type: %w", err)
	}
	t.ID = id.AccountTypeID(rowID)
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
