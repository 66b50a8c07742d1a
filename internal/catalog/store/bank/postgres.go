package bank

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

const bankColumns = `id, country_id, name, is_deleted, created_at, updated_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, b *models.Bank) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO banks (id, country_id, name, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(b.ID), uuid.UUID(b.CountryID), b.Name, b.IsDeleted, b.CreatedAt, b.UpdatedAt)
	if database.IsUniqueViolation(err, "") {
		return sentinel.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert bank: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, bankID id.BankID) (*models.Bank, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+bankColumns+` FROM banks WHERE id = $1`, uuid.UUID(bankID))
	return scanBank(row)
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Bank, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+bankColumns+` FROM banks WHERE LOWER(name) = LOWER($1)`, name)
	return scanBank(row)
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.Bank, error) {
	q := tx.QuerierFrom(ctx, s.db)
	query := `SELECT ` + bankColumns + ` FROM banks`
	if !filter.IncludeDeleted {
		query += ` WHERE NOT is_deleted`
	}
	query += ` ORDER BY created_at, id LIMIT $1 OFFSET $2`

	rows, err := q.QueryContext(ctx, query, filter.Page.Limit(), filter.Page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list banks: %w", err)
	}
	defer rows.Close()

	var out []*models.Bank
	for rows.Next() {
		b, err := scanBank(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, b *models.Bank) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE banks
		SET country_id = $2, name = $3, is_deleted = $4, updated_at = $5
		WHERE id = $1`,
		uuid.UUID(b.ID), uuid.UUID(b.CountryID), b.Name, b.IsDeleted, b.UpdatedAt)
	if database.IsUniqueViolation(err, "") {
		return sentinel.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("update bank: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, bankID id.BankID) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM banks WHERE id = $1`, uuid.UUID(bankID))
	if database.IsForeignKeyViolation(err) {
		return sentinel.ErrInUse
	}
	if err != nil {
		return fmt.Errorf("delete bank: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) CountByCountry(ctx context.Context, countryID id.CountryID) (int, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM banks WHERE country_id = $1`, uuid.UUID(countryID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count banks by country: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) Execute(ctx context.Context, bankID id.BankID, validate func(*models.Bank) error, mutate func(*models.Bank)) (*models.Bank, error) {
	var out *models.Bank
	err := tx.EnsureTx(ctx, s.db, func(txCtx context.Context) error {
		q := tx.QuerierFrom(txCtx, s.db)
		row := q.QueryRowContext(txCtx,
			`SELECT `+bankColumns+` FROM banks WHERE id = $1 FOR UPDATE`, uuid.UUID(bankID))
		b, err := scanBank(row)
		if err != nil {
			return err
		}
		if err := validate(b); err != nil {
			return err
		}
		mutate(b)

		res, err := q.ExecContext(txCtx, `
			UPDATE banks
			SET country_id = $2, name = $3, is_deleted = $4, updated_at = $5
			WHERE id = $1`,
			uuid.UUID(b.ID), uuid.UUID(b.CountryID), b.Name, b.IsDeleted, b.UpdatedAt)
		if database.IsUniqueViolation(err, "") {
			return sentinel.ErrDuplicate
		}
		if err != nil {
			return fmt.Errorf("update bank: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanBank(row interface{ Scan(dest ...any) error }) (*models.Bank, error) {
	var b models.Bank
	var rowID, countryID uuid.UUID
	err := row.Scan(&rowID, &countryID, &b.Name, &b.IsDeleted, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan bank: %w", err)
	}
	b.ID = id.BankID(rowID)
	b.CountryID = id.CountryID(countryID)
	return &b, nil
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
