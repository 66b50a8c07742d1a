package currency

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

const currencyColumns = `id, name, char_code, num_code, is_deleted, created_at, updated_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, c *models.Currency) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO currencies (id, name, char_code, num_code, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(c.ID), c.Name, c.CharCode, c.NumCode, c.IsDeleted, c.CreatedAt, c.UpdatedAt)
	if err := mapCodeViolation(err); err != nil {
		return err
	}
	if err != nil {
		return fmt.Errorf("insert currency: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, currencyID id.CurrencyID) (*models.Currency, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+currencyColumns+` FROM currencies WHERE id = $1`, uuid.UUID(currencyID))
	return scanCurrency(row)
}

func (s *PostgresStore) FindByCharCode(ctx context.Context, charCode string) (*models.Currency, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+currencyColumns+` FROM currencies WHERE UPPER(char_code) = UPPER($1)`, charCode)
	return scanCurrency(row)
}

func (s *PostgresStore) FindByNumCode(ctx context.Context, numCode string) (*models.Currency, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+currencyColumns+` FROM currencies WHERE num_code = $1`, numCode)
	return scanCurrency(row)
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.Currency, error) {
	q := tx.QuerierFrom(ctx, s.db)
	query := `SELECT ` + currencyColumns + ` FROM currencies`
	if !filter.IncludeDeleted {
		query += ` WHERE NOT is_deleted`
	}
	query += ` ORDER BY created_at, id LIMIT $1 OFFSET $2`

	rows, err := q.QueryContext(ctx, query, filter.Page.Limit(), filter.Page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}
	defer rows.Close()

	var out []*models.Currency
	for rows.Next() {
		c, err := scanCurrency(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, c *models.Currency) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE currencies
		SET name = $2, char_code = $3, num_code = $4, is_deleted = $5, updated_at = $6
		WHERE id = $1`,
		uuid.UUID(c.ID), c.Name, c.CharCode, c.NumCode, c.IsDeleted, c.UpdatedAt)
	if err := mapCodeViolation(err); err != nil {
		return err
	}
	if err != nil {
		return fmt.Errorf("update currency: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, currencyID id.CurrencyID) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM currencies WHERE id = $1`, uuid.UUID(currencyID))
	if database.IsForeignKeyViolation(err) {
		return sentinel.ErrInUse
	}
	if err != nil {
		return fmt.Errorf("delete currency: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Execute(ctx context.Context, currencyID id.CurrencyID, validate func(*models.Currency) error, mutate func(*models.Currency)) (*models.Currency, error) {
	var out *models.Currency
	err := tx.EnsureTx(ctx, s.db, func(txCtx context.Context) error {
		q := tx.QuerierFrom(txCtx, s.db)
		row := q.QueryRowContext(txCtx,
			`SELECT `+currencyColumns+` FROM currencies WHERE id = $1 FOR UPDATE`, uuid.UUID(currencyID))
		c, err := scanCurrency(row)
		if err != nil {
			return err
		}
		if err := validate(c); err != nil {
			return err
		}
		mutate(c)

		res, err := q.ExecContext(txCtx, `
			UPDATE currencies
			SET name = $2, char_code = $3, num_code = $4, is_deleted = $5, updated_at = $6
			WHERE id = $1`,
			uuid.UUID(c.ID), c.Name, c.CharCode, c.NumCode, c.IsDeleted, c.UpdatedAt)
		if err := mapCodeViolation(err); err != nil {
			return err
		}
		if err != nil {
			return fmt.Errorf("update currency: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// mapCodeViolation picks the per-key duplicate error from the violated
// constraint name.
func mapCodeViolation(err error) error {
	switch {
	case database.IsUniqueViolation(err, "currencies_char_code_key"):
		return ErrCharCodeTaken
	case database.IsUniqueViolation(err, "currencies_num_code_key"):
		return ErrNumCodeTaken
	case database.IsUniqueViolation(err, ""):
		return sentinel.ErrDuplicate
	}
	return nil
}

func scanCurrency(row interface{ Scan(dest ...any) error }) (*models.Currency, error) {
	var c models.Currency
	var rowID uuid.UUID
	err := row.Scan(&rowID, &c.Name, &c.CharCode, &c.NumCode, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan currency: %w", err)
	}
	c.ID = id.CurrencyID(rowID)
	return &c, nil
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
