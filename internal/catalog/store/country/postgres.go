package country

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

const countryColumns = `id, name, is_deleted, created_at, updated_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, c *models.Country) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO countries (id, name, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(c.ID), c.Name, c.IsDeleted, c.CreatedAt, c.UpdatedAt)
	if database.IsUniqueViolation(err, "") {
		return sentinel.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert country: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, countryID id.CountryID) (*models.Country, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+countryColumns+` FROM countries WHERE id = $1`, uuid.UUID(countryID))
	return scanCountry(row)
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Country, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+countryColumns+` FROM countries WHERE LOWER(name) = LOWER($1)`, name)
	return scanCountry(row)
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.Country, error) {
	q := tx.QuerierFrom(ctx, s.db)
	query := `SELECT ` + countryColumns + ` FROM countries`
	if !filter.IncludeDeleted {
		query += ` WHERE NOT is_deleted`
	}
	query += ` ORDER BY created_at, id LIMIT $1 OFFSET $2`

	rows, err := q.QueryContext(ctx, query, filter.Page.Limit(), filter.Page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()

	var out []*models.Country
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, c *models.Country) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE countries
		SET name = $2, is_deleted = $3, updated_at = $4
		WHERE id = $1`,
		uuid.UUID(c.ID), c.Name, c.IsDeleted, c.UpdatedAt)
	if database.IsUniqueViolation(err, "") {
		return sentinel.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("update country: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, countryID id.CountryID) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx,
		`DELETE FROM countries WHERE id = $1`, uuid.UUID(countryID))
	if database.IsForeignKeyViolation(err) {
		return sentinel.ErrInUse
	}
	if err != nil {
		return fmt.Errorf("delete country: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Execute(ctx context.Context, countryID id.CountryID, validate func(*models.Country) error, mutate func(*models.Country)) (*models.Country, error) {
	var out *models.Country
	err := tx.EnsureTx(ctx, s.db, func(txCtx context.Context) error {
		q := tx.QuerierFrom(txCtx, s.db)
		row := q.QueryRowContext(txCtx,
			`SELECT `+countryColumns+` FROM countries WHERE id = $1 FOR UPDATE`, uuid.UUID(countryID))
		c, err := scanCountry(row)
		if err != nil {
			return err
		}
		if err := validate(c); err != nil {
			return err
		}
		mutate(c)

		res, err := q.ExecContext(txCtx, `
			UPDATE countries
			SET name = $2, is_deleted = $3, updated_at = $4
			WHERE id = $1`,
			uuid.UUID(c.ID), c.Name, c.IsDeleted, c.UpdatedAt)
		if database.IsUniqueViolation(err, "") {
			return sentinel.ErrDuplicate
		}
		if err != nil {
			return fmt.Errorf("update country: %w", err)
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

func scanCountry(row interface{ Scan(dest ...any) error }) (*models.Country, error) {
	var c models.Country
	var rowID uuid.UUID
	err := row.Scan(&rowID, &c.Name, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan country: %w", err)
	}
	c.ID = id.CountryID(rowID)
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
