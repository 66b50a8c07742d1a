package rate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smakki/FinanceManager-sub000/internal/catalog/models"
	"github.com/smakki/FinanceManager-sub000/internal/platform/database"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/tx"
)

const rateColumns = `id, currency_id, rate_date, rate, created_at, updated_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, r *models.ExchangeRate) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO exchange_rates (id, currency_id, rate_date, rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(r.ID), uuid.UUID(r.CurrencyID), r.RateDate, r.Rate, r.CreatedAt, r.UpdatedAt)
	if database.IsUniqueViolation(err, "") {
		return sentinel.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert exchange rate: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, rateID id.ExchangeRateID) (*models.ExchangeRate, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+rateColumns+` FROM exchange_rates WHERE id = $1`, uuid.UUID(rateID))
	return scanRate(row)
}

func (s *PostgresStore) FindByCurrencyAndDate(ctx context.Context, currencyID id.CurrencyID, date time.Time) (*models.ExchangeRate, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT `+rateColumns+` FROM exchange_rates
		WHERE currency_id = $1 AND rate_date = $2`,
		uuid.UUID(currencyID), models.NormalizeRateDate(date))
	return scanRate(row)
}

func (s *PostgresStore) List(ctx context.Context, filter models.ExchangeRateFilter) ([]*models.ExchangeRate, error) {
	q := tx.QuerierFrom(ctx, s.db)

	query := `SELECT ` + rateColumns + ` FROM exchange_rates WHERE TRUE`
	args := []any{}
	if filter.CurrencyID != nil {
		args = append(args, uuid.UUID(*filter.CurrencyID))
		query += fmt.Sprintf(" AND currency_id = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, models.NormalizeRateDate(*filter.From))
		query += fmt.Sprintf(" AND rate_date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, models.NormalizeRateDate(*filter.To))
		query += fmt.Sprintf(" AND rate_date <= $%d", len(args))
	}
	args = append(args, filter.Page.Limit(), filter.Page.Offset())
	query += fmt.Sprintf(" ORDER BY rate_date, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exchange rates: %w", err)
	}
	defer rows.Close()

	var out []*models.ExchangeRate
	for rows.Next() {
		r, err := scanRate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, r *models.ExchangeRate) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE exchange_rates
		SET rate_date = $2, rate = $3, updated_at = $4
		WHERE id = $1`,
		uuid.UUID(r.ID), r.RateDate, r.Rate, r.UpdatedAt)
	if database.IsUniqueViolation(err, "") {
		return sentinel.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("update exchange rate: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, rateID id.ExchangeRateID) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM exchange_rates WHERE id = $1`, uuid.UUID(rateID))
	if err != nil {
		return fmt.Errorf("delete exchange rate: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) CountByCurrency(ctx context.Context, currencyID id.CurrencyID) (int, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exchange_rates WHERE currency_id = $1`, uuid.UUID(currencyID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count exchange rates by currency: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) Execute(ctx context.Context, rateID id.ExchangeRateID, validate func(*models.ExchangeRate) error, mutate func(*models.ExchangeRate)) (*models.ExchangeRate, error) {
	var out *models.ExchangeRate
	err := tx.EnsureTx(ctx, s.db, func(txCtx context.Context) error {
		q := tx.QuerierFrom(txCtx, s.db)
		row := q.QueryRowContext(txCtx,
			`SELECT `+rateColumns+` FROM exchange_rates WHERE id = $1 FOR UPDATE`, uuid.UUID(rateID))
		r, err := scanRate(row)
		if err != nil {
			return err
		}
		if err := validate(r); err != nil {
			return err
		}
		mutate(r)

		res, err := q.ExecContext(txCtx, `
			UPDATE exchange_rates
			SET rate_date = $2, rate = $3, updated_at = $4
			WHERE id = $1`,
			uuid.UUID(r.ID), r.RateDate, r.Rate, r.UpdatedAt)
		if database.IsUniqueViolation(err, "") {
			return sentinel.ErrDuplicate
		}
		if err != nil {
			return fmt.Errorf("update exchange rate: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanRate(row interface{ Scan(dest ...any) error }) (*models.ExchangeRate, error) {
	var r models.ExchangeRate
	var rowID, currencyID uuid.UUID
	err := row.Scan(&rowID, &currencyID, &r.RateDate, &r.Rate, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan exchange rate: %w", err)
	}
	r.ID = id.ExchangeRateID(rowID)
	r.CurrencyID = id.CurrencyID(currencyID)
	r.RateDate = models.NormalizeRateDate(r.RateDate)
	return &r, nil
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
