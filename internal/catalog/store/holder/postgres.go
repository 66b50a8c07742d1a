package holder

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

const holderColumns = `id, name, telegram_id, is_deleted, created_at, updated_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, h *models.RegistryHolder) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO registry_holders (id, name, telegram_id, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(h.ID), h.Name, h.TelegramID, h.IsDeleted, h.CreatedAt, h.UpdatedAt)
	if database.IsUniqueViolation(err, "") {
		return sentinel.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert registry holder: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, holderID id.HolderID) (*models.RegistryHolder, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+holderColumns+` FROM registry_holders WHERE id = $1`, uuid.UUID(holderID))
	return scanHolder(row)
}

func (s *PostgresStore) FindByTelegramID(ctx context.Context, telegramID int64) (*models.RegistryHolder, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+holderColumns+` FROM registry_holders WHERE telegram_id = $1`, telegramID)
	return scanHolder(row)
}

func (s *PostgresStore) List(ctx context.Context, filter models.ListFilter) ([]*models.RegistryHolder, error) {
	q := tx.QuerierFrom(ctx, s.db)
	query := `SELECT ` + holderColumns + ` FROM registry_holders`
	if !filter.IncludeDeleted {
		query += ` WHERE NOT is_deleted`
	}
	query += ` ORDER BY created_at, id LIMIT $1 OFFSET $2`

	rows, err := q.QueryContext(ctx, query, filter.Page.Limit(), filter.Page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list registry holders: %w", err)
	}
	defer rows.Close()

	var out []*models.RegistryHolder
	for rows.Next() {
		h, err := scanHolder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, h *models.RegistryHolder) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE registry_holders
		SET name = $2, telegram_id = $3, is_deleted = $4, updated_at = $5
		WHERE id = $1`,
		uuid.UUID(h.ID), h.Name, h.TelegramID, h.IsDeleted, h.UpdatedAt)
	if database.IsUniqueViolation(err, "") {
		return sentinel.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("update registry holder: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, holderID id.HolderID) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx,
		`DELETE FROM registry_holders WHERE id = $1`, uuid.UUID(holderID))
	if database.IsForeignKeyViolation(err) {
		return sentinel.ErrInUse
	}
	if err != nil {
		return fmt.Errorf("delete registry holder: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM registry_holders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count registry holders: %w", err)
	}
	return count, nil
}

// Execute locks the row with FOR UPDATE, runs validate and mutate, and
// writes the result back, all inside one transaction.
func (s *PostgresStore) Execute(ctx context.Context, holderID id.HolderID, validate func(*models.RegistryHolder) error, mutate func(*models.RegistryHolder)) (*models.RegistryHolder, error) {
	var out *models.RegistryHolder
	err := tx.EnsureTx(ctx, s.db, func(txCtx context.Context) error {
		q := tx.QuerierFrom(txCtx, s.db)
		row := q.QueryRowContext(txCtx,
			`SELECT `+holderColumns+` FROM registry_holders WHERE id = $1 FOR UPDATE`, uuid.UUID(holderID))
		h, err := scanHolder(row)
		if err != nil {
			return err
		}
		if err := validate(h); err != nil {
			return err
		}
		mutate(h)

		res, err := q.ExecContext(txCtx, `
			UPDATE registry_holders
			SET name = $2, telegram_id = $3, is_deleted = $4, updated_at = $5
			WHERE id = $1`,
			uuid.UUID(h.ID), h.Name, h.TelegramID, h.IsDeleted, h.UpdatedAt)
		if database.IsUniqueViolation(err, "") {
			return sentinel.ErrDuplicate
		}
		if err != nil {
			return fmt.Errorf("update registry holder: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		out = h
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func scanHolder(row interface{ Scan(dest ...any) error }) (*models.RegistryHolder, error) {
	var h models.RegistryHolder
	var rowID uuid.UUID
	err := row.Scan(&rowID, &h.Name, &h.TelegramID, &h.IsDeleted, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan registry holder: %w", err)
	}
	h.ID = id.HolderID(rowID)
	return &h, nil
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
