package category

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

const categoryColumns = `id, registry_holder_id, name, is_income, is_expense, parent_id,
	is_deleted, created_at, updated_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, c *models.Category) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO categories (id, registry_holder_id, name, is_income, is_expense, parent_id,
			is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(c.ID), uuid.UUID(c.RegistryHolderID), c.Name, c.IsIncome, c.IsExpense,
		parentValue(c.ParentID), c.IsDeleted, c.CreatedAt, c.UpdatedAt)
	if database.IsUniqueViolation(err, "") {
		return sentinel.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, categoryID id.CategoryID) (*models.Category, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, uuid.UUID(categoryID))
	return scanCategory(row)
}

func (s *PostgresStore) FindByHolderParentName(ctx context.Context, holderID id.HolderID, parentID *id.CategoryID, name string) (*models.Category, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var row *sql.Row
	if parentID == nil {
		row = q.QueryRowContext(ctx, `
			SELECT `+categoryColumns+` FROM categories
			WHERE registry_holder_id = $1 AND parent_id IS NULL AND LOWER(name) = LOWER($2)`,
			uuid.UUID(holderID), name)
	} else {
		row = q.QueryRowContext(ctx, `
			SELECT `+categoryColumns+` FROM categories
			WHERE registry_holder_id = $1 AND parent_id = $2 AND LOWER(name) = LOWER($3)`,
			uuid.UUID(holderID), uuid.UUID(*parentID), name)
	}
	return scanCategory(row)
}

func (s *PostgresStore) List(ctx context.Context, filter models.CategoryFilter) ([]*models.Category, error) {
	q := tx.QuerierFrom(ctx, s.db)

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE TRUE`
	args := []any{}
	if filter.RegistryHolderID != nil {
		args = append(args, uuid.UUID(*filter.RegistryHolderID))
		query += fmt.Sprintf(" AND registry_holder_id = $%d", len(args))
	}
	if filter.ParentID != nil {
		args = append(args, uuid.UUID(*filter.ParentID))
		query += fmt.Sprintf(" AND parent_id = $%d", len(args))
	}
	if !filter.IncludeDeleted {
		query += ` AND NOT is_deleted`
	}
	args = append(args, filter.Page.Limit(), filter.Page.Offset())
	query += fmt.Sprintf(" ORDER BY created_at, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, c *models.Category) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE categories
		SET name = $2, is_income = $3, is_expense = $4, parent_id = $5,
			is_deleted = $6, updated_at = $7
		WHERE id = $1`,
		uuid.UUID(c.ID), c.Name, c.IsIncome, c.IsExpense, parentValue(c.ParentID),
		c.IsDeleted, c.UpdatedAt)
	if database.IsUniqueViolation(err, "") {
		return sentinel.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, categoryID id.CategoryID) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, uuid.UUID(categoryID))
	if database.IsForeignKeyViolation(err) {
		return sentinel.ErrInUse
	}
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) CountByHolder(ctx context.Context, holderID id.HolderID) (int, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE registry_holder_id = $1`, uuid.UUID(holderID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count categories by holder: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) CountChildren(ctx context.Context, categoryID id.CategoryID) (int, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var count int
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE parent_id = $1`, uuid.UUID(categoryID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count category children: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) Execute(ctx context.Context, categoryID id.CategoryID, validate func(*models.Category) error, mutate func(*models.Category)) (*models.Category, error) {
	var out *models.Category
	err := tx.EnsureTx(ctx, s.db, func(txCtx context.Context) error {
		q := tx.QuerierFrom(txCtx, s.db)
		row := q.QueryRowContext(txCtx,
			`SELECT `+categoryColumns+` FROM categories WHERE id = $1 FOR UPDATE`, uuid.UUID(categoryID))
		c, err := scanCategory(row)
		if err != nil {
			return err
		}
		if err := validate(c); err != nil {
			return err
		}
		mutate(c)

		res, err := q.ExecContext(txCtx, `
			UPDATE categories
			SET name = $2, is_income = $3, is_expense = $4, parent_id = $5,
				is_deleted = $6, updated_at = $7
			WHERE id = $1`,
			uuid.UUID(c.ID), c.Name, c.IsIncome, c.IsExpense, parentValue(c.ParentID),
			c.IsDeleted, c.UpdatedAt)
		if database.IsUniqueViolation(err, "") {
			return sentinel.ErrDuplicate
		}
		if err != nil {
			return fmt.Errorf("update category: %w", err)
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

func parentValue(parentID *id.CategoryID) any {
	if parentID == nil {
		return nil
	}
	return uuid.UUID(*parentID)
}

func scanCategory(row interface{ Scan(dest ...any) error }) (*models.Category, error) {
	var c models.Category
	var rowID, holderID uuid.UUID
	var parent uuid.NullUUID
	err := row.Scan(&rowID, &holderID, &c.Name, &c.IsIncome, &c.IsExpense, &parent,
		&c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan category: %w", err)
	}
	c.ID = id.CategoryID(rowID)
	c.RegistryHolderID = id.HolderID(holderID)
	if parent.Valid {
		parentID := id.CategoryID(parent.UUID)
		c.ParentID = &parentID
	}
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
