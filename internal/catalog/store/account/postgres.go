package account

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

const accountColumns = `id, registry_holder_id, account_type_id, currency_id, bank_id,
	name, is_include_in_balance, is_default, is_archived, is_deleted, credit_limit,
	created_at, updated_at`

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, a *models.Account) error {
	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO accounts (id, registry_holder_id, account_type_id, currency_id, bank_id,
			name, is_include_in_balance, is_default, is_archived, is_deleted, credit_limit,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		uuid.UUID(a.ID), uuid.UUID(a.RegistryHolderID), uuid.UUID(a.AccountTypeID),
		uuid.UUID(a.CurrencyID), bankValue(a.BankID), a.Name, a.IsIncludeInBalance,
		a.IsDefault, a.IsArchived, a.IsDeleted, a.CreditLimit, a.CreatedAt, a.UpdatedAt)
	if database.IsUniqueViolation(err, "") {
		return sentinel.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, accountID id.AccountID) (*models.Account, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, uuid.UUID(accountID))
	return scanAccount(row)
}

func (s *PostgresStore) FindDefaultForHolder(ctx context.Context, holderID id.HolderID) (*models.Account, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE registry_holder_id = $1 AND is_default`,
		uuid.UUID(holderID))
	return scanAccount(row)
}

func (s *PostgresStore) List(ctx context.Context, filter models.AccountFilter) ([]*models.Account, error) {
	q := tx.QuerierFrom(ctx, s.db)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE TRUE`
	args := []any{}
	if filter.RegistryHolderID != nil {
		args = append(args, uuid.UUID(*filter.RegistryHolderID))
		query += fmt.Sprintf(" AND registry_holder_id = $%d", len(args))
	}
	if !filter.IncludeDeleted {
		query += ` AND NOT is_deleted`
	}
	if !filter.IncludeArchived {
		query += ` AND NOT is_archived`
	}
	args = append(args, filter.Page.Limit(), filter.Page.Offset())
	query += fmt.Sprintf(" ORDER BY created_at, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []*models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, a *models.Account) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE accounts
		SET account_type_id = $2, currency_id = $3, bank_id = $4, name = $5,
			is_include_in_balance = $6, is_default = $7, is_archived = $8,
			is_deleted = $9, credit_limit = $10, updated_at = $11
		WHERE id = $1`,
		uuid.UUID(a.ID), uuid.UUID(a.AccountTypeID), uuid.UUID(a.CurrencyID),
		bankValue(a.BankID), a.Name, a.IsIncludeInBalance, a.IsDefault,
		a.IsArchived, a.IsDeleted, a.CreditLimit, a.UpdatedAt)
	if database.IsUniqueViolation(err, "") {
		return sentinel.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Delete(ctx context.Context, accountID id.AccountID) error {
	q := tx.QuerierFrom(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, uuid.UUID(accountID))
	if database.IsForeignKeyViolation(err) {
		return sentinel.ErrInUse
	}
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) CountByHolder(ctx context.Context, holderID id.HolderID) (int, error) {
	return s.countWhere(ctx, `registry_holder_id = $1`, uuid.UUID(holderID))
}

func (s *PostgresStore) CountByBank(ctx context.Context, bankID id.BankID) (int, error) {
	return s.countWhere(ctx, `bank_id = $1`, uuid.UUID(bankID))
}

func (s *PostgresStore) CountByCurrency(ctx context.Context, currencyID id.CurrencyID) (int, error) {
	return s.countWhere(ctx, `currency_id = $1`, uuid.UUID(currencyID))
}

func (s *PostgresStore) CountByType(ctx context.Context, typeID id.AccountTypeID) (int, error) {
	return s.countWhere(ctx, `account_type_id = $1`, uuid.UUID(typeID))
}

func (s *PostgresStore) countWhere(ctx context.Context, cond string, arg any) (int, error) {
	q := tx.QuerierFrom(ctx, s.db)
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE `+cond, arg).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) Execute(ctx context.Context, accountID id.AccountID, validate func(*models.Account) error, mutate func(*models.Account)) (*models.Account, error) {
	var out *models.Account
	err := tx.EnsureTx(ctx, s.db, func(txCtx context.Context) error {
		q := tx.QuerierFrom(txCtx, s.db)
		row := q.QueryRowContext(txCtx,
			`SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, uuid.UUID(accountID))
		a, err := scanAccount(row)
		if err != nil {
			return err
		}
		if err := validate(a); err != nil {
			return err
		}
		mutate(a)

		res, err := q.ExecContext(txCtx, `
			UPDATE accounts
			SET account_type_id = $2, currency_id = $3, bank_id = $4, name = $5,
				is_include_in_balance = $6, is_default = $7, is_archived = $8,
				is_deleted = $9, credit_limit = $10, updated_at = $11
			WHERE id = $1`,
			uuid.UUID(a.ID), uuid.UUID(a.AccountTypeID), uuid.UUID(a.CurrencyID),
			bankValue(a.BankID), a.Name, a.IsIncludeInBalance, a.IsDefault,
			a.IsArchived, a.IsDeleted, a.CreditLimit, a.UpdatedAt)
		if database.IsUniqueViolation(err, "") {
			return sentinel.ErrDuplicate
		}
		if err != nil {
			return fmt.Errorf("update account: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// bankValue maps the optional bank reference to its column value. The nil
// UUID means "no bank" and is stored as NULL.
func bankValue(bankID id.BankID) any {
	if bankID.IsNil() {
		return nil
	}
	return uuid.UUID(bankID)
}

func scanAccount(row interface{ Scan(dest ...any) error }) (*models.Account, error) {
	var a models.Account
	var rowID, holderID, typeID, currencyID uuid.UUID
	var bankID uuid.NullUUID
	err := row.Scan(&rowID, &holderID, &typeID, &currencyID, &bankID,
		&a.Name, &a.IsIncludeInBalance, &a.IsDefault, &a.IsArchived, &a.IsDeleted,
		&a.CreditLimit, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.ID = id.AccountID(rowID)
	a.RegistryHolderID = id.HolderID(holderID)
	a.AccountTypeID = id.AccountTypeID(typeID)
	a.CurrencyID = id.CurrencyID(currencyID)
	a.BankID = id.BankID(bankID.UUID)
	return &a, nil
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
