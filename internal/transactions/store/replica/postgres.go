package replica

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/smakki/FinanceManager-sub000/internal/transactions/models"
	id "github.com/smakki/FinanceManager-sub000/pkg/domain"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/sentinel"
	"github.com/smakki/FinanceManager-sub000/pkg/platform/tx"
)

// PostgresStore upserts replica rows in bulk. Each Upsert is a single
// unnest-driven statement, so one sync pass costs one round trip per kind
// instead of one per record.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) UpsertHolders(ctx context.Context, records []*models.HolderReplica) error {
	if len(records) == 0 {
		return nil
	}
	ids := make([]string, len(records))
	names := make([]string, len(records))
	telegramIDs := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID.String()
		names[i] = r.Name
		telegramIDs[i] = r.TelegramID
	}

	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO replica_holders (id, name, telegram_id)
		SELECT * FROM unnest($1::uuid[], $2::text[], $3::bigint[])
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			telegram_id = EXCLUDED.telegram_id`,
		pq.Array(ids), pq.Array(names), pq.Array(telegramIDs))
	if err != nil {
		return fmt.Errorf("upsert replica holders: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertAccounts(ctx context.Context, records []*models.AccountReplica) error {
	if len(records) == 0 {
		return nil
	}
	ids := make([]string, len(records))
	holderIDs := make([]string, len(records))
	names := make([]string, len(records))
	archived := make([]bool, len(records))
	deleted := make([]bool, len(records))
	for i, r := range records {
		ids[i] = r.ID.String()
		holderIDs[i] = r.RegistryHolderID.String()
		names[i] = r.Name
		archived[i] = r.IsArchived
		deleted[i] = r.IsDeleted
	}

	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO replica_accounts (id, registry_holder_id, name, is_archived, is_deleted)
		SELECT * FROM unnest($1::uuid[], $2::uuid[], $3::text[], $4::boolean[], $5::boolean[])
		ON CONFLICT (id) DO UPDATE SET
			registry_holder_id = EXCLUDED.registry_holder_id,
			name = EXCLUDED.name,
			is_archived = EXCLUDED.is_archived,
			is_deleted = EXCLUDED.is_deleted`,
		pq.Array(ids), pq.Array(holderIDs), pq.Array(names), pq.Array(archived), pq.Array(deleted))
	if err != nil {
		return fmt.Errorf("upsert replica accounts: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertAccountTypes(ctx context.Context, records []*models.AccountTypeReplica) error {
	if len(records) == 0 {
		return nil
	}
	ids := make([]string, len(records))
	codes := make([]string, len(records))
	names := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID.String()
		codes[i] = r.Code
		names[i] = r.Name
	}

	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO replica_account_types (id, code, name)
		SELECT * FROM unnest($1::uuid[], $2::text[], $3::text[])
		ON CONFLICT (id) DO UPDATE SET
			code = EXCLUDED.code,
			name = EXCLUDED.name`,
		pq.Array(ids), pq.Array(codes), pq.Array(names))
	if err != nil {
		return fmt.Errorf("upsert replica account types: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertCategories(ctx context.Context, records []*models.CategoryReplica) error {
	if len(records) == 0 {
		return nil
	}
	ids := make([]string, len(records))
	holderIDs := make([]string, len(records))
	names := make([]string, len(records))
	deleted := make([]bool, len(records))
	for i, r := range records {
		ids[i] = r.ID.String()
		holderIDs[i] = r.RegistryHolderID.String()
		names[i] = r.Name
		deleted[i] = r.IsDeleted
	}

	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO replica_categories (id, registry_holder_id, name, is_deleted)
		SELECT * FROM unnest($1::uuid[], $2::uuid[], $3::text[], $4::boolean[])
		ON CONFLICT (id) DO UPDATE SET
			registry_holder_id = EXCLUDED.registry_holder_id,
			name = EXCLUDED.name,
			is_deleted = EXCLUDED.is_deleted`,
		pq.Array(ids), pq.Array(holderIDs), pq.Array(names), pq.Array(deleted))
	if err != nil {
		return fmt.Errorf("upsert replica categories: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpsertCurrencies(ctx context.Context, records []*models.CurrencyReplica) error {
	if len(records) == 0 {
		return nil
	}
	ids := make([]string, len(records))
	charCodes := make([]string, len(records))
	names := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID.String()
		charCodes[i] = r.CharCode
		names[i] = r.Name
	}

	q := tx.QuerierFrom(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO replica_currencies (id, char_code, name)
		SELECT * FROM unnest($1::uuid[], $2::text[], $3::text[])
		ON CONFLICT (id) DO UPDATE SET
			char_code = EXCLUDED.char_code,
			name = EXCLUDED.name`,
		pq.Array(ids), pq.Array(charCodes), pq.Array(names))
	if err != nil {
		return fmt.Errorf("upsert replica currencies: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindAccount(ctx context.Context, accountID id.AccountID) (*models.AccountReplica, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, registry_holder_id, name, is_archived, is_deleted
		FROM replica_accounts WHERE id = $1`, uuid.UUID(accountID))

	var a models.AccountReplica
	var rowID, holderID uuid.UUID
	err := row.Scan(&rowID, &holderID, &a.Name, &a.IsArchived, &a.IsDeleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan replica account: %w", err)
	}
	a.ID = id.AccountID(rowID)
	a.RegistryHolderID = id.HolderID(holderID)
	return &a, nil
}

func (s *PostgresStore) FindCategory(ctx context.Context, categoryID id.CategoryID) (*models.CategoryReplica, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT id, registry_holder_id, name, is_deleted
		FROM replica_categories WHERE id = $1`, uuid.UUID(categoryID))

	var c models.CategoryReplica
	var rowID, holderID uuid.UUID
	err := row.Scan(&rowID, &holderID, &c.Name, &c.IsDeleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan replica category: %w", err)
	}
	c.ID = id.CategoryID(rowID)
	c.RegistryHolderID = id.HolderID(holderID)
	return &c, nil
}

// Counts reports rows per replica kind, keyed by the kind's table suffix.
func (s *PostgresStore) Counts(ctx context.Context) (map[string]int, error) {
	q := tx.QuerierFrom(ctx, s.db)
	row := q.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM replica_holders),
			(SELECT COUNT(*) FROM replica_accounts),
			(SELECT COUNT(*) FROM replica_account_types),
			(SELECT COUNT(*) FROM replica_categories),
			(SELECT COUNT(*) FROM replica_currencies)`)

	var holders, accounts, accountTypes, categories, currencies int
	if err := row.Scan(&holders, &accounts, &accountTypes, &categories, &currencies); err != nil {
		return nil, fmt.Errorf("count replicas: %w", err)
	}
	return map[string]int{
		"holders":       holders,
		"accounts":      accounts,
		"account_types": accountTypes,
		"categories":    categories,
		"currencies":    currencies,
	}, nil
}
