//go:build integration

package containers

import (
	"context"
	"sync"
	"testing"
)

// Manager shares one Postgres container across all integration suites in a
// test binary. Starting a container per suite multiplies runtime for no
// isolation benefit since every suite truncates its own tables.
type Manager struct {
	mu             sync.Mutex
	postgres       *PostgresContainer
	appliedSchemas map[string]bool
}

var (
	managerOnce sync.Once
	manager     *Manager
)

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	managerOnce.Do(func() {
		manager = &Manager{appliedSchemas: make(map[string]bool)}
	})
	return manager
}

// GetPostgres returns the shared Postgres container, starting it on first
// use, and applies any DDL not yet applied in this process.
func (m *Manager) GetPostgres(t *testing.T, ddl ...string) *PostgresContainer {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.postgres == nil {
		m.postgres = NewPostgresContainer(t)
	}

	ctx := context.Background()
	for _, schema := range ddl {
		if m.appliedSchemas[schema] {
			continue
		}
		if err := m.postgres.ApplySchema(ctx, schema); err != nil {
			t.Fatalf("failed to apply schema: %v", err)
		}
		m.appliedSchemas[schema] = true
	}

	return m.postgres
}
