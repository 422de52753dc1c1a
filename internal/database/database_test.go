package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://u:p@localhost:5432/db"))
	assert.True(t, IsPostgres("postgresql://localhost/db"))
	assert.False(t, IsPostgres(":memory:"))
	assert.False(t, IsPostgres("educenter.db"))
}

func TestMigrateOnSQLite(t *testing.T) {
	db, err := Connect("file:migrate_test?mode=memory&cache=shared")
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	for _, table := range []string{"centers", "users", "rooms", "employees", "class_sessions", "invoices", "invoice_items", "payments"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// idempotent
	require.NoError(t, Migrate(db))
}

func TestConstraintStatementsAreGuarded(t *testing.T) {
	for _, stmt := range postgresConstraints[1:] {
		assert.True(t, strings.Contains(stmt, "IF NOT EXISTS"), stmt)
	}
}
