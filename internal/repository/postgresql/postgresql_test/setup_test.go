package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/nexushr/hrms-backend-go/internal/pkg/database"
	"github.com/nexushr/hrms-backend-go/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup holds a connection to the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema. Tests are
// skipped when the variable is unset.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 10})
	require.NoError(t, err)
	require.NoError(t, postgresql.EnsureSchema(ctx, db))

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables clears every payroll table.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{"leave_requests", "payslips", "payrolls", "attendances", "employees"}
	for _, table := range tables {
		if _, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}

// CreateEmployee inserts an employee with a linked user id and returns both ids.
func (s *TestDatabaseSetup) CreateEmployee(t *testing.T, firstName string, salary *decimal.Decimal) (employeeID, userID string) {
	t.Helper()
	employeeID = uuid.Must(uuid.NewV7()).String()
	userID = uuid.Must(uuid.NewV7()).String()
	_, err := s.DB.Exec(context.Background(), `
		INSERT INTO employees (id, user_id, first_name, last_name, position, salary)
		VALUES ($1, $2, $3, 'Tester', 'Engineer', $4)
	`, employeeID, userID, firstName, salary)
	require.NoError(t, err)
	return employeeID, userID
}

// SetManager links employeeID to managerID as its line manager.
func (s *TestDatabaseSetup) SetManager(t *testing.T, employeeID, managerID string) {
	t.Helper()
	_, err := s.DB.Exec(context.Background(), `UPDATE employees SET manager_id = $2 WHERE id = $1`, employeeID, managerID)
	require.NoError(t, err)
}
