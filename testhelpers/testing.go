// Package testhelpers runs repository and service tests against a real
// PostgreSQL database named by TEST_DATABASE_URL.
package testhelpers

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"posbackend/internal/models"
	"posbackend/internal/repositories"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

var resetTables = []string{
	"order_details", "orders", "order_sequences", "items", "categories",
	"customers", "employees", "users", "tenants",
}

// SetupTestDB connects to TEST_DATABASE_URL and creates the master and
// tenant tables in it. The test is skipped in -short mode or when the
// variable is unset. Cleanup empties every table and closes the pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Fatalf("Failed to reach test database: %v", err)
	}

	for _, schema := range [][]string{repositories.MasterSchema, repositories.TenantSchema} {
		if err := repositories.ApplySchema(ctx, pool, schema); err != nil {
			pool.Close()
			t.Fatalf("Failed to apply schema: %v", err)
		}
	}

	db := &TestDB{Pool: pool}
	db.Cleanup = func() {
		_, err := pool.Exec(context.Background(), "TRUNCATE "+strings.Join(resetTables, ", ")+" RESTART IDENTITY CASCADE")
		if err != nil {
			t.Errorf("Failed to reset test database: %v", err)
		}
		pool.Close()
	}
	t.Cleanup(db.Cleanup)
	return db
}

// SetupTestTenant registers a tenant in the directory and returns its id.
func SetupTestTenant(t *testing.T, db *TestDB, name, dbName string) int64 {
	t.Helper()

	var id int64
	err := db.Pool.QueryRow(context.Background(),
		`INSERT INTO tenants (name, db_name) VALUES ($1, $2) RETURNING id`, name, dbName).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test tenant: %v", err)
	}
	return id
}

// SetupTestItem inserts an active item with the given stock.
func SetupTestItem(t *testing.T, db *TestDB, code string, qty int, unitPrice float64) *models.Item {
	t.Helper()

	item := &models.Item{
		Code:          code,
		Description:   "Test item " + code,
		UnitPrice:     unitPrice,
		QtyOnHand:     qty,
		MinStockLevel: 5,
		Active:        true,
	}
	if err := repositories.NewItemRepo(db.Pool).Create(context.Background(), item); err != nil {
		t.Fatalf("Failed to create test item: %v", err)
	}
	return item
}

// StockOf reads the current on-hand quantity of an item.
func StockOf(t *testing.T, db *TestDB, code string) int {
	t.Helper()

	var qty int
	if err := db.Pool.QueryRow(context.Background(),
		`SELECT qty_on_hand FROM items WHERE code = $1`, code).Scan(&qty); err != nil {
		t.Fatalf("Failed to read stock for %s: %v", code, err)
	}
	return qty
}

// CountRows counts the rows of table.
func CountRows(t *testing.T, db *TestDB, table string) int {
	t.Helper()

	var n int
	if err := db.Pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
