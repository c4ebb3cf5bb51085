package repositories

import (
	"context"
	"fmt"
)

// MasterSchema holds the tenant directory and login accounts.
var MasterSchema = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		db_name VARCHAR(63) NOT NULL UNIQUE,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(100) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		tenant_id BIGINT NOT NULL REFERENCES tenants(id),
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// TenantSchema is applied to every tenant database.
var TenantSchema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL UNIQUE,
		description TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		code VARCHAR(50) PRIMARY KEY,
		description VARCHAR(255) NOT NULL,
		category VARCHAR(100),
		unit_price NUMERIC(12,2) NOT NULL DEFAULT 0,
		qty_on_hand INTEGER NOT NULL DEFAULT 0,
		min_stock_level INTEGER NOT NULL DEFAULT 10,
		barcode VARCHAR(100),
		notes TEXT,
		image_url TEXT,
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		phone VARCHAR(50),
		email VARCHAR(255),
		address TEXT,
		loyalty_points INTEGER NOT NULL DEFAULT 0,
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id VARCHAR(50) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		position VARCHAR(100),
		email VARCHAR(255),
		phone VARCHAR(50),
		username VARCHAR(100) UNIQUE,
		password VARCHAR(255),
		salary NUMERIC(12,2),
		hire_date DATE,
		active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		order_number VARCHAR(20) NOT NULL,
		customer_id VARCHAR(50) REFERENCES customers(id),
		status VARCHAR(30) NOT NULL,
		discount NUMERIC(12,2) NOT NULL DEFAULT 0,
		discount_type VARCHAR(20),
		tax NUMERIC(12,2) NOT NULL DEFAULT 0,
		subtotal NUMERIC(12,2) NOT NULL DEFAULT 0,
		total_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		amount_paid NUMERIC(12,2) NOT NULL DEFAULT 0,
		change_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		payment_method VARCHAR(30),
		payment_status VARCHAR(30),
		processed_by VARCHAR(50),
		notes TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT orders_order_number_key UNIQUE (order_number)
	)`,
	`CREATE TABLE IF NOT EXISTS order_details (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id),
		item_code VARCHAR(50) NOT NULL REFERENCES items(code),
		quantity INTEGER NOT NULL,
		unit_price NUMERIC(12,2) NOT NULL,
		discount NUMERIC(12,2) NOT NULL DEFAULT 0,
		tax NUMERIC(12,2) NOT NULL DEFAULT 0,
		subtotal NUMERIC(12,2) NOT NULL,
		total NUMERIC(12,2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS order_details_order_id_idx ON order_details (order_id)`,
	`CREATE TABLE IF NOT EXISTS order_sequences (
		name VARCHAR(50) PRIMARY KEY,
		last_value BIGINT NOT NULL
	)`,
}

// ApplySchema executes each statement in order.
func ApplySchema(ctx context.Context, db Database, statements []string) error {
	for i, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
