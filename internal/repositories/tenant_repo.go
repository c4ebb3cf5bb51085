package repositories

import (
	"context"
	"errors"
	"fmt"

	"posbackend/internal/common"

	"github.com/jackc/pgx/v5"
)

// TenantRepository reads the tenant directory in the master database.
type TenantRepository interface {
	GetActiveDBName(ctx context.Context, tenantID int64) (string, error)
}

type tenantRepo struct {
	db Database
}

func NewTenantRepo(db Database) TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) GetActiveDBName(ctx context.Context, tenantID int64) (string, error) {
	query := `SELECT db_name FROM tenants WHERE id = $1 AND active = TRUE`

	var dbName string
	err := r.db.QueryRow(ctx, query, tenantID).Scan(&dbName)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", common.ErrTenantNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup tenant %d: %w", tenantID, err)
	}
	return dbName, nil
}
