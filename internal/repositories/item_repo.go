package repositories

import (
	"context"
	"errors"
	"fmt"

	"posbackend/internal/common"
	"posbackend/internal/models"

	"github.com/jackc/pgx/v5"
)

type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByCode(ctx context.Context, code string) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	SetImageURL(ctx context.Context, code, url string) error
	Deactivate(ctx context.Context, code string) error
	ListActive(ctx context.Context) ([]*models.Item, error)
	ListLowStock(ctx context.Context) ([]*models.LowStockItem, error)
}

type itemRepo struct {
	db Database
}

func NewItemRepo(db Database) ItemRepository {
	return &itemRepo{db: db}
}

const itemColumns = `code, description, category, unit_price, qty_on_hand, min_stock_level, barcode, notes, image_url, active`

func (r *itemRepo) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (code, description, category, unit_price, qty_on_hand, min_stock_level, barcode, notes, image_url, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
	`
	_, err := r.db.Exec(ctx, query, item.Code, item.Description, item.Category, item.UnitPrice,
		item.QtyOnHand, item.MinStockLevel, item.Barcode, item.Notes, item.ImageURL)
	if common.IsUniqueViolation(err, "") {
		return fmt.Errorf("%w: item %s", common.ErrAlreadyExists, item.Code)
	}
	return err
}

func (r *itemRepo) GetByCode(ctx context.Context, code string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE code = $1`
	item, err := scanItem(r.db.QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	return item, err
}

func (r *itemRepo) Update(ctx context.Context, item *models.Item) error {
	query := `
		UPDATE items
		SET description = $1, category = $2, unit_price = $3, qty_on_hand = $4, min_stock_level = $5,
			barcode = $6, notes = $7, active = $8
		WHERE code = $9
	`
	tag, err := r.db.Exec(ctx, query, item.Description, item.Category, item.UnitPrice, item.QtyOnHand,
		item.MinStockLevel, item.Barcode, item.Notes, item.Active, item.Code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *itemRepo) SetImageURL(ctx context.Context, code, url string) error {
	tag, err := r.db.Exec(ctx, `UPDATE items SET image_url = $1 WHERE code = $2`, url, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *itemRepo) Deactivate(ctx context.Context, code string) error {
	tag, err := r.db.Exec(ctx, `UPDATE items SET active = FALSE WHERE code = $1`, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *itemRepo) ListActive(ctx context.Context) ([]*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE active = TRUE ORDER BY description`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *itemRepo) ListLowStock(ctx context.Context) ([]*models.LowStockItem, error) {
	query := `
		SELECT code, description, qty_on_hand, min_stock_level
		FROM items
		WHERE active = TRUE AND qty_on_hand <= min_stock_level
		ORDER BY qty_on_hand, code
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.LowStockItem
	for rows.Next() {
		item := &models.LowStockItem{}
		if err := rows.Scan(&item.Code, &item.Description, &item.QtyOnHand, &item.MinStockLevel); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(row pgx.Row) (*models.Item, error) {
	item := &models.Item{}
	err := row.Scan(&item.Code, &item.Description, &item.Category, &item.UnitPrice, &item.QtyOnHand,
		&item.MinStockLevel, &item.Barcode, &item.Notes, &item.ImageURL, &item.Active)
	if err != nil {
		return nil, err
	}
	return item, nil
}
