package repositories

import (
	"context"
	"errors"
	"fmt"

	"posbackend/internal/common"
	"posbackend/internal/models"

	"github.com/jackc/pgx/v5"
)

// OrderSequenceName keys the sales order counter in order_sequences.
const OrderSequenceName = "orders"

// OrderRepository covers order headers, order lines and the stock movements
// tied to them. Write methods are meant to be called on a repository bound
// to an open transaction.
type OrderRepository interface {
	NextOrderSequence(ctx context.Context) (int64, error)
	Insert(ctx context.Context, orderNumber string, cart *models.Cart) (int64, error)
	InsertDetail(ctx context.Context, orderID int64, line *models.OrderLine) error
	DecrementStock(ctx context.Context, itemCode string, quantity int, strict bool) error
	List(ctx context.Context, limit int) ([]*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	ListDetails(ctx context.Context, orderID int64) ([]*models.OrderDetail, error)
	LockStatus(ctx context.Context, id int64) (string, error)
	MarkCancelled(ctx context.Context, id int64, note *string) error
	RestoreStock(ctx context.Context, orderID int64) (int64, error)
}

type orderRepo struct {
	db Database
}

func NewOrderRepo(db Database) OrderRepository {
	return &orderRepo{db: db}
}

// NextOrderSequence atomically increments and returns the order counter.
// The first call seeds it from the highest existing order number so that
// databases populated before the counter existed never reuse a number.
// The row lock taken by the upsert is held until the transaction ends.
func (r *orderRepo) NextOrderSequence(ctx context.Context) (int64, error) {
	query := `
		INSERT INTO order_sequences (name, last_value)
		VALUES ($1, COALESCE((
			SELECT MAX(CAST(SUBSTRING(order_number FROM 4) AS BIGINT))
			FROM orders
			WHERE order_number ~ '^ORD[0-9]+$'
		), 0) + 1)
		ON CONFLICT (name) DO UPDATE SET last_value = order_sequences.last_value + 1
		RETURNING last_value
	`
	var next int64
	if err := r.db.QueryRow(ctx, query, OrderSequenceName).Scan(&next); err != nil {
		return 0, fmt.Errorf("next order number: %w", err)
	}
	return next, nil
}

func (r *orderRepo) Insert(ctx context.Context, orderNumber string, cart *models.Cart) (int64, error) {
	query := `
		INSERT INTO orders (order_number, customer_id, status, discount, discount_type, tax, subtotal,
			total_amount, amount_paid, change_amount, payment_method, payment_status, processed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRow(ctx, query, orderNumber, cart.CustomerID, cart.Status, cart.Discount, cart.DiscountType,
		cart.Tax, cart.Subtotal, cart.TotalAmount, cart.AmountPaid, cart.ChangeAmount,
		cart.PaymentMethod, cart.PaymentStatus, cart.ProcessedBy).Scan(&id)
	switch {
	case err == nil:
		return id, nil
	case common.IsUniqueViolation(err, "orders_order_number_key"):
		return 0, fmt.Errorf("%w: %s", common.ErrDuplicateOrderNumber, orderNumber)
	case common.IsForeignKeyViolation(err, "orders_customer_id_fkey"):
		return 0, common.NewValidationError("customer %s does not exist", common.SafeString(cart.CustomerID))
	default:
		return 0, fmt.Errorf("insert order: %w", err)
	}
}

func (r *orderRepo) InsertDetail(ctx context.Context, orderID int64, line *models.OrderLine) error {
	query := `
		INSERT INTO order_details (order_id, item_code, quantity, unit_price, discount, tax, subtotal, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query, orderID, line.ItemCode, line.Quantity, line.UnitPrice,
		line.Discount, line.Tax, line.Subtotal, line.Total)
	if common.IsForeignKeyViolation(err, "order_details_item_code_fkey") {
		return fmt.Errorf("%w: %s", common.ErrItemNotFound, line.ItemCode)
	}
	if err != nil {
		return fmt.Errorf("insert order line %s: %w", line.ItemCode, err)
	}
	return nil
}

// DecrementStock subtracts quantity from the item's on-hand count. In strict
// mode the update only applies while enough stock remains.
func (r *orderRepo) DecrementStock(ctx context.Context, itemCode string, quantity int, strict bool) error {
	query := `UPDATE items SET qty_on_hand = qty_on_hand - $1 WHERE code = $2`
	if strict {
		query = `UPDATE items SET qty_on_hand = qty_on_hand - $1 WHERE code = $2 AND qty_on_hand >= $1`
	}

	tag, err := r.db.Exec(ctx, query, quantity, itemCode)
	if err != nil {
		return fmt.Errorf("decrement stock %s: %w", itemCode, err)
	}
	if tag.RowsAffected() == 0 {
		if strict {
			return fmt.Errorf("%w: %s", common.ErrInsufficientStock, itemCode)
		}
		return fmt.Errorf("%w: %s", common.ErrItemNotFound, itemCode)
	}
	return nil
}

func (r *orderRepo) List(ctx context.Context, limit int) ([]*models.Order, error) {
	query := `
		SELECT o.id, o.order_number, o.customer_id, c.name, o.status, o.discount, o.discount_type, o.tax,
			o.subtotal, o.total_amount, o.amount_paid, o.change_amount, o.payment_method, o.payment_status,
			o.processed_by, o.notes, o.created_at
		FROM orders o
		LEFT JOIN customers c ON o.customer_id = c.id
		ORDER BY o.created_at DESC, o.id DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepo) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	query := `
		SELECT o.id, o.order_number, o.customer_id, c.name, o.status, o.discount, o.discount_type, o.tax,
			o.subtotal, o.total_amount, o.amount_paid, o.change_amount, o.payment_method, o.payment_status,
			o.processed_by, o.notes, o.created_at
		FROM orders o
		LEFT JOIN customers c ON o.customer_id = c.id
		WHERE o.id = $1
	`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) ListDetails(ctx context.Context, orderID int64) ([]*models.OrderDetail, error) {
	query := `
		SELECT d.id, d.order_id, d.item_code, i.description, d.quantity, d.unit_price, d.discount, d.tax,
			d.subtotal, d.total
		FROM order_details d
		LEFT JOIN items i ON d.item_code = i.code
		WHERE d.order_id = $1
		ORDER BY d.id
	`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []*models.OrderDetail
	for rows.Next() {
		d := &models.OrderDetail{}
		if err := rows.Scan(&d.ID, &d.OrderID, &d.ItemCode, &d.ItemName, &d.Quantity, &d.UnitPrice,
			&d.Discount, &d.Tax, &d.Subtotal, &d.Total); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// LockStatus reads the order status and locks the header row until the
// surrounding transaction ends.
func (r *orderRepo) LockStatus(ctx context.Context, id int64) (string, error) {
	query := `SELECT status FROM orders WHERE id = $1 FOR UPDATE`

	var status string
	err := r.db.QueryRow(ctx, query, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", common.ErrOrderNotFound
	}
	return status, err
}

func (r *orderRepo) MarkCancelled(ctx context.Context, id int64, note *string) error {
	query := `UPDATE orders SET status = $1, notes = COALESCE($2, notes) WHERE id = $3`
	tag, err := r.db.Exec(ctx, query, models.OrderStatusCancelled, note, id)
	if err != nil {
		return fmt.Errorf("cancel order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrOrderNotFound
	}
	return nil
}

// RestoreStock returns every line's quantity to the item it was taken from
// and reports how many items were touched.
func (r *orderRepo) RestoreStock(ctx context.Context, orderID int64) (int64, error) {
	query := `
		UPDATE items SET qty_on_hand = items.qty_on_hand + d.quantity
		FROM (
			SELECT item_code, SUM(quantity) AS quantity
			FROM order_details
			WHERE order_id = $1
			GROUP BY item_code
		) d
		WHERE items.code = d.item_code
	`
	tag, err := r.db.Exec(ctx, query, orderID)
	if err != nil {
		return 0, fmt.Errorf("restore stock for order %d: %w", orderID, err)
	}
	return tag.RowsAffected(), nil
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	o := &models.Order{}
	var discountType, paymentMethod, paymentStatus *string
	err := row.Scan(&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerName, &o.Status, &o.Discount,
		&discountType, &o.Tax, &o.Subtotal, &o.TotalAmount, &o.AmountPaid, &o.ChangeAmount,
		&paymentMethod, &paymentStatus, &o.ProcessedBy, &o.Notes, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	o.DiscountType = common.SafeString(discountType)
	o.PaymentMethod = common.SafeString(paymentMethod)
	o.PaymentStatus = common.SafeString(paymentStatus)
	return o, nil
}
