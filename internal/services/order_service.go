package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"posbackend/internal/common"
	"posbackend/internal/metrics"
	"posbackend/internal/models"
	"posbackend/internal/repositories"

	"github.com/jackc/pgx/v5"
)

const (
	// DefaultOrderListLimit caps GET /api/orders.
	DefaultOrderListLimit = 100

	orderNumberPrefix = "ORD"
	orderNumberDigits = 7

	// reconcileTolerance absorbs cent rounding in client-computed totals.
	reconcileTolerance = 0.005
)

// FormatOrderNumber renders a sequence value as ORD followed by seven
// zero-padded digits.
func FormatOrderNumber(seq int64) string {
	return fmt.Sprintf("%s%0*d", orderNumberPrefix, orderNumberDigits, seq)
}

// OrderServiceInterface runs order operations against the tenant database
// passed in by the caller.
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, db repositories.Database, cart *models.Cart) (*models.OrderRecord, error)
	ListOrders(ctx context.Context, db repositories.Database, limit int) ([]*models.Order, error)
	GetOrder(ctx context.Context, db repositories.Database, id int64) (*models.Order, error)
	CancelOrder(ctx context.Context, db repositories.Database, id int64, note *string) error
}

type orderService struct {
	newRepo     func(repositories.Database) repositories.OrderRepository
	strictStock bool
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// NewOrderService creates the order service. With strictStock set, a line
// that would drive an item's on-hand quantity below zero aborts the order.
func NewOrderService(strictStock bool, m *metrics.Metrics, logger *slog.Logger) OrderServiceInterface {
	return &orderService{
		newRepo:     repositories.NewOrderRepo,
		strictStock: strictStock,
		metrics:     m,
		logger:      logger,
	}
}

// CreateOrder writes the header, its lines and the matching stock
// decrements in one transaction. Either all of it commits or none of it
// does. Totals are stored exactly as the client sent them.
func (s *orderService) CreateOrder(ctx context.Context, db repositories.Database, cart *models.Cart) (record *models.OrderRecord, err error) {
	if cart == nil || len(cart.OrderDetails) == 0 {
		s.countFailure(common.ErrValidation)
		return nil, common.NewValidationError("order must have at least one item")
	}
	for i := range cart.OrderDetails {
		if strings.TrimSpace(cart.OrderDetails[i].ItemCode) == "" {
			s.countFailure(common.ErrValidation)
			return nil, common.NewValidationError("orderDetails[%d].itemCode is required", i)
		}
	}

	start := time.Now()
	tx, err := db.Begin(ctx)
	if err != nil {
		s.countFailure(err)
		return nil, fmt.Errorf("begin order transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error("order rollback failed", slog.String("error", rbErr.Error()))
			}
			s.countFailure(err)
			s.logger.Warn("order rolled back", slog.String("error", err.Error()))
		}
	}()

	repo := s.newRepo(tx)

	seq, err := repo.NextOrderSequence(ctx)
	if err != nil {
		return nil, err
	}
	orderNumber := FormatOrderNumber(seq)

	orderID, err := repo.Insert(ctx, orderNumber, cart)
	if err != nil {
		return nil, err
	}

	for i := range cart.OrderDetails {
		line := &cart.OrderDetails[i]
		if err = repo.InsertDetail(ctx, orderID, line); err != nil {
			return nil, err
		}
		if err = repo.DecrementStock(ctx, line.ItemCode, line.Quantity, s.strictStock); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit order %s: %w", orderNumber, err)
	}

	if s.metrics != nil {
		s.metrics.OrdersCreated.Inc()
		s.metrics.OrderDuration.Observe(time.Since(start).Seconds())
	}
	s.reconcile(orderNumber, cart)
	s.logger.Info("order created",
		slog.Int64("order_id", orderID),
		slog.String("order_number", orderNumber),
		slog.Int("lines", len(cart.OrderDetails)))

	return &models.OrderRecord{ID: orderID, OrderNumber: orderNumber}, nil
}

// reconcile logs when the client's line totals do not add up to its
// subtotal. The order is kept as sent.
func (s *orderService) reconcile(orderNumber string, cart *models.Cart) {
	var sum float64
	for _, line := range cart.OrderDetails {
		sum += line.Total
	}
	if diff := sum - cart.Subtotal; math.Abs(diff) > reconcileTolerance {
		s.logger.Warn("order totals do not reconcile",
			slog.String("order_number", orderNumber),
			slog.Float64("line_total_sum", sum),
			slog.Float64("subtotal", cart.Subtotal),
			slog.Float64("difference", diff))
	}
}

func (s *orderService) countFailure(err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.OrderFailures.WithLabelValues(failureReason(err)).Inc()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, common.ErrValidation):
		return "validation"
	case errors.Is(err, common.ErrItemNotFound):
		return "item_not_found"
	case errors.Is(err, common.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, common.ErrDuplicateOrderNumber):
		return "duplicate_number"
	default:
		return "database"
	}
}

func (s *orderService) ListOrders(ctx context.Context, db repositories.Database, limit int) ([]*models.Order, error) {
	limit = common.ClampLimit(limit, DefaultOrderListLimit, DefaultOrderListLimit)
	orders, err := s.newRepo(db).List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

func (s *orderService) GetOrder(ctx context.Context, db repositories.Database, id int64) (*models.Order, error) {
	repo := s.newRepo(db)
	order, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := repo.ListDetails(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	if details == nil {
		details = []*models.OrderDetail{}
	}
	order.Details = details
	return order, nil
}

// CancelOrder marks the order CANCELLED and puts every line's quantity back
// on the shelf, in one transaction.
func (s *orderService) CancelOrder(ctx context.Context, db repositories.Database, id int64, note *string) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cancel transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error("cancel rollback failed", slog.String("error", rbErr.Error()))
			}
		}
	}()

	repo := s.newRepo(tx)

	status, err := repo.LockStatus(ctx, id)
	if err != nil {
		return err
	}
	if status == models.OrderStatusCancelled {
		return common.ErrOrderAlreadyCancelled
	}
	if err = repo.MarkCancelled(ctx, id, note); err != nil {
		return err
	}
	restored, err := repo.RestoreStock(ctx, id)
	if err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit cancel of order %d: %w", id, err)
	}

	if s.metrics != nil {
		s.metrics.OrderCancellations.Inc()
	}
	s.logger.Info("order cancelled", slog.Int64("order_id", id), slog.Int64("items_restored", restored))
	return nil
}
