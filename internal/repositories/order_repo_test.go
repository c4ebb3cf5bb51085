package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"posbackend/internal/common"
	"posbackend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type OrderRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    OrderRepository
	context context.Context
}

func (suite *OrderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewOrderRepo(mock)
	suite.context = context.Background()
}

func (suite *OrderRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

// anyArgs matches n arguments of any value.
func anyArgs(n int) []interface{} {
	args := make([]interface{}, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func (suite *OrderRepoTestSuite) TestNextOrderSequence() {
	suite.mock.ExpectQuery(`INSERT INTO order_sequences`).
		WithArgs(OrderSequenceName).
		WillReturnRows(pgxmock.NewRows([]string{"last_value"}).AddRow(int64(42)))

	next, err := suite.repo.NextOrderSequence(suite.context)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(42), next)
}

func (suite *OrderRepoTestSuite) TestInsert_ReturnsID() {
	cart := &models.Cart{Status: "COMPLETED", Subtotal: 1000, TotalAmount: 1000, PaymentMethod: "CASH"}

	suite.mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs("ORD0000001", pgxmock.AnyArg(), "COMPLETED", 0.0, "", 0.0, 1000.0, 1000.0, 0.0, 0.0,
			"CASH", "", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	id, err := suite.repo.Insert(suite.context, "ORD0000001", cart)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7), id)
}

func (suite *OrderRepoTestSuite) TestInsert_DuplicateOrderNumber() {
	suite.mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(anyArgs(13)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "orders_order_number_key"})

	_, err := suite.repo.Insert(suite.context, "ORD0000001", &models.Cart{})
	assert.ErrorIs(suite.T(), err, common.ErrDuplicateOrderNumber)
}

func (suite *OrderRepoTestSuite) TestInsert_UnknownCustomer() {
	customer := "C404"
	suite.mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(anyArgs(13)...).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "orders_customer_id_fkey"})

	_, err := suite.repo.Insert(suite.context, "ORD0000001", &models.Cart{CustomerID: &customer})
	assert.ErrorIs(suite.T(), err, common.ErrValidation)
	assert.Contains(suite.T(), err.Error(), "C404")
}

func (suite *OrderRepoTestSuite) TestInsertDetail_UnknownItem() {
	line := &models.OrderLine{ItemCode: "NOPE", Quantity: 1, UnitPrice: 10, Subtotal: 10, Total: 10}
	suite.mock.ExpectExec(`INSERT INTO order_details`).
		WithArgs(int64(7), "NOPE", 1, 10.0, 0.0, 0.0, 10.0, 10.0).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "order_details_item_code_fkey"})

	err := suite.repo.InsertDetail(suite.context, 7, line)
	assert.ErrorIs(suite.T(), err, common.ErrItemNotFound)
}

func (suite *OrderRepoTestSuite) TestDecrementStock_Success() {
	suite.mock.ExpectExec(`UPDATE items SET qty_on_hand = qty_on_hand - `).
		WithArgs(2, "I001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.DecrementStock(suite.context, "I001", 2, false)
	assert.NoError(suite.T(), err)
}

func (suite *OrderRepoTestSuite) TestDecrementStock_NoRowsIsItemNotFound() {
	suite.mock.ExpectExec(`UPDATE items SET qty_on_hand = qty_on_hand - `).
		WithArgs(2, "GHOST").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.DecrementStock(suite.context, "GHOST", 2, false)
	assert.ErrorIs(suite.T(), err, common.ErrItemNotFound)
}

func (suite *OrderRepoTestSuite) TestDecrementStock_StrictGuardsFloor() {
	suite.mock.ExpectExec(`AND qty_on_hand >= `).
		WithArgs(20, "I001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.DecrementStock(suite.context, "I001", 20, true)
	assert.ErrorIs(suite.T(), err, common.ErrInsufficientStock)
}

func (suite *OrderRepoTestSuite) TestList_JoinsCustomerName() {
	now := time.Now()
	name := "Walk-in"
	customer := "C001"
	method := "CASH"
	rows := pgxmock.NewRows([]string{"id", "order_number", "customer_id", "name", "status", "discount",
		"discount_type", "tax", "subtotal", "total_amount", "amount_paid", "change_amount", "payment_method",
		"payment_status", "processed_by", "notes", "created_at"}).
		AddRow(int64(2), "ORD0000002", &customer, &name, "COMPLETED", 0.0, nil, 0.0, 50.0, 50.0, 50.0, 0.0,
			&method, nil, nil, nil, now).
		AddRow(int64(1), "ORD0000001", nil, nil, "CANCELLED", 0.0, nil, 0.0, 20.0, 20.0, 20.0, 0.0,
			nil, nil, nil, nil, now)

	suite.mock.ExpectQuery(`FROM orders o`).WithArgs(100).WillReturnRows(rows)

	orders, err := suite.repo.List(suite.context, 100)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), orders, 2)
	assert.Equal(suite.T(), "ORD0000002", orders[0].OrderNumber)
	assert.Equal(suite.T(), "Walk-in", *orders[0].CustomerName)
	assert.Equal(suite.T(), "CASH", orders[0].PaymentMethod)
	assert.Nil(suite.T(), orders[1].CustomerName)
}

func (suite *OrderRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`FROM orders o`).WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByID(suite.context, 99)
	assert.ErrorIs(suite.T(), err, common.ErrOrderNotFound)
}

func (suite *OrderRepoTestSuite) TestLockStatus_NotFound() {
	suite.mock.ExpectQuery(`SELECT status FROM orders`).WithArgs(int64(5)).WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.LockStatus(suite.context, 5)
	assert.ErrorIs(suite.T(), err, common.ErrOrderNotFound)
}

func (suite *OrderRepoTestSuite) TestRestoreStock() {
	suite.mock.ExpectExec(`UPDATE items SET qty_on_hand = items.qty_on_hand`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))

	n, err := suite.repo.RestoreStock(suite.context, 5)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(2), n)
}

func (suite *OrderRepoTestSuite) TestRestoreStock_Error() {
	suite.mock.ExpectExec(`UPDATE items SET qty_on_hand = items.qty_on_hand`).
		WithArgs(int64(5)).
		WillReturnError(errors.New("connection reset"))

	_, err := suite.repo.RestoreStock(suite.context, 5)
	assert.ErrorContains(suite.T(), err, "connection reset")
}
