package repositories

import (
	"context"
	"errors"
	"fmt"

	"posbackend/internal/common"
	"posbackend/internal/models"

	"github.com/jackc/pgx/v5"
)

type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Deactivate(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]*models.Customer, error)
}

type customerRepo struct {
	db Database
}

func NewCustomerRepo(db Database) CustomerRepository {
	return &customerRepo{db: db}
}

const customerColumns = `id, name, phone, email, address, loyalty_points, active`

func (r *customerRepo) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (id, name, phone, email, address, loyalty_points, active)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE)
	`
	_, err := r.db.Exec(ctx, query, customer.ID, customer.Name, customer.Phone, customer.Email,
		customer.Address, customer.LoyaltyPoints)
	if common.IsUniqueViolation(err, "") {
		return fmt.Errorf("%w: customer %s", common.ErrAlreadyExists, customer.ID)
	}
	return err
}

func (r *customerRepo) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	customer, err := scanCustomer(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	return customer, err
}

func (r *customerRepo) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, phone = $2, email = $3, address = $4, loyalty_points = $5, active = $6
		WHERE id = $7
	`
	tag, err := r.db.Exec(ctx, query, customer.Name, customer.Phone, customer.Email, customer.Address,
		customer.LoyaltyPoints, customer.Active, customer.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *customerRepo) Deactivate(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE customers SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *customerRepo) ListActive(ctx context.Context) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE active = TRUE ORDER BY name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []*models.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, customer)
	}
	return customers, rows.Err()
}

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	c := &models.Customer{}
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.LoyaltyPoints, &c.Active); err != nil {
		return nil, err
	}
	return c, nil
}
