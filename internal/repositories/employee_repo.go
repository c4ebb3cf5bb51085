package repositories

import (
	"context"
	"errors"
	"fmt"

	"posbackend/internal/common"
	"posbackend/internal/models"

	"github.com/jackc/pgx/v5"
)

// EmployeeRepository never selects the password column.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	Update(ctx context.Context, employee *models.Employee) error
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context) ([]*models.Employee, error)
}

type employeeRepo struct {
	db Database
}

func NewEmployeeRepo(db Database) EmployeeRepository {
	return &employeeRepo{db: db}
}

const employeeColumns = `id, name, position, email, phone, username, salary, hire_date, active`

// Create stores employee.Password as given; callers hash it first.
func (r *employeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	query := `
		INSERT INTO employees (id, name, position, email, phone, username, password, salary, hire_date, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, TRUE)
	`
	_, err := r.db.Exec(ctx, query, employee.ID, employee.Name, employee.Position, employee.Email,
		employee.Phone, employee.Username, employee.Password, employee.Salary, employee.HireDate)
	if common.IsUniqueViolation(err, "") {
		return fmt.Errorf("%w: employee id or username", common.ErrAlreadyExists)
	}
	return err
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	employee, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	return employee, err
}

// Update keeps the stored password when employee.Password is empty.
func (r *employeeRepo) Update(ctx context.Context, employee *models.Employee) error {
	query := `
		UPDATE employees
		SET name = $1, position = $2, email = $3, phone = $4, username = $5,
			password = COALESCE(NULLIF($6, ''), password), salary = $7, hire_date = $8, active = $9
		WHERE id = $10
	`
	tag, err := r.db.Exec(ctx, query, employee.Name, employee.Position, employee.Email, employee.Phone,
		employee.Username, employee.Password, employee.Salary, employee.HireDate, employee.Active, employee.ID)
	if common.IsUniqueViolation(err, "") {
		return fmt.Errorf("%w: employee username", common.ErrAlreadyExists)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *employeeRepo) Deactivate(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE employees SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *employeeRepo) List(ctx context.Context) ([]*models.Employee, error) {
	rows, err := r.db.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}
	return employees, rows.Err()
}

func scanEmployee(row pgx.Row) (*models.Employee, error) {
	e := &models.Employee{}
	err := row.Scan(&e.ID, &e.Name, &e.Position, &e.Email, &e.Phone, &e.Username, &e.Salary, &e.HireDate, &e.Active)
	if err != nil {
		return nil, err
	}
	return e, nil
}
