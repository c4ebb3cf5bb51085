package services

import (
	"context"
	"fmt"
	"strings"

	"posbackend/internal/common"
	"posbackend/internal/models"
	"posbackend/internal/repositories"

	"github.com/google/uuid"
)

type EmployeeService interface {
	Create(ctx context.Context, db repositories.Database, input *models.EmployeeInput) (*models.Employee, error)
	GetByID(ctx context.Context, db repositories.Database, id string) (*models.Employee, error)
	Update(ctx context.Context, db repositories.Database, id string, input *models.EmployeeInput) (*models.Employee, error)
	Delete(ctx context.Context, db repositories.Database, id string) error
	List(ctx context.Context, db repositories.Database) ([]*models.Employee, error)
}

type employeeService struct {
	newRepo func(repositories.Database) repositories.EmployeeRepository
	hasher  PasswordHasher
}

func NewEmployeeService(hasher PasswordHasher) EmployeeService {
	return &employeeService{newRepo: repositories.NewEmployeeRepo, hasher: hasher}
}

// toEmployee validates input and hashes a supplied password.
func (s *employeeService) toEmployee(input *models.EmployeeInput) (*models.Employee, error) {
	if err := common.ValidateRequiredString(input.Name, "name"); err != nil {
		return nil, err
	}
	if input.Salary != nil && *input.Salary < 0 {
		return nil, common.NewValidationError("salary cannot be negative")
	}
	if err := common.ValidateOptionalString(input.Username, "username", 100); err != nil {
		return nil, err
	}
	employee := &models.Employee{
		ID:       strings.TrimSpace(input.ID),
		Name:     strings.TrimSpace(input.Name),
		Position: input.Position,
		Email:    input.Email,
		Phone:    input.Phone,
		Username: input.Username,
		Salary:   input.Salary,
		HireDate: input.HireDate,
		Active:   true,
	}
	if input.Active != nil {
		employee.Active = *input.Active
	}
	if input.Password != "" {
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		employee.Password = hash
	}
	return employee, nil
}

func (s *employeeService) Create(ctx context.Context, db repositories.Database, input *models.EmployeeInput) (*models.Employee, error) {
	employee, err := s.toEmployee(input)
	if err != nil {
		return nil, err
	}
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	employee.Active = true
	if err := s.newRepo(db).Create(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) GetByID(ctx context.Context, db repositories.Database, id string) (*models.Employee, error) {
	return s.newRepo(db).GetByID(ctx, id)
}

// Update leaves the stored password alone when none is supplied.
func (s *employeeService) Update(ctx context.Context, db repositories.Database, id string, input *models.EmployeeInput) (*models.Employee, error) {
	employee, err := s.toEmployee(input)
	if err != nil {
		return nil, err
	}
	employee.ID = id
	if err := s.newRepo(db).Update(ctx, employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) Delete(ctx context.Context, db repositories.Database, id string) error {
	return s.newRepo(db).Deactivate(ctx, id)
}

func (s *employeeService) List(ctx context.Context, db repositories.Database) ([]*models.Employee, error) {
	return s.newRepo(db).List(ctx)
}
