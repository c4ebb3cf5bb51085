package services

import (
	"context"
	"strings"

	"posbackend/internal/common"
	"posbackend/internal/models"
	"posbackend/internal/repositories"

	"github.com/google/uuid"
)

type CustomerService interface {
	Create(ctx context.Context, db repositories.Database, customer *models.Customer) error
	GetByID(ctx context.Context, db repositories.Database, id string) (*models.Customer, error)
	Update(ctx context.Context, db repositories.Database, customer *models.Customer) error
	Delete(ctx context.Context, db repositories.Database, id string) error
	List(ctx context.Context, db repositories.Database) ([]*models.Customer, error)
}

type customerService struct {
	newRepo func(repositories.Database) repositories.CustomerRepository
}

func NewCustomerService() CustomerService {
	return &customerService{newRepo: repositories.NewCustomerRepo}
}

func validateCustomer(customer *models.Customer) error {
	if err := common.ValidateRequiredString(customer.Name, "name"); err != nil {
		return err
	}
	if customer.LoyaltyPoints < 0 {
		return common.NewValidationError("loyaltyPoints cannot be negative")
	}
	return common.ValidateOptionalString(customer.Email, "email", 255)
}

// Create assigns a generated id when the client sends none.
func (s *customerService) Create(ctx context.Context, db repositories.Database, customer *models.Customer) error {
	if err := validateCustomer(customer); err != nil {
		return err
	}
	customer.ID = strings.TrimSpace(customer.ID)
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	if err := s.newRepo(db).Create(ctx, customer); err != nil {
		return err
	}
	customer.Active = true
	return nil
}

func (s *customerService) GetByID(ctx context.Context, db repositories.Database, id string) (*models.Customer, error) {
	return s.newRepo(db).GetByID(ctx, id)
}

func (s *customerService) Update(ctx context.Context, db repositories.Database, customer *models.Customer) error {
	if err := validateCustomer(customer); err != nil {
		return err
	}
	return s.newRepo(db).Update(ctx, customer)
}

func (s *customerService) Delete(ctx context.Context, db repositories.Database, id string) error {
	return s.newRepo(db).Deactivate(ctx, id)
}

func (s *customerService) List(ctx context.Context, db repositories.Database) ([]*models.Customer, error) {
	return s.newRepo(db).ListActive(ctx)
}
