package handlers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"posbackend/internal/models"
	"posbackend/internal/repositories"
	"posbackend/internal/services"

	"github.com/stretchr/testify/mock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, db repositories.Database, cart *models.Cart) (*models.OrderRecord, error) {
	args := m.Called(ctx, db, cart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OrderRecord), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, db repositories.Database, limit int) ([]*models.Order, error) {
	args := m.Called(ctx, db, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, db repositories.Database, id int64) (*models.Order, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) CancelOrder(ctx context.Context, db repositories.Database, id int64, note *string) error {
	return m.Called(ctx, db, id, note).Error(0)
}

type MockItemService struct {
	mock.Mock
}

func (m *MockItemService) Create(ctx context.Context, db repositories.Database, item *models.Item) error {
	return m.Called(ctx, db, item).Error(0)
}

func (m *MockItemService) GetByCode(ctx context.Context, db repositories.Database, code string) (*models.Item, error) {
	args := m.Called(ctx, db, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

func (m *MockItemService) Update(ctx context.Context, db repositories.Database, item *models.Item) error {
	return m.Called(ctx, db, item).Error(0)
}

func (m *MockItemService) Delete(ctx context.Context, db repositories.Database, code string) error {
	return m.Called(ctx, db, code).Error(0)
}

func (m *MockItemService) List(ctx context.Context, db repositories.Database) ([]*models.Item, error) {
	args := m.Called(ctx, db)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Item), args.Error(1)
}

func (m *MockItemService) UploadImage(ctx context.Context, t *services.TenantHandle, code string, upload *services.ImageUpload) (*models.Item, error) {
	args := m.Called(ctx, t, code, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}

type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) Create(ctx context.Context, db repositories.Database, customer *models.Customer) error {
	return m.Called(ctx, db, customer).Error(0)
}

func (m *MockCustomerService) GetByID(ctx context.Context, db repositories.Database, id string) (*models.Customer, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}

func (m *MockCustomerService) Update(ctx context.Context, db repositories.Database, customer *models.Customer) error {
	return m.Called(ctx, db, customer).Error(0)
}

func (m *MockCustomerService) Delete(ctx context.Context, db repositories.Database, id string) error {
	return m.Called(ctx, db, id).Error(0)
}

func (m *MockCustomerService) List(ctx context.Context, db repositories.Database) ([]*models.Customer, error) {
	args := m.Called(ctx, db)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Customer), args.Error(1)
}

type MockEmployeeService struct {
	mock.Mock
}

func (m *MockEmployeeService) Create(ctx context.Context, db repositories.Database, input *models.EmployeeInput) (*models.Employee, error) {
	args := m.Called(ctx, db, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

func (m *MockEmployeeService) GetByID(ctx context.Context, db repositories.Database, id string) (*models.Employee, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

func (m *MockEmployeeService) Update(ctx context.Context, db repositories.Database, id string, input *models.EmployeeInput) (*models.Employee, error) {
	args := m.Called(ctx, db, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

func (m *MockEmployeeService) Delete(ctx context.Context, db repositories.Database, id string) error {
	return m.Called(ctx, db, id).Error(0)
}

func (m *MockEmployeeService) List(ctx context.Context, db repositories.Database) ([]*models.Employee, error) {
	args := m.Called(ctx, db)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Employee), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenResponse), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*services.TokenClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenClaims), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, tokenString string) (*models.Principal, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Principal), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetTenantDB(ctx context.Context, tenantID int64) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) SetTenantDB(ctx context.Context, tenantID int64, dbName string, ttl time.Duration) error {
	return m.Called(ctx, tenantID, dbName, ttl).Error(0)
}

func (m *MockCacheService) DeleteTenantDB(ctx context.Context, tenantID int64) error {
	return m.Called(ctx, tenantID).Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockCacheService) Close() error {
	return m.Called().Error(0)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

type stubPools []string

func (p stubPools) Names() []string { return p }

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) Create(ctx context.Context, db repositories.Database, category *models.Category) error {
	return m.Called(ctx, db, category).Error(0)
}

func (m *MockCategoryService) GetByID(ctx context.Context, db repositories.Database, id int64) (*models.Category, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, db repositories.Database, category *models.Category) error {
	return m.Called(ctx, db, category).Error(0)
}

func (m *MockCategoryService) Delete(ctx context.Context, db repositories.Database, id int64) error {
	return m.Called(ctx, db, id).Error(0)
}

func (m *MockCategoryService) List(ctx context.Context, db repositories.Database) ([]*models.Category, error) {
	args := m.Called(ctx, db)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}
