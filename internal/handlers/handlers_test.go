package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"posbackend/internal/common"
	"posbackend/internal/models"
	"posbackend/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testHandle = &services.TenantHandle{Name: "pos_shop_7"}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body common.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestCreateOrder_Created(t *testing.T) {
	orders := new(MockOrderService)
	h := NewOrderHandlers(orders, discardLogger())
	orders.On("CreateOrder", mock.Anything, mock.Anything, mock.MatchedBy(func(cart *models.Cart) bool {
		return len(cart.OrderDetails) == 1 && cart.OrderDetails[0].ItemCode == "A1" && cart.OrderDetails[0].Quantity == 2
	})).Return(&models.OrderRecord{ID: 41, OrderNumber: "ORD0000041"}, nil).Once()

	body := `{"customerId":"C1","status":"COMPLETED","subtotal":3,"totalAmount":3,
		"orderDetails":[{"itemCode":"A1","quantity":2,"unitPrice":1.5,"subtotal":3,"total":3}]}`
	c, rec := newContext(http.MethodPost, "/api/orders", body)

	require.NoError(t, h.CreateOrder(c, testHandle))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var resp CreateOrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, CreateOrderResponse{Message: "Order created", OrderID: 41, OrderNumber: "ORD0000041"}, resp)
	orders.AssertExpectations(t)
}

func TestCreateOrder_FailuresAre500(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty cart", common.NewValidationError("order must have at least one item"), "order must have at least one item"},
		{"unknown item", fmt.Errorf("%w: ZZ", common.ErrItemNotFound), "item not found: ZZ"},
		{"database", errors.New("connection reset"), "connection reset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := new(MockOrderService)
			orders.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err).Once()
			c, rec := newContext(http.MethodPost, "/api/orders", `{"orderDetails":[]}`)

			require.NoError(t, NewOrderHandlers(orders, discardLogger()).CreateOrder(c, testHandle))

			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, tt.want, errorBody(t, rec))
		})
	}
}

func TestListOrders_Limit(t *testing.T) {
	orders := new(MockOrderService)
	orders.On("ListOrders", mock.Anything, mock.Anything, 25).Return(nil, nil).Once()
	c, rec := newContext(http.MethodGet, "/api/orders?limit=25", "")

	require.NoError(t, NewOrderHandlers(orders, discardLogger()).ListOrders(c, testHandle))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	c, rec = newContext(http.MethodGet, "/api/orders?limit=abc", "")
	require.NoError(t, NewOrderHandlers(orders, discardLogger()).ListOrders(c, testHandle))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	orders.AssertExpectations(t)
}

func TestGetOrder(t *testing.T) {
	orders := new(MockOrderService)
	h := NewOrderHandlers(orders, discardLogger())
	orders.On("GetOrder", mock.Anything, mock.Anything, int64(9)).Return(nil, common.ErrOrderNotFound).Once()

	c, rec := newContext(http.MethodGet, "/api/orders/9", "")
	require.NoError(t, h.GetOrder(withParam(c, "id", "9"), testHandle))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", errorBody(t, rec))

	c, rec = newContext(http.MethodGet, "/api/orders/x", "")
	require.NoError(t, h.GetOrder(withParam(c, "id", "x"), testHandle))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	orders.AssertExpectations(t)
}

func TestCancelOrder(t *testing.T) {
	reason := "customer changed mind"
	orders := new(MockOrderService)
	h := NewOrderHandlers(orders, discardLogger())
	orders.On("CancelOrder", mock.Anything, mock.Anything, int64(3), &reason).Return(nil).Once()
	orders.On("CancelOrder", mock.Anything, mock.Anything, int64(4), (*string)(nil)).Return(common.ErrOrderAlreadyCancelled).Once()

	c, rec := newContext(http.MethodPut, "/api/orders/3/cancel", `{"reason":"customer changed mind"}`)
	require.NoError(t, h.CancelOrder(withParam(c, "id", "3"), testHandle))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newContext(http.MethodPut, "/api/orders/4/cancel", "")
	require.NoError(t, h.CancelOrder(withParam(c, "id", "4"), testHandle))
	assert.Equal(t, http.StatusConflict, rec.Code)
	orders.AssertExpectations(t)
}

func TestUpdateOrder_CancelsWithFullOrderBody(t *testing.T) {
	note := "Cancelled: Customer request. wrong size"
	orders := new(MockOrderService)
	h := NewOrderHandlers(orders, discardLogger())
	orders.On("CancelOrder", mock.Anything, mock.Anything, int64(12), &note).Return(nil).Once()

	body := `{"id":12,"orderNumber":"ORD0000012","customerId":"C1","status":"CANCELLED",
		"totalAmount":20,"paymentMethod":"CASH","notes":"Cancelled: Customer request. wrong size",
		"orderDetails":[{"itemCode":"I001","quantity":2,"unitPrice":10,"total":20}]}`
	c, rec := newContext(http.MethodPut, "/api/orders/12", body)
	require.NoError(t, h.UpdateOrder(withParam(c, "id", "12"), testHandle))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Order cancelled"}`, rec.Body.String())
	orders.AssertExpectations(t)
}

func TestUpdateOrder_RejectsOtherStatusChanges(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"completed", `{"status":"COMPLETED"}`},
		{"pending", `{"status":"PENDING","notes":"later"}`},
		{"missing status", `{"notes":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := new(MockOrderService)
			h := NewOrderHandlers(orders, discardLogger())

			c, rec := newContext(http.MethodPut, "/api/orders/12", tt.body)
			require.NoError(t, h.UpdateOrder(withParam(c, "id", "12"), testHandle))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorBody(t, rec), "status")
			orders.AssertNotCalled(t, "CancelOrder", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateOrder_AlreadyCancelled(t *testing.T) {
	orders := new(MockOrderService)
	h := NewOrderHandlers(orders, discardLogger())
	orders.On("CancelOrder", mock.Anything, mock.Anything, int64(5), (*string)(nil)).Return(common.ErrOrderAlreadyCancelled).Once()

	c, rec := newContext(http.MethodPut, "/api/orders/5", `{"status":"cancelled"}`)
	require.NoError(t, h.UpdateOrder(withParam(c, "id", "5"), testHandle))

	assert.Equal(t, http.StatusConflict, rec.Code)
	orders.AssertExpectations(t)
}

func TestCreateItem(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		err     error
		status  int
		message string
	}{
		{"created", `{"code":"A1","description":"Apple","unitPrice":1.5,"qtyOnHand":10}`, nil, http.StatusCreated, ""},
		{"missing qty", `{"code":"A1","description":"Apple","unitPrice":1.5}`, nil, http.StatusBadRequest, "Missing required fields"},
		{"duplicate", `{"code":"A1","description":"Apple","unitPrice":1.5,"qtyOnHand":10}`, common.ErrAlreadyExists, http.StatusBadRequest, "Item code already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := new(MockItemService)
			if tt.status != http.StatusBadRequest || tt.err != nil {
				items.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(item *models.Item) bool {
					return item.Code == "A1" && item.MinStockLevel == DefaultMinStockLevel
				})).Return(tt.err).Once()
			}
			c, rec := newContext(http.MethodPost, "/api/items", tt.body)

			require.NoError(t, NewItemHandlers(items, discardLogger()).CreateItem(c, testHandle))

			assert.Equal(t, tt.status, rec.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, errorBody(t, rec))
			} else {
				assert.JSONEq(t, `{"message":"Item created","code":"A1"}`, rec.Body.String())
			}
			items.AssertExpectations(t)
		})
	}
}

func TestUploadItemImage(t *testing.T) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="apple.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	url := "http://minio:9000/pos-images/pos_shop_7/items/A1/x.png"
	items := new(MockItemService)
	items.On("UploadImage", mock.Anything, testHandle, "A1", mock.MatchedBy(func(u *services.ImageUpload) bool {
		return u.Filename == "apple.png" && u.ContentType == "image/png" && u.Size == 4
	})).Return(&models.Item{Code: "A1", ImageURL: &url}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/items/A1/image", &buf)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := withParam(echo.New().NewContext(req, rec), "code", "A1")

	require.NoError(t, NewItemHandlers(items, discardLogger()).UploadItemImage(c, testHandle))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), url)
	items.AssertExpectations(t)
}

func TestUploadItemImage_MissingFile(t *testing.T) {
	items := new(MockItemService)
	c, rec := newContext(http.MethodPost, "/api/items/A1/image", "")

	require.NoError(t, NewItemHandlers(items, discardLogger()).UploadItemImage(withParam(c, "code", "A1"), testHandle))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	items.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteCustomer_NotFound(t *testing.T) {
	customers := new(MockCustomerService)
	customers.On("Delete", mock.Anything, mock.Anything, "C9").Return(common.ErrNotFound).Once()
	c, rec := newContext(http.MethodDelete, "/api/customers/C9", "")

	require.NoError(t, NewCustomerHandlers(customers, discardLogger()).DeleteCustomer(withParam(c, "id", "C9"), testHandle))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Customer not found", errorBody(t, rec))
}

func TestListCategories_ServerErrorIsMasked(t *testing.T) {
	categories := new(MockCategoryService)
	categories.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("pq: relation does not exist")).Once()
	c, rec := newContext(http.MethodGet, "/api/categories", "")

	require.NoError(t, NewCategoryHandlers(categories, discardLogger()).ListCategories(c, testHandle))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch categories", errorBody(t, rec))
}

func TestCreateEmployee_OmitsPassword(t *testing.T) {
	employees := new(MockEmployeeService)
	employees.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(in *models.EmployeeInput) bool {
		return in.Password == "pa55" && in.Name == "Jane"
	})).Return(&models.Employee{ID: "E1", Name: "Jane", Password: "$2a$hash", Active: true}, nil).Once()
	c, rec := newContext(http.MethodPost, "/api/employees", `{"id":"E1","name":"Jane","password":"pa55"}`)

	require.NoError(t, NewEmployeeHandlers(employees, discardLogger()).CreateEmployee(c, testHandle))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Employee created","id":"E1"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"success", nil, http.StatusOK},
		{"bad credentials", fmt.Errorf("%w: invalid credentials", common.ErrUnauthorized), http.StatusUnauthorized},
		{"rate limited", common.ErrTooManyRequests, http.StatusTooManyRequests},
		{"directory down", errors.New("dial tcp"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authService := new(MockAuthService)
			req := &models.LoginRequest{Username: "cashier", Password: "s3cret"}
			if tt.err == nil {
				authService.On("Login", mock.Anything, req).
					Return(&models.TokenResponse{Token: "tok", TokenType: "Bearer", UserID: 1, TenantID: 2}, nil).Once()
			} else {
				authService.On("Login", mock.Anything, req).Return(nil, tt.err).Once()
			}
			c, rec := newContext(http.MethodPost, "/api/auth/login", `{"username":"cashier","password":"s3cret"}`)

			require.NoError(t, NewAuthHandlers(authService, discardLogger()).Login(c))

			assert.Equal(t, tt.status, rec.Code)
			if tt.err == nil {
				assert.Contains(t, rec.Body.String(), `"token":"tok"`)
			}
			authService.AssertExpectations(t)
		})
	}
}

func TestHealthChecks(t *testing.T) {
	cache := new(MockCacheService)
	cache.On("Ping", mock.Anything).Return(nil)
	h := NewHealthHandlers(stubPinger{}, cache, stubPools{"pos_shop_7"})

	c, rec := newContext(http.MethodGet, "/health", "")
	require.NoError(t, h.HealthCheck(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)

	c, rec = newContext(http.MethodGet, "/health/ready", "")
	require.NoError(t, h.ReadinessCheck(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"tenantPools":["pos_shop_7"]`)

	down := NewHealthHandlers(stubPinger{err: errors.New("refused")}, cache, stubPools{})
	c, rec = newContext(http.MethodGet, "/health/ready", "")
	require.NoError(t, down.ReadinessCheck(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"unhealthy"`)
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(discardLogger())
	rec := httptest.NewRecorder()

	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", errorBody(t, rec))
}
