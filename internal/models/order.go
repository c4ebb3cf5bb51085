package models

import "time"

const (
	OrderStatusCompleted = "COMPLETED"
	OrderStatusCancelled = "CANCELLED"
)

// Cart is the body of POST /api/orders. Monetary totals are supplied by the
// client and stored as given.
type Cart struct {
	CustomerID    *string     `json:"customerId"`
	Status        string      `json:"status"`
	Discount      float64     `json:"discount"`
	DiscountType  string      `json:"discountType"`
	Tax           float64     `json:"tax"`
	Subtotal      float64     `json:"subtotal"`
	TotalAmount   float64     `json:"totalAmount"`
	AmountPaid    float64     `json:"amountPaid"`
	ChangeAmount  float64     `json:"changeAmount"`
	PaymentMethod string      `json:"paymentMethod"`
	PaymentStatus string      `json:"paymentStatus"`
	ProcessedBy   *string     `json:"processedBy"`
	OrderDetails  []OrderLine `json:"orderDetails"`
}

// OrderLine is one cart line as sent by the client.
type OrderLine struct {
	ItemCode  string  `json:"itemCode"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Discount  float64 `json:"discount"`
	Tax       float64 `json:"tax"`
	Subtotal  float64 `json:"subtotal"`
	Total     float64 `json:"total"`
}

// OrderRecord identifies a committed order.
type OrderRecord struct {
	ID          int64  `json:"orderId"`
	OrderNumber string `json:"orderNumber"`
}

type Order struct {
	ID            int64          `json:"id" db:"id"`
	OrderNumber   string         `json:"orderNumber" db:"order_number"`
	CustomerID    *string        `json:"customerId" db:"customer_id"`
	CustomerName  *string        `json:"customerName,omitempty" db:"customer_name"`
	Status        string         `json:"status" db:"status"`
	Discount      float64        `json:"discount" db:"discount"`
	DiscountType  string         `json:"discountType" db:"discount_type"`
	Tax           float64        `json:"tax" db:"tax"`
	Subtotal      float64        `json:"subtotal" db:"subtotal"`
	TotalAmount   float64        `json:"totalAmount" db:"total_amount"`
	AmountPaid    float64        `json:"amountPaid" db:"amount_paid"`
	ChangeAmount  float64        `json:"changeAmount" db:"change_amount"`
	PaymentMethod string         `json:"paymentMethod" db:"payment_method"`
	PaymentStatus string         `json:"paymentStatus" db:"payment_status"`
	ProcessedBy   *string        `json:"processedBy" db:"processed_by"`
	Notes         *string        `json:"notes" db:"notes"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
	Details       []*OrderDetail `json:"orderDetails,omitempty" db:"-"`
}
