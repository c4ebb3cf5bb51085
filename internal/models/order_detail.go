package models

type OrderDetail struct {
	ID        int64   `json:"id" db:"id"`
	OrderID   int64   `json:"orderId" db:"order_id"`
	ItemCode  string  `json:"itemCode" db:"item_code"`
	ItemName  *string `json:"itemName,omitempty" db:"item_name"`
	Quantity  int     `json:"quantity" db:"quantity"`
	UnitPrice float64 `json:"unitPrice" db:"unit_price"`
	Discount  float64 `json:"discount" db:"discount"`
	Tax       float64 `json:"tax" db:"tax"`
	Subtotal  float64 `json:"subtotal" db:"subtotal"`
	Total     float64 `json:"total" db:"total"`
}
