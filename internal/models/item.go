package models

type Item struct {
	Code          string  `json:"code" db:"code"`
	Description   string  `json:"description" db:"description"`
	Category      *string `json:"category" db:"category"`
	UnitPrice     float64 `json:"unitPrice" db:"unit_price"`
	QtyOnHand     int     `json:"qtyOnHand" db:"qty_on_hand"`
	MinStockLevel int     `json:"minStockLevel" db:"min_stock_level"`
	Barcode       *string `json:"barcode" db:"barcode"`
	Notes         *string `json:"notes" db:"notes"`
	ImageURL      *string `json:"imageUrl" db:"image_url"`
	Active        bool    `json:"active" db:"active"`
}

// LowStockItem is an item at or below its minimum stock level.
type LowStockItem struct {
	Code          string `json:"code"`
	Description   string `json:"description"`
	QtyOnHand     int    `json:"qtyOnHand"`
	MinStockLevel int    `json:"minStockLevel"`
}
