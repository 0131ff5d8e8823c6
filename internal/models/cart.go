package models

// CartItem is one line of the session cart. It snapshots the product's
// displayable fields at add time; later catalog changes do not propagate.
// Quantity is never below 1: decrementing at 1 is a no-op in the store.
type CartItem struct {
	ProductID int64   `json:"product_id"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type CartSummary struct {
	Items         []CartItem `json:"items"`
	TotalQuantity int        `json:"total_quantity"`
	TotalPrice    float64    `json:"total_price"`
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}
