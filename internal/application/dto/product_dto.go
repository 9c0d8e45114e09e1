package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name     string          `json:"name"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// UpdateProductRequest body para PUT /api/products/:id.
// No permite modificar Quantity: el stock se mueve vía reservas y reposiciones.
type UpdateProductRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// RestockRequest body para POST /api/products/:id/restock.
type RestockRequest struct {
	Quantity int64 `json:"quantity"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt string          `json:"created_at,omitempty"`
	UpdatedAt string          `json:"updated_at,omitempty"`
}

// StockMovementResponse entrada del historial de stock en respuestas.
type StockMovementResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Type      string `json:"type"`
	Quantity  int64  `json:"quantity"`
	Date      string `json:"date"`
	CreatedAt string `json:"created_at,omitempty"`
}
