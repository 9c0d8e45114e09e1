package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeDestock = "destock" // salida por facturación
	MovementTypeRestock = "restock" // reposición manual
)

// StockMovement es una entrada del historial de stock (product_stock_history).
// Solo se inserta, nunca se actualiza ni se borra.
type StockMovement struct {
	ID        int64
	ProductID int64
	Type      string
	Quantity  int64     // siempre positivo; el tipo indica el sentido
	Date      time.Time // fecha del documento que originó el movimiento (la aporta el caller)
	CreatedAt time.Time
}
