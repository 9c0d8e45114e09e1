package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Quantity es el stock disponible; fuera del alta y de las reposiciones solo lo
// muta el motor de reservas (nunca debe quedar negativo).
type Product struct {
	ID        int64
	Name      string
	Quantity  int64
	Price     decimal.Decimal // precio unitario de referencia
	CreatedAt time.Time
	UpdatedAt time.Time
}
