package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Draft es una factura sin confirmar: misma forma que Invoice pero sin efecto
// sobre el inventario. Se crea a petición del usuario o como fallback cuando
// la reserva de stock falla.
type Draft struct {
	ID        int64
	Client    Party
	Supplier  Party
	Date      time.Time
	Total     decimal.Decimal
	Currency  string
	Lines     []InvoiceLine
	CreatedAt time.Time
	UpdatedAt time.Time
}
