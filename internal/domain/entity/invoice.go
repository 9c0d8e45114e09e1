package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Monedas admitidas (heredadas del front de facturación).
const (
	CurrencyEUR = "EUR"
	CurrencyUSD = "USD"
	CurrencyCFA = "CFA"
	CurrencyGNF = "GNF"
)

// IsValidCurrency indica si la moneda está dentro del catálogo admitido.
func IsValidCurrency(c string) bool {
	switch c {
	case CurrencyEUR, CurrencyUSD, CurrencyCFA, CurrencyGNF:
		return true
	}
	return false
}

// Party datos de contacto de una de las partes de la factura (cliente o proveedor).
type Party struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// InvoiceLine línea de factura tal como se guarda en la columna JSONB `lines`.
// ProductID es opcional: las líneas de texto libre no tienen respaldo de inventario.
type InvoiceLine struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	ProductID   *int64          `json:"product_id,omitempty"`
}

// Invoice representa una factura confirmada (el stock ya fue descontado).
type Invoice struct {
	ID        int64
	Client    Party
	Supplier  Party
	Date      time.Time
	Total     decimal.Decimal
	Currency  string
	Lines     []InvoiceLine
	CreatedAt time.Time
}
