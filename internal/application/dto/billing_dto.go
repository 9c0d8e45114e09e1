package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/stock"
)

// PartyDTO una de las partes de la factura (cliente o proveedor).
type PartyDTO struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// InvoiceLineDTO línea de factura o borrador.
// Total lo recalcula siempre el servidor (quantity × unit_price).
type InvoiceLineDTO struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	ProductID   *int64          `json:"product_id,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// Date en formato "2006-01-02 15:04:05" o "2006-01-02".
type CreateInvoiceRequest struct {
	Client   PartyDTO         `json:"client"`
	Supplier PartyDTO         `json:"supplier"`
	Date     string           `json:"date"`
	Currency string           `json:"currency"`
	Lines    []InvoiceLineDTO `json:"lines"`
}

// InvoiceResponse factura en respuestas.
type InvoiceResponse struct {
	ID        int64            `json:"id"`
	Client    PartyDTO         `json:"client"`
	Supplier  PartyDTO         `json:"supplier"`
	Date      string           `json:"date"`
	Total     decimal.Decimal  `json:"total"`
	Currency  string           `json:"currency"`
	Lines     []InvoiceLineDTO `json:"lines"`
	CreatedAt string           `json:"created_at,omitempty"`
}

// UpsertDraftRequest body para POST/PUT de borradores.
// Con ID actualiza el borrador existente; sin ID crea uno nuevo.
type UpsertDraftRequest struct {
	ID       *int64           `json:"id,omitempty"`
	Client   PartyDTO         `json:"client"`
	Supplier PartyDTO         `json:"supplier"`
	Date     string           `json:"date"`
	Currency string           `json:"currency"`
	Lines    []InvoiceLineDTO `json:"lines"`
}

// DraftResponse borrador en respuestas.
type DraftResponse struct {
	ID        int64            `json:"id"`
	Client    PartyDTO         `json:"client"`
	Supplier  PartyDTO         `json:"supplier"`
	Date      string           `json:"date"`
	Total     decimal.Decimal  `json:"total"`
	Currency  string           `json:"currency"`
	Lines     []InvoiceLineDTO `json:"lines"`
	CreatedAt string           `json:"created_at,omitempty"`
	UpdatedAt string           `json:"updated_at,omitempty"`
}

// ReserveStockRequest body para POST /api/stock/reserve.
type ReserveStockRequest struct {
	Date  string           `json:"date"`
	Lines []InvoiceLineDTO `json:"lines"`
}

// StockFailureResponse cuerpo 409 cuando la reserva de stock es rechazada.
// SuggestDraft le indica al front que ofrezca guardar como borrador.
type StockFailureResponse struct {
	Code         string                  `json:"code"`
	Kind         stock.FailureKind       `json:"kind"`
	Message      string                  `json:"message"`
	Details      []stock.ShortfallDetail `json:"details,omitempty"`
	SuggestDraft bool                    `json:"suggest_draft"`
}
