package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/stock"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Formatos de fecha aceptados en los requests (los que envía el front).
const (
	dateTimeLayout = "2006-01-02 15:04:05"
	dateOnlyLayout = "2006-01-02"
)

// errStockRejected marca el rechazo de la reserva para forzar el rollback de
// la transacción de facturación. Nunca sale de este paquete.
var errStockRejected = errors.New("reserva de stock rechazada")

// CreateInvoiceUseCase crea una factura y descuenta el inventario en una sola
// transacción. Si la reserva es rechazada (producto faltante o stock
// insuficiente) la factura no se persiste y el resultado de negocio se
// devuelve al caller para que ofrezca el fallback de borrador.
type CreateInvoiceUseCase struct {
	txRunner    BillingTxRunner
	reserver    StockReserver
	invoiceRepo repository.InvoiceRepository
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	txRunner BillingTxRunner,
	reserver StockReserver,
	invoiceRepo repository.InvoiceRepository,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:    txRunner,
		reserver:    reserver,
		invoiceRepo: invoiceRepo,
	}
}

// CreateInvoice valida el request, reserva el stock y persiste la factura.
// Devuelve (respuesta, nil, nil) en éxito, (nil, resultado, nil) cuando la
// reserva fue rechazada por negocio, y error en fallos de infraestructura.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, *stock.CheckResult, error) {
	if !entity.IsValidCurrency(in.Currency) {
		return nil, nil, fmt.Errorf("moneda %q: %w", in.Currency, domain.ErrInvalidInput)
	}
	date, err := ParseDocumentDate(in.Date)
	if err != nil {
		return nil, nil, err
	}
	lines := NormalizeLines(in.Lines)
	if len(lines) == 0 {
		return nil, nil, fmt.Errorf("la factura no tiene líneas válidas: %w", domain.ErrInvalidInput)
	}

	invoice := &entity.Invoice{
		Client:   entity.Party(in.Client),
		Supplier: entity.Party(in.Supplier),
		Date:     date,
		Total:    SumLines(lines),
		Currency: in.Currency,
		Lines:    lines,
	}

	var rejection *stock.CheckResult
	err = uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		// La reserva se ejecuta con los repos de ESTA transacción: si la
		// inserción de la factura falla, el descuento de stock también se
		// revierte.
		result, err := uc.reserver.ReserveInTx(productRepo, movementRepo, toStockLines(lines), date)
		if err != nil {
			return err
		}
		if !result.OK {
			rejection = result
			return errStockRejected
		}
		return invoiceRepo.Create(invoice)
	})
	if errors.Is(err, errStockRejected) {
		return nil, rejection, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return invoiceToResponse(invoice), nil, nil
}

// GetInvoice obtiene una factura por ID.
func (uc *CreateInvoiceUseCase) GetInvoice(ctx context.Context, id int64) (*dto.InvoiceResponse, error) {
	invoice, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoiceToResponse(invoice), nil
}

// ListInvoices lista facturas ordenadas por fecha descendente.
func (uc *CreateInvoiceUseCase) ListInvoices(ctx context.Context, page dto.PageRequest) ([]*dto.InvoiceResponse, error) {
	page.DefaultPage()
	invoices, err := uc.invoiceRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, invoiceToResponse(inv))
	}
	return out, nil
}

// DeleteInvoice elimina una factura. No restaura el stock descontado: el
// historial de movimientos es append-only y la reposición es una operación
// explícita aparte.
func (uc *CreateInvoiceUseCase) DeleteInvoice(ctx context.Context, id int64) error {
	return uc.invoiceRepo.Delete(id)
}

// ParseDocumentDate interpreta la fecha del documento en los formatos del
// front ("2006-01-02 15:04:05" o "2006-01-02").
func ParseDocumentDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("fecha requerida: %w", domain.ErrInvalidInput)
	}
	if t, err := time.Parse(dateTimeLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateOnlyLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("fecha %q: %w", s, domain.ErrInvalidInput)
}

// NormalizeLines filtra las líneas facturables (descripción y cantidad
// positiva) y recalcula el total de cada una en el servidor.
func NormalizeLines(in []dto.InvoiceLineDTO) []entity.InvoiceLine {
	var out []entity.InvoiceLine
	for _, l := range in {
		if l.Description == "" || l.Quantity <= 0 {
			continue
		}
		out = append(out, entity.InvoiceLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Total:       l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity)),
			ProductID:   l.ProductID,
		})
	}
	return out
}

// SumLines suma los totales de línea.
func SumLines(lines []entity.InvoiceLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total)
	}
	return total
}

func toStockLines(lines []entity.InvoiceLine) []stock.LineItem {
	out := make([]stock.LineItem, 0, len(lines))
	for _, l := range lines {
		out = append(out, stock.LineItem{
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			Description: l.Description,
		})
	}
	return out
}

func linesToDTO(lines []entity.InvoiceLine) []dto.InvoiceLineDTO {
	out := make([]dto.InvoiceLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.InvoiceLineDTO{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Total:       l.Total,
			ProductID:   l.ProductID,
		})
	}
	return out
}

func invoiceToResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:       inv.ID,
		Client:   dto.PartyDTO(inv.Client),
		Supplier: dto.PartyDTO(inv.Supplier),
		Date:     inv.Date.Format(dateTimeLayout),
		Total:    inv.Total,
		Currency: inv.Currency,
		Lines:    linesToDTO(inv.Lines),
	}
	if !inv.CreatedAt.IsZero() {
		resp.CreatedAt = inv.CreatedAt.Format(time.RFC3339)
	}
	return resp
}
