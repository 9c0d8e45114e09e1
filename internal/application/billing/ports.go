package billing

import (
	"context"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/application/stock"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye
// los repos de stock y el de facturas, para crear la factura y descontar el
// inventario como una sola unidad atómica.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// StockReserver integra facturación con el motor de reservas.
// ReserveInTx usa los repositorios del caller (misma transacción); si el
// resultado no es OK el caller debe abortar, y hasta ese punto la reserva no
// ha escrito nada.
type StockReserver interface {
	ReserveInTx(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
		lines []stock.LineItem,
		occurredAt time.Time,
	) (*stock.CheckResult, error)
}
