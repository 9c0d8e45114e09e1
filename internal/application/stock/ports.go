package stock

import (
	"context"

	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor de reservas:
// o se descuentan todas las líneas y se registran sus movimientos, o ninguna.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error) error
}
