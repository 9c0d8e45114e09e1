package stock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// errReservationRejected marca internamente un rechazo de negocio para forzar
// el rollback de la transacción. Nunca sale de este paquete.
var errReservationRejected = errors.New("reserva rechazada")

// ReservationService verifica y descuenta stock para un conjunto de líneas de
// factura como una unidad lógica (check-then-commit en dos fases).
//
// Ambas fases corren dentro de UNA transacción con bloqueo de fila
// (SELECT FOR UPDATE) sobre cada producto referenciado, de modo que dos
// reservas concurrentes sobre el mismo producto no pueden sobregirar el
// inventario: la segunda espera el lock y valida contra la cantidad ya
// descontada.
type ReservationService struct {
	txRunner TxRunner
}

// NewReservationService construye el servicio con el runner transaccional.
func NewReservationService(txRunner TxRunner) *ReservationService {
	return &ReservationService{txRunner: txRunner}
}

// Reserve valida la disponibilidad de todas las líneas calificadas y, solo si
// todas son satisfacibles, descuenta cada cantidad y registra un movimiento
// "destock" por línea con la fecha occurredAt (la aporta el caller, el
// servicio no lee el reloj).
//
// Devuelve (CheckResult, nil) tanto en éxito como en rechazo de negocio
// (missing/insufficient); en el rechazo no se realizó ninguna escritura.
// Un error no nulo significa que el almacén no pudo determinar la
// disponibilidad (fallo de infraestructura) y la operación se abortó.
func (s *ReservationService) Reserve(ctx context.Context, lines []LineItem, occurredAt time.Time) (*CheckResult, error) {
	var result *CheckResult
	err := s.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		r, err := s.ReserveInTx(productRepo, movementRepo, lines, occurredAt)
		if err != nil {
			return err
		}
		result = r
		if !r.OK {
			return errReservationRejected // rollback; la fase de validación no escribe
		}
		return nil
	})
	if err != nil && !errors.Is(err, errReservationRejected) {
		return nil, err
	}
	return result, nil
}

// ReserveInTx ejecuta la reserva con los repositorios del caller (misma
// transacción). Pensado para componerse en transacciones mayores, p.ej. la
// creación de factura. Si el resultado no es OK el caller debe abortar su
// transacción; hasta ese punto no se ha escrito nada.
func (s *ReservationService) ReserveInTx(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	lines []LineItem,
	occurredAt time.Time,
) (*CheckResult, error) {
	type checkedLine struct {
		line    LineItem
		product *entity.Product
	}

	// Fase 1: validación bajo bloqueo de fila. Se detiene en el primer
	// producto faltante o insuficiente; los locks se liberan con el rollback.
	// reserved acumula lo pedido por producto dentro de esta misma reserva,
	// para que dos líneas sobre el mismo producto no pasen validación contra
	// la misma cantidad.
	var checked []checkedLine
	reserved := make(map[int64]int64)
	for _, line := range lines {
		if !line.Qualifies() {
			continue
		}
		product, err := productRepo.GetByIDForUpdate(*line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("verificar stock del producto %d: %w", *line.ProductID, err)
		}
		if product == nil {
			return missingFailure(line), nil
		}
		available := product.Quantity - reserved[product.ID]
		if available < line.Quantity {
			return insufficientFailure(product, line, available), nil
		}
		reserved[product.ID] += line.Quantity
		checked = append(checked, checkedLine{line: line, product: product})
	}

	// Fase 2: descuento y registro, sobre las mismas filas bloqueadas en la
	// fase 1 (sin re-lectura). El descuento es condicional
	// (quantity >= qty) como última barrera contra un sobregiro.
	for _, c := range checked {
		ok, err := productRepo.DecrementQuantity(c.product.ID, c.line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("descontar stock del producto %d: %w", c.product.ID, err)
		}
		if !ok {
			// La fila está bloqueada desde la fase 1; si aun así el descuento
			// no aplica, el estado cambió bajo nuestros pies: abortar todo.
			return nil, fmt.Errorf("descontar stock del producto %d: %w", c.product.ID, domain.ErrConflict)
		}
		movement := &entity.StockMovement{
			ProductID: c.product.ID,
			Type:      entity.MovementTypeDestock,
			Quantity:  c.line.Quantity,
			Date:      occurredAt,
		}
		if err := movementRepo.Create(movement); err != nil {
			return nil, fmt.Errorf("registrar movimiento del producto %d: %w", c.product.ID, err)
		}
	}

	return success(), nil
}
