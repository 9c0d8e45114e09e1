package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// StockMovementRepository define el puerto del historial de stock (append-only).
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByProduct(productID int64, limit, offset int) ([]*entity.StockMovement, error)
}
