package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo historial de stock sobre PostgreSQL (usable con pool o tx).
// La tabla product_stock_history es append-only: no hay Update ni Delete.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta una entrada del historial y asigna el ID generado.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO product_stock_history (product_id, type, quantity, date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		movement.ProductID, movement.Type, movement.Quantity, movement.Date, movement.CreatedAt,
	).Scan(&movement.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByProduct lista el historial de un producto por fecha descendente.
func (r *StockMovementRepo) ListByProduct(productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, type, quantity, date, created_at
		FROM product_stock_history
		WHERE product_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Date, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
