package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, quantity, price, created_at, updated_at`

// Create persiste un nuevo producto y asigna el ID generado.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (name, quantity, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		product.Name, product.Quantity, product.Price, product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. Devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product")
}

// GetByIDForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
// Usar solo dentro de una transacción; es el lock del motor de reservas.
func (r *ProductRepo) GetByIDForUpdate(id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get product for update")
}

func (r *ProductRepo) scanOne(row pgx.Row, op string) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// List lista productos por fecha de creación descendente.
func (r *ProductRepo) List(limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Update actualiza nombre y precio. La cantidad se maneja vía
// DecrementQuantity/IncrementQuantity.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `UPDATE products SET name = $2, price = $3, updated_at = $4 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Price, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// DecrementQuantity descuenta qty solo si hay stock suficiente: el WHERE
// quantity >= $2 hace el descuento atómico y hace imposible dejar la cantidad
// negativa aunque el caller haya validado sobre un dato viejo.
func (r *ProductRepo) DecrementQuantity(id, qty int64) (bool, error) {
	query := `
		UPDATE products SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2`
	cmd, err := r.q.Exec(context.Background(), query, id, qty)
	if err != nil {
		return false, fmt.Errorf("decrement quantity: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// IncrementQuantity suma qty al stock (reposiciones).
func (r *ProductRepo) IncrementQuantity(id, qty int64) error {
	query := `UPDATE products SET quantity = quantity + $2, updated_at = now() WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, id, qty)
	if err != nil {
		return fmt.Errorf("increment quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(id int64) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
