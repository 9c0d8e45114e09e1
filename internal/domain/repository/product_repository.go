package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetByIDForUpdate devuelven (nil, nil) si el producto no existe.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id int64) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	// Usar solo dentro de una transacción.
	GetByIDForUpdate(id int64) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	// DecrementQuantity descuenta qty de forma condicional: solo aplica si
	// quantity >= qty. Devuelve false si la condición no se cumple.
	DecrementQuantity(id, qty int64) (bool, error)
	// IncrementQuantity suma qty al stock (reposiciones).
	IncrementQuantity(id, qty int64) error
	Delete(id int64) error
}
