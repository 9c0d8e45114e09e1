package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// DraftRepository define el puerto de persistencia para borradores de factura.
type DraftRepository interface {
	Create(draft *entity.Draft) error
	Update(draft *entity.Draft) error
	GetByID(id int64) (*entity.Draft, error)
	// List devuelve borradores ordenados por fecha de creación descendente.
	List(limit, offset int) ([]*entity.Draft, error)
	Delete(id int64) error
}
