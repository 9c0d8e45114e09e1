package repository

import "github.com/jhoicas/Facturacion-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para facturas confirmadas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	GetByID(id int64) (*entity.Invoice, error)
	// List devuelve facturas ordenadas por fecha descendente.
	List(limit, offset int) ([]*entity.Invoice, error)
	Delete(id int64) error
}
