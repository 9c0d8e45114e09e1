package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Las líneas se guardan como JSONB en la columna `lines`.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, client_name, client_phone, client_address,
	supplier_name, supplier_phone, supplier_address,
	date, total, currency, lines, created_at`

// Create persiste la factura y asigna el ID generado.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	linesJSON, err := json.Marshal(invoice.Lines)
	if err != nil {
		return fmt.Errorf("marshal invoice lines: %w", err)
	}
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO invoices (client_name, client_phone, client_address,
			supplier_name, supplier_phone, supplier_address,
			date, total, currency, lines, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`
	err = r.q.QueryRow(context.Background(), query,
		invoice.Client.Name, invoice.Client.Phone, invoice.Client.Address,
		invoice.Supplier.Name, invoice.Supplier.Phone, invoice.Supplier.Address,
		invoice.Date, invoice.Total, invoice.Currency, linesJSON, invoice.CreatedAt,
	).Scan(&invoice.ID)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura por ID. Devuelve (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(id int64) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List lista facturas por fecha descendente.
func (r *InvoiceRepo) List(limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY date DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// Delete elimina una factura por ID.
func (r *InvoiceRepo) Delete(id int64) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var linesJSON []byte
	err := row.Scan(
		&inv.ID, &inv.Client.Name, &inv.Client.Phone, &inv.Client.Address,
		&inv.Supplier.Name, &inv.Supplier.Phone, &inv.Supplier.Address,
		&inv.Date, &inv.Total, &inv.Currency, &linesJSON, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(linesJSON) > 0 {
		if err := json.Unmarshal(linesJSON, &inv.Lines); err != nil {
			return nil, fmt.Errorf("unmarshal invoice lines: %w", err)
		}
	}
	return &inv, nil
}
