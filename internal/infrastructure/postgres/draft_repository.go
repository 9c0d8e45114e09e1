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

var _ repository.DraftRepository = (*DraftRepo)(nil)

// DraftRepo implementación de DraftRepository (usable con pool o tx).
// Misma forma que las facturas, con updated_at para el upsert del front.
type DraftRepo struct {
	q Querier
}

// NewDraftRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDraftRepository(q Querier) *DraftRepo {
	return &DraftRepo{q: q}
}

const draftColumns = `
	id, client_name, client_phone, client_address,
	supplier_name, supplier_phone, supplier_address,
	date, total, currency, lines, created_at, updated_at`

// Create persiste el borrador y asigna el ID generado.
func (r *DraftRepo) Create(draft *entity.Draft) error {
	linesJSON, err := json.Marshal(draft.Lines)
	if err != nil {
		return fmt.Errorf("marshal draft lines: %w", err)
	}
	now := time.Now()
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}
	draft.UpdatedAt = now
	query := `
		INSERT INTO drafts (client_name, client_phone, client_address,
			supplier_name, supplier_phone, supplier_address,
			date, total, currency, lines, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err = r.q.QueryRow(context.Background(), query,
		draft.Client.Name, draft.Client.Phone, draft.Client.Address,
		draft.Supplier.Name, draft.Supplier.Phone, draft.Supplier.Address,
		draft.Date, draft.Total, draft.Currency, linesJSON, draft.CreatedAt, draft.UpdatedAt,
	).Scan(&draft.ID)
	if err != nil {
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

// Update reemplaza el contenido del borrador (el ID nunca cambia).
func (r *DraftRepo) Update(draft *entity.Draft) error {
	linesJSON, err := json.Marshal(draft.Lines)
	if err != nil {
		return fmt.Errorf("marshal draft lines: %w", err)
	}
	draft.UpdatedAt = time.Now()
	query := `
		UPDATE drafts SET client_name = $2, client_phone = $3, client_address = $4,
			supplier_name = $5, supplier_phone = $6, supplier_address = $7,
			date = $8, total = $9, currency = $10, lines = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		draft.ID,
		draft.Client.Name, draft.Client.Phone, draft.Client.Address,
		draft.Supplier.Name, draft.Supplier.Phone, draft.Supplier.Address,
		draft.Date, draft.Total, draft.Currency, linesJSON, draft.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un borrador por ID. Devuelve (nil, nil) si no existe.
func (r *DraftRepo) GetByID(id int64) (*entity.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts WHERE id = $1`
	draft, err := scanDraft(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}
	return draft, nil
}

// List lista borradores por fecha de creación descendente.
func (r *DraftRepo) List(limit, offset int) ([]*entity.Draft, error) {
	query := `SELECT ` + draftColumns + ` FROM drafts ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Draft
	for rows.Next() {
		draft, err := scanDraft(rows)
		if err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		list = append(list, draft)
	}
	return list, rows.Err()
}

// Delete elimina un borrador por ID.
func (r *DraftRepo) Delete(id int64) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM drafts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanDraft(row pgx.Row) (*entity.Draft, error) {
	var d entity.Draft
	var linesJSON []byte
	err := row.Scan(
		&d.ID, &d.Client.Name, &d.Client.Phone, &d.Client.Address,
		&d.Supplier.Name, &d.Supplier.Phone, &d.Supplier.Address,
		&d.Date, &d.Total, &d.Currency, &linesJSON, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(linesJSON) > 0 {
		if err := json.Unmarshal(linesJSON, &d.Lines); err != nil {
			return nil, fmt.Errorf("unmarshal draft lines: %w", err)
		}
	}
	return &d, nil
}
