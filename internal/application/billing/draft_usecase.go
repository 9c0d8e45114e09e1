package billing

import (
	"context"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// DraftUseCase gestiona borradores de factura. Un borrador nunca toca el
// inventario; es la versión sin confirmar de una factura, usada también como
// fallback cuando la reserva de stock es rechazada.
type DraftUseCase struct {
	draftRepo repository.DraftRepository
}

// NewDraftUseCase construye el caso de uso.
func NewDraftUseCase(draftRepo repository.DraftRepository) *DraftUseCase {
	return &DraftUseCase{draftRepo: draftRepo}
}

// UpsertDraft crea el borrador si no trae ID o actualiza el existente.
// Normaliza las líneas y recalcula el total igual que la facturación, para que
// confirmar un borrador no cambie los importes.
func (uc *DraftUseCase) UpsertDraft(ctx context.Context, in dto.UpsertDraftRequest) (*dto.DraftResponse, error) {
	if in.Currency != "" && !entity.IsValidCurrency(in.Currency) {
		return nil, domain.ErrInvalidInput
	}
	date, err := ParseDocumentDate(in.Date)
	if err != nil {
		return nil, err
	}
	lines := NormalizeLines(in.Lines)

	draft := &entity.Draft{
		Client:   entity.Party(in.Client),
		Supplier: entity.Party(in.Supplier),
		Date:     date,
		Total:    SumLines(lines),
		Currency: in.Currency,
		Lines:    lines,
	}

	if in.ID != nil {
		existing, err := uc.draftRepo.GetByID(*in.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrNotFound
		}
		draft.ID = *in.ID
		draft.CreatedAt = existing.CreatedAt
		if err := uc.draftRepo.Update(draft); err != nil {
			return nil, err
		}
		return draftToResponse(draft), nil
	}

	if err := uc.draftRepo.Create(draft); err != nil {
		return nil, err
	}
	return draftToResponse(draft), nil
}

// GetDraft obtiene un borrador por ID.
func (uc *DraftUseCase) GetDraft(ctx context.Context, id int64) (*dto.DraftResponse, error) {
	draft, err := uc.draftRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, domain.ErrNotFound
	}
	return draftToResponse(draft), nil
}

// ListDrafts lista borradores ordenados por fecha de creación descendente.
func (uc *DraftUseCase) ListDrafts(ctx context.Context, page dto.PageRequest) ([]*dto.DraftResponse, error) {
	page.DefaultPage()
	drafts, err := uc.draftRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DraftResponse, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, draftToResponse(d))
	}
	return out, nil
}

// DeleteDraft elimina un borrador.
func (uc *DraftUseCase) DeleteDraft(ctx context.Context, id int64) error {
	return uc.draftRepo.Delete(id)
}

func draftToResponse(d *entity.Draft) *dto.DraftResponse {
	resp := &dto.DraftResponse{
		ID:       d.ID,
		Client:   dto.PartyDTO(d.Client),
		Supplier: dto.PartyDTO(d.Supplier),
		Date:     d.Date.Format(dateTimeLayout),
		Total:    d.Total,
		Currency: d.Currency,
		Lines:    linesToDTO(d.Lines),
	}
	if !d.CreatedAt.IsZero() {
		resp.CreatedAt = d.CreatedAt.Format(time.RFC3339)
	}
	if !d.UpdatedAt.IsZero() {
		resp.UpdatedAt = d.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
