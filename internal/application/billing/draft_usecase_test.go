package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
)

// fakeDraftRepo implementa repository.DraftRepository en memoria.
type fakeDraftRepo struct {
	drafts map[int64]*entity.Draft
	nextID int64
}

func newFakeDraftRepo() *fakeDraftRepo {
	return &fakeDraftRepo{drafts: make(map[int64]*entity.Draft), nextID: 1}
}

func (r *fakeDraftRepo) Create(d *entity.Draft) error {
	d.ID = r.nextID
	r.nextID++
	d.CreatedAt = time.Now().UTC()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	r.drafts[d.ID] = &cp
	return nil
}

func (r *fakeDraftRepo) Update(d *entity.Draft) error {
	if _, ok := r.drafts[d.ID]; !ok {
		return domain.ErrNotFound
	}
	d.UpdatedAt = time.Now().UTC()
	cp := *d
	r.drafts[d.ID] = &cp
	return nil
}

func (r *fakeDraftRepo) GetByID(id int64) (*entity.Draft, error) {
	d, ok := r.drafts[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDraftRepo) List(limit, offset int) ([]*entity.Draft, error) {
	var out []*entity.Draft
	for _, d := range r.drafts {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeDraftRepo) Delete(id int64) error {
	if _, ok := r.drafts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.drafts, id)
	return nil
}

func draftRequest() dto.UpsertDraftRequest {
	return dto.UpsertDraftRequest{
		Client:   dto.PartyDTO{Name: "Mamadou Diallo"},
		Supplier: dto.PartyDTO{Name: "Quincaillerie Centrale"},
		Date:     "2026-03-14",
		Currency: entity.CurrencyGNF,
		Lines: []dto.InvoiceLineDTO{
			{Description: "Ciment 50kg", Quantity: 3, UnitPrice: decimal.NewFromInt(85000), ProductID: ptr(1)},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests UpsertDraft
// ──────────────────────────────────────────────────────────────────────────────

// Sin ID: crea el borrador con el total recalculado. El inventario nunca
// interviene (no hay repos de stock en el caso de uso).
func TestUpsertDraft_SinID_Crea(t *testing.T) {
	repo := newFakeDraftRepo()
	uc := billing.NewDraftUseCase(repo)

	resp, err := uc.UpsertDraft(context.Background(), draftRequest())

	require.NoError(t, err)
	assert.NotZero(t, resp.ID)
	assert.True(t, resp.Total.Equal(decimal.NewFromInt(255000)), "total %s", resp.Total)
	assert.Len(t, repo.drafts, 1)
}

// Con ID: actualiza el borrador existente conservando su fecha de creación.
func TestUpsertDraft_ConID_Actualiza(t *testing.T) {
	repo := newFakeDraftRepo()
	uc := billing.NewDraftUseCase(repo)

	created, err := uc.UpsertDraft(context.Background(), draftRequest())
	require.NoError(t, err)
	originalCreatedAt := repo.drafts[created.ID].CreatedAt

	in := draftRequest()
	in.ID = &created.ID
	in.Lines[0].Quantity = 10
	updated, err := uc.UpsertDraft(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "no se crea un borrador nuevo")
	assert.True(t, updated.Total.Equal(decimal.NewFromInt(850000)))
	assert.Len(t, repo.drafts, 1)
	assert.Equal(t, originalCreatedAt, repo.drafts[created.ID].CreatedAt,
		"la fecha de creación se conserva")
}

// Con ID inexistente: ErrNotFound, no se crea nada.
func TestUpsertDraft_IDInexistente_RetornaNotFound(t *testing.T) {
	repo := newFakeDraftRepo()
	uc := billing.NewDraftUseCase(repo)

	in := draftRequest()
	in.ID = ptr(99)
	_, err := uc.UpsertDraft(context.Background(), in)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, repo.drafts)
}

// La moneda es opcional en borradores, pero si viene debe ser válida.
func TestUpsertDraft_Moneda(t *testing.T) {
	repo := newFakeDraftRepo()
	uc := billing.NewDraftUseCase(repo)

	in := draftRequest()
	in.Currency = ""
	_, err := uc.UpsertDraft(context.Background(), in)
	assert.NoError(t, err, "borrador sin moneda es válido")

	in = draftRequest()
	in.Currency = "BTC"
	_, err = uc.UpsertDraft(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Un borrador puede guardarse sin líneas facturables (es un trabajo en curso).
func TestUpsertDraft_SinLineas_EsValido(t *testing.T) {
	repo := newFakeDraftRepo()
	uc := billing.NewDraftUseCase(repo)

	in := draftRequest()
	in.Lines = nil
	resp, err := uc.UpsertDraft(context.Background(), in)

	require.NoError(t, err)
	assert.True(t, resp.Total.IsZero())
}

func TestGetDraft_NoExiste_RetornaNotFound(t *testing.T) {
	uc := billing.NewDraftUseCase(newFakeDraftRepo())
	_, err := uc.GetDraft(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteDraft_Elimina(t *testing.T) {
	repo := newFakeDraftRepo()
	uc := billing.NewDraftUseCase(repo)

	created, err := uc.UpsertDraft(context.Background(), draftRequest())
	require.NoError(t, err)

	require.NoError(t, uc.DeleteDraft(context.Background(), created.ID))
	assert.Empty(t, repo.drafts)

	assert.ErrorIs(t, uc.DeleteDraft(context.Background(), created.ID), domain.ErrNotFound)
}
