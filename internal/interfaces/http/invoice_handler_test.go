package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/stock"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
	apphttp "github.com/jhoicas/Facturacion-api/internal/interfaces/http"
	"github.com/jhoicas/Facturacion-api/internal/observability"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria y helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// memStore respaldo en memoria de todos los repos que usa la API.
type memStore struct {
	products  map[int64]*entity.Product
	movements []*entity.StockMovement
	invoices  map[int64]*entity.Invoice
	drafts    map[int64]*entity.Draft
	nextID    int64
}

func newMemStore(products ...*entity.Product) *memStore {
	s := &memStore{
		products: make(map[int64]*entity.Product),
		invoices: make(map[int64]*entity.Invoice),
		drafts:   make(map[int64]*entity.Draft),
		nextID:   1,
	}
	for _, p := range products {
		cp := *p
		s.products[p.ID] = &cp
	}
	return s
}

type memProducts struct{ s *memStore }

func (r *memProducts) Create(p *entity.Product) error {
	p.ID = r.s.nextID
	r.s.nextID++
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProducts) GetByID(id int64) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProducts) GetByIDForUpdate(id int64) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *memProducts) List(int, int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memProducts) Update(p *entity.Product) error {
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProducts) DecrementQuantity(id, qty int64) (bool, error) {
	p, ok := r.s.products[id]
	if !ok || p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	return true, nil
}

func (r *memProducts) IncrementQuantity(id, qty int64) error {
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity += qty
	return nil
}

func (r *memProducts) Delete(id int64) error {
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

type memMovements struct{ s *memStore }

func (r *memMovements) Create(m *entity.StockMovement) error {
	cp := *m
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *memMovements) ListByProduct(productID int64, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ProductID == productID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memInvoices struct{ s *memStore }

func (r *memInvoices) Create(inv *entity.Invoice) error {
	inv.ID = r.s.nextID
	r.s.nextID++
	cp := *inv
	r.s.invoices[inv.ID] = &cp
	return nil
}

func (r *memInvoices) GetByID(id int64) (*entity.Invoice, error) {
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *memInvoices) List(int, int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.s.invoices {
		cp := *inv
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memInvoices) Delete(id int64) error {
	if _, ok := r.s.invoices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.invoices, id)
	return nil
}

type memDrafts struct{ s *memStore }

func (r *memDrafts) Create(d *entity.Draft) error {
	d.ID = r.s.nextID
	r.s.nextID++
	cp := *d
	r.s.drafts[d.ID] = &cp
	return nil
}

func (r *memDrafts) Update(d *entity.Draft) error {
	if _, ok := r.s.drafts[d.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *d
	r.s.drafts[d.ID] = &cp
	return nil
}

func (r *memDrafts) GetByID(id int64) (*entity.Draft, error) {
	d, ok := r.s.drafts[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *memDrafts) List(int, int) ([]*entity.Draft, error) {
	var out []*entity.Draft
	for _, d := range r.s.drafts {
		cp := *d
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memDrafts) Delete(id int64) error {
	if _, ok := r.s.drafts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.drafts, id)
	return nil
}

// memTxRunner implementa los dos runners con rollback por snapshot de productos
// y movimientos (suficiente para los caminos que ejercita la API).
type memTxRunner struct{ s *memStore }

func (t *memTxRunner) snapshot() (map[int64]entity.Product, int, map[int64]*entity.Invoice) {
	snap := make(map[int64]entity.Product, len(t.s.products))
	for id, p := range t.s.products {
		snap[id] = *p
	}
	invoices := make(map[int64]*entity.Invoice, len(t.s.invoices))
	for id, inv := range t.s.invoices {
		invoices[id] = inv
	}
	return snap, len(t.s.movements), invoices
}

func (t *memTxRunner) restore(snap map[int64]entity.Product, movementsLen int, invoices map[int64]*entity.Invoice) {
	t.s.products = make(map[int64]*entity.Product, len(snap))
	for id, p := range snap {
		cp := p
		t.s.products[id] = &cp
	}
	t.s.movements = t.s.movements[:movementsLen]
	t.s.invoices = invoices
}

func (t *memTxRunner) Run(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
) error) error {
	snap, mLen, invs := t.snapshot()
	if err := fn(&memProducts{s: t.s}, &memMovements{s: t.s}); err != nil {
		t.restore(snap, mLen, invs)
		return err
	}
	return nil
}

func (t *memTxRunner) RunBilling(_ context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	snap, mLen, invs := t.snapshot()
	if err := fn(&memProducts{s: t.s}, &memMovements{s: t.s}, &memInvoices{s: t.s}); err != nil {
		t.restore(snap, mLen, invs)
		return err
	}
	return nil
}

// buildTestApp levanta la API completa sobre los fakes en memoria.
func buildTestApp(store *memStore) (*fiber.App, *observability.Metrics) {
	runner := &memTxRunner{s: store}
	reservationSvc := stock.NewReservationService(runner)
	metrics := observability.NewMetrics("test")

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:     usecase.NewProductUseCase(&memProducts{s: store}, &memMovements{s: store}, runner),
		CreateInvoice: billing.NewCreateInvoiceUseCase(runner, reservationSvc, &memInvoices{s: store}),
		DraftUC:       billing.NewDraftUseCase(&memDrafts{s: store}),
		Reservation:   reservationSvc,
		Metrics:       metrics,
	})
	return app, metrics
}

func ptr(v int64) *int64 { return &v }

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func invoiceBody() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		Client:   dto.PartyDTO{Name: "Mamadou Diallo"},
		Supplier: dto.PartyDTO{Name: "Quincaillerie Centrale"},
		Date:     "2026-03-14 10:30:00",
		Currency: entity.CurrencyGNF,
		Lines: []dto.InvoiceLineDTO{
			{Description: "Ciment 50kg", Quantity: 3, UnitPrice: decimal.NewFromInt(85000), ProductID: ptr(1)},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests POST /api/invoices
// ──────────────────────────────────────────────────────────────────────────────

func TestCrearFactura_Retorna201YDescuentaStock(t *testing.T) {
	store := newMemStore(&entity.Product{ID: 1, Name: "Ciment 50kg", Quantity: 5})
	app, metrics := buildTestApp(store)

	resp := doJSON(t, app, http.MethodPost, "/api/invoices", invoiceBody())
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var out dto.InvoiceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotZero(t, out.ID)
	assert.True(t, out.Total.Equal(decimal.NewFromInt(255000)))

	assert.EqualValues(t, 2, store.products[1].Quantity)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.ReservationsTotal.WithLabelValues(observability.OutcomeSuccess)),
		"el contador de reservas registra el éxito")
}

func TestCrearFactura_StockInsuficiente_Retorna409ConSugerencia(t *testing.T) {
	store := newMemStore(&entity.Product{ID: 1, Name: "Ciment 50kg", Quantity: 2})
	app, metrics := buildTestApp(store)

	resp := doJSON(t, app, http.MethodPost, "/api/invoices", invoiceBody())
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var out dto.StockFailureResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "INSUFFICIENT_STOCK", out.Code)
	assert.Equal(t, stock.FailureInsufficient, out.Kind)
	assert.True(t, out.SuggestDraft, "el front debe ofrecer guardar como borrador")
	require.Len(t, out.Details, 1)
	assert.EqualValues(t, 2, out.Details[0].Available)

	assert.EqualValues(t, 2, store.products[1].Quantity, "el stock no cambia")
	assert.Empty(t, store.invoices)
	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.ReservationsTotal.WithLabelValues(observability.OutcomeInsufficient)))
}

func TestCrearFactura_ProductoInexistente_Retorna409NotFound(t *testing.T) {
	store := newMemStore()
	app, _ := buildTestApp(store)

	resp := doJSON(t, app, http.MethodPost, "/api/invoices", invoiceBody())
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "PRODUCT_NOT_FOUND")
	assert.Contains(t, string(raw), "suggest_draft")
}

func TestCrearFactura_MonedaInvalida_Retorna400(t *testing.T) {
	store := newMemStore(&entity.Product{ID: 1, Name: "Ciment 50kg", Quantity: 5})
	app, _ := buildTestApp(store)

	in := invoiceBody()
	in.Currency = "BTC"
	resp := doJSON(t, app, http.MethodPost, "/api/invoices", in)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "VALIDATION")
}

func TestCrearFactura_CuerpoMalformado_Retorna400(t *testing.T) {
	store := newMemStore()
	app, _ := buildTestApp(store)

	req := httptest.NewRequest(http.MethodPost, "/api/invoices", bytes.NewReader([]byte("{no json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), "INVALID_BODY")
}

func TestObtenerFactura_NoExiste_Retorna404(t *testing.T) {
	store := newMemStore()
	app, _ := buildTestApp(store)

	resp := doJSON(t, app, http.MethodGet, "/api/invoices/42", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests POST /api/stock/reserve
// ──────────────────────────────────────────────────────────────────────────────

func TestReservarStock_Exito_Retorna200(t *testing.T) {
	store := newMemStore(&entity.Product{ID: 1, Name: "Ciment 50kg", Quantity: 5})
	app, _ := buildTestApp(store)

	resp := doJSON(t, app, http.MethodPost, "/api/stock/reserve", dto.ReserveStockRequest{
		Date: "2026-03-14",
		Lines: []dto.InvoiceLineDTO{
			{Description: "Ciment 50kg", Quantity: 3, ProductID: ptr(1)},
		},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 2, store.products[1].Quantity)
	require.Len(t, store.movements, 1)
	assert.Equal(t, entity.MovementTypeDestock, store.movements[0].Type)
}

func TestReservarStock_Insuficiente_Retorna409(t *testing.T) {
	store := newMemStore(&entity.Product{ID: 1, Name: "Ciment 50kg", Quantity: 1})
	app, _ := buildTestApp(store)

	resp := doJSON(t, app, http.MethodPost, "/api/stock/reserve", dto.ReserveStockRequest{
		Date: "2026-03-14",
		Lines: []dto.InvoiceLineDTO{
			{Description: "Ciment 50kg", Quantity: 3, ProductID: ptr(1)},
		},
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.EqualValues(t, 1, store.products[1].Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de borradores vía API (el fallback del 409)
// ──────────────────────────────────────────────────────────────────────────────

// El flujo completo del fallback: la factura es rechazada y el mismo cuerpo se
// guarda como borrador sin tocar el inventario.
func TestFallbackBorrador_TrasRechazoDeStock(t *testing.T) {
	store := newMemStore(&entity.Product{ID: 1, Name: "Ciment 50kg", Quantity: 2})
	app, _ := buildTestApp(store)

	resp := doJSON(t, app, http.MethodPost, "/api/invoices", invoiceBody())
	resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	in := invoiceBody()
	resp = doJSON(t, app, http.MethodPost, "/api/drafts", dto.UpsertDraftRequest{
		Client:   in.Client,
		Supplier: in.Supplier,
		Date:     in.Date,
		Currency: in.Currency,
		Lines:    in.Lines,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, store.drafts, 1)
	assert.EqualValues(t, 2, store.products[1].Quantity, "el borrador no descuenta stock")
	assert.Empty(t, store.movements)
}

func TestActualizarBorrador_Retorna200(t *testing.T) {
	store := newMemStore()
	app, _ := buildTestApp(store)

	resp := doJSON(t, app, http.MethodPost, "/api/drafts", dto.UpsertDraftRequest{
		Client: dto.PartyDTO{Name: "Mamadou Diallo"},
		Date:   "2026-03-14",
	})
	var created dto.DraftResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/drafts", dto.UpsertDraftRequest{
		ID:     &created.ID,
		Client: dto.PartyDTO{Name: "Mamadou Diallo"},
		Date:   "2026-03-15",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "actualizar un borrador existente responde 200")
	assert.Len(t, store.drafts, 1)
}
