package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/observability"
)

// InvoiceHandler maneja las peticiones HTTP de facturación.
type InvoiceHandler struct {
	uc      *billing.CreateInvoiceUseCase
	metrics *observability.Metrics
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.CreateInvoiceUseCase, metrics *observability.Metrics) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, metrics: metrics}
}

// Create godoc
// @Summary      Crear factura
// @Description  Reserva el stock de las líneas y persiste la factura en una sola transacción.
//
//	Si la reserva es rechazada responde 409 con el detalle para que el
//	front ofrezca guardar como borrador.
//
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "client, supplier, date, currency, lines"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.StockFailureResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, rejection, err := h.uc.CreateInvoice(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		h.metrics.ObserveReservation(observability.OutcomeError)
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "no se pudo verificar el inventario"})
	}
	if rejection != nil {
		h.metrics.ObserveReservation(string(rejection.Kind))
		return c.Status(fiber.StatusConflict).JSON(stockFailureBody(rejection))
	}
	h.metrics.ObserveReservation(observability.OutcomeSuccess)
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// List godoc
// @Summary      Listar facturas
// @Tags         invoices
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	invoices, err := h.uc.ListInvoices(c.Context(), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(invoices)
}

// GetByID godoc
// @Summary      Obtener factura
// @Tags         invoices
// @Produce      json
// @Param        id  path  int  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	invoice, err := h.uc.GetInvoice(c.Context(), int64(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(invoice)
}

// Delete godoc
// @Summary      Eliminar factura
// @Description  No restaura el stock descontado; la reposición es una operación aparte.
// @Tags         invoices
// @Param        id  path  int  true  "ID de la factura"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	if err := h.uc.DeleteInvoice(c.Context(), int64(id)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
