package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/stock"
	"github.com/jhoicas/Facturacion-api/internal/observability"
)

// StockHandler expone el motor de reservas de forma directa, sin crear factura.
type StockHandler struct {
	svc     *stock.ReservationService
	metrics *observability.Metrics
}

// NewStockHandler construye el handler.
func NewStockHandler(svc *stock.ReservationService, metrics *observability.Metrics) *StockHandler {
	return &StockHandler{svc: svc, metrics: metrics}
}

// Reserve godoc
// @Summary      Reservar stock
// @Description  Verifica y descuenta el inventario de las líneas como unidad atómica.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReserveStockRequest  true  "date, lines"
// @Success      200   {object}  stock.CheckResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.StockFailureResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/stock/reserve [post]
func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	var in dto.ReserveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	occurredAt, err := billing.ParseDocumentDate(in.Date)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	lines := make([]stock.LineItem, 0, len(in.Lines))
	for _, l := range in.Lines {
		lines = append(lines, stock.LineItem{
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			Description: l.Description,
		})
	}

	result, err := h.svc.Reserve(c.Context(), lines, occurredAt)
	if err != nil {
		h.metrics.ObserveReservation(observability.OutcomeError)
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "no se pudo verificar el inventario"})
	}
	if !result.OK {
		h.metrics.ObserveReservation(string(result.Kind))
		return c.Status(fiber.StatusConflict).JSON(stockFailureBody(result))
	}
	h.metrics.ObserveReservation(observability.OutcomeSuccess)
	return c.JSON(result)
}

// stockFailureBody arma el cuerpo 409 de un rechazo de reserva.
func stockFailureBody(result *stock.CheckResult) dto.StockFailureResponse {
	code := "INSUFFICIENT_STOCK"
	if result.Kind == stock.FailureMissing {
		code = "PRODUCT_NOT_FOUND"
	}
	return dto.StockFailureResponse{
		Code:         code,
		Kind:         result.Kind,
		Message:      result.Message,
		Details:      result.Details,
		SuggestDraft: true,
	}
}
