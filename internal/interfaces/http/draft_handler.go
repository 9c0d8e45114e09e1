package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/domain"
)

// DraftHandler maneja las peticiones HTTP de borradores de factura.
type DraftHandler struct {
	uc *billing.DraftUseCase
}

// NewDraftHandler construye el handler.
func NewDraftHandler(uc *billing.DraftUseCase) *DraftHandler {
	return &DraftHandler{uc: uc}
}

// Upsert godoc
// @Summary      Crear o actualizar borrador
// @Description  Con id actualiza el borrador existente; sin id crea uno nuevo.
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertDraftRequest  true  "borrador"
// @Success      200   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/drafts [post]
func (h *DraftHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	draft, err := h.uc.UpsertDraft(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "borrador no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	status := fiber.StatusOK
	if in.ID == nil {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(draft)
}

// UpdateByID godoc
// @Summary      Actualizar borrador por ID
// @Description  Variante REST de Upsert: el ID va en la ruta y manda sobre el del cuerpo.
// @Tags         drafts
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "ID del borrador"
// @Param        body  body  dto.UpsertDraftRequest  true  "borrador"
// @Success      200   {object}  dto.DraftResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/drafts/{id} [put]
func (h *DraftHandler) UpdateByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.UpsertDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	draftID := int64(id)
	in.ID = &draftID
	draft, err := h.uc.UpsertDraft(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "borrador no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(draft)
}

// List godoc
// @Summary      Listar borradores
// @Tags         drafts
// @Produce      json
// @Param        limit   query  int  false  "máximo de filas (default 20)"
// @Param        offset  query  int  false  "desplazamiento"
// @Success      200  {array}  dto.DraftResponse
// @Router       /api/drafts [get]
func (h *DraftHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	drafts, err := h.uc.ListDrafts(c.Context(), page)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(drafts)
}

// GetByID godoc
// @Summary      Obtener borrador
// @Tags         drafts
// @Produce      json
// @Param        id  path  int  true  "ID del borrador"
// @Success      200  {object}  dto.DraftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id} [get]
func (h *DraftHandler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	draft, err := h.uc.GetDraft(c.Context(), int64(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "borrador no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(draft)
}

// Delete godoc
// @Summary      Eliminar borrador
// @Tags         drafts
// @Param        id  path  int  true  "ID del borrador"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id} [delete]
func (h *DraftHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	if err := h.uc.DeleteDraft(c.Context(), int64(id)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "borrador no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
