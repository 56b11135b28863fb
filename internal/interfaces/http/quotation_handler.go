package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cotizador/internal/application/dto"
	"github.com/jhoicas/cotizador/internal/application/usecase"
)

// QuotationHandler maneja las peticiones HTTP de cotizaciones.
type QuotationHandler struct {
	uc *usecase.QuotationUseCase
}

// NewQuotationHandler construye el handler.
func NewQuotationHandler(uc *usecase.QuotationUseCase) *QuotationHandler {
	return &QuotationHandler{uc: uc}
}

// List godoc
// @Summary      Listar cotizaciones (paginado, más recientes primero)
// @Tags         quotations
// @Produce      json
// @Param        page    query  int     false  "página (desde 1)"
// @Param        limit   query  int     false  "tamaño de página (máx. 100)"
// @Param        search  query  string  false  "cliente, NIT o código CO00007"
// @Success      200  {object}  dto.QuotationListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/quotations [get]
func (h *QuotationHandler) List(c *fiber.Ctx) error {
	var in dto.PageRequest
	if ok, err := bindQuery(c, &in); !ok {
		return err
	}
	page, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

// Stats GET /api/quotations/stats
func (h *QuotationHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}

// GetByID GET /api/quotations/:id
func (h *QuotationHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	q, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(q)
}

// Create godoc
// @Summary      Crear cotización
// @Description  El servidor recalcula líneas y totales; si no coinciden con los enviados responde TOTALS_MISMATCH.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.QuotationRequest  true  "cliente, líneas, totales y términos"
// @Success      201   {object}  dto.QuotationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/quotations [post]
func (h *QuotationHandler) Create(c *fiber.Ctx) error {
	var in dto.QuotationRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	q, err := h.uc.Create(c.UserContext(), GetUID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(q)
}

// Update godoc
// @Summary      Reemplazar cotización (cabecera y líneas)
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id    path  int                   true  "id"
// @Param        body  body  dto.QuotationRequest  true  "cotización completa"
// @Success      200   {object}  dto.QuotationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/quotations/{id} [put]
func (h *QuotationHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	var in dto.QuotationRequest
	if ok, err := bindBody(c, &in); !ok {
		return err
	}
	q, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(q)
}

// Delete DELETE /api/quotations/:id
func (h *QuotationHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
