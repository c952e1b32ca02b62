package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/expense-tracker-api/internal/application/dto"
	"github.com/jhoicas/expense-tracker-api/internal/application/usecase"
)

// ExpenseHandler maneja las peticiones HTTP para Expense y sus estadísticas.
type ExpenseHandler struct {
	uc *usecase.ExpenseUseCase
}

// NewExpenseHandler construye el handler.
func NewExpenseHandler(uc *usecase.ExpenseUseCase) *ExpenseHandler {
	return &ExpenseHandler{uc: uc}
}

// List godoc
// @Summary      Listar gastos
// @Description  Ordenados por fecha desc y luego por creación desc.
// @Tags         expenses
// @Security     Bearer
// @Produce      json
// @Param        category    query  string  false  "ID de categoría"
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD, inclusive)"
// @Param        end_date    query  string  false  "Hasta (YYYY-MM-DD, inclusive)"
// @Success      200  {array}   dto.ExpenseResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/expenses [get]
func (h *ExpenseHandler) List(c *fiber.Ctx) error {
	filter, err := parseExpenseFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de gastos
// @Description  Total, desglose por categoría, totales mensuales (últimos 180 días) y 5 gastos recientes.
// @Tags         expenses
// @Security     Bearer
// @Produce      json
// @Param        category    query  string  false  "ID de categoría"
// @Param        start_date  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.ExpenseStatsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/expenses/stats [get]
func (h *ExpenseHandler) Stats(c *fiber.Ctx) error {
	filter, err := parseExpenseFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Stats(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar gasto
// @Tags         expenses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExpenseRequest  true  "Datos del gasto"
// @Success      201   {object}  dto.ExpenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/expenses [post]
func (h *ExpenseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateExpenseRequest
	if done, err := parseBody(c, &in); done {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener gasto por ID
// @Tags         expenses
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del gasto"
// @Success      200  {object}  dto.ExpenseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expenses/{id} [get]
func (h *ExpenseHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validID(id) {
		return notFound(c, "gasto no encontrado")
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Replace godoc
// @Summary      Reemplazar gasto
// @Tags         expenses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del gasto"
// @Param        body  body  dto.UpdateExpenseRequest  true  "title, amount y date son obligatorios"
// @Success      200   {object}  dto.ExpenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/expenses/{id} [put]
func (h *ExpenseHandler) Replace(c *fiber.Ctx) error {
	return h.update(c, true)
}

// Patch godoc
// @Summary      Actualizar gasto parcialmente
// @Description  "category": null deja el gasto sin categoría.
// @Tags         expenses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del gasto"
// @Param        body  body  dto.UpdateExpenseRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.ExpenseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/expenses/{id} [patch]
func (h *ExpenseHandler) Patch(c *fiber.Ctx) error {
	return h.update(c, false)
}

func (h *ExpenseHandler) update(c *fiber.Ctx, full bool) error {
	id := c.Params("id")
	if !validID(id) {
		return notFound(c, "gasto no encontrado")
	}
	var in dto.UpdateExpenseRequest
	if done, err := parseBody(c, &in); done {
		return err
	}
	if full {
		switch {
		case in.Title == nil:
			return validationError(c, "title es requerido")
		case in.Amount == nil:
			return validationError(c, "amount es requerido")
		case in.Date == nil:
			return validationError(c, "date es requerido")
		}
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar gasto
// @Tags         expenses
// @Security     Bearer
// @Param        id   path  string  true  "ID del gasto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validID(id) {
		return notFound(c, "gasto no encontrado")
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
