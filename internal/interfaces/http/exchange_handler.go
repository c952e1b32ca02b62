package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/expense-tracker-api/internal/application/dto"
	"github.com/jhoicas/expense-tracker-api/internal/application/exchange"
)

// ExchangeHandler expone tipos de cambio y conversión de montos.
type ExchangeHandler struct {
	gateway *exchange.Gateway
}

// NewExchangeHandler construye el handler.
func NewExchangeHandler(gateway *exchange.Gateway) *ExchangeHandler {
	return &ExchangeHandler{gateway: gateway}
}

// Rates godoc
// @Summary      Tipos de cambio
// @Description  Consulta los proveedores en orden; si todos fallan responde con la tabla de respaldo (base USD).
// @Tags         exchange
// @Security     Bearer
// @Produce      json
// @Param        base  query  string  false  "Moneda base ISO 4217"  default(USD)
// @Success      200   {object}  dto.ExchangeRatesResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/exchange-rates [get]
func (h *ExchangeHandler) Rates(c *fiber.Ctx) error {
	return c.JSON(h.gateway.GetRates(c.Context(), c.Query("base")))
}

// Convert godoc
// @Summary      Convertir monto
// @Tags         exchange
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConvertCurrencyRequest  true  "Monto y monedas (por defecto USD → EUR)"
// @Success      200   {object}  dto.ConvertCurrencyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/convert-currency [post]
func (h *ExchangeHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertCurrencyRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.gateway.Convert(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
