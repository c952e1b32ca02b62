package http

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jhoicas/expense-tracker-api/internal/domain"
	"github.com/jhoicas/expense-tracker-api/internal/domain/entity"
	"github.com/jhoicas/expense-tracker-api/internal/domain/repository"
)

// validate es seguro para uso concurrente; cachea los structs ya inspeccionados.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Los errores reportan el nombre JSON del campo.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseBody decodifica el cuerpo JSON en out y aplica las etiquetas validate.
// Devuelve (true, nil) si ya respondió con un error al cliente.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return true, invalidBody(c)
	}
	if err := validate.Struct(out); err != nil {
		return true, respondError(c, err)
	}
	return false, nil
}

// validID indica si el parámetro de ruta es un UUID; los demás valores son 404.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// parseExpenseFilter lee category, start_date y end_date del query string.
func parseExpenseFilter(c *fiber.Ctx) (repository.ExpenseFilter, error) {
	var filter repository.ExpenseFilter
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		if !validID(category) {
			return filter, fmt.Errorf("%w: category debe ser un UUID", domain.ErrInvalidInput)
		}
		filter.CategoryID = category
	}
	if s := strings.TrimSpace(c.Query("start_date")); s != "" {
		d, err := entity.ParseDate(s)
		if err != nil {
			return filter, err
		}
		filter.StartDate = &d
	}
	if s := strings.TrimSpace(c.Query("end_date")); s != "" {
		d, err := entity.ParseDate(s)
		if err != nil {
			return filter, err
		}
		filter.EndDate = &d
	}
	return filter, nil
}
