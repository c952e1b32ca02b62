package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/expense-tracker-api/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultCurrency moneda asignada cuando el gasto no indica una.
const DefaultCurrency = "USD"

// DateLayout formato de fecha de calendario usado en la API y en los filtros.
const DateLayout = "2006-01-02"

var (
	minAmount = decimal.RequireFromString("0.01")
	// NUMERIC(12,2): como máximo 10 dígitos enteros.
	maxAmount = decimal.RequireFromString("9999999999.99")
)

const maxAmountExponent = 18

// Expense representa un gasto registrado.
// CategoryID vacío significa "sin categoría"; CategoryName y CategoryColor los rellena
// el repositorio con un LEFT JOIN y solo son de lectura.
type Expense struct {
	ID            string
	Title         string
	Amount        decimal.Decimal
	Currency      string
	CategoryID    string
	CategoryName  string
	CategoryColor string
	Description   string
	Date          time.Time // fecha de calendario (00:00 UTC)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasCategory indica si el gasto está asociado a una categoría.
func (e *Expense) HasCategory() bool {
	return e.CategoryID != ""
}

// ValidateAmount exige un monto estrictamente positivo (mínimo 0.01) con a lo sumo 2 decimales.
func ValidateAmount(amount decimal.Decimal) error {
	// Exponentes extremos se rechazan antes de comparar para no reescalar a enteros enormes.
	if exp := amount.Exponent(); exp < -maxAmountExponent || exp > maxAmountExponent {
		return fmt.Errorf("%w: amount fuera de rango", domain.ErrInvalidInput)
	}
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: amount debe ser mayor o igual a 0.01", domain.ErrInvalidInput)
	}
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: amount excede 12 dígitos", domain.ErrInvalidInput)
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: amount admite como máximo 2 decimales", domain.ErrInvalidInput)
	}
	return nil
}

// DateOnly trunca t a su fecha de calendario en UTC, conservando año, mes y día de t.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate interpreta una fecha YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q no tiene formato YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}
