package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateExpenseRequest entrada para crear un gasto. Date en formato YYYY-MM-DD.
type CreateExpenseRequest struct {
	Title       string           `json:"title" validate:"required,min=1,max=200"`
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Currency    string           `json:"currency" validate:"omitempty,len=3"`
	Category    *string          `json:"category" validate:"omitempty,uuid"`
	Description string           `json:"description"`
	Date        string           `json:"date" validate:"required,datetime=2006-01-02"`
}

// UpdateExpenseRequest entrada para actualizar un gasto.
// Category es json.RawMessage para distinguir "ausente" (no tocar) de null (quitar categoría).
type UpdateExpenseRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Amount      *decimal.Decimal `json:"amount"`
	Currency    *string          `json:"currency" validate:"omitempty,len=3"`
	Category    json.RawMessage  `json:"category" swaggertype:"string"`
	Description *string          `json:"description"`
	Date        *string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// ExpenseResponse salida de un gasto. Amount se serializa con 2 decimales fijos.
type ExpenseResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Amount        string    `json:"amount"`
	Currency      string    `json:"currency"`
	Category      *string   `json:"category"`
	CategoryName  *string   `json:"category_name"`
	CategoryColor *string   `json:"category_color"`
	Description   string    `json:"description"`
	Date          string    `json:"date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CategoryBreakdownDTO total por categoría; ID nil para "Uncategorized".
type CategoryBreakdownDTO struct {
	ID    *string `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// MonthlyTotalDTO total de un mes (Month = "YYYY-MM").
type MonthlyTotalDTO struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// ExpenseStatsResponse resumen para el dashboard. Los montos se exponen como float64.
type ExpenseStatsResponse struct {
	TotalExpenses     float64                `json:"total_expenses"`
	ExpenseCount      int                    `json:"expense_count"`
	CategoryBreakdown []CategoryBreakdownDTO `json:"category_breakdown"`
	MonthlyTotals     []MonthlyTotalDTO      `json:"monthly_totals"`
	RecentExpenses    []ExpenseResponse      `json:"recent_expenses"`
}
