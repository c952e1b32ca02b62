package repository

import (
	"context"
	"time"

	"github.com/jhoicas/expense-tracker-api/internal/domain/entity"
)

// ExpenseFilter filtros opcionales (conjuntivos) para listar gastos.
// Un campo vacío o nil no impone restricción.
type ExpenseFilter struct {
	CategoryID string
	StartDate  *time.Time // date >= StartDate
	EndDate    *time.Time // date <= EndDate
}

// Matches evalúa el filtro sobre un gasto en memoria (mismas reglas que el SQL).
func (f ExpenseFilter) Matches(e *entity.Expense) bool {
	if f.CategoryID != "" && e.CategoryID != f.CategoryID {
		return false
	}
	if f.StartDate != nil && e.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && e.Date.After(*f.EndDate) {
		return false
	}
	return true
}

// ExpenseRepository define el puerto de persistencia para Expense (DIP).
// List devuelve los gastos en el orden por defecto: date DESC, created_at DESC.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id string) (*entity.Expense, error)
	Update(ctx context.Context, expense *entity.Expense) error
	List(ctx context.Context, filter ExpenseFilter) ([]*entity.Expense, error)
	Delete(ctx context.Context, id string) error
}
