package entity

import "time"

// Valores por defecto de una categoría nueva.
const (
	DefaultCategoryColor = "#3B82F6"
	DefaultCategoryIcon  = "receipt"
)

// Category representa una categoría de gastos. Name es único en todo el almacén.
type Category struct {
	ID           string
	Name         string
	Color        string // hex, ej. "#EF4444"
	Icon         string
	ExpenseCount int // calculado por el repositorio, no se persiste
	CreatedAt    time.Time
}
