package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Color string `json:"color" validate:"omitempty,hexcolor,max=7"`
	Icon  string `json:"icon" validate:"omitempty,max=50"`
}

// UpdateCategoryRequest entrada para actualizar una categoría (campos nil no se modifican).
type UpdateCategoryRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Color *string `json:"color" validate:"omitempty,hexcolor,max=7"`
	Icon  *string `json:"icon" validate:"omitempty,max=50"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Color        string    `json:"color"`
	Icon         string    `json:"icon"`
	ExpenseCount int       `json:"expense_count"`
	CreatedAt    time.Time `json:"created_at"`
}
