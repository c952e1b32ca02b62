package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/expense-tracker-api/internal/application/dto"
	"github.com/jhoicas/expense-tracker-api/internal/domain"
	"github.com/jhoicas/expense-tracker-api/internal/domain/entity"
	"github.com/jhoicas/expense-tracker-api/internal/domain/exchange"
	"github.com/jhoicas/expense-tracker-api/internal/domain/repository"
	"github.com/jhoicas/expense-tracker-api/internal/domain/stats"
)

// ExpenseUseCase casos de uso CRUD de gastos y estadísticas del dashboard.
type ExpenseUseCase struct {
	repo       repository.ExpenseRepository
	categories repository.CategoryRepository
	now        func() time.Time
}

// NewExpenseUseCase construye el caso de uso. now es el reloj usado por Stats (nil = time.Now).
func NewExpenseUseCase(
	repo repository.ExpenseRepository,
	categories repository.CategoryRepository,
	now func() time.Time,
) *ExpenseUseCase {
	if now == nil {
		now = time.Now
	}
	return &ExpenseUseCase{repo: repo, categories: categories, now: now}
}

// Create registra un gasto. Currency por defecto USD.
func (uc *ExpenseUseCase) Create(ctx context.Context, in dto.CreateExpenseRequest) (*dto.ExpenseResponse, error) {
	if in.Amount == nil {
		return nil, fmt.Errorf("%w: amount es requerido", domain.ErrInvalidInput)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title es requerido", domain.ErrInvalidInput)
	}
	if err := entity.ValidateAmount(*in.Amount); err != nil {
		return nil, err
	}
	currency, err := normalizeCurrency(in.Currency)
	if err != nil {
		return nil, err
	}
	date, err := entity.ParseDate(in.Date)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expense := &entity.Expense{
		ID:          uuid.New().String(),
		Title:       title,
		Amount:      in.Amount.Round(2),
		Currency:    currency,
		Description: in.Description,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Category != nil && *in.Category != "" {
		if err := uc.attachCategory(ctx, expense, *in.Category); err != nil {
			return nil, err
		}
	}
	if err := uc.repo.Create(ctx, expense); err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// GetByID obtiene un gasto con los datos de su categoría.
func (uc *ExpenseUseCase) GetByID(ctx context.Context, id string) (*dto.ExpenseResponse, error) {
	expense, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, domain.ErrNotFound
	}
	return toExpenseResponse(expense), nil
}

// List lista los gastos que cumplen filter en el orden por defecto.
func (uc *ExpenseUseCase) List(ctx context.Context, filter repository.ExpenseFilter) ([]dto.ExpenseResponse, error) {
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toExpenseResponses(list), nil
}

// Update aplica los campos presentes de in. Category null quita la categoría.
func (uc *ExpenseUseCase) Update(ctx context.Context, id string, in dto.UpdateExpenseRequest) (*dto.ExpenseResponse, error) {
	expense, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense == nil {
		return nil, domain.ErrNotFound
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title no puede estar vacío", domain.ErrInvalidInput)
		}
		expense.Title = title
	}
	if in.Amount != nil {
		if err := entity.ValidateAmount(*in.Amount); err != nil {
			return nil, err
		}
		expense.Amount = in.Amount.Round(2)
	}
	if in.Currency != nil {
		currency, err := normalizeCurrency(*in.Currency)
		if err != nil {
			return nil, err
		}
		expense.Currency = currency
	}
	if in.Description != nil {
		expense.Description = *in.Description
	}
	if in.Date != nil {
		date, err := entity.ParseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		expense.Date = date
	}
	if len(in.Category) > 0 {
		categoryID, err := parseCategoryRef(in.Category)
		if err != nil {
			return nil, err
		}
		if categoryID == "" {
			expense.CategoryID, expense.CategoryName, expense.CategoryColor = "", "", ""
		} else if err := uc.attachCategory(ctx, expense, categoryID); err != nil {
			return nil, err
		}
	}
	expense.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, expense); err != nil {
		return nil, err
	}
	return toExpenseResponse(expense), nil
}

// Delete elimina un gasto por ID.
func (uc *ExpenseUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// Stats calcula el resumen del dashboard sobre los gastos que cumplen filter.
func (uc *ExpenseUseCase) Stats(ctx context.Context, filter repository.ExpenseFilter) (*dto.ExpenseStatsResponse, error) {
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("stats: listar gastos: %w", err)
	}
	summary := stats.Aggregate(list, uc.now())

	breakdown := make([]dto.CategoryBreakdownDTO, 0, len(summary.CategoryBreakdown))
	for _, c := range summary.CategoryBreakdown {
		breakdown = append(breakdown, dto.CategoryBreakdownDTO{
			ID:    optional(c.ID),
			Name:  c.Name,
			Color: c.Color,
			Total: c.Total.InexactFloat64(),
			Count: c.Count,
		})
	}
	monthly := make([]dto.MonthlyTotalDTO, 0, len(summary.MonthlyTotals))
	for _, m := range summary.MonthlyTotals {
		monthly = append(monthly, dto.MonthlyTotalDTO{
			Month: m.Month,
			Total: m.Total.InexactFloat64(),
			Count: m.Count,
		})
	}
	return &dto.ExpenseStatsResponse{
		TotalExpenses:     summary.Total.InexactFloat64(),
		ExpenseCount:      summary.Count,
		CategoryBreakdown: breakdown,
		MonthlyTotals:     monthly,
		RecentExpenses:    toExpenseResponses(summary.Recent),
	}, nil
}

// attachCategory verifica que la categoría exista y copia sus datos de presentación.
func (uc *ExpenseUseCase) attachCategory(ctx context.Context, e *entity.Expense, categoryID string) error {
	if _, err := uuid.Parse(categoryID); err != nil {
		return fmt.Errorf("%w: category debe ser un UUID", domain.ErrInvalidInput)
	}
	category, err := uc.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return fmt.Errorf("%w: la categoría no existe", domain.ErrInvalidInput)
	}
	e.CategoryID = category.ID
	e.CategoryName = category.Name
	e.CategoryColor = category.Color
	return nil
}

// parseCategoryRef interpreta el campo category crudo: null → "", "<uuid>" → id.
func parseCategoryRef(raw json.RawMessage) (string, error) {
	if strings.TrimSpace(string(raw)) == "null" {
		return "", nil
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", fmt.Errorf("%w: category debe ser un UUID o null", domain.ErrInvalidInput)
	}
	return strings.TrimSpace(id), nil
}

func normalizeCurrency(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return entity.DefaultCurrency, nil
	}
	normalized, ok := exchange.NormalizeCode(code)
	if !ok {
		return "", fmt.Errorf("%w: currency %q no es un código ISO 4217", domain.ErrInvalidInput, code)
	}
	return normalized, nil
}

func toExpenseResponses(list []*entity.Expense) []dto.ExpenseResponse {
	items := make([]dto.ExpenseResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toExpenseResponse(e))
	}
	return items
}

func toExpenseResponse(e *entity.Expense) *dto.ExpenseResponse {
	if e == nil {
		return nil
	}
	out := &dto.ExpenseResponse{
		ID:          e.ID,
		Title:       e.Title,
		Amount:      e.Amount.StringFixed(2),
		Currency:    e.Currency,
		Description: e.Description,
		Date:        e.Date.Format(entity.DateLayout),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.HasCategory() {
		out.Category = optional(e.CategoryID)
		out.CategoryName = optional(e.CategoryName)
		out.CategoryColor = optional(e.CategoryColor)
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
