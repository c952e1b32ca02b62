package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/expense-tracker-api/internal/domain"
	"github.com/jhoicas/expense-tracker-api/internal/domain/entity"
	"github.com/jhoicas/expense-tracker-api/internal/domain/repository"
)

var _ repository.ExpenseRepository = (*ExpenseRepo)(nil)

const selectExpense = `
	SELECT e.id::TEXT, e.title, e.amount, e.currency,
	       e.category_id::TEXT, c.name, c.color,
	       e.description, e.date, e.created_at, e.updated_at
	FROM expenses e
	LEFT JOIN categories c ON c.id = e.category_id`

// Orden por defecto de los listados.
const orderExpenses = ` ORDER BY e.date DESC, e.created_at DESC`

// ExpenseRepo implementación del puerto ExpenseRepository sobre PostgreSQL (usable con pool o tx).
type ExpenseRepo struct {
	q Querier
}

// NewExpenseRepository construye el adaptador de persistencia para gastos. Pasar pool o tx (Querier).
func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

// Create persiste un gasto nuevo.
func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO expenses (id, title, amount, currency, category_id, description, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.Title, e.Amount, e.Currency, nullable(e.CategoryID), e.Description, e.Date, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la categoría no existe", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// GetByID obtiene un gasto por ID junto con nombre y color de su categoría.
func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	e, err := scanExpense(r.q.QueryRow(ctx, selectExpense+` WHERE e.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// Update actualiza todos los campos editables del gasto.
func (r *ExpenseRepo) Update(ctx context.Context, e *entity.Expense) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE expenses
		SET title = $2, amount = $3, currency = $4, category_id = $5, description = $6, date = $7, updated_at = $8
		WHERE id = $1`,
		e.ID, e.Title, e.Amount, e.Currency, nullable(e.CategoryID), e.Description, e.Date, e.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: la categoría no existe", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update expense: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista los gastos que cumplen filter (condiciones AND) en orden date DESC, created_at DESC.
func (r *ExpenseRepo) List(ctx context.Context, filter repository.ExpenseFilter) ([]*entity.Expense, error) {
	where, args := buildExpenseWhere(filter)
	rows, err := r.q.Query(ctx, selectExpense+where+orderExpenses, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()
	list := []*entity.Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Delete elimina un gasto por ID.
func (r *ExpenseRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// buildExpenseWhere traduce el filtro a predicados SQL con parámetros posicionales.
func buildExpenseWhere(f repository.ExpenseFilter) (string, []any) {
	var conds []string
	var args []any
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("e.category_id = $%d", len(args)))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		conds = append(conds, fmt.Sprintf("e.date >= $%d", len(args)))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		conds = append(conds, fmt.Sprintf("e.date <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanExpense(row pgx.Row) (*entity.Expense, error) {
	var e entity.Expense
	var categoryID, categoryName, categoryColor *string
	if err := row.Scan(
		&e.ID, &e.Title, &e.Amount, &e.Currency,
		&categoryID, &categoryName, &categoryColor,
		&e.Description, &e.Date, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.CategoryID = deref(categoryID)
	e.CategoryName = deref(categoryName)
	e.CategoryColor = deref(categoryColor)
	return &e, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
