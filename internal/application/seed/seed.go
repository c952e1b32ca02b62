// Package seed puebla el almacenamiento con categorías por defecto y gastos de ejemplo.
package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/expense-tracker-api/internal/domain/entity"
	"github.com/jhoicas/expense-tracker-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DefaultDays días hacia atrás (incluido hoy) con gastos de ejemplo.
const DefaultDays = 90

// maxPerDay gastos máximos por día; cada día recibe entre 0 y maxPerDay.
const maxPerDay = 3

type categorySeed struct {
	Name, Color, Icon string
}

// DefaultCategories categorías creadas si no existen (get-or-create por nombre).
var DefaultCategories = []categorySeed{
	{"Food & Dining", "#EF4444", "utensils"},
	{"Transportation", "#F59E0B", "car"},
	{"Shopping", "#8B5CF6", "shopping-bag"},
	{"Entertainment", "#EC4899", "film"},
	{"Bills & Utilities", "#3B82F6", "file-text"},
	{"Healthcare", "#10B981", "heart"},
	{"Travel", "#06B6D4", "plane"},
	{"Education", "#6366F1", "book"},
}

type template struct {
	Title    string
	Category string
	Min, Max int64
}

var templates = []template{
	{"Grocery shopping", "Food & Dining", 50, 200},
	{"Restaurant dinner", "Food & Dining", 30, 100},
	{"Coffee shop", "Food & Dining", 5, 20},
	{"Gas/Fuel", "Transportation", 40, 80},
	{"Uber ride", "Transportation", 15, 50},
	{"Bus pass", "Transportation", 50, 100},
	{"Online shopping", "Shopping", 50, 300},
	{"Clothes", "Shopping", 30, 150},
	{"Movie tickets", "Entertainment", 15, 40},
	{"Netflix subscription", "Entertainment", 15, 20},
	{"Spotify subscription", "Entertainment", 10, 15},
	{"Electric bill", "Bills & Utilities", 80, 200},
	{"Internet bill", "Bills & Utilities", 50, 100},
	{"Phone bill", "Bills & Utilities", 40, 80},
	{"Doctor visit", "Healthcare", 50, 200},
	{"Pharmacy", "Healthcare", 20, 100},
	{"Weekend trip", "Travel", 200, 500},
	{"Flight tickets", "Travel", 200, 800},
	{"Online course", "Education", 50, 200},
	{"Books", "Education", 20, 80},
}

// Result resumen de la ejecución.
type Result struct {
	CategoriesCreated int
	Categories        int
	Expenses          int
}

// Options parámetros de Run.
type Options struct {
	Days int        // <= 0 usa DefaultDays
	Now  time.Time  // cero usa time.Now
	Rand *rand.Rand // nil usa una fuente aleatoria
}

// Run crea las categorías que falten y gastos aleatorios para los últimos Days días.
// Llamarlo dentro de una transacción para que sea todo o nada.
func Run(ctx context.Context, categories repository.CategoryRepository, expenses repository.ExpenseRepository, opts Options) (Result, error) {
	if opts.Days <= 0 {
		opts.Days = DefaultDays
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	var res Result
	byName := make(map[string]*entity.Category, len(DefaultCategories))
	for _, cs := range DefaultCategories {
		c, created, err := getOrCreate(ctx, categories, cs, opts.Now)
		if err != nil {
			return res, err
		}
		if created {
			res.CategoriesCreated++
		}
		byName[c.Name] = c
	}
	res.Categories = len(byName)

	today := entity.DateOnly(opts.Now)
	for i := 0; i < opts.Days; i++ {
		date := today.AddDate(0, 0, -i)
		n := opts.Rand.IntN(maxPerDay + 1)
		for j := 0; j < n; j++ {
			tpl := templates[opts.Rand.IntN(len(templates))]
			category := byName[tpl.Category]
			amount := tpl.Min + opts.Rand.Int64N(tpl.Max-tpl.Min+1)
			e := &entity.Expense{
				ID:            uuid.New().String(),
				Title:         tpl.Title,
				Amount:        decimal.NewFromInt(amount),
				Currency:      entity.DefaultCurrency,
				CategoryID:    category.ID,
				CategoryName:  category.Name,
				CategoryColor: category.Color,
				Description:   "Sample expense for " + strings.ToLower(tpl.Title),
				Date:          date,
				CreatedAt:     opts.Now,
				UpdatedAt:     opts.Now,
			}
			if err := expenses.Create(ctx, e); err != nil {
				return res, fmt.Errorf("seed: crear gasto %q: %w", tpl.Title, err)
			}
			res.Expenses++
		}
	}
	return res, nil
}

func getOrCreate(ctx context.Context, repo repository.CategoryRepository, cs categorySeed, now time.Time) (*entity.Category, bool, error) {
	existing, err := repo.GetByName(ctx, cs.Name)
	if err != nil {
		return nil, false, fmt.Errorf("seed: buscar categoría %q: %w", cs.Name, err)
	}
	if existing != nil {
		return existing, false, nil
	}
	c := &entity.Category{
		ID:        uuid.New().String(),
		Name:      cs.Name,
		Color:     cs.Color,
		Icon:      cs.Icon,
		CreatedAt: now,
	}
	if err := repo.Create(ctx, c); err != nil {
		return nil, false, fmt.Errorf("seed: crear categoría %q: %w", cs.Name, err)
	}
	return c, true, nil
}
