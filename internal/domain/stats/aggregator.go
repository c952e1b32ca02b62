// Package stats agrega un conjunto de gastos ya filtrado en totales, desglose por
// categoría, totales mensuales y gastos recientes (servicio de dominio, sin I/O).
package stats

import (
	"sort"
	"time"

	"github.com/jhoicas/expense-tracker-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const (
	// RecentLimit número de gastos recientes incluidos en el resumen.
	RecentLimit = 5
	// MonthlyWindowDays ventana hacia atrás (en días) de los totales mensuales.
	MonthlyWindowDays = 180

	UncategorizedName  = "Uncategorized"
	UncategorizedColor = "#9CA3AF"

	monthLayout = "2006-01"
)

// CategoryTotal suma y conteo de los gastos de una categoría.
// ID vacío identifica el grupo sintético "Uncategorized".
type CategoryTotal struct {
	ID    string
	Name  string
	Color string
	Total decimal.Decimal
	Count int
}

// MonthTotal suma y conteo de los gastos de un mes calendario (Month = "YYYY-MM").
type MonthTotal struct {
	Month string
	Total decimal.Decimal
	Count int
}

// Summary resultado de Aggregate.
type Summary struct {
	Total             decimal.Decimal
	Count             int
	CategoryBreakdown []CategoryTotal
	MonthlyTotals     []MonthTotal
	Recent            []*entity.Expense
}

// Aggregate calcula el resumen de expenses tomando now como fecha actual.
// No modifica el slice recibido.
func Aggregate(expenses []*entity.Expense, now time.Time) Summary {
	s := Summary{
		Total:             decimal.Zero,
		Count:             len(expenses),
		CategoryBreakdown: []CategoryTotal{},
		MonthlyTotals:     []MonthTotal{},
	}

	today := entity.DateOnly(now)
	windowStart := today.AddDate(0, 0, -MonthlyWindowDays)

	byCategory := make(map[string]*CategoryTotal)
	byMonth := make(map[string]*MonthTotal)

	for _, e := range expenses {
		s.Total = s.Total.Add(e.Amount)

		ct, ok := byCategory[e.CategoryID]
		if !ok {
			ct = &CategoryTotal{ID: e.CategoryID, Name: UncategorizedName, Color: UncategorizedColor, Total: decimal.Zero}
			if e.HasCategory() {
				ct.Name = e.CategoryName
				ct.Color = e.CategoryColor
			}
			byCategory[e.CategoryID] = ct
		}
		ct.Total = ct.Total.Add(e.Amount)
		ct.Count++

		d := entity.DateOnly(e.Date)
		if d.Before(windowStart) || d.After(today) {
			continue
		}
		key := d.Format(monthLayout)
		mt, ok := byMonth[key]
		if !ok {
			mt = &MonthTotal{Month: key, Total: decimal.Zero}
			byMonth[key] = mt
		}
		mt.Total = mt.Total.Add(e.Amount)
		mt.Count++
	}

	for _, ct := range byCategory {
		s.CategoryBreakdown = append(s.CategoryBreakdown, *ct)
	}
	sort.Slice(s.CategoryBreakdown, func(i, j int) bool {
		a, b := s.CategoryBreakdown[i], s.CategoryBreakdown[j]
		if !a.Total.Equal(b.Total) {
			return a.Total.GreaterThan(b.Total)
		}
		return a.Name < b.Name
	})

	for _, mt := range byMonth {
		s.MonthlyTotals = append(s.MonthlyTotals, *mt)
	}
	// "YYYY-MM" ordena lexicográficamente igual que cronológicamente.
	sort.Slice(s.MonthlyTotals, func(i, j int) bool {
		return s.MonthlyTotals[i].Month < s.MonthlyTotals[j].Month
	})

	s.Recent = MostRecent(expenses, RecentLimit)
	return s
}

// MostRecent devuelve hasta limit gastos en el orden por defecto (date DESC, created_at DESC).
func MostRecent(expenses []*entity.Expense, limit int) []*entity.Expense {
	sorted := make([]*entity.Expense, len(expenses))
	copy(sorted, expenses)
	SortDefault(sorted)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// SortDefault ordena in-place por date DESC y luego created_at DESC.
func SortDefault(expenses []*entity.Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		a, b := expenses[i], expenses[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
