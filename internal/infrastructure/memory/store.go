// Package memory implementa los puertos de persistencia en memoria (desarrollo local y tests).
// Replica las reglas del esquema PostgreSQL: nombre de categoría único y ON DELETE SET NULL.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/expense-tracker-api/internal/domain"
	"github.com/jhoicas/expense-tracker-api/internal/domain/entity"
	"github.com/jhoicas/expense-tracker-api/internal/domain/repository"
	"github.com/jhoicas/expense-tracker-api/internal/domain/stats"
)

var (
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
	_ repository.ExpenseRepository  = (*ExpenseRepo)(nil)
)

// Store estado compartido por ambos repositorios.
type Store struct {
	mu         sync.RWMutex
	categories map[string]entity.Category
	expenses   map[string]entity.Expense
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		categories: make(map[string]entity.Category),
		expenses:   make(map[string]entity.Expense),
	}
}

// Categories devuelve el repositorio de categorías sobre este almacén.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Expenses devuelve el repositorio de gastos sobre este almacén.
func (s *Store) Expenses() *ExpenseRepo { return &ExpenseRepo{s: s} }

// CategoryRepo implementación en memoria de repository.CategoryRepository.
type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.nameTaken(c.Name, c.ID) {
		return domain.ErrDuplicate
	}
	stored := *c
	stored.ExpenseCount = 0
	r.s.categories[c.ID] = stored
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return r.s.withCount(c), nil
}

func (r *CategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.categories {
		if c.Name == name {
			return r.s.withCount(c), nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.s.nameTaken(c.Name, c.ID) {
		return domain.ErrDuplicate
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		list = append(list, r.s.withCount(c))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// Delete elimina la categoría y desasocia sus gastos (SET NULL).
func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.categories, id)
	for eid, e := range r.s.expenses {
		if e.CategoryID == id {
			e.CategoryID = ""
			r.s.expenses[eid] = e
		}
	}
	return nil
}

// ExpenseRepo implementación en memoria de repository.ExpenseRepository.
type ExpenseRepo struct{ s *Store }

func (r *ExpenseRepo) Create(_ context.Context, e *entity.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.checkCategory(e.CategoryID); err != nil {
		return err
	}
	r.s.expenses[e.ID] = *e
	return nil
}

func (r *ExpenseRepo) GetByID(_ context.Context, id string) (*entity.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.expenses[id]
	if !ok {
		return nil, nil
	}
	return r.s.joined(e), nil
}

func (r *ExpenseRepo) Update(_ context.Context, e *entity.Expense) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.expenses[e.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := r.s.checkCategory(e.CategoryID); err != nil {
		return err
	}
	r.s.expenses[e.ID] = *e
	return nil
}

func (r *ExpenseRepo) List(_ context.Context, filter repository.ExpenseFilter) ([]*entity.Expense, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Expense, 0, len(r.s.expenses))
	for _, e := range r.s.expenses {
		if filter.Matches(&e) {
			list = append(list, r.s.joined(e))
		}
	}
	stats.SortDefault(list)
	return list, nil
}

func (r *ExpenseRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.expenses[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.expenses, id)
	return nil
}

// ── helpers (el llamador debe tener el lock) ─────────────────────────────────

func (s *Store) nameTaken(name, exceptID string) bool {
	for id, c := range s.categories {
		if id != exceptID && c.Name == name {
			return true
		}
	}
	return false
}

func (s *Store) withCount(c entity.Category) *entity.Category {
	c.ExpenseCount = 0
	for _, e := range s.expenses {
		if e.CategoryID == c.ID {
			c.ExpenseCount++
		}
	}
	return &c
}

func (s *Store) joined(e entity.Expense) *entity.Expense {
	e.CategoryName, e.CategoryColor = "", ""
	if c, ok := s.categories[e.CategoryID]; ok {
		e.CategoryName = c.Name
		e.CategoryColor = c.Color
	}
	return &e
}

func (s *Store) checkCategory(id string) error {
	if id == "" {
		return nil
	}
	if _, ok := s.categories[id]; !ok {
		return domain.ErrInvalidInput
	}
	return nil
}
