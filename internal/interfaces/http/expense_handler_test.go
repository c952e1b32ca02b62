package http_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/expense-tracker-api/internal/application/dto"
)

func createCategory(t *testing.T, app *fiber.App, name string) dto.CategoryResponse {
	t.Helper()
	var out dto.CategoryResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/categories", map[string]any{"name": name}, &out))
	return out
}

func createExpense(t *testing.T, app *fiber.App, body map[string]any) dto.ExpenseResponse {
	t.Helper()
	var out dto.ExpenseResponse
	require.Equal(t, http.StatusCreated, call(t, app, http.MethodPost, "/api/expenses/", body, &out))
	return out
}

func TestExpenses_CrearYObtener(t *testing.T) {
	app := newTestApp(t, testOptions{})
	food := createCategory(t, app, "Food")

	e := createExpense(t, app, map[string]any{
		"title": "Lunch", "amount": 50, "category": food.ID, "date": "2024-05-01",
	})
	assert.Equal(t, "50.00", e.Amount)
	assert.Equal(t, "USD", e.Currency)
	require.NotNil(t, e.Category)
	assert.Equal(t, food.ID, *e.Category)
	require.NotNil(t, e.CategoryName)
	assert.Equal(t, "Food", *e.CategoryName)
	assert.Equal(t, "2024-05-01", e.Date)

	var got dto.ExpenseResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/expenses/"+e.ID, nil, &got))
	assert.Equal(t, e.ID, got.ID)

	// amount como string también se acepta
	s := createExpense(t, app, map[string]any{"title": "Bus", "amount": "2.50", "date": "2024-05-02"})
	assert.Equal(t, "2.50", s.Amount)
	assert.Nil(t, s.Category)
}

func TestExpenses_Validaciones(t *testing.T) {
	app := newTestApp(t, testOptions{})
	cases := []struct {
		name string
		body map[string]any
	}{
		{"sin amount", map[string]any{"title": "x", "date": "2024-05-01"}},
		{"amount cero", map[string]any{"title": "x", "amount": 0, "date": "2024-05-01"}},
		{"tres decimales", map[string]any{"title": "x", "amount": 1.234, "date": "2024-05-01"}},
		{"fecha inválida", map[string]any{"title": "x", "amount": 1, "date": "01/05/2024"}},
		{"sin título", map[string]any{"amount": 1, "date": "2024-05-01"}},
		{"categoría no uuid", map[string]any{"title": "x", "amount": 1, "date": "2024-05-01", "category": "food"}},
		{"categoría inexistente", map[string]any{"title": "x", "amount": 1, "date": "2024-05-01", "category": uuid.NewString()}},
		{"moneda desconocida", map[string]any{"title": "x", "amount": 1, "date": "2024-05-01", "currency": "ZZZ"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var errResp dto.ErrorResponse
			status := call(t, app, http.MethodPost, "/api/expenses", tc.body, &errResp)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "VALIDATION", errResp.Code)
		})
	}
}

func TestExpenses_ListFiltrosYOrden(t *testing.T) {
	app := newTestApp(t, testOptions{})
	food := createCategory(t, app, "Food")
	createExpense(t, app, map[string]any{"title": "a", "amount": 1, "date": "2024-03-01", "category": food.ID})
	createExpense(t, app, map[string]any{"title": "b", "amount": 2, "date": "2024-03-15", "category": food.ID})
	createExpense(t, app, map[string]any{"title": "c", "amount": 3, "date": "2024-03-20"})

	var all []dto.ExpenseResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/expenses", nil, &all))
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Title, "fecha más reciente primero")

	var filtered []dto.ExpenseResponse
	path := "/api/expenses?category=" + food.ID + "&start_date=2024-03-10&end_date=2024-03-31"
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, path, nil, &filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, "b", filtered[0].Title)

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/expenses?start_date=ayer", nil, &errResp))
	assert.Equal(t, http.StatusBadRequest, call(t, app, http.MethodGet, "/api/expenses?category=food", nil, &errResp))
	assert.Equal(t, "VALIDATION", errResp.Code)
}

func TestExpenses_PutPatchDelete(t *testing.T) {
	app := newTestApp(t, testOptions{})
	food := createCategory(t, app, "Food")
	e := createExpense(t, app, map[string]any{"title": "Lunch", "amount": 10, "date": "2024-05-01", "category": food.ID})

	var errResp dto.ErrorResponse
	status := call(t, app, http.MethodPut, "/api/expenses/"+e.ID, map[string]any{"title": "Dinner"}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status, "PUT requiere title, amount y date")

	var put dto.ExpenseResponse
	status = call(t, app, http.MethodPut, "/api/expenses/"+e.ID, map[string]any{"title": "Dinner", "amount": "12.5", "date": "2024-05-02"}, &put)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Dinner", put.Title)
	assert.Equal(t, "12.50", put.Amount)
	require.NotNil(t, put.Category, "PUT sin category conserva la actual")

	var patched dto.ExpenseResponse
	status = call(t, app, http.MethodPatch, "/api/expenses/"+e.ID, `{"category": null}`, &patched)
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, patched.Category)
	assert.Equal(t, "Dinner", patched.Title)

	assert.Equal(t, http.StatusNoContent, call(t, app, http.MethodDelete, "/api/expenses/"+e.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodGet, "/api/expenses/"+e.ID, nil, &errResp))
	assert.Equal(t, http.StatusNotFound, call(t, app, http.MethodDelete, "/api/expenses/"+e.ID, nil, &errResp))
}

func TestExpenses_BorrarCategoriaDesvinculaGastos(t *testing.T) {
	app := newTestApp(t, testOptions{})
	food := createCategory(t, app, "Food")
	e := createExpense(t, app, map[string]any{"title": "Lunch", "amount": 10, "date": "2024-05-01", "category": food.ID})

	require.Equal(t, http.StatusNoContent, call(t, app, http.MethodDelete, "/api/categories/"+food.ID, nil, nil))

	var got dto.ExpenseResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/expenses/"+e.ID, nil, &got))
	assert.Nil(t, got.Category)
	assert.Nil(t, got.CategoryName)
}

func TestExpenses_Stats(t *testing.T) {
	app := newTestApp(t, testOptions{})
	food := createCategory(t, app, "Food")
	createExpense(t, app, map[string]any{"title": "a", "amount": 50, "date": "2024-05-01", "category": food.ID})
	createExpense(t, app, map[string]any{"title": "b", "amount": 30, "date": "2024-04-15", "category": food.ID})
	createExpense(t, app, map[string]any{"title": "c", "amount": 20, "date": "2024-05-10"})

	var st dto.ExpenseStatsResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/expenses/stats/", nil, &st))
	assert.InDelta(t, 100.0, st.TotalExpenses, 1e-9)
	assert.Equal(t, 3, st.ExpenseCount)

	require.Len(t, st.CategoryBreakdown, 2)
	assert.Equal(t, "Food", st.CategoryBreakdown[0].Name)
	assert.InDelta(t, 80.0, st.CategoryBreakdown[0].Total, 1e-9)
	assert.Equal(t, "Uncategorized", st.CategoryBreakdown[1].Name)
	assert.Nil(t, st.CategoryBreakdown[1].ID)

	require.Len(t, st.MonthlyTotals, 2)
	assert.Equal(t, "2024-04", st.MonthlyTotals[0].Month)
	assert.Equal(t, "2024-05", st.MonthlyTotals[1].Month)

	require.Len(t, st.RecentExpenses, 3)
	assert.Equal(t, "c", st.RecentExpenses[0].Title)

	var filtered dto.ExpenseStatsResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/expenses/stats?category="+food.ID, nil, &filtered))
	assert.Equal(t, 2, filtered.ExpenseCount)
	assert.InDelta(t, 80.0, filtered.TotalExpenses, 1e-9)
}

func TestExpenses_StatsVacio(t *testing.T) {
	app := newTestApp(t, testOptions{})
	var st dto.ExpenseStatsResponse
	require.Equal(t, http.StatusOK, call(t, app, http.MethodGet, "/api/expenses/stats", nil, &st))
	assert.Zero(t, st.TotalExpenses)
	assert.Empty(t, st.CategoryBreakdown)
	assert.Empty(t, st.MonthlyTotals)
	assert.Empty(t, st.RecentExpenses)
}
