package ratesapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jhoicas/expense-tracker-api/internal/infrastructure/ratesapi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenERAPI_OK(t *testing.T) {
	srv := serve(t, http.StatusOK, `{
		"result": "success",
		"base_code": "USD",
		"time_last_update_unix": 1716163201,
		"rates": {"USD": 1, "EUR": 0.921234, "JPY": 155.7}
	}`, func(r *http.Request) {
		assert.Equal(t, "/v6/latest/USD", r.URL.Path)
	})

	q, err := ratesapi.NewOpenERAPI(srv.URL).LatestRates(context.Background(), "USD")

	require.NoError(t, err)
	assert.Equal(t, "USD", q.Base)
	assert.Equal(t, "2024-05-20", q.Date)
	assert.True(t, q.Rates["EUR"].Equal(decimal.RequireFromString("0.921234")))
	assert.Equal(t, "open.er-api.com", q.Provider)
}

func TestOpenERAPI_ResultError(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"result":"error","error-type":"unsupported-code"}`, nil)

	_, err := ratesapi.NewOpenERAPI(srv.URL).LatestRates(context.Background(), "ABC")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported-code")
}

func TestOpenERAPI_Status500(t *testing.T) {
	srv := serve(t, http.StatusInternalServerError, `{}`, nil)

	_, err := ratesapi.NewOpenERAPI(srv.URL).LatestRates(context.Background(), "USD")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestOpenERAPI_JSONInvalido(t *testing.T) {
	srv := serve(t, http.StatusOK, `<html>mantenimiento</html>`, nil)

	_, err := ratesapi.NewOpenERAPI(srv.URL).LatestRates(context.Background(), "USD")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON inválido")
}

func TestOpenERAPI_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := ratesapi.NewOpenERAPI(srv.URL).LatestRates(ctx, "USD")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFrankfurter_OKConSimbolos(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"amount":1.0,"base":"USD","date":"2024-05-17","rates":{"EUR":0.92}}`,
		func(r *http.Request) {
			assert.Equal(t, "/latest", r.URL.Path)
			assert.Equal(t, "USD", r.URL.Query().Get("from"))
			assert.Equal(t, "EUR", r.URL.Query().Get("to"))
		})

	q, err := ratesapi.NewFrankfurter(srv.URL+"/").LatestRates(context.Background(), "USD", "EUR")

	require.NoError(t, err)
	assert.Equal(t, "2024-05-17", q.Date)
	assert.True(t, q.Rates["EUR"].Equal(decimal.RequireFromString("0.92")))
	assert.NotContains(t, q.Rates, "USD", "frankfurter no incluye la base")
}

func TestFrankfurter_SinSimbolosNoEnviaTo(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"amount":1.0,"base":"EUR","date":"2024-05-17","rates":{"USD":1.08}}`,
		func(r *http.Request) {
			assert.False(t, r.URL.Query().Has("to"))
		})

	q, err := ratesapi.NewFrankfurter(srv.URL).LatestRates(context.Background(), "EUR")

	require.NoError(t, err)
	assert.Equal(t, "EUR", q.Base)
}

func TestFrankfurter_404(t *testing.T) {
	srv := serve(t, http.StatusNotFound, `{"message":"not found"}`, nil)

	_, err := ratesapi.NewFrankfurter(srv.URL).LatestRates(context.Background(), "XXX")

	require.Error(t, err)
}
