package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/expense-tracker-api/internal/application/exchange"
	"github.com/jhoicas/expense-tracker-api/internal/application/ports"
	"github.com/jhoicas/expense-tracker-api/internal/application/usecase"
	domainexchange "github.com/jhoicas/expense-tracker-api/internal/domain/exchange"
	"github.com/jhoicas/expense-tracker-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/expense-tracker-api/internal/interfaces/http"
)

var fixedNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

// stubProvider devuelve siempre las mismas tasas para base.
type stubProvider struct {
	rates map[string]string
	fail  bool
}

func (s stubProvider) Name() string { return "stub" }

func (s stubProvider) LatestRates(_ context.Context, base string, _ ...string) (*ports.RateQuote, error) {
	if s.fail {
		return nil, io.ErrUnexpectedEOF
	}
	out := make(map[string]decimal.Decimal, len(s.rates))
	for k, v := range s.rates {
		out[k] = decimal.RequireFromString(v)
	}
	return &ports.RateQuote{Provider: "stub", Base: base, Rates: out, Date: "2024-05-19"}, nil
}

type testOptions struct {
	providers []ports.RateProvider
	limiter   *apphttp.RateLimiter
	jwtSecret string
}

// newTestApp arma la API completa sobre el almacenamiento en memoria.
func newTestApp(t *testing.T, opts testOptions) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	gateway := exchange.NewGateway(opts.providers, exchange.Config{
		Timeout:  time.Second,
		Fallback: domainexchange.DefaultFallbackTable(),
		Now:      func() time.Time { return fixedNow },
	}, zerolog.Nop())

	app := fiber.New()
	app.Use(apphttp.RequestLogger(zerolog.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		CategoryUC:  usecase.NewCategoryUseCase(store.Categories()),
		ExpenseUC:   usecase.NewExpenseUseCase(store.Expenses(), store.Categories(), func() time.Time { return fixedNow }),
		Gateway:     gateway,
		RateLimiter: opts.limiter,
		JWTSecret:   opts.jwtSecret,
	})
	return app
}

// call ejecuta la petición y decodifica el cuerpo JSON en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path string, body any, out any, headers ...string) int {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}
