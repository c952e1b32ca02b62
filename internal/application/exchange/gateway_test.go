package exchange_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jhoicas/expense-tracker-api/internal/application/dto"
	appexchange "github.com/jhoicas/expense-tracker-api/internal/application/exchange"
	"github.com/jhoicas/expense-tracker-api/internal/application/ports"
	"github.com/jhoicas/expense-tracker-api/internal/domain"
	domainexchange "github.com/jhoicas/expense-tracker-api/internal/domain/exchange"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Proveedor falso
// ──────────────────────────────────────────────────────────────────────────────

type fakeProvider struct {
	name  string
	quote *ports.RateQuote
	err   error
	block bool // espera a que venza el contexto
	calls int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) LatestRates(ctx context.Context, base string, _ ...string) (*ports.RateQuote, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	// Copia para que el Gateway pueda mutar el mapa sin afectar al siguiente test.
	q := *f.quote
	q.Rates = make(map[string]decimal.Decimal, len(f.quote.Rates))
	for k, v := range f.quote.Rates {
		q.Rates[k] = v
	}
	return &q, nil
}

func failing(name string) *fakeProvider {
	return &fakeProvider{name: name, err: errors.New("HTTP 503")}
}

func liveQuote(base string, rates map[string]string) *ports.RateQuote {
	out := make(map[string]decimal.Decimal, len(rates))
	for k, v := range rates {
		out[k] = decimal.RequireFromString(v)
	}
	return &ports.RateQuote{Provider: "fake", Base: base, Rates: out, Date: "2024-05-20"}
}

var fixedNow = time.Date(2024, 5, 21, 10, 0, 0, 0, time.UTC)

func newGateway(providers ...ports.RateProvider) *appexchange.Gateway {
	return appexchange.NewGateway(providers, appexchange.Config{
		Timeout:  50 * time.Millisecond,
		Fallback: domainexchange.DefaultFallbackTable(),
		Now:      func() time.Time { return fixedNow },
	}, zerolog.Nop())
}

func rawAmount(s string) json.RawMessage { return json.RawMessage(s) }

// ──────────────────────────────────────────────────────────────────────────────
// GetRates
// ──────────────────────────────────────────────────────────────────────────────

func TestGetRates_PrimerProveedorOK(t *testing.T) {
	first := &fakeProvider{name: "primary", quote: liveQuote("EUR", map[string]string{
		"USD": "1.08", "GBP": "0.85", "BRL": "5.4", "JPY": "160.1",
	})}
	second := &fakeProvider{name: "secondary", quote: liveQuote("EUR", map[string]string{"USD": "9"})}

	out := newGateway(first, second).GetRates(context.Background(), "eur")

	assert.Equal(t, "live", out.Source)
	assert.Equal(t, "EUR", out.Base)
	assert.Equal(t, "2024-05-20", out.Date)
	assert.Empty(t, out.Note)
	assert.Equal(t, 1.0, out.Rates["EUR"], "la base siempre vale 1")
	assert.Equal(t, 1.08, out.Rates["USD"])
	assert.NotContains(t, out.Rates, "BRL", "solo monedas comunes")
	assert.Len(t, out.Rates, 4)
	assert.Equal(t, 0, second.calls, "no debe consultar el segundo proveedor")
}

func TestGetRates_SegundoProveedorSiPrimeroFalla(t *testing.T) {
	first := failing("primary")
	second := &fakeProvider{name: "secondary", quote: liveQuote("USD", map[string]string{"EUR": "0.9"})}

	out := newGateway(first, second).GetRates(context.Background(), "USD")

	assert.Equal(t, "live", out.Source)
	assert.Equal(t, 0.9, out.Rates["EUR"])
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestGetRates_RespuestaVaciaCuentaComoFalla(t *testing.T) {
	empty := &fakeProvider{name: "empty", quote: &ports.RateQuote{Rates: map[string]decimal.Decimal{}}}

	out := newGateway(empty).GetRates(context.Background(), "USD")

	assert.Equal(t, "cached", out.Source)
}

func TestGetRates_TasaFueraDeRangoCuentaComoFalla(t *testing.T) {
	absurd := &fakeProvider{name: "absurd", quote: liveQuote("USD", map[string]string{"EUR": "1e400", "GBP": "0.79"})}

	out := newGateway(absurd).GetRates(context.Background(), "USD")

	assert.Equal(t, "cached", out.Source)
	assert.Equal(t, 0.92, out.Rates["EUR"])
	assert.Equal(t, 1, absurd.calls)
}

func TestGetRates_TasaFueraDeRangoPasaAlSiguiente(t *testing.T) {
	absurd := &fakeProvider{name: "absurd", quote: liveQuote("USD", map[string]string{"EUR": "0"})}
	second := &fakeProvider{name: "secondary", quote: liveQuote("USD", map[string]string{"EUR": "0.9"})}

	out := newGateway(absurd, second).GetRates(context.Background(), "USD")

	assert.Equal(t, "live", out.Source)
	assert.Equal(t, 0.9, out.Rates["EUR"])
}

func TestGetRates_TodosFallan_DevuelveRespaldoUSD(t *testing.T) {
	out := newGateway(failing("a"), &fakeProvider{name: "slow", block: true}).GetRates(context.Background(), "GBP")

	assert.Equal(t, "cached", out.Source)
	assert.Equal(t, "USD", out.Base, "con respaldo la base es USD aunque se pida otra")
	assert.Equal(t, "2024-05-21", out.Date)
	assert.NotEmpty(t, out.Note)
	require.Len(t, out.Rates, 8)
	assert.Equal(t, 0.92, out.Rates["EUR"])
	assert.Equal(t, 149.5, out.Rates["JPY"])
	assert.Equal(t, 1.0, out.Rates["USD"])
}

func TestGetRates_CodigoInvalidoNoConsultaProveedores(t *testing.T) {
	p := &fakeProvider{name: "primary", quote: liveQuote("USD", map[string]string{"EUR": "0.9"})}

	out := newGateway(p).GetRates(context.Background(), "NOPE")

	assert.Equal(t, "cached", out.Source)
	assert.Equal(t, 0, p.calls)
}

func TestGetRates_BaseVaciaUsaUSD(t *testing.T) {
	p := &fakeProvider{name: "primary", quote: liveQuote("USD", map[string]string{"EUR": "0.9"})}

	out := newGateway(p).GetRates(context.Background(), "")

	assert.Equal(t, "USD", out.Base)
	assert.Equal(t, "live", out.Source)
}

// ──────────────────────────────────────────────────────────────────────────────
// Convert
// ──────────────────────────────────────────────────────────────────────────────

func TestConvert_Live(t *testing.T) {
	p := &fakeProvider{name: "primary", quote: liveQuote("USD", map[string]string{"EUR": "0.9234567"})}

	out, err := newGateway(p).Convert(context.Background(), dto.ConvertCurrencyRequest{
		Amount: rawAmount("100"), FromCurrency: "usd", ToCurrency: "eur",
	})

	require.NoError(t, err)
	assert.Equal(t, "live", out.Source)
	assert.Equal(t, 92.35, out.ConvertedAmount)
	assert.Equal(t, 0.923457, out.Rate)
	assert.Equal(t, 100.0, out.OriginalAmount)
	assert.Equal(t, "USD", out.FromCurrency)
	assert.Equal(t, "EUR", out.ToCurrency)
}

func TestConvert_LiveSinTasaDestinoPasaAlSiguiente(t *testing.T) {
	first := &fakeProvider{name: "primary", quote: liveQuote("USD", map[string]string{"GBP": "0.8"})}
	second := &fakeProvider{name: "secondary", quote: liveQuote("USD", map[string]string{"EUR": "0.5"})}

	out, err := newGateway(first, second).Convert(context.Background(), dto.ConvertCurrencyRequest{
		Amount: rawAmount(`"10"`), FromCurrency: "USD", ToCurrency: "EUR",
	})

	require.NoError(t, err)
	assert.Equal(t, 5.0, out.ConvertedAmount)
	assert.Equal(t, 1, second.calls)
}

func TestConvert_Respaldo_USDaEUR(t *testing.T) {
	out, err := newGateway(failing("a"), failing("b")).Convert(context.Background(), dto.ConvertCurrencyRequest{
		Amount: rawAmount("100"), FromCurrency: "USD", ToCurrency: "EUR",
	})

	require.NoError(t, err)
	assert.Equal(t, "cached", out.Source)
	assert.Equal(t, 92.0, out.ConvertedAmount)
	assert.Equal(t, 0.92, out.Rate)
	assert.Equal(t, "2024-05-21", out.Date)
	assert.NotEmpty(t, out.Note)
}

func TestConvert_ValoresPorDefecto(t *testing.T) {
	out, err := newGateway().Convert(context.Background(), dto.ConvertCurrencyRequest{Amount: rawAmount("1")})

	require.NoError(t, err)
	assert.Equal(t, "USD", out.FromCurrency)
	assert.Equal(t, "EUR", out.ToCurrency)
}

func TestConvert_MismaMonedaEnAmbosCaminos(t *testing.T) {
	live := &fakeProvider{name: "primary", quote: liveQuote("JPY", map[string]string{"USD": "0.0067"})}
	gateways := map[string]*appexchange.Gateway{
		"live":   newGateway(live),
		"cached": newGateway(failing("a")),
	}
	for source, g := range gateways {
		out, err := g.Convert(context.Background(), dto.ConvertCurrencyRequest{
			Amount: rawAmount("1234.56"), FromCurrency: "JPY", ToCurrency: "JPY",
		})
		require.NoError(t, err)
		assert.Equal(t, source, out.Source)
		assert.Equal(t, 1234.56, out.ConvertedAmount, source)
		assert.Equal(t, 1.0, out.Rate, source)
	}
}

func TestConvert_MontoInvalido(t *testing.T) {
	g := newGateway()
	cases := map[string]json.RawMessage{
		"ausente":   nil,
		"null":      rawAmount("null"),
		"texto":     rawAmount(`"abc"`),
		"negativo":  rawAmount("-5"),
		"objeto":    rawAmount(`{"v":1}`),
		"infinito":  rawAmount(`"1e400"`),
		"exponente": rawAmount("1e10000000"),
		"decimales": rawAmount("0.0000000000000000000001"),
		"maximo":    rawAmount("1000000000000000.01"),
		"largo":     rawAmount(strings.Repeat("9", 80)),
	}
	for name, raw := range cases {
		_, err := g.Convert(context.Background(), dto.ConvertCurrencyRequest{Amount: raw})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
}

func TestConvert_MontoMaximoEsValido(t *testing.T) {
	out, err := newGateway().Convert(context.Background(), dto.ConvertCurrencyRequest{
		Amount: rawAmount("1000000000000000"), FromCurrency: "USD", ToCurrency: "USD",
	})

	require.NoError(t, err)
	assert.Equal(t, 1e15, out.ConvertedAmount)
}

func TestConvert_TasaNoFinitaUsaRespaldo(t *testing.T) {
	absurd := &fakeProvider{name: "absurd", quote: liveQuote("USD", map[string]string{"EUR": "1e400"})}

	out, err := newGateway(absurd).Convert(context.Background(), dto.ConvertCurrencyRequest{
		Amount: rawAmount("100"), FromCurrency: "USD", ToCurrency: "EUR",
	})

	require.NoError(t, err)
	assert.Equal(t, "cached", out.Source)
	assert.Equal(t, 92.0, out.ConvertedAmount)
	assert.Equal(t, 0.92, out.Rate)
}

func TestConvert_CeroEsValido(t *testing.T) {
	out, err := newGateway().Convert(context.Background(), dto.ConvertCurrencyRequest{Amount: rawAmount("0")})

	require.NoError(t, err)
	assert.Equal(t, 0.0, out.ConvertedAmount)
}
