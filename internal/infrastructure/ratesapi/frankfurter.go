package ratesapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jhoicas/expense-tracker-api/internal/application/ports"
	"github.com/shopspring/decimal"
)

var _ ports.RateProvider = (*Frankfurter)(nil)

// DefaultFrankfurterURL URL base pública de frankfurter.app (tasas del BCE).
const DefaultFrankfurterURL = "https://api.frankfurter.app"

// Frankfurter adaptador de https://api.frankfurter.app/latest?from={BASE}&to={SYMBOLS}.
type Frankfurter struct {
	baseURL    string
	httpClient *http.Client
}

// NewFrankfurter construye el adaptador. baseURL vacío usa DefaultFrankfurterURL.
func NewFrankfurter(baseURL string) *Frankfurter {
	if baseURL == "" {
		baseURL = DefaultFrankfurterURL
	}
	return &Frankfurter{baseURL: strings.TrimRight(baseURL, "/"), httpClient: newHTTPClient()}
}

type frankfurterResponse struct {
	Amount decimal.Decimal            `json:"amount"`
	Base   string                     `json:"base"`
	Date   string                     `json:"date"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

func (p *Frankfurter) Name() string { return "frankfurter.app" }

// LatestRates consulta las tasas de base; con symbols la respuesta se limita a esas monedas.
// La respuesta no incluye la propia base.
func (p *Frankfurter) LatestRates(ctx context.Context, base string, symbols ...string) (*ports.RateQuote, error) {
	q := url.Values{}
	q.Set("from", base)
	if len(symbols) > 0 {
		q.Set("to", strings.Join(symbols, ","))
	}
	endpoint := p.baseURL + "/latest?" + q.Encode()

	var body frankfurterResponse
	if err := getJSON(ctx, p.httpClient, endpoint, &body); err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}

	quote := &ports.RateQuote{Provider: p.Name(), Base: base, Rates: body.Rates, Date: body.Date}
	if body.Base != "" {
		quote.Base = body.Base
	}
	return quote, nil
}
