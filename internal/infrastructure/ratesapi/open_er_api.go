package ratesapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jhoicas/expense-tracker-api/internal/application/ports"
	"github.com/shopspring/decimal"
)

var _ ports.RateProvider = (*OpenERAPI)(nil)

// DefaultOpenERAPIURL URL base pública de open.er-api.com.
const DefaultOpenERAPIURL = "https://open.er-api.com"

// OpenERAPI adaptador de https://open.er-api.com/v6/latest/{BASE} (sin API key).
type OpenERAPI struct {
	baseURL    string
	httpClient *http.Client
}

// NewOpenERAPI construye el adaptador. baseURL vacío usa DefaultOpenERAPIURL.
func NewOpenERAPI(baseURL string) *OpenERAPI {
	if baseURL == "" {
		baseURL = DefaultOpenERAPIURL
	}
	return &OpenERAPI{baseURL: strings.TrimRight(baseURL, "/"), httpClient: newHTTPClient()}
}

type openERAPIResponse struct {
	Result             string                     `json:"result"`
	BaseCode           string                     `json:"base_code"`
	TimeLastUpdateUnix int64                      `json:"time_last_update_unix"`
	Rates              map[string]decimal.Decimal `json:"rates"`
	ErrorType          string                     `json:"error-type"`
}

func (p *OpenERAPI) Name() string { return "open.er-api.com" }

// LatestRates ignora symbols: la API siempre devuelve la tabla completa.
func (p *OpenERAPI) LatestRates(ctx context.Context, base string, _ ...string) (*ports.RateQuote, error) {
	endpoint := fmt.Sprintf("%s/v6/latest/%s", p.baseURL, url.PathEscape(base))

	var body openERAPIResponse
	if err := getJSON(ctx, p.httpClient, endpoint, &body); err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}
	if body.Result != "success" {
		return nil, fmt.Errorf("%s: result=%q error=%q", p.Name(), body.Result, body.ErrorType)
	}

	quote := &ports.RateQuote{Provider: p.Name(), Base: base, Rates: body.Rates}
	if body.BaseCode != "" {
		quote.Base = body.BaseCode
	}
	if body.TimeLastUpdateUnix > 0 {
		quote.Date = time.Unix(body.TimeLastUpdateUnix, 0).UTC().Format("2006-01-02")
	}
	return quote, nil
}
