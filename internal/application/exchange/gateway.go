// Package exchange orquesta la consulta de tipos de cambio contra proveedores externos
// con respaldo ordenado y, como último recurso, una tabla estática.
package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/expense-tracker-api/internal/application/dto"
	"github.com/jhoicas/expense-tracker-api/internal/application/ports"
	"github.com/jhoicas/expense-tracker-api/internal/domain"
	"github.com/jhoicas/expense-tracker-api/internal/domain/entity"
	domainexchange "github.com/jhoicas/expense-tracker-api/internal/domain/exchange"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	DefaultTimeout = 5 * time.Second

	defaultBase = "USD"
	defaultFrom = "USD"
	defaultTo   = "EUR"

	noteRatesCached   = "Using cached rates (live API unavailable)"
	noteConvertCached = "Using cached rates"

	// maxAmountLen largo máximo del literal de amount antes de parsearlo.
	maxAmountLen = 64
)

var (
	errEmptyRates  = errors.New("respuesta sin tasas")
	errMissingRate = errors.New("tasa ausente en la respuesta")
	errInvalidRate = errors.New("tasa fuera de rango")
)

// Config parámetros del Gateway. Fallback y Now son obligatorios en la práctica;
// New aplica valores por defecto si vienen vacíos.
type Config struct {
	Timeout  time.Duration
	Fallback domainexchange.RateTable
	Now      func() time.Time
}

// Gateway consulta los proveedores en orden de prioridad; el primer éxito corta la
// iteración. Si todos fallan responde con la tabla de respaldo y source "cached".
// Nunca devuelve error por fallas de proveedores.
type Gateway struct {
	providers []ports.RateProvider
	fallback  domainexchange.RateTable
	timeout   time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewGateway construye el Gateway. providers define la prioridad (índice 0 primero).
func NewGateway(providers []ports.RateProvider, cfg Config, log zerolog.Logger) *Gateway {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Fallback.Base() == "" {
		cfg.Fallback = domainexchange.DefaultFallbackTable()
	}
	return &Gateway{
		providers: providers,
		fallback:  cfg.Fallback,
		timeout:   cfg.Timeout,
		now:       cfg.Now,
		log:       log.With().Str("component", "exchange_gateway").Logger(),
	}
}

// GetRates devuelve las tasas de base filtradas a las monedas comunes.
// Con respaldo la base devuelta es siempre la de la tabla (USD), aunque se haya pedido otra.
func (g *Gateway) GetRates(ctx context.Context, base string) *dto.ExchangeRatesResponse {
	if strings.TrimSpace(base) == "" {
		base = defaultBase
	}
	code, valid := domainexchange.NormalizeCode(base)

	if valid {
		quote, err := g.firstQuote(ctx, code, nil, func(q *ports.RateQuote) error {
			if len(q.Rates) == 0 {
				return errEmptyRates
			}
			for _, c := range domainexchange.CommonCurrencies {
				if r, ok := q.Rates[c]; ok && !domainexchange.ValidRate(r) {
					return fmt.Errorf("%w: %s=%s", errInvalidRate, c, r.String())
				}
			}
			return nil
		})
		if err == nil {
			rates := domainexchange.FilterCommon(code, quote.Rates)
			return &dto.ExchangeRatesResponse{
				Base:   code,
				Rates:  toFloatMap(rates),
				Date:   g.dateOr(quote.Date),
				Source: domainexchange.SourceLive,
			}
		}
	} else {
		g.log.Warn().Str("base", code).Msg("código de moneda no reconocido, se usa tabla de respaldo")
	}

	return &dto.ExchangeRatesResponse{
		Base:   g.fallback.Base(),
		Rates:  toFloatMap(g.fallback.Rates()),
		Date:   g.today(),
		Note:   noteRatesCached,
		Source: domainexchange.SourceCached,
	}
}

// Convert convierte in.Amount de in.FromCurrency a in.ToCurrency.
// Devuelve domain.ErrInvalidInput si el monto falta o no es un decimal no negativo.
func (g *Gateway) Convert(ctx context.Context, in dto.ConvertCurrencyRequest) (*dto.ConvertCurrencyResponse, error) {
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	from := strings.ToUpper(strings.TrimSpace(in.FromCurrency))
	if from == "" {
		from = defaultFrom
	}
	to := strings.ToUpper(strings.TrimSpace(in.ToCurrency))
	if to == "" {
		to = defaultTo
	}

	var rate decimal.Decimal
	quote, err := g.firstQuote(ctx, from, []string{to}, func(q *ports.RateQuote) error {
		r, ok := q.Rates[to]
		if !ok {
			return errMissingRate
		}
		if !domainexchange.ValidRate(r) {
			return fmt.Errorf("%w: %s=%s", errInvalidRate, to, r.String())
		}
		rate = r
		return nil
	})
	if err == nil {
		return &dto.ConvertCurrencyResponse{
			OriginalAmount:  amount.InexactFloat64(),
			FromCurrency:    from,
			ToCurrency:      to,
			ConvertedAmount: amount.Mul(rate).Round(domainexchange.AmountPlaces).InexactFloat64(),
			Rate:            rate.Round(domainexchange.RatePlaces).InexactFloat64(),
			Date:            g.dateOr(quote.Date),
			Source:          domainexchange.SourceLive,
		}, nil
	}

	converted, cachedRate := g.fallback.Convert(amount, from, to)
	return &dto.ConvertCurrencyResponse{
		OriginalAmount:  amount.InexactFloat64(),
		FromCurrency:    from,
		ToCurrency:      to,
		ConvertedAmount: converted.InexactFloat64(),
		Rate:            cachedRate.InexactFloat64(),
		Date:            g.today(),
		Note:            noteConvertCached,
		Source:          domainexchange.SourceCached,
	}, nil
}

// firstQuote recorre los proveedores en orden. accept valida el quote (tras fijar la
// tasa de la base en 1); un rechazo cuenta como falla y se pasa al siguiente.
func (g *Gateway) firstQuote(
	ctx context.Context,
	base string,
	symbols []string,
	accept func(*ports.RateQuote) error,
) (*ports.RateQuote, error) {
	for _, p := range g.providers {
		quote, err := g.try(ctx, p, base, symbols)
		if err == nil {
			if quote.Rates == nil {
				quote.Rates = map[string]decimal.Decimal{}
			}
			if len(quote.Rates) > 0 {
				quote.Rates[base] = decimal.NewFromInt(1)
			}
			err = accept(quote)
		}
		if err != nil {
			g.log.Warn().Err(err).Str("provider", p.Name()).Str("base", base).Msg("proveedor de tipos de cambio falló")
			continue
		}
		return quote, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	g.log.Info().Str("base", base).Msg("todos los proveedores fallaron, se usa tabla de respaldo")
	return nil, fmt.Errorf("sin proveedores disponibles para %s", base)
}

func (g *Gateway) try(ctx context.Context, p ports.RateProvider, base string, symbols []string) (*ports.RateQuote, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	quote, err := p.LatestRates(ctx, base, symbols...)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, errEmptyRates
	}
	return quote, nil
}

func (g *Gateway) today() string {
	return g.now().Format(entity.DateLayout)
}

func (g *Gateway) dateOr(date string) string {
	if date != "" {
		return date
	}
	return g.today()
}

// ParseAmount interpreta el monto crudo del body (número JSON o string numérico).
func ParseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Zero, fmt.Errorf("%w: amount es requerido", domain.ErrInvalidInput)
	}
	if len(s) > maxAmountLen {
		return decimal.Zero, fmt.Errorf("%w: amount fuera de rango", domain.ErrInvalidInput)
	}
	s = strings.TrimSpace(strings.Trim(s, `"`))
	amount, err := decimal.NewFromString(s)
	if err != nil || amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount inválido", domain.ErrInvalidInput)
	}
	if !domainexchange.ValidAmount(amount) {
		return decimal.Zero, fmt.Errorf("%w: amount fuera de rango (máximo %s)", domain.ErrInvalidInput, domainexchange.MaxAmount.String())
	}
	return amount, nil
}

func toFloatMap(rates map[string]decimal.Decimal) map[string]float64 {
	out := make(map[string]float64, len(rates))
	for k, v := range rates {
		out[k] = v.InexactFloat64()
	}
	return out
}
