// Package exchange contiene las reglas de tipos de cambio independientes del proveedor:
// tabla de respaldo, lista de monedas soportadas y conversión con la tabla de respaldo.
package exchange

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	SourceLive   = "live"
	SourceCached = "cached"

	// FallbackBase moneda base de la tabla de respaldo.
	FallbackBase = "USD"

	// Precisión de salida.
	AmountPlaces = 2
	RatePlaces   = 6

	// divPrecision dígitos decimales de las divisiones intermedias.
	divPrecision = 16

	// Límites de escala de montos y tasas; se evalúan antes de cualquier aritmética.
	maxExponent = 18
	maxDigits   = 30
)

// MaxAmount monto máximo aceptado para conversión.
var MaxAmount = decimal.New(1, 15)

// CommonCurrencies monedas que se devuelven al consultar tipos de cambio en vivo.
var CommonCurrencies = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "INR", "CNY"}

// RateTable tabla inmutable de tipos de cambio (código → unidades por 1 unidad de la base).
type RateTable struct {
	base  string
	rates map[string]decimal.Decimal
}

// NewRateTable copia rates para que el llamador no pueda mutar la tabla después.
func NewRateTable(base string, rates map[string]decimal.Decimal) RateTable {
	cp := make(map[string]decimal.Decimal, len(rates))
	for k, v := range rates {
		cp[strings.ToUpper(k)] = v
	}
	return RateTable{base: strings.ToUpper(base), rates: cp}
}

// DefaultFallbackTable tabla de respaldo con base USD.
func DefaultFallbackTable() RateTable {
	return NewRateTable(FallbackBase, map[string]decimal.Decimal{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("0.92"),
		"GBP": decimal.RequireFromString("0.79"),
		"JPY": decimal.RequireFromString("149.50"),
		"CAD": decimal.RequireFromString("1.36"),
		"AUD": decimal.RequireFromString("1.53"),
		"INR": decimal.RequireFromString("83.12"),
		"CNY": decimal.RequireFromString("7.24"),
	})
}

// Base moneda base de la tabla.
func (t RateTable) Base() string { return t.base }

// Rates devuelve una copia de la tabla.
func (t RateTable) Rates() map[string]decimal.Decimal {
	cp := make(map[string]decimal.Decimal, len(t.rates))
	for k, v := range t.rates {
		cp[k] = v
	}
	return cp
}

// RateOrOne devuelve la tasa del código o 1 si el código no está en la tabla.
func (t RateTable) RateOrOne(code string) decimal.Decimal {
	if r, ok := t.rates[code]; ok && r.IsPositive() {
		return r
	}
	return decimal.NewFromInt(1)
}

// Convert convierte amount de from a to pasando por la base de la tabla:
// amount / rate(from) * rate(to). Devuelve el monto redondeado a 2 decimales y la tasa
// efectiva to/from redondeada a 6.
func (t RateTable) Convert(amount decimal.Decimal, from, to string) (converted, rate decimal.Decimal) {
	fromRate := t.RateOrOne(from)
	toRate := t.RateOrOne(to)
	inBase := amount.DivRound(fromRate, divPrecision)
	converted = inBase.Mul(toRate).Round(AmountPlaces)
	rate = toRate.DivRound(fromRate, divPrecision).Round(RatePlaces)
	return converted, rate
}

// FilterCommon reduce rates a CommonCurrencies y fija la tasa de base en 1.
func FilterCommon(base string, rates map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(CommonCurrencies)+1)
	for _, code := range CommonCurrencies {
		if r, ok := rates[code]; ok {
			out[code] = r
		}
	}
	out[base] = decimal.NewFromInt(1)
	return out
}

// NormalizeCode limpia y pasa a mayúsculas un código ISO 4217.
// ok es false si el código no es una moneda ISO reconocida.
func NormalizeCode(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return code, false
	}
	if _, err := currency.ParseISO(code); err != nil {
		return code, false
	}
	return code, true
}

// boundedScale indica si el exponente y la cantidad de dígitos de d están acotados.
func boundedScale(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -maxExponent && exp <= maxExponent && d.NumDigits() <= maxDigits
}

// ValidAmount indica si amount es no negativo, de escala acotada y <= MaxAmount.
func ValidAmount(amount decimal.Decimal) bool {
	return boundedScale(amount) && !amount.IsNegative() && amount.LessThanOrEqual(MaxAmount)
}

// ValidRate indica si una tasa recibida de un proveedor es utilizable: positiva, de escala
// acotada y representable como float64 finito.
func ValidRate(rate decimal.Decimal) bool {
	if !boundedScale(rate) || !rate.IsPositive() {
		return false
	}
	f := rate.InexactFloat64()
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
