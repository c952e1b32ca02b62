package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateQuote respuesta normalizada de un proveedor de tipos de cambio.
// Rates expresa unidades de cada moneda por 1 unidad de Base.
type RateQuote struct {
	Provider string
	Base     string
	Rates    map[string]decimal.Decimal
	Date     string // YYYY-MM-DD; vacío si el proveedor no lo informa
}

// RateProvider define el puerto de salida hacia una API de tipos de cambio.
// Cada adaptador (open.er-api, frankfurter, mock) devuelve un RateQuote o un error;
// el Gateway decide el orden y el respaldo.
type RateProvider interface {
	Name() string
	// LatestRates consulta las tasas más recientes para base. symbols es opcional:
	// si el proveedor admite filtrar, puede limitar la respuesta a esas monedas.
	// El contexto debe llevar un timeout.
	LatestRates(ctx context.Context, base string, symbols ...string) (*RateQuote, error)
}
