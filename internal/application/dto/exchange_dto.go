package dto

import "encoding/json"

// ExchangeRatesResponse tabla de tipos de cambio. Source es "live" o "cached".
type ExchangeRatesResponse struct {
	Base   string             `json:"base"`
	Rates  map[string]float64 `json:"rates"`
	Date   string             `json:"date"`
	Note   string             `json:"note,omitempty"`
	Source string             `json:"source"`
}

// ConvertCurrencyRequest entrada de conversión. Amount acepta número JSON o string numérico.
type ConvertCurrencyRequest struct {
	Amount       json.RawMessage `json:"amount" swaggertype:"number"`
	FromCurrency string          `json:"from_currency"`
	ToCurrency   string          `json:"to_currency"`
}

// ConvertCurrencyResponse resultado de la conversión.
type ConvertCurrencyResponse struct {
	OriginalAmount  float64 `json:"original_amount"`
	FromCurrency    string  `json:"from_currency"`
	ToCurrency      string  `json:"to_currency"`
	ConvertedAmount float64 `json:"converted_amount"`
	Rate            float64 `json:"rate"`
	Date            string  `json:"date"`
	Note            string  `json:"note,omitempty"`
	Source          string  `json:"source"`
}
