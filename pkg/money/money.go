// Package money formatea montos para presentación: símbolo de moneda +
// dos decimales. Cambiar la moneda de un documento solo cambia el formato,
// nunca recalcula valores (no hay conversión FX).
package money

import "github.com/shopspring/decimal"

// symbols mapea códigos ISO 4217 a su símbolo de presentación.
var symbols = map[string]string{
	"USD": "$",
	"CAD": "C$",
	"EUR": "€",
	"GBP": "£",
	"MXN": "$",
	"COP": "$",
	"AUD": "A$",
}

// Symbol devuelve el símbolo de la moneda, o el código + espacio si no está
// en la tabla ("CHF 12.00").
func Symbol(currency string) string {
	if s, ok := symbols[currency]; ok {
		return s
	}
	if currency == "" {
		return "$"
	}
	return currency + " "
}

// Format devuelve el monto con símbolo y dos decimales ("$194.40").
// El redondeo a precisión de moneda ocurre aquí y solo aquí.
func Format(currency string, amount decimal.Decimal) string {
	return Symbol(currency) + amount.StringFixed(2)
}
