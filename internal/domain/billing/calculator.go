// Package billing implementa el cálculo puro de líneas y totales de un
// documento: cantidad × precio, descuento y, sobre el neto descontado, el
// impuesto (tax-on-net, no tax-on-gross).
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals agrega las contribuciones de todas las líneas. Cada campo es la
// suma de los valores por línea sin redondear; se redondea una sola vez en
// presentación para evitar distorsión por doble redondeo cuando las líneas
// tienen tasas heterogéneas.
type Totals struct {
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
}

// sanitize coacciona valores negativos a cero y restringe porcentajes a
// [0,100]; nunca se propaga un valor fuera de rango a los totales.
func sanitize(v decimal.Decimal) decimal.Decimal {
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}

func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.IsNegative() {
		return decimal.Zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}

// ItemTotal calcula el total de una línea:
// quantity*unitPrice*(1-discount/100)*(1+tax/100).
func ItemTotal(quantity, unitPrice, discountPercent, taxPercent decimal.Decimal) decimal.Decimal {
	qty := sanitize(quantity)
	price := sanitize(unitPrice)
	disc := clampPercent(discountPercent)
	tax := clampPercent(taxPercent)

	gross := qty.Mul(price)
	net := gross.Mul(decimal.NewFromInt(1).Sub(disc.Div(hundred)))
	return net.Mul(decimal.NewFromInt(1).Add(tax.Div(hundred)))
}

// Compute recalcula el total de cada línea (mutando item.Total) y devuelve
// los agregados. Lista vacía → totales en cero.
func Compute(items []*entity.DocumentItem) Totals {
	var t Totals
	t.Subtotal = decimal.Zero
	t.DiscountTotal = decimal.Zero
	t.TaxTotal = decimal.Zero
	t.GrandTotal = decimal.Zero

	for _, item := range items {
		qty := sanitize(item.Quantity)
		price := sanitize(item.UnitPrice)
		disc := clampPercent(item.DiscountPercent)
		tax := clampPercent(item.TaxPercent)

		gross := qty.Mul(price)
		discountAmount := gross.Mul(disc.Div(hundred))
		net := gross.Sub(discountAmount)
		taxAmount := net.Mul(tax.Div(hundred))

		item.Total = net.Add(taxAmount)

		// Los agregados son la suma de contribuciones por línea, no un
		// recálculo desde porcentajes agregados.
		t.Subtotal = t.Subtotal.Add(gross)
		t.DiscountTotal = t.DiscountTotal.Add(discountAmount)
		t.TaxTotal = t.TaxTotal.Add(taxAmount)
		t.GrandTotal = t.GrandTotal.Add(item.Total)
	}
	return t
}
