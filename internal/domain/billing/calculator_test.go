package billing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/negocio-pro/internal/domain/billing"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// ItemTotal aplica quantity × unitPrice × (1 − discount/100) × (1 + tax/100):
// el impuesto se calcula sobre el neto descontado (tax-on-net), nunca sobre
// el bruto. Vector de referencia:
//
//	2 × 100, desc 10%, imp 8% → 200 × 0.90 × 1.08 = 194.40
// ──────────────────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal {
	v, _ := decimal.NewFromString(s)
	return v
}

func TestItemTotal_VectorReferencia(t *testing.T) {
	total := billing.ItemTotal(d("2"), d("100"), d("10"), d("8"))
	assert.True(t, d("194.4").Equal(total),
		"2×100 con 10%% de descuento y 8%% de impuesto debe dar 194.40, obtuvo %s", total)
}

func TestItemTotal_SinDescuentoNiImpuesto(t *testing.T) {
	total := billing.ItemTotal(d("3"), d("50"), decimal.Zero, decimal.Zero)
	assert.True(t, d("150").Equal(total), "3×50 sin ajustes debe dar 150")
}

func TestItemTotal_ImpuestoSobreNetoNoSobreBruto(t *testing.T) {
	// Bruto 100, desc 50% → neto 50; imp 10% sobre 50 = 5 → 55.
	// Tax-on-gross daría 100×0.5 + 100×0.1 = 60.
	total := billing.ItemTotal(d("1"), d("100"), d("50"), d("10"))
	assert.True(t, d("55").Equal(total),
		"el impuesto debe aplicarse sobre el neto descontado: esperaba 55, obtuvo %s", total)
}

// ── Coerción de entradas fuera de rango ───────────────────────────────────────

func TestItemTotal_NegativosSeCoercionanACero(t *testing.T) {
	assert.True(t, billing.ItemTotal(d("-2"), d("100"), decimal.Zero, decimal.Zero).IsZero(),
		"cantidad negativa se trata como cero")
	assert.True(t, billing.ItemTotal(d("2"), d("-100"), decimal.Zero, decimal.Zero).IsZero(),
		"precio negativo se trata como cero")
}

func TestItemTotal_PorcentajesSeRestringenA0a100(t *testing.T) {
	// Descuento -5 → 0; descuento 150 → 100 (total cero).
	sinDescuento := billing.ItemTotal(d("1"), d("100"), d("-5"), decimal.Zero)
	assert.True(t, d("100").Equal(sinDescuento), "descuento negativo se trata como 0%")

	descuentoTotal := billing.ItemTotal(d("1"), d("100"), d("150"), decimal.Zero)
	assert.True(t, descuentoTotal.IsZero(), "descuento mayor a 100 se restringe a 100%")
}

// ── Compute: agregados sobre la lista de líneas ───────────────────────────────

func TestCompute_ListaVaciaTodoCero(t *testing.T) {
	totals := billing.Compute(nil)
	assert.True(t, totals.Subtotal.IsZero(), "subtotal de lista vacía debe ser cero")
	assert.True(t, totals.DiscountTotal.IsZero())
	assert.True(t, totals.TaxTotal.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestCompute_AgregadosYMutacionDeLineas(t *testing.T) {
	items := []*entity.DocumentItem{
		{Quantity: d("2"), UnitPrice: d("100"), DiscountPercent: d("10"), TaxPercent: d("8")},
		{Quantity: d("1"), UnitPrice: d("50")},
	}

	totals := billing.Compute(items)

	assert.True(t, d("194.4").Equal(items[0].Total), "Compute debe recalcular el total de cada línea")
	assert.True(t, d("50").Equal(items[1].Total))

	assert.True(t, d("250").Equal(totals.Subtotal), "subtotal = suma de brutos: 200 + 50")
	assert.True(t, d("20").Equal(totals.DiscountTotal), "descuento total: 200×10%")
	assert.True(t, d("14.4").Equal(totals.TaxTotal), "impuesto total: 180×8%")
	assert.True(t, d("244.4").Equal(totals.GrandTotal), "grand total: 194.40 + 50")
}

// TestCompute_OrdenIndependiente verifica que permutar las líneas produce los
// mismos agregados: la suma de contribuciones por línea es conmutativa.
func TestCompute_OrdenIndependiente(t *testing.T) {
	a := []*entity.DocumentItem{
		{Quantity: d("3"), UnitPrice: d("19.99"), TaxPercent: d("19")},
		{Quantity: d("1"), UnitPrice: d("7.5"), DiscountPercent: d("25")},
		{Quantity: d("10"), UnitPrice: d("0.33"), DiscountPercent: d("5"), TaxPercent: d("8")},
	}
	b := []*entity.DocumentItem{
		{Quantity: d("10"), UnitPrice: d("0.33"), DiscountPercent: d("5"), TaxPercent: d("8")},
		{Quantity: d("3"), UnitPrice: d("19.99"), TaxPercent: d("19")},
		{Quantity: d("1"), UnitPrice: d("7.5"), DiscountPercent: d("25")},
	}

	ta := billing.Compute(a)
	tb := billing.Compute(b)

	assert.True(t, ta.GrandTotal.Equal(tb.GrandTotal), "el orden de las líneas no debe afectar el grand total")
	assert.True(t, ta.TaxTotal.Equal(tb.TaxTotal))
	assert.True(t, ta.DiscountTotal.Equal(tb.DiscountTotal))
}

// TestCompute_SinRedondeoIntermedio verifica que los agregados suman las
// contribuciones exactas por línea, sin redondear línea por línea.
func TestCompute_SinRedondeoIntermedio(t *testing.T) {
	// Cada línea contribuye 0.333×3 = 0.999; tres líneas = 2.997 exacto.
	// Con redondeo por línea a 2 decimales daría 3.00.
	items := []*entity.DocumentItem{
		{Quantity: d("3"), UnitPrice: d("0.333")},
		{Quantity: d("3"), UnitPrice: d("0.333")},
		{Quantity: d("3"), UnitPrice: d("0.333")},
	}
	totals := billing.Compute(items)
	assert.True(t, d("2.997").Equal(totals.GrandTotal),
		"los agregados no deben redondear por línea: esperaba 2.997, obtuvo %s", totals.GrandTotal)
}
