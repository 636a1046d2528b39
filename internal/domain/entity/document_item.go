package entity

import "github.com/shopspring/decimal"

// DocumentItem representa una línea de un documento. Total es derivado:
// quantity*unit_price*(1-discount/100)*(1+tax/100), sin redondear; el
// redondeo a 2 decimales ocurre únicamente en presentación.
type DocumentItem struct {
	ID              string
	DocumentID      string
	Name            string
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal // 0..100
	TaxPercent      decimal.Decimal // 0..100
	Total           decimal.Decimal
}
