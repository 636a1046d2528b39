package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocType es la variante de documento de negocio. Cada variante vive en su
// propia tabla (no comparten tabla común); el resolver de persistencia mapea
// la variante a (tabla, campo de numeración).
type DocType string

const (
	DocTypeInvoice   DocType = "invoice"
	DocTypeEstimate  DocType = "estimate"
	DocTypeQuote     DocType = "quote"
	DocTypeContract  DocType = "contract"
	DocTypeWorkOrder DocType = "work_order"
	DocTypeBid       DocType = "bid"
	DocTypeProposal  DocType = "proposal"
)

// AllDocTypes en el orden de sondeo del token público: invoice primero
// (first-table-wins cuando un token coincide en más de una tabla).
var AllDocTypes = []DocType{
	DocTypeInvoice,
	DocTypeEstimate,
	DocTypeQuote,
	DocTypeContract,
	DocTypeWorkOrder,
	DocTypeBid,
	DocTypeProposal,
}

// Valid reporta si la variante pertenece al conjunto cerrado.
func (t DocType) Valid() bool {
	for _, dt := range AllDocTypes {
		if t == dt {
			return true
		}
	}
	return false
}

// NeedsSignatureBlock indica si la representación impresa lleva bloque de
// firmas de dos partes (solo contract, estimate y quote).
func (t DocType) NeedsSignatureBlock() bool {
	return t == DocTypeContract || t == DocTypeEstimate || t == DocTypeQuote
}

// Document representa la cabecera de cualquier documento de negocio
// (factura, cotización, contrato, etc.). Nunca se borra físicamente; el
// status se actualiza in place.
type Document struct {
	ID                string
	CompanyID         string
	UserID            string
	ClientID          string
	DocType           DocType
	Number            string
	Title             string
	Description       string
	Status            string // ver internal/domain/status
	Currency          string // solo afecta el formato de presentación
	Subtotal          decimal.Decimal
	DiscountTotal     decimal.Decimal
	TaxTotal          decimal.Decimal
	GrandTotal        decimal.Decimal
	Notes             string
	Terms             string
	IssueDate         time.Time
	DueDate           *time.Time
	TrackingToken     string // capability opaca para el endpoint público de tracking
	SignNowDocumentID string // ID del documento en el proveedor de firma
	SignedAt          *time.Time
	SignedDocumentURL string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
