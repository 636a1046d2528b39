package documents

import (
	"github.com/tu-usuario/negocio-pro/internal/domain/billing"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	"github.com/tu-usuario/negocio-pro/pkg/money"
)

// DocumentRender es el modelo renderizable de un documento, con orden de
// secciones fijo: header, bill-to, cuerpo, tabla de líneas + fila de
// totales, notas, términos y bloque de firmas. Las secciones opcionales
// ausentes se omiten (punteros nil / strings vacíos), nunca se rellenan con
// placeholders. Transformación pura: el generador PDF lo consume tal cual.
type DocumentRender struct {
	Header         RenderHeader
	BillTo         *RenderBillTo // nil si el documento no tiene cliente
	Body           RenderBody
	Items          []RenderItem // vacío → sin tabla ni fila de totales
	Totals         *RenderTotals
	Notes          string
	Terms          string
	SignatureBlock bool // solo contract, estimate y quote
}

// RenderHeader identidad del emisor + tipo/número/fechas del documento.
type RenderHeader struct {
	CompanyName    string
	CompanyTaxID   string
	CompanyEmail   string
	CompanyPhone   string
	CompanyAddress string
	DocTypeLabel   string
	Number         string
	IssueDate      string
	DueDate        string // vacío si no hay fecha de vencimiento
}

// RenderBillTo bloque de identidad del cliente.
type RenderBillTo struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// RenderBody título/estado/descripción.
type RenderBody struct {
	Title       string
	Status      string
	Description string
}

// RenderItem línea formateada para la tabla.
type RenderItem struct {
	Name            string
	Description     string
	Quantity        string
	UnitPrice       string
	DiscountPercent string
	TaxPercent      string
	Total           string
}

// RenderTotals fila única de totales al final de la tabla. Todos los montos
// pasan por el mismo formateador de moneda que las líneas, garantizando
// consistencia visual entre formulario y artefacto generado.
type RenderTotals struct {
	Subtotal      string
	DiscountTotal string
	TaxTotal      string
	GrandTotal    string
}

// docTypeLabels etiquetas de presentación por variante.
var docTypeLabels = map[entity.DocType]string{
	entity.DocTypeInvoice:   "INVOICE",
	entity.DocTypeEstimate:  "ESTIMATE",
	entity.DocTypeQuote:     "QUOTE",
	entity.DocTypeContract:  "CONTRACT",
	entity.DocTypeWorkOrder: "WORK ORDER",
	entity.DocTypeBid:       "BID",
	entity.DocTypeProposal:  "PROPOSAL",
}

const renderDateFormat = "02/01/2006"

// BuildRender arma el modelo renderizable. client puede ser nil (el bloque
// bill-to se omite); items vacío omite tabla y totales.
func BuildRender(doc *entity.Document, company *entity.Company, client *entity.Client, items []*entity.DocumentItem) *DocumentRender {
	r := &DocumentRender{
		Header: RenderHeader{
			CompanyName:    company.Name,
			CompanyTaxID:   company.TaxID,
			CompanyEmail:   company.Email,
			CompanyPhone:   company.Phone,
			CompanyAddress: company.Address,
			DocTypeLabel:   docTypeLabels[doc.DocType],
			Number:         doc.Number,
			IssueDate:      doc.IssueDate.Format(renderDateFormat),
		},
		Body: RenderBody{
			Title:       doc.Title,
			Status:      doc.Status,
			Description: doc.Description,
		},
		Notes:          doc.Notes,
		Terms:          doc.Terms,
		SignatureBlock: doc.DocType.NeedsSignatureBlock(),
	}
	if doc.DueDate != nil {
		r.Header.DueDate = doc.DueDate.Format(renderDateFormat)
	}

	if client != nil {
		r.BillTo = &RenderBillTo{
			Name:    client.Name,
			Email:   client.Email,
			Phone:   client.Phone,
			Address: client.Address,
		}
	}

	if len(items) == 0 {
		return r // sin tabla de cero filas
	}

	totals := billing.Compute(items)
	for _, it := range items {
		r.Items = append(r.Items, RenderItem{
			Name:            it.Name,
			Description:     it.Description,
			Quantity:        it.Quantity.String(),
			UnitPrice:       money.Format(doc.Currency, it.UnitPrice),
			DiscountPercent: it.DiscountPercent.StringFixed(0) + "%",
			TaxPercent:      it.TaxPercent.StringFixed(0) + "%",
			Total:           money.Format(doc.Currency, it.Total),
		})
	}
	r.Totals = &RenderTotals{
		Subtotal:      money.Format(doc.Currency, totals.Subtotal),
		DiscountTotal: money.Format(doc.Currency, totals.DiscountTotal),
		TaxTotal:      money.Format(doc.Currency, totals.TaxTotal),
		GrandTotal:    money.Format(doc.Currency, totals.GrandTotal),
	}
	return r
}
