// Package pdf implementa la generación del PDF de documentos de negocio
// (facturas, estimados, cotizaciones, contratos, órdenes de trabajo,
// licitaciones y propuestas) a partir del modelo renderizable.
//
// Layout de la página A4 (secciones opcionales se omiten):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + contacto  │  Tipo + N° + Fechas          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BILL TO: Nombre + contacto del cliente                     │
//	│  CUERPO: Título + descripción                               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Desc% | Imp% | Total  │
//	│  TOTALES: Subtotal / Descuento / Impuestos / TOTAL          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  NOTAS / TÉRMINOS                                           │
//	│  BLOQUE DE FIRMAS (contract, estimate, quote)               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tu-usuario/negocio-pro/internal/application/documents"
	"github.com/tu-usuario/negocio-pro/internal/application/signing"
)

// Verificar en tiempo de compilación que implementa el puerto.
var _ signing.DocumentPDFGenerator = (*MarotoDocumentGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoDocumentGenerator implementa signing.DocumentPDFGenerator usando Maroto v2.
type MarotoDocumentGenerator struct{}

// NewMarotoDocumentGenerator construye el generador.
func NewMarotoDocumentGenerator() *MarotoDocumentGenerator { return &MarotoDocumentGenerator{} }

// Generate genera el PDF del documento y devuelve sus bytes.
func (g *MarotoDocumentGenerator) Generate(_ context.Context, render *documents.DocumentRender) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(render.Header.DocTypeLabel+" "+render.Header.Number, true).
		WithAuthor(render.Header.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(render.Header))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if render.BillTo != nil {
		m.AddRows(billToRow(render.BillTo))
	}
	m.AddRows(bodyRows(render.Body)...)

	if len(render.Items) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(tableHeaderRow())
		for _, r := range tableItemRows(render.Items) {
			m.AddRows(r)
		}
		if render.Totals != nil {
			m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
			m.AddRows(totalsRow(render.Totals))
		}
	}

	if render.Notes != "" {
		m.AddRows(sectionRows("NOTAS", render.Notes)...)
	}
	if render.Terms != "" {
		m.AddRows(sectionRows("TÉRMINOS Y CONDICIONES", render.Terms)...)
	}

	if render.SignatureBlock {
		m.AddRows(line.NewRow(3))
		m.AddRows(signatureBlockRows()...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: identidad del emisor (izq) y tipo + número + fechas (der).
func headerRow(h documents.RenderHeader) core.Row {
	contact := fmt.Sprintf("%s   |   %s   |   %s",
		nonEmpty(h.CompanyAddress, "—"),
		nonEmpty(h.CompanyPhone, "—"),
		nonEmpty(h.CompanyEmail, "—"),
	)

	right := []core.Component{
		text.New(h.DocTypeLabel, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right,
			Color: colorPrimary, Top: 1,
		}),
		text.New(h.Number, props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
		}),
		text.New("Fecha: "+h.IssueDate, props.Text{
			Size: 8, Align: align.Right, Top: 14, Color: colorGray,
		}),
	}
	if h.DueDate != "" {
		right = append(right, text.New("Vence: "+h.DueDate, props.Text{
			Size: 8, Align: align.Right, Top: 18, Color: colorGray,
		}))
	}

	left := []core.Component{
		text.New(h.CompanyName, props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
		}),
	}
	if h.CompanyTaxID != "" {
		left = append(left, text.New("Tax ID: "+h.CompanyTaxID, props.Text{
			Size: 9, Top: 9, Color: colorGray,
		}))
	}
	left = append(left, text.New(contact, props.Text{
		Size: 7.5, Top: 15, Color: colorGray,
	}))

	return row.New(22).Add(
		col.New(7).Add(left...),
		col.New(5).Add(right...),
	)
}

// billToRow: bloque de identidad del cliente.
func billToRow(b *documents.RenderBillTo) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(b.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("%s   |   %s   |   %s",
				nonEmpty(b.Email, "—"),
				nonEmpty(b.Phone, "—"),
				nonEmpty(b.Address, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// bodyRows: título + descripción del documento.
func bodyRows(b documents.RenderBody) []core.Row {
	rows := []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New(b.Title, props.Text{Style: fontstyle.Bold, Size: 11, Top: 1}),
		)),
	}
	if b.Description != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New(b.Description, props.Text{Size: 8.5, Top: 1, Color: colorGray}),
		)))
	}
	return rows
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 4, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Desc%", 1, align.Center),
		h("Imp%", 1, align.Center),
		h("Total", 3, align.Right),
	)
}

// tableItemRows: una fila por línea del documento.
func tableItemRows(items []documents.RenderItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.Name
		if it.Description != "" {
			name += " — " + it.Description
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(text.New(
				name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.UnitPrice,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				it.DiscountPercent,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				it.TaxPercent,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				it.Total,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(t *documents.RenderTotals) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(30).Add(
		col.New(3), // espacio izquierdo
		col.New(3).Add(
			label("Subtotal:"),
			label("Descuento:"),
			label("Impuestos:"),
			grandLabel("TOTAL:"),
		),
		col.New(3).Add(
			value(t.Subtotal),
			value(t.DiscountTotal),
			value(t.TaxTotal),
			grandValue(t.GrandTotal),
		),
		col.New(3), // espacio derecho
	)
}

// sectionRows: sección de texto libre con título (notas, términos).
func sectionRows(title, body string) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
			}),
		)),
		row.New(10).Add(col.New(12).Add(
			text.New(body, props.Text{Size: 8, Top: 1, Color: colorGray}),
		)),
	}
}

// signatureBlockRows: líneas de firma del cliente y del emisor.
func signatureBlockRows() []core.Row {
	sig := func(label string) core.Col {
		return col.New(5).Add(
			text.New("____________________________", props.Text{
				Size: 9, Align: align.Center, Top: 6,
			}),
			text.New(label, props.Text{
				Size: 8, Align: align.Center, Top: 12, Color: colorGray,
			}),
		)
	}
	return []core.Row{
		row.New(20).Add(
			col.New(1),
			sig("Firma del cliente / Fecha"),
			sig("Firma autorizada / Fecha"),
			col.New(1),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
