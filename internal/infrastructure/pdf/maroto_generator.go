// Package pdf genera el documento imprimible de una cotización.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  CABECERA (cada página): No. / Cliente / Fecha / Dirección / │
//	│  NIT                                   │  Logo   Página x / y│
//	│  TABLA (cabecera repetida): Cant | Descripción | P.Unit |    │
//	│  Desc. | P.Total                                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL.  Q0.00                                               │
//	│  Garantía / Entrega / Forma pago / Elaborado / Observaciones │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIE (cada página): dirección | teléfono                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/cotizador/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorAccent = &props.Color{Red: 255, Green: 77, Blue: 0} // #ff4d00
	colorGray   = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite  = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoQuotationGenerator genera el PDF de una cotización con Maroto v2.
type MarotoQuotationGenerator struct {
	company CompanyInfo
}

// NewMarotoQuotationGenerator construye el generador con los datos del emisor.
func NewMarotoQuotationGenerator(company CompanyInfo) *MarotoQuotationGenerator {
	return &MarotoQuotationGenerator{company: company}
}

// Generate devuelve los bytes del PDF.
func (g *MarotoQuotationGenerator) Generate(_ context.Context, q *entity.Quotation) ([]byte, error) {
	if q == nil {
		return nil, fmt.Errorf("pdf: cotización nil")
	}
	l := BuildLayout(q, g.company)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(14).WithRightMargin(14).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cotización "+l.Header.Code, true).
		WithAuthor(g.company.Name, true).
		WithPageNumber(props.PageNumber{
			Pattern: PageIndicatorPattern,
			Place:   props.RightTop,
			Size:    8,
			Color:   colorGray,
		}).
		Build()

	m := maroto.New(cfg)

	header := append(headerRows(l.Header, g.company), tableHeaderRow())
	if err := m.RegisterHeader(header...); err != nil {
		return nil, fmt.Errorf("pdf: registrar cabecera: %w", err)
	}
	if err := m.RegisterFooter(footerRow(l.Footer)); err != nil {
		return nil, fmt.Errorf("pdf: registrar pie: %w", err)
	}

	// cada fila es una unidad: maroto nunca la parte entre páginas
	for _, r := range l.Rows {
		m.AddRows(itemRow(r))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorAccent, Thickness: 0.4}))
	m.AddRows(totalRow(l.GrandTotal))
	m.AddRows(row.New(4))
	m.AddRows(closingRows(l.Closing)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRows: datos de la cotización (izq) y logo (der).
func headerRows(h Header, company CompanyInfo) []core.Row {
	info := func(label, value string, top float64) []core.Component {
		return []core.Component{
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Top: top}),
			text.New(value, props.Text{Size: 9, Top: top, Left: 22}),
		}
	}

	left := col.New(8)
	left.Add(text.New("No.", props.Text{Style: fontstyle.Bold, Size: 12, Color: colorAccent, Top: 4}))
	left.Add(text.New(h.Code, props.Text{Style: fontstyle.Bold, Size: 12, Top: 4, Left: 22}))
	left.Add(info("Cliente:", h.ClientName, 11)...)
	left.Add(info("Fecha:", h.IssueDate, 16)...)
	left.Add(info("Dirección:", h.ClientAddress, 21)...)
	left.Add(info("NIT:", h.ClientTaxID, 26)...)

	right := col.New(4)
	if company.Logo != "" {
		right.Add(image.NewFromFile(company.Logo, props.Rect{Percent: 80, Center: true, Top: 6}))
	} else {
		right.Add(text.New(company.Name, props.Text{
			Style: fontstyle.Bold, Size: 14, Align: align.Right, Color: colorAccent, Top: 10,
		}))
	}

	return []core.Row{
		row.New(34).Add(left, right),
		row.New(3),
	}
}

// tableHeaderRow: cabecera naranja, se repite en cada página.
func tableHeaderRow() core.Row {
	cols := make([]core.Col, 0, len(Columns))
	for i, c := range Columns {
		a := align.Center
		switch i {
		case 1:
			a = align.Left
		case 2, 4:
			a = align.Right
		}
		cols = append(cols, col.New(c.Width).Add(text.New(c.Label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2.5, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorAccent})
}

// itemRow: una línea de la cotización. Sin alto fijo: maroto mide el texto y la fila crece
// con las descripciones largas en lugar de encimarse con la siguiente.
func itemRow(r Row) core.Row {
	return row.New().Add(
		col.New(Columns[0].Width).Add(text.New(r.Quantity, props.Text{Size: 8, Align: align.Center, Top: 2})),
		col.New(Columns[1].Width).Add(text.New(r.Description, props.Text{Size: 8, Align: align.Left, Top: 2, Left: 1})),
		col.New(Columns[2].Width).Add(text.New(r.UnitPrice, props.Text{Size: 8, Align: align.Right, Top: 2, Right: 1})),
		col.New(Columns[3].Width).Add(text.New(r.Discount, props.Text{Size: 8, Align: align.Center, Top: 2})),
		col.New(Columns[4].Width).Add(text.New(r.LineTotal, props.Text{Size: 8, Align: align.Right, Top: 2, Right: 1})),
	)
}

// totalRow: solo el total general; subtotal e IVA no se imprimen.
func totalRow(total string) core.Row {
	return row.New(9).Add(
		col.New(8),
		col.New(2).Add(text.New("TOTAL.", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorWhite, Top: 2,
		})).WithStyle(&props.Cell{BackgroundColor: colorAccent}),
		col.New(2).Add(text.New(total, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2, Right: 1,
		})),
	)
}

// closingRows: garantía, entrega, forma de pago, elaborado y observaciones.
func closingRows(c Closing) []core.Row {
	term := func(label, value string) core.Row {
		return row.New(6).Add(
			col.New(2).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
			col.New(10).Add(text.New(value, props.Text{Size: 8, Top: 1})),
		)
	}
	rows := []core.Row{
		term("Garantía:", c.Warranty),
		term("Entrega:", c.DeliveryTime),
		term("Forma pago:", c.PaymentMethod),
		term("Elaborado:", c.ElaboratedBy),
	}
	if c.Observations != "" {
		rows = append(rows,
			row.New(3),
			row.New().Add(col.New(12).Add(text.New(c.Observations, props.Text{
				Size: 7, Color: colorGray, Top: 1,
			}))),
		)
	}
	return rows
}

// footerRow: contacto fijo al pie de cada página.
func footerRow(contact string) core.Row {
	return row.New(8).Add(col.New(12).Add(text.New(contact, props.Text{
		Size: 8, Align: align.Center, Color: colorGray, Top: 3,
	})))
}
