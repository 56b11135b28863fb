package pdf

import (
	"strconv"

	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/internal/domain/pricing"
	"github.com/jhoicas/cotizador/pkg/format"
)

// CompanyInfo datos fijos del emisor impresos en el documento.
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
	Logo    string // ruta a PNG/JPG; vacío = sin logo
}

// FooterLine línea de contacto del pie de página.
func (c CompanyInfo) FooterLine() string {
	return c.Address + " | Tel. " + c.Phone
}

// Column columna de la tabla; los anchos suman la grilla de 12.
type Column struct {
	Label string
	Width int
}

// Columnas de la tabla de líneas, en orden.
var Columns = []Column{
	{Label: "Cantidad", Width: 1},
	{Label: "Descripción", Width: 6},
	{Label: "P.Unitario", Width: 2},
	{Label: "Desc.", Width: 1},
	{Label: "P.Total", Width: 2},
}

// PageIndicatorPattern se repite en la cabecera de cada página.
const PageIndicatorPattern = "Página {current} / {total}"

// Header bloque que se repite en cada página.
type Header struct {
	Code          string
	ClientName    string
	ClientAddress string
	ClientTaxID   string
	IssueDate     string
}

// Row una línea de la tabla ya formateada.
type Row struct {
	Quantity    string
	Description string
	UnitPrice   string
	Discount    string
	LineTotal   string
}

// Closing bloque de cierre con los términos.
type Closing struct {
	Warranty      string
	DeliveryTime  string
	PaymentMethod string
	ElaboratedBy  string
	Observations  string
}

// Layout contenido del documento, independiente de la librería de PDF.
type Layout struct {
	Header     Header
	Rows       []Row
	GrandTotal string
	Closing    Closing
	Footer     string
	Filename   string
}

// BuildLayout arma el contenido del documento. Los totales de línea se recalculan
// con el motor de precios; el total del documento es la foto guardada.
func BuildLayout(q *entity.Quotation, company CompanyInfo) Layout {
	l := Layout{
		Header: Header{
			Code:      format.QuotationCode(q.ID),
			IssueDate: format.Date(q.CreatedAt),
		},
		GrandTotal: format.Money(q.Total),
		Closing: Closing{
			Warranty:      q.Terms.Warranty,
			DeliveryTime:  q.Terms.DeliveryTime,
			PaymentMethod: q.Terms.PaymentMethod,
			ElaboratedBy:  q.Terms.ElaboratedBy,
			Observations:  q.Terms.Observations,
		},
		Footer:   company.FooterLine(),
		Filename: Filename(q.ID),
	}
	if c := q.Client; c != nil {
		l.Header.ClientName = c.Name
		l.Header.ClientAddress = c.Address
		l.Header.ClientTaxID = c.TaxID
	}

	items := pricing.Recompute(q.Items)
	l.Rows = make([]Row, 0, len(items))
	for _, it := range items {
		l.Rows = append(l.Rows, Row{
			Quantity:    strconv.Itoa(it.Quantity),
			Description: it.Description,
			UnitPrice:   format.Currency(it.UnitPrice),
			Discount:    format.Discount(it.DiscountPercent),
			LineTotal:   format.Currency(it.LineTotal),
		})
	}
	return l
}

// Filename nombre de descarga: cotizacion_CO00007.pdf.
func Filename(id int64) string {
	return "cotizacion_" + format.QuotationCode(id) + ".pdf"
}
