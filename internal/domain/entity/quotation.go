package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem representa una fila de la cotización.
// LineTotal es derivado: siempre se recalcula con pricing.LineTotal, nunca se edita directo.
type LineItem struct {
	Quantity        int
	Description     string
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal // 0..100
	LineTotal       decimal.Decimal
}

// Terms textos de cierre de la cotización (garantía, entrega, forma de pago...).
type Terms struct {
	Warranty      string
	DeliveryTime  string
	PaymentMethod string
	ElaboratedBy  string
	Observations  string
}

// Valores por defecto para cotizaciones nuevas.
const (
	DefaultWarranty      = "ÚNICAMENTE EN EQUIPOS, 12 MESES SOBRE DESPERFECTOS DE FÁBRICA EN DISPOSITIVOS."
	DefaultDeliveryTime  = "1-2 DÍAS HÁBILES"
	DefaultPaymentMethod = "50% Anticipo - 50% Contra entrega"
	DefaultElaboratedBy  = "Nombre del Vendedor"
	DefaultObservations  = "No se cubre garantía por daños provocados por energía eléctrica si no cuenta con la protección adecuada, " +
		"vandalismo, mal manejo de los equipos, o intervención de personal ajeno a Grupo AC. INCLUYE INSTALACIÓN DE EQUIPOS."
)

// DefaultTerms devuelve los términos iniciales de una cotización nueva.
// preparer es el nombre del usuario en sesión; si está vacío se usa el texto genérico.
func DefaultTerms(preparer string) Terms {
	if preparer == "" {
		preparer = DefaultElaboratedBy
	}
	return Terms{
		Warranty:      DefaultWarranty,
		DeliveryTime:  DefaultDeliveryTime,
		PaymentMethod: DefaultPaymentMethod,
		ElaboratedBy:  preparer,
		Observations:  DefaultObservations,
	}
}

// Quotation cabecera + líneas de una cotización.
// Subtotal/Tax/Total son la foto de los totales al momento de guardar.
type Quotation struct {
	ID        int64
	ClientID  int64
	Client    *Client // desnormalizado en lectura
	Items     []LineItem
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	Terms     Terms
	CreatedBy string // UID de quien la creó
	CreatedAt time.Time
	UpdatedAt time.Time
}

// QuotationStats agregados globales para el dashboard.
type QuotationStats struct {
	TotalAmount decimal.Decimal
	TotalCount  int64
}
