// Package format convierte montos, correlativos y fechas a texto para pantalla y PDF.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// QuotationPrefix prefijo del correlativo de cotización.
const QuotationPrefix = "CO"

// Placeholder texto para valores ausentes.
const Placeholder = "---"

var printer = message.NewPrinter(language.AmericanEnglish)

// Guatemala zona de las fechas impresas. Sin horario de verano, así que el respaldo fijo UTC-6
// vale cuando el sistema no trae la base de zonas.
var Guatemala = loadGuatemala()

func loadGuatemala() *time.Location {
	if loc, err := time.LoadLocation("America/Guatemala"); err == nil {
		return loc
	}
	return time.FixedZone("CST", -6*60*60)
}

// QuotationCode convierte el ID numérico en el correlativo CO00007.
// IDs ausentes (cero o negativos) devuelven CO00000; IDs de más de 5 dígitos no se truncan.
func QuotationCode(id int64) string {
	if id <= 0 {
		return QuotationPrefix + "00000"
	}
	return fmt.Sprintf("%s%05d", QuotationPrefix, id)
}

// Currency formatea un monto en quetzales con separador de miles: Q 1,250.00
func Currency(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	grouped := groupThousands(intPart)
	return "Q " + sign + grouped + "." + frac
}

// Money formato corto sin separador de miles: Q180.00 (columna de total en el editor).
func Money(amount decimal.Decimal) string {
	return "Q" + amount.StringFixed(2)
}

// Fixed dos decimales sin símbolo (celda del total del PDF).
func Fixed(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Discount formatea el porcentaje de descuento: "10%", o "-" cuando no hay descuento.
func Discount(pct decimal.Decimal) string {
	if pct.IsZero() {
		return "-"
	}
	return pct.String() + "%"
}

// Date fecha corta es-GT (d/M/yyyy) en hora de Guatemala. La fecha cero devuelve "---".
func Date(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	t = t.In(Guatemala)
	return fmt.Sprintf("%d/%d/%d", t.Day(), int(t.Month()), t.Year())
}

// NonEmpty devuelve fallback si s está vacío.
func NonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// groupThousands agrupa la parte entera con comas usando el printer en-US.
func groupThousands(intPart string) string {
	n, err := decimal.NewFromString(intPart)
	if err != nil || !n.IsInteger() {
		return intPart
	}
	if n.BigInt().IsInt64() {
		return printer.Sprintf("%d", n.IntPart())
	}
	// Fuera de int64: agrupación manual.
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}
