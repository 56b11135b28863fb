// Package pricing calcula totales de línea y de documento de una cotización.
//
//	LineTotal = Cantidad * (PrecioUnit - PrecioUnit * Descuento/100)
//	Subtotal  = Σ LineTotal
//	IVA       = Subtotal * 0.12
//	Total     = Subtotal + IVA
//
// Las funciones son puras y no redondean; el redondeo a centavos es solo de presentación.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/internal/domain/entity"
)

var (
	// TaxRate IVA Guatemala (12%). Fijo por cotización.
	TaxRate = decimal.RequireFromString("0.12")

	hundred        = decimal.NewFromInt(100)
	maxDiscountPct = hundred
)

// Totals totales del documento.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// LineTotal aplica el descuento por unidad y luego multiplica por la cantidad.
func LineTotal(quantity int, unitPrice, discountPercent decimal.Decimal) decimal.Decimal {
	discount := unitPrice.Mul(discountPercent).Div(hundred)
	return decimal.NewFromInt(int64(quantity)).Mul(unitPrice.Sub(discount))
}

// ComputeTotals recalcula los totales desde cantidad, precio y descuento de cada línea.
// No lee item.LineTotal: un valor viejo guardado en la línea no puede contaminar el total.
func ComputeTotals(items []entity.LineItem) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(LineTotal(it.Quantity, it.UnitPrice, it.DiscountPercent))
	}
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// Recompute devuelve una copia de items con LineTotal recalculado en cada línea.
func Recompute(items []entity.LineItem) []entity.LineItem {
	out := make([]entity.LineItem, len(items))
	for i, it := range items {
		it.LineTotal = LineTotal(it.Quantity, it.UnitPrice, it.DiscountPercent)
		out[i] = it
	}
	return out
}

// Validate revisa los límites de una línea: cantidad y precio no negativos,
// descuento entre 0 y 100. Los cálculos no lo exigen; lo exige quien persiste.
func Validate(item entity.LineItem) error {
	if item.Quantity < 0 {
		return fmt.Errorf("%w: cantidad negativa (%d)", domain.ErrInvalidInput, item.Quantity)
	}
	if item.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: precio unitario negativo (%s)", domain.ErrInvalidInput, item.UnitPrice)
	}
	if item.DiscountPercent.IsNegative() || item.DiscountPercent.GreaterThan(maxDiscountPct) {
		return fmt.Errorf("%w: descuento fuera de rango (%s%%)", domain.ErrInvalidInput, item.DiscountPercent)
	}
	return nil
}

// ValidateAll valida todas las líneas e indica la primera fila inválida (base 1).
func ValidateAll(items []entity.LineItem) error {
	for i, it := range items {
		if err := Validate(it); err != nil {
			return fmt.Errorf("fila %d: %w", i+1, err)
		}
	}
	return nil
}

// Matches compara dos fotos de totales redondeadas a centavos.
func (t Totals) Matches(other Totals) bool {
	return t.Subtotal.Round(2).Equal(other.Subtotal.Round(2)) &&
		t.Tax.Round(2).Equal(other.Tax.Round(2)) &&
		t.Total.Round(2).Equal(other.Total.Round(2))
}
