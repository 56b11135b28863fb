package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cotizador/internal/domain/entity"
)

// Sheet lista editable de líneas de una cotización.
// Cada mutación recalcula el total de la línea y los totales del documento,
// así que Items() y Totals() siempre son consistentes entre sí.
type Sheet struct {
	items  []entity.LineItem
	totals Totals
}

// NewItem línea vacía con la que arranca el formulario (cantidad 1).
func NewItem() entity.LineItem {
	return entity.LineItem{
		Quantity:        1,
		UnitPrice:       decimal.Zero,
		DiscountPercent: decimal.Zero,
		LineTotal:       decimal.Zero,
	}
}

// NewSheet construye la hoja con las líneas dadas; sin líneas arranca con una vacía.
func NewSheet(items ...entity.LineItem) *Sheet {
	s := &Sheet{}
	if len(items) == 0 {
		s.items = []entity.LineItem{NewItem()}
	} else {
		s.items = Recompute(items)
	}
	s.totals = ComputeTotals(s.items)
	return s
}

// Len cantidad de filas.
func (s *Sheet) Len() int { return len(s.items) }

// Add agrega una fila vacía al final.
func (s *Sheet) Add() {
	s.items = append(s.items, NewItem())
	s.recompute()
}

// Remove elimina la fila i. La última fila restante no se elimina.
func (s *Sheet) Remove(i int) bool {
	if len(s.items) <= 1 || !s.inRange(i) {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.recompute()
	return true
}

// SetQuantity cambia la cantidad de la fila i.
func (s *Sheet) SetQuantity(i, quantity int) bool {
	return s.update(i, func(it *entity.LineItem) { it.Quantity = quantity })
}

// SetDescription cambia la descripción de la fila i.
func (s *Sheet) SetDescription(i int, description string) bool {
	return s.update(i, func(it *entity.LineItem) { it.Description = description })
}

// SetUnitPrice cambia el precio unitario de la fila i.
func (s *Sheet) SetUnitPrice(i int, price decimal.Decimal) bool {
	return s.update(i, func(it *entity.LineItem) { it.UnitPrice = price })
}

// SetDiscount cambia el porcentaje de descuento de la fila i.
func (s *Sheet) SetDiscount(i int, pct decimal.Decimal) bool {
	return s.update(i, func(it *entity.LineItem) { it.DiscountPercent = pct })
}

// Item devuelve una copia de la fila i.
func (s *Sheet) Item(i int) (entity.LineItem, bool) {
	if !s.inRange(i) {
		return entity.LineItem{}, false
	}
	return s.items[i], true
}

// Items copia de las filas con sus totales de línea al día.
func (s *Sheet) Items() []entity.LineItem {
	out := make([]entity.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Totals totales del documento para el estado actual de la hoja.
func (s *Sheet) Totals() Totals { return s.totals }

func (s *Sheet) update(i int, fn func(it *entity.LineItem)) bool {
	if !s.inRange(i) {
		return false
	}
	fn(&s.items[i])
	s.recompute()
	return true
}

func (s *Sheet) recompute() {
	for i := range s.items {
		it := &s.items[i]
		it.LineTotal = LineTotal(it.Quantity, it.UnitPrice, it.DiscountPercent)
	}
	s.totals = ComputeTotals(s.items)
}

func (s *Sheet) inRange(i int) bool { return i >= 0 && i < len(s.items) }
