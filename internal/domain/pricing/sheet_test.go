package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/internal/domain/pricing"
)

func TestNewSheet_ArrancaConUnaFilaVacia(t *testing.T) {
	s := pricing.NewSheet()
	require.Equal(t, 1, s.Len())

	it, ok := s.Item(0)
	require.True(t, ok)
	assert.Equal(t, 1, it.Quantity)
	assert.True(t, it.LineTotal.IsZero())
	assert.True(t, s.Totals().Total.IsZero())
}

func TestSheet_CadaCambioRecalcula(t *testing.T) {
	s := pricing.NewSheet()

	require.True(t, s.SetQuantity(0, 2))
	require.True(t, s.SetUnitPrice(0, d("100")))
	it, _ := s.Item(0)
	assert.Equal(t, "200.00", it.LineTotal.StringFixed(2))
	assert.Equal(t, "224.00", s.Totals().Total.StringFixed(2))

	require.True(t, s.SetDiscount(0, d("10")))
	it, _ = s.Item(0)
	assert.Equal(t, "180.00", it.LineTotal.StringFixed(2))
	assert.Equal(t, "180.00", s.Totals().Subtotal.StringFixed(2))
	assert.Equal(t, "21.60", s.Totals().Tax.StringFixed(2))
	assert.Equal(t, "201.60", s.Totals().Total.StringFixed(2))
}

// Escenario de edición: descuento de 0 a 50 con qty 1 y precio 50.
func TestSheet_EdicionCambiaDescuento(t *testing.T) {
	s := pricing.NewSheet(
		entity.LineItem{Quantity: 1, Description: "Cámara IP", UnitPrice: d("50"), DiscountPercent: d("0")},
		entity.LineItem{Quantity: 2, Description: "Cable", UnitPrice: d("10"), DiscountPercent: d("0")},
	)
	before, _ := s.Item(0)
	assert.Equal(t, "50.00", before.LineTotal.StringFixed(2))
	assert.Equal(t, "70.00", s.Totals().Subtotal.StringFixed(2))

	require.True(t, s.SetDiscount(0, d("50")))

	after, _ := s.Item(0)
	assert.Equal(t, "25.00", after.LineTotal.StringFixed(2))
	assert.Equal(t, "45.00", s.Totals().Subtotal.StringFixed(2))
	assert.Equal(t, "5.40", s.Totals().Tax.StringFixed(2))
	assert.Equal(t, "50.40", s.Totals().Total.StringFixed(2))
	assert.Equal(t, pricing.ComputeTotals(s.Items()), s.Totals())
}

func TestSheet_RemoveNoEliminaLaUltimaFila(t *testing.T) {
	s := pricing.NewSheet()
	assert.False(t, s.Remove(0))
	assert.Equal(t, 1, s.Len())

	s.Add()
	require.True(t, s.SetUnitPrice(1, d("10")))
	assert.True(t, s.Remove(1))
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Totals().Total.IsZero())
}

func TestSheet_IndiceFueraDeRango(t *testing.T) {
	s := pricing.NewSheet()
	assert.False(t, s.SetQuantity(5, 1))
	assert.False(t, s.SetDescription(-1, "x"))
	_, ok := s.Item(3)
	assert.False(t, ok)
}

func TestSheet_ItemsEsCopia(t *testing.T) {
	s := pricing.NewSheet(entity.LineItem{Quantity: 1, UnitPrice: d("10"), DiscountPercent: d("0")})
	items := s.Items()
	items[0].LineTotal = d("12345")

	it, _ := s.Item(0)
	assert.Equal(t, "10.00", it.LineTotal.StringFixed(2))
}

func TestNewSheet_RecalculaLineasCargadas(t *testing.T) {
	loaded := entity.LineItem{Quantity: 2, UnitPrice: d("100"), DiscountPercent: d("10"), LineTotal: d("1")}
	s := pricing.NewSheet(loaded)
	it, _ := s.Item(0)
	assert.Equal(t, "180.00", it.LineTotal.StringFixed(2))
}
