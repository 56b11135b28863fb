package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cotizador/internal/domain"
	"github.com/jhoicas/cotizador/internal/domain/entity"
	"github.com/jhoicas/cotizador/internal/domain/pricing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func item(qty int, price, disc string) entity.LineItem {
	return entity.LineItem{Quantity: qty, UnitPrice: d(price), DiscountPercent: d(disc)}
}

func TestLineTotal_Formula(t *testing.T) {
	cases := []struct {
		name  string
		qty   int
		price string
		disc  string
		want  string
	}{
		{"sin descuento", 3, "50", "0", "150"},
		{"descuento 10%", 2, "100", "10", "180"},
		{"descuento total", 4, "25.50", "100", "0"},
		{"cantidad cero", 0, "999.99", "15", "0"},
		{"decimales", 3, "19.99", "12.5", "52.473750"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := pricing.LineTotal(tc.qty, d(tc.price), d(tc.disc))
			assert.True(t, d(tc.want).Equal(got), "esperado %s, obtenido %s", tc.want, got)
		})
	}
}

func TestLineTotal_Idempotente(t *testing.T) {
	a := pricing.LineTotal(7, d("13.37"), d("33"))
	b := pricing.LineTotal(7, d("13.37"), d("33"))
	assert.True(t, a.Equal(b))
}

func TestComputeTotals_ListaVacia(t *testing.T) {
	got := pricing.ComputeTotals(nil)
	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Tax.IsZero())
	assert.True(t, got.Total.IsZero())
}

func TestComputeTotals_SumaYTasa(t *testing.T) {
	items := []entity.LineItem{
		item(2, "100", "10"), // 180
		item(1, "50", "0"),   // 50
		item(3, "10", "50"),  // 15
	}
	got := pricing.ComputeTotals(items)

	assert.True(t, d("245").Equal(got.Subtotal))
	assert.True(t, got.Subtotal.Mul(pricing.TaxRate).Equal(got.Tax))
	assert.True(t, got.Subtotal.Add(got.Tax).Equal(got.Total))
	assert.True(t, d("29.4").Equal(got.Tax))
	assert.True(t, d("274.4").Equal(got.Total))
}

func TestComputeTotals_IgnoraLineTotalGuardado(t *testing.T) {
	stale := item(2, "100", "10")
	stale.LineTotal = d("999999")

	got := pricing.ComputeTotals([]entity.LineItem{stale})
	assert.True(t, d("180").Equal(got.Subtotal), "el subtotal se recalcula desde cantidad/precio/descuento")
}

func TestComputeTotals_Idempotente(t *testing.T) {
	items := []entity.LineItem{item(2, "100", "10"), item(5, "3.33", "7")}
	assert.Equal(t, pricing.ComputeTotals(items), pricing.ComputeTotals(items))
}

// Escenario: una línea {qty:2, price:100, discount:10}.
func TestComputeTotals_EscenarioCrearCotizacion(t *testing.T) {
	items := pricing.Recompute([]entity.LineItem{item(2, "100", "10")})
	got := pricing.ComputeTotals(items)

	assert.Equal(t, "180.00", items[0].LineTotal.StringFixed(2))
	assert.Equal(t, "180.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "21.60", got.Tax.StringFixed(2))
	assert.Equal(t, "201.60", got.Total.StringFixed(2))
}

func TestValidate(t *testing.T) {
	require.NoError(t, pricing.Validate(item(0, "0", "0")))
	require.NoError(t, pricing.Validate(item(1, "10", "100")))

	for name, it := range map[string]entity.LineItem{
		"cantidad negativa":  item(-1, "10", "0"),
		"precio negativo":    item(1, "-0.01", "0"),
		"descuento negativo": item(1, "10", "-1"),
		"descuento > 100":    item(1, "10", "100.5"),
	} {
		t.Run(name, func(t *testing.T) {
			err := pricing.Validate(it)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestValidateAll_IndicaFila(t *testing.T) {
	err := pricing.ValidateAll([]entity.LineItem{item(1, "1", "0"), item(1, "1", "150")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "fila 2")
}

func TestTotals_MatchesRedondeaACentavos(t *testing.T) {
	a := pricing.Totals{Subtotal: d("180"), Tax: d("21.6"), Total: d("201.6")}
	b := pricing.Totals{Subtotal: d("180.000000001"), Tax: d("21.60"), Total: d("201.599999999")}
	c := pricing.Totals{Subtotal: d("180"), Tax: d("21.6"), Total: d("201.7")}

	assert.True(t, a.Matches(b))
	assert.False(t, a.Matches(c))
}
