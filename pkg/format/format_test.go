package format_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/cotizador/pkg/format"
)

func TestCurrency(t *testing.T) {
	cases := map[string]string{
		"0":          "Q 0.00",
		"1250":       "Q 1,250.00",
		"201.6":      "Q 201.60",
		"999.999":    "Q 1,000.00",
		"1234567.89": "Q 1,234,567.89",
		"-1500.5":    "Q -1,500.50",
		"0.004":      "Q 0.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, format.Currency(decimal.RequireFromString(in)), "entrada %s", in)
	}
}

func TestMoneyYFixed(t *testing.T) {
	assert.Equal(t, "Q180.00", format.Money(decimal.NewFromInt(180)))
	assert.Equal(t, "201.60", format.Fixed(decimal.RequireFromString("201.6")))
}

func TestQuotationCode(t *testing.T) {
	assert.Equal(t, "CO00007", format.QuotationCode(7))
	assert.Equal(t, "CO00000", format.QuotationCode(0))
	assert.Equal(t, "CO00000", format.QuotationCode(-3))
	assert.Equal(t, "CO12345", format.QuotationCode(12345))
	assert.Equal(t, "CO123456", format.QuotationCode(123456), "no se trunca")
}

func TestDiscount(t *testing.T) {
	assert.Equal(t, "-", format.Discount(decimal.Zero))
	assert.Equal(t, "10%", format.Discount(decimal.NewFromInt(10)))
	assert.Equal(t, "12.5%", format.Discount(decimal.RequireFromString("12.50")))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "---", format.Date(time.Time{}))
	assert.Equal(t, "5/3/2024", format.Date(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "30/12/2023", format.Date(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)), "medianoche UTC aún es el día anterior en Guatemala")
	assert.Equal(t, "5/3/2024", format.Date(time.Date(2024, 3, 6, 1, 0, 0, 0, time.UTC)))
	assert.Equal(t, "31/12/2023", format.Date(time.Date(2023, 12, 31, 23, 0, 0, 0, format.Guatemala)))
}

func TestNonEmpty(t *testing.T) {
	assert.Equal(t, "---", format.NonEmpty("  ", "---"))
	assert.Equal(t, "x", format.NonEmpty("x", "---"))
}
