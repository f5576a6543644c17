package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotalsDeterministic(t *testing.T) {
	items := []LineItem{
		{Price: 500, SalePrice: 400, Quantity: 2},
		{Price: 150, Quantity: 1},
	}
	first := ComputeTotals(items, "card-gateway", 50)
	second := ComputeTotals(items, "card-gateway", 50)
	assert.Equal(t, first, second)
}

func TestEmptyCart(t *testing.T) {
	assert.Equal(t, Totals{}, ComputeTotals(nil, "cod", 0))
	assert.Equal(t, Totals{}, ComputeTotals([]LineItem{}, "card-gateway", 100))
}

func TestFreeShippingBoundary(t *testing.T) {
	// Strictly greater than the threshold ships free.
	above := ComputeTotals([]LineItem{{Price: 1000.01, Quantity: 1}}, "card-gateway", 0)
	assert.Equal(t, 0.0, above.Shipping)

	at := ComputeTotals([]LineItem{{Price: 1000.00, Quantity: 1}}, "card-gateway", 0)
	assert.Equal(t, 99.0, at.Shipping)
}

func TestCODSurcharge(t *testing.T) {
	items := []LineItem{{Price: 300, Quantity: 1}}
	cod := ComputeTotals(items, "cod", 0)
	card := ComputeTotals(items, "card-gateway", 0)
	assert.Equal(t, 40.0, cod.CODFee)
	assert.Equal(t, 0.0, card.CODFee)
	assert.Equal(t, 40.0, cod.GrandTotal-card.GrandTotal)
}

func TestTaxRounding(t *testing.T) {
	totals := ComputeTotals([]LineItem{{Price: 999, Quantity: 1}}, "card-gateway", 0)
	assert.Equal(t, 180.0, totals.Tax)
}

func TestSalePriceWins(t *testing.T) {
	totals := ComputeTotals([]LineItem{{Price: 500, SalePrice: 400, Quantity: 1}}, "card-gateway", 0)
	assert.Equal(t, 400.0, totals.Subtotal)
}

func TestEndToEndCODExample(t *testing.T) {
	// 2 x 400 = 800 subtotal, shipping 99, tax round(800*0.18)=144, cod 40.
	totals := ComputeTotals([]LineItem{{Price: 500, SalePrice: 400, Quantity: 2}}, "cod", 0)
	assert.Equal(t, 800.0, totals.Subtotal)
	assert.Equal(t, 99.0, totals.Shipping)
	assert.Equal(t, 144.0, totals.Tax)
	assert.Equal(t, 40.0, totals.CODFee)
	assert.Equal(t, 1083.0, totals.GrandTotal)
}

func TestPromoDiscountClamped(t *testing.T) {
	items := []LineItem{{Price: 100, Quantity: 1}}
	totals := ComputeTotals(items, "card-gateway", 500)
	assert.Equal(t, 100.0, totals.PromoDiscount)
	// subtotal 100 - 100 + shipping 99 + tax 18
	assert.Equal(t, 117.0, totals.GrandTotal)

	negative := ComputeTotals(items, "card-gateway", -10)
	assert.Equal(t, 0.0, negative.PromoDiscount)
}

func TestCustomRules(t *testing.T) {
	rules := Rules{FreeShippingThreshold: 50, FlatShippingFee: 10, TaxRate: 0.05, CODFee: 7}
	totals := ComputeTotalsWith(rules, []LineItem{{Price: 40, Quantity: 1}}, "cod", 0)
	assert.Equal(t, 10.0, totals.Shipping)
	assert.Equal(t, 2.0, totals.Tax)
	assert.Equal(t, 7.0, totals.CODFee)
	assert.Equal(t, 59.0, totals.GrandTotal)
}
