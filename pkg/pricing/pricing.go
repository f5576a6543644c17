// Package pricing computes checkout totals. Everything here is pure: no
// I/O, no clock, safe to call on every render.
package pricing

import "math"

// MethodCOD is the payment method that attracts the cash-on-delivery
// surcharge.
const MethodCOD = "cod"

// Rules are the storefront pricing knobs. The zero value is replaced by
// DefaultRules.
type Rules struct {
	FreeShippingThreshold float64
	FlatShippingFee       float64
	TaxRate               float64
	CODFee                float64
}

func DefaultRules() Rules {
	return Rules{
		FreeShippingThreshold: 1000,
		FlatShippingFee:       99,
		TaxRate:               0.18,
		CODFee:                40,
	}
}

func (r Rules) isZero() bool {
	return r == Rules{}
}

// LineItem is the minimal view of a cart line the engine needs. SalePrice of
// zero means no sale price.
type LineItem struct {
	Price     float64
	SalePrice float64
	Quantity  int
}

// EffectivePrice is the sale price when set, the regular price otherwise.
func (it LineItem) EffectivePrice() float64 {
	if it.SalePrice > 0 {
		return it.SalePrice
	}
	return it.Price
}

// Totals is the price breakdown for a cart. GrandTotal =
// Subtotal - PromoDiscount + Shipping + Tax + CODFee.
type Totals struct {
	Subtotal      float64 `json:"subtotal"`
	Shipping      float64 `json:"shipping"`
	Tax           float64 `json:"tax"`
	CODFee        float64 `json:"cod_fee"`
	PromoDiscount float64 `json:"promo_discount"`
	GrandTotal    float64 `json:"grand_total"`
}

// ComputeTotals prices a cart with the default rules.
func ComputeTotals(items []LineItem, paymentMethod string, promoDiscount float64) Totals {
	return ComputeTotalsWith(DefaultRules(), items, paymentMethod, promoDiscount)
}

// ComputeTotalsWith prices a cart under explicit rules. An empty cart yields
// the zero Totals. Shipping is free strictly above the threshold, tax is
// rounded to the nearest currency unit, and a promo discount never pushes a
// component negative.
func ComputeTotalsWith(rules Rules, items []LineItem, paymentMethod string, promoDiscount float64) Totals {
	if rules.isZero() {
		rules = DefaultRules()
	}
	if len(items) == 0 {
		return Totals{}
	}

	var subtotal float64
	for _, item := range items {
		subtotal += item.EffectivePrice() * float64(item.Quantity)
	}

	shipping := rules.FlatShippingFee
	if subtotal > rules.FreeShippingThreshold {
		shipping = 0
	}

	tax := math.Round(subtotal * rules.TaxRate)

	var codFee float64
	if paymentMethod == MethodCOD {
		codFee = rules.CODFee
	}

	if promoDiscount < 0 {
		promoDiscount = 0
	}
	if promoDiscount > subtotal {
		promoDiscount = subtotal
	}

	return Totals{
		Subtotal:      subtotal,
		Shipping:      shipping,
		Tax:           tax,
		CODFee:        codFee,
		PromoDiscount: promoDiscount,
		GrandTotal:    subtotal - promoDiscount + shipping + tax + codFee,
	}
}
