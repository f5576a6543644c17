package models

import "time"

// Settings is the single store-wide configuration document the admin surface
// edits: pricing rules plus one active promo code.
type Settings struct {
	FreeShippingThreshold float64   `json:"free_shipping_threshold" bson:"free_shipping_threshold"`
	FlatShippingFee       float64   `json:"flat_shipping_fee" bson:"flat_shipping_fee"`
	TaxRate               float64   `json:"tax_rate" bson:"tax_rate"`
	CODFee                float64   `json:"cod_fee" bson:"cod_fee"`
	PromoCode             string    `json:"promo_code,omitempty" bson:"promo_code,omitempty"`
	PromoDiscount         float64   `json:"promo_discount" bson:"promo_discount"`
	UpdatedAt             time.Time `json:"updated_at" bson:"updated_at"`
}

// DefaultSettings returns the storefront defaults used until an admin edits
// them.
func DefaultSettings() *Settings {
	return &Settings{
		FreeShippingThreshold: 1000,
		FlatShippingFee:       99,
		TaxRate:               0.18,
		CODFee:                40,
	}
}
