package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "classic-denim-jacket", Slugify("Classic Denim Jacket"))
	assert.Equal(t, "50-off-tees", Slugify("50% Off Tees!"))
	assert.Equal(t, "plain", Slugify("plain"))
}

func TestEffectivePrice(t *testing.T) {
	p := Product{Price: 500}
	assert.Equal(t, 500.0, p.EffectivePrice())

	p.SalePrice = 400
	assert.Equal(t, 400.0, p.EffectivePrice())
}

func TestHasValidSalePrice(t *testing.T) {
	assert.True(t, (&Product{Price: 500}).HasValidSalePrice())
	assert.True(t, (&Product{Price: 500, SalePrice: 400}).HasValidSalePrice())
	assert.False(t, (&Product{Price: 500, SalePrice: 500}).HasValidSalePrice())
	assert.False(t, (&Product{Price: 500, SalePrice: 600}).HasValidSalePrice())
}

func TestCartRecalculate(t *testing.T) {
	cart := Cart{Items: map[string]*CartLineItem{
		"a": {Price: 500, SalePrice: 400, Quantity: 2},
		"b": {Price: 150, Quantity: 1},
	}}
	cart.Recalculate()
	assert.Equal(t, 950.0, cart.CartTotal)
	assert.Equal(t, 3, cart.CartCount)
}
