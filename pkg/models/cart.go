package models

// Cart and wishlist models for Redis session-based storage. The cart is
// owned by the browser session; it only becomes server-authoritative at
// order placement, and prices captured here are display-only (the checkout
// workflow re-reads the catalog).

type CartLineItem struct {
	ProductID string  `json:"product_id" redis:"product_id"`
	Slug      string  `json:"slug" redis:"slug"`
	Name      string  `json:"name" redis:"name"`
	Brand     string  `json:"brand" redis:"brand"`
	Image     string  `json:"image" redis:"image"`
	Price     float64 `json:"price" redis:"price"`
	SalePrice float64 `json:"sale_price" redis:"sale_price"`
	Size      string  `json:"size" redis:"size"`
	Color     string  `json:"color" redis:"color"`
	Quantity  int     `json:"quantity" redis:"quantity"`
	AddedAt   string  `json:"added_at" redis:"added_at"`
}

// EffectivePrice is the sale price when one was captured, the regular price
// otherwise.
func (it *CartLineItem) EffectivePrice() float64 {
	if it.SalePrice > 0 {
		return it.SalePrice
	}
	return it.Price
}

// LineKey distinguishes the same product added in different size/color
// variants.
func (it *CartLineItem) LineKey() string {
	return it.ProductID + ":" + it.Size + ":" + it.Color
}

type Cart struct {
	SessionID   string                   `json:"session_id"`
	Items       map[string]*CartLineItem `json:"items"` // keyed by LineKey
	CartTotal   float64                  `json:"cart_total"`
	CartCount   int                      `json:"cart_count"`
	LastUpdated string                   `json:"last_updated"`
}

// Recalculate rebuilds the derived cart aggregates from the line items.
func (c *Cart) Recalculate() {
	c.CartTotal = 0
	c.CartCount = 0
	for _, item := range c.Items {
		c.CartTotal += item.EffectivePrice() * float64(item.Quantity)
		c.CartCount += item.Quantity
	}
}

// WishlistItem has set semantics: a product is either in the wishlist or
// not, with no quantity.
type WishlistItem struct {
	ProductID string  `json:"product_id"`
	Slug      string  `json:"slug"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	SalePrice float64 `json:"sale_price"`
}

type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}
