package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Order statuses.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// Address is a shipping or billing address. Name, phone, line1, city, state
// and postal code are required at checkout.
type Address struct {
	Name       string `json:"name" bson:"name"`
	Phone      string `json:"phone" bson:"phone"`
	Line1      string `json:"line1" bson:"line1"`
	Line2      string `json:"line2,omitempty" bson:"line2,omitempty"`
	City       string `json:"city" bson:"city"`
	State      string `json:"state" bson:"state"`
	PostalCode string `json:"postal_code" bson:"postal_code"`
	Country    string `json:"country" bson:"country"`
}

// MissingFields lists the required address fields that are empty.
func (a *Address) MissingFields() []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"name", a.Name},
		{"phone", a.Phone},
		{"line1", a.Line1},
		{"city", a.City},
		{"state", a.State},
		{"postal_code", a.PostalCode},
	}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// OrderItem is a deep copy of a cart line item at purchase time, priced from
// the catalog rather than from the client.
type OrderItem struct {
	ProductID bson.ObjectID `json:"product_id" bson:"product_id"`
	Slug      string        `json:"slug" bson:"slug"`
	Name      string        `json:"name" bson:"name"`
	Brand     string        `json:"brand" bson:"brand"`
	Image     string        `json:"image,omitempty" bson:"image,omitempty"`
	Size      string        `json:"size,omitempty" bson:"size,omitempty"`
	Color     string        `json:"color,omitempty" bson:"color,omitempty"`
	UnitPrice float64       `json:"unit_price" bson:"unit_price"`
	Quantity  int           `json:"quantity" bson:"quantity"`
	Subtotal  float64       `json:"subtotal" bson:"subtotal"`
}

// OrderTotals is the financial breakdown of an order. The invariant
// grand_total = subtotal - promo_discount + shipping + tax + cod_fee holds
// with every component non-negative.
type OrderTotals struct {
	Subtotal      float64 `json:"subtotal" bson:"subtotal"`
	Shipping      float64 `json:"shipping" bson:"shipping"`
	Tax           float64 `json:"tax" bson:"tax"`
	CODFee        float64 `json:"cod_fee" bson:"cod_fee"`
	PromoDiscount float64 `json:"promo_discount" bson:"promo_discount"`
	GrandTotal    float64 `json:"grand_total" bson:"grand_total"`
}

// PaymentInfo records how an order was (or will be) paid.
type PaymentInfo struct {
	Method          string `json:"method" bson:"method"`
	Status          string `json:"status" bson:"status"`
	ProviderOrderID string `json:"provider_order_id,omitempty" bson:"provider_order_id,omitempty"`
	ProviderPayID   string `json:"provider_payment_id,omitempty" bson:"provider_payment_id,omitempty"`
}

// Order is the persisted record of a completed checkout. Orders are created
// only by the placement workflow, never deleted, and their status advances
// only through the admin surface.
type Order struct {
	ID              bson.ObjectID `json:"id" bson:"_id,omitempty"`
	OrderNumber     string        `json:"order_number" bson:"order_number"`
	IdempotencyKey  string        `json:"-" bson:"idempotency_key,omitempty"`
	UserID          bson.ObjectID `json:"user_id" bson:"user_id"`
	Items           []OrderItem   `json:"items" bson:"items"`
	Totals          OrderTotals   `json:"totals" bson:"totals"`
	ShippingAddress Address       `json:"shipping_address" bson:"shipping_address"`
	BillingAddress  Address       `json:"billing_address" bson:"billing_address"`
	Payment         PaymentInfo   `json:"payment" bson:"payment"`
	Status          string        `json:"status" bson:"status"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}

func (o *Order) SetTimestamps() {
	now := time.Now()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
}

// ItemCount is the total quantity across all lines.
func (o *Order) ItemCount() int {
	var count int
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}

// CanTransitionStatus reports whether an order status change is legal:
// pending -> processing -> shipped -> delivered, with cancellation allowed
// from pending or processing only.
func CanTransitionStatus(from, to string) bool {
	switch from {
	case OrderPending:
		return to == OrderProcessing || to == OrderCancelled
	case OrderProcessing:
		return to == OrderShipped || to == OrderCancelled
	case OrderShipped:
		return to == OrderDelivered
	default:
		// delivered and cancelled are terminal
		return false
	}
}

// GenerateOrderNumber builds a human-readable unique order reference.
func GenerateOrderNumber() string {
	now := time.Now()
	return fmt.Sprintf("ORD-%s-%03d",
		now.Format("20060102-150405"),
		now.Nanosecond()%1000,
	)
}
