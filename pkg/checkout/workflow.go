// Package checkout orchestrates order placement: validate the cart and
// address, reprice every line from the catalog, verify payment, persist the
// order and clear the session cart. Stores are injected behind small
// interfaces so handlers wire mongo/redis and tests wire fakes.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/threadline/shopapi/pkg/models"
	"github.com/threadline/shopapi/pkg/payment"
	"github.com/threadline/shopapi/pkg/pricing"
)

var (
	// ErrInvalidRequest covers empty carts, incomplete addresses and
	// references to products that no longer exist.
	ErrInvalidRequest = errors.New("invalid checkout request")
)

// ProductSource reads catalog products for server-side repricing.
type ProductSource interface {
	GetProductByID(ctx context.Context, id bson.ObjectID) (*models.Product, error)
}

// OrderStore persists orders. Insert must treat the idempotency key as
// unique and hand back the already-stored order on a replay.
type OrderStore interface {
	InsertOrder(ctx context.Context, order *models.Order) (*models.Order, error)
}

// CartStore clears the session cart after a successful placement.
type CartStore interface {
	ClearCart(ctx context.Context, sessionID string) error
}

// SettingsSource supplies the store-wide pricing rules and promo code.
type SettingsSource interface {
	GetSettings(ctx context.Context) (*models.Settings, error)
}

// Workflow is the order placement orchestrator.
type Workflow struct {
	Products  ProductSource
	Orders    OrderStore
	Carts     CartStore
	Settings  SettingsSource
	Providers *payment.Registry
	Currency  string
}

// IntentRequest asks a provider to register a payment for the cart's grand
// total.
type IntentRequest struct {
	Items         []models.CartLineItem
	PaymentMethod string
	PromoCode     string
}

// PlaceOrderRequest is the "Place Order" submission. Callback is required
// for every method except cod. RequestID is the client's idempotency key; a
// missing one is replaced server-side, which keeps double submits of the
// same payload from the same client collapsed only when the client supplies
// it.
type PlaceOrderRequest struct {
	SessionID       string                `json:"session_id"`
	RequestID       string                `json:"request_id"`
	Items           []models.CartLineItem `json:"items"`
	ShippingAddress models.Address        `json:"shipping_address"`
	BillingAddress  *models.Address       `json:"billing_address"`
	PaymentMethod   string                `json:"payment_method"`
	PromoCode       string                `json:"promo_code"`
	Callback        *payment.Callback     `json:"callback"`
}

// CreateIntent reprices the cart and registers its grand total with the
// selected provider. Nothing is persisted here; the order is only written
// once the provider confirms payment.
func (w *Workflow) CreateIntent(ctx context.Context, req IntentRequest) (*payment.Intent, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidRequest)
	}

	provider, err := w.Providers.Get(req.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	_, totals, err := w.reprice(ctx, req.Items, req.PaymentMethod, req.PromoCode)
	if err != nil {
		return nil, err
	}

	return provider.CreateIntent(ctx, totals.GrandTotal, w.currency(), uuid.NewString())
}

// PlaceOrder runs the full placement sequence. Any failure leaves no order
// record; the session cart is cleared only after the order is stored.
func (w *Workflow) PlaceOrder(ctx context.Context, userID bson.ObjectID, req PlaceOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", ErrInvalidRequest)
	}
	if missing := req.ShippingAddress.MissingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: shipping address missing %s",
			ErrInvalidRequest, strings.Join(missing, ", "))
	}

	provider, err := w.Providers.Get(req.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	items, totals, err := w.reprice(ctx, req.Items, req.PaymentMethod, req.PromoCode)
	if err != nil {
		return nil, err
	}

	paymentStatus := models.PaymentPending
	var providerOrderID, providerPayID string
	if req.PaymentMethod != payment.MethodCOD {
		if req.Callback == nil {
			return nil, fmt.Errorf("%w: payment callback is required for %s",
				ErrInvalidRequest, req.PaymentMethod)
		}
		if err := provider.VerifyCallback(*req.Callback); err != nil {
			return nil, err
		}
		paymentStatus = models.PaymentPaid
		providerOrderID = req.Callback.ProviderOrderID
		providerPayID = req.Callback.ProviderPaymentID
	}

	billing := req.ShippingAddress
	if req.BillingAddress != nil {
		billing = *req.BillingAddress
	}

	key := req.RequestID
	if key == "" {
		key = uuid.NewString()
	}

	order := &models.Order{
		ID:             bson.NewObjectID(),
		OrderNumber:    models.GenerateOrderNumber(),
		IdempotencyKey: key,
		UserID:         userID,
		Items:          items,
		Totals: models.OrderTotals{
			Subtotal:      totals.Subtotal,
			Shipping:      totals.Shipping,
			Tax:           totals.Tax,
			CODFee:        totals.CODFee,
			PromoDiscount: totals.PromoDiscount,
			GrandTotal:    totals.GrandTotal,
		},
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		Payment: models.PaymentInfo{
			Method:          req.PaymentMethod,
			Status:          paymentStatus,
			ProviderOrderID: providerOrderID,
			ProviderPayID:   providerPayID,
		},
		Status: models.OrderPending,
	}
	order.SetTimestamps()

	stored, err := w.Orders.InsertOrder(ctx, order)
	if err != nil {
		return nil, err
	}

	if req.SessionID != "" {
		if err := w.Carts.ClearCart(ctx, req.SessionID); err != nil {
			// The order exists; a stale cart is recoverable.
			log.Printf("Warning: failed to clear cart %s: %v", req.SessionID, err)
		}
	}

	return stored, nil
}

// reprice rebuilds every order line from the catalog so client-sent prices
// are never trusted, then computes totals under the current store rules.
func (w *Workflow) reprice(ctx context.Context, cartItems []models.CartLineItem, method, promoCode string) ([]models.OrderItem, pricing.Totals, error) {
	settings, err := w.Settings.GetSettings(ctx)
	if err != nil {
		return nil, pricing.Totals{}, err
	}

	items := make([]models.OrderItem, 0, len(cartItems))
	lines := make([]pricing.LineItem, 0, len(cartItems))
	for _, cartItem := range cartItems {
		if cartItem.Quantity < 1 {
			return nil, pricing.Totals{}, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidRequest)
		}
		productID, err := bson.ObjectIDFromHex(cartItem.ProductID)
		if err != nil {
			return nil, pricing.Totals{}, fmt.Errorf("%w: bad product id %q", ErrInvalidRequest, cartItem.ProductID)
		}
		product, err := w.Products.GetProductByID(ctx, productID)
		if err != nil {
			return nil, pricing.Totals{}, fmt.Errorf("%w: product %s is no longer available", ErrInvalidRequest, cartItem.ProductID)
		}

		unitPrice := product.EffectivePrice()
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Slug:      product.Slug,
			Name:      product.Name,
			Brand:     product.Brand,
			Image:     image,
			Size:      cartItem.Size,
			Color:     cartItem.Color,
			UnitPrice: unitPrice,
			Quantity:  cartItem.Quantity,
			Subtotal:  unitPrice * float64(cartItem.Quantity),
		})
		lines = append(lines, pricing.LineItem{
			Price:     product.Price,
			SalePrice: product.SalePrice,
			Quantity:  cartItem.Quantity,
		})
	}

	var promoDiscount float64
	if promoCode != "" && settings.PromoCode != "" && promoCode == settings.PromoCode {
		promoDiscount = settings.PromoDiscount
	}

	rules := pricing.Rules{
		FreeShippingThreshold: settings.FreeShippingThreshold,
		FlatShippingFee:       settings.FlatShippingFee,
		TaxRate:               settings.TaxRate,
		CODFee:                settings.CODFee,
	}
	totals := pricing.ComputeTotalsWith(rules, lines, method, promoDiscount)
	return items, totals, nil
}

func (w *Workflow) currency() string {
	if w.Currency == "" {
		return "INR"
	}
	return w.Currency
}
