package checkout

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/threadline/shopapi/pkg/models"
	"github.com/threadline/shopapi/pkg/payment"
)

type fakeProducts struct {
	byID map[string]*models.Product
}

func (f *fakeProducts) GetProductByID(ctx context.Context, id bson.ObjectID) (*models.Product, error) {
	if p, ok := f.byID[id.Hex()]; ok {
		return p, nil
	}
	return nil, errors.New("not found")
}

type fakeOrders struct {
	inserted []*models.Order
	byKey    map[string]*models.Order
}

func (f *fakeOrders) InsertOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if existing, ok := f.byKey[order.IdempotencyKey]; ok {
		return existing, nil
	}
	if f.byKey == nil {
		f.byKey = make(map[string]*models.Order)
	}
	f.byKey[order.IdempotencyKey] = order
	f.inserted = append(f.inserted, order)
	return order, nil
}

type fakeCarts struct {
	cleared []string
}

func (f *fakeCarts) ClearCart(ctx context.Context, sessionID string) error {
	f.cleared = append(f.cleared, sessionID)
	return nil
}

type fakeSettings struct{}

func (f *fakeSettings) GetSettings(ctx context.Context) (*models.Settings, error) {
	return models.DefaultSettings(), nil
}

func gatewaySign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func newTestWorkflow(products ...*models.Product) (*Workflow, *fakeOrders, *fakeCarts) {
	byID := make(map[string]*models.Product)
	for _, p := range products {
		byID[p.ID.Hex()] = p
	}
	orders := &fakeOrders{}
	carts := &fakeCarts{}
	w := &Workflow{
		Products: &fakeProducts{byID: byID},
		Orders:   orders,
		Carts:    carts,
		Settings: &fakeSettings{},
		Providers: payment.NewRegistry(
			payment.NewCOD(),
			payment.NewGateway(payment.MethodCardGateway, "http://unused", "key-id", "key-secret"),
		),
	}
	return w, orders, carts
}

func testProduct(price, salePrice float64) *models.Product {
	return &models.Product{
		ID:        bson.NewObjectID(),
		Name:      "Classic Denim Jacket",
		Slug:      "classic-denim-jacket",
		Brand:     "Threadline",
		Price:     price,
		SalePrice: salePrice,
		Images:    []string{"https://cdn.example.com/denim.jpg"},
		InStock:   true,
	}
}

func goodAddress() models.Address {
	return models.Address{
		Name: "Asha Rao", Phone: "9876543210", Line1: "12 MG Road",
		City: "Bengaluru", State: "KA", PostalCode: "560001", Country: "IN",
	}
}

func TestPlaceOrderCOD(t *testing.T) {
	product := testProduct(500, 400)
	w, orders, carts := newTestWorkflow(product)

	order, err := w.PlaceOrder(context.Background(), bson.NewObjectID(), PlaceOrderRequest{
		SessionID:       "sess-1",
		Items:           []models.CartLineItem{{ProductID: product.ID.Hex(), Quantity: 2, Size: "M"}},
		ShippingAddress: goodAddress(),
		PaymentMethod:   payment.MethodCOD,
	})
	require.NoError(t, err)

	assert.Equal(t, 800.0, order.Totals.Subtotal)
	assert.Equal(t, 99.0, order.Totals.Shipping)
	assert.Equal(t, 144.0, order.Totals.Tax)
	assert.Equal(t, 40.0, order.Totals.CODFee)
	assert.Equal(t, 1083.0, order.Totals.GrandTotal)
	assert.Equal(t, models.PaymentPending, order.Payment.Status)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, "M", order.Items[0].Size)
	assert.NotEmpty(t, order.OrderNumber)
	assert.Len(t, orders.inserted, 1)
	assert.Equal(t, []string{"sess-1"}, carts.cleared)
	// billing defaults to shipping
	assert.Equal(t, order.ShippingAddress, order.BillingAddress)
}

func TestPlaceOrderGatewayVerified(t *testing.T) {
	product := testProduct(1500, 0)
	w, orders, _ := newTestWorkflow(product)

	order, err := w.PlaceOrder(context.Background(), bson.NewObjectID(), PlaceOrderRequest{
		Items:           []models.CartLineItem{{ProductID: product.ID.Hex(), Quantity: 1}},
		ShippingAddress: goodAddress(),
		PaymentMethod:   payment.MethodCardGateway,
		Callback: &payment.Callback{
			ProviderOrderID:   "order_123",
			ProviderPaymentID: "pay_456",
			Signature:         gatewaySign("key-secret", "order_123", "pay_456"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, order.Payment.Status)
	assert.Equal(t, "order_123", order.Payment.ProviderOrderID)
	// 1500 > 1000 ships free
	assert.Equal(t, 0.0, order.Totals.Shipping)
	assert.Len(t, orders.inserted, 1)
}

func TestPlaceOrderTamperedSignatureCreatesNoOrder(t *testing.T) {
	product := testProduct(500, 0)
	w, orders, carts := newTestWorkflow(product)

	_, err := w.PlaceOrder(context.Background(), bson.NewObjectID(), PlaceOrderRequest{
		SessionID:       "sess-2",
		Items:           []models.CartLineItem{{ProductID: product.ID.Hex(), Quantity: 1}},
		ShippingAddress: goodAddress(),
		PaymentMethod:   payment.MethodCardGateway,
		Callback: &payment.Callback{
			ProviderOrderID:   "order_123",
			ProviderPaymentID: "pay_456",
			Signature:         gatewaySign("attacker-secret", "order_123", "pay_456"),
		},
	})
	assert.ErrorIs(t, err, payment.ErrVerificationFailed)
	assert.Empty(t, orders.inserted)
	assert.Empty(t, carts.cleared)
}

func TestPlaceOrderIncompleteAddressKeepsCart(t *testing.T) {
	product := testProduct(500, 0)
	w, orders, carts := newTestWorkflow(product)

	_, err := w.PlaceOrder(context.Background(), bson.NewObjectID(), PlaceOrderRequest{
		SessionID:       "sess-3",
		Items:           []models.CartLineItem{{ProductID: product.ID.Hex(), Quantity: 1}},
		ShippingAddress: models.Address{Name: "Asha Rao"},
		PaymentMethod:   payment.MethodCOD,
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, orders.inserted)
	assert.Empty(t, carts.cleared)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	w, _, _ := newTestWorkflow()
	_, err := w.PlaceOrder(context.Background(), bson.NewObjectID(), PlaceOrderRequest{
		ShippingAddress: goodAddress(),
		PaymentMethod:   payment.MethodCOD,
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestPlaceOrderUnknownMethod(t *testing.T) {
	product := testProduct(500, 0)
	w, _, _ := newTestWorkflow(product)
	_, err := w.PlaceOrder(context.Background(), bson.NewObjectID(), PlaceOrderRequest{
		Items:           []models.CartLineItem{{ProductID: product.ID.Hex(), Quantity: 1}},
		ShippingAddress: goodAddress(),
		PaymentMethod:   "barter",
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestPlaceOrderRepricesFromCatalog(t *testing.T) {
	product := testProduct(500, 0)
	w, _, _ := newTestWorkflow(product)

	// Client claims the product costs 1.
	order, err := w.PlaceOrder(context.Background(), bson.NewObjectID(), PlaceOrderRequest{
		Items: []models.CartLineItem{{
			ProductID: product.ID.Hex(), Price: 1, Quantity: 1,
		}},
		ShippingAddress: goodAddress(),
		PaymentMethod:   payment.MethodCOD,
	})
	require.NoError(t, err)
	assert.Equal(t, 500.0, order.Items[0].UnitPrice)
	assert.Equal(t, 500.0, order.Totals.Subtotal)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	w, orders, _ := newTestWorkflow()
	_, err := w.PlaceOrder(context.Background(), bson.NewObjectID(), PlaceOrderRequest{
		Items:           []models.CartLineItem{{ProductID: bson.NewObjectID().Hex(), Quantity: 1}},
		ShippingAddress: goodAddress(),
		PaymentMethod:   payment.MethodCOD,
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, orders.inserted)
}

func TestPlaceOrderIdempotentReplay(t *testing.T) {
	product := testProduct(500, 0)
	w, orders, _ := newTestWorkflow(product)

	req := PlaceOrderRequest{
		RequestID:       "req-abc",
		Items:           []models.CartLineItem{{ProductID: product.ID.Hex(), Quantity: 1}},
		ShippingAddress: goodAddress(),
		PaymentMethod:   payment.MethodCOD,
	}
	userID := bson.NewObjectID()

	first, err := w.PlaceOrder(context.Background(), userID, req)
	require.NoError(t, err)
	second, err := w.PlaceOrder(context.Background(), userID, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, orders.inserted, 1)
}

func TestCreateIntentUsesGrandTotal(t *testing.T) {
	product := testProduct(500, 400)
	w, _, _ := newTestWorkflow(product)

	intent, err := w.CreateIntent(context.Background(), IntentRequest{
		Items:         []models.CartLineItem{{ProductID: product.ID.Hex(), Quantity: 2}},
		PaymentMethod: payment.MethodCOD,
	})
	require.NoError(t, err)
	assert.Equal(t, 1083.0, intent.Amount)
	assert.Equal(t, "INR", intent.Currency)
}

func TestCreateIntentEmptyCart(t *testing.T) {
	w, _, _ := newTestWorkflow()
	_, err := w.CreateIntent(context.Background(), IntentRequest{PaymentMethod: payment.MethodCOD})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
