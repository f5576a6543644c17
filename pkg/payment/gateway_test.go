package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signFor(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyCallback(t *testing.T) {
	g := NewGateway(MethodCardGateway, "http://unused", "key-id", "key-secret")

	valid := Callback{
		ProviderOrderID:   "order_123",
		ProviderPaymentID: "pay_456",
		Signature:         signFor("key-secret", "order_123", "pay_456"),
	}
	assert.NoError(t, g.VerifyCallback(valid))
}

func TestVerifyCallbackTamperedSignature(t *testing.T) {
	g := NewGateway(MethodCardGateway, "http://unused", "key-id", "key-secret")

	tampered := Callback{
		ProviderOrderID:   "order_123",
		ProviderPaymentID: "pay_456",
		Signature:         signFor("wrong-secret", "order_123", "pay_456"),
	}
	assert.ErrorIs(t, g.VerifyCallback(tampered), ErrVerificationFailed)
}

func TestVerifyCallbackMissingFields(t *testing.T) {
	g := NewGateway(MethodUPI, "http://unused", "key-id", "key-secret")
	assert.ErrorIs(t, g.VerifyCallback(Callback{}), ErrVerificationFailed)
	assert.ErrorIs(t, g.VerifyCallback(Callback{ProviderOrderID: "o"}), ErrVerificationFailed)
}

func TestCreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key-id", user)
		assert.Equal(t, "key-secret", pass)
		w.Write([]byte(`{"id":"order_abc"}`))
	}))
	defer srv.Close()

	g := NewGateway(MethodCardGateway, srv.URL, "key-id", "key-secret")
	intent, err := g.CreateIntent(context.Background(), 1083, "INR", "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "order_abc", intent.ProviderOrderID)
	assert.Equal(t, "key-id", intent.Key)
	assert.Equal(t, 1083.0, intent.Amount)
	assert.Equal(t, "INR", intent.Currency)
}

func TestCreateIntentProviderDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewGateway(MethodWalletA, srv.URL, "k", "s")
	_, err := g.CreateIntent(context.Background(), 100, "INR", "ORD-2")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestCODProvider(t *testing.T) {
	cod := NewCOD()
	assert.Equal(t, MethodCOD, cod.Kind())

	intent, err := cod.CreateIntent(context.Background(), 500, "INR", "ORD-3")
	require.NoError(t, err)
	assert.Empty(t, intent.ProviderOrderID)
	assert.NoError(t, cod.VerifyCallback(Callback{}))
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(NewCOD(), NewGateway(MethodUPI, "http://x", "k", "s"))

	p, err := reg.Get(MethodUPI)
	require.NoError(t, err)
	assert.Equal(t, MethodUPI, p.Kind())

	_, err = reg.Get("carrier-pigeon")
	assert.ErrorIs(t, err, ErrUnknownMethod)
	assert.Len(t, reg.Methods(), 2)
}
