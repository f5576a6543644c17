// Package payment abstracts the third-party payment providers behind one
// create-intent / verify-callback interface so checkout carries no
// per-provider branching.
package payment

import (
	"context"
	"errors"
	"fmt"
)

// Supported payment methods.
const (
	MethodCardGateway = "card-gateway"
	MethodWalletA     = "wallet-a"
	MethodWalletB     = "wallet-b"
	MethodWalletC     = "wallet-c"
	MethodUPI         = "upi"
	MethodCOD         = "cod"
)

var (
	// ErrVerificationFailed means a callback signature did not match; no
	// order may be created after this error.
	ErrVerificationFailed = errors.New("payment verification failed")
	// ErrProviderUnavailable wraps network/timeout failures talking to a
	// provider.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	// ErrUnknownMethod is returned for a payment method no provider claims.
	ErrUnknownMethod = errors.New("unknown payment method")
)

// Intent is the provider-side reference the client completes out of band
// (hosted payment UI, wallet app, UPI collect).
type Intent struct {
	ProviderOrderID string  `json:"order_id"`
	Key             string  `json:"key"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
}

// Callback is the provider's payment confirmation, authenticated by an HMAC
// signature over the order and payment identifiers.
type Callback struct {
	ProviderOrderID   string `json:"provider_order_id"`
	ProviderPaymentID string `json:"provider_payment_id"`
	Signature         string `json:"signature"`
}

// Provider is one payment integration.
type Provider interface {
	Kind() string
	// CreateIntent registers the amount with the provider and returns the
	// reference the client needs to complete payment.
	CreateIntent(ctx context.Context, amount float64, currency, receipt string) (*Intent, error)
	// VerifyCallback checks the authenticity of a confirmation callback.
	VerifyCallback(cb Callback) error
}

// Registry maps payment method names to providers.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	for _, p := range providers {
		r.providers[p.Kind()] = p
	}
	return r
}

// Get resolves a payment method to its provider.
func (r *Registry) Get(method string) (Provider, error) {
	p, ok := r.providers[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	return p, nil
}

// Methods lists the registered payment method names.
func (r *Registry) Methods() []string {
	methods := make([]string, 0, len(r.providers))
	for kind := range r.providers {
		methods = append(methods, kind)
	}
	return methods
}
