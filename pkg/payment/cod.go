package payment

import "context"

// CODProvider is the cash-on-delivery branch: no external provider is
// involved, so intents are empty and every callback verifies.
type CODProvider struct{}

func NewCOD() *CODProvider { return &CODProvider{} }

func (c *CODProvider) Kind() string { return MethodCOD }

func (c *CODProvider) CreateIntent(ctx context.Context, amount float64, currency, receipt string) (*Intent, error) {
	return &Intent{Amount: amount, Currency: currency}, nil
}

func (c *CODProvider) VerifyCallback(cb Callback) error { return nil }
