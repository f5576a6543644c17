package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Gateway is the shared adapter for every hosted-checkout provider: the card
// gateway, the wallets and UPI all speak the same create-order REST call and
// sign callbacks with HMAC-SHA256 over "orderID|paymentID". Only the
// credentials and endpoint differ per provider.
type Gateway struct {
	kind      string
	endpoint  string
	keyID     string
	keySecret string
	client    *http.Client
}

// NewGateway builds a provider adapter. The HTTP client is bounded so a dead
// provider surfaces as ErrProviderUnavailable instead of hanging a request.
func NewGateway(kind, endpoint, keyID, keySecret string) *Gateway {
	return &Gateway{
		kind:      kind,
		endpoint:  endpoint,
		keyID:     keyID,
		keySecret: keySecret,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *Gateway) Kind() string { return g.kind }

type createOrderRequest struct {
	Amount   int64  `json:"amount"` // smallest currency subunit
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

func (g *Gateway) CreateIntent(ctx context.Context, amount float64, currency, receipt string) (*Intent, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   int64(amount * 100),
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, g.kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrProviderUnavailable, g.kind, resp.StatusCode)
	}

	var created createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, g.kind, err)
	}

	return &Intent{
		ProviderOrderID: created.ID,
		Key:             g.keyID,
		Amount:          amount,
		Currency:        currency,
	}, nil
}

// VerifyCallback recomputes the callback signature and compares it in
// constant time.
func (g *Gateway) VerifyCallback(cb Callback) error {
	if cb.ProviderOrderID == "" || cb.ProviderPaymentID == "" || cb.Signature == "" {
		return ErrVerificationFailed
	}
	expected := g.sign(cb.ProviderOrderID, cb.ProviderPaymentID)
	if !hmac.Equal([]byte(expected), []byte(cb.Signature)) {
		return ErrVerificationFailed
	}
	return nil
}

func (g *Gateway) sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
