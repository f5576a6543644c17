package payment

import (
	"strings"

	"github.com/threadline/shopapi/pkg/global"
)

// hosted-checkout methods configured from the environment; cod needs none.
var gatewayMethods = []string{
	MethodCardGateway,
	MethodWalletA,
	MethodWalletB,
	MethodWalletC,
	MethodUPI,
}

// NewRegistryFromEnv wires a provider per payment method from environment
// variables: CARD_GATEWAY_KEY_ID, CARD_GATEWAY_KEY_SECRET,
// CARD_GATEWAY_ENDPOINT and likewise WALLET_A_*, WALLET_B_*, WALLET_C_*,
// UPI_*. Methods with no credentials configured are left out of the
// registry, so a request for them fails as an unknown method.
func NewRegistryFromEnv() *Registry {
	var providers []Provider
	for _, method := range gatewayMethods {
		prefix := strings.ToUpper(strings.ReplaceAll(method, "-", "_"))
		keyID := global.GetEnvOrDefault(prefix+"_KEY_ID", "")
		keySecret := global.GetEnvOrDefault(prefix+"_KEY_SECRET", "")
		endpoint := global.GetEnvOrDefault(prefix+"_ENDPOINT", "")
		if keyID == "" || keySecret == "" || endpoint == "" {
			continue
		}
		providers = append(providers, NewGateway(method, endpoint, keyID, keySecret))
	}
	providers = append(providers, NewCOD())
	return NewRegistry(providers...)
}
