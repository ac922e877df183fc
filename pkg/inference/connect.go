package inference

import (
	"context"
	"fmt"
	"time"

	"peak/pkg/flight"
	"peak/pkg/schema"
)

// ClientTTL bounds how long a provider client is reused for one API key.
const ClientTTL = 30 * time.Minute

type clientKey struct {
	Provider string
	APIKey   string
	Model    string
}

// Connector hands out provider clients, reusing one per provider, key and
// model until ClientTTL passes.
type Connector struct {
	clients *flight.Cache[clientKey, Inferencer]
}

func NewConnector() *Connector {
	return &Connector{
		clients: flight.NewCache(ClientTTL, newInferencer),
	}
}

// Connect returns the inferencer for the provider.
func (c *Connector) Connect(_ context.Context, provider, apiKey, model string) (Inferencer, error) {
	return c.clients.Get(clientKey{Provider: provider, APIKey: apiKey, Model: model})
}

// Forget drops the cached client, used after the provider rejected the key.
func (c *Connector) Forget(provider, apiKey, model string) {
	c.clients.Forget(clientKey{Provider: provider, APIKey: apiKey, Model: model})
}

func newInferencer(k clientKey) (Inferencer, error) {
	if k.Provider == "" || k.Provider == schema.ProviderGemini {
		return NewGeminiInferencer(context.Background(), k.APIKey, k.Model)
	}
	endpoint, ok := Endpoints[k.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", k.Provider)
	}
	inf := NewOpenAIInferencer(k.APIKey, endpoint)
	if k.Model != "" {
		inf.SetModel(k.Model)
	}
	return inf, nil
}
