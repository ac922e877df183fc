package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Variant selects the frame prompt shape requested from the model.
type Variant string

const (
	VariantCombined Variant = "combined"
	VariantSplit    Variant = "split"
)

const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderGrok     = "grok"
	ProviderKimi     = "kimi"
	ProviderMoonshot = "moonshot"
)

var Providers = []string{ProviderGemini, ProviderOpenAI, ProviderGrok, ProviderKimi, ProviderMoonshot}

// Temperatures are the sampling temperatures a user can pick from.
var Temperatures = []float64{0.7, 0.8, 0.9, 1.0, 1.1, 1.2, 1.5}

const DefaultTemperature = 0.8

// Config holds the user-editable generation settings. The JSON names match
// the persisted blob of earlier releases so saved settings keep loading.
type Config struct {
	Temperature  float64 `json:"temperature"`
	SystemPrompt string  `json:"systemPrompt"`
	APIKey       string  `json:"apiKey"`
	Provider     string  `json:"provider,omitempty"`
	Model        string  `json:"model,omitempty"`
	Variant      Variant `json:"schemaVariant,omitempty"`
}

// HasCredential reports whether an API key is present.
func (c Config) HasCredential() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// ProviderName returns the configured provider, defaulting to Gemini.
func (c Config) ProviderName() string {
	if c.Provider == "" {
		return ProviderGemini
	}
	return c.Provider
}

// SchemaVariant returns the configured variant, defaulting to combined.
func (c Config) SchemaVariant() Variant {
	if c.Variant == "" {
		return VariantCombined
	}
	return c.Variant
}

func (c Config) Validate() error {
	if !slices.Contains(Temperatures, c.Temperature) {
		return fmt.Errorf("%w: temperature %v is not one of %v", ErrInvalidConfig, c.Temperature, Temperatures)
	}
	if !slices.Contains(Providers, c.ProviderName()) {
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}
	if v := c.SchemaVariant(); v != VariantCombined && v != VariantSplit {
		return fmt.Errorf("%w: unknown schema variant %q", ErrInvalidConfig, c.Variant)
	}
	return nil
}

// Masked returns a copy safe to show back to a client.
func (c Config) Masked() Config {
	key := strings.TrimSpace(c.APIKey)
	switch {
	case key == "":
	case len(key) <= 8:
		c.APIKey = strings.Repeat("*", len(key))
	default:
		c.APIKey = key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
	}
	return c
}
