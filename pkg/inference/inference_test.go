package inference

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"peak/pkg/schema"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		invalid bool
	}{
		{"nil", nil, false},
		{"gemini message", errors.New("API key not valid. Please pass a valid API key."), true},
		{"status in text", errors.New("request failed: 403 Forbidden"), true},
		{"401 in text", fmt.Errorf("wrapped: %w", errors.New("HTTP 401")), true},
		{"timeout", errors.New("context deadline exceeded"), false},
		{"quota", errors.New("429 resource exhausted"), false},
		{"genai value", genai.APIError{Code: 403, Message: "permission denied"}, true},
		{"genai pointer", &genai.APIError{Code: 401, Message: "unauthenticated"}, true},
		{"genai server", genai.APIError{Code: 500, Message: "internal"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.invalid, errors.Is(got, ErrInvalidCredential))
			if tt.err != nil {
				assert.Contains(t, got.Error(), tt.err.Error())
			}
		})
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	err := Classify(errors.New("401"))
	assert.Same(t, err, Classify(err))
}

func TestGenerateConfig(t *testing.T) {
	params := &openai.ChatCompletionNewParams{
		Temperature:         openai.Float(0.9),
		MaxCompletionTokens: openai.Int(2048),
		ResponseFormat:      schema.StructuredOutputsResponseFormat(schema.VariantCombined),
	}
	cfg := generateConfig(params, "be creative")

	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.9, *cfg.Temperature, 1e-6)
	assert.Equal(t, int32(2048), cfg.MaxOutputTokens)
	assert.Same(t, schema.CombinedScriptSchema, cfg.ResponseJsonSchema)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "be creative", cfg.SystemInstruction.Parts[0].Text)

	empty := generateConfig(nil, "")
	assert.Nil(t, empty.Temperature)
	assert.Nil(t, empty.SystemInstruction)
	assert.Nil(t, empty.ResponseJsonSchema)
}

func TestOpenAIInfer(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","created":1,"model":"m",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"title\":\"ok\"}"}}]}`)
	}))
	defer srv.Close()

	inf := NewOpenAIInferencer("key", Endpoint{BaseURL: srv.URL, Model: "test-model"})
	out, err := inf.Infer(t.Context(), &openai.ChatCompletionNewParams{
		Temperature:    openai.Float(1.1),
		ResponseFormat: schema.StructuredOutputsResponseFormat(schema.VariantSplit),
	}, "system", "user")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"ok"}`, out)

	assert.Equal(t, "test-model", body["model"])
	assert.Equal(t, 1.1, body["temperature"])
	assert.Len(t, body["messages"], 2)
	rf, _ := body["response_format"].(map[string]any)
	assert.Equal(t, "json_schema", rf["type"])

	ok, err := inf.Verify(t.Context(), out)
	assert.True(t, ok)
	assert.NoError(t, err)
	ok, _ = inf.Verify(t.Context(), "")
	assert.False(t, ok)
}

func TestOpenAIInferRejectedKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	inf := NewOpenAIInferencer("bad", Endpoint{BaseURL: srv.URL, Model: "m"})
	_, err := inf.Infer(t.Context(), nil, "s", "u")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestConnectorReusesClients(t *testing.T) {
	c := NewConnector()

	a, err := c.Connect(t.Context(), schema.ProviderOpenAI, "key", "")
	require.NoError(t, err)
	b, err := c.Connect(t.Context(), schema.ProviderOpenAI, "key", "")
	require.NoError(t, err)
	assert.Same(t, a, b)

	other, err := c.Connect(t.Context(), schema.ProviderOpenAI, "other", "")
	require.NoError(t, err)
	assert.NotSame(t, a, other)

	c.Forget(schema.ProviderOpenAI, "key", "")
	again, err := c.Connect(t.Context(), schema.ProviderOpenAI, "key", "")
	require.NoError(t, err)
	assert.NotSame(t, a, again)

	grok, err := c.Connect(t.Context(), schema.ProviderGrok, "key", "grok-custom")
	require.NoError(t, err)
	assert.Equal(t, "grok-custom", grok.(*OpenAIInferencer).model)

	_, err = c.Connect(t.Context(), "claude", "key", "")
	assert.Error(t, err)
}
