package inference

import (
	"cmp"
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-3-pro-preview"

type GeminiInferencer struct {
	client *genai.Client
	model  string
}

// NewGeminiInferencer creates a new inferencer backed by the Gemini API.
func NewGeminiInferencer(ctx context.Context, apiKey string, model string) (*GeminiInferencer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiInferencer{
		client: client,
		model:  cmp.Or(model, DefaultGeminiModel),
	}, nil
}

// Infer runs one generateContent call. Temperature, the output token budget
// and the JSON schema are read from params.
func (o *GeminiInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	result, err := o.client.Models.GenerateContent(
		ctx,
		cmp.Or(modelOf(params), o.model),
		genai.Text(user),
		generateConfig(params, system),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", Classify(err))
	}

	return result.Text(), nil
}

func modelOf(params *openai.ChatCompletionNewParams) string {
	if params == nil {
		return ""
	}
	return params.Model
}

func generateConfig(params *openai.ChatCompletionNewParams, system string) *genai.GenerateContentConfig {
	if params == nil {
		params = new(openai.ChatCompletionNewParams)
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if params.Temperature.Valid() {
		config.Temperature = genai.Ptr(float32(params.Temperature.Value))
	}
	if params.MaxCompletionTokens.Valid() {
		config.MaxOutputTokens = int32(params.MaxCompletionTokens.Value)
	}
	if js := params.ResponseFormat.OfJSONSchema; js != nil {
		config.ResponseJsonSchema = js.JSONSchema.Schema
	}
	return config
}

// Verify checks that the result is non-empty.
func (o *GeminiInferencer) Verify(ctx context.Context, result string) (bool, error) {
	return verifyNonEmpty(result)
}
