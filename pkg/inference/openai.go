package inference

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"peak/pkg/schema"
)

// Endpoint is an OpenAI-compatible chat completions API.
type Endpoint struct {
	BaseURL string
	Model   string
}

// Endpoints holds the OpenAI-compatible providers by name. An empty BaseURL
// uses the SDK default.
var Endpoints = map[string]Endpoint{
	schema.ProviderOpenAI:   {Model: "gpt-4o-mini"},
	schema.ProviderGrok:     {BaseURL: "https://api.x.ai/v1", Model: "grok-4-fast-reasoning"},
	schema.ProviderKimi:     {BaseURL: "https://api.kimi.com/coding/v1", Model: "kimi-for-coding"},
	schema.ProviderMoonshot: {BaseURL: "https://api.moonshot.ai/v1", Model: "kimi-k2-5"},
}

// OpenAIInferencer implements Inferencer using OpenAI's official Go SDK.
type OpenAIInferencer struct {
	client *openai.Client
	apiKey string
	model  string
}

// NewOpenAIInferencer creates a new inferencer for an OpenAI-compatible endpoint.
func NewOpenAIInferencer(apiKey string, endpoint Endpoint) *OpenAIInferencer {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if endpoint.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(endpoint.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAIInferencer{
		client: &client,
		apiKey: apiKey,
		model:  endpoint.Model,
	}
}

func (o *OpenAIInferencer) SetModel(model string) {
	o.model = model
}

// Infer sends text to the chat completion endpoint and returns the output.
func (o *OpenAIInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	p := openai.ChatCompletionNewParams{}
	if params != nil {
		p = *params
	}
	p.Model = cmp.Or(p.Model, o.model)
	p.Messages = []openai.ChatCompletionMessageParamUnion{
		{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: param.Opt[string]{Value: system},
				},
			}},
		{
			OfUser: &openai.ChatCompletionUserMessageParam{
				Content: openai.ChatCompletionUserMessageParamContentUnion{
					OfString: param.Opt[string]{Value: user},
				},
			},
		},
	}
	if !p.MaxCompletionTokens.Valid() {
		p.MaxCompletionTokens = openai.Int(4096 * 4)
	}

	resp, err := o.client.Chat.Completions.New(ctx, p)
	if err != nil {
		return "", fmt.Errorf("openai inference error: %w", Classify(err))
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices returned")
	}
	if resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty completion content")
	}

	return resp.Choices[0].Message.Content, nil
}

// Verify checks that the result is non-empty.
func (o *OpenAIInferencer) Verify(ctx context.Context, result string) (bool, error) {
	return verifyNonEmpty(result)
}
