package prompt

import (
	"cmp"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/openai/openai-go/v3"

	"peak/pkg/schema"
)

var (
	ErrMissingSubject    = errors.New("subject name is required")
	ErrMissingCredential = errors.New("api key is not configured")
	ErrInvalidForm       = errors.New("invalid form")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Request is everything one generation call needs. It is built from a form
// snapshot and the configuration at submit time and never touches the network.
type Request struct {
	Form        schema.Form
	System      string
	User        string
	Temperature float64
	Variant     schema.Variant
	Provider    string
	Model       string
	APIKey      string
}

// Build validates the form against the configuration and assembles the
// request. The subject and credential checks run before anything else.
func Build(form schema.Form, cfg schema.Config) (*Request, error) {
	form.PersonName = strings.TrimSpace(form.PersonName)
	if form.PersonName == "" {
		return nil, ErrMissingSubject
	}
	if !cfg.HasCredential() {
		return nil, ErrMissingCredential
	}

	form.Mode = cmp.Or(strings.TrimSpace(form.Mode), schema.DefaultMode)
	form.VisualStyle = cmp.Or(strings.TrimSpace(form.VisualStyle), schema.DefaultVisualStyle)
	form.Tone = cmp.Or(strings.TrimSpace(form.Tone), schema.DefaultTone)
	form.DOB = strings.TrimSpace(form.DOB)
	form.ExternalCharacter = strings.TrimSpace(form.ExternalCharacter)

	if err := validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s=%q", fe.Field(), fe.Value()))
			}
			return nil, fmt.Errorf("%w: %s", ErrInvalidForm, strings.Join(fields, ", "))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	variant := cfg.SchemaVariant()
	return &Request{
		Form:        form,
		System:      cmp.Or(cfg.SystemPrompt, DefaultSystemPrompt),
		User:        userPrompt(form, variant),
		Temperature: cmp.Or(cfg.Temperature, schema.DefaultTemperature),
		Variant:     variant,
		Provider:    cfg.ProviderName(),
		Model:       cfg.Model,
		APIKey:      strings.TrimSpace(cfg.APIKey),
	}, nil
}

func userPrompt(form schema.Form, variant schema.Variant) string {
	var b strings.Builder
	b.WriteString("GENERATE SCRIPT FOLLOWING THE CONTINUITY-LOCKED INSTRUCTION:\n")
	fmt.Fprintf(&b, "Mode: %s\n", form.Mode)
	fmt.Fprintf(&b, "Subject: %s\n", form.PersonName)
	fmt.Fprintf(&b, "DOB: %s\n", cmp.Or(form.DOB, "N/A"))
	fmt.Fprintf(&b, "External Character: %s\n", cmp.Or(form.ExternalCharacter, "None"))
	fmt.Fprintf(&b, "Visual Style: %s\n", form.VisualStyle)
	fmt.Fprintf(&b, "Tone: %s\n\n", form.Tone)
	fmt.Fprintf(&b, continuityRules, SceneCount, MaxRuntimeSeconds)
	if variant == schema.VariantSplit {
		b.WriteString(splitRules)
	} else {
		b.WriteString(combinedRules)
	}
	return b.String()
}

// Params converts the request into provider parameters: model, sampling
// temperature and the structured-output schema.
func (r *Request) Params() *openai.ChatCompletionNewParams {
	return &openai.ChatCompletionNewParams{
		Model:          r.Model,
		Temperature:    openai.Float(r.Temperature),
		ResponseFormat: schema.StructuredOutputsResponseFormat(r.Variant),
	}
}
