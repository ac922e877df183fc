package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peak/pkg/schema"
)

var keyed = schema.Config{APIKey: "key", Temperature: 1.2}

func TestBuild(t *testing.T) {
	req, err := Build(schema.Form{
		Mode:              "Wedding",
		PersonName:        "  Ana & Leo ",
		VisualStyle:       "Anime",
		Tone:              "Cinematic",
		ExternalCharacter: "a golden retriever",
	}, keyed)
	require.NoError(t, err)

	assert.Equal(t, "Ana & Leo", req.Form.PersonName)
	assert.Equal(t, DefaultSystemPrompt, req.System)
	assert.Equal(t, 1.2, req.Temperature)
	assert.Equal(t, schema.ProviderGemini, req.Provider)
	assert.Equal(t, schema.VariantCombined, req.Variant)

	assert.Contains(t, req.User, "Mode: Wedding\n")
	assert.Contains(t, req.User, "Subject: Ana & Leo\n")
	assert.Contains(t, req.User, "DOB: N/A\n")
	assert.Contains(t, req.User, "External Character: a golden retriever\n")
	assert.Contains(t, req.User, "Visual Style: Anime\n")
	assert.Contains(t, req.User, "Tone: Cinematic\n")
	assert.Contains(t, req.User, "Exactly 3 scenes")
}

func TestBuildDefaults(t *testing.T) {
	req, err := Build(schema.Form{PersonName: "Sam"}, schema.Config{APIKey: "key", SystemPrompt: "custom"})
	require.NoError(t, err)

	assert.Equal(t, schema.DefaultMode, req.Form.Mode)
	assert.Equal(t, schema.DefaultVisualStyle, req.Form.VisualStyle)
	assert.Equal(t, schema.DefaultTone, req.Form.Tone)
	assert.Equal(t, "custom", req.System)
	assert.Equal(t, schema.DefaultTemperature, req.Temperature)
	assert.Contains(t, req.User, "External Character: None\n")
}

func TestBuildRejectsBeforeNetwork(t *testing.T) {
	_, err := Build(schema.Form{PersonName: "   "}, keyed)
	assert.ErrorIs(t, err, ErrMissingSubject)

	// The subject check wins over the credential check.
	_, err = Build(schema.Form{}, schema.Config{})
	assert.ErrorIs(t, err, ErrMissingSubject)

	_, err = Build(schema.Form{PersonName: "Sam"}, schema.Config{APIKey: "  "})
	assert.ErrorIs(t, err, ErrMissingCredential)

	_, err = Build(schema.Form{PersonName: "Sam", VisualStyle: "Claymation"}, keyed)
	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Contains(t, err.Error(), "Claymation")
}

func TestParams(t *testing.T) {
	req, err := Build(schema.Form{PersonName: "Sam"}, schema.Config{APIKey: "key", Variant: schema.VariantSplit, Model: "m"})
	require.NoError(t, err)
	assert.Contains(t, req.User, `"scene" and "style"`)

	p := req.Params()
	assert.Equal(t, "m", string(p.Model))
	assert.Equal(t, schema.DefaultTemperature, p.Temperature.Value)
	require.NotNil(t, p.ResponseFormat.OfJSONSchema)
	assert.Same(t, schema.SplitScriptSchema, p.ResponseFormat.OfJSONSchema.JSONSchema.Schema)
}
