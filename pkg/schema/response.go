package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

var ErrMalformedResponse = errors.New("malformed model response")

type combinedResponse struct {
	Title             string          `json:"title" jsonschema_description:"Short title of the video"`
	MasterStylePrompt string          `json:"master_style_prompt" jsonschema_description:"The core stylistic DNA for the whole video. Include art style, lens, lighting, and palette."`
	Scenes            []combinedScene `json:"scenes" jsonschema_description:"Scenes in playback order"`
}

type combinedScene struct {
	SceneNumber         int    `json:"scene_number" jsonschema_description:"1-based position of the scene"`
	VisualDescription   string `json:"visual_description"`
	CameraMotion        string `json:"camera_motion"`
	StartFramePrompt    string `json:"start_frame_prompt" jsonschema_description:"Full prompt for the starting image, incorporating the master style."`
	EndFramePrompt      string `json:"end_frame_prompt" jsonschema_description:"Full prompt for the ending image, incorporating the master style."`
	DialogueOrNarration string `json:"dialogue_or_narration"`
	MoodAndLighting     string `json:"mood_and_lighting"`
}

type splitResponse struct {
	Title             string       `json:"title" jsonschema_description:"Short title of the video"`
	MasterStylePrompt string       `json:"master_style_prompt" jsonschema_description:"The core stylistic DNA for the whole video. Repeated verbatim as the style of every frame."`
	Scenes            []splitScene `json:"scenes" jsonschema_description:"Scenes in playback order"`
}

type splitScene struct {
	SceneNumber         int        `json:"scene_number" jsonschema_description:"1-based position of the scene"`
	VisualDescription   string     `json:"visual_description"`
	CameraMotion        string     `json:"camera_motion"`
	StartFramePrompt    splitFrame `json:"start_frame_prompt" jsonschema_description:"Starting image, subject matter and style kept apart."`
	EndFramePrompt      splitFrame `json:"end_frame_prompt" jsonschema_description:"Ending image, subject matter and style kept apart."`
	DialogueOrNarration string     `json:"dialogue_or_narration"`
	MoodAndLighting     string     `json:"mood_and_lighting"`
}

func generateSchema[T any]() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

var (
	CombinedScriptSchema = generateSchema[combinedResponse]()
	SplitScriptSchema    = generateSchema[splitResponse]()
)

// ResponseSchema returns the JSON schema the model output must satisfy.
func ResponseSchema(v Variant) *jsonschema.Schema {
	if v == VariantSplit {
		return SplitScriptSchema
	}
	return CombinedScriptSchema
}

// StructuredOutputsResponseFormat wraps the variant's schema for providers
// that accept OpenAI-style structured outputs.
func StructuredOutputsResponseFormat(v Variant) openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "video_script",
		Description: openai.String("Continuity-locked short video script split into scenes"),
		Schema:      ResponseSchema(v),
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}

// Generated is the part of a Script that comes from the model.
type Generated struct {
	Title             string
	MasterStylePrompt string
	Scenes            []Scene
}

type rawResponse struct {
	Title             *string    `json:"title"`
	MasterStylePrompt *string    `json:"master_style_prompt"`
	Scenes            []rawScene `json:"scenes"`
}

type rawScene struct {
	SceneNumber         *int         `json:"scene_number"`
	VisualDescription   *string      `json:"visual_description"`
	CameraMotion        *string      `json:"camera_motion"`
	StartFramePrompt    *FramePrompt `json:"start_frame_prompt"`
	EndFramePrompt      *FramePrompt `json:"end_frame_prompt"`
	DialogueOrNarration *string      `json:"dialogue_or_narration"`
	MoodAndLighting     *string      `json:"mood_and_lighting"`
}

// DecodeGenerated parses model output into typed scenes. Absent fields,
// blank required text and scene numbers that do not run 1..n all fail with
// ErrMalformedResponse. Dialogue may be empty but must be present. The
// master style prompt is only required when frames come split.
func DecodeGenerated(out string) (Generated, error) {
	var raw rawResponse
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		return Generated{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if raw.Title == nil || strings.TrimSpace(*raw.Title) == "" {
		return Generated{}, fmt.Errorf("%w: missing title", ErrMalformedResponse)
	}
	if len(raw.Scenes) == 0 {
		return Generated{}, fmt.Errorf("%w: no scenes", ErrMalformedResponse)
	}

	g := Generated{
		Title:  strings.TrimSpace(*raw.Title),
		Scenes: make([]Scene, 0, len(raw.Scenes)),
	}
	if raw.MasterStylePrompt != nil {
		g.MasterStylePrompt = *raw.MasterStylePrompt
	}

	split := false
	for i, rs := range raw.Scenes {
		sc, err := rs.scene(i + 1)
		if err != nil {
			return Generated{}, err
		}
		split = split || sc.StartFramePrompt.IsSplit() || sc.EndFramePrompt.IsSplit()
		g.Scenes = append(g.Scenes, sc)
	}
	// Split frames carry their style separately; the master style is what
	// every one of them must repeat.
	if split && strings.TrimSpace(g.MasterStylePrompt) == "" {
		return Generated{}, fmt.Errorf("%w: split frames without master_style_prompt", ErrMalformedResponse)
	}
	return g, nil
}

func (rs rawScene) scene(want int) (Scene, error) {
	if rs.SceneNumber == nil {
		return Scene{}, fmt.Errorf("%w: scene %d: missing scene_number", ErrMalformedResponse, want)
	}
	if *rs.SceneNumber != want {
		return Scene{}, fmt.Errorf("%w: scene %d is numbered %d", ErrMalformedResponse, want, *rs.SceneNumber)
	}

	required := []struct {
		name string
		v    *string
	}{
		{"visual_description", rs.VisualDescription},
		{"camera_motion", rs.CameraMotion},
		{"mood_and_lighting", rs.MoodAndLighting},
	}
	for _, r := range required {
		if r.v == nil || strings.TrimSpace(*r.v) == "" {
			return Scene{}, fmt.Errorf("%w: scene %d: missing %s", ErrMalformedResponse, want, r.name)
		}
	}
	if rs.StartFramePrompt == nil || strings.TrimSpace(rs.StartFramePrompt.Text()) == "" {
		return Scene{}, fmt.Errorf("%w: scene %d: missing start_frame_prompt", ErrMalformedResponse, want)
	}
	if rs.EndFramePrompt == nil || strings.TrimSpace(rs.EndFramePrompt.Text()) == "" {
		return Scene{}, fmt.Errorf("%w: scene %d: missing end_frame_prompt", ErrMalformedResponse, want)
	}
	if rs.DialogueOrNarration == nil {
		return Scene{}, fmt.Errorf("%w: scene %d: missing dialogue_or_narration", ErrMalformedResponse, want)
	}

	return Scene{
		SceneNumber:         want,
		VisualDescription:   *rs.VisualDescription,
		CameraMotion:        *rs.CameraMotion,
		StartFramePrompt:    *rs.StartFramePrompt,
		EndFramePrompt:      *rs.EndFramePrompt,
		DialogueOrNarration: *rs.DialogueOrNarration,
		MoodAndLighting:     *rs.MoodAndLighting,
	}, nil
}
