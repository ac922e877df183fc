package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramePromptDecodesBothShapes(t *testing.T) {
	var sc Scene
	require.NoError(t, json.Unmarshal([]byte(`{
		"scene_number": 1,
		"start_frame_prompt": "a girl at a window, golden hour",
		"end_frame_prompt": {"scene": "the girl turns around.", "style": "35mm film, warm palette"}
	}`), &sc))

	assert.False(t, sc.StartFramePrompt.IsSplit())
	assert.Equal(t, "a girl at a window, golden hour", sc.StartFramePrompt.Text())

	assert.True(t, sc.EndFramePrompt.IsSplit())
	assert.Equal(t, "the girl turns around.", sc.EndFramePrompt.Scene)
	assert.Equal(t, "the girl turns around. 35mm film, warm palette", sc.EndFramePrompt.Text())
}

func TestFramePromptKeepsShapeOnEncode(t *testing.T) {
	out, err := json.Marshal(Scene{
		StartFramePrompt: Combined("one"),
		EndFramePrompt:   Split("two", "style"),
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"start_frame_prompt":"one"`)
	assert.Contains(t, string(out), `"end_frame_prompt":{"scene":"two","style":"style"}`)
}

func TestSceneField(t *testing.T) {
	sc := Scene{
		SceneNumber:         2,
		VisualDescription:   "cake",
		CameraMotion:        "dolly in",
		StartFramePrompt:    Combined("start"),
		EndFramePrompt:      Split("end", "anime"),
		DialogueOrNarration: "",
		MoodAndLighting:     "warm",
	}
	for _, name := range SceneFields {
		_, ok := sc.Field(name)
		assert.True(t, ok, name)
	}

	text, _ := sc.Field("end_frame_prompt")
	assert.Equal(t, "end. anime", text)
	text, ok := sc.Field("dialogue_or_narration")
	assert.True(t, ok)
	assert.Empty(t, text)

	_, ok = sc.Field("scene_number")
	assert.False(t, ok)
}

func TestScriptScene(t *testing.T) {
	s := Script{Scenes: []Scene{{SceneNumber: 1}, {SceneNumber: 2}}}
	sc, ok := s.Scene(2)
	assert.True(t, ok)
	assert.Equal(t, 2, sc.SceneNumber)
	_, ok = s.Scene(3)
	assert.False(t, ok)
}
