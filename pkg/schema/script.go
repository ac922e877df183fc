package schema

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Script is one generated video script. It is never mutated after creation.
type Script struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Mode              string  `json:"mode"`
	PersonName        string  `json:"person_name"`
	VisualStyle       string  `json:"visual_style"`
	Tone              string  `json:"tone"`
	MasterStylePrompt string  `json:"master_style_prompt,omitempty"`
	Scenes            []Scene `json:"scenes"`
	CreatedAt         string  `json:"created_at"`
}

// Scene returns the scene with the given 1-based number.
func (s Script) Scene(number int) (Scene, bool) {
	for _, sc := range s.Scenes {
		if sc.SceneNumber == number {
			return sc, true
		}
	}
	return Scene{}, false
}

type Scene struct {
	SceneNumber         int         `json:"scene_number"`
	VisualDescription   string      `json:"visual_description"`
	CameraMotion        string      `json:"camera_motion"`
	StartFramePrompt    FramePrompt `json:"start_frame_prompt"`
	EndFramePrompt      FramePrompt `json:"end_frame_prompt"`
	DialogueOrNarration string      `json:"dialogue_or_narration"`
	MoodAndLighting     string      `json:"mood_and_lighting"`
}

// SceneFields lists the copyable fields of a scene by their JSON names.
var SceneFields = []string{
	"visual_description",
	"camera_motion",
	"start_frame_prompt",
	"end_frame_prompt",
	"dialogue_or_narration",
	"mood_and_lighting",
}

// Field returns the text of a scene field addressed by its JSON name.
func (s Scene) Field(name string) (string, bool) {
	switch name {
	case "visual_description":
		return s.VisualDescription, true
	case "camera_motion":
		return s.CameraMotion, true
	case "start_frame_prompt":
		return s.StartFramePrompt.Text(), true
	case "end_frame_prompt":
		return s.EndFramePrompt.Text(), true
	case "dialogue_or_narration":
		return s.DialogueOrNarration, true
	case "mood_and_lighting":
		return s.MoodAndLighting, true
	}
	return "", false
}

// FramePrompt is an image prompt for the first or last frame of a scene.
// The combined variant carries one Prompt string; the split variant carries
// the subject matter and the style separately.
type FramePrompt struct {
	Prompt string
	Scene  string
	Style  string
}

func Combined(prompt string) FramePrompt {
	return FramePrompt{Prompt: prompt}
}

func Split(scene, style string) FramePrompt {
	return FramePrompt{Scene: scene, Style: style}
}

// IsSplit reports whether the prompt came from the split variant.
func (f FramePrompt) IsSplit() bool {
	return f.Prompt == "" && (f.Scene != "" || f.Style != "")
}

// Text flattens the prompt into what gets pasted into an image model.
func (f FramePrompt) Text() string {
	if !f.IsSplit() {
		return f.Prompt
	}
	switch {
	case f.Style == "":
		return f.Scene
	case f.Scene == "":
		return f.Style
	}
	return strings.TrimRight(strings.TrimSpace(f.Scene), ".,") + ". " + strings.TrimSpace(f.Style)
}

type splitFrame struct {
	Scene string `json:"scene"`
	Style string `json:"style"`
}

func (f FramePrompt) MarshalJSON() ([]byte, error) {
	if f.IsSplit() {
		return json.Marshal(splitFrame{Scene: f.Scene, Style: f.Style})
	}
	return json.Marshal(f.Prompt)
}

func (f *FramePrompt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var s splitFrame
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FramePrompt{Scene: s.Scene, Style: s.Style}
		return nil
	}
	var p string
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = FramePrompt{Prompt: p}
	return nil
}
