// Package continuity checks a generated script against the frame-linking
// contract the model is asked to honor. It reports, it never repairs.
package continuity

import (
	"fmt"
	"strings"

	"peak/pkg/diff"
	"peak/pkg/schema"
	"peak/pkg/utils"
)

// NearMatch is the similarity at which a boundary counts as a paraphrase
// rather than a different frame.
const NearMatch = 0.85

type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityMinor    Severity = "minor"
	SeverityCritical Severity = "critical"
)

// Boundary compares scene From's end frame with scene To's start frame.
type Boundary struct {
	From       int      `json:"from"`
	To         int      `json:"to"`
	Match      bool     `json:"match"`
	Similarity float64  `json:"similarity"`
	Severity   Severity `json:"severity"`
	Diff       string   `json:"diff,omitempty"`
	// ChangedWords counts words added or removed between the two frames.
	ChangedWords int              `json:"changed_words"`
	Deltas       []diff.WordDelta `json:"-"`
}

type Report struct {
	Scenes     int        `json:"scenes"`
	Expected   int        `json:"expected"`
	Continuous bool       `json:"continuous"`
	Boundaries []Boundary `json:"boundaries"`
	Warnings   []string   `json:"warnings,omitempty"`
}

// Check builds the continuity report for s. expected <= 0 skips the scene
// count check.
func Check(s schema.Script, expected int) Report {
	r := Report{
		Scenes:     len(s.Scenes),
		Expected:   expected,
		Continuous: true,
		Boundaries: make([]Boundary, 0, max(len(s.Scenes)-1, 0)),
	}

	if expected > 0 && len(s.Scenes) != expected {
		r.Warnings = append(r.Warnings, fmt.Sprintf("expected %d scenes, got %d", expected, len(s.Scenes)))
	}

	for i := 0; i+1 < len(s.Scenes); i++ {
		b := compare(s.Scenes[i], s.Scenes[i+1])
		if !b.Match {
			r.Continuous = false
		}
		r.Boundaries = append(r.Boundaries, b)
	}

	r.Warnings = append(r.Warnings, styleDrift(s)...)
	return r
}

func compare(a, b schema.Scene) Boundary {
	end, start := a.EndFramePrompt.Text(), b.StartFramePrompt.Text()
	bd := Boundary{
		From:       a.SceneNumber,
		To:         b.SceneNumber,
		Similarity: utils.Similarity(end, start),
	}
	if strings.EqualFold(utils.NormalizeSpace(end), utils.NormalizeSpace(start)) {
		bd.Match = true
		bd.Similarity = 1
		bd.Severity = SeverityNone
		return bd
	}

	bd.Deltas = diff.Words(end, start)
	bd.Diff = diff.Render(bd.Deltas)
	bd.ChangedWords = diff.Changed(bd.Deltas)
	if bd.Similarity >= NearMatch {
		bd.Severity = SeverityMinor
	} else {
		bd.Severity = SeverityCritical
	}
	return bd
}

// styleDrift flags split-variant frames whose style differs from the master
// style prompt or from the first frame's style.
func styleDrift(s schema.Script) []string {
	want := utils.NormalizeSpace(s.MasterStylePrompt)
	var warnings []string
	for _, sc := range s.Scenes {
		for _, f := range []struct {
			name  string
			frame schema.FramePrompt
		}{
			{"start", sc.StartFramePrompt},
			{"end", sc.EndFramePrompt},
		} {
			if !f.frame.IsSplit() {
				continue
			}
			got := utils.NormalizeSpace(f.frame.Style)
			if want == "" {
				want = got
				continue
			}
			if !strings.EqualFold(got, want) {
				warnings = append(warnings, fmt.Sprintf("scene %d %s frame style drifts from the master style", sc.SceneNumber, f.name))
			}
		}
	}
	return warnings
}
