package continuity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peak/pkg/schema"
)

func scene(n int, start, end schema.FramePrompt) schema.Scene {
	return schema.Scene{SceneNumber: n, StartFramePrompt: start, EndFramePrompt: end}
}

func TestCheckContinuous(t *testing.T) {
	s := schema.Script{Scenes: []schema.Scene{
		scene(1, schema.Combined("a door opens"), schema.Combined("Maya in the doorway, red scarf")),
		scene(2, schema.Combined("maya in the  doorway, red scarf"), schema.Combined("Maya at the table")),
		scene(3, schema.Combined("Maya at the table"), schema.Combined("candles out")),
	}}

	r := Check(s, 3)
	assert.True(t, r.Continuous)
	assert.Empty(t, r.Warnings)
	require.Len(t, r.Boundaries, 2)
	assert.Equal(t, 1, r.Boundaries[0].From)
	assert.Equal(t, 2, r.Boundaries[0].To)
	assert.Equal(t, SeverityNone, r.Boundaries[0].Severity)
	assert.Equal(t, 1.0, r.Boundaries[0].Similarity)
	assert.Zero(t, r.Boundaries[0].ChangedWords)
}

func TestCheckFlagsBrokenBoundaries(t *testing.T) {
	s := schema.Script{Scenes: []schema.Scene{
		scene(1, schema.Combined("start"), schema.Combined("Maya in the doorway wearing a red scarf")),
		scene(2, schema.Combined("Maya in the doorway wearing a red scarf."), schema.Combined("Maya at the table")),
		scene(3, schema.Combined("An astronaut floating above Earth"), schema.Combined("end")),
	}}

	r := Check(s, 3)
	assert.False(t, r.Continuous)
	require.Len(t, r.Boundaries, 2)

	minor := r.Boundaries[0]
	assert.False(t, minor.Match)
	assert.Equal(t, SeverityMinor, minor.Severity)
	assert.GreaterOrEqual(t, minor.Similarity, NearMatch)
	assert.Contains(t, minor.Diff, "{+.+}")
	assert.Equal(t, 1, minor.ChangedWords)

	critical := r.Boundaries[1]
	assert.Equal(t, SeverityCritical, critical.Severity)
	assert.Less(t, critical.Similarity, NearMatch)
	assert.NotEmpty(t, critical.Deltas)
}

func TestCheckSceneCount(t *testing.T) {
	s := schema.Script{Scenes: []schema.Scene{scene(1, schema.Combined("a"), schema.Combined("b"))}}
	r := Check(s, 3)
	assert.Equal(t, 1, r.Scenes)
	assert.Empty(t, r.Boundaries)
	assert.True(t, r.Continuous)
	assert.Equal(t, []string{"expected 3 scenes, got 1"}, r.Warnings)

	assert.Empty(t, Check(s, 0).Warnings)
}

func TestCheckStyleDrift(t *testing.T) {
	s := schema.Script{
		MasterStylePrompt: "anime, cel shading",
		Scenes: []schema.Scene{
			scene(1, schema.Split("a", "anime, cel shading"), schema.Split("b", "Anime,  cel shading")),
			scene(2, schema.Split("b", "anime, cel shading"), schema.Split("c", "photoreal")),
		},
	}
	r := Check(s, 2)
	assert.True(t, r.Continuous)
	assert.Equal(t, []string{"scene 2 end frame style drifts from the master style"}, r.Warnings)
}
