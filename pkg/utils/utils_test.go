package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"think preamble", "<think>scene one first</think>\n{\"a\":1}", `{"a":1}`},
		{"chatter around", "Here you go: {\"a\":{\"b\":2}} Enjoy!", `{"a":{"b":2}}`},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSON(tt.in))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("A cake  on a table", "a cake on a table"))
	assert.Equal(t, 0.0, Similarity("", "abc"))
	assert.Equal(t, 1.0, Similarity("", ""))

	s := Similarity("woman in a red dress", "woman in a blue dress")
	assert.Greater(t, s, 0.8)
	assert.Less(t, s, 1.0)
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 3, Levenshtein("kitten", "sitting"))
	assert.Equal(t, 0, Levenshtein("same", "same"))
	assert.Equal(t, 4, Levenshtein("", "four"))
	assert.Equal(t, 1, Levenshtein("café", "cafe"))
}

func TestLimitStr(t *testing.T) {
	assert.Equal(t, "short", LimitStr("short", 10))
	assert.Equal(t, "héll...", LimitStr("héllo world", 4))
}

func TestStringContains(t *testing.T) {
	assert.True(t, StringContains("Error 403: forbidden", false, "401", "403"))
	assert.True(t, StringContains("API KEY NOT VALID", false, "API key not valid"))
	assert.False(t, StringContains("API KEY NOT VALID", true, "API key not valid"))
	assert.False(t, StringContains("timeout", false, ""))
	assert.True(t, StringContains("", false, ""))
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "v.json")

	_, err := Load[map[string]int](path)
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, Save(path, map[string]int{"a": 1}))
	assert.FileExists(t, path)

	v, err := Load[map[string]int](path)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1}, v)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = Load[map[string]int](path)
	assert.ErrorIs(t, err, ErrCorrupt)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}
