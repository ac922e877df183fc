package utils

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// ErrJSON produces a standard JSON error response.
func ErrJSON(kind, msg string) map[string]any {
	return map[string]any{
		"success": false,
		"kind":    kind,
		"error":   msg,
	}
}

type levRows struct {
	prev []int
	curr []int
}

var rowsPool = sync.Pool{
	New: func() any {
		return &levRows{
			prev: make([]int, 0, 256),
			curr: make([]int, 0, 256),
		}
	},
}

// Levenshtein returns the edit distance between two strings.
func Levenshtein(a, b string) int {
	ar, br := []rune(a), []rune(b)
	al, bl := len(ar), len(br)
	if al == 0 {
		return bl
	}
	if bl == 0 {
		return al
	}

	if bl > al {
		ar, br = br, ar
		al, bl = bl, al
	}

	rows := rowsPool.Get().(*levRows)
	defer rowsPool.Put(rows)
	rows.prev = resize(rows.prev, bl+1)
	rows.curr = resize(rows.curr, bl+1)

	for j := 0; j <= bl; j++ {
		rows.prev[j] = j
	}

	for i := 1; i <= al; i++ {
		rows.curr[0] = i
		for j := 1; j <= bl; j++ {
			cost := 0
			if ar[i-1] != br[j-1] {
				cost = 1
			}
			rows.curr[j] = min(rows.prev[j]+1, rows.curr[j-1]+1, rows.prev[j-1]+cost)
		}
		rows.prev, rows.curr = rows.curr, rows.prev
	}

	return rows.prev[bl]
}

func resize(s []int, n int) []int {
	if cap(s) < n {
		return make([]int, n)
	}
	return s[:n]
}

// Similarity returns a float between 0 and 1 (1 = identical) after folding
// case and collapsing whitespace.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(NormalizeSpace(a)), strings.ToLower(NormalizeSpace(b))
	if a == b {
		return 1.0
	}
	maxLen := float64(max(utf8.RuneCountInString(a), utf8.RuneCountInString(b)))
	if maxLen == 0 {
		return 0
	}
	return 1.0 - float64(Levenshtein(a, b))/maxLen
}

// NormalizeSpace trims s and collapses every run of whitespace to one space.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CleanJSON strips reasoning preambles and markdown fences from model output
// and cuts it down to the outermost JSON object.
func CleanJSON(s string) string {
	if strings.Contains(s, "<think>") {
		if idx := strings.LastIndex(s, "</think>"); idx != -1 {
			s = s[idx+len("</think>"):]
		}
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		lines := strings.Split(s, "\n")
		if len(lines) >= 2 {
			lines = lines[1:]
			if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
				lines = lines[:len(lines)-1]
			}
			s = strings.Join(lines, "\n")
		}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	if s[0] != '{' {
		if j := strings.Index(s, "{"); j != -1 {
			s = s[j:]
		}
	}
	if s[len(s)-1] != '}' {
		if j := strings.LastIndex(s, "}"); j != -1 {
			s = s[:j+1]
		}
	}
	return s
}

// LimitStr returns a string truncated to n runes with "..." appended if longer.
func LimitStr(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// StringContains checks if s contains any of the substrings in substr.
// An empty substring matches only an empty string. Set sensitive to true for case-sensitive match.
func StringContains(s string, sensitive bool, substr ...string) bool {
	if !sensitive {
		s = strings.ToLower(s)
	}
	for _, sub := range substr {
		if sub == "" {
			if s == "" {
				return true
			}
			continue
		}
		if !sensitive {
			sub = strings.ToLower(sub)
		}
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
