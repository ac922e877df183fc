package diff

import (
	"strings"
	"unicode"

	"github.com/aryann/difflib"
)

type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

type WordDelta struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

// Tokenize splits s into runs of whitespace, word characters and
// punctuation so that joining the tokens reproduces s.
func Tokenize(s string) []string {
	var out []string
	var cur []rune
	kind := -1 // 0=space,1=word,2=punct
	flush := func() {
		if len(cur) == 0 {
			return
		}
		out = append(out, string(cur))
		cur = cur[:0]
	}
	for _, r := range s {
		k := 2
		switch {
		case unicode.IsSpace(r):
			k = 0
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || r == '-' || r == '\'':
			k = 1
		}
		if kind == -1 {
			kind = k
		}
		if k != kind {
			flush()
			kind = k
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

// Words diffs a against b word by word.
func Words(a, b string) []WordDelta {
	recs := difflib.Diff(Tokenize(a), Tokenize(b))
	out := make([]WordDelta, 0, len(recs))
	for _, r := range recs {
		switch r.Delta {
		case difflib.Common:
			out = append(out, WordDelta{Op: Equal, Text: r.Payload})
		case difflib.LeftOnly:
			out = append(out, WordDelta{Op: Delete, Text: r.Payload})
		case difflib.RightOnly:
			out = append(out, WordDelta{Op: Insert, Text: r.Payload})
		}
	}
	return out
}

// Changed counts inserted and deleted tokens that are not pure whitespace.
func Changed(deltas []WordDelta) int {
	n := 0
	for _, d := range deltas {
		if d.Op != Equal && strings.TrimSpace(d.Text) != "" {
			n++
		}
	}
	return n
}

// Render formats deltas inline, [-removed-] and {+added+}, merging adjacent
// runs of the same operation.
func Render(deltas []WordDelta) string {
	var b strings.Builder
	open := Equal
	closeRun := func() {
		switch open {
		case Delete:
			b.WriteString("-]")
		case Insert:
			b.WriteString("+}")
		}
		open = Equal
	}
	for _, d := range deltas {
		if d.Op != open {
			closeRun()
			switch d.Op {
			case Delete:
				b.WriteString("[-")
			case Insert:
				b.WriteString("{+")
			}
			open = d.Op
		}
		b.WriteString(d.Text)
	}
	closeRun()
	return b.String()
}
