package utils

import (
	"github.com/pkoukk/tiktoken-go"
)

// NumTokens estimates the prompt size. Gemini does not publish a local
// tokenizer, so the cl100k encoding is used as an approximation.
func NumTokens(text string) (int, error) {
	tkm, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return 0, err
	}

	return len(tkm.Encode(text, nil, nil)), nil
}
