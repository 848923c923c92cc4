// internal/engine/remote/extract.go
package remote

import (
	"errors"
	"strings"
)

var errNoJSON = errors.New("no bracketed JSON in response")

// ExtractArray returns the substring from the first '[' through the last ']'.
// The completion service is not guaranteed to return pure JSON; it often
// wraps the payload in prose or markdown fences.
func ExtractArray(text string) (string, error) {
	return extractDelimited(text, '[', ']')
}

// ExtractObject returns the substring from the first '{' through the last '}'.
func ExtractObject(text string) (string, error) {
	return extractDelimited(text, '{', '}')
}

func extractDelimited(text string, open, close byte) (string, error) {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start == -1 || end == -1 || end < start {
		return "", errNoJSON
	}
	return text[start : end+1], nil
}
