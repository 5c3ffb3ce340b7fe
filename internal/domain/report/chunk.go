package report

import (
	"strings"
	"unicode"
)

// DefaultMaxMessageLength is the chat transport's message ceiling.
const DefaultMaxMessageLength = 4096

// SplitForTransport cuts text into chunks of at most maxLength runes,
// preferring the last whitespace at or before the limit. A token longer
// than the limit is hard-cut. Whitespace around each split point is
// dropped.
func SplitForTransport(text string, maxLength int) []string {
	r := []rune(text)
	if maxLength <= 0 || len(r) <= maxLength {
		return []string{text}
	}

	var chunks []string
	for len(r) > maxLength {
		cut := lastSpace(r, maxLength)
		if cut <= 0 {
			cut = maxLength
		}
		if chunk := strings.TrimRightFunc(string(r[:cut]), unicode.IsSpace); chunk != "" {
			chunks = append(chunks, chunk)
		}
		r = []rune(strings.TrimLeftFunc(string(r[cut:]), unicode.IsSpace))
	}
	if len(r) > 0 || len(chunks) == 0 {
		chunks = append(chunks, string(r))
	}
	return chunks
}

// lastSpace returns the index of the last whitespace rune in r[:limit+1],
// or -1.
func lastSpace(r []rune, limit int) int {
	if limit >= len(r) {
		limit = len(r) - 1
	}
	for i := limit; i >= 0; i-- {
		if unicode.IsSpace(r[i]) {
			return i
		}
	}
	return -1
}
