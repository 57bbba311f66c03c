package debate

import (
	"strings"
	"unicode"
)

var fenceReplacer = strings.NewReplacer("```json", "", "```", "")

// StripCodeFences removes markdown code-fence markers the model sometimes
// wraps around its output.
func StripCodeFences(s string) string {
	return strings.TrimSpace(fenceReplacer.Replace(s))
}

// CountWords reports the number of whitespace-separated words in s.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// TruncateWords keeps at most max whitespace-separated words of s.
func TruncateWords(s string, max int) string {
	words := strings.Fields(s)
	if len(words) > max {
		words = words[:max]
	}
	return strings.Join(words, " ")
}

// TruncateFragment keeps at most max words of s by cutting at a byte index,
// so the fragment's own whitespace, leading whitespace included, survives.
// Streamed deltas are truncated with this rather than TruncateWords: the
// client concatenates deltas verbatim, and dropping a leading space would
// merge the boundary words on screen.
func TruncateFragment(s string, max int) string {
	if max <= 0 {
		return ""
	}
	words := 0
	inWord := false
	for i, r := range s {
		isSpace := unicode.IsSpace(r)
		if inWord && isSpace && words == max {
			return s[:i]
		}
		if isSpace {
			inWord = false
			continue
		}
		if !inWord {
			inWord = true
			words++
		}
	}
	return s
}

// Sanitize normalizes a raw model utterance into a final turn message:
// code fences stripped, whitespace runs collapsed to single spaces, trimmed,
// then truncated to maxWords. Idempotent.
func Sanitize(s string, maxWords int) string {
	return TruncateWords(StripCodeFences(s), maxWords)
}
