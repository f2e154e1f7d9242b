// Package extract recovers candidate string lists from free-form model output.
//
// Model responses are unreliable: the same prompt can come back as a bare JSON
// array, an object wrapping the array under a varying key, a fenced code block,
// or plain prose. The extraction runs a chain of strategies in priority order
// and the first one that yields anything usable wins. Every strategy is total;
// a failed parse degrades to the next strategy instead of surfacing an error.
package extract

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// listKeys are object keys probed for a candidate array, in priority order.
var listKeys = []string{"titles", "suggestions", "items", "results"}

// trimCutset is stripped from both ends of every candidate after whitespace collapse.
const trimCutset = " \t\r\n-:;,."

var codeFenceRegexp = regexp.MustCompile("(?mi)^```(?:json)?[ \t]*\r?\n?|\r?\n?[ \t]*```$")

// StripCodeFences removes wrapping ```/```json markers from text.
func StripCodeFences(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(codeFenceRegexp.ReplaceAllString(text, ""))
}

// Titles extracts a cleaned, deduplicated list of strings from raw model output.
//
// Strategies, first success wins:
//  1. parse the fence-stripped text as JSON (array, or object with a known list key)
//  2. parse the first balanced [...] span, or failing that the first balanced {...} span
//  3. if fallbackToLines is set, treat each non-blank line as one candidate
//
// Each candidate is truncated to maxLen runes (when maxLen > 0), whitespace
// collapsed, stripped of surrounding punctuation, and deduplicated preserving
// first-seen order. An empty result means "nothing usable", never an error.
func Titles(raw string, maxLen int, fallbackToLines bool) []string {
	if raw == "" {
		return nil
	}

	text := StripCodeFences(raw)

	if items, ok := parseList(text); ok {
		return sanitize(items, maxLen)
	}

	if span := firstJSONSpan(text); span != "" {
		if items, ok := parseList(span); ok {
			return sanitize(items, maxLen)
		}
		slog.Debug("extract: embedded JSON span did not parse, falling through", "span_len", len(span))
	}

	if fallbackToLines {
		var lines []string
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
		return sanitizeStrings(lines, maxLen)
	}

	return nil
}

// parseList attempts a whole-text JSON parse. A top-level array is used
// directly; for an object the known list keys are probed in priority order.
func parseList(text string) ([]any, bool) {
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, false
	}

	switch v := value.(type) {
	case []any:
		return v, true
	case map[string]any:
		for _, key := range listKeys {
			if list, ok := v[key].([]any); ok {
				return list, true
			}
		}
	}
	return nil, false
}

// firstJSONSpan returns the first balanced [...] substring of text, or failing
// that the first balanced {...} substring. Returns "" when neither exists.
// Brackets inside JSON string literals are ignored while scanning.
func firstJSONSpan(text string) string {
	if span := balancedSpan(text, '[', ']'); span != "" {
		return span
	}
	return balancedSpan(text, '{', '}')
}

func balancedSpan(text string, open, close byte) string {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

func sanitize(items []any, maxLen int) []string {
	strs := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			strs = append(strs, s)
		} else {
			strs = append(strs, fmt.Sprint(item))
		}
	}
	return sanitizeStrings(strs, maxLen)
}

// sanitizeStrings truncates, collapses whitespace, trims surrounding
// punctuation, drops empties and deduplicates preserving first-seen order.
// Truncation happens first so a cut mid-word still gets its edges trimmed.
func sanitizeStrings(items []string, maxLen int) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if maxLen > 0 {
			s = truncateRunes(s, maxLen)
		}
		s = strings.Trim(strings.Join(strings.Fields(s), " "), trimCutset)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
