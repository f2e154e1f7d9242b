// Package heuristic produces deterministic title candidates from note content.
//
// It is the fallback path of the suggestion pipeline: no network, no model,
// never fails and never returns an empty list. Candidates come from the first
// sentence-like segment of the content and from its most frequent keywords.
package heuristic

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Placeholder is returned as the single candidate for blank content.
const Placeholder = "Untitled"

// shortSegmentRunes is the threshold under which the first segment is
// considered too short to stand alone and gets combined with the keywords.
const shortSegmentRunes = 15

// keywordLimit caps how many frequent tokens form the keyword candidate.
const keywordLimit = 4

const trimCutset = " \t\r\n-:;,."

// wordRegexp matches word-like runs: letters (any script), digits, hyphens.
var wordRegexp = regexp.MustCompile(`[\p{L}\p{N}][\p{L}\p{N}-]*`)

var titleCaser = cases.Title(language.Und)

// Titles generates up to count title candidates for content, each at most
// maxLen runes. The result is never empty: blank content yields the
// placeholder.
func Titles(content string, maxLen, count int) []string {
	if count < 1 {
		count = 1
	}

	text := strings.TrimSpace(stripMarkdown(content))
	if text == "" {
		return []string{truncateRunes(Placeholder, maxLen)}
	}

	first := firstSegment(text, maxLen)
	keywords := keywordTitle(text, maxLen)

	candidates := []string{first, keywords}
	if first != "" && keywords != "" && utf8.RuneCountInString(first) < shortSegmentRunes {
		candidates = append(candidates, truncateRunes(first+" - "+keywords, maxLen))
	}

	out := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		c = strings.Trim(strings.Join(strings.Fields(c), " "), trimCutset)
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	if len(out) == 0 {
		return []string{truncateRunes(Placeholder, maxLen)}
	}
	if len(out) > count {
		out = out[:count]
	}
	return out
}

// firstSegment returns the text before the first sentence delimiter
// (period, exclamation, question mark or newline), trimmed and truncated.
func firstSegment(text string, maxLen int) string {
	if idx := strings.IndexAny(text, ".!?\n"); idx >= 0 {
		text = text[:idx]
	}
	return truncateRunes(strings.TrimSpace(text), maxLen)
}

// keywordTitle builds a candidate from the most frequent content tokens:
// lowercase word runs of at least three runes that are not stopwords, ranked
// by frequency with ties broken by first occurrence, capitalized and joined.
func keywordTitle(text string, maxLen int) string {
	type tokenStat struct {
		token string
		count int
		first int
	}

	stats := make(map[string]*tokenStat)
	var order []*tokenStat
	for i, token := range wordRegexp.FindAllString(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(token) < 3 {
			continue
		}
		if _, stop := stopwords[token]; stop {
			continue
		}
		if st, ok := stats[token]; ok {
			st.count++
			continue
		}
		st := &tokenStat{token: token, count: 1, first: i}
		stats[token] = st
		order = append(order, st)
	}
	if len(order) == 0 {
		return ""
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})
	if len(order) > keywordLimit {
		order = order[:keywordLimit]
	}

	words := make([]string, len(order))
	for i, st := range order {
		words[i] = titleCaser.String(st.token)
	}
	return truncateRunes(strings.Join(words, " "), maxLen)
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
