package suggest

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// Normalize canonicalizes free-form text: trims surrounding whitespace and
// collapses carriage returns, line feeds and internal whitespace runs to
// single spaces. Pure, total and idempotent.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fingerprint computes the cache key for a suggestion request. The layout
// (prefix, content digest, count, max length) is kept stable so entries
// written by other instances stay addressable. Content is case-folded before
// hashing so requests differing only in casing share one entry.
func Fingerprint(normalized string, count, maxLen int) string {
	sum := sha1.Sum([]byte(strings.ToLower(normalized)))
	return fmt.Sprintf("ai:title:h:%x:n:%d:max:%d", sum, count, maxLen)
}
