package core

import (
	"net/url"
	"strings"
	"unicode"
)

// referenceMarker identifies encyclopedia article URIs such as
// https://en.wikipedia.org/wiki/Laser_cutting. Matching is case-insensitive.
const referenceMarker = "/wiki/"

// NormalizeKey folds an identifier into the form used for every alias
// lookup: lowercase, runs of '_' and '-' and whitespace collapsed into one
// space, and surrounding space trimmed. Registration and lookup must both go
// through this function.
func NormalizeKey(text string) string {
	lower := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lower))
	pending := false
	for _, r := range lower {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			pending = true
			continue
		}
		if pending && b.Len() > 0 {
			b.WriteByte(' ')
		}
		pending = false
		b.WriteRune(r)
	}
	return b.String()
}

// referenceSlug extracts the article slug from a reference URI. The slug is
// cut at any query or fragment, stripped of trailing separators and
// percent-decoded when possible.
func referenceSlug(input string) (string, bool) {
	idx := indexFold(input, referenceMarker)
	if idx < 0 {
		return "", false
	}
	slug := input[idx+len(referenceMarker):]
	if cut := strings.IndexAny(slug, "?#"); cut >= 0 {
		slug = slug[:cut]
	}
	slug = strings.TrimSpace(strings.TrimRight(slug, "/ "))
	if decoded, err := url.PathUnescape(slug); err == nil {
		slug = decoded
	}
	if slug == "" {
		return "", false
	}
	return slug, true
}

// indexFold returns the byte offset of the first case-insensitive match of
// marker in s. Offsets always refer to s itself, since case mapping can
// change the byte length of non-ASCII runes.
func indexFold(s, marker string) int {
	for i := 0; i+len(marker) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(marker)], marker) {
			return i
		}
	}
	return -1
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
