package types

import "strings"

// TitleKey is the fuzzy identity key used to deduplicate articles: the
// lowercased, trimmed first 60 characters of the title. Two distinct
// articles sharing a 60-char prefix collide and the first one wins —
// an accepted heuristic, not a bug.
func TitleKey(title string) string {
	return prefixKey(title, 60)
}

// NameKey is the fuzzy identity key used to merge IPO records scraped
// from different tables: the lowercased first 12 characters of the name.
// Same collision caveat as TitleKey.
func NameKey(name string) string {
	return prefixKey(name, 12)
}

func prefixKey(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return strings.TrimSpace(strings.ToLower(string(r)))
}
