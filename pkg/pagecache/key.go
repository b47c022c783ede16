package pagecache

import "strings"

// HomeKey is the key of the initial page of a session.
const HomeKey = "Home"

// unnamedLink labels an action that carries no path and no readable text.
const unnamedLink = "Unnamed link"

// DeriveKey computes the cache key for an activated element.
//
// An explicit path is used verbatim. Otherwise the first non-blank label
// (visible text, then aria-label, then title) is normalized: lower-cased with
// every character outside [a-z0-9] replaced by an underscore. Distinct labels
// may normalize to the same key; such pages share one cache entry.
func DeriveKey(path string, labels ...string) string {
	if path != "" {
		return path
	}

	label := unnamedLink
	for _, l := range labels {
		if t := strings.TrimSpace(l); t != "" {
			label = t
			break
		}
	}
	return normalize(label)
}

func normalize(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
