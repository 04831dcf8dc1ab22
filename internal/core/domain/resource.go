package domain

import "strings"

// keySeparator joins key segments into the canonical form. The unit separator
// keeps ["/a", "b/c"] distinct from ["/a/b", "c"].
const keySeparator = "\x1f"

// ResourceKey is the canonical identifier for a unit of cached server data,
// an ordered sequence of string segments. The coalescer deduplicates pending
// invalidations on the canonical form.
type ResourceKey []string

// Canonical returns the string form used for deduplication and map keys.
func (k ResourceKey) Canonical() string {
	return strings.Join(k, keySeparator)
}

// String renders the key for logs.
func (k ResourceKey) String() string {
	return strings.Join(k, " ")
}
