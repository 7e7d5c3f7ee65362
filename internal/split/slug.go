package split

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultSlug is used when a heading yields no sluggable characters, e.g. a
// document with no headings at all.
const DefaultSlug = "section"

// foldDiacritics decomposes characters and removes combining marks, so
// "Résumé" slugs the same as "Resume". Arabic base letters are unaffected;
// only their optional diacritics are dropped.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a slug from heading text: diacritics folded, lowercased,
// runs of non-letter/non-digit characters collapsed into single dashes.
// Arabic (and any other non-Latin) letters are preserved verbatim - slugs
// are stable keys, never displayed.
func Slugify(heading string) string {
	folded, _, err := transform.String(foldDiacritics, heading)
	if err != nil {
		folded = heading
	}

	var b strings.Builder
	dash := true // suppress leading dash
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// SlugSet tracks slugs already emitted in one run so collisions get a
// numeric disambiguator. It is an explicit per-run accumulator: concurrent
// runs on different documents use separate sets.
type SlugSet struct {
	taken map[string]bool
}

// NewSlugSet returns an empty accumulator.
func NewSlugSet() *SlugSet {
	return &SlugSet{taken: make(map[string]bool)}
}

// Claim reserves base, or the first free "base-2", "base-3", ... variant,
// and returns the reserved slug.
func (s *SlugSet) Claim(base string) string {
	if base == "" {
		base = DefaultSlug
	}
	if !s.taken[base] {
		s.taken[base] = true
		return base
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", base, n)
		if !s.taken[candidate] {
			s.taken[candidate] = true
			return candidate
		}
	}
}
