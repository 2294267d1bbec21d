package services

import (
	"regexp"
	"sort"
	"strings"

	"catalogue-cleaner/config"
	"catalogue-cleaner/models"
)

var (
	// nonCanonical matches everything outside the fingerprint alphabet.
	nonCanonical = regexp.MustCompile(`[^a-z0-9\s]`)
	// multiSpace collapses runs of whitespace.
	multiSpace = regexp.MustCompile(`\s+`)
)

// Fingerprinter derives an order-invariant canonical key from a raw product
// name. Two names differing only in word order, casing, punctuation, stray
// whitespace or known synonyms/marketing noise map to the same fingerprint.
type Fingerprinter struct {
	synonyms []config.Synonym
	stopword *regexp.Regexp
}

// NewFingerprinter creates a Fingerprinter with the given synonym list and
// stopword set. Synonyms apply in list order; resolving collisions between
// overlapping alias patterns is the caller's responsibility.
func NewFingerprinter(synonyms []config.Synonym, stopwords []string) *Fingerprinter {
	quoted := make([]string, len(stopwords))
	for i, w := range stopwords {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(w))
	}
	return &Fingerprinter{
		synonyms: synonyms,
		stopword: regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Fingerprint fills row.Fingerprint from its raw name. Empty or one-character
// fingerprints are valid output; the anomaly filter discards them later.
func (f *Fingerprinter) Fingerprint(row *models.EnrichedRow) {
	row.Fingerprint = f.Key(row.Raw.RawName)
}

// Key computes the canonical fingerprint for a product name.
func (f *Fingerprinter) Key(name string) string {
	s := strings.ToLower(name)

	for _, syn := range f.synonyms {
		s = strings.ReplaceAll(s, syn.From, syn.To)
	}

	// Stopwords go before the charset squash so accented ones match intact.
	s = f.stopword.ReplaceAllString(s, "")
	s = nonCanonical.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	tokens := strings.Split(s, " ")
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
