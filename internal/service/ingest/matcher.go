package ingest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ougirez/rankuni/internal/domain"
)

const (
	// fuzzyThreshold is deliberately tight: at 0.8 the matcher happily sent
	// "Tokyo" to "Toledo". Acceptance is strictly greater-than.
	fuzzyThreshold = 0.95

	// maxNormLengthDiff prunes fuzzy candidates whose normalized length is too
	// far from the input's to ever clear the threshold.
	maxNormLengthDiff = 5
)

// MatchTypeExact marks a hit on the normalized-name map.
const MatchTypeExact = "exact"

// Normalize lowercases a name and strips everything that is not a lowercase
// letter, digit or whitespace. Idempotent.
func Normalize(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}

// bigrams returns the set of 2-grams over the lowercase alphanumeric
// characters of s, whitespace removed.
func bigrams(s string) map[string]struct{} {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	t := b.String()
	set := make(map[string]struct{}, len(t))
	for i := 0; i+2 <= len(t); i++ {
		set[t[i:i+2]] = struct{}{}
	}

	return set
}

// Similarity is the Dice coefficient over the two names' bigram sets,
// in [0, 1]. Names shorter than two alphanumeric characters score 0.
func Similarity(s1, s2 string) float64 {
	bg1 := bigrams(s1)
	bg2 := bigrams(s2)

	if len(bg1) == 0 || len(bg2) == 0 {
		return 0
	}

	intersection := 0
	for bg := range bg1 {
		if _, ok := bg2[bg]; ok {
			intersection++
		}
	}

	return 2 * float64(intersection) / float64(len(bg1)+len(bg2))
}

type registryEntry struct {
	id   string
	name string
	norm string
}

// Matcher resolves free-text institution names against an immutable registry
// snapshot: O(1) exact lookup on the normalized name, then a linear
// bigram-similarity scan as fallback.
type Matcher struct {
	byNorm  map[string]string
	entries []registryEntry
}

func NewMatcher(schools []*domain.School) *Matcher {
	m := &Matcher{
		byNorm:  make(map[string]string, len(schools)),
		entries: make([]registryEntry, 0, len(schools)),
	}

	for _, school := range schools {
		norm := Normalize(school.Name)
		m.byNorm[norm] = school.ID
		m.entries = append(m.entries, registryEntry{id: school.ID, name: school.Name, norm: norm})
	}

	return m
}

// Match returns the matched school id and a match type of "exact" or
// "fuzzy (<score>)". A nil id means no registry entry cleared the threshold.
// On an exact score tie the entry scanned first wins.
func (m *Matcher) Match(name string) (*string, string) {
	norm := Normalize(name)

	if id, ok := m.byNorm[norm]; ok {
		return &id, MatchTypeExact
	}

	var (
		bestScore     float64
		bestCandidate *registryEntry
	)

	for i := range m.entries {
		entry := &m.entries[i]

		if absInt(len(entry.norm)-len(norm)) > maxNormLengthDiff {
			continue
		}

		sim := Similarity(name, entry.name)
		if sim > bestScore {
			bestScore = sim
			bestCandidate = entry
		}
	}

	if bestScore > fuzzyThreshold && bestCandidate != nil {
		return &bestCandidate.id, fmt.Sprintf("fuzzy (%.2f)", bestScore)
	}

	return nil, ""
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
