package query

import (
	"sort"
	"strings"
)

// Expander widens a query with domain synonyms so lexical scoring can
// bridge the vocabulary gap between shipper language and 49 CFR language.
type Expander struct {
	synonyms map[string][]string
}

// ExpanderOption configures the expander.
type ExpanderOption func(*Expander)

// WithSynonyms merges extra synonym entries into the default table.
func WithSynonyms(extra map[string][]string) ExpanderOption {
	return func(e *Expander) {
		for k, v := range extra {
			e.synonyms[strings.ToLower(k)] = append(e.synonyms[strings.ToLower(k)], v...)
		}
	}
}

// NewExpander creates an expander seeded with the domain synonym table.
func NewExpander(opts ...ExpanderOption) *Expander {
	e := &Expander{synonyms: make(map[string][]string, len(DomainSynonyms))}
	for k, v := range DomainSynonyms {
		e.synonyms[k] = v
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand returns the deduplicated union of the original query, every
// synonym whose key appears as a substring of the lowercased query, and
// every individual word longer than two characters.
func (e *Expander) Expand(text string) []string {
	lower := strings.ToLower(text)

	seen := make(map[string]bool)
	var expanded []string
	add := func(term string) {
		key := strings.ToLower(term)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		expanded = append(expanded, term)
	}

	add(text)
	// Sorted key order keeps expansion deterministic across runs.
	keys := make([]string, 0, len(e.synonyms))
	for k := range e.synonyms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.Contains(lower, key) {
			for _, v := range e.synonyms[key] {
				add(v)
			}
		}
	}
	for _, word := range strings.Fields(lower) {
		if len(word) > 2 {
			add(word)
		}
	}

	return expanded
}
