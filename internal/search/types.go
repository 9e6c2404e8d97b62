// Package search provides hybrid retrieval: externally supplied semantic
// similarity fused with BM25 keyword scoring, plus domain entity and
// source-relevance boosts.
package search

import (
	"github.com/hazmatiq/hazsearch/internal/corpus"
)

// Default fusion parameters.
const (
	// DefaultSemanticWeight and DefaultKeywordWeight blend the two
	// relevance signals. They must sum to 1.
	DefaultSemanticWeight = 0.7
	DefaultKeywordWeight  = 0.3

	// DefaultMinScore filters out weak candidates after fusion.
	DefaultMinScore = 0.2

	// DefaultLimit caps the result list.
	DefaultLimit = 10

	// KeywordNormConstant divides raw BM25 scores before clamping to
	// [0,1]. Empirical calibration; tune it, don't re-derive it.
	KeywordNormConstant = 10.0
)

// Entity exact-match boosts. Each applies independently and compounds
// multiplicatively when several entities match.
const (
	UNNumberBoost     = 1.5
	CASNumberBoost    = 1.4
	SectionRefBoost   = 1.3
	FreightClassBoost = 1.3
)

// Result is one scored document. Scores are normalized to [0,1];
// HybridScore is the fused, boosted, capped value results are ranked by.
type Result struct {
	Document      *corpus.Document
	SemanticScore float64
	KeywordScore  float64
	HybridScore   float64
	Highlights    []string
}

// Options configures one search call.
type Options struct {
	// Limit is the maximum number of results (default 10).
	Limit int

	// MinScore drops results scoring below it (default 0.2).
	MinScore float64

	// WithHighlights attaches context windows around keyword matches.
	WithHighlights bool
}

func (o Options) withDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.MinScore <= 0 {
		o.MinScore = DefaultMinScore
	}
	return o
}
