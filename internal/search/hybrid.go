package search

import (
	"sort"

	"github.com/hazmatiq/hazsearch/internal/corpus"
	"github.com/hazmatiq/hazsearch/internal/index"
	"github.com/hazmatiq/hazsearch/internal/query"
)

// Scorer fuses semantic and keyword relevance over one corpus snapshot.
// It holds only the immutable lexical index and the fusion weights, so
// one Scorer serves any number of concurrent queries.
type Scorer struct {
	index          *index.Lexical
	semanticWeight float64
	keywordWeight  float64
}

// ScorerOption configures the scorer.
type ScorerOption func(*Scorer)

// WithWeights overrides the default 0.7/0.3 fusion weights.
// Non-positive pairs are ignored.
func WithWeights(semantic, keyword float64) ScorerOption {
	return func(s *Scorer) {
		if semantic <= 0 || keyword <= 0 {
			return
		}
		s.semanticWeight = semantic
		s.keywordWeight = keyword
	}
}

// NewScorer creates a hybrid scorer over a built lexical index.
func NewScorer(ix *index.Lexical, opts ...ScorerOption) *Scorer {
	s := &Scorer{
		index:          ix,
		semanticWeight: DefaultSemanticWeight,
		keywordWeight:  DefaultKeywordWeight,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search scores every document against the processed query and the
// caller-supplied query embedding, then filters, sorts, and truncates.
func (s *Scorer) Search(pq query.Processed, documents []*corpus.Document, queryEmbedding []float32, opts Options) []*Result {
	opts = opts.withDefaults()

	results := make([]*Result, 0, len(documents))
	for _, doc := range documents {
		r := s.scoreDocument(pq, doc, queryEmbedding)
		if r.HybridScore >= opts.MinScore {
			results = append(results, r)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].HybridScore != results[j].HybridScore {
			return results[i].HybridScore > results[j].HybridScore
		}
		// Deterministic tie-break.
		return results[i].Document.ID < results[j].Document.ID
	})

	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	if opts.WithHighlights {
		for _, r := range results {
			positions := s.index.FindMatchPositions(pq.Normalized, r.Document.Text)
			r.Highlights = index.CreateContextWindows(r.Document.Text, positions, index.DefaultContextSize)
		}
	}

	return results
}

// scoreDocument computes the fused, boosted, capped score for one document.
func (s *Scorer) scoreDocument(pq query.Processed, doc *corpus.Document, queryEmbedding []float32) *Result {
	semantic := Cosine(queryEmbedding, doc.Embedding)
	if semantic < 0 {
		semantic = 0
	}

	keyword := s.index.Score(pq.Normalized, doc) / KeywordNormConstant
	keyword = clamp01(keyword)

	hybrid := s.semanticWeight*semantic + s.keywordWeight*keyword
	hybrid *= entityBoost(pq.Entities, doc.Metadata)
	hybrid *= SourceIntentBoost(doc.Source, pq.Intent)
	hybrid = clamp01(hybrid)

	return &Result{
		Document:      doc,
		SemanticScore: semantic,
		KeywordScore:  keyword,
		HybridScore:   hybrid,
	}
}

// entityBoost compounds the exact-match multipliers for every query
// entity present in the document metadata. Absent metadata means no
// boost, never an error.
func entityBoost(entities query.Entities, meta *corpus.Metadata) float64 {
	if meta == nil {
		return 1.0
	}
	boost := 1.0
	if meta.UNNumber != "" && containsFold(entities.UNNumbers, meta.UNNumber) {
		boost *= UNNumberBoost
	}
	if meta.CASNumber != "" && containsFold(entities.CASNumbers, meta.CASNumber) {
		boost *= CASNumberBoost
	}
	if meta.SectionRef != "" && containsFold(entities.SectionRefs, meta.SectionRef) {
		boost *= SectionRefBoost
	}
	if meta.FreightClass != "" && containsFold(entities.FreightClasses, meta.FreightClass) {
		boost *= FreightClassBoost
	}
	return boost
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
