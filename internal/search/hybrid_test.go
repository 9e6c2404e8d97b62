package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazmatiq/hazsearch/internal/corpus"
	"github.com/hazmatiq/hazsearch/internal/query"
)

func newTestScorer(t *testing.T, docs []*corpus.Document, opts ...ScorerOption) *Scorer {
	t.Helper()
	snap, err := NewSnapshot(context.Background(), docs)
	require.NoError(t, err)
	return NewScorer(snap.Index, opts...)
}

func TestSearchRanksByRelevance(t *testing.T) {
	docs := []*corpus.Document{
		{
			ID:        "hmt-1830",
			Source:    corpus.SourceHMT,
			Text:      "UN1830 Sulfuric acid Class 8 corrosive shipped by highway",
			Embedding: []float32{1, 0, 0},
			Metadata:  &corpus.Metadata{UNNumber: "UN1830", HazardClass: "8"},
		},
		{
			ID:        "prod-battery",
			Source:    corpus.SourceProducts,
			Text:      "Battery electrolyte product catalog entry",
			Embedding: []float32{0, 1, 0},
		},
		{
			ID:        "erg-137",
			Source:    corpus.SourceERG,
			Text:      "Guide 137 sulfuric acid spill response measures",
			Embedding: []float32{0.8, 0.6, 0},
		},
	}
	scorer := newTestScorer(t, docs)
	p := query.NewProcessor()

	pq := p.Process("UN1830 sulfuric acid shipping by highway", nil)
	require.Equal(t, query.IntentShipping, pq.Intent)

	results := scorer.Search(pq, docs, []float32{1, 0, 0}, Options{})

	// The unrelated product entry falls below the score floor.
	require.Len(t, results, 2)
	assert.Equal(t, "hmt-1830", results[0].Document.ID)
	assert.Equal(t, "erg-137", results[1].Document.ID)
	assert.Greater(t, results[0].HybridScore, results[1].HybridScore)

	for _, r := range results {
		assert.GreaterOrEqual(t, r.HybridScore, 0.0)
		assert.LessOrEqual(t, r.HybridScore, 1.0)
	}
}

func TestSearchUNNumberBoost(t *testing.T) {
	// Twin documents differing only in metadata: the exact UN number
	// match must rank strictly higher.
	docs := []*corpus.Document{
		{
			ID:        "plain",
			Source:    corpus.SourceGeneral,
			Text:      "sulfuric acid handling guidance",
			Embedding: []float32{0.6, 0.8},
		},
		{
			ID:        "tagged",
			Source:    corpus.SourceGeneral,
			Text:      "sulfuric acid handling guidance",
			Embedding: []float32{0.6, 0.8},
			Metadata:  &corpus.Metadata{UNNumber: "UN1830"},
		},
	}
	scorer := newTestScorer(t, docs)
	p := query.NewProcessor()

	pq := p.Process("un1830 sulfuric acid", nil)
	results := scorer.Search(pq, docs, []float32{1, 0}, Options{MinScore: 0.01})

	require.Len(t, results, 2)
	assert.Equal(t, "tagged", results[0].Document.ID)
	assert.Greater(t, results[0].HybridScore, results[1].HybridScore)
}

func TestSearchTieBreaksByID(t *testing.T) {
	docs := []*corpus.Document{
		{ID: "beta", Source: corpus.SourceGeneral, Text: "identical text", Embedding: []float32{1, 0}},
		{ID: "alpha", Source: corpus.SourceGeneral, Text: "identical text", Embedding: []float32{1, 0}},
	}
	scorer := newTestScorer(t, docs)
	p := query.NewProcessor()

	results := scorer.Search(p.Process("identical text", nil), docs, []float32{1, 0}, Options{})

	require.Len(t, results, 2)
	assert.Equal(t, "alpha", results[0].Document.ID)
	assert.Equal(t, "beta", results[1].Document.ID)
}

func TestSearchLimit(t *testing.T) {
	var docs []*corpus.Document
	for _, id := range []string{"a", "b", "c", "d"} {
		docs = append(docs, &corpus.Document{
			ID: id, Source: corpus.SourceGeneral,
			Text: "shared content", Embedding: []float32{1, 0},
		})
	}
	scorer := newTestScorer(t, docs)
	p := query.NewProcessor()

	results := scorer.Search(p.Process("shared content", nil), docs, []float32{1, 0}, Options{Limit: 2})
	assert.Len(t, results, 2)
}

func TestSearchHighlights(t *testing.T) {
	docs := []*corpus.Document{
		{
			ID: "a", Source: corpus.SourceHMT,
			Text:      "UN1830 sulfuric acid packaging and handling requirements",
			Embedding: []float32{1, 0},
		},
	}
	scorer := newTestScorer(t, docs)
	p := query.NewProcessor()

	results := scorer.Search(p.Process("sulfuric acid", nil), docs, []float32{1, 0}, Options{WithHighlights: true})

	require.Len(t, results, 1)
	require.NotEmpty(t, results[0].Highlights)
	assert.Contains(t, results[0].Highlights[0], "sulfuric acid")
}

func TestSearchMissingEmbeddingDegrades(t *testing.T) {
	// No document embedding: the semantic signal contributes 0 and the
	// keyword signal alone decides.
	docs := []*corpus.Document{
		{ID: "a", Source: corpus.SourceGeneral, Text: "sulfuric acid shipping"},
		{ID: "b", Source: corpus.SourceGeneral, Text: "unrelated packaging words"},
		{ID: "c", Source: corpus.SourceGeneral, Text: "more filler content entirely"},
	}
	scorer := newTestScorer(t, docs)
	p := query.NewProcessor()

	pq := p.Process("sulfuric acid", nil)
	results := scorer.Search(pq, docs, []float32{1, 0}, Options{MinScore: 0.001})

	require.NotEmpty(t, results)
	assert.Equal(t, "a", results[0].Document.ID)
	assert.Zero(t, results[0].SemanticScore)
	assert.Greater(t, results[0].KeywordScore, 0.0)
}

func TestWithWeights(t *testing.T) {
	scorer := NewScorer(nil, WithWeights(0.5, 0.5))
	assert.InDelta(t, 0.5, scorer.semanticWeight, 0.001)
	assert.InDelta(t, 0.5, scorer.keywordWeight, 0.001)

	// Invalid pairs keep the defaults.
	scorer = NewScorer(nil, WithWeights(-1, 2))
	assert.InDelta(t, DefaultSemanticWeight, scorer.semanticWeight, 0.001)
	assert.InDelta(t, DefaultKeywordWeight, scorer.keywordWeight, 0.001)
}

func TestSourceIntentBoost(t *testing.T) {
	tests := []struct {
		name   string
		source corpus.Source
		intent query.Intent
		want   float64
	}{
		{"hmt classification", corpus.SourceHMT, query.IntentClassification, 1.3},
		{"erg classification penalized", corpus.SourceERG, query.IntentClassification, 0.9},
		{"erg emergency", corpus.SourceERG, query.IntentEmergency, 1.5},
		{"products emergency penalized", corpus.SourceProducts, query.IntentEmergency, 0.8},
		{"cfr shipping", corpus.SourceCFR, query.IntentShipping, 1.3},
		{"hmt shipping", corpus.SourceHMT, query.IntentShipping, 1.2},
		{"cfr packaging", corpus.SourceCFR, query.IntentPackaging, 1.3},
		{"cfr documentation", corpus.SourceCFR, query.IntentDocumentation, 1.2},
		{"cfr compliance", corpus.SourceCFR, query.IntentCompliance, 1.3},
		{"products lookup", corpus.SourceProducts, query.IntentProductLookup, 1.4},
		{"general intent neutral", corpus.SourceHMT, query.IntentGeneral, 1.0},
		{"unlisted pair neutral", corpus.SourceGeneral, query.IntentShipping, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SourceIntentBoost(tt.source, tt.intent), 0.001)
		})
	}
}

func TestSnapshotHolderSwap(t *testing.T) {
	first, err := NewSnapshot(context.Background(), []*corpus.Document{
		{ID: "a", Text: "first corpus"},
	})
	require.NoError(t, err)
	second, err := NewSnapshot(context.Background(), []*corpus.Document{
		{ID: "b", Text: "second corpus"},
		{ID: "c", Text: "third document"},
	})
	require.NoError(t, err)

	holder := NewSnapshotHolder(first)
	held := holder.Load()
	assert.Len(t, held.Documents, 1)

	holder.Swap(second)
	assert.Len(t, holder.Load().Documents, 2)
	// The reference grabbed before the swap still sees the old corpus.
	assert.Len(t, held.Documents, 1)
}
