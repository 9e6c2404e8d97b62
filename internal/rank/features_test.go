package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazmatiq/hazsearch/internal/corpus"
	"github.com/hazmatiq/hazsearch/internal/query"
	"github.com/hazmatiq/hazsearch/internal/search"
)

func processQuery(t *testing.T, text string) query.Processed {
	t.Helper()
	return query.NewProcessor().Process(text, nil)
}

func TestExtractEntityFeaturesGated(t *testing.T) {
	x := NewExtractor()
	doc := &corpus.Document{
		ID: "a", Source: corpus.SourceHMT,
		Text: "UN1830 sulfuric acid shipping entry",
	}
	r := &search.Result{Document: doc}

	// Query with a UN number: the match feature is present and full.
	features := x.Extract(processQuery(t, "un1830 requirements"), r)
	assert.InDelta(t, 1.0, features[FeatureUNMatch], 0.001)

	// Query without UN numbers: the feature is absent, not zero.
	features = x.Extract(processQuery(t, "general handling advice"), r)
	_, present := features[FeatureUNMatch]
	assert.False(t, present)
}

func TestExtractEntityMatchViaMetadata(t *testing.T) {
	x := NewExtractor()
	doc := &corpus.Document{
		ID: "a", Source: corpus.SourceHMT,
		Text:     "sulfuric acid entry without the identifier in text",
		Metadata: &corpus.Metadata{CASNumber: "7664-93-9"},
	}
	r := &search.Result{Document: doc}

	features := x.Extract(processQuery(t, "properties of 7664-93-9"), r)
	assert.InDelta(t, 1.0, features[FeatureCASMatch], 0.001)
}

func TestExtractPartialEntityMatch(t *testing.T) {
	x := NewExtractor()
	doc := &corpus.Document{
		ID: "a", Source: corpus.SourceHMT,
		Text: "UN1830 sulfuric acid",
	}
	r := &search.Result{Document: doc}

	// One of two UN numbers matches.
	features := x.Extract(processQuery(t, "un1830 or un1090"), r)
	assert.InDelta(t, 0.5, features[FeatureUNMatch], 0.001)
}

func TestExtractExactMatch(t *testing.T) {
	x := NewExtractor()
	doc := &corpus.Document{
		ID: "a", Source: corpus.SourceCFR,
		Text: "The sulfuric acid shipping rules apply here",
	}
	r := &search.Result{Document: doc}

	features := x.Extract(processQuery(t, "sulfuric acid shipping"), r)
	assert.InDelta(t, 1.0, features[FeatureExactMatch], 0.001)

	features = x.Extract(processQuery(t, "acid shipping sulfuric"), r)
	assert.InDelta(t, 0.0, features[FeatureExactMatch], 0.001)
}

func TestExtractOverlapFeatures(t *testing.T) {
	x := NewExtractor()
	doc := &corpus.Document{
		ID: "a", Source: corpus.SourceCFR,
		Text: "packaging rules for corrosive liquids",
	}
	r := &search.Result{Document: doc}

	features := x.Extract(processQuery(t, "corrosive packaging guidance"), r)

	// Two of three keywords appear in the document.
	assert.InDelta(t, 2.0/3.0, features[FeatureWordOverlap], 0.001)
	// No query bigram occurs contiguously in the document.
	assert.InDelta(t, 0.0, features[FeatureBigramOverlap], 0.001)
}

func TestExtractSourceFeatures(t *testing.T) {
	x := NewExtractor()

	tests := []struct {
		source corpus.Source
		name   string
	}{
		{corpus.SourceHMT, FeatureIsHMT},
		{corpus.SourceERG, FeatureIsERG},
		{corpus.SourceCFR, FeatureIsCFR},
		{corpus.SourceProducts, FeatureIsProducts},
	}

	for _, tt := range tests {
		t.Run(string(tt.source), func(t *testing.T) {
			r := &search.Result{Document: &corpus.Document{
				ID: "a", Source: tt.source, Text: "text",
			}}
			features := x.Extract(processQuery(t, "anything goes"), r)
			assert.InDelta(t, 1.0, features[tt.name], 0.001)
		})
	}

	// The general source has no indicator feature.
	r := &search.Result{Document: &corpus.Document{
		ID: "a", Source: corpus.SourceGeneral, Text: "text",
	}}
	features := x.Extract(processQuery(t, "anything goes"), r)
	for _, name := range []string{FeatureIsHMT, FeatureIsERG, FeatureIsCFR, FeatureIsProducts} {
		_, present := features[name]
		assert.False(t, present, name)
	}
}

func TestExtractIntentAlignment(t *testing.T) {
	x := NewExtractor()

	aligned := &search.Result{Document: &corpus.Document{
		ID: "a", Source: corpus.SourceERG,
		Text: "emergency guide for chemical fire",
	}}
	misaligned := &search.Result{Document: &corpus.Document{
		ID: "b", Source: corpus.SourceERG,
		Text: "unrelated commodity tariff notes",
	}}

	pq := processQuery(t, "spill response first aid")
	require.Equal(t, query.IntentEmergency, pq.Intent)

	assert.InDelta(t, 1.0, x.Extract(pq, aligned)[FeatureIntentAlignment], 0.001)
	assert.InDelta(t, 0.3, x.Extract(pq, misaligned)[FeatureIntentAlignment], 0.001)

	general := processQuery(t, "miscellaneous notes")
	require.Equal(t, query.IntentGeneral, general.Intent)
	assert.InDelta(t, 0.5, x.Extract(general, aligned)[FeatureIntentAlignment], 0.001)
}

func TestExtractGatedDomainFeatures(t *testing.T) {
	x := NewExtractor()
	doc := &corpus.Document{
		ID: "a", Source: corpus.SourceHMT,
		Text: "hazard class and packing group with placard rules",
	}
	r := &search.Result{Document: doc}

	// Hazmat context on: the indicator feature appears.
	pq := processQuery(t, "hazmat class 8 shipment")
	require.True(t, pq.Context.NeedsHazmatData)
	features := x.Extract(pq, r)
	assert.Greater(t, features[FeatureHazmatIndicators], 0.0)

	// No freight context: the freight feature stays absent.
	_, present := features[FeatureFreightIndicators]
	assert.False(t, present)
}

func TestExtractPassThroughScores(t *testing.T) {
	x := NewExtractor()
	r := &search.Result{
		Document:      &corpus.Document{ID: "a", Source: corpus.SourceHMT, Text: "text"},
		SemanticScore: 0.9,
		KeywordScore:  0.4,
		HybridScore:   0.75,
	}

	features := x.Extract(processQuery(t, "anything"), r)
	assert.InDelta(t, 0.9, features[FeatureSemanticScore], 0.001)
	assert.InDelta(t, 0.4, features[FeatureKeywordScore], 0.001)
	assert.InDelta(t, 0.75, features[FeatureHybridScore], 0.001)
}

func TestTermProximity(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		tokens   []string
		want     float64
	}{
		{
			name:     "adjacent keywords",
			keywords: []string{"sulfuric", "acid"},
			tokens:   []string{"the", "sulfuric", "acid", "rules"},
			want:     1.0,
		},
		{
			name:     "separated keywords",
			keywords: []string{"sulfuric", "shipping"},
			tokens:   []string{"sulfuric", "acid", "class", "eight", "shipping"},
			want:     0.25,
		},
		{
			name:     "single keyword found",
			keywords: []string{"sulfuric", "missing"},
			tokens:   []string{"sulfuric", "acid"},
			want:     0,
		},
		{
			name:     "fewer than two keywords",
			keywords: []string{"sulfuric"},
			tokens:   []string{"sulfuric", "acid"},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, termProximity(tt.keywords, tt.tokens), 0.001)
		})
	}
}

func TestNgramOverlap(t *testing.T) {
	keywords := []string{"sulfuric", "acid", "shipping"}
	tokens := []string{"rules", "sulfuric", "acid", "shipping", "notes"}

	assert.InDelta(t, 1.0, ngramOverlap(keywords, tokens, 2), 0.001)
	assert.InDelta(t, 1.0, ngramOverlap(keywords, tokens, 3), 0.001)
	assert.InDelta(t, 0.0, ngramOverlap([]string{"one"}, tokens, 2), 0.001)
}
