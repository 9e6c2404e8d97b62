// Package rank provides feature-based reranking: a weighted linear model
// over lexical, semantic, and domain relevance features, with online
// weight adaptation from click feedback.
package rank

import (
	"strings"

	"github.com/hazmatiq/hazsearch/internal/corpus"
	"github.com/hazmatiq/hazsearch/internal/query"
	"github.com/hazmatiq/hazsearch/internal/search"
)

// Feature names. The weight table is keyed by these; any other key is a
// programming error caught at construction time.
const (
	FeatureExactMatch     = "exact_match"
	FeatureWordOverlap    = "word_overlap"
	FeatureBigramOverlap  = "bigram_overlap"
	FeatureTrigramOverlap = "trigram_overlap"

	FeatureUNMatch           = "un_match"
	FeatureCASMatch          = "cas_match"
	FeaturePackingGroupMatch = "packing_group_match"
	FeatureHazardClassMatch  = "hazard_class_match"
	FeatureNMFCMatch         = "nmfc_match"
	FeatureFreightClassMatch = "freight_class_match"
	FeatureERGMatch          = "erg_match"
	FeatureSectionMatch      = "section_match"
	FeatureChemicalMatch     = "chemical_match"

	FeatureSourceRelevance      = "source_relevance"
	FeatureIsHMT                = "is_hmt"
	FeatureIsERG                = "is_erg"
	FeatureIsCFR                = "is_cfr"
	FeatureIsProducts           = "is_products"
	FeatureMetadataCompleteness = "metadata_completeness"
	FeatureIntentAlignment      = "intent_alignment"
	FeatureDocLength            = "doc_length"
	FeatureTermDensity          = "term_density"
	FeatureTermProximity        = "term_proximity"

	FeatureSemanticScore = "semantic_score"
	FeatureKeywordScore  = "keyword_score"
	FeatureHybridScore   = "hybrid_score"

	FeatureHazmatIndicators  = "hazmat_indicators"
	FeatureFreightIndicators = "freight_indicators"
)

// maxSourceBoost normalizes source-relevance multipliers into [0,1].
const maxSourceBoost = 1.5

// docLengthNorm is the word count at which the length feature saturates.
const docLengthNorm = 1000.0

// hazmatIndicators and freightIndicators gate the two domain features.
var (
	hazmatIndicators  = []string{"un", "hazard class", "packing group", "placard", "proper shipping name", "hazardous material", "dangerous goods"}
	freightIndicators = []string{"nmfc", "freight class", "density", "commodity", "carrier", "tariff"}
)

// intentIndicators is the word set whose presence marks a document as
// aligned with the query intent.
var intentIndicators = map[query.Intent][]string{
	query.IntentClassification: {"class", "classification", "packing group", "division"},
	query.IntentEmergency:      {"emergency", "guide", "spill", "fire", "first aid", "evacuation"},
	query.IntentShipping:       {"shipping", "transport", "carrier", "vessel", "highway", "rail"},
	query.IntentPackaging:      {"packaging", "package", "container", "drum", "inner", "outer"},
	query.IntentDocumentation:  {"shipping paper", "manifest", "declaration", "document"},
	query.IntentCompliance:     {"cfr", "regulation", "requirement", "compliance", "training"},
	query.IntentProductLookup:  {"product", "sds", "safety data sheet", "concentration"},
}

// Extractor computes the relevance feature vector for one
// (query, candidate) pair. Stateless; safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a feature extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract computes the feature map. A feature is present in the map only
// when its inputs exist: entity-match features require query entities of
// that kind, and the two domain-gated features require their context
// flag. The reranker's denominator counts present features only.
func (x *Extractor) Extract(pq query.Processed, r *search.Result) map[string]float64 {
	doc := r.Document
	text := strings.ToLower(doc.Text)
	features := make(map[string]float64, 24)

	// Lexical surface features.
	features[FeatureExactMatch] = boolFeature(pq.Normalized != "" && strings.Contains(text, pq.Normalized))
	features[FeatureWordOverlap] = wordOverlap(pq.Keywords, doc.Tokens())
	features[FeatureBigramOverlap] = ngramOverlap(pq.Keywords, doc.Tokens(), 2)
	features[FeatureTrigramOverlap] = ngramOverlap(pq.Keywords, doc.Tokens(), 3)

	// Entity-kind match ratios, present only when the query carries
	// entities of that kind.
	addEntityFeature(features, FeatureUNMatch, pq.Entities.UNNumbers, text, metaValue(doc, func(m *corpus.Metadata) string { return m.UNNumber }))
	addEntityFeature(features, FeatureCASMatch, pq.Entities.CASNumbers, text, metaValue(doc, func(m *corpus.Metadata) string { return m.CASNumber }))
	addEntityFeature(features, FeaturePackingGroupMatch, pq.Entities.PackingGroups, text, metaValue(doc, func(m *corpus.Metadata) string { return m.PackingGroup }))
	addEntityFeature(features, FeatureHazardClassMatch, pq.Entities.HazardClasses, text, metaValue(doc, func(m *corpus.Metadata) string { return m.HazardClass }))
	addEntityFeature(features, FeatureNMFCMatch, pq.Entities.NMFCCodes, text, metaValue(doc, func(m *corpus.Metadata) string { return m.NMFCCode }))
	addEntityFeature(features, FeatureFreightClassMatch, pq.Entities.FreightClasses, text, metaValue(doc, func(m *corpus.Metadata) string { return m.FreightClass }))
	addEntityFeature(features, FeatureERGMatch, pq.Entities.ERGGuides, text, "")
	addEntityFeature(features, FeatureSectionMatch, pq.Entities.SectionRefs, text, metaValue(doc, func(m *corpus.Metadata) string { return m.SectionRef }))
	addEntityFeature(features, FeatureChemicalMatch, pq.Entities.ChemicalNames, text, metaValue(doc, func(m *corpus.Metadata) string { return m.Name }))

	// Source features.
	features[FeatureSourceRelevance] = search.SourceIntentBoost(doc.Source, pq.Intent) / maxSourceBoost
	if name := sourceIndicator(doc.Source); name != "" {
		features[name] = 1.0
	}
	features[FeatureMetadataCompleteness] = doc.Metadata.Completeness()
	features[FeatureIntentAlignment] = intentAlignment(pq.Intent, text)

	// Document shape features.
	features[FeatureDocLength] = clamp01(float64(doc.Words()) / docLengthNorm)
	features[FeatureTermDensity] = termDensity(pq.Keywords, doc.Tokens())
	features[FeatureTermProximity] = termProximity(pq.Keywords, doc.Tokens())

	// Pass-through hybrid stage scores.
	features[FeatureSemanticScore] = r.SemanticScore
	features[FeatureKeywordScore] = r.KeywordScore
	features[FeatureHybridScore] = r.HybridScore

	// Domain-gated features.
	if pq.Context.NeedsHazmatData {
		features[FeatureHazmatIndicators] = indicatorPresence(text, hazmatIndicators)
	}
	if pq.Context.IsFreightBooking {
		features[FeatureFreightIndicators] = indicatorPresence(text, freightIndicators)
	}

	return features
}

// addEntityFeature emits matched/total for one entity kind. A match is a
// case-insensitive hit in the document text or the metadata value.
func addEntityFeature(features map[string]float64, name string, queryEntities []string, docText, metaVal string) {
	if len(queryEntities) == 0 {
		return
	}
	matched := 0
	for _, entity := range queryEntities {
		lower := strings.ToLower(entity)
		if strings.Contains(docText, lower) || (metaVal != "" && strings.EqualFold(metaVal, entity)) {
			matched++
		}
	}
	features[name] = float64(matched) / float64(len(queryEntities))
}

func metaValue(doc *corpus.Document, get func(*corpus.Metadata) string) string {
	if doc.Metadata == nil {
		return ""
	}
	return get(doc.Metadata)
}

func sourceIndicator(s corpus.Source) string {
	switch s {
	case corpus.SourceHMT:
		return FeatureIsHMT
	case corpus.SourceERG:
		return FeatureIsERG
	case corpus.SourceCFR:
		return FeatureIsCFR
	case corpus.SourceProducts:
		return FeatureIsProducts
	}
	return ""
}

// intentAlignment scores 1.0 when the document contains any indicator
// word for the query intent, 0.5 for general queries (no signal either
// way), and 0.3 otherwise.
func intentAlignment(intent query.Intent, text string) float64 {
	indicators, ok := intentIndicators[intent]
	if !ok {
		return 0.5
	}
	for _, ind := range indicators {
		if strings.Contains(text, ind) {
			return 1.0
		}
	}
	return 0.3
}

// wordOverlap is the fraction of query keywords found in the document.
func wordOverlap(keywords, docTokens []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	present := make(map[string]bool, len(docTokens))
	for _, tok := range docTokens {
		present[tok] = true
	}
	matched := 0
	for _, kw := range keywords {
		if present[kw] {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

// ngramOverlap is the fraction of query keyword n-grams that occur as
// contiguous token runs in the document.
func ngramOverlap(keywords, docTokens []string, n int) float64 {
	if len(keywords) < n {
		return 0
	}
	docGrams := make(map[string]bool)
	for i := 0; i+n <= len(docTokens); i++ {
		docGrams[strings.Join(docTokens[i:i+n], " ")] = true
	}
	total := len(keywords) - n + 1
	matched := 0
	for i := 0; i+n <= len(keywords); i++ {
		if docGrams[strings.Join(keywords[i:i+n], " ")] {
			matched++
		}
	}
	return float64(matched) / float64(total)
}

// termDensity is query keyword occurrences per document token.
func termDensity(keywords, docTokens []string) float64 {
	if len(docTokens) == 0 || len(keywords) == 0 {
		return 0
	}
	want := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		want[kw] = true
	}
	hits := 0
	for _, tok := range docTokens {
		if want[tok] {
			hits++
		}
	}
	return clamp01(float64(hits) / float64(len(docTokens)))
}

// termProximity is the inverse of the minimum word distance between any
// two distinct query keywords in the document; 0 when fewer than two
// distinct keywords are found.
func termProximity(keywords, docTokens []string) float64 {
	if len(keywords) < 2 {
		return 0
	}
	want := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		want[kw] = true
	}

	lastPos := -1
	lastTok := ""
	minDist := -1
	for i, tok := range docTokens {
		if !want[tok] {
			continue
		}
		if lastPos >= 0 && tok != lastTok {
			dist := i - lastPos
			if minDist < 0 || dist < minDist {
				minDist = dist
			}
		}
		lastPos = i
		lastTok = tok
	}
	if minDist <= 0 {
		return 0
	}
	return 1.0 / float64(minDist)
}

// indicatorPresence is the fraction of indicator phrases present in text.
func indicatorPresence(text string, indicators []string) float64 {
	matched := 0
	for _, ind := range indicators {
		if strings.Contains(text, ind) {
			matched++
		}
	}
	return float64(matched) / float64(len(indicators))
}

func boolFeature(b bool) float64 {
	if b {
		return 1.0
	}
	return 0
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
