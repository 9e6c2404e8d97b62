package query

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hazmatiq/hazsearch/internal/corpus"
)

// DefaultCacheSize bounds the processed-query LRU cache.
// Chat sessions repeat queries (follow-ups, retries); caching the
// pre-override analysis avoids re-running every pattern matcher.
const DefaultCacheSize = 2048

// Confidence scoring per the processing contract.
const (
	baseConfidence       = 0.5
	structuredConfidence = 0.3
	intentConfidence     = 0.2
)

// stopWords are dropped from the keyword list.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "have": true, "what": true, "when": true, "where": true,
	"which": true, "with": true, "this": true, "that": true, "from": true,
	"they": true, "will": true, "would": true, "there": true, "their": true,
	"about": true, "does": true, "how": true, "who": true, "why": true,
	"should": true, "could": true, "been": true, "being": true, "into": true,
	"than": true, "them": true, "then": true, "these": true, "those": true,
	"need": true, "needs": true, "its": true, "also": true, "any": true,
}

// Processor runs the full query-understanding stage: extraction,
// intent detection, expansion, normalization, and context derivation.
// Safe for concurrent use; the cache is the only shared state and the
// LRU handles its own locking.
type Processor struct {
	extractor  *EntityExtractor
	classifier *IntentClassifier
	expander   *Expander
	cache      *lru.Cache[string, Processed]
}

// ProcessorOption configures the processor.
type ProcessorOption func(*Processor)

// WithExpander replaces the default expander (custom synonym tables).
func WithExpander(e *Expander) ProcessorOption {
	return func(p *Processor) { p.expander = e }
}

// WithCacheSize overrides the processed-query cache size.
// Size <= 0 disables caching.
func WithCacheSize(n int) ProcessorOption {
	return func(p *Processor) {
		if n <= 0 {
			p.cache = nil
			return
		}
		p.cache, _ = lru.New[string, Processed](n)
	}
}

// NewProcessor creates a query processor with default components.
func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{
		extractor:  NewEntityExtractor(),
		classifier: NewIntentClassifier(),
		expander:   NewExpander(),
	}
	p.cache, _ = lru.New[string, Processed](DefaultCacheSize)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Normalize lowercases, strips punctuation (hyphens kept), collapses
// whitespace, and trims.
func Normalize(text string) string {
	return corpus.NormalizeText(text)
}

// Process analyzes a raw query. Caller-supplied overrides win over the
// derived context flags. The cached analysis is pre-override, so
// overrides from one caller never leak into another's result.
func (p *Processor) Process(text string, overrides *ContextOverrides) Processed {
	normalized := Normalize(text)

	if p.cache != nil {
		if cached, ok := p.cache.Get(normalized); ok {
			cached.Original = text
			cached.Context = cached.Context.apply(overrides)
			return cached
		}
	}

	entities := p.extractor.Extract(text)
	intent := p.classifier.Detect(text)
	structured := entities.HasHighPrecision()

	confidence := baseConfidence
	if structured {
		confidence += structuredConfidence
	}
	if intent != IntentGeneral {
		confidence += intentConfidence
	}

	processed := Processed{
		Original:      text,
		Normalized:    normalized,
		Entities:      entities,
		Intent:        intent,
		ExpandedTerms: p.expander.Expand(text),
		Keywords:      extractKeywords(normalized),
		IsStructured:  structured,
		Confidence:    confidence,
		Context:       deriveContext(intent, entities, text),
	}

	if p.cache != nil {
		p.cache.Add(normalized, processed)
	}

	processed.Context = processed.Context.apply(overrides)
	return processed
}

// deriveContext computes the routing flags from intent and entities.
func deriveContext(intent Intent, entities Entities, text string) Context {
	lower := strings.ToLower(text)
	return Context{
		IsFreightBooking: intent == IntentClassification ||
			len(entities.NMFCCodes) > 0 || len(entities.FreightClasses) > 0,
		NeedsHazmatData: len(entities.UNNumbers) > 0 ||
			len(entities.HazardClasses) > 0 || strings.Contains(lower, "hazmat"),
		RequiresClassification: intent == IntentClassification ||
			len(entities.ChemicalNames) > 0,
		NeedsEmergencyInfo: intent == IntentEmergency || len(entities.ERGGuides) > 0,
	}
}

// extractKeywords splits the normalized text, dropping stop words and
// tokens of length <= 2.
func extractKeywords(normalized string) []string {
	var keywords []string
	for _, tok := range strings.Fields(normalized) {
		if len(tok) <= 2 || stopWords[tok] {
			continue
		}
		keywords = append(keywords, tok)
	}
	return keywords
}

// GenerateSearchQuery builds the retrieval string handed to the external
// embedding provider: UN numbers first, then chemical names, then a
// fixed phrase for the intent, then the first five keywords.
func (p *Processor) GenerateSearchQuery(processed Processed) string {
	var parts []string
	parts = append(parts, processed.Entities.UNNumbers...)
	parts = append(parts, processed.Entities.ChemicalNames...)
	if phrase, ok := intentPhrases[processed.Intent]; ok {
		parts = append(parts, phrase)
	}
	keywords := processed.Keywords
	if len(keywords) > 5 {
		keywords = keywords[:5]
	}
	parts = append(parts, keywords...)
	return strings.Join(parts, " ")
}
