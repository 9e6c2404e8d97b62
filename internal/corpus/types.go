// Package corpus defines the regulatory document model and loaders.
// Documents arrive fully materialized from the ingestion pipeline:
// text, embedding vector, and optional structured metadata.
package corpus

import (
	"strings"
	"sync"
)

// Source identifies which regulatory corpus a document came from.
type Source string

const (
	// SourceHMT is the Hazardous Materials Table (49 CFR 172.101).
	SourceHMT Source = "hmt"
	// SourceERG is the Emergency Response Guidebook.
	SourceERG Source = "erg"
	// SourceCFR is general 49 CFR regulatory text.
	SourceCFR Source = "cfr"
	// SourceProducts is the product/SDS catalog.
	SourceProducts Source = "products"
	// SourceGeneral is uncategorized reference material.
	SourceGeneral Source = "general"
)

// ParseSource maps a raw tag to a known Source, defaulting to SourceGeneral.
func ParseSource(s string) Source {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceHMT:
		return SourceHMT
	case SourceERG:
		return SourceERG
	case SourceCFR:
		return SourceCFR
	case SourceProducts:
		return SourceProducts
	default:
		return SourceGeneral
	}
}

// Metadata holds the structured identifiers a document may carry.
// Every field is independently optional; empty string means absent.
type Metadata struct {
	UNNumber     string `json:"un_number,omitempty" yaml:"un_number,omitempty"`
	CASNumber    string `json:"cas_number,omitempty" yaml:"cas_number,omitempty"`
	HazardClass  string `json:"hazard_class,omitempty" yaml:"hazard_class,omitempty"`
	PackingGroup string `json:"packing_group,omitempty" yaml:"packing_group,omitempty"`
	SectionRef   string `json:"section_ref,omitempty" yaml:"section_ref,omitempty"`
	NMFCCode     string `json:"nmfc_code,omitempty" yaml:"nmfc_code,omitempty"`
	FreightClass string `json:"freight_class,omitempty" yaml:"freight_class,omitempty"`
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
}

// CompletenessFields is the number of metadata fields counted toward the
// metadata-completeness relevance feature.
const CompletenessFields = 8

// Completeness returns the fraction of metadata fields that are present.
func (m *Metadata) Completeness() float64 {
	if m == nil {
		return 0
	}
	present := 0
	for _, v := range []string{
		m.UNNumber, m.CASNumber, m.HazardClass, m.PackingGroup,
		m.SectionRef, m.NMFCCode, m.FreightClass, m.Name,
	} {
		if v != "" {
			present++
		}
	}
	return float64(present) / float64(CompletenessFields)
}

// Document is one corpus entry. Immutable once placed in a snapshot;
// the tokenization cache is computed lazily and is safe for concurrent use.
type Document struct {
	ID        string    `json:"id"`
	Source    Source    `json:"source"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
	Metadata  *Metadata `json:"metadata,omitempty"`

	tokOnce   sync.Once
	tokens    []string
	wordCount int
}

// Words returns the whitespace-delimited word count of the document text.
func (d *Document) Words() int {
	d.tokenizeOnce()
	return d.wordCount
}

// Tokens returns the cached lowercase token list for the document text.
// Tokenization drops punctuation (hyphens kept) and tokens of length <= 2.
func (d *Document) Tokens() []string {
	d.tokenizeOnce()
	return d.tokens
}

func (d *Document) tokenizeOnce() {
	d.tokOnce.Do(func() {
		d.tokens = TokenizeText(d.Text)
		d.wordCount = len(strings.Fields(d.Text))
	})
}
