// Package index provides the per-snapshot lexical index (BM25) and the
// sliding-window text utilities used for highlights and context assembly.
package index

import (
	"context"
	"math"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hazmatiq/hazsearch/internal/corpus"
)

// BM25 tuning constants. k1 controls term-frequency saturation, b the
// strength of document-length normalization.
const (
	K1 = 1.2
	B  = 0.75
)

// Lexical is a BM25 index over one corpus snapshot. Build it once per
// snapshot and treat it as immutable: every method after Build is a
// read-only computation, so concurrent queries need no coordination.
type Lexical struct {
	docs      map[string]*docEntry
	idf       map[string]float64
	avgDocLen float64
	count     int
}

type docEntry struct {
	termFreq map[string]int
	length   int
}

// Stats summarizes index dimensions for diagnostics.
type Stats struct {
	Documents    int
	Terms        int
	AvgDocLength float64
}

// Build tokenizes every document and computes the corpus statistics.
// Tokenization fans out across CPUs; statistics aggregation is serial.
func Build(ctx context.Context, documents []*corpus.Document) (*Lexical, error) {
	idx := &Lexical{
		docs:  make(map[string]*docEntry, len(documents)),
		idf:   make(map[string]float64),
		count: len(documents),
	}
	if len(documents) == 0 {
		return idx, nil
	}

	entries := make([]*docEntry, len(documents))

	// Entry slots are disjoint per goroutine; no locking needed.
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, doc := range documents {
		i, doc := i, doc
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tokens := doc.Tokens()
			entry := &docEntry{
				termFreq: make(map[string]int, len(tokens)),
				length:   len(tokens),
			}
			for _, tok := range tokens {
				entry.termFreq[tok]++
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totalLen := 0
	docFreq := make(map[string]int)
	for i, doc := range documents {
		entry := entries[i]
		idx.docs[doc.ID] = entry
		totalLen += entry.length
		for term := range entry.termFreq {
			docFreq[term]++
		}
	}
	idx.avgDocLen = float64(totalLen) / float64(len(documents))

	n := float64(len(documents))
	for term, df := range docFreq {
		idx.idf[term] = math.Log((n - float64(df) + 0.5) / (float64(df) + 0.5))
	}

	return idx, nil
}

// Score computes the BM25 score of a query against one document.
// Tokens absent from the document or the IDF table contribute 0;
// an empty corpus or unknown document scores 0.
func (ix *Lexical) Score(queryText string, doc *corpus.Document) float64 {
	if ix.count == 0 || ix.avgDocLen == 0 || doc == nil {
		return 0
	}

	entry := ix.entryFor(doc)
	if entry.length == 0 {
		return 0
	}

	score := 0.0
	lenNorm := 1 - B + B*(float64(entry.length)/ix.avgDocLen)
	for _, term := range corpus.TokenizeText(queryText) {
		tf := float64(entry.termFreq[term])
		if tf == 0 {
			continue
		}
		idf, ok := ix.idf[term]
		if !ok {
			continue
		}
		score += idf * (tf * (K1 + 1)) / (tf + K1*lenNorm)
	}
	return score
}

// entryFor returns the indexed statistics for a document, computing them
// on the fly for documents outside the snapshot.
func (ix *Lexical) entryFor(doc *corpus.Document) *docEntry {
	if entry, ok := ix.docs[doc.ID]; ok {
		return entry
	}
	tokens := doc.Tokens()
	entry := &docEntry{termFreq: make(map[string]int, len(tokens)), length: len(tokens)}
	for _, tok := range tokens {
		entry.termFreq[tok]++
	}
	return entry
}

// FindMatchPositions returns the word-index positions in text where any
// query token occurs. Positions index into strings.Fields(text) so they
// line up with the word-granularity context windows.
func (ix *Lexical) FindMatchPositions(queryText, text string) []int {
	queryTokens := corpus.TokenizeText(queryText)
	if len(queryTokens) == 0 {
		return nil
	}
	want := make(map[string]bool, len(queryTokens))
	for _, tok := range queryTokens {
		want[tok] = true
	}

	var positions []int
	for i, word := range strings.Fields(text) {
		cleaned := corpus.NormalizeText(word)
		if want[cleaned] {
			positions = append(positions, i)
		}
	}
	return positions
}

// Stats returns index dimensions.
func (ix *Lexical) Stats() Stats {
	return Stats{
		Documents:    ix.count,
		Terms:        len(ix.idf),
		AvgDocLength: ix.avgDocLen,
	}
}
