// Package searcher is the public facade over the full retrieval-and-
// ranking pipeline: query understanding, hybrid retrieval, feature-based
// reranking, and the numeric-interval correction pass.
//
// The embedding for the query is supplied by the caller; this package
// never computes embeddings and never performs I/O.
package searcher

import (
	"context"

	"github.com/hazmatiq/hazsearch/internal/corpus"
	"github.com/hazmatiq/hazsearch/internal/interval"
	"github.com/hazmatiq/hazsearch/internal/query"
	"github.com/hazmatiq/hazsearch/internal/rank"
	"github.com/hazmatiq/hazsearch/internal/search"
)

// Searcher runs queries against the current corpus snapshot.
// Safe for concurrent use: snapshots are immutable and swapped
// atomically on reload, and the reranker serializes its own weight
// mutations.
type Searcher struct {
	processor *query.Processor
	holder    *search.SnapshotHolder
	reranker  *rank.Reranker

	semanticWeight float64
	keywordWeight  float64
}

// Config tunes the pipeline stages.
type Config struct {
	// SemanticWeight and KeywordWeight blend the hybrid signals.
	// Zero values fall back to the 0.7/0.3 defaults.
	SemanticWeight float64
	KeywordWeight  float64

	// Weights optionally replaces the reranker's default weight table.
	Weights map[string]float64
}

// Options configures one query.
type Options struct {
	// Limit caps the hybrid stage candidates (default 10).
	Limit int

	// MinScore filters the hybrid stage (default 0.2).
	MinScore float64

	// TopK caps the reranked output (default 10).
	TopK int

	// Threshold filters the reranked output (default 0.3).
	Threshold float64

	// Explain attaches feature maps and top contributions.
	Explain bool

	// Highlights attaches context windows to results.
	Highlights bool

	// Context forces individual query context flags.
	Context *query.ContextOverrides
}

// New builds a searcher over the given documents, indexing them once.
func New(ctx context.Context, documents []*corpus.Document, cfg Config) (*Searcher, error) {
	snap, err := search.NewSnapshot(ctx, documents)
	if err != nil {
		return nil, err
	}

	var rerankOpts []rank.RerankerOption
	if cfg.Weights != nil {
		rerankOpts = append(rerankOpts, rank.WithWeightTable(cfg.Weights))
	}
	reranker, err := rank.NewReranker(rerankOpts...)
	if err != nil {
		return nil, err
	}

	return &Searcher{
		processor:      query.NewProcessor(),
		holder:         search.NewSnapshotHolder(snap),
		reranker:       reranker,
		semanticWeight: cfg.SemanticWeight,
		keywordWeight:  cfg.KeywordWeight,
	}, nil
}

// Reload swaps in a fresh snapshot over the given documents. In-flight
// queries keep the snapshot they already loaded.
func (s *Searcher) Reload(ctx context.Context, documents []*corpus.Document) error {
	snap, err := search.NewSnapshot(ctx, documents)
	if err != nil {
		return err
	}
	s.holder.Swap(snap)
	return nil
}

// Watch reloads the snapshot whenever the corpus file at path changes,
// using load to re-read it. Blocks until ctx is cancelled. Failed
// reloads keep the previous snapshot live.
func (s *Searcher) Watch(ctx context.Context, path string, load func(string) ([]*corpus.Document, error)) error {
	w := corpus.NewWatcher(path, func() error {
		docs, err := load(path)
		if err != nil {
			return err
		}
		return s.Reload(ctx, docs)
	})
	return w.Run(ctx)
}

// Process exposes the query-understanding stage on its own, for callers
// that drive an external embedding provider with GenerateSearchQuery.
func (s *Searcher) Process(text string, overrides *query.ContextOverrides) query.Processed {
	return s.processor.Process(text, overrides)
}

// GenerateSearchQuery builds the retrieval string for the external
// embedding call.
func (s *Searcher) GenerateSearchQuery(pq query.Processed) string {
	return s.processor.GenerateSearchQuery(pq)
}

// Search runs the full pipeline for one query. queryEmbedding comes from
// the caller's embedding provider; a nil embedding degrades to
// keyword-only relevance rather than erroring.
func (s *Searcher) Search(text string, queryEmbedding []float32, opts Options) []*rank.Reranked {
	pq := s.processor.Process(text, opts.Context)

	snap := s.holder.Load()
	scorer := search.NewScorer(snap.Index, search.WithWeights(s.semanticWeight, s.keywordWeight))
	results := scorer.Search(pq, snap.Documents, queryEmbedding, search.Options{
		Limit:          opts.Limit,
		MinScore:       opts.MinScore,
		WithHighlights: opts.Highlights,
	})

	reranked := s.reranker.Rerank(pq, results, rank.Options{
		TopK:      opts.TopK,
		Threshold: opts.Threshold,
		Explain:   opts.Explain,
	})

	return correctIntervals(text, reranked)
}

// Feedback feeds a click signal into the reranker's weight adaptation.
func (s *Searcher) Feedback(text string, clicked *search.Result, notClicked []*search.Result, learningRate float64) {
	pq := s.processor.Process(text, nil)
	s.reranker.AdaptWeights(pq, clicked, notClicked, learningRate)
}

// Context assembles a token-budgeted prompt context from ranked results.
func (s *Searcher) Context(results []*rank.Reranked, maxTokens int) string {
	base := make([]*search.Result, len(results))
	for i, r := range results {
		base[i] = r.Result
	}
	return search.CreateContext(base, maxTokens)
}

// Stats reports index dimensions for diagnostics.
func (s *Searcher) Stats() (documents, terms int, avgDocLength float64) {
	st := s.holder.Load().Index.Stats()
	return st.Documents, st.Terms, st.AvgDocLength
}

// correctIntervals runs the numeric-interval pass over reranked results.
func correctIntervals(queryText string, results []*rank.Reranked) []*rank.Reranked {
	candidates := make([]interval.Candidate, len(results))
	for i, r := range results {
		candidates[i] = r
	}
	interval.LocalRerank(queryText, candidates, nil)

	out := make([]*rank.Reranked, len(candidates))
	for i, c := range candidates {
		out[i] = c.(*rank.Reranked)
	}
	return out
}
