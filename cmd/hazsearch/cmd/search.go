package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazmatiq/hazsearch/internal/config"
	"github.com/hazmatiq/hazsearch/internal/corpus"
	"github.com/hazmatiq/hazsearch/internal/rank"
	"github.com/hazmatiq/hazsearch/pkg/searcher"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	corpusPath    string
	corpusFormat  string
	embeddingPath string
	limit         int
	topK          int
	format        string // "text", "json"
	explain       bool
	highlights    bool
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank corpus passages against a regulatory question",
		Long: `Rank corpus passages against a natural-language regulatory question.

The query embedding is optional and comes from an external embedding
provider; pass it as a JSON array file with --embedding. Without it,
ranking falls back to keyword relevance alone.

Examples:
  hazsearch search "UN1830 shipping requirements" --corpus corpus.json
  hazsearch search "sulfuric acid packing group" --embedding query-vec.json
  hazsearch search "ERG guide for chlorine spill" --format json --explain`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd, query, opts)
		},
	}

	addCorpusFlags(cmd, &opts)
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "Maximum hybrid-stage candidates")
	cmd.Flags().IntVarP(&opts.topK, "top-k", "k", 10, "Maximum reranked results")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "Show top contributing relevance features")
	cmd.Flags().BoolVar(&opts.highlights, "highlights", false, "Attach matched context windows")

	return cmd
}

func addCorpusFlags(cmd *cobra.Command, opts *searchOptions) {
	cmd.Flags().StringVarP(&opts.corpusPath, "corpus", "c", "", "Corpus file (overrides config)")
	cmd.Flags().StringVar(&opts.corpusFormat, "corpus-format", "", "Corpus format: json, sqlite")
	cmd.Flags().StringVarP(&opts.embeddingPath, "embedding", "e", "", "Query embedding file (JSON array of floats)")
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	s, cfg, err := buildSearcher(cmd.Context(), opts)
	if err != nil {
		return err
	}

	embedding, err := loadEmbedding(opts.embeddingPath)
	if err != nil {
		return err
	}

	slog.Info("search_started", slog.String("query", query), slog.Int("limit", opts.limit))
	results := s.Search(query, embedding, searcher.Options{
		Limit:      opts.limit,
		MinScore:   cfg.Search.MinScore,
		TopK:       opts.topK,
		Threshold:  cfg.Rerank.Threshold,
		Explain:    opts.explain,
		Highlights: opts.highlights,
	})
	slog.Info("search_complete", slog.Int("results", len(results)))

	if opts.format == "json" {
		return printJSON(cmd, query, results)
	}
	printText(cmd, results, opts.explain)
	return nil
}

// buildSearcher loads config and corpus, then indexes the snapshot.
func buildSearcher(ctx context.Context, opts searchOptions) (*searcher.Searcher, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.corpusPath != "" {
		cfg.Corpus.Path = opts.corpusPath
	}
	if opts.corpusFormat != "" {
		cfg.Corpus.Format = config.CorpusFormat(opts.corpusFormat)
	}
	if cfg.Corpus.Path == "" {
		return nil, nil, fmt.Errorf("no corpus configured; pass --corpus or set corpus.path in config")
	}

	var docs []*corpus.Document
	switch cfg.Corpus.Format {
	case config.FormatSQLite:
		docs, err = corpus.LoadSQLite(cfg.Corpus.Path)
	default:
		docs, err = corpus.LoadJSON(cfg.Corpus.Path)
	}
	if err != nil {
		return nil, nil, err
	}
	slog.Info("corpus_loaded", slog.String("path", cfg.Corpus.Path), slog.Int("documents", len(docs)))

	s, err := searcher.New(ctx, docs, searcher.Config{
		SemanticWeight: cfg.Search.SemanticWeight,
		KeywordWeight:  cfg.Search.KeywordWeight,
	})
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

// loadEmbedding reads a query embedding produced by the external
// embedding provider. An empty path means keyword-only search.
func loadEmbedding(path string) ([]float32, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read embedding file: %w", err)
	}
	var vec []float32
	if err := json.Unmarshal(data, &vec); err != nil {
		return nil, fmt.Errorf("parse embedding file: %w", err)
	}
	return vec, nil
}

func printText(cmd *cobra.Command, results []*rank.Reranked, explain bool) {
	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No results.")
		return
	}
	for i, r := range results {
		fmt.Fprintf(out, "%2d. [%s] %s  (score %.3f, hybrid %.3f)\n",
			i+1, r.Document.Source, r.Document.ID, r.FinalScore, r.HybridScore)
		fmt.Fprintf(out, "    %s\n", snippet(r.Document.Text, 160))
		if explain {
			for _, c := range r.Explanation {
				fmt.Fprintf(out, "      %-24s %.3f\n", c.Feature, c.Value)
			}
		}
	}
}

func printJSON(cmd *cobra.Command, query string, results []*rank.Reranked) error {
	type resultJSON struct {
		ID            string              `json:"id"`
		Source        string              `json:"source"`
		FinalScore    float64             `json:"final_score"`
		RerankerScore float64             `json:"reranker_score"`
		HybridScore   float64             `json:"hybrid_score"`
		SemanticScore float64             `json:"semantic_score"`
		KeywordScore  float64             `json:"keyword_score"`
		Highlights    []string            `json:"highlights,omitempty"`
		Explanation   []rank.Contribution `json:"explanation,omitempty"`
	}

	payload := struct {
		Query   string       `json:"query"`
		Results []resultJSON `json:"results"`
	}{Query: query}

	for _, r := range results {
		payload.Results = append(payload.Results, resultJSON{
			ID:            r.Document.ID,
			Source:        string(r.Document.Source),
			FinalScore:    r.FinalScore,
			RerankerScore: r.RerankerScore,
			HybridScore:   r.HybridScore,
			SemanticScore: r.SemanticScore,
			KeywordScore:  r.KeywordScore,
			Highlights:    r.Highlights,
			Explanation:   r.Explanation,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func snippet(text string, maxLen int) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen] + "..."
}
