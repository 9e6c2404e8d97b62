package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazmatiq/hazsearch/pkg/searcher"
)

func newAskCmd() *cobra.Command {
	var opts searchOptions
	var maxTokens int
	var printQuery bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Assemble a token-budgeted LLM context for a question",
		Long: `Run the full pipeline and print the assembled context that a
downstream language-model call would receive.

With --print-query, also prints the retrieval string handed to the
external embedding provider.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			s, cfg, err := buildSearcher(cmd.Context(), opts)
			if err != nil {
				return err
			}
			embedding, err := loadEmbedding(opts.embeddingPath)
			if err != nil {
				return err
			}

			if printQuery {
				pq := s.Process(question, nil)
				fmt.Fprintf(cmd.OutOrStdout(), "retrieval query: %s\n\n", s.GenerateSearchQuery(pq))
			}

			results := s.Search(question, embedding, searcher.Options{
				MinScore:   cfg.Search.MinScore,
				Threshold:  cfg.Rerank.Threshold,
				Highlights: true,
			})

			context := s.Context(results, maxTokens)
			if context == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No relevant passages found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), context)
			return nil
		},
	}

	addCorpusFlags(cmd, &opts)
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 2000, "Token budget for the assembled context")
	cmd.Flags().BoolVar(&printQuery, "print-query", false, "Print the generated retrieval query")

	return cmd
}
