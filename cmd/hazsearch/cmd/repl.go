package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazmatiq/hazsearch/internal/config"
	"github.com/hazmatiq/hazsearch/internal/corpus"
	"github.com/hazmatiq/hazsearch/pkg/searcher"
)

func newReplCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive query session against a loaded corpus",
		Long: `Load the corpus once, then answer queries from stdin until EOF.

With corpus.watch enabled in the config, the corpus file is watched and
the snapshot rebuilt on change; queries in flight keep the snapshot they
started with.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, cfg, err := buildSearcher(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return runRepl(cmd, s, cfg)
		},
	}

	addCorpusFlags(cmd, &opts)
	return cmd
}

func runRepl(cmd *cobra.Command, s *searcher.Searcher, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if cfg.Corpus.Watch {
		load := corpus.LoadJSON
		if cfg.Corpus.Format == config.FormatSQLite {
			load = corpus.LoadSQLite
		}
		go func() {
			if err := s.Watch(ctx, cfg.Corpus.Path, load); err != nil && ctx.Err() == nil {
				slog.Warn("corpus_watch_stopped", slog.String("error", err.Error()))
			}
		}()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "hazsearch repl; enter a query, ctrl-d to exit")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		results := s.Search(line, nil, searcher.Options{
			MinScore:  cfg.Search.MinScore,
			Threshold: cfg.Rerank.Threshold,
		})
		printText(cmd, results, false)
	}
}
