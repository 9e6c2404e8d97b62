package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show corpus and index statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, _, err := buildSearcher(cmd.Context(), opts)
			if err != nil {
				return err
			}
			docs, terms, avgLen := s.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "documents:       %d\n", docs)
			fmt.Fprintf(out, "indexed terms:   %d\n", terms)
			fmt.Fprintf(out, "avg doc length:  %.1f tokens\n", avgLen)
			return nil
		},
	}

	addCorpusFlags(cmd, &opts)
	return cmd
}
