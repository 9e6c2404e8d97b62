package search

import (
	"fmt"
	"strings"

	"github.com/hazmatiq/hazsearch/internal/index"
)

// CharsPerToken approximates the tokenizer of the downstream language
// model. Four characters per token is the standard English estimate.
const CharsPerToken = 4

// CreateContext assembles a token-budgeted prompt context from ranked
// results. Each result contributes its merged highlight windows (or its
// full text when highlights are absent) under a source header, until the
// budget is exhausted.
func CreateContext(results []*Result, maxTokens int) string {
	if maxTokens <= 0 || len(results) == 0 {
		return ""
	}
	budget := maxTokens * CharsPerToken

	var b strings.Builder
	for _, r := range results {
		body := index.MergeWindows(r.Highlights)
		if body == "" {
			body = r.Document.Text
		}

		section := fmt.Sprintf("[source: %s | id: %s]\n%s\n\n", r.Document.Source, r.Document.ID, body)
		if b.Len()+len(section) > budget {
			remaining := budget - b.Len()
			if remaining > len(section)-len(body) {
				// Partial section still fits; truncate the body.
				b.WriteString(section[:remaining])
			}
			break
		}
		b.WriteString(section)
	}
	return strings.TrimRight(b.String(), "\n")
}
