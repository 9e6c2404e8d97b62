package corpus

import (
	"encoding/json"
	"fmt"
	"os"

	hazerrors "github.com/hazmatiq/hazsearch/internal/errors"
)

// LoadJSON reads a corpus file produced by the ingestion pipeline:
// a JSON array of documents with precomputed embeddings.
// Malformed files and inconsistent embedding dimensions fail loudly here,
// at load time, so the scoring path never has to.
func LoadJSON(path string) ([]*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, hazerrors.Wrap(hazerrors.CodeCorpusLoad, "read corpus file", err)
	}

	var docs []*Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, hazerrors.Wrap(hazerrors.CodeCorpusLoad, "parse corpus JSON", err)
	}

	if err := Validate(docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Validate checks structural invariants the scoring core relies on:
// non-empty IDs, unique IDs, and a single embedding dimension across
// all embedded documents. Documents without embeddings are allowed;
// they simply score 0 on the semantic signal.
func Validate(docs []*Document) error {
	seen := make(map[string]struct{}, len(docs))
	dim := -1
	for i, d := range docs {
		if d == nil {
			return hazerrors.New(hazerrors.CodeCorpusLoad, fmt.Sprintf("document %d is null", i))
		}
		if d.ID == "" {
			return hazerrors.New(hazerrors.CodeCorpusLoad, fmt.Sprintf("document %d has empty id", i))
		}
		if _, dup := seen[d.ID]; dup {
			return hazerrors.New(hazerrors.CodeCorpusLoad, fmt.Sprintf("duplicate document id %q", d.ID))
		}
		seen[d.ID] = struct{}{}
		d.Source = ParseSource(string(d.Source))

		if len(d.Embedding) == 0 {
			continue
		}
		if dim == -1 {
			dim = len(d.Embedding)
		} else if len(d.Embedding) != dim {
			return hazerrors.New(hazerrors.CodeCorpusLoad,
				fmt.Sprintf("document %q embedding dimension %d, expected %d", d.ID, len(d.Embedding), dim))
		}
	}
	return nil
}
