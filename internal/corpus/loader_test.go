package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hazerrors "github.com/hazmatiq/hazsearch/internal/errors"
)

func writeCorpusFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJSON(t *testing.T) {
	path := writeCorpusFile(t, `[
		{
			"id": "hmt-1830",
			"source": "hmt",
			"text": "UN1830 Sulfuric acid Class 8 PG II",
			"embedding": [0.1, 0.2, 0.3],
			"metadata": {"un_number": "UN1830", "hazard_class": "8"}
		},
		{
			"id": "erg-137",
			"source": "ERG",
			"text": "Guide 137 substances water-reactive corrosive",
			"embedding": [0.3, 0.2, 0.1]
		}
	]`)

	docs, err := LoadJSON(path)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "hmt-1830", docs[0].ID)
	assert.Equal(t, SourceHMT, docs[0].Source)
	require.NotNil(t, docs[0].Metadata)
	assert.Equal(t, "UN1830", docs[0].Metadata.UNNumber)

	// Source tags are normalized during validation.
	assert.Equal(t, SourceERG, docs[1].Source)
	assert.Nil(t, docs[1].Metadata)
}

func TestLoadJSONErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `[{"id": "a"`},
		{"empty id", `[{"id": "", "source": "hmt", "text": "x"}]`},
		{"duplicate id", `[{"id": "a", "text": "x"}, {"id": "a", "text": "y"}]`},
		{"null document", `[null]`},
		{
			name: "mismatched embedding dimensions",
			content: `[
				{"id": "a", "text": "x", "embedding": [0.1, 0.2]},
				{"id": "b", "text": "y", "embedding": [0.1, 0.2, 0.3]}
			]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadJSON(writeCorpusFile(t, tt.content))
			require.Error(t, err)
			assert.True(t, hazerrors.HasCode(err, hazerrors.CodeCorpusLoad))
		})
	}
}

func TestLoadJSONMissingFile(t *testing.T) {
	_, err := LoadJSON(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, hazerrors.HasCode(err, hazerrors.CodeCorpusLoad))
}

func TestValidateAllowsMissingEmbeddings(t *testing.T) {
	docs := []*Document{
		{ID: "a", Text: "with vector", Embedding: []float32{0.1, 0.2}},
		{ID: "b", Text: "without vector"},
		{ID: "c", Text: "also with vector", Embedding: []float32{0.3, 0.4}},
	}

	require.NoError(t, Validate(docs))
}
