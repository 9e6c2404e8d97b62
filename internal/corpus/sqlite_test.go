package corpus

import (
	"database/sql"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hazerrors "github.com/hazmatiq/hazsearch/internal/errors"
)

const createDocumentsTable = `
CREATE TABLE documents (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	text TEXT NOT NULL,
	embedding BLOB,
	un_number TEXT,
	cas_number TEXT,
	hazard_class TEXT,
	packing_group TEXT,
	section_ref TEXT,
	nmfc_code TEXT,
	freight_class TEXT,
	name TEXT
)`

func createTestDatabase(t *testing.T) (string, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(createDocumentsTable)
	require.NoError(t, err)
	return path, db
}

func TestLoadSQLite(t *testing.T) {
	path, db := createTestDatabase(t)

	_, err := db.Exec(`INSERT INTO documents
		(id, source, text, embedding, un_number, hazard_class)
		VALUES (?, ?, ?, ?, ?, ?)`,
		"hmt-1830", "hmt", "UN1830 Sulfuric acid Class 8",
		EncodeEmbedding([]float32{0.5, -0.25, 1.0}), "UN1830", "8")
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO documents (id, source, text) VALUES (?, ?, ?)`,
		"cfr-173", "cfr", "Section 173.202 packaging requirements")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	docs, err := LoadSQLite(path)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "cfr-173", docs[0].ID)
	assert.Equal(t, SourceCFR, docs[0].Source)
	assert.Nil(t, docs[0].Metadata)
	assert.Nil(t, docs[0].Embedding)

	assert.Equal(t, "hmt-1830", docs[1].ID)
	assert.Equal(t, []float32{0.5, -0.25, 1.0}, docs[1].Embedding)
	require.NotNil(t, docs[1].Metadata)
	assert.Equal(t, "UN1830", docs[1].Metadata.UNNumber)
	assert.Equal(t, "8", docs[1].Metadata.HazardClass)
	assert.Empty(t, docs[1].Metadata.CASNumber)
}

func TestLoadSQLiteMissingDatabase(t *testing.T) {
	_, err := LoadSQLite(filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.True(t, hazerrors.HasCode(err, hazerrors.CodeCorpusLoad))
}

func TestEmbeddingRoundTrip(t *testing.T) {
	vec := []float32{0, 1.5, -2.25, float32(math.Pi)}
	assert.Equal(t, vec, decodeEmbedding(EncodeEmbedding(vec)))
}

func TestDecodeEmbeddingTruncated(t *testing.T) {
	assert.Nil(t, decodeEmbedding(nil))
	assert.Nil(t, decodeEmbedding([]byte{0x01, 0x02}))
	// A trailing partial float is dropped.
	blob := append(EncodeEmbedding([]float32{1.0}), 0x00, 0x00)
	assert.Equal(t, []float32{1.0}, decodeEmbedding(blob))
}
