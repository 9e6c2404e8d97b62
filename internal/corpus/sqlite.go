package corpus

import (
	"database/sql"
	"encoding/binary"
	"math"

	_ "modernc.org/sqlite"

	hazerrors "github.com/hazmatiq/hazsearch/internal/errors"
)

// documentsQuery reads the table written by the ingestion pipeline.
// Embeddings are stored as little-endian float32 blobs.
const documentsQuery = `
SELECT id, source, text, embedding,
       un_number, cas_number, hazard_class, packing_group,
       section_ref, nmfc_code, freight_class, name
FROM documents
ORDER BY id`

// LoadSQLite reads a corpus from a SQLite database produced by the
// ingestion pipeline. The database is opened read-only and closed
// before returning; the snapshot owns the materialized documents.
func LoadSQLite(path string) ([]*Document, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, hazerrors.Wrap(hazerrors.CodeCorpusLoad, "open corpus database", err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.Query(documentsQuery)
	if err != nil {
		return nil, hazerrors.Wrap(hazerrors.CodeCorpusLoad, "query documents", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []*Document
	for rows.Next() {
		var (
			id, source, text string
			blob             []byte
			meta             [8]sql.NullString
		)
		if err := rows.Scan(&id, &source, &text, &blob,
			&meta[0], &meta[1], &meta[2], &meta[3],
			&meta[4], &meta[5], &meta[6], &meta[7]); err != nil {
			return nil, hazerrors.Wrap(hazerrors.CodeCorpusLoad, "scan document row", err)
		}

		doc := &Document{
			ID:        id,
			Source:    ParseSource(source),
			Text:      text,
			Embedding: decodeEmbedding(blob),
		}
		if m := buildMetadata(meta); m != nil {
			doc.Metadata = m
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, hazerrors.Wrap(hazerrors.CodeCorpusLoad, "iterate documents", err)
	}

	if err := Validate(docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// decodeEmbedding unpacks a little-endian float32 blob.
// A nil or truncated blob yields a nil vector, which scores 0 semantically.
func decodeEmbedding(blob []byte) []float32 {
	if len(blob) < 4 {
		return nil
	}
	vec := make([]float32, len(blob)/4)
	for i := range vec {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vec[i] = math.Float32frombits(bits)
	}
	return vec
}

// EncodeEmbedding packs a vector as a little-endian float32 blob.
// Used by tests and corpus preparation tooling.
func EncodeEmbedding(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	blob := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(blob[i*4:], math.Float32bits(v))
	}
	return blob
}

func buildMetadata(cols [8]sql.NullString) *Metadata {
	m := &Metadata{
		UNNumber:     cols[0].String,
		CASNumber:    cols[1].String,
		HazardClass:  cols[2].String,
		PackingGroup: cols[3].String,
		SectionRef:   cols[4].String,
		NMFCCode:     cols[5].String,
		FreightClass: cols[6].String,
		Name:         cols[7].String,
	}
	if *m == (Metadata{}) {
		return nil
	}
	return m
}
