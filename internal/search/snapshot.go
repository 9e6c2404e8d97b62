package search

import (
	"context"
	"sync/atomic"

	"github.com/hazmatiq/hazsearch/internal/corpus"
	"github.com/hazmatiq/hazsearch/internal/index"
)

// Snapshot binds one immutable corpus to its lexical index. The index is
// built exactly once here; queries against a snapshot share it read-only,
// so any number can run in parallel without coordination.
type Snapshot struct {
	Documents []*corpus.Document
	Index     *index.Lexical
}

// NewSnapshot builds the lexical index over the documents.
func NewSnapshot(ctx context.Context, documents []*corpus.Document) (*Snapshot, error) {
	ix, err := index.Build(ctx, documents)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Documents: documents, Index: ix}, nil
}

// SnapshotHolder swaps snapshots atomically so a corpus reload never
// tears an in-flight query: readers keep the snapshot they loaded.
type SnapshotHolder struct {
	current atomic.Pointer[Snapshot]
}

// NewSnapshotHolder creates a holder seeded with an initial snapshot.
func NewSnapshotHolder(snap *Snapshot) *SnapshotHolder {
	h := &SnapshotHolder{}
	h.current.Store(snap)
	return h
}

// Load returns the current snapshot.
func (h *SnapshotHolder) Load() *Snapshot {
	return h.current.Load()
}

// Swap replaces the current snapshot.
func (h *SnapshotHolder) Swap(snap *Snapshot) {
	h.current.Store(snap)
}
