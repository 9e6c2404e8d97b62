package corpus

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last write
// event before triggering a reload. Ingestion rewrites the corpus file
// in several bursts; reloading on every write would rebuild the index
// mid-write.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a corpus file and invokes a reload callback when it
// changes. The callback rebuilds the snapshot; swap semantics are the
// caller's concern.
type Watcher struct {
	path     string
	debounce time.Duration
	reload   func() error
}

// NewWatcher creates a watcher for the corpus file at path.
// reload is called after changes settle for the debounce window.
func NewWatcher(path string, reload func() error) *Watcher {
	return &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		reload:   reload,
	}
}

// Run watches until ctx is cancelled. Individual reload failures are
// logged, not fatal: the previous snapshot stays live.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = fw.Close() }()

	// Watch the parent directory: editors and atomic-rename writers
	// replace the file node, which silently drops a file-level watch.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			slog.Info("corpus_changed", slog.String("path", w.path))
			if err := w.reload(); err != nil {
				slog.Warn("corpus_reload_failed",
					slog.String("path", w.path),
					slog.String("error", err.Error()))
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("corpus_watch_error", slog.String("error", err.Error()))
		}
	}
}
