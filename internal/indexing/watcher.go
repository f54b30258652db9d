package indexing

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/codegraf/codegraf/internal/config"
	"github.com/codegraf/codegraf/internal/obslog"
)

// Watcher feeds debounced batches of changed paths into a Pipeline,
// giving C1's change gate a live event source instead of a fresh
// directory walk every run.
type Watcher struct {
	cfg      *config.Config
	pipeline *Pipeline
	debounce time.Duration
}

func NewWatcher(cfg *config.Config, pipeline *Pipeline) *Watcher {
	debounce := time.Duration(cfg.Index.WatchDebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{cfg: cfg, pipeline: pipeline, debounce: debounce}
}

// Run watches cfg.Project.Root until ctx is cancelled, batching fsnotify
// events behind a debounce timer and re-running the pipeline over the
// accumulated set of changed paths each time the timer fires.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.cfg.Project.Root); err != nil {
		return err
	}

	pending := make(map[string]struct{})
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		pending = make(map[string]struct{})

		obslog.Indexing("watch: re-indexing changed files", "count", len(paths))
		if _, err := w.pipeline.Run(ctx, paths); err != nil {
			obslog.Warn("watch: re-index failed", "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if info, err := statIsDir(event.Name); err == nil && info {
				_ = w.addTree(fsw, event.Name)
				continue
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-timerC(timer):
			flush()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			obslog.Warn("watch: fsnotify error", "error", err)
		}
	}
}

func timerC(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

func statIsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// addTree registers root and, recursively, every subdirectory under it
// that isn't excluded (fsnotify watches are not recursive by themselves).
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	fs := NewFileScanner(w.cfg)
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		rel := relSlash(w.cfg.Project.Root, path)
		if rel != "." && fs.shouldExclude(rel+"/") {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}
