package content

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 200 * time.Millisecond

// ReloadCallback is called after a watcher-driven reload changed a dataset.
type ReloadCallback func(ds Dataset, count int)

// Watch watches the cache file and the TIL directory and reloads the store
// on change until ctx is cancelled. Bursts of events are coalesced.
func Watch(ctx context.Context, s *Store, logger *slog.Logger, cb ReloadCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	cacheAbs, err := s.provider.Abs(s.cachePath)
	if err != nil {
		return err
	}
	tilAbs, err := s.provider.Abs(s.tilDir)
	if err != nil {
		return err
	}

	// The cache file is replaced by rename, so watch its directory.
	if err := w.Add(filepath.Dir(cacheAbs)); err != nil {
		logger.Warn("watcher: cache dir not watched", slog.String("path", filepath.Dir(cacheAbs)), slog.String("error", err.Error()))
	}
	if err := addDirsRecursive(w, tilAbs); err != nil {
		logger.Warn("watcher: til dir not watched", slog.String("path", tilAbs), slog.String("error", err.Error()))
	}

	logger.Info("watcher: started", slog.String("cache", cacheAbs), slog.String("til", tilAbs))

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		pending = map[Dataset]bool{}
	)
	schedule := func(ds Dataset) {
		pending[ds] = true
		if timer == nil {
			timer = time.NewTimer(debounce)
			timerCh = timer.C
		} else {
			timer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-timerCh:
			for ds := range pending {
				s.reloadOne(ctx, ds, logger, cb)
			}
			clear(pending)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			switch {
			case ev.Name == cacheAbs:
				schedule(DatasetResources)
			case within(tilAbs, ev.Name):
				if ev.Op&fsnotify.Create != 0 {
					if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
						if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
							logger.Warn("watcher: add new dir failed", slog.String("path", ev.Name), slog.String("error", addErr.Error()))
						}
						schedule(DatasetTIL)
						continue
					}
				}
				if strings.HasSuffix(ev.Name, ".md") || ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					schedule(DatasetTIL)
				}
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func (s *Store) reloadOne(ctx context.Context, ds Dataset, logger *slog.Logger, cb ReloadCallback) {
	var (
		changed bool
		count   int
		err     error
	)
	switch ds {
	case DatasetResources:
		changed, err = s.ReloadResources(ctx)
		count = len(s.Resources())
	case DatasetTIL:
		changed, err = s.ReloadTIL()
		count = len(s.TIL())
	}
	if err != nil {
		logger.Warn("watcher: reload failed", slog.String("dataset", string(ds)), slog.String("error", err.Error()))
		return
	}
	if changed && cb != nil {
		cb(ds, count)
	}
}

func within(dir, p string) bool {
	rel, err := filepath.Rel(dir, p)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
