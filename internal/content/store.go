package content

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"sync"

	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/listing"
	"github.com/starford/folio/internal/normalize"
	"github.com/starford/folio/internal/storage"
)

// Dataset names a listing dataset.
type Dataset string

const (
	DatasetResources Dataset = "resources"
	DatasetTIL       Dataset = "til"
)

// LiveSource fetches normalized resources straight from Notion.
type LiveSource interface {
	Fetch(ctx context.Context) ([]normalize.CacheEntry, error)
}

// Store holds the current listing datasets. Readers get immutable slices;
// a reload swaps them under the lock.
type Store struct {
	provider  storage.Provider
	cachePath string
	tilDir    string
	logger    *slog.Logger
	live      LiveSource

	mu           sync.RWMutex
	resources    []listing.Resource
	til          []listing.TILEntry
	resourcesSum string
	tilSum       string
	loaded       bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLiveResources loads resources from src, using the cache file only when
// src fails.
func WithLiveResources(src LiveSource) StoreOption {
	return func(s *Store) { s.live = src }
}

// NewStore creates a store reading the cache file at cachePath and the TIL
// notes under tilDir. Call Reload before serving.
func NewStore(provider storage.Provider, cachePath, tilDir string, logger *slog.Logger, opts ...StoreOption) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{provider: provider, cachePath: cachePath, tilDir: tilDir, logger: logger}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Resources returns the resources dataset.
func (s *Store) Resources() []listing.Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resources
}

// TIL returns the TIL dataset.
func (s *Store) TIL() []listing.TILEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.til
}

// Loaded reports whether the first Reload completed.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Reload refreshes both datasets and returns the ones that changed.
func (s *Store) Reload(ctx context.Context) ([]Dataset, error) {
	var changed []Dataset
	ok, rerr := s.ReloadResources(ctx)
	if ok {
		changed = append(changed, DatasetResources)
	}
	ok, terr := s.ReloadTIL()
	if ok {
		changed = append(changed, DatasetTIL)
	}
	if err := errors.Join(rerr, terr); err != nil {
		return changed, err
	}

	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
	return changed, nil
}

// ReloadResources re-reads the resources, live when a LiveSource is set and
// from the cache file otherwise or when the live fetch fails. It reports
// false without parsing when the data is unchanged.
func (s *Store) ReloadResources(ctx context.Context) (bool, error) {
	data, err := s.readResources(ctx)
	if err != nil {
		return false, err
	}

	s.mu.RLock()
	prev := s.resourcesSum
	s.mu.RUnlock()
	if checksum.Equal(data, prev) {
		return false, nil
	}

	resources, err := ParseResources(data)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.resources = resources
	s.resourcesSum = checksum.Sum(data)
	s.mu.Unlock()

	s.logger.Info("content: resources loaded", slog.Int("count", len(resources)))
	return true, nil
}

func (s *Store) readResources(ctx context.Context) ([]byte, error) {
	if s.live != nil {
		entries, err := s.live.Fetch(ctx)
		if err == nil {
			return json.Marshal(entries)
		}
		s.logger.Warn("content: live resources unavailable, using cache file",
			slog.String("error", err.Error()))
	}

	data, err := s.provider.Read(s.cachePath)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("content: resources cache missing, serving empty dataset",
			slog.String("path", s.cachePath))
		return []byte("[]"), nil
	}
	return data, err
}

// ReloadTIL re-reads the TIL notes. It reports false when no note changed.
func (s *Store) ReloadTIL() (bool, error) {
	files, err := s.provider.List(s.tilDir, ".md")
	if err != nil {
		return false, err
	}
	var b strings.Builder
	for _, f := range files {
		b.WriteString(f.Path + ":" + f.Checksum + "\n")
	}
	sum := checksum.Sum([]byte(b.String()))

	s.mu.RLock()
	same := sum == s.tilSum
	s.mu.RUnlock()
	if same {
		return false, nil
	}

	entries, err := LoadTIL(s.provider, s.tilDir, s.logger)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.til = entries
	s.tilSum = sum
	s.mu.Unlock()

	s.logger.Info("content: til loaded", slog.Int("count", len(entries)))
	return true, nil
}
