package notion

import (
	"context"
	"log/slog"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// SourceCache maps database ids to resolved data source ids. Entries never
// expire; they are dropped only by Clear. The zero value is not usable, use
// NewSourceCache.
type SourceCache struct {
	c *gocache.Cache
}

// NewSourceCache returns an empty cache with no expiry and no janitor.
func NewSourceCache() *SourceCache {
	return &SourceCache{c: gocache.New(gocache.NoExpiration, 0)}
}

// Get returns the cached data source id for databaseID.
func (s *SourceCache) Get(databaseID string) (string, bool) {
	v, ok := s.c.Get(databaseID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// Set records a resolution.
func (s *SourceCache) Set(databaseID, dataSourceID string) {
	s.c.Set(databaseID, dataSourceID, gocache.NoExpiration)
}

// Clear forgets every resolution.
func (s *SourceCache) Clear() {
	s.c.Flush()
}

// Len reports the number of cached resolutions.
func (s *SourceCache) Len() int {
	return s.c.ItemCount()
}

// Resolver finds the queryable data source behind a database id.
type Resolver struct {
	api    API
	cache  *SourceCache
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil cache gets a private one.
func NewResolver(api API, cache *SourceCache, logger *slog.Logger) *Resolver {
	if cache == nil {
		cache = NewSourceCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{api: api, cache: cache, logger: logger}
}

// Resolve returns the first data source id of databaseID. Databases that
// expose no data sources resolve to their own id, which keeps databases not
// yet migrated to multi-source working. A failed lookup also falls back to
// the database id but is not cached, so the next call asks again.
func (r *Resolver) Resolve(ctx context.Context, databaseID string) string {
	if id, ok := r.cache.Get(databaseID); ok {
		return id
	}

	db, err := r.api.RetrieveDatabase(ctx, databaseID)
	if err != nil {
		r.logger.Warn("data source lookup failed, falling back to database id",
			slog.String("database_id", databaseID),
			slog.String("error", err.Error()))
		return databaseID
	}

	id := ""
	if len(db.DataSources) > 0 {
		id = strings.TrimSpace(db.DataSources[0].ID)
	}
	if id == "" {
		r.logger.Warn("no data_sources found for database, falling back to database id",
			slog.String("database_id", databaseID))
		id = databaseID
	}

	r.cache.Set(databaseID, id)
	return id
}
