// Package catalog maps relative media paths to verified durations and codec
// support flags. Durations here are authoritative: resolution never probes
// files.
package catalog

import (
	"context"

	"github.com/colefield/airwave/internal/db"
	"github.com/colefield/airwave/internal/logger"
)

// Entry is one catalog record as consumed by resolution
type Entry struct {
	RelPath         string
	Title           string
	DurationSeconds int64
	Supported       bool
}

// Catalog resolves relative media paths for schedule validation and playback
// resolution
type Catalog interface {
	// Lookup returns the entry for a relative path, or false if unknown
	Lookup(ctx context.Context, path string) (*Entry, bool)

	// Resolves reports whether the path maps to a known entry
	Resolves(path string) bool
}

// Store is the database-backed Catalog with a version-keyed read-through cache
type Store struct {
	media *db.MediaRepository
	cache *Cache
}

// NewStore creates a catalog store over the media repository
func NewStore(media *db.MediaRepository, cache *Cache) *Store {
	if cache == nil {
		cache = NewCache()
	}
	return &Store{media: media, cache: cache}
}

// Lookup returns the catalog entry for a relative path. Results are cached
// until the catalog version moves.
func (s *Store) Lookup(ctx context.Context, path string) (*Entry, bool) {
	version, err := s.media.Version(ctx)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Msg("Failed to read catalog version, bypassing cache")
		version = ""
	}

	if version != "" {
		if entry, ok := s.cache.Get(version, path); ok {
			return entry, entry != nil
		}
	}

	asset, err := s.media.GetByPath(ctx, path)
	if err != nil {
		if db.IsNotFound(err) {
			if version != "" {
				// Negative entries are cached too: unresolved slot files are
				// looked up on every resolution otherwise
				s.cache.Set(version, path, nil)
			}
			return nil, false
		}
		logger.Log.Error().
			Err(err).
			Str("path", path).
			Msg("Failed to look up catalog entry")
		return nil, false
	}

	entry := &Entry{
		RelPath:         asset.FilePath,
		Title:           asset.Title,
		DurationSeconds: asset.DurationSeconds,
		Supported:       asset.Supported,
	}
	if version != "" {
		s.cache.Set(version, path, entry)
	}
	return entry, true
}

// Resolves reports whether a relative path is present in the catalog
func (s *Store) Resolves(path string) bool {
	_, ok := s.Lookup(context.Background(), path)
	return ok
}

// Invalidate drops the cache, forcing the next lookup back to the database
func (s *Store) Invalidate() {
	s.cache.Invalidate()
}
