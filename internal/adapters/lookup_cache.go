package adapters

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"process-resolver/internal/ports"
	"process-resolver/internal/types"
)

const (
	DefaultLookupCacheTTL     = 10 * time.Minute
	DefaultLookupCacheCleanup = 30 * time.Minute
)

// LookupCacheAdapter memoises resolutions in an expiring in-memory cache.
type LookupCacheAdapter struct {
	cache *gocache.Cache
}

// NewLookupCacheAdapter returns a cache whose entries expire after ttl. A
// non-positive ttl falls back to DefaultLookupCacheTTL.
func NewLookupCacheAdapter(ttl time.Duration) *LookupCacheAdapter {
	if ttl <= 0 {
		ttl = DefaultLookupCacheTTL
	}
	cleanup := DefaultLookupCacheCleanup
	if ttl > cleanup {
		cleanup = ttl
	}
	return &LookupCacheAdapter{cache: gocache.New(ttl, cleanup)}
}

func (a *LookupCacheAdapter) Get(key string) (types.Resolution, bool) {
	value, found := a.cache.Get(key)
	if !found {
		return types.Resolution{}, false
	}
	resolution, ok := value.(types.Resolution)
	if !ok {
		log.Error().Str("key", key).Msg("wrong type in lookup cache")
		return types.Resolution{}, false
	}
	return resolution, true
}

func (a *LookupCacheAdapter) Set(key string, resolution types.Resolution) {
	a.cache.SetDefault(key, resolution)
}

func (a *LookupCacheAdapter) Flush() {
	a.cache.Flush()
}

// Len reports the number of cached entries, including expired ones not yet
// cleaned up.
func (a *LookupCacheAdapter) Len() int {
	return a.cache.ItemCount()
}

var _ ports.LookupCachePort = (*LookupCacheAdapter)(nil)
