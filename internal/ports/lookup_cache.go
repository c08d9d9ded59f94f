package ports

import "process-resolver/internal/types"

// LookupCachePort memoises resolutions. Keys are scoped by the caller so a
// published index never observes entries computed against another one.
type LookupCachePort interface {
	Get(key string) (types.Resolution, bool)
	Set(key string, resolution types.Resolution)
	Flush()
}
