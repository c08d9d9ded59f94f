package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"process-resolver/internal/ports"
	"process-resolver/internal/types"
)

// Resolver answers process identity and hierarchy queries against one
// published resolution index. Queries never block and never fail; reloads
// build a new index off to the side and publish it with a single pointer
// swap, so a reader sees either the old index or the new one.
type Resolver struct {
	current atomic.Pointer[resolutionIndex]
	// mu serialises publishes. Readers never take it.
	mu    sync.Mutex
	cache ports.LookupCachePort
	clock func() time.Time
}

type Option func(*Resolver)

// WithLookupCache memoises resolved Resolve results. Entries are keyed by
// index generation and the cache is flushed on every publish. Unresolved
// results are never stored, so the entry count is bounded by the distinct
// spellings that actually match a process.
func WithLookupCache(cache ports.LookupCachePort) Option {
	return func(r *Resolver) {
		r.cache = cache
	}
}

func WithClock(clock func() time.Time) Option {
	return func(r *Resolver) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// NewResolver validates set and publishes it as the initial index.
func NewResolver(ctx context.Context, set types.DefinitionSet, opts ...Option) (*Resolver, error) {
	r := &Resolver{clock: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	if _, err := r.Publish(ctx, set); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Resolver) index() *resolutionIndex {
	return r.current.Load()
}

// Resolve maps a raw identifier to its canonical id and reports which
// strategy matched.
func (r *Resolver) Resolve(input string) types.Resolution {
	return r.resolveWith(r.index(), input)
}

func (r *Resolver) resolveWith(idx *resolutionIndex, input string) types.Resolution {
	if r.cache == nil {
		return idx.resolve(input)
	}
	key := idx.generation + "\x00" + input
	if cached, ok := r.cache.Get(key); ok {
		return cached
	}
	result := idx.resolve(input)
	if result.Resolved {
		r.cache.Set(key, result)
	}
	return result
}

// Normalize returns the canonical id for input, or false when no strategy
// matched.
func (r *Resolver) Normalize(input string) (string, bool) {
	result := r.Resolve(input)
	return result.CanonicalID, result.Resolved
}

// NormalizeAll resolves a batch against a single index snapshot.
func (r *Resolver) NormalizeAll(inputs []string) []types.Resolution {
	idx := r.index()
	results := make([]types.Resolution, 0, len(inputs))
	for _, input := range inputs {
		results = append(results, r.resolveWith(idx, input))
	}
	return results
}

func (r *Resolver) IsValid(input string) bool {
	_, ok := r.Normalize(input)
	return ok
}

// DisplayName returns the stored display name, or id itself when id is not
// a known canonical id.
func (r *Resolver) DisplayName(id string) string {
	record, ok := r.index().record(id)
	if !ok {
		return id
	}
	return record.DisplayName
}

// CategoryCode returns the category code of id, inherited from the nearest
// ancestor that defines one.
func (r *Resolver) CategoryCode(id string) (string, bool) {
	return r.index().categoryCode(id)
}

func (r *Resolver) Parent(id string) (string, bool) {
	record, ok := r.index().record(id)
	if !ok || record.Parent == "" {
		return "", false
	}
	return record.Parent, true
}

// Children returns the direct children of id in definition order.
func (r *Resolver) Children(id string) []string {
	return r.index().childrenOf(id)
}

// Ancestors returns the parent chain of id, nearest first, excluding id.
func (r *Resolver) Ancestors(id string) []string {
	return r.index().ancestors(id)
}

// AreRelated normalizes both inputs and reports whether they are the same
// process, in an ancestor relationship, or direct siblings. Unresolved input
// is never related to anything.
func (r *Resolver) AreRelated(a string, b string) bool {
	idx := r.index()
	first := r.resolveWith(idx, a)
	second := r.resolveWith(idx, b)
	if !first.Resolved || !second.Resolved {
		return false
	}
	return idx.related(first.CanonicalID, second.CanonicalID)
}

// AllCanonicalIDs returns every published id in definition order.
func (r *Resolver) AllCanonicalIDs() []string {
	return append([]string(nil), r.index().order...)
}

func (r *Resolver) GetRecord(id string) (types.ProcessRecord, bool) {
	record, ok := r.index().record(id)
	if !ok {
		return types.ProcessRecord{}, false
	}
	return record.Clone(), true
}

// List returns every record with its children, ancestors and effective
// category code, in definition order.
func (r *Resolver) List() []types.ProcessListing {
	idx := r.index()
	listing := make([]types.ProcessListing, 0, len(idx.order))
	for _, id := range idx.order {
		record, _ := idx.record(id)
		code, _ := idx.categoryCode(id)
		listing = append(listing, types.ProcessListing{
			ID:           id,
			Record:       record.Clone(),
			CategoryCode: code,
			Children:     idx.childrenOf(id),
			Ancestors:    idx.ancestors(id),
		})
	}
	return listing
}

func (r *Resolver) Len() int {
	return len(r.index().order)
}

// Version is the declared version of the published definition set.
func (r *Resolver) Version() string {
	return r.index().version
}

// Location is where the published definition set was loaded from.
func (r *Resolver) Location() string {
	return r.index().location
}

// Summary describes the publish that made the current index visible.
func (r *Resolver) Summary() types.ReloadSummary {
	summary := r.index().summary
	summary.Added = append([]string{}, summary.Added...)
	summary.Removed = append([]string{}, summary.Removed...)
	return summary
}

// Generation identifies the published index; it changes on every publish.
func (r *Resolver) Generation() string {
	return r.index().generation
}
