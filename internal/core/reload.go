package core

import (
	"context"

	"github.com/rs/zerolog/log"

	"process-resolver/internal/ports"
	"process-resolver/internal/types"
)

// Reload loads a definition set from source and publishes it. Load and
// validation failures are returned unchanged and leave the published index
// in place.
func (r *Resolver) Reload(ctx context.Context, source ports.DefinitionSourcePort, location string) (types.ReloadSummary, error) {
	set, err := source.Load(location)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("location", location).Msg("process definitions not reloaded")
		return types.ReloadSummary{}, err
	}
	return r.Publish(ctx, set)
}

// Publish validates set, builds its index without holding any lock, and
// swaps it in. The lock covers only the diff against the current index and
// the swap itself.
func (r *Resolver) Publish(ctx context.Context, set types.DefinitionSet) (types.ReloadSummary, error) {
	if violations := ValidateDefinitions(set.Records); len(violations) > 0 {
		err := newValidationFailedError(set.Location, violations)
		log.Ctx(ctx).Warn().
			Str("location", set.Location).
			Int("violations", err.Total).
			Strs("first", err.Messages).
			Msg("process definitions rejected")
		return types.ReloadSummary{}, err
	}

	next := buildIndex(ctx, set)

	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.current.Load()
	summary := summarizePublish(previous, next)
	summary.PublishedAt = r.clock()
	next.summary = summary
	r.current.Store(next)
	if r.cache != nil {
		r.cache.Flush()
	}

	log.Ctx(ctx).Info().
		Str("location", summary.SourceLocation).
		Str("version", summary.DeclaredVersion).
		Str("version_change", string(summary.VersionChange)).
		Int("total", summary.Total).
		Int("added", len(summary.Added)).
		Int("removed", len(summary.Removed)).
		Str("generation", summary.Generation).
		Msg("process definitions published")
	return summary, nil
}

// summarizePublish computes the canonical-id difference between the
// previous index (nil on first publish) and next.
func summarizePublish(previous *resolutionIndex, next *resolutionIndex) types.ReloadSummary {
	summary := types.ReloadSummary{
		Added:           []string{},
		Removed:         []string{},
		Total:           len(next.order),
		SourceLocation:  next.location,
		DeclaredVersion: next.version,
		PreviousVersion: types.UnknownVersion,
		VersionChange:   types.VersionChangeUnknown,
		Generation:      next.generation,
	}
	if previous == nil {
		summary.Added = append(summary.Added, next.order...)
		return summary
	}
	summary.PreviousVersion = previous.version
	summary.VersionChange = compareDeclaredVersions(previous.version, next.version)
	for _, id := range next.order {
		if _, ok := previous.records[id]; !ok {
			summary.Added = append(summary.Added, id)
		}
	}
	for _, id := range previous.order {
		if _, ok := next.records[id]; !ok {
			summary.Removed = append(summary.Removed, id)
		}
	}
	return summary
}
