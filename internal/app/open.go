package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"process-resolver/internal/core"
	"process-resolver/internal/types"
)

// Open builds a resolver from the configured definitions file. Without a
// path, or when the file is absent, the built-in table is used. Any other
// failure also falls back to the built-in table unless req.Strict is set;
// the reason is logged and reported in the outcome.
func (s Service) Open(ctx context.Context, req OpenRequest) (OpenResult, error) {
	var opts []core.Option
	if !req.DisableCache && s.NewCache != nil {
		opts = append(opts, core.WithLookupCache(s.NewCache(req.CacheTTL)))
	}
	if s.Clock != nil {
		opts = append(opts, core.WithClock(s.Clock))
	}

	path := strings.TrimSpace(req.DefinitionsPath)
	if path != "" {
		result, err := s.openFrom(ctx, path, opts)
		if err == nil {
			return result, nil
		}
		if errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
			log.Ctx(ctx).Info().Str("path", path).Msg("process definitions file not found, using built-in table")
			return s.openBuiltin(ctx, opts, err.Error())
		}
		if req.Strict {
			return OpenResult{}, classify(err)
		}
		log.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("falling back to built-in process table")
		return s.openBuiltin(ctx, opts, err.Error())
	}
	return s.openBuiltin(ctx, opts, "")
}

func (s Service) openFrom(ctx context.Context, path string, opts []core.Option) (OpenResult, error) {
	set, err := s.Definitions.Load(path)
	if err != nil {
		return OpenResult{}, err
	}
	return s.publishInitial(ctx, set, path, "", opts)
}

func (s Service) openBuiltin(ctx context.Context, opts []core.Option, reason string) (OpenResult, error) {
	set, err := s.Builtin.Load("")
	if err != nil {
		return OpenResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("built-in process table failed to load").
			WithCause(err)
	}
	result, err := s.publishInitial(ctx, set, types.BuiltinLocation, reason, opts)
	if err != nil {
		return OpenResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("built-in process table is invalid").
			WithCause(err)
	}
	return result, nil
}

func (s Service) publishInitial(ctx context.Context, set types.DefinitionSet, source string, reason string, opts []core.Option) (OpenResult, error) {
	resolver, err := core.NewResolver(ctx, set, opts...)
	if err != nil {
		return OpenResult{}, err
	}
	return OpenResult{
		Resolver: resolver,
		Outcome: types.LoadOutcome{
			Set:      set,
			Source:   source,
			Fallback: reason != "",
			Reason:   reason,
		},
		Summary: resolver.Summary(),
	}, nil
}
