package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"process-resolver/internal/app"
)

// openResolver builds the resolver every query command runs against, from
// the persistent --definitions/--strict/--no-cache/--cache-ttl settings.
func openResolver(cmd *cobra.Command, service app.Service) (app.OpenResult, error) {
	root := cmd.Root().PersistentFlags()
	definitions, _ := root.GetString("definitions")
	strict, _ := root.GetBool("strict")
	noCache, _ := root.GetBool("no-cache")
	cacheTTL, _ := root.GetDuration("cache-ttl")

	result, err := service.Open(cmd.Context(), app.OpenRequest{
		DefinitionsPath: resolveString(cmd, definitions, "definitions", "definitions"),
		Strict:          resolveBool(cmd, strict, "strict", "strict"),
		DisableCache:    resolveBool(cmd, noCache, "no_cache", "no-cache"),
		CacheTTL:        resolveDuration(cmd, cacheTTL, "cache_ttl", "cache-ttl"),
	})
	if err != nil {
		return app.OpenResult{}, err
	}
	log.Debug().
		Str("source", result.Outcome.Source).
		Bool("fallback", result.Outcome.Fallback).
		Str("version", result.Resolver.Version()).
		Int("processes", result.Resolver.Len()).
		Msg("process definitions ready")
	return result, nil
}
