package app

import (
	"time"

	"process-resolver/internal/core"
	"process-resolver/internal/types"
)

type OpenRequest struct {
	DefinitionsPath string
	// Strict turns load and validation failures into errors instead of
	// falling back to the built-in table.
	Strict       bool
	DisableCache bool
	CacheTTL     time.Duration
}

type OpenResult struct {
	Resolver *core.Resolver
	Outcome  types.LoadOutcome
	Summary  types.ReloadSummary
}

type ValidateRequest struct {
	DefinitionsPath string
}

type ValidateResult struct {
	Location   string
	Version    string
	Processes  int
	Violations []string
}

func (r ValidateResult) Valid() bool {
	return len(r.Violations) == 0
}

type ReloadRequest struct {
	DefinitionsPath string
}

type ReloadResult struct {
	Summary types.ReloadSummary
}

type DescribeRequest struct {
	Input string
}

type DescribeResult struct {
	Resolution   types.Resolution
	Record       types.ProcessRecord
	CategoryCode string
	Ancestors    []string
	Children     []string
}

type WatchRequest struct {
	DefinitionsPath string
	Debounce        time.Duration
	// OnReload is called after each successful reload.
	OnReload func(types.ReloadSummary)
	// OnError is called when a triggered reload fails; the previously
	// published definitions stay in effect.
	OnError func(error)
}
