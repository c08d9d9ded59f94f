package types

import "time"

// ResolutionStrategy names the step of the lookup chain that produced a
// match.
type ResolutionStrategy string

const (
	StrategyNone         ResolutionStrategy = ""
	StrategyExact        ResolutionStrategy = "exact"
	StrategyReferenceURI ResolutionStrategy = "reference_uri"
	StrategyCategoryCode ResolutionStrategy = "category_code"
	StrategyAlias        ResolutionStrategy = "alias"
	StrategySubstring    ResolutionStrategy = "substring"
)

// Resolution is the outcome of resolving one raw identifier. An unresolved
// input is a normal result, not an error.
type Resolution struct {
	Input       string             `yaml:"input"`
	CanonicalID string             `yaml:"canonical_id,omitempty"`
	Resolved    bool               `yaml:"resolved"`
	Strategy    ResolutionStrategy `yaml:"strategy,omitempty"`
}

// VersionChange classifies how the declared version moved across a reload.
type VersionChange string

const (
	VersionChangeUpgrade   VersionChange = "upgrade"
	VersionChangeDowngrade VersionChange = "downgrade"
	VersionChangeUnchanged VersionChange = "unchanged"
	VersionChangeUnknown   VersionChange = "unknown"
)

// ReloadSummary describes a successful publish of a new definition set.
type ReloadSummary struct {
	Added           []string      `yaml:"added"`
	Removed         []string      `yaml:"removed"`
	Total           int           `yaml:"total"`
	SourceLocation  string        `yaml:"source_location"`
	DeclaredVersion string        `yaml:"declared_version"`
	PreviousVersion string        `yaml:"previous_version"`
	VersionChange   VersionChange `yaml:"version_change"`
	Generation      string        `yaml:"generation"`
	PublishedAt     time.Time     `yaml:"published_at"`
}

// LoadOutcome is the tagged result of loading definitions at startup. When
// Fallback is set the built-in table was used and Reason explains why.
type LoadOutcome struct {
	Set      DefinitionSet
	Source   string
	Fallback bool
	Reason   string
}
