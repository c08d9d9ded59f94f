package core

import (
	"context"
	"strings"
	"unicode/utf8"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"process-resolver/internal/types"
)

// minSubstringAliasLength keeps short tokens such as "ss" or "3d" out of the
// substring fallback.
const minSubstringAliasLength = 3

// resolutionIndex is the immutable lookup structure published by a
// Resolver. It is built once from a validated definition set and replaced
// wholesale on reload.
type resolutionIndex struct {
	generation string
	version    string
	location   string
	order      []string
	records    map[string]types.ProcessRecord
	aliases    *orderedMap[string, string]
	codes      map[string]string
	children   map[string][]string
	// summary is filled in by Publish before the index becomes visible.
	summary types.ReloadSummary
}

// buildIndex derives the lookup maps from a set that already passed
// ValidateDefinitions. Registration is first-write-wins in record order:
// own id, then aliases, then category code.
func buildIndex(ctx context.Context, set types.DefinitionSet) *resolutionIndex {
	idx := &resolutionIndex{
		generation: uuid.NewString(),
		version:    set.DeclaredVersion(),
		location:   set.Location,
		order:      make([]string, 0, len(set.Records)),
		records:    make(map[string]types.ProcessRecord, len(set.Records)),
		aliases:    newOrderedMap[string, string](len(set.Records) * 4),
		codes:      make(map[string]string, len(set.Records)),
		children:   make(map[string][]string),
	}

	skipped := 0
	for _, record := range set.Records {
		assert.NotEmpty(ctx, record.CanonicalID, "canonical_id must be set")
		assert.NotEmpty(ctx, strings.TrimSpace(record.DisplayName), "display_name must be set")

		idx.order = append(idx.order, record.CanonicalID)
		idx.records[record.CanonicalID] = record.Clone()

		for _, key := range registrationKeys(record) {
			normalized := NormalizeKey(key)
			if normalized == "" {
				continue
			}
			if !idx.aliases.setIfAbsent(normalized, record.CanonicalID) {
				skipped++
			}
		}
		if code := normalizeCode(record.CategoryCode); code != "" {
			if _, exists := idx.codes[code]; !exists {
				idx.codes[code] = record.CanonicalID
			}
		}
	}

	for _, record := range set.Records {
		if record.Parent == "" {
			continue
		}
		idx.children[record.Parent] = append(idx.children[record.Parent], record.CanonicalID)
	}

	log.Ctx(ctx).Debug().
		Str("generation", idx.generation).
		Int("records", len(idx.order)).
		Int("aliases", idx.aliases.len()).
		Int("codes", len(idx.codes)).
		Int("synonyms_skipped", skipped).
		Msg("resolution index built")
	return idx
}

// resolve runs the strategy chain; the first strategy with a hit wins.
func (idx *resolutionIndex) resolve(input string) types.Resolution {
	result := types.Resolution{Input: input}

	if _, ok := idx.records[input]; ok {
		return resolved(result, input, types.StrategyExact)
	}

	if slug, ok := referenceSlug(input); ok {
		if id, found := idx.aliases.get(NormalizeKey(slug)); found {
			return resolved(result, id, types.StrategyReferenceURI)
		}
	}

	if code := normalizeCode(input); code != "" {
		if id, found := idx.codes[code]; found {
			return resolved(result, id, types.StrategyCategoryCode)
		}
	}

	key := NormalizeKey(input)
	if key == "" {
		return result
	}
	if id, found := idx.aliases.get(key); found {
		return resolved(result, id, types.StrategyAlias)
	}

	// Heuristic: the first alias in registration order wins, not the longest
	// or most specific one.
	for alias, owner := range idx.aliases.all() {
		if utf8.RuneCountInString(alias) < minSubstringAliasLength {
			continue
		}
		if strings.Contains(key, alias) || strings.Contains(alias, key) {
			return resolved(result, owner, types.StrategySubstring)
		}
	}
	return result
}

func resolved(result types.Resolution, id string, strategy types.ResolutionStrategy) types.Resolution {
	result.CanonicalID = id
	result.Resolved = true
	result.Strategy = strategy
	return result
}

func (idx *resolutionIndex) record(id string) (types.ProcessRecord, bool) {
	record, ok := idx.records[id]
	return record, ok
}

// ancestors returns the parent chain of id, nearest first. The walk is
// bounded by the record count.
func (idx *resolutionIndex) ancestors(id string) []string {
	var chain []string
	current, ok := idx.records[id]
	for ok && current.Parent != "" && len(chain) < len(idx.order) {
		chain = append(chain, current.Parent)
		current, ok = idx.records[current.Parent]
	}
	return chain
}

// categoryCode returns the first non-empty code on the chain self, parent,
// grandparent, and so on.
func (idx *resolutionIndex) categoryCode(id string) (string, bool) {
	record, ok := idx.records[id]
	if !ok {
		return "", false
	}
	if code := strings.TrimSpace(record.CategoryCode); code != "" {
		return code, true
	}
	for _, ancestor := range idx.ancestors(id) {
		if code := strings.TrimSpace(idx.records[ancestor].CategoryCode); code != "" {
			return code, true
		}
	}
	return "", false
}

func (idx *resolutionIndex) childrenOf(id string) []string {
	return append([]string(nil), idx.children[id]...)
}

// related implements the hierarchy policy on resolved ids: same id, one an
// ancestor of the other, or siblings under the same direct parent. A shared
// grandparent alone does not make two processes related.
func (idx *resolutionIndex) related(a, b string) bool {
	if a == b {
		return true
	}
	for _, ancestor := range idx.ancestors(a) {
		if ancestor == b {
			return true
		}
	}
	for _, ancestor := range idx.ancestors(b) {
		if ancestor == a {
			return true
		}
	}
	recordA, okA := idx.records[a]
	recordB, okB := idx.records[b]
	return okA && okB && recordA.Parent != "" && recordA.Parent == recordB.Parent
}
