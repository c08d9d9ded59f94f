package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"process-resolver/internal/types"
)

func TestResolverNormalizeBuiltin(t *testing.T) {
	resolver := newBuiltinResolver(t)
	tests := []struct {
		input    string
		expected string
		strategy types.ResolutionStrategy
	}{
		{input: "3d_printing_fdm", expected: "3d_printing_fdm", strategy: types.StrategyExact},
		{input: "3DP", expected: "3d_printing", strategy: types.StrategyAlias},
		{input: "CNC", expected: "cnc_machining", strategy: types.StrategyCategoryCode},
		{input: " cnc ", expected: "cnc_machining", strategy: types.StrategyCategoryCode},
		{input: "https://en.wikipedia.org/wiki/Laser_cutting", expected: "laser_cutting", strategy: types.StrategyReferenceURI},
		{input: "https://en.wikipedia.org/wiki/Milling_(machining)", expected: "cnc_milling", strategy: types.StrategyReferenceURI},
		{input: "\u212a/wiki/Laser_cutting", expected: "laser_cutting", strategy: types.StrategyReferenceURI},
		{input: "Additive Manufacturing", expected: "3d_printing", strategy: types.StrategyAlias},
		{input: "Wire-Cut_EDM", expected: "wire_edm", strategy: types.StrategyAlias},
		{input: "CNC_Milling", expected: "cnc_milling", strategy: types.StrategyAlias},
		{input: "lathe work", expected: "cnc_turning", strategy: types.StrategySubstring},
		{input: "stereo", expected: "3d_printing_sla", strategy: types.StrategySubstring},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := resolver.Resolve(tt.input)
			assert.True(t, got.Resolved)
			assert.Equal(t, tt.expected, got.CanonicalID)
			assert.Equal(t, tt.strategy, got.Strategy)

			id, ok := resolver.Normalize(tt.input)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, id)
		})
	}
}

func TestResolverUnresolvedInput(t *testing.T) {
	resolver := newBuiltinResolver(t)
	for _, input := range []string{
		"unknown_process_xyz",
		"",
		"   ",
		"__",
		"lcx",
		"https://en.wikipedia.org/wiki/",
		"ȺȺȺȺȺȺȺ/wiki/",
	} {
		t.Run(input, func(t *testing.T) {
			var got types.Resolution
			require.NotPanics(t, func() { got = resolver.Resolve(input) })
			assert.False(t, got.Resolved)
			assert.Empty(t, got.CanonicalID)
			assert.Equal(t, types.StrategyNone, got.Strategy)
			assert.False(t, resolver.IsValid(input))
		})
	}
}

func TestResolverStrategyPrecedence(t *testing.T) {
	set := types.DefinitionSet{
		Version: "1",
		Records: []types.ProcessRecord{
			proc("alpha", "Alpha", "", "delta"),
			withCode(proc("beta", "Beta", ""), "BT"),
			proc("gamma", "Gamma", "", "alpha beta gamma", "Reference"),
		},
	}
	resolver, err := NewResolver(context.Background(), set)
	require.NoError(t, err)

	got := resolver.Resolve("beta")
	assert.Equal(t, "beta", got.CanonicalID)
	assert.Equal(t, types.StrategyExact, got.Strategy)

	got = resolver.Resolve("bt")
	assert.Equal(t, "beta", got.CanonicalID)
	assert.Equal(t, types.StrategyCategoryCode, got.Strategy)

	// The reference slug is looked up before the raw input is.
	got = resolver.Resolve("https://example.org/wiki/Reference")
	assert.Equal(t, "gamma", got.CanonicalID)
	assert.Equal(t, types.StrategyReferenceURI, got.Strategy)

	// Substring matching returns the first registered key, not the longest.
	got = resolver.Resolve("alpha beta gamma delta")
	assert.Equal(t, "alpha", got.CanonicalID)
	assert.Equal(t, types.StrategySubstring, got.Strategy)
}

func TestResolverSubstringSkipsShortKeys(t *testing.T) {
	set := types.DefinitionSet{Records: []types.ProcessRecord{
		proc("ab", "AB", ""),
		proc("milling", "Milling", ""),
	}}
	resolver, err := NewResolver(context.Background(), set)
	require.NoError(t, err)

	_, ok := resolver.Normalize("abc")
	assert.False(t, ok)

	id, ok := resolver.Normalize("xmillingx")
	assert.True(t, ok)
	assert.Equal(t, "milling", id)
}

func TestResolverHierarchy(t *testing.T) {
	resolver := newBuiltinResolver(t)

	parent, ok := resolver.Parent("3d_printing_fdm")
	assert.True(t, ok)
	assert.Equal(t, "3d_printing", parent)

	_, ok = resolver.Parent("3d_printing")
	assert.False(t, ok)
	_, ok = resolver.Parent("no_such_process")
	assert.False(t, ok)

	if diff := cmp.Diff([]string{"3d_printing"}, resolver.Ancestors("3d_printing_fdm")); diff != "" {
		t.Fatalf("ancestors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"cnc_milling", "cnc_machining"}, resolver.Ancestors("cnc_5_axis_milling")); diff != "" {
		t.Fatalf("ancestors mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, resolver.Ancestors("cnc_machining"))
	assert.Empty(t, resolver.Ancestors("no_such_process"))

	expectedChildren := []string{
		"3d_printing_fdm",
		"3d_printing_sla",
		"3d_printing_sls",
		"3d_printing_mjf",
		"3d_printing_dmls",
	}
	if diff := cmp.Diff(expectedChildren, resolver.Children("3d_printing")); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, resolver.Children("3d_printing_fdm"))
}

func TestResolverChildrenAreCopies(t *testing.T) {
	resolver := newBuiltinResolver(t)
	children := resolver.Children("cnc_machining")
	require.NotEmpty(t, children)
	children[0] = "mutated"
	assert.Equal(t, "cnc_milling", resolver.Children("cnc_machining")[0])

	record, ok := resolver.GetRecord("3d_printing")
	require.True(t, ok)
	record.Aliases[0] = "mutated"
	again, _ := resolver.GetRecord("3d_printing")
	assert.Equal(t, "3DP", again.Aliases[0])
}

func TestResolverCategoryCodeInheritance(t *testing.T) {
	resolver := newBuiltinResolver(t)
	tests := []struct {
		id       string
		expected string
		ok       bool
	}{
		{id: "cnc_machining", expected: "CNC", ok: true},
		{id: "cnc_milling", expected: "CNC", ok: true},
		{id: "cnc_5_axis_milling", expected: "CNC", ok: true},
		{id: "wire_edm", expected: "EDM", ok: true},
		{id: "no_such_process", expected: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			code, ok := resolver.CategoryCode(tt.id)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, code)
		})
	}

	rootless, err := NewResolver(context.Background(), types.DefinitionSet{Records: []types.ProcessRecord{
		proc("gluing", "Gluing", ""),
	}})
	require.NoError(t, err)
	_, ok := rootless.CategoryCode("gluing")
	assert.False(t, ok)
}

func TestResolverDisplayName(t *testing.T) {
	resolver := newBuiltinResolver(t)
	assert.Equal(t, "FDM 3D Printing", resolver.DisplayName("3d_printing_fdm"))
	assert.Equal(t, "not_a_process", resolver.DisplayName("not_a_process"))
}

func TestResolverAreRelated(t *testing.T) {
	resolver := newBuiltinResolver(t)
	tests := []struct {
		name     string
		a        string
		b        string
		expected bool
	}{
		{name: "same id", a: "welding", b: "welding", expected: true},
		{name: "same process via aliases", a: "TIG", b: "GTAW", expected: true},
		{name: "parent and child", a: "cnc_machining", b: "cnc_milling", expected: true},
		{name: "child and parent", a: "cnc_milling", b: "cnc_machining", expected: true},
		{name: "grandchild and grandparent", a: "cnc_5_axis_milling", b: "CNC", expected: true},
		{name: "siblings", a: "cnc_milling", b: "cnc_turning", expected: true},
		{name: "shared grandparent only", a: "cnc_5_axis_milling", b: "cnc_turning", expected: false},
		{name: "different roots", a: "welding", b: "casting", expected: false},
		{name: "two unrelated roots", a: "forging", b: "extrusion", expected: false},
		{name: "unresolved input", a: "unknown_process_xyz", b: "welding", expected: false},
		{name: "both unresolved", a: "unknown_process_xyz", b: "unknown_process_xyz", expected: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolver.AreRelated(tt.a, tt.b))
			assert.Equal(t, tt.expected, resolver.AreRelated(tt.b, tt.a))
		})
	}
}

func TestResolverListingFollowsDefinitionOrder(t *testing.T) {
	set := builtinSet(t)
	resolver := newBuiltinResolver(t)

	ids := resolver.AllCanonicalIDs()
	require.Len(t, ids, len(set.Records))
	for i, record := range set.Records {
		assert.Equal(t, record.CanonicalID, ids[i])
	}
	assert.Equal(t, len(set.Records), resolver.Len())

	listing := resolver.List()
	require.Len(t, listing, len(set.Records))
	var milling types.ProcessListing
	for _, entry := range listing {
		if entry.ID == "cnc_milling" {
			milling = entry
		}
	}
	assert.Equal(t, "CNC", milling.CategoryCode)
	assert.Empty(t, milling.Record.CategoryCode)
	assert.Equal(t, []string{"cnc_machining"}, milling.Ancestors)
	assert.Equal(t, []string{"cnc_5_axis_milling"}, milling.Children)
}

func TestResolverMetadata(t *testing.T) {
	resolver := newBuiltinResolver(t)
	assert.Equal(t, "2024.1", resolver.Version())
	assert.Equal(t, types.BuiltinLocation, resolver.Location())
	assert.NotEmpty(t, resolver.Generation())

	summary := resolver.Summary()
	assert.Equal(t, resolver.Len(), summary.Total)
	assert.Len(t, summary.Added, resolver.Len())
	assert.Empty(t, summary.Removed)
	assert.Equal(t, types.VersionChangeUnknown, summary.VersionChange)
	assert.Equal(t, types.UnknownVersion, summary.PreviousVersion)
}

func TestResolverUndeclaredVersion(t *testing.T) {
	resolver, err := NewResolver(context.Background(), types.DefinitionSet{Records: []types.ProcessRecord{
		proc("gluing", "Gluing", ""),
	}})
	require.NoError(t, err)
	assert.Equal(t, types.UnknownVersion, resolver.Version())
	assert.Equal(t, types.UnknownVersion, resolver.Summary().DeclaredVersion)
}

func TestNewResolverRejectsInvalidSet(t *testing.T) {
	_, err := NewResolver(context.Background(), types.DefinitionSet{
		Location: "broken.yaml",
		Records: []types.ProcessRecord{
			proc("a", "A", "b"),
			proc("b", "B", "a"),
		},
	})
	require.Error(t, err)
	assert.True(t, IsValidationFailed(err))
}

func TestNormalizeAllUsesOneSnapshot(t *testing.T) {
	resolver := newBuiltinResolver(t)
	results := resolver.NormalizeAll([]string{"3DP", "unknown_process_xyz", "CNC"})
	expected := []types.Resolution{
		{Input: "3DP", CanonicalID: "3d_printing", Resolved: true, Strategy: types.StrategyAlias},
		{Input: "unknown_process_xyz"},
		{Input: "CNC", CanonicalID: "cnc_machining", Resolved: true, Strategy: types.StrategyCategoryCode},
	}
	if diff := cmp.Diff(expected, results); diff != "" {
		t.Fatalf("resolutions mismatch (-want +got):\n%s", diff)
	}
}

func TestResolverLookupCache(t *testing.T) {
	cache := newMemoryCache()
	resolver := newBuiltinResolver(t, WithLookupCache(cache))

	first := resolver.Resolve("3DP")
	second := resolver.Resolve("3DP")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, 1, cache.flushes)
}

func TestResolverLookupCacheSkipsUnresolved(t *testing.T) {
	cache := newMemoryCache()
	resolver := newBuiltinResolver(t, WithLookupCache(cache))

	for i := range 50 {
		got := resolver.Resolve(fmt.Sprintf("unknown_process_%03d", i))
		require.False(t, got.Resolved)
	}
	assert.Empty(t, cache.entries)

	require.True(t, resolver.Resolve("3DP").Resolved)
	assert.Len(t, cache.entries, 1)
	assert.Equal(t, 0, cache.hits)
}
