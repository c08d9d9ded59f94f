package app

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"process-resolver/internal/core"
	"process-resolver/internal/types"
)

func TestReloadApp(t *testing.T) {
	service := NewService()
	opened, err := service.Open(t.Context(), OpenRequest{DefinitionsPath: fixturePath(t, "processes.yaml")})
	require.NoError(t, err)

	v2 := fixturePath(t, "processes-v2.yaml")
	result, err := service.Reload(t.Context(), opened.Resolver, ReloadRequest{DefinitionsPath: v2})
	require.NoError(t, err)

	summary := result.Summary
	assert.Equal(t, []string{"3d_printing_sla", "waterjet_cutting"}, summary.Added)
	assert.Equal(t, []string{"cnc_turning"}, summary.Removed)
	assert.Equal(t, 7, summary.Total)
	assert.Equal(t, v2, summary.SourceLocation)
	assert.Equal(t, "1.1", summary.DeclaredVersion)
	assert.Equal(t, "1.0", summary.PreviousVersion)
	assert.Equal(t, types.VersionChangeUpgrade, summary.VersionChange)

	id, ok := opened.Resolver.Normalize("water jet")
	assert.True(t, ok)
	assert.Equal(t, "waterjet_cutting", id)
	assert.False(t, opened.Resolver.IsValid("cnc_turning"))
}

func TestReloadAppRejectsInvalidDefinitions(t *testing.T) {
	service := NewService()
	opened, err := service.Open(t.Context(), OpenRequest{DefinitionsPath: fixturePath(t, "processes.yaml")})
	require.NoError(t, err)
	generation := opened.Resolver.Generation()

	_, err = service.Reload(t.Context(), opened.Resolver, ReloadRequest{
		DefinitionsPath: fixturePath(t, "processes-invalid.yaml"),
	})
	require.Error(t, err)
	assert.True(t, core.IsValidationFailed(err))
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.Equal(t, generation, opened.Resolver.Generation())
	assert.True(t, opened.Resolver.IsValid("cnc_turning"))
}

func TestReloadAppPreconditions(t *testing.T) {
	service := NewService()
	_, err := service.Reload(t.Context(), nil, ReloadRequest{DefinitionsPath: "x.yaml"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))

	opened, err := service.Open(t.Context(), OpenRequest{})
	require.NoError(t, err)
	_, err = service.Reload(t.Context(), opened.Resolver, ReloadRequest{DefinitionsPath: " "})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestReloadAppMissingFileKeepsDefinitions(t *testing.T) {
	service := NewService()
	opened, err := service.Open(t.Context(), OpenRequest{DefinitionsPath: fixturePath(t, "processes.yaml")})
	require.NoError(t, err)

	_, err = service.Reload(t.Context(), opened.Resolver, ReloadRequest{DefinitionsPath: fixturePath(t, "absent.yaml")})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Equal(t, 6, opened.Resolver.Len())
}
