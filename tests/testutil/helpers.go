// Package testutil provides shared test helpers used across integration,
// e2e, and unit test packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// RepoRoot returns the absolute path to the repository root by walking
// up from the current working directory. It fails the test if the
// working directory cannot be determined.
func RepoRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(dir, "..", ".."))
}

// Fixture returns the absolute path of a file under fixtures/.
func Fixture(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(RepoRoot(t), "fixtures", name)
}

// CopyFixture copies a fixture into dir under the given name and returns
// the destination path.
func CopyFixture(t *testing.T, fixture string, dir string, name string) string {
	t.Helper()
	data, err := os.ReadFile(Fixture(t, fixture))
	require.NoError(t, err)
	dest := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(dest, data, 0o644))
	return dest
}
