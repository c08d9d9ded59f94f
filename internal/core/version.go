package core

import (
	"strings"

	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"

	"process-resolver/internal/types"
)

// compareDeclaredVersions classifies the move from previous to next.
// Versions are compared as PEP 440 first (covers "1.2", "2024.1",
// "1.0rc1"), then as Debian versions (covers "1.2-3", "2:1.0"). Anything
// neither scheme can parse is reported as unknown.
func compareDeclaredVersions(previous string, next string) types.VersionChange {
	previous = strings.TrimSpace(previous)
	next = strings.TrimSpace(next)
	if isUndeclared(previous) || isUndeclared(next) {
		return types.VersionChangeUnknown
	}
	if previous == next {
		return types.VersionChangeUnchanged
	}
	if result, ok := comparePEP440(previous, next); ok {
		return classifyComparison(result)
	}
	if result, ok := compareDebian(previous, next); ok {
		return classifyComparison(result)
	}
	return types.VersionChangeUnknown
}

func isUndeclared(version string) bool {
	return version == "" || version == types.UnknownVersion
}

func comparePEP440(a string, b string) (int, bool) {
	v1, err := pep440.Parse(a)
	if err != nil {
		return 0, false
	}
	v2, err := pep440.Parse(b)
	if err != nil {
		return 0, false
	}
	return v2.Compare(v1), true
}

func compareDebian(a string, b string) (int, bool) {
	v1, err := debversion.NewVersion(a)
	if err != nil {
		return 0, false
	}
	v2, err := debversion.NewVersion(b)
	if err != nil {
		return 0, false
	}
	return v2.Compare(v1), true
}

func classifyComparison(result int) types.VersionChange {
	switch {
	case result > 0:
		return types.VersionChangeUpgrade
	case result < 0:
		return types.VersionChangeDowngrade
	default:
		return types.VersionChangeUnchanged
	}
}
