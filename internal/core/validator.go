package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"process-resolver/internal/types"
)

// maxReportedViolations caps the messages carried by ValidationFailedError.
const maxReportedViolations = 5

var canonicalIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_]*$`)

// ValidationFailedError is returned when a candidate definition set breaks
// one or more consistency rules. Messages holds at most the first five
// violations; Total counts all of them.
type ValidationFailedError struct {
	Location string
	Messages []string
	Total    int
}

func newValidationFailedError(location string, violations []string) *ValidationFailedError {
	shown := violations
	if len(shown) > maxReportedViolations {
		shown = shown[:maxReportedViolations]
	}
	return &ValidationFailedError{
		Location: location,
		Messages: append([]string(nil), shown...),
		Total:    len(violations),
	}
}

func (e *ValidationFailedError) Error() string {
	location := e.Location
	if location == "" {
		location = "definition set"
	}
	msg := fmt.Sprintf("%s failed validation with %d violation(s): %s",
		location, e.Total, strings.Join(e.Messages, "; "))
	if hidden := e.Total - len(e.Messages); hidden > 0 {
		msg += fmt.Sprintf("; and %d more", hidden)
	}
	return msg
}

// IsValidationFailed reports whether err carries a ValidationFailedError.
func IsValidationFailed(err error) bool {
	var target *ValidationFailedError
	return errors.As(err, &target)
}

// ValidateDefinitions checks a candidate record sequence and returns every
// violation found, in check order. An empty result means the set may be
// published.
func ValidateDefinitions(records []types.ProcessRecord) []string {
	var violations []string

	byID := make(map[string]types.ProcessRecord, len(records))
	for _, record := range records {
		if _, exists := byID[record.CanonicalID]; exists {
			violations = append(violations, fmt.Sprintf("duplicate canonical_id %q", record.CanonicalID))
			continue
		}
		byID[record.CanonicalID] = record
	}

	for _, record := range records {
		if !canonicalIDPattern.MatchString(record.CanonicalID) {
			violations = append(violations, fmt.Sprintf(
				"canonical_id %q must be lowercase snake_case (%s)", record.CanonicalID, canonicalIDPattern.String()))
		}
	}

	for _, record := range records {
		if strings.TrimSpace(record.DisplayName) == "" {
			violations = append(violations, fmt.Sprintf("process %q has an empty display_name", record.CanonicalID))
		}
	}

	for _, record := range records {
		if record.Parent == "" {
			continue
		}
		if _, ok := byID[record.Parent]; !ok {
			violations = append(violations, fmt.Sprintf(
				"process %q references unknown parent %q", record.CanonicalID, record.Parent))
		}
	}

	violations = append(violations, detectParentCycles(records, byID)...)
	violations = append(violations, detectAliasCollisions(records)...)
	return violations
}

// detectParentCycles walks each record's parent chain. A walk stops at a
// root, at an unknown parent, or when it revisits an id, so it terminates on
// any input. Each cycle is reported once.
func detectParentCycles(records []types.ProcessRecord, byID map[string]types.ProcessRecord) []string {
	var violations []string
	reported := map[string]struct{}{}
	for _, record := range records {
		visited := map[string]int{}
		var path []string
		current := record.CanonicalID
		for {
			if at, seen := visited[current]; seen {
				cycle := path[at:]
				if _, done := reported[cycle[0]]; !done {
					for _, id := range cycle {
						reported[id] = struct{}{}
					}
					violations = append(violations, fmt.Sprintf(
						"parent cycle detected: %s -> %s", strings.Join(cycle, " -> "), cycle[0]))
				}
				break
			}
			node, ok := byID[current]
			if !ok || node.Parent == "" {
				break
			}
			visited[current] = len(path)
			path = append(path, current)
			current = node.Parent
		}
	}
	return violations
}

// detectAliasCollisions registers keys in index order (own id, aliases,
// category code) and reports keys that normalize onto a different owner.
func detectAliasCollisions(records []types.ProcessRecord) []string {
	var violations []string
	owners := map[string]string{}
	reported := map[string]struct{}{}
	for _, record := range records {
		for _, key := range registrationKeys(record) {
			normalized := NormalizeKey(key)
			if normalized == "" {
				continue
			}
			owner, exists := owners[normalized]
			if !exists {
				owners[normalized] = record.CanonicalID
				continue
			}
			if owner == record.CanonicalID {
				continue
			}
			pair := normalized + "\x00" + owner + "\x00" + record.CanonicalID
			if _, done := reported[pair]; done {
				continue
			}
			reported[pair] = struct{}{}
			violations = append(violations, fmt.Sprintf(
				"alias collision: %q (normalized %q) is claimed by both %q and %q",
				key, normalized, owner, record.CanonicalID))
		}
	}
	return violations
}

// registrationKeys lists the strings a record registers, in registration
// order.
func registrationKeys(record types.ProcessRecord) []string {
	keys := make([]string, 0, len(record.Aliases)+2)
	keys = append(keys, record.CanonicalID)
	keys = append(keys, record.Aliases...)
	if strings.TrimSpace(record.CategoryCode) != "" {
		keys = append(keys, record.CategoryCode)
	}
	return keys
}
