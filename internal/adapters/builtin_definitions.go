package adapters

import (
	_ "embed"

	"process-resolver/internal/ports"
	"process-resolver/internal/types"
)

//go:embed builtin_processes.yaml
var builtinProcesses []byte

// BuiltinDefinitionsAdapter serves the process table compiled into the
// binary. The location argument is ignored.
type BuiltinDefinitionsAdapter struct{}

func NewBuiltinDefinitionsAdapter() BuiltinDefinitionsAdapter {
	return BuiltinDefinitionsAdapter{}
}

func (a BuiltinDefinitionsAdapter) Load(_ string) (types.DefinitionSet, error) {
	return ParseDefinitions(builtinProcesses, types.BuiltinLocation)
}

var _ ports.DefinitionSourcePort = BuiltinDefinitionsAdapter{}
