package ports

import "process-resolver/internal/types"

type DefinitionSourcePort interface {
	Load(location string) (types.DefinitionSet, error)
}
