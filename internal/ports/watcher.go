package ports

type DefinitionWatcherPort interface {
	Start() (<-chan struct{}, error)
	Stop() error
}
