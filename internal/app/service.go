package app

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"process-resolver/internal/adapters"
	"process-resolver/internal/ports"
)

type Service struct {
	Definitions ports.DefinitionSourcePort
	Builtin     ports.DefinitionSourcePort
	NewWatcher  func(path string, debounce time.Duration) (ports.DefinitionWatcherPort, error)
	NewCache    func(ttl time.Duration) ports.LookupCachePort
	Clock       func() time.Time

	// TracerProvider receives reload spans. Nil means the global provider.
	TracerProvider trace.TracerProvider
}

const tracerName = "process-resolver/app"

func (s Service) tracer() trace.Tracer {
	if s.TracerProvider != nil {
		return s.TracerProvider.Tracer(tracerName)
	}
	return otel.Tracer(tracerName)
}

func NewService() Service {
	return Service{
		Definitions: adapters.NewDefinitionFileAdapter(),
		Builtin:     adapters.NewBuiltinDefinitionsAdapter(),
		NewWatcher: func(path string, debounce time.Duration) (ports.DefinitionWatcherPort, error) {
			return adapters.NewDefinitionWatcherAdapter(path, debounce)
		},
		NewCache: func(ttl time.Duration) ports.LookupCachePort {
			return adapters.NewLookupCacheAdapter(ttl)
		},
		Clock: time.Now,
	}
}
