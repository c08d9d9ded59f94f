package tracing

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	ExporterNone   = "none"
	ExporterFile   = "file"
	ExporterStdout = "stdout"

	DefaultServiceName = "process-resolver"
)

// Config selects where reload and resolution spans go.
type Config struct {
	// Exporter is one of "none", "file" or "stdout". "none" disables
	// tracing entirely.
	Exporter string `yaml:"exporter"`

	// FilePath is the JSONL output for the file exporter. Setting it with
	// no exporter selects the file exporter.
	FilePath string `yaml:"file_path"`

	// SampleRate is the fraction of traces kept. Zero or less means 1.0.
	SampleRate float64 `yaml:"sample_rate"`

	ServiceName string `yaml:"service_name"`
}

func DefaultConfig() Config {
	return Config{
		Exporter:    ExporterNone,
		SampleRate:  1.0,
		ServiceName: DefaultServiceName,
	}
}

// exporterName resolves the effective exporter, letting a bare file path
// turn the file exporter on.
func (c Config) exporterName() string {
	name := strings.ToLower(strings.TrimSpace(c.Exporter))
	if (name == "" || name == ExporterNone) && strings.TrimSpace(c.FilePath) != "" {
		return ExporterFile
	}
	if name == "" {
		return ExporterNone
	}
	return name
}

// Enabled reports whether cfg asks for an exporter.
func (c Config) Enabled() bool {
	return c.exporterName() != ExporterNone
}

// Provider owns the tracer provider installed for one process run.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	enabled  bool
}

// NewProvider builds the tracer provider described by cfg and installs it
// as the global provider. A disabled config returns a no-op provider and
// leaves the global provider alone.
func NewProvider(cfg Config) (*Provider, error) {
	if !cfg.Enabled() {
		return &Provider{tracer: noop.NewTracerProvider().Tracer("noop")}, nil
	}

	var exporter sdktrace.SpanExporter
	switch cfg.exporterName() {
	case ExporterFile:
		if strings.TrimSpace(cfg.FilePath) == "" {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("trace file path is required for the file exporter")
		}
		fileExporter, err := NewFileExporter(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		exporter = fileExporter
	case ExporterStdout:
		stdoutExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to create stdout trace exporter").
				WithCause(err)
		}
		exporter = stdoutExporter
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported trace exporter: " + cfg.Exporter)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = DefaultServiceName
	}
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate))),
		sdktrace.WithBatcher(exporter),
	)
	otel.SetTracerProvider(provider)

	return &Provider{
		provider: provider,
		tracer:   provider.Tracer(serviceName),
		enabled:  true,
	}, nil
}

func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

func (p *Provider) Enabled() bool {
	return p.enabled
}

// Shutdown flushes pending spans. It is safe on a nil or disabled provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
