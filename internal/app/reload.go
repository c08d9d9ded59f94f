package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"process-resolver/internal/core"
)

// Reload replaces the definitions published by resolver with the contents
// of req.DefinitionsPath. On any failure the previous definitions stay
// published.
func (s Service) Reload(ctx context.Context, resolver *core.Resolver, req ReloadRequest) (ReloadResult, error) {
	ctx, span := s.tracer().Start(ctx, "definitions.reload")
	defer span.End()

	path := strings.TrimSpace(req.DefinitionsPath)
	span.SetAttributes(attribute.String("definitions.path", path))
	if resolver == nil {
		err := errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("reload requires an open resolver")
		span.SetStatus(codes.Error, err.Error())
		return ReloadResult{}, err
	}
	if path == "" {
		err := errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("definitions path is required")
		span.SetStatus(codes.Error, err.Error())
		return ReloadResult{}, err
	}

	summary, err := resolver.Reload(ctx, s.Definitions, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reload rejected")
		return ReloadResult{}, classify(err)
	}
	span.SetAttributes(
		attribute.String("definitions.version", summary.DeclaredVersion),
		attribute.String("definitions.generation", summary.Generation),
		attribute.Int("definitions.total", summary.Total),
		attribute.Int("definitions.added", len(summary.Added)),
		attribute.Int("definitions.removed", len(summary.Removed)),
	)
	return ReloadResult{Summary: summary}, nil
}
