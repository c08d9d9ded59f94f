package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"process-resolver/internal/core"
)

// Validate loads a definitions file and runs the consistency checks without
// publishing anything. Load and parse failures are returned as errors;
// consistency problems are returned as violations.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	path := strings.TrimSpace(req.DefinitionsPath)
	if path == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("definitions path is required")
	}
	set, err := s.Definitions.Load(path)
	if err != nil {
		return ValidateResult{}, err
	}
	violations := core.ValidateDefinitions(set.Records)
	log.Ctx(ctx).Debug().
		Str("path", path).
		Int("processes", len(set.Records)).
		Int("violations", len(violations)).
		Msg("process definitions validated")
	return ValidateResult{
		Location:   set.Location,
		Version:    set.DeclaredVersion(),
		Processes:  len(set.Records),
		Violations: violations,
	}, nil
}
