package app

import (
	"errors"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"process-resolver/internal/core"
)

// classify gives consistency rejections the FailedPrecondition code so
// callers can switch on errbuilder.CodeOf alone. The original error stays
// reachable through errors.As.
func classify(err error) error {
	var failed *core.ValidationFailedError
	if !errors.As(err, &failed) {
		return err
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(failed.Error()).
		WithCause(err)
}
