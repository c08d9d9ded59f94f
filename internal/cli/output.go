package cli

import (
	"io"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case formatText, formatYAML:
		return nil
	default:
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported output format: " + format)
	}
}

func writeYAML(w io.Writer, value any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(value); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode output").
			WithCause(err)
	}
	return encoder.Close()
}
