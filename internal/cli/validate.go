package cli

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"

	"process-resolver/internal/app"
)

type validateOptions struct {
	File string
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a definitions file without publishing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.File, "file", "", "Definitions file to check (defaults to --definitions)")
	return cmd
}

func runValidate(cmd *cobra.Command, opts validateOptions) error {
	path := opts.File
	if path == "" {
		definitions, _ := cmd.Root().PersistentFlags().GetString("definitions")
		path = resolveString(cmd, definitions, "definitions", "definitions")
	}
	result, err := newAppService().Validate(cmd.Context(), app.ValidateRequest{DefinitionsPath: path})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if result.Valid() {
		fmt.Fprintf(out, "%s: ok (%d processes, version %s)\n", result.Location, result.Processes, result.Version)
		return nil
	}
	for _, violation := range result.Violations {
		fmt.Fprintf(out, "%s: %s\n", result.Location, violation)
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("%s has %d violation(s)", result.Location, len(result.Violations)))
}
