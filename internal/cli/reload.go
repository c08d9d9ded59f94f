package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"

	"process-resolver/internal/app"
	"process-resolver/internal/types"
)

type reloadOptions struct {
	From   string
	Format string
}

func newReloadCommand() *cobra.Command {
	opts := reloadOptions{}
	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Open the current definitions, reload from another file and report the difference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReload(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.From, "from", "", "Definitions file to reload from")
	cmd.Flags().StringVar(&opts.Format, "format", formatText, "Output format (text, yaml)")
	return cmd
}

func runReload(cmd *cobra.Command, opts reloadOptions) error {
	if err := checkFormat(opts.Format); err != nil {
		return err
	}
	if strings.TrimSpace(opts.From) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("--from is required")
	}
	service := newAppService()
	opened, err := openResolver(cmd, service)
	if err != nil {
		return err
	}
	result, err := service.Reload(cmd.Context(), opened.Resolver, app.ReloadRequest{DefinitionsPath: opts.From})
	if err != nil {
		return err
	}
	if opts.Format == formatYAML {
		return writeYAML(cmd.OutOrStdout(), result.Summary)
	}
	writeSummary(cmd.OutOrStdout(), result.Summary)
	return nil
}

func writeSummary(out io.Writer, summary types.ReloadSummary) {
	fmt.Fprintf(out, "reloaded %s at %s\n", summary.SourceLocation, summary.PublishedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "  version: %s -> %s (%s)\n", summary.PreviousVersion, summary.DeclaredVersion, summary.VersionChange)
	fmt.Fprintf(out, "  total:   %d\n", summary.Total)
	fmt.Fprintf(out, "  added:   %s\n", joinOrNone(summary.Added, ", "))
	fmt.Fprintf(out, "  removed: %s\n", joinOrNone(summary.Removed, ", "))
}
