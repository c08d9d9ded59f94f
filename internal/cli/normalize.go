package cli

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
)

type normalizeOptions struct {
	Format         string
	FailUnresolved bool
}

func newNormalizeCommand() *cobra.Command {
	opts := normalizeOptions{}
	cmd := &cobra.Command{
		Use:   "normalize <identifier>...",
		Short: "Resolve process identifiers to canonical ids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Format, "format", formatText, "Output format (text, yaml)")
	cmd.Flags().BoolVar(&opts.FailUnresolved, "fail-unresolved", false, "Exit non-zero when any identifier is unresolved")
	return cmd
}

func runNormalize(cmd *cobra.Command, args []string, opts normalizeOptions) error {
	if err := checkFormat(opts.Format); err != nil {
		return err
	}
	opened, err := openResolver(cmd, newAppService())
	if err != nil {
		return err
	}
	results := opened.Resolver.NormalizeAll(args)

	out := cmd.OutOrStdout()
	if opts.Format == formatYAML {
		if err := writeYAML(out, results); err != nil {
			return err
		}
	} else {
		for _, result := range results {
			if result.Resolved {
				fmt.Fprintf(out, "%s\t%s\t%s\n", result.Input, result.CanonicalID, result.Strategy)
				continue
			}
			fmt.Fprintf(out, "%s\t-\tunresolved\n", result.Input)
		}
	}

	unresolved := 0
	for _, result := range results {
		if !result.Resolved {
			unresolved++
		}
	}
	if opts.FailUnresolved && unresolved > 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("%d of %d identifier(s) unresolved", unresolved, len(results)))
	}
	return nil
}
