package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRelatedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "related <identifier> <identifier>",
		Short: "Report whether two processes are the same, ancestor/descendant or siblings",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelated(cmd, args[0], args[1])
		},
	}
}

func runRelated(cmd *cobra.Command, a string, b string) error {
	opened, err := openResolver(cmd, newAppService())
	if err != nil {
		return err
	}
	resolver := opened.Resolver
	first := resolver.Resolve(a)
	second := resolver.Resolve(b)
	verdict := "not related"
	if resolver.AreRelated(a, b) {
		verdict = "related"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) / %s (%s): %s\n",
		a, orNone(first.CanonicalID), b, orNone(second.CanonicalID), verdict)
	return nil
}
