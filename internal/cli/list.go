package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"process-resolver/internal/types"
)

type listOptions struct {
	Format string
}

func newListCommand() *cobra.Command {
	opts := listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every known process as a hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Format, "format", formatText, "Output format (text, yaml)")
	return cmd
}

func runList(cmd *cobra.Command, opts listOptions) error {
	if err := checkFormat(opts.Format); err != nil {
		return err
	}
	opened, err := openResolver(cmd, newAppService())
	if err != nil {
		return err
	}
	listing := opened.Resolver.List()
	out := cmd.OutOrStdout()
	if opts.Format == formatYAML {
		return writeYAML(out, listing)
	}
	fmt.Fprintf(out, "# %s (version %s, %d processes)\n",
		opened.Resolver.Location(), opened.Resolver.Version(), len(listing))
	writeTree(out, listing)
	return nil
}

func writeTree(out io.Writer, listing []types.ProcessListing) {
	byID := make(map[string]types.ProcessListing, len(listing))
	for _, entry := range listing {
		byID[entry.ID] = entry
	}
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		entry, ok := byID[id]
		if !ok || depth > len(listing) {
			return
		}
		line := fmt.Sprintf("%s%s  %s", strings.Repeat("  ", depth), entry.ID, entry.Record.DisplayName)
		if entry.Record.CategoryCode != "" {
			line += " [" + entry.Record.CategoryCode + "]"
		}
		fmt.Fprintln(out, line)
		for _, child := range entry.Children {
			walk(child, depth+1)
		}
	}
	for _, entry := range listing {
		if entry.Record.IsRoot() {
			walk(entry.ID, 0)
		}
	}
}
