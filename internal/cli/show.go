package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"process-resolver/internal/app"
)

type showOptions struct {
	Format string
}

type showOutput struct {
	Input        string   `yaml:"input"`
	CanonicalID  string   `yaml:"canonical_id"`
	MatchedBy    string   `yaml:"matched_by"`
	DisplayName  string   `yaml:"display_name"`
	CategoryCode string   `yaml:"category_code,omitempty"`
	Parent       string   `yaml:"parent,omitempty"`
	Ancestors    []string `yaml:"ancestors,omitempty"`
	Children     []string `yaml:"children,omitempty"`
	Aliases      []string `yaml:"aliases,omitempty"`
}

func newShowCommand() *cobra.Command {
	opts := showOptions{}
	cmd := &cobra.Command{
		Use:   "show <identifier>",
		Short: "Show a process and its place in the hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Format, "format", formatText, "Output format (text, yaml)")
	return cmd
}

func runShow(cmd *cobra.Command, input string, opts showOptions) error {
	if err := checkFormat(opts.Format); err != nil {
		return err
	}
	service := newAppService()
	opened, err := openResolver(cmd, service)
	if err != nil {
		return err
	}
	result, err := service.Describe(opened.Resolver, app.DescribeRequest{Input: input})
	if err != nil {
		return err
	}
	view := showOutput{
		Input:        input,
		CanonicalID:  result.Record.CanonicalID,
		MatchedBy:    string(result.Resolution.Strategy),
		DisplayName:  result.Record.DisplayName,
		CategoryCode: result.CategoryCode,
		Parent:       result.Record.Parent,
		Ancestors:    result.Ancestors,
		Children:     result.Children,
		Aliases:      result.Record.Aliases,
	}

	out := cmd.OutOrStdout()
	if opts.Format == formatYAML {
		return writeYAML(out, view)
	}
	fmt.Fprintf(out, "%s (%s)\n", view.CanonicalID, view.DisplayName)
	fmt.Fprintf(out, "  matched by:    %s\n", view.MatchedBy)
	fmt.Fprintf(out, "  category code: %s\n", orNone(view.CategoryCode))
	fmt.Fprintf(out, "  ancestors:     %s\n", joinOrNone(view.Ancestors, " > "))
	fmt.Fprintf(out, "  children:      %s\n", joinOrNone(view.Children, ", "))
	fmt.Fprintf(out, "  aliases:       %s\n", joinOrNone(view.Aliases, ", "))
	return nil
}

func orNone(value string) string {
	if value == "" {
		return "(none)"
	}
	return value
}

func joinOrNone(values []string, sep string) string {
	return orNone(strings.Join(values, sep))
}
