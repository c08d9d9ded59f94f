package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"process-resolver/internal/adapters"
	"process-resolver/internal/app"
	"process-resolver/internal/types"
)

type watchOptions struct {
	Debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the definitions file whenever it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd, opts)
		},
	}
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", adapters.DefaultWatchDebounce, "Quiet period before a change is reloaded")
	_ = viper.BindPFlag("watch_debounce", cmd.Flags().Lookup("debounce"))
	return cmd
}

func runWatch(cmd *cobra.Command, opts watchOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)
	return watchDefinitions(ctx, cmd, opts)
}

func watchDefinitions(ctx context.Context, cmd *cobra.Command, opts watchOptions) error {
	service := newAppService()
	opened, err := openResolver(cmd, service)
	if err != nil {
		return err
	}
	definitions, _ := cmd.Root().PersistentFlags().GetString("definitions")
	path := resolveString(cmd, definitions, "definitions", "definitions")

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "watching %s (%d processes, version %s)\n",
		path, opened.Resolver.Len(), opened.Resolver.Version())
	return service.Watch(ctx, opened.Resolver, app.WatchRequest{
		DefinitionsPath: path,
		Debounce:        resolveDuration(cmd, opts.Debounce, "watch_debounce", "debounce"),
		OnReload: func(summary types.ReloadSummary) {
			writeSummary(out, summary)
		},
		OnError: func(err error) {
			fmt.Fprintf(cmd.ErrOrStderr(), "reload rejected: %s\n", errorMessage(err))
		},
	})
}
