package cli

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"process-resolver/internal/adapters"
	"process-resolver/internal/app"
	"process-resolver/internal/core"
	"process-resolver/internal/tracing"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "PROCESS_RESOLVER"

// newAppService is swapped out in tests.
var newAppService = app.NewService

type RootConfig struct {
	ConfigFile  string
	LogLevel    string
	Definitions string
	Strict      bool
	NoCache     bool
	CacheTTL    time.Duration

	TraceExporter string
	TraceFile     string
}

// rootState carries what a single command run sets up and must release.
type rootState struct {
	cfg     RootConfig
	tracing *tracing.Provider
}

func Execute() {
	root, state := newRoot()
	if err := runRoot(context.Background(), root, state); err != nil {
		log.Error().Err(err).Msg(errorMessage(err))
		os.Exit(exitCodeForError(err))
	}
}

// runRoot executes root and flushes spans recorded during the run, including
// runs that fail.
func runRoot(ctx context.Context, root *cobra.Command, state *rootState) error {
	err := root.ExecuteContext(ctx)
	if shutdownErr := state.tracing.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
		log.Warn().Err(shutdownErr).Msg("failed to flush traces")
	}
	return err
}

func newRootCommand() *cobra.Command {
	cmd, _ := newRoot()
	return cmd
}

func newRoot() (*cobra.Command, *rootState) {
	state := &rootState{}
	cfg := &state.cfg
	cmd := &cobra.Command{
		Use:           "process-resolver",
		Short:         "Resolve manufacturing process identifiers to canonical ids",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			provider, err := tracing.NewProvider(traceConfig(cmd, *cfg))
			if err != nil {
				return err
			}
			state.tracing = provider
			return nil
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	flags.StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	flags.StringVar(&cfg.Definitions, "definitions", adapters.DefaultDefinitionsPath, "Process definitions file")
	flags.BoolVar(&cfg.Strict, "strict", false, "Fail instead of falling back to the built-in table")
	flags.BoolVar(&cfg.NoCache, "no-cache", false, "Disable the lookup cache")
	flags.DurationVar(&cfg.CacheTTL, "cache-ttl", adapters.DefaultLookupCacheTTL, "Lookup cache entry lifetime")
	flags.StringVar(&cfg.TraceExporter, "trace-exporter", tracing.ExporterNone, "Trace exporter (none, file, stdout)")
	flags.StringVar(&cfg.TraceFile, "trace-file", "", "Append reload spans to this JSONL file")
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("definitions", flags.Lookup("definitions"))
	_ = viper.BindPFlag("strict", flags.Lookup("strict"))
	_ = viper.BindPFlag("no_cache", flags.Lookup("no-cache"))
	_ = viper.BindPFlag("cache_ttl", flags.Lookup("cache-ttl"))
	_ = viper.BindPFlag("trace_exporter", flags.Lookup("trace-exporter"))
	_ = viper.BindPFlag("trace_file", flags.Lookup("trace-file"))

	cmd.AddCommand(newNormalizeCommand())
	cmd.AddCommand(newShowCommand())
	cmd.AddCommand(newRelatedCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newReloadCommand())
	cmd.AddCommand(newWatchCommand())
	return cmd, state
}

func traceConfig(cmd *cobra.Command, cfg RootConfig) tracing.Config {
	traceCfg := tracing.DefaultConfig()
	traceCfg.Exporter = resolveString(cmd, cfg.TraceExporter, "trace_exporter", "trace-exporter")
	traceCfg.FilePath = resolveString(cmd, cfg.TraceFile, "trace_file", "trace-file")
	return traceCfg
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("process-resolver")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/process-resolver")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.DefaultContextLogger = &log.Logger
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func exitCodeForError(err error) int {
	if core.IsValidationFailed(err) {
		return 3
	}
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument:
		return 2
	case errbuilder.CodeFailedPrecondition:
		return 3
	case errbuilder.CodeNotFound:
		return 4
	case errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}
