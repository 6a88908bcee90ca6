package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/fin-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/fin-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/fin-atlas/pkg/services/config"
	"github.com/de-tools/fin-atlas/pkg/services/sources"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLI represents the command-line interface
type CLI struct {
	viper    *viper.Viper
	cfgPath  string
	verbose  bool
	output   io.Writer
	logOut   io.Writer
	sources  commands.SourceFactory
	remote   commands.SourceFactory
	stores   commands.StoreFactory
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// LogOutput receives diagnostics; defaults to stderr.
	LogOutput io.Writer
	// Sources opens the configured statement source; defaults to sources.New.
	Sources commands.SourceFactory
	// Remote opens the API client used for snapshots; defaults to sources.NewRemote.
	Remote commands.SourceFactory
	// Stores opens the snapshot store; defaults to sources.OpenStore.
	Stores commands.StoreFactory
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}
	if opts.Sources == nil {
		opts.Sources = sources.New
	}
	if opts.Remote == nil {
		opts.Remote = sources.NewRemote
	}
	if opts.Stores == nil {
		opts.Stores = sources.OpenStore
	}

	cli := &CLI{
		viper:    config.NewViper(),
		output:   opts.Output,
		logOut:   opts.LogOutput,
		sources:  opts.Sources,
		remote:   opts.Remote,
		stores:   opts.Stores,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) loadConfig() (*config.Config, error) {
	return config.Load(cli.viper, cli.cfgPath)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fin-atlas",
		Short:         "Income statement explorer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := zerolog.WarnLevel
			if cli.verbose {
				level = zerolog.DebugLevel
			}
			logger := zerolog.New(zerolog.ConsoleWriter{Out: cli.logOut}).
				Level(level).
				With().
				Timestamp().
				Logger()
			cmd.SetContext(logger.WithContext(cmd.Context()))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&cli.cfgPath, "config", "c", "", "Path to a config file (yaml, json or toml)")
	flags.BoolVarP(&cli.verbose, "verbose", "v", false, "Enable debug logging")
	flags.String("symbol", "", "Ticker symbol (default AAPL)")
	flags.String("period", "", "Statement period: annual or quarter")
	flags.String("api-key", "", "Financial Modeling Prep API key")
	flags.String("profile", "", "Credential profile to read the API key from")
	flags.String("source", "", "Statement source: fmp or duckdb")
	flags.String("store", "", "Path to the DuckDB snapshot database")

	bindings := map[string]string{
		"api.symbol":  "symbol",
		"api.period":  "period",
		"api.key":     "api-key",
		"api.profile": "profile",
		"source":      "source",
		"store.path":  "store",
	}
	for key, flag := range bindings {
		_ = cli.viper.BindPFlag(key, flags.Lookup(flag))
	}

	cmd.AddCommand(commands.NewShowCmd(cli.loadConfig, cli.sources, cli.reporter))
	cmd.AddCommand(commands.NewSnapshotCmd(cli.loadConfig, cli.remote, cli.stores, cli.output))
	cmd.AddCommand(commands.NewProfilesCmd(cli.loadConfig, cli.output))

	return cmd
}
