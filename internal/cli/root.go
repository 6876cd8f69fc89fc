// Package cli defines the command-line interface for cratefill.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piwi3910/CrateFill/internal/config"
	"github.com/piwi3910/CrateFill/internal/logging"
)

// Options stores global CLI options shared between commands.
type Options struct {
	ConfigFile       string
	GridSize         int
	SupportThreshold float64
	AllowRotation    bool
	DataDir          string
	DBPath           string
	LogLevel         string
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	rootCmd := newRootCommand(&Options{}, logger)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cratefill",
		Short:         "cratefill packs boxes and shaped parts into a container",
		Long:          "cratefill loads a backlog of rectangular boxes and voxel shapes into a single container, lowest level first, and writes load plans, labels and manifests.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(overridesFromFlags(cmd, opts))
			if err != nil {
				return err
			}
			l, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
			if err != nil {
				return err
			}
			logger = l
			ctx := context.WithValue(cmd.Context(), loggerKey{}, logger)
			ctx = context.WithValue(ctx, configKey{}, cfg)
			cmd.SetContext(ctx)
			logger.Debug("configuration loaded",
				zap.Int("grid_size", cfg.Pack.GridSize),
				zap.Float64("support_threshold", cfg.Pack.SupportThreshold),
				zap.Bool("allow_rotation", cfg.Pack.AllowRotation),
				zap.String("data_dir", cfg.DataDir))
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigFile, "config", "c", "", "Path to YAML configuration file")
	flags.IntVar(&opts.GridSize, "grid", 0, "Grid cell edge in mm")
	flags.Float64Var(&opts.SupportThreshold, "support", 0, "Minimum supported fraction of a unit's base (0-1]")
	flags.BoolVar(&opts.AllowRotation, "rotation", true, "Allow rotating items flagged as rotatable")
	flags.StringVar(&opts.DataDir, "data-dir", "", "Directory for catalog, templates and sessions")
	flags.StringVar(&opts.DBPath, "db", "", "Session database path")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newPackCommand(),
		newEstimateCommand(),
		newCompareCommand(),
		newSessionsCommand(),
		newCatalogCommand(),
		newTemplatesCommand(),
		newProjectCommand(),
		newBackupCommand(),
	)

	return cmd
}

// overridesFromFlags maps explicitly set persistent flags onto config
// overrides. Unset flags leave lower-precedence sources in charge.
func overridesFromFlags(cmd *cobra.Command, opts *Options) *config.CLIOverrides {
	o := &config.CLIOverrides{ConfigFile: opts.ConfigFile}
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("grid") {
		o.GridSize = &opts.GridSize
	}
	if changed("support") {
		o.SupportThreshold = &opts.SupportThreshold
	}
	if changed("rotation") {
		o.AllowRotation = &opts.AllowRotation
	}
	if changed("data-dir") {
		o.DataDir = &opts.DataDir
	}
	if changed("db") {
		o.DBPath = &opts.DBPath
	}
	if changed("log-level") {
		o.LogLevel = &opts.LogLevel
	}
	return o
}

// newGroupCommand builds a cobra.Command that groups subcommands.
func newGroupCommand(use, short string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}
	if len(subcommands) > 0 {
		cmd.AddCommand(subcommands...)
	}
	return cmd
}

type loggerKey struct{}

type configKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a no-op logger.
func LoggerFromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return zap.NewNop()
	}
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

// ConfigFromContext returns the configuration resolved by the root command.
func ConfigFromContext(ctx context.Context) config.Config {
	if ctx != nil {
		if cfg, ok := ctx.Value(configKey{}).(config.Config); ok {
			return cfg
		}
	}
	cfg, err := config.Load(nil)
	if err != nil {
		return config.Config{}
	}
	return cfg
}
