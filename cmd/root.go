// Package cmd provides the command-line interface for dimens.
//
// Configuration System:
//
//	Settings come from several sources with clear precedence:
//	1. Command-line flags (--config, --log-level, --cache, ...) - highest priority
//	2. DIMENS_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (DIMENS_CACHE_CAPACITY, ...)
//	4. Configuration file (.dimens.yml) - lowest priority
//
// Environment Variables:
//
//	DIMENS_CONFIG_FILE: Path to custom configuration file
//	DIMENS_CACHE_ENABLED, DIMENS_CACHE_CAPACITY, DIMENS_CACHE_TTL
//	DIMENS_ASPECT_RATIO_ENABLED, DIMENS_ASPECT_RATIO_SENSITIVITY
//	DIMENS_MULTI_WINDOW_IGNORE, DIMENS_LOG_LEVEL, DIMENS_LOG_FORMAT
//	DIMENS_PROFILES_FILE
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/dimens/internal/config"
	"github.com/conneroisu/dimens/internal/engine"
	"github.com/conneroisu/dimens/internal/errors"
	"github.com/conneroisu/dimens/internal/logging"
)

// app is what every subcommand needs after configuration has loaded.
type app struct {
	cfg    *config.Config
	logger *logging.DimensLogger
	engine *engine.Engine
}

// rootOptions holds the persistent flags.
type rootOptions struct {
	cfgFile string
	v       *viper.Viper
}

// NewRootCommand builds the full command tree. Each call returns an
// independent tree with its own viper instance.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "dimens",
		Short: "Scale design-time dimensions to the current screen",
		Long: `dimens turns a design-time dimension authored for a 300x533 reference
screen into a value for the screen at hand, using one of a closed set of
scaling strategies, with optional bounds and per-device overrides.

Key Features:
  • Thirteen scaling strategies, inferred from the element type when not given
  • Min/max and physical-size constraints
  • UI-mode and screen-size overrides
  • Lock-free memoization of calculated values
  • Named profiles in YAML, reloaded on change

Quick Start:
  dimens calc 16 --width 411 --height 731          Scale one value
  dimens table --base 16                           Compare every strategy
  dimens profiles validate profiles.yml            Check a profile file
  dimens watch profiles.yml                        Reload profiles on change`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.cfgFile, "config", "", "config file (default is .dimens.yml, can also use DIMENS_CONFIG_FILE env var)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log format (text, json)")
	pf.Bool("cache", true, "memoize calculated values")
	pf.Int("cache-capacity", engine.DefaultSettings().CacheCapacity, "cache slots, a power of two in 256..4096")
	pf.Bool("aspect-ratio", true, "apply aspect-ratio correction")
	pf.String("profile-file", "", "profile file (YAML)")

	for key, flag := range map[string]string{
		"log.level":            "log-level",
		"log.format":           "log-format",
		"cache.enabled":        "cache",
		"cache.capacity":       "cache-capacity",
		"aspect_ratio.enabled": "aspect-ratio",
		"profiles.file":        "profile-file",
	} {
		_ = opts.v.BindPFlag(key, pf.Lookup(flag))
	}

	rootCmd.AddCommand(
		newCalcCommand(opts),
		newTableCommand(opts),
		newProfilesCommand(opts),
		newWatchCommand(opts),
		newBenchCommand(opts),
		newVersionCommand(),
	)
	return rootCmd
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// Process exit statuses.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitInvalid = 2
)

// ExitCode maps an error returned by Execute to a process exit status.
// Rejected input exits with ExitInvalid.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.IsValidationError(err):
		return ExitInvalid
	default:
		return ExitFailure
	}
}

// load reads the configuration and builds the logger and engine.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. DIMENS_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .dimens.yml in current directory
func (o *rootOptions) load(cmd *cobra.Command) (*app, error) {
	if err := config.Configure(o.v, o.cfgFile); err != nil {
		return nil, err
	}
	cfg, err := config.LoadFrom(o.v)
	if err != nil {
		return nil, err
	}

	lc := cfg.LoggerConfig()
	lc.Output = cmd.ErrOrStderr()
	logger := logging.NewLogger(lc)
	if used := o.v.ConfigFileUsed(); used != "" {
		logger.Debug(cmd.Context(), "using config file", "path", used)
	}

	e, err := engine.New(cfg.Settings(), engine.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, engine: e}, nil
}
