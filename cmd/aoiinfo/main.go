// Command aoiinfo inspects ERDAS IMAGINE annotation (AOI) files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/beetlebugorg/aoi/internal/log"
	"github.com/beetlebugorg/aoi/pkg/aoi"
)

const version = "0.1.0-dev"

const (
	formatText    = "text"
	formatGeoJSON = "geojson"
	formatWKT     = "wkt"
)

type rootFlags struct {
	configPath    string
	ellipsisSteps int
	logLevel      string
	workers       int
	format        string
}

// app is the state shared by all subcommands once flags and config are resolved.
type app struct {
	flags  rootFlags
	cfg    config
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: defaultConfig(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "aoiinfo",
		Short:         "Inspect ERDAS IMAGINE annotation (AOI) files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
			log.SetLogger(nil)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "TOML configuration file")
	pf.IntVar(&a.flags.ellipsisSteps, "ellipsis-steps", 0, "perimeter samples per ellipse (default 36, or AOI_ELLIPSIS_STEPS)")
	pf.StringVar(&a.flags.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	pf.IntVar(&a.flags.workers, "workers", 0, "files opened in parallel (default: number of CPUs)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInfoCmd(a))
	root.AddCommand(newFeaturesCmd(a))
	root.AddCommand(newSRSCmd(a))
	root.AddCommand(newCatalogCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg := defaultConfig()
	if a.flags.configPath != "" {
		var err error
		if cfg, err = loadConfig(a.flags.configPath); err != nil {
			return err
		}
	}
	cfg.overrideFromFlags(cmd, &a.flags)
	if err := cfg.validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := log.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.logger = logger
	log.SetLogger(logger)
	return nil
}

// options returns open options for the resolved configuration.
func (a *app) options() aoi.Options {
	opts := aoi.OptionsFromEnv()
	if a.cfg.EllipsisSteps > 0 {
		opts.EllipseSteps = a.cfg.EllipsisSteps
	}
	opts.Logger = a.logger
	return opts
}

func (a *app) open(path string) (*aoi.Dataset, error) {
	return aoi.OpenWithOptions(path, a.options())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "aoiinfo %s\n", version)
		},
	}
}
