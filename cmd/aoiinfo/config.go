package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// config holds settings read from the TOML file given with --config.
// Command-line flags override file values.
type config struct {
	EllipsisSteps int    `toml:"ellipsis_steps"`
	Format        string `toml:"format"`
	LogLevel      string `toml:"log_level"`
	Workers       int    `toml:"workers"`
}

func defaultConfig() config {
	return config{
		Format:   formatText,
		LogLevel: "warn",
	}
}

// loadConfig decodes path over the defaults. Unknown keys are an error.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, cfg.validate()
}

func (c config) validate() error {
	switch c.Format {
	case formatText, formatGeoJSON, formatWKT:
	default:
		return fmt.Errorf("unknown format %q (want text, geojson or wkt)", c.Format)
	}
	if c.EllipsisSteps < 0 {
		return fmt.Errorf("ellipsis_steps must not be negative, got %d", c.EllipsisSteps)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// overrideFromFlags copies the flags the user set on cmd into c.
func (c *config) overrideFromFlags(cmd *cobra.Command, flags *rootFlags) {
	set := cmd.Flags().Changed
	if set("ellipsis-steps") {
		c.EllipsisSteps = flags.ellipsisSteps
	}
	if set("log-level") {
		c.LogLevel = flags.logLevel
	}
	if set("workers") {
		c.Workers = flags.workers
	}
	if set("format") {
		c.Format = flags.format
	}
}
