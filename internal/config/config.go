// Package config loads compiler configuration from arduinocc.yaml,
// environment variables, and CLI flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all CLI configuration options.
type Config struct {
	Verbose    bool   `koanf:"verbose"`
	Debug      bool   `koanf:"debug"`
	Format     string `koanf:"format"`      // text | table
	Color      string `koanf:"color"`       // auto | always | never
	DebounceMS int    `koanf:"debounce_ms"` // watch-mode debounce
}

// Default configuration values.
const (
	DefaultFormat     = "text"
	DefaultColor      = "auto"
	DefaultDebounceMS = 200
)

// Config file names, probed in order.
var configFileNames = []string{"arduinocc.yaml", "arduinocc.yml"}

// findConfigFile finds the config file to use.
// Priority: explicit path > arduinocc.yaml > arduinocc.yml in the CWD.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range configFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"verbose":     false,
		"debug":       false,
		"format":      DefaultFormat,
		"color":       DefaultColor,
		"debounce_ms": DefaultDebounceMS,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if path := findConfigFile(cfgFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// 3. Environment variables: ARDUINOCC_FORMAT -> format
	if err := k.Load(env.Provider("ARDUINOCC_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "ARDUINOCC_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags, only those explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}
