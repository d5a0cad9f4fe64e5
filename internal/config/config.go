// Package config loads quickbuild settings.
//
// Precedence (highest to lowest): flags > QUICKBUILD_* env vars >
// .quickbuild.yaml > defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	EnvPrefix = "QUICKBUILD_"

	// ConfigFlag names the flag holding an explicit config file. It is
	// consumed by Load and never stored as a key.
	ConfigFlag = "config"
)

// configFileNames are looked up in the project directory, in order.
var configFileNames = []string{".quickbuild.yaml", ".quickbuild.yml"}

// Config holds all quickbuild settings.
type Config struct {
	// Dir is the project directory, absolute after Load
	Dir string `koanf:"dir"`

	Verbose bool `koanf:"verbose"`

	// DryRun prints the commands instead of running them
	DryRun bool `koanf:"dry_run"`

	// NativeOrder folds directory entries in filesystem order instead of
	// sorting them
	NativeOrder bool `koanf:"native_order"`

	// Tools replaces program names, e.g. {"gcc": "clang"}
	Tools map[string]string `koanf:"tools"`

	// FileUsed is the config file that was loaded, if any
	FileUsed string `koanf:"-"`
}

// Tool returns the configured replacement for program, or program itself.
func (c *Config) Tool(program string) string {
	if replacement := strings.TrimSpace(c.Tools[program]); replacement != "" {
		return replacement
	}
	return program
}

// Load builds the configuration. cfgFile may be empty, in which case the
// project directory is searched for a config file. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"dir":          ".",
		"verbose":      false,
		"dry_run":      false,
		"native_order": false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file, searched in the project directory unless explicit
	projectDir := inferProjectDir(flags)
	if cfgFile == "" {
		cfgFile = findConfigFile(projectDir)
	}
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment: QUICKBUILD_DRY_RUN -> dry_run
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == ConfigFlag {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	abs, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory %s: %w", cfg.Dir, err)
	}
	cfg.Dir = abs
	cfg.FileUsed = cfgFile

	if cfg.Tools == nil {
		cfg.Tools = map[string]string{}
	}

	return &cfg, nil
}

// inferProjectDir determines where to look for a config file before the
// full configuration is known.
// Priority: --dir flag > QUICKBUILD_DIR > current directory
func inferProjectDir(flags *pflag.FlagSet) string {
	if flags != nil {
		if f := flags.Lookup("dir"); f != nil && f.Changed {
			return f.Value.String()
		}
	}
	if dir := os.Getenv(EnvPrefix + "DIR"); dir != "" {
		return dir
	}
	return "."
}

// findConfigFile returns the first config file present in dir.
func findConfigFile(dir string) string {
	for _, name := range configFileNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
