// Package config loads aicontext settings from defaults, an optional config
// file, AICONTEXT_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"aicontext/pkg/combine"
	"aicontext/pkg/ignore"
	"aicontext/pkg/manifest"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "AICONTEXT"
	// ConfigFileName is the config file looked up in the project root (without extension).
	ConfigFileName = ".aicontext"
)

// Config holds the settings of a run.
type Config struct {
	Root                 string           `mapstructure:"root"`
	SourceDirs           []string         `mapstructure:"source_dirs"`
	Manifest             string           `mapstructure:"manifest"`
	OutputDir            string           `mapstructure:"output_dir"`
	OnlyListed           bool             `mapstructure:"only_listed"`
	Buckets              []combine.Bucket `mapstructure:"buckets"`
	DependencyExtensions []string         `mapstructure:"dependency_extensions"`
	Ignore               []string         `mapstructure:"ignore"`
	IgnoreFile           string           `mapstructure:"ignore_file"`
	MaxBytes             int64            `mapstructure:"max_bytes"`
	Workers              int              `mapstructure:"workers"`
	RelativeBase         string           `mapstructure:"relative_base"`
	Tree                 bool             `mapstructure:"tree"`
	Debug                bool             `mapstructure:"debug"`
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	ConfigFile string         // Explicit config file; must exist when set.
	Flags      *pflag.FlagSet // Flags bound over file and environment values.
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"root":        "root",
	"manifest":    "manifest",
	"output-dir":  "output_dir",
	"only-listed": "only_listed",
	"max-bytes":   "max_bytes",
	"workers":     "workers",
	"tree":        "tree",
	"debug":       "debug",
}

// RegisterFlags defines the command-line flags understood by Load on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("root", d.Root, "Project root directory")
	fs.String("manifest", d.Manifest, "Dependency manifest, relative to the project root")
	fs.String("output-dir", d.OutputDir, "Output directory, relative to the project root")
	fs.Bool("only-listed", false, "Scan only the paths named in the path-list file")
	fs.Int64("max-bytes", d.MaxBytes, "Maximum bytes read from each file; longer files are truncated")
	fs.Int("workers", 0, "Concurrent file readers per document (0 = number of CPUs)")
	fs.Bool("tree", false, "Also write a tree listing of the scanned files")
	fs.Bool("debug", false, "Enable debug logging")
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Root:                 ".",
		SourceDirs:           []string{"src"},
		Manifest:             manifest.DefaultFileName,
		OutputDir:            ".ai",
		Buckets:              combine.DefaultBuckets(),
		DependencyExtensions: []string{"php"},
		Ignore:               []string{"vendor", "node_modules"},
		IgnoreFile:           ignore.DefaultFileName,
		MaxBytes:             combine.DefaultMaxBytes,
	}
}

// Load builds the configuration.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("root", defaults.Root)
	v.SetDefault("source_dirs", defaults.SourceDirs)
	v.SetDefault("manifest", defaults.Manifest)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("only_listed", defaults.OnlyListed)
	v.SetDefault("buckets", bucketMaps(defaults.Buckets))
	v.SetDefault("dependency_extensions", defaults.DependencyExtensions)
	v.SetDefault("ignore", defaults.Ignore)
	v.SetDefault("ignore_file", defaults.IgnoreFile)
	v.SetDefault("max_bytes", defaults.MaxBytes)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("relative_base", defaults.RelativeBase)
	v.SetDefault("tree", defaults.Tree)
	v.SetDefault("debug", defaults.Debug)

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// The root decides where .env and the config file live.
	root := v.GetString("root")
	if err := godotenv.Load(filepath.Join(root, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	root = v.GetString("root")

	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return nil, fmt.Errorf("config file not found: %s: %w", opts.ConfigFile, err)
		}
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(root)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values a run cannot work with.
func (c *Config) Validate() error {
	if c.MaxBytes <= 0 {
		return fmt.Errorf("max_bytes must be positive, got %d", c.MaxBytes)
	}
	if len(c.Buckets) == 0 {
		return errors.New("at least one bucket is required")
	}
	seen := make(map[string]bool, len(c.Buckets))
	for _, b := range c.Buckets {
		switch {
		case b.Name == "":
			return errors.New("bucket name must not be empty")
		case strings.ContainsAny(b.Name, `/\`):
			return fmt.Errorf("bucket name %q must not contain path separators", b.Name)
		case b.Name == "tree":
			return errors.New(`bucket name "tree" is reserved`)
		case seen[b.Name]:
			return fmt.Errorf("duplicate bucket name %q", b.Name)
		}
		seen[b.Name] = true
	}
	return nil
}

// Options converts the configuration into combine options. pathList is the
// optional user path-list argument.
func (c *Config) Options(pathList string, logger *zap.Logger) (combine.Options, error) {
	root, err := filepath.Abs(c.Root)
	if err != nil {
		return combine.Options{}, fmt.Errorf("failed to resolve root: %w", err)
	}

	gi := ignore.NewSet(logger, c.Ignore...)
	if c.IgnoreFile != "" {
		path := c.IgnoreFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		if err := gi.CompileIgnoreFile(path); err != nil {
			return combine.Options{}, fmt.Errorf("failed to load ignore file: %w", err)
		}
	}

	return combine.Options{
		ProjectRoot:          root,
		SourceDirs:           c.SourceDirs,
		Manifest:             c.Manifest,
		OutputDir:            c.OutputDir,
		PathListFile:         pathList,
		OnlyListed:           c.OnlyListed,
		Buckets:              c.Buckets,
		DependencyExtensions: c.DependencyExtensions,
		Ignore:               gi,
		MaxBytes:             c.MaxBytes,
		Workers:              c.Workers,
		RelativeBase:         c.RelativeBase,
		Tree:                 c.Tree,
	}, nil
}

func bucketMaps(buckets []combine.Bucket) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, map[string]interface{}{"name": b.Name, "extensions": b.Extensions})
	}
	return out
}
