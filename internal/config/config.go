// Package config manages build configuration from a YAML file, environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/pflag"
)

const (
	envPrefix = "WIKIGEN_"

	// DefaultFile is picked up from the working directory when no --config is given.
	DefaultFile = "wikigen.yaml"
)

// Config holds runtime configuration for a site build.
type Config struct {
	PagesDir       string `yaml:"pages"`
	OutputDir      string `yaml:"output"`
	TemplatesDir   string `yaml:"templates"`
	AssetsDir      string `yaml:"assets"`
	SiteTitle      string `yaml:"title"`
	HighlightStyle string `yaml:"highlight_style"`
	MetricsFile    string `yaml:"metrics_file"`
	ConfigFile     string `yaml:"-"`
	Anchors        bool   `yaml:"anchors"`
	Clean          bool   `yaml:"clean"`
	Prune          bool   `yaml:"prune"`
	Watch          bool   `yaml:"watch"`
	Verbose        bool   `yaml:"verbose"`
	ShowVersion    bool   `yaml:"-"`
}

// Default returns ready-to-use defaults prior to file/env/flag overrides.
// With these a bare invocation builds ./pages into ./output.
func Default() Config {
	return Config{
		PagesDir:       "pages",
		OutputDir:      "output",
		SiteTitle:      "wikigen",
		HighlightStyle: "github",
		Anchors:        true,
		Prune:          true,
	}
}

// Parse builds the configuration from defaults, the YAML config file, WIKIGEN_* variables
// and command-line flags, each overriding the previous. pflag.ErrHelp is returned as is.
func Parse(name string, args []string) (Config, error) {
	// First pass only discovers --config; the real parse happens once file and env are applied.
	var probe Config
	probeFlags := newFlagSet(name, &probe)
	probeFlags.SetOutput(io.Discard)
	_ = probeFlags.Parse(args)

	cfg := Default()
	path, explicit := resolveConfigFile(probe.ConfigFile)
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}
	ApplyEnvOverrides(&cfg)

	flags := newFlagSet(name, &cfg)
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.ConfigFile = path

	if cfg.ShowVersion {
		return cfg, nil
	}
	if err := Finalize(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func resolveConfigFile(flagValue string) (string, bool) {
	if v := strings.TrimSpace(flagValue); v != "" {
		return v, true
	}
	if v, ok := lookupNonEmpty("CONFIG"); ok {
		return v, true
	}
	return DefaultFile, false
}

func newFlagSet(name string, cfg *Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML config file (default "+DefaultFile+" when present)")
	RegisterFlags(fs, cfg)
	return fs
}

// RegisterFlags attaches configuration flags to the provided FlagSet.
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVarP(&cfg.PagesDir, "pages", "p", cfg.PagesDir, "directory containing markdown pages")
	fs.StringVarP(&cfg.OutputDir, "out", "o", cfg.OutputDir, "output directory for the generated site")
	fs.StringVar(&cfg.TemplatesDir, "templates", cfg.TemplatesDir, "directory with page/explorer/tag .gohtml overrides")
	fs.StringVar(&cfg.AssetsDir, "assets", cfg.AssetsDir, "directory of static assets copied instead of the embedded ones")
	fs.StringVar(&cfg.SiteTitle, "title", cfg.SiteTitle, "site title shown in page headers")
	fs.StringVar(&cfg.HighlightStyle, "highlight-style", cfg.HighlightStyle, "chroma style for fenced code blocks")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "write Prometheus metrics to this textfile after each build")
	fs.BoolVar(&cfg.Anchors, "anchors", cfg.Anchors, "add permalink anchors to headings")
	fs.BoolVar(&cfg.Clean, "clean", cfg.Clean, "wipe the output directory before building")
	fs.BoolVar(&cfg.Prune, "prune", cfg.Prune, "remove outputs of the previous build that are no longer generated")
	fs.BoolVarP(&cfg.Watch, "watch", "w", cfg.Watch, "rebuild whenever the pages or templates change")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "enable debug logging")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version information and exit")
}

// ApplyEnvOverrides reads supported environment variables and overrides cfg in place.
func ApplyEnvOverrides(cfg *Config) {
	applyStringEnv("PAGES", func(v string) { cfg.PagesDir = v })
	applyStringEnv("OUT", func(v string) { cfg.OutputDir = v })
	applyStringEnv("TEMPLATES", func(v string) { cfg.TemplatesDir = v })
	applyStringEnv("ASSETS", func(v string) { cfg.AssetsDir = v })
	applyStringEnv("TITLE", func(v string) { cfg.SiteTitle = v })
	applyStringEnv("HIGHLIGHT_STYLE", func(v string) { cfg.HighlightStyle = v })
	applyStringEnv("METRICS_FILE", func(v string) { cfg.MetricsFile = v })
	applyBoolEnv("ANCHORS", func(v bool) { cfg.Anchors = v })
	applyBoolEnv("CLEAN", func(v bool) { cfg.Clean = v })
	applyBoolEnv("PRUNE", func(v bool) { cfg.Prune = v })
	applyBoolEnv("WATCH", func(v bool) { cfg.Watch = v })
	applyBoolEnv("VERBOSE", func(v bool) { cfg.Verbose = v })
}

func applyStringEnv(key string, apply func(string)) {
	if raw, ok := lookupNonEmpty(key); ok {
		apply(raw)
	}
}

func applyBoolEnv(key string, apply func(bool)) {
	if raw, ok := lookupNonEmpty(key); ok {
		if value, err := strconv.ParseBool(raw); err == nil {
			apply(value)
		}
	}
}

func lookupNonEmpty(key string) (string, bool) {
	raw, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return "", false
	}
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", false
	}
	return value, true
}

// Validate checks the configuration for missing or conflicting values.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PagesDir, validation.Required),
		validation.Field(&c.OutputDir, validation.Required,
			validation.By(func(any) error {
				if filepath.Clean(c.OutputDir) == filepath.Clean(c.PagesDir) {
					return errors.New("must differ from the pages directory")
				}
				return nil
			})),
		validation.Field(&c.SiteTitle, validation.Required),
		validation.Field(&c.HighlightStyle, validation.Required, validation.In(styleNames()...)),
	)
}

func styleNames() []any {
	names := styles.Names()
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}

// Finalize validates and normalizes paths.
func Finalize(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	for _, p := range []*string{&cfg.PagesDir, &cfg.OutputDir, &cfg.TemplatesDir, &cfg.AssetsDir, &cfg.MetricsFile} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", *p, err)
		}
		*p = abs
	}
	return nil
}
