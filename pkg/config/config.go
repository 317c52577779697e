// Package config loads configuration for the rule generator.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"rulegen/pkg/emit"
)

const (
	defaultConfigPath = "rulegen.conf"
	configEnvVar      = "RULEGEN_CONFIG"
)

// Config contains all runtime options for one generator run. The defaults
// describe the conventional repository layout; tests and unusual layouts
// override them through a TOML file or viper directly.
type Config struct {
	Paths    PathsConfig    `mapstructure:"paths"`
	Generate GenerateConfig `mapstructure:"generate"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// PathsConfig holds the input and output directory layout.
type PathsConfig struct {
	InputDir  string `mapstructure:"input_dir"`
	OutputDir string `mapstructure:"output_dir"`
}

// GenerateConfig holds what to generate and how.
type GenerateConfig struct {
	Categories      []string `mapstructure:"categories"`
	Formats         []string `mapstructure:"formats"`
	Parallel        bool     `mapstructure:"parallel"`
	ParseErrorLimit int      `mapstructure:"parse_error_limit"`
}

// LoggingConfig holds log settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Setup loads the optional configuration file and produces a Config.
func Setup() (*Config, error) {
	return load(viper.GetViper())
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	configPath := defaultConfigPath
	explicit := false
	if fromEnv := strings.TrimSpace(os.Getenv(configEnvVar)); fromEnv != "" {
		configPath = fromEnv
		explicit = true
	}

	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file not accessible: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.input_dir", "domains")
	v.SetDefault("paths.output_dir", "rules")
	v.SetDefault("generate.categories", []string{"block", "direct", "proxy"})
	v.SetDefault("generate.formats", emit.Names())
	v.SetDefault("generate.parallel", true)
	v.SetDefault("generate.parse_error_limit", 20)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "stdout")
}

// ValidateLogLevel ensures the user-provided log level matches the supported set.
func ValidateLogLevel(level string) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(level)] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", level)
	}
	return nil
}

// ValidateCategory confirms that a category name is safe to use as both an
// input file stem and an output directory name.
func ValidateCategory(name string) error {
	if name == "" {
		return errors.New("empty category name")
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return fmt.Errorf("invalid category name %q: character %q not allowed", name, r)
		}
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid category name %q: must not start with a dot", name)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if err := ValidateLogLevel(cfg.Logging.Level); err != nil {
		return err
	}

	if cfg.Paths.InputDir == "" {
		return errors.New("paths.input_dir is required")
	}
	if cfg.Paths.OutputDir == "" {
		return errors.New("paths.output_dir is required")
	}

	if len(cfg.Generate.Categories) == 0 {
		return errors.New("generate.categories must contain at least one entry")
	}
	seen := make(map[string]bool, len(cfg.Generate.Categories))
	for _, category := range cfg.Generate.Categories {
		if err := ValidateCategory(category); err != nil {
			return err
		}
		if seen[category] {
			return fmt.Errorf("duplicate category %q", category)
		}
		seen[category] = true
	}

	if len(cfg.Generate.Formats) == 0 {
		return errors.New("generate.formats must contain at least one entry")
	}
	for _, format := range cfg.Generate.Formats {
		if _, ok := emit.ByName(format); !ok {
			return fmt.Errorf("unknown format %q (known: %s)", format, strings.Join(emit.Names(), ", "))
		}
	}

	if cfg.Generate.ParseErrorLimit < 0 {
		return errors.New("generate.parse_error_limit must be >= 0")
	}

	return nil
}
