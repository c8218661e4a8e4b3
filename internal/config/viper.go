// Package config provides Viper-based hierarchical configuration and the
// file-backed rule store used for field-level checks.
package config

import (
	"fmt"
	"strings"

	"fjacquet/swift-mt/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Parser struct {
		// StrictValidation runs the network rules after every parse.
		StrictValidation bool `mapstructure:"strict_validation" yaml:"strict_validation"`
		StopOnFirstError bool `mapstructure:"stop_on_first_error" yaml:"stop_on_first_error"`
	} `mapstructure:"parser" yaml:"parser"`

	Rules struct {
		// Directory holds *.json and *.yaml rule files; empty means the embedded defaults.
		Directory string `mapstructure:"directory" yaml:"directory"`
	} `mapstructure:"rules" yaml:"rules"`

	CSV struct {
		Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
		DateFormat     string `mapstructure:"date_format" yaml:"date_format"`
		IncludeHeaders bool   `mapstructure:"include_headers" yaml:"include_headers"`
	} `mapstructure:"csv" yaml:"csv"`

	Batch struct {
		Workers    int      `mapstructure:"workers" yaml:"workers"`
		Extensions []string `mapstructure:"extensions" yaml:"extensions"`
	} `mapstructure:"batch" yaml:"batch"`

	Server struct {
		Address      string `mapstructure:"address" yaml:"address"`
		MaxBodyBytes int64  `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
		ReleaseMode  bool   `mapstructure:"release_mode" yaml:"release_mode"`
	} `mapstructure:"server" yaml:"server"`

	Report struct {
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"report" yaml:"report"`
}

// InitializeConfig loads defaults, then config.yaml from $HOME/.swift-mt,
// .swift-mt or the working directory, then SWIFTMT_ environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.swift-mt")
	v.AddConfigPath(".swift-mt")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SWIFTMT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	if err := v.BindEnv("rules.directory", "SWIFTMT_RULES_DIR"); err != nil {
		fmt.Printf("Warning: failed to bind SWIFTMT_RULES_DIR environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns the configuration built from defaults only.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Defaults always decode.
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("parser.strict_validation", false)
	v.SetDefault("parser.stop_on_first_error", false)

	v.SetDefault("rules.directory", "")

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.date_format", "2006-01-02")
	v.SetDefault("csv.include_headers", true)

	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.extensions", []string{".mt", ".fin", ".txt", ".swift"})

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.release_mode", true)

	v.SetDefault("report.format", "yaml")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Batch.Workers < 1 || config.Batch.Workers > 256 {
		return fmt.Errorf("batch.workers must be between 1 and 256, got: %d", config.Batch.Workers)
	}

	if config.Server.MaxBodyBytes < 1 {
		return fmt.Errorf("server.max_body_bytes must be positive, got: %d", config.Server.MaxBodyBytes)
	}

	if config.Report.Format != "yaml" && config.Report.Format != "json" {
		return fmt.Errorf("invalid report format: %s (must be 'yaml' or 'json')", config.Report.Format)
	}

	return nil
}

// ConfigureLoggingFromConfig builds the application logger from config.
func ConfigureLoggingFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(config.Log.Level), strings.ToLower(config.Log.Format))
}
