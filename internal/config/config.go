// Package config loads loandash configuration.
//
// Values are resolved in this order, later sources winning:
//
//  1. built-in defaults (New)
//  2. ~/.loandash/config.yaml, or $LOANDASH_HOME/config.yaml
//  3. .loandash/config.yaml of the nearest enclosing project directory
//  4. a .env file in the working directory (never overrides the real environment)
//  5. LOANDASH_* environment variables
//  6. command-line flags, applied by the cli package
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Default values.
const (
	DefaultBaseURL       = "http://localhost:5004"
	DefaultOutputFormat  = "table"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultWebAddr       = ":8080"
	DefaultMaxFailures   = 5
	DefaultOpenTimeout   = 30 * time.Second
	configFileName       = "config.yaml"
	configFilePerm       = 0o600
	configDirPerm        = 0o700
	defaultConfigDirName = ".loandash"
)

// ServiceConfig locates the prediction service.
type ServiceConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url" validate:"required,url"`
	// Timeout of 0 leaves the HTTP transport default in place.
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"gte=0"`
}

// BreakerConfig tunes the circuit breaker in front of the prediction service.
type BreakerConfig struct {
	MaxFailures uint32        `json:"max_failures" yaml:"max_failures" validate:"min=1"`
	OpenTimeout time.Duration `json:"open_timeout" yaml:"open_timeout" validate:"gte=0"`
}

// OutputConfig controls command output.
type OutputConfig struct {
	DefaultFormat string `json:"default_format" yaml:"default_format" validate:"oneof=table json yaml"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `json:"format" yaml:"format" validate:"oneof=console json"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
}

// WebConfig configures the dashboard server.
type WebConfig struct {
	Addr         string `json:"addr" yaml:"addr" validate:"required,hostname_port"`
	OTLPEndpoint string `json:"otlp_endpoint,omitempty" yaml:"otlp_endpoint,omitempty"`
}

// Config is the complete loandash configuration.
type Config struct {
	Service ServiceConfig `json:"service" yaml:"service"`
	Breaker BreakerConfig `json:"breaker" yaml:"breaker"`
	Output  OutputConfig  `json:"output" yaml:"output"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Web     WebConfig     `json:"web" yaml:"web"`

	configPath string
	loadErr    error
}

// Defaults returns a Config holding only built-in defaults.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{BaseURL: DefaultBaseURL},
		Breaker: BreakerConfig{MaxFailures: DefaultMaxFailures, OpenTimeout: DefaultOpenTimeout},
		Output:  OutputConfig{DefaultFormat: DefaultOutputFormat},
		Logging: LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Web:     WebConfig{Addr: DefaultWebAddr},
	}
}

// New builds the effective configuration from defaults, the global config file,
// the project config file, .env, and the environment.
// A config file that cannot be parsed is skipped; LoadError reports it.
func New() *Config {
	cfg := Defaults()

	if dir, err := GetConfigDir(); err == nil {
		cfg.configPath = filepath.Join(dir, configFileName)
		cfg.mergeFile(cfg.configPath)
	}
	if projectDir := GetResolvedProjectDir(); projectDir != "" {
		cfg.mergeFile(filepath.Join(projectDir, configFileName))
	}

	if err := LoadDotEnv(); err != nil && cfg.loadErr == nil {
		cfg.loadErr = err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil && cfg.loadErr == nil {
		cfg.loadErr = err
	}

	return cfg
}

func (c *Config) mergeFile(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := ShallowMergeYAML(c, path); err != nil && c.loadErr == nil {
		c.loadErr = err
	}
}

// LoadError returns the first error met while reading config files or the environment.
func (c *Config) LoadError() error {
	return c.loadErr
}

// ConfigPath returns the path Save writes to.
func (c *Config) ConfigPath() string {
	return c.configPath
}

// SetConfigPath changes the path Save writes to.
func (c *Config) SetConfigPath(path string) {
	c.configPath = path
}

// Save writes the configuration as YAML to ConfigPath.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), configDirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, configFilePerm); err != nil {
		return fmt.Errorf("writing config file %s: %w", c.configPath, err)
	}
	return nil
}

// Validate checks every section against its constraints.
func (c *Config) Validate() error {
	if c.loadErr != nil {
		return c.loadErr
	}
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid value %q for %s (rule %s)", fmt.Sprint(fe.Value()), fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("validating config: %w", err)
	}
	return nil
}
