package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvHome          = "LOANDASH_HOME"
	EnvProjectDir    = "LOANDASH_PROJECT_DIR"
	EnvBaseURL       = "LOANDASH_BASE_URL"
	EnvTimeout       = "LOANDASH_TIMEOUT"
	EnvMaxFailures   = "LOANDASH_BREAKER_MAX_FAILURES"
	EnvOpenTimeout   = "LOANDASH_BREAKER_OPEN_TIMEOUT"
	EnvOutputFormat  = "LOANDASH_OUTPUT_FORMAT"
	EnvLogLevel      = "LOANDASH_LOG_LEVEL"
	EnvLogFormat     = "LOANDASH_LOG_FORMAT"
	EnvLogFile       = "LOANDASH_LOG_FILE"
	EnvWebAddr       = "LOANDASH_WEB_ADDR"
	EnvOTLPEndpoint  = "LOANDASH_OTLP_ENDPOINT"
	dotEnvFileName   = ".env"
	uint32BitSize    = 32
)

// LoadDotEnv loads .env from the working directory when present.
// Variables already set in the environment keep their values.
func LoadDotEnv() error {
	return loadDotEnvFile(dotEnvFileName)
}

// loadDotEnvFile treats a missing file as empty. Any other failure, such as a
// syntax error, is returned.
func loadDotEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("loading %s: %w", path, err)
}

// ApplyEnv overrides configuration values from the environment.
// Unparseable values are reported and leave the current value untouched.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var firstErr error
	record := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	setString(lookup, EnvBaseURL, &c.Service.BaseURL)
	setString(lookup, EnvOutputFormat, &c.Output.DefaultFormat)
	setString(lookup, EnvLogLevel, &c.Logging.Level)
	setString(lookup, EnvLogFormat, &c.Logging.Format)
	setString(lookup, EnvLogFile, &c.Logging.File)
	setString(lookup, EnvWebAddr, &c.Web.Addr)
	setString(lookup, EnvOTLPEndpoint, &c.Web.OTLPEndpoint)
	record(setDuration(lookup, EnvTimeout, &c.Service.Timeout))
	record(setDuration(lookup, EnvOpenTimeout, &c.Breaker.OpenTimeout))

	if v, ok := lookup(EnvMaxFailures); ok && v != "" {
		n, err := strconv.ParseUint(v, 10, uint32BitSize)
		if err != nil {
			record(fmt.Errorf("parsing %s=%q: %w", EnvMaxFailures, v, err))
		} else {
			c.Breaker.MaxFailures = uint32(n)
		}
	}

	return firstErr
}

func setString(lookup func(string) (string, bool), key string, dst *string) {
	if v, ok := lookup(key); ok && v != "" {
		*dst = v
	}
}

// setDuration accepts Go duration strings ("1m30s") or whole seconds ("90").
func setDuration(lookup func(string) (string, bool), key string, dst *time.Duration) error {
	v, ok := lookup(key)
	if !ok || v == "" {
		return nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(secs) * time.Second
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parsing %s=%q: %w", key, v, err)
	}
	*dst = d
	return nil
}
