package config

import (
	"github.com/rs/zerolog"

	"github.com/rshade/loandash/internal/loanapi"
)

// ClientOptions returns the prediction service client options described by c.
// logger may be nil.
func (c *Config) ClientOptions(logger *zerolog.Logger) loanapi.Options {
	return loanapi.Options{
		BaseURL:     c.Service.BaseURL,
		Timeout:     c.Service.Timeout,
		MaxFailures: c.Breaker.MaxFailures,
		OpenTimeout: c.Breaker.OpenTimeout,
		Logger:      logger,
	}
}
