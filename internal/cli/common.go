package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/loandash/internal/config"
	"github.com/rshade/loandash/internal/engine"
	"github.com/rshade/loandash/internal/loanapi"
	"github.com/rshade/loandash/internal/logging"
)

// Output formats accepted by --output.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// AlertError reports a failed fetch. Its message is the generic alert shown to
// the user; the underlying error is logged and reachable through Unwrap.
type AlertError struct {
	Endpoint string
	Err      error
}

func (e *AlertError) Error() string {
	return engine.AlertMessage(e.Endpoint)
}

func (e *AlertError) Unwrap() error {
	return e.Err
}

// alert logs err with its details and returns the AlertError shown to the user.
func alert(cmd *cobra.Command, endpoint string, err error) error {
	ctx := cmd.Context()
	logging.FromContext(ctx).Error().Ctx(ctx).Err(err).Str("endpoint", endpoint).Msg("fetch failed")
	return &AlertError{Endpoint: endpoint, Err: err}
}

// IsAlert reports whether err is, or wraps, an AlertError.
func IsAlert(err error) bool {
	var alertErr *AlertError
	return errors.As(err, &alertErr)
}

// newClient builds a prediction service client from the global configuration.
func newClient() (*loanapi.Client, error) {
	cfg := config.GetGlobalConfig()
	client, err := loanapi.New(cfg.ClientOptions(&logger))
	if err != nil {
		return nil, fmt.Errorf("creating prediction service client: %w", err)
	}
	return client, nil
}

// addOutputFlag registers --output on cmd.
func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", "",
		"output format: table, json, or yaml (default from config output.default_format)")
}

// resolveOutputFormat returns flagValue, or the configured default when it is empty.
func resolveOutputFormat(flagValue string) (string, error) {
	format := flagValue
	if format == "" {
		format = config.GetDefaultOutputFormat()
	}
	switch format {
	case OutputTable, OutputJSON, OutputYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

// renderStructured writes v as json or yaml.
func renderStructured(w io.Writer, format string, v any) error {
	if format == OutputYAML {
		return engine.RenderYAML(w, v)
	}
	return engine.RenderJSON(w, v)
}
