package web

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/rshade/loandash/internal/config"
	"github.com/rshade/loandash/internal/loanapi"
	"github.com/rshade/loandash/internal/logging"
	"github.com/rshade/loandash/internal/tracing"
)

// ServiceName identifies the dashboard in traces.
const ServiceName = "loandash"

// Module wires the dashboard server. It expects *config.Config and zerolog.Logger
// to be supplied by the application.
//
//nolint:gochecknoglobals // fx modules are declared once.
var Module = fx.Module("web",
	fx.Provide(
		fx.Annotate(NewClient, fx.As(new(DataSource))),
		NewRouterFromDeps,
		NewHTTPServer,
	),
	fx.Invoke(
		SetupTracer,
		StartServer,
	),
)

// NewClient builds the prediction service client from configuration.
func NewClient(cfg *config.Config, logger zerolog.Logger) (*loanapi.Client, error) {
	return loanapi.New(cfg.ClientOptions(&logger))
}

// NewRouterFromDeps adapts NewRouter to fx.
func NewRouterFromDeps(source DataSource, logger zerolog.Logger) (*mux.Router, error) {
	return NewRouter(Deps{Source: source, Logger: logging.ComponentLogger(logger, "web")})
}

// SetupTracer installs the tracer provider and flushes it on stop.
func SetupTracer(lc fx.Lifecycle, cfg *config.Config, logger zerolog.Logger) error {
	shutdown, err := tracing.InitTracer(context.Background(), ServiceName, cfg.Web.OTLPEndpoint)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize tracer")
		return err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Debug().Msg("shutting down tracer provider")
			return shutdown(ctx)
		},
	})
	return nil
}

// StartServer binds the listener on start, serves in the background, and shuts
// the server down gracefully on stop.
func StartServer(lc fx.Lifecycle, server *http.Server, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			ln, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return err
			}
			go func() {
				logger.Info().Str("address", ln.Addr().String()).Msg("starting dashboard server")
				if serveErr := server.Serve(ln); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
					logger.Error().Err(serveErr).Msg("dashboard server failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
