// Package loanapi is the HTTP client for the loan prediction service.
//
// The service exposes three GET endpoints returning JSON envelopes:
//
//	/loans-total-data                       {"data": [{date, book_id, borrowed_count}, ...]}
//	/predict/{n}?date=&is_peak_season=...   {"success": true, "data": {"prediction": ...}}
//	/evaluate                               {"success": true, "data": {"model_<n>": {...}}}
//
// Every call is guarded by a circuit breaker. Failed calls are never retried.
package loanapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rshade/loandash/internal/logging"
	"github.com/rshade/loandash/internal/metrics"
)

// Client defaults.
const (
	DefaultBaseURL     = "http://localhost:5004"
	DefaultMaxFailures = 5
	DefaultOpenTimeout = 30 * time.Second

	breakerName = "prediction-service"
	tracerName  = "github.com/rshade/loandash/internal/loanapi"

	// maxErrorBody caps how much of a failed response is read for its message.
	maxErrorBody = 4096
)

// Endpoint names used in logs, spans and metrics.
const (
	EndpointLoans    = "loans"
	EndpointPredict  = "predict"
	EndpointEvaluate = "evaluate"
)

// Error categories.
var (
	ErrNetwork             = errors.New("prediction service request failed")
	ErrMalformedResponse   = errors.New("malformed prediction service response")
	ErrUndecodable         = errors.New("prediction service response is not JSON")
	ErrUpstreamUnavailable = errors.New("prediction service unavailable")
	ErrInvalidRequest      = errors.New("invalid request")
)

// IsNetworkError reports whether err is a transport, status or breaker failure.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrUpstreamUnavailable)
}

// IsMalformed reports whether err came from a JSON response missing expected keys.
// A body that is not JSON at all is ErrUndecodable and does not match.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedResponse)
}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	// BaseURL is the prediction service root, e.g. http://localhost:5004.
	BaseURL string
	// Timeout bounds each request. Zero leaves the transport default in place.
	Timeout time.Duration
	// HTTPClient overrides the HTTP client. Timeout is ignored when set.
	HTTPClient *http.Client
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration
	// Logger receives breaker state changes.
	Logger *zerolog.Logger
}

// Client calls the prediction service.
type Client struct {
	baseURL  *url.URL
	http     *http.Client
	cb       *gobreaker.CircuitBreaker
	validate *validator.Validate
}

// envelope is the common response wrapper of the prediction service.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing base url %q: %w", base, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be an absolute http(s) url", base)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	maxFailures := opts.MaxFailures
	if maxFailures == 0 {
		maxFailures = DefaultMaxFailures
	}
	openTimeout := opts.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = DefaultOpenTimeout
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = logging.ComponentLogger(*opts.Logger, "loanapi")
	}

	settings := gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &Client{
		baseURL:  u,
		http:     httpClient,
		cb:       gobreaker.NewCircuitBreaker(settings),
		validate: validator.New(),
	}, nil
}

// BaseURL returns the prediction service root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchLoans returns the loan statistics dataset.
// A response without a "data" array yields ErrMalformedResponse.
func (c *Client) FetchLoans(ctx context.Context) ([]LoanRecord, error) {
	env, err := c.getEnvelope(ctx, EndpointLoans, nil, "loans-total-data")
	if err != nil {
		return nil, err
	}

	if !isArray(env.Data) {
		return nil, c.malformed(ctx, EndpointLoans, errors.New("data is not an array"))
	}
	var records []LoanRecord
	if err := json.Unmarshal(env.Data, &records); err != nil {
		return nil, c.malformed(ctx, EndpointLoans, err)
	}

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "loanapi").
		Int("record_count", len(records)).
		Msg("loan data received")

	return records, nil
}

// Predict requests a prediction from model req.ModelNo.
func (c *Client) Predict(ctx context.Context, req PredictRequest) (Prediction, error) {
	if err := c.validate.Struct(req); err != nil {
		return Prediction{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	query := url.Values{}
	query.Set("date", req.Date)
	query.Set("is_peak_season", flag(req.PeakSeason))
	query.Set("is_low_season", flag(req.LowSeason))

	env, err := c.getEnvelope(ctx, EndpointPredict, query, "predict", strconv.Itoa(req.ModelNo))
	if err != nil {
		return Prediction{}, err
	}
	if err := requireSuccess(env); err != nil {
		return Prediction{}, c.malformed(ctx, EndpointPredict, err)
	}

	var data struct {
		Prediction MetricValue `json:"prediction"`
	}
	if !isObject(env.Data) {
		return Prediction{}, c.malformed(ctx, EndpointPredict, errors.New("data is not an object"))
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return Prediction{}, c.malformed(ctx, EndpointPredict, err)
	}
	if data.Prediction.IsMissing() {
		return Prediction{}, c.malformed(ctx, EndpointPredict, errors.New("prediction is missing"))
	}

	return Prediction{Date: req.Date, Value: data.Prediction}, nil
}

// Evaluate returns the error metrics of every model, ordered by model number.
func (c *Client) Evaluate(ctx context.Context) (Evaluation, error) {
	env, err := c.getEnvelope(ctx, EndpointEvaluate, nil, "evaluate")
	if err != nil {
		return Evaluation{}, err
	}
	if err := requireSuccess(env); err != nil {
		return Evaluation{}, c.malformed(ctx, EndpointEvaluate, err)
	}

	eval, err := parseEvaluation(env.Data)
	if err != nil {
		return Evaluation{}, c.malformed(ctx, EndpointEvaluate, err)
	}
	return eval, nil
}

// getEnvelope performs a guarded GET and decodes the response envelope.
func (c *Client) getEnvelope(
	ctx context.Context,
	endpoint string,
	query url.Values,
	path ...string,
) (envelope, error) {
	u := c.baseURL.JoinPath(path...)
	u.RawQuery = query.Encode()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "loanapi."+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", http.MethodGet),
			attribute.String("http.url", u.String()),
		))
	defer span.End()

	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "loanapi").
		Str("endpoint", endpoint).
		Str("url", u.String()).
		Msg("requesting prediction service")

	timer := prometheus.NewTimer(metrics.UpstreamDuration.WithLabelValues(endpoint))
	body, err := c.cb.Execute(func() (interface{}, error) {
		return c.fetch(ctx, u.String())
	})
	timer.ObserveDuration()

	if err != nil {
		outcome := metrics.OutcomeNetwork
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
			outcome = metrics.OutcomeUnavailable
		}
		metrics.UpstreamRequests.WithLabelValues(endpoint, outcome).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		log.Error().
			Ctx(ctx).
			Err(err).
			Str("component", "loanapi").
			Str("endpoint", endpoint).
			Msg("prediction service request failed")
		return envelope{}, err
	}

	var env envelope
	if err := json.Unmarshal(body.([]byte), &env); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, metrics.OutcomeMalformed)
		return envelope{}, c.undecodable(ctx, endpoint, err)
	}

	metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.OutcomeSuccess).Inc()
	return env, nil
}

// fetch sends one GET request. Non-2xx responses are failures.
func (c *Client) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := upstreamMessage(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%w: %s returned status %d%s", ErrNetwork, target, resp.StatusCode, msg)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrNetwork, err)
	}
	return body, nil
}

// malformed records and logs a response that is missing expected keys.
func (c *Client) malformed(ctx context.Context, endpoint string, cause error) error {
	metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.OutcomeMalformed).Inc()
	logging.FromContext(ctx).Error().
		Ctx(ctx).
		Err(cause).
		Str("component", "loanapi").
		Str("endpoint", endpoint).
		Msg("unexpected response format")
	return fmt.Errorf("%w: %s: %w", ErrMalformedResponse, endpoint, cause)
}

func (c *Client) undecodable(ctx context.Context, endpoint string, cause error) error {
	metrics.UpstreamRequests.WithLabelValues(endpoint, metrics.OutcomeUndecodable).Inc()
	logging.FromContext(ctx).Error().
		Ctx(ctx).
		Err(cause).
		Str("component", "loanapi").
		Str("endpoint", endpoint).
		Msg("response body is not JSON")
	return fmt.Errorf("%w: %s: %w", ErrUndecodable, endpoint, cause)
}

// requireSuccess checks the success flag and the presence of data.
func requireSuccess(env envelope) error {
	if env.Success == nil || !*env.Success {
		if env.Message != "" {
			return fmt.Errorf("success is not true: %s", env.Message)
		}
		return errors.New("success is not true")
	}
	if NewMetricValue(env.Data).IsMissing() {
		return errors.New("data is missing")
	}
	return nil
}

// upstreamMessage extracts the "message" of an error envelope, formatted as a suffix.
func upstreamMessage(r io.Reader) string {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil || env.Message == "" {
		return ""
	}
	return ": " + env.Message
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
