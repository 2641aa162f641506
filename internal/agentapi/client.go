// Package agentapi is the REST client for the remote agent service.
package agentapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"agentdesk/internal/telemetry"
)

// Endpoints of the agent service.
const (
	PathSkills  = "/api/agent/skills"
	PathMessage = "/api/agent/message"
	PathExecute = "/api/agent/execute"
)

// HeaderRequestID carries the correlation ID on every request.
const HeaderRequestID = "X-Request-ID"

const instrumentationName = "agentdesk/internal/agentapi"

// Client wraps the HTTP interactions with the agent REST API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *zap.Logger

	tracer   trace.Tracer
	requests metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
}

type clientOptions struct {
	httpClient     *http.Client
	timeout        time.Duration
	logger         *zap.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures a Client.
type Option func(*clientOptions)

// WithHTTPClient uses hc instead of a fresh http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithTimeout bounds every call. Zero keeps calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// WithTracerProvider sets the provider for client spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *clientOptions) { o.tracerProvider = tp }
}

// WithMeterProvider sets the provider for request counters.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *clientOptions) { o.meterProvider = mp }
}

// NewClient instantiates a client for the agent service at rawURL. Without
// WithTimeout the underlying http.Client has no timeout.
func NewClient(rawURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base url: %q", rawURL)
	}

	o := clientOptions{
		logger:         zap.NewNop(),
		tracerProvider: tracenoop.NewTracerProvider(),
		meterProvider:  metricnoop.NewMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	hc := &http.Client{}
	if o.httpClient != nil {
		copied := *o.httpClient
		hc = &copied
	}
	if o.timeout > 0 {
		hc.Timeout = o.timeout
	}

	meter := o.meterProvider.Meter(instrumentationName)
	requests, err := meter.Int64Counter(telemetry.MetricRequests,
		metric.WithDescription("Agent API calls by endpoint and outcome"))
	if err != nil {
		return nil, fmt.Errorf("create request counter: %w", err)
	}
	failures, err := meter.Int64Counter(telemetry.MetricFailures,
		metric.WithDescription("Failed agent API calls by endpoint"))
	if err != nil {
		return nil, fmt.Errorf("create failure counter: %w", err)
	}
	duration, err := meter.Float64Histogram(telemetry.MetricDuration,
		metric.WithDescription("Agent API call latency"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}

	return &Client{
		baseURL:    parsed,
		httpClient: hc,
		logger:     o.logger,
		tracer:     o.tracerProvider.Tracer(instrumentationName),
		requests:   requests,
		failures:   failures,
		duration:   duration,
	}, nil
}

// BaseURL returns the agent service address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Skills fetches the skill catalog.
func (c *Client) Skills(ctx context.Context) ([]Skill, error) {
	var out skillsWire
	if err := c.call(ctx, http.MethodGet, PathSkills, "", nil, &out); err != nil {
		return nil, err
	}
	if out.Skills == nil {
		return []Skill{}, nil
	}
	return out.Skills, nil
}

// Message fetches the connectivity probe message.
func (c *Client) Message(ctx context.Context) (Message, error) {
	var out messageWire
	if err := c.call(ctx, http.MethodGet, PathMessage, "", nil, &out); err != nil {
		return Message{}, err
	}
	if out.Message == nil {
		return Message{}, nil
	}
	return Message{Text: *out.Message, Present: true}, nil
}

// Execute sends one goal to the agent, scoped to req.Skill when set.
func (c *Client) Execute(ctx context.Context, req ExecutionRequest) (ExecutionResult, error) {
	if strings.TrimSpace(req.Goal) == "" {
		return ExecutionResult{}, ErrEmptyGoal
	}
	var out executionWire
	if err := c.call(ctx, http.MethodPost, PathExecute, req.Skill, req, &out); err != nil {
		return ExecutionResult{}, err
	}
	return out.result(), nil
}

func (c *Client) call(ctx context.Context, method, endpoint, skill string, payload, out any) (err error) {
	requestID := RequestIDFrom(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	ctx, span := c.tracer.Start(ctx, method+" "+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(telemetry.RequestAttributes(endpoint, requestID, skill)...),
	)
	start := time.Now()
	status := 0
	defer func() {
		elapsed := time.Since(start)
		attrs := metric.WithAttributes(telemetry.OutcomeAttributes(endpoint, err)...)
		c.requests.Add(ctx, 1, attrs)
		c.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)

		log := c.logger.With(
			zap.String("request_id", requestID),
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
		)
		if err != nil {
			c.failures.Add(ctx, 1, attrs)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Warn("agent call failed", zap.Error(err))
		} else {
			log.Debug("agent call completed")
		}
		span.End()
	}()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set(HeaderRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	rel := &url.URL{Path: path.Join(c.baseURL.Path, endpoint)}
	u := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return req, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read error response: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = string(bytes.TrimSpace(data))
		}
	}
	return apiErr
}
