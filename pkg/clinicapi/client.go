// Package clinicapi is the single network facility for the upstream clinic
// records API. Every call goes through Client.Do, which forwards the
// caller's token, throttles, traces, decodes the response and applies one
// alert policy.
package clinicapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/Alijeyrad/simorq_frontdesk/pkg/reqctx"
)

const instrumentationName = "github.com/Alijeyrad/simorq_frontdesk/pkg/clinicapi"

// Config holds upstream connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// RateLimit is requests per second across the process; zero disables
	// throttling.
	RateLimit float64
	Burst     int
}

// Request describes one upstream call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	// FieldErrors asks for per-field messages on a 400 and suppresses the
	// alert for it, because the form shows them inline.
	FieldErrors bool
}

// Result is what every call produces, success or not.
type Result struct {
	Data        json.RawMessage
	OK          bool
	StatusCode  int
	Message     string
	FieldErrors map[string]string
}

// Decode unmarshals Data into v.
func (r Result) Decode(v any) error {
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	alerter    Alerter

	tracer   trace.Tracer
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithAlerter(a Alerter) Option {
	return func(c *Client) { c.alerter = a }
}

func New(cfg Config, opts ...Option) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("clinicapi: invalid base url %q", cfg.BaseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		alerter:    LogAlerter{},
		tracer:     otel.Tracer(instrumentationName),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	meter := otel.Meter(instrumentationName)
	c.calls, _ = meter.Int64Counter(
		"clinicapi_request_count",
		metric.WithDescription("Upstream clinic API calls"),
		metric.WithUnit("{request}"),
	)
	c.duration, _ = meter.Float64Histogram(
		"clinicapi_request_duration_ms",
		metric.WithDescription("Upstream clinic API call duration in milliseconds"),
		metric.WithUnit("ms"),
	)

	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Do performs req. The returned Result is always populated; err is non-nil
// exactly when Result.OK is false and carries the typed failure.
func (c *Client) Do(ctx context.Context, req Request) (Result, error) {
	ctx, span := c.tracer.Start(ctx, "clinicapi "+req.Method+" "+req.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.route", req.Path),
		),
	)
	defer span.End()

	start := time.Now()
	res, err := c.do(ctx, req)

	attrs := metric.WithAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.route", req.Path),
		attribute.Int("http.status_code", res.StatusCode),
	)
	c.calls.Add(ctx, 1, attrs)
	c.duration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if !(req.FieldErrors && res.StatusCode == http.StatusBadRequest) {
			msg := res.Message
			if msg == "" && res.StatusCode != 0 {
				msg = http.StatusText(res.StatusCode)
			}
			if msg == "" {
				msg = err.Error()
			}
			c.alerter.Alert(ctx, msg, res.StatusCode)
		}
		return res, err
	}
	span.SetStatus(codes.Ok, "")
	return res, nil
}

func (c *Client) do(ctx context.Context, req Request) (Result, error) {
	res := Result{Data: json.RawMessage("{}")}

	token := reqctx.TokenFromContext(ctx)
	if token == "" {
		res.StatusCode = http.StatusUnauthorized
		res.Message = http.StatusText(http.StatusUnauthorized)
		return res, &AuthError{StatusCode: http.StatusUnauthorized, Message: ErrNoToken.Error()}
	}

	var body io.Reader
	var submitted []byte
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return res, &TransientError{Err: fmt.Errorf("marshal request: %w", err)}
		}
		submitted = b
		body = bytes.NewReader(b)
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return res, &TransientError{Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Token "+token)
	if id := reqctx.RequestIDFromContext(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return res, &TransientError{Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	httpRes, err := c.httpClient.Do(httpReq)
	if err != nil {
		return res, &TransientError{Err: fmt.Errorf("do request: %w", err)}
	}
	defer httpRes.Body.Close()

	res.StatusCode = httpRes.StatusCode
	res.OK = httpRes.StatusCode >= 200 && httpRes.StatusCode < 300

	raw, err := io.ReadAll(httpRes.Body)
	if err != nil {
		res.OK = false
		return res, &TransientError{StatusCode: httpRes.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}
	if isJSON(httpRes.Header.Get("Content-Type")) && len(bytes.TrimSpace(raw)) > 0 {
		if json.Valid(raw) {
			res.Data = raw
		}
	}

	if res.OK {
		return res, nil
	}

	var obj map[string]json.RawMessage
	_ = json.Unmarshal(res.Data, &obj)

	res.Message = messageOf(obj)
	if httpRes.StatusCode == http.StatusUnauthorized {
		res.Message = http.StatusText(http.StatusUnauthorized)
	}
	if req.FieldErrors && httpRes.StatusCode == http.StatusBadRequest && submitted != nil {
		res.FieldErrors = fieldErrors(submitted, obj)
	}
	return res, classify(httpRes.StatusCode, res.Message, res.FieldErrors)
}

func isJSON(contentType string) bool {
	return strings.Contains(contentType, "application/json")
}

// messageOf picks the human message in precedence order.
func messageOf(obj map[string]json.RawMessage) string {
	for _, key := range []string{"message", "non_field_errors", "detail"} {
		if m := firstString(obj[key]); m != "" {
			return m
		}
	}
	return ""
}

// fieldErrors returns the first message for each field that was submitted.
func fieldErrors(submitted []byte, obj map[string]json.RawMessage) map[string]string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(submitted, &fields); err != nil {
		return nil
	}
	out := make(map[string]string)
	for name := range fields {
		if m := firstString(obj[name]); m != "" {
			out[name] = m
		}
	}
	return out
}

// firstString accepts either "msg" or ["msg", ...].
func firstString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}

// Ping checks the upstream is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/ping", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return &TransientError{Err: err}
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return &TransientError{StatusCode: res.StatusCode}
	}
	return nil
}
