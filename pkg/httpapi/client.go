// Package httpapi is the single gateway to the employee API: it resolves URLs against the
// configured base, attaches the session's bearer token and normalizes every failure into *Error.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/uroojmurtaza-maker/oms-frontend/pkg/httpapi"

// TokenSource supplies the bearer token. An empty token means the caller is unauthenticated.
type TokenSource interface {
	Token() string
}

type Options struct {
	BaseURL         string
	Timeout         time.Duration
	RequestIDHeader string
	Tokens          TokenSource
	HTTPClient      *http.Client
	Logger          *logrus.Logger
}

// RequestOptions describes one call.
//
// Body is sent as JSON unless it is a *Multipart or an io.Reader; those keep their own
// Content-Type (ContentType for readers, the multipart boundary type for forms).
type RequestOptions struct {
	Params      url.Values
	Body        any
	ContentType string
	SkipAuth    bool
}

type Client struct {
	baseURL         *url.URL
	httpClient      *http.Client
	requestIDHeader string
	tokens          TokenSource
	log             *logrus.Logger
	tracer          trace.Tracer
	loading         atomic.Bool
}

func NewClient(opts Options) (*Client, error) {
	raw := strings.TrimSpace(opts.BaseURL)
	if raw == "" {
		return nil, &Error{Kind: KindConfig, Message: "API base URL is not configured"}
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, &Error{Kind: KindConfig, Message: fmt.Sprintf("invalid API base URL: %q", raw), Err: err}
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = newHTTPClient(opts.Timeout)
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		baseURL:         u,
		httpClient:      httpClient,
		requestIDHeader: opts.RequestIDHeader,
		tokens:          opts.Tokens,
		log:             log,
		tracer:          otel.Tracer(tracerName),
	}, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// Loading reports whether a call is in flight. With concurrent calls the last one to finish wins.
func (c *Client) Loading() bool {
	return c.loading.Load()
}

// BaseURL returns a copy of the configured base URL.
func (c *Client) BaseURL() url.URL {
	return *c.baseURL
}

func (c *Client) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, path, RequestOptions{Params: params})
}

func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPost, path, RequestOptions{Body: body})
}

func (c *Client) Put(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPut, path, RequestOptions{Body: body})
}

func (c *Client) Patch(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPatch, path, RequestOptions{Body: body})
}

func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.Do(ctx, http.MethodDelete, path, RequestOptions{})
}

// Do performs the request and returns the raw 2xx body. Every failure is an *Error.
func (c *Client) Do(ctx context.Context, method, path string, opts RequestOptions) ([]byte, error) {
	c.loading.Store(true)
	defer c.loading.Store(false)

	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "HTTP "+method, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	body, status, err := c.do(ctx, method, path, opts)

	result := "success"
	var apiErr *Error
	if errors.As(err, &apiErr) {
		result = string(apiErr.Kind)
		span.RecordError(err)
		span.SetStatus(codes.Error, apiErr.Message)
	}
	span.SetAttributes(
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
		attribute.Int("http.response.status_code", status),
	)
	m := getMetrics()
	m.requestsTotal.WithLabelValues(method, result).Inc()
	m.requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	return body, err
}

func (c *Client) do(ctx context.Context, method, path string, opts RequestOptions) ([]byte, int, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if len(opts.Params) > 0 {
		u.RawQuery = opts.Params.Encode()
	}

	body, contentType, err := encodeBody(opts)
	if err != nil {
		return nil, 0, &Error{Kind: KindValidation, Method: method, Path: path, Message: err.Error(), Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, 0, &Error{Kind: KindConfig, Method: method, Path: path, Message: err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	if c.requestIDHeader != "" {
		req.Header.Set(c.requestIDHeader, requestID)
	}
	if !opts.SkipAuth && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	log := c.log.WithFields(logrus.Fields{
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("httpapi: transport failure")
		return nil, 0, &Error{
			Kind:    KindNetwork,
			Method:  method,
			Path:    path,
			Message: firstNonEmpty(err.Error(), fallbackMessage(method)),
			Err:     err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.WithError(err).Warn("httpapi: reading response failed")
		return nil, resp.StatusCode, &Error{
			Kind:       KindNetwork,
			Method:     method,
			Path:       path,
			Message:    firstNonEmpty(err.Error(), fallbackMessage(method)),
			HTTPStatus: resp.StatusCode,
			Err:        err,
		}
	}

	log = log.WithField("status", resp.StatusCode)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope ErrorEnvelope
		_ = json.Unmarshal(respBody, &envelope)
		serverMessage := strings.TrimSpace(envelope.Message)
		log.WithField("server_message", serverMessage).Info("httpapi: request rejected")
		return nil, resp.StatusCode, &Error{
			Kind:          KindAPI,
			Method:        method,
			Path:          path,
			Message:       firstNonEmpty(serverMessage, fmt.Sprintf("Request failed with status code %d", resp.StatusCode)),
			ServerMessage: serverMessage,
			Code:          envelope.Code,
			HTTPStatus:    resp.StatusCode,
		}
	}
	log.Debug("httpapi: request completed")
	return respBody, resp.StatusCode, nil
}

func encodeBody(opts RequestOptions) (io.Reader, string, error) {
	switch b := opts.Body.(type) {
	case nil:
		return nil, "", nil
	case *Multipart:
		return b.encode()
	case io.Reader:
		return b, opts.ContentType, nil
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, "", errors.Wrap(err, "json marshal request")
		}
		return bytes.NewReader(raw), "application/json", nil
	}
}

// fallbackMessage is used only when neither the server nor the transport said anything.
func fallbackMessage(method string) string {
	if method == http.MethodGet {
		return "Failed to fetch data"
	}
	return method + " request failed"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// DecodeJSON unmarshals a response body, reporting failures as KindValidation errors.
func DecodeJSON(body []byte, out any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: KindValidation, Message: "malformed response body", Err: errors.Wrap(err, "json unmarshal response")}
	}
	return nil
}
