// Package http is the JSON transport used by the capture client.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/capture-client/internal/constants"
	"github.com/fivetwenty-io/capture-client/pkg/capture"
)

// ErrNilRequest is returned by Do when req is nil.
var ErrNilRequest = errors.New("nil request")

// Logger is the logging surface the transport needs.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Request is a single call to the service.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
	// Body is JSON encoded unless it is already a []byte.
	Body interface{}
}

// Response is the raw result of a call.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client sends JSON requests to one base URL.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	logger       Logger
	debug        bool
	userAgent    string
	interceptors *capture.InterceptorChain
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug logs every request and response when a logger is set.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout bounds each attempt.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithRetryConfig opts into transport retries for connection errors and
// gateway statuses. Service faults are never retried.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithInterceptors attaches an interceptor chain.
func WithInterceptors(chain *capture.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient = httpClient
	}
}

// NewClient creates a transport for baseURL. Retries are off by default.
func NewClient(baseURL string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = constants.DefaultRetryMax
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.CheckRetry = checkRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: retryClient,
		userAgent:  constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// BaseURL returns the URL every path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// checkRetry retries connection failures and gateway statuses only. Any
// response carrying a service fault is final.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return true, nil //nolint:nilerr // connection errors are retryable
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return !carriesFault(resp), nil
	default:
		return false, nil
	}
}

// carriesFault reports whether resp has a fault body. The body is restored
// so Do can still decode it.
func carriesFault(resp *http.Response) bool {
	if resp.Body == nil {
		return false
	}

	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	resp.Body = io.NopCloser(bytes.NewReader(body))

	if err != nil {
		return false
	}

	faultResp, err := capture.ParseFaultResponse(body)

	return err == nil && len(faultResp.Faults) > 0
}

// Do executes req. A non-2xx response returns both the response and a
// *capture.FaultResponse error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	intercepted := &capture.Request{
		Method:  req.Method,
		Path:    req.Path,
		Headers: make(http.Header),
		Body:    body,
	}

	for key, value := range req.Headers {
		intercepted.Headers.Set(key, value)
	}

	if c.interceptors != nil {
		err = c.interceptors.ExecuteRequestInterceptors(ctx, intercepted)
		if err != nil {
			return nil, err
		}
	}

	httpReq, err := c.newRequest(ctx, req, intercepted)
	if err != nil {
		return nil, err
	}

	c.logRequest(intercepted)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		err = fmt.Errorf("executing request: %w", err)
		c.intercept(ctx, intercepted, &capture.Response{Error: err})

		return nil, err
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		err = fmt.Errorf("reading response body: %w", err)
		c.intercept(ctx, intercepted, &capture.Response{StatusCode: httpResp.StatusCode, Error: err})

		return nil, err
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
	}

	c.logResponse(intercepted, resp)

	var faultErr error
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		faultErr = parseFault(resp)
	}

	c.intercept(ctx, intercepted, &capture.Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
		Error:      faultErr,
	})

	if faultErr != nil {
		return resp, faultErr
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

func (c *Client) newRequest(ctx context.Context, req *Request, intercepted *capture.Request) (*retryablehttp.Request, error) {
	target := c.baseURL + intercepted.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var payload interface{}
	if intercepted.Body != nil {
		payload = intercepted.Body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, intercepted.Method, target, payload)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if intercepted.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for key, values := range intercepted.Headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	return httpReq, nil
}

func (c *Client) intercept(ctx context.Context, req *capture.Request, resp *capture.Response) {
	if c.interceptors == nil {
		return
	}

	err := c.interceptors.ExecuteResponseInterceptors(ctx, req, resp)
	if err != nil && c.logger != nil {
		c.logger.Warn("response interceptor failed", map[string]interface{}{"error": err.Error()})
	}
}

func (c *Client) logRequest(req *capture.Request) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method": req.Method,
		"url":    c.baseURL + req.Path,
	})
}

func (c *Client) logResponse(req *capture.Request, resp *Response) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Response", map[string]interface{}{
		"method":      req.Method,
		"url":         c.baseURL + req.Path,
		"status_code": resp.StatusCode,
		"body_bytes":  len(resp.Body),
	})
}

func encodeBody(body interface{}) ([]byte, error) {
	switch typed := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return typed, nil
	default:
		data, err := json.Marshal(typed)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}

		return data, nil
	}
}

// parseFault decodes a fault body. Bodies that carry no fault become a
// generic remote fault holding the HTTP status.
func parseFault(resp *Response) error {
	faultResp, err := capture.ParseFaultResponse(resp.Body)
	if err != nil || len(faultResp.Faults) == 0 {
		faultResp = &capture.FaultResponse{
			Faults: []capture.Fault{{
				Code:   capture.FaultCodeRemote,
				Title:  string(capture.FaultKindRemote),
				Detail: fallbackDetail(resp),
			}},
		}
	}

	faultResp.StatusCode = resp.StatusCode

	return faultResp
}

func fallbackDetail(resp *Response) string {
	detail := strings.TrimSpace(string(resp.Body))
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}

	return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, detail)
}
