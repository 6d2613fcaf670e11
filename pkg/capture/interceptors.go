package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// RequestIDHeader carries the per-call correlation id.
const RequestIDHeader = "X-Request-ID"

// Request represents an HTTP request that can be intercepted.
type Request struct {
	Method   string
	Path     string
	Headers  http.Header
	Body     []byte
	Metadata map[string]interface{}
}

// Operation is the service operation name, the last path segment.
func (r *Request) Operation() string {
	return path.Base(r.Path)
}

// Response represents an HTTP response that can be intercepted.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{
		requestInterceptors:  make([]RequestInterceptor, 0),
		responseInterceptors: make([]ResponseInterceptor, 0),
	}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs all request interceptors.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

// LoggingInterceptor logs requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("Capture Request", map[string]interface{}{
			"operation":  req.Operation(),
			"request_id": req.Headers.Get(RequestIDHeader),
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses. Faults are logged at warn level.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"operation":   req.Operation(),
			"status_code": resp.StatusCode,
		}

		switch kind, isFault := FaultKindOf(resp.Error); {
		case isFault:
			fields["fault"] = string(kind)
			fields["error"] = resp.Error.Error()
			logger.Warn("Capture Fault", fields)
		case resp.Error != nil:
			fields["error"] = resp.Error.Error()
			logger.Error("Capture Response Error", fields)
		case resp.StatusCode >= http.StatusBadRequest:
			logger.Warn("Capture Fault", fields)
		default:
			logger.Debug("Capture Response", fields)
		}

		return nil
	}
}

// HeaderInterceptor adds custom headers to requests.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		for key, value := range headers {
			req.Headers.Set(key, value)
		}

		return nil
	}
}

// RequestIDInterceptor stamps every request with a fresh UUID unless one is already set.
func RequestIDInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Headers == nil {
			req.Headers = make(http.Header)
		}

		if req.Headers.Get(RequestIDHeader) == "" {
			req.Headers.Set(RequestIDHeader, uuid.NewString())
		}

		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata["start_time"] = time.Now()

		return nil
	}
}

// Metrics are per-operation call counters.
type Metrics struct {
	TotalRequests   int64
	TotalFaults     int64
	TotalErrors     int64
	TotalLatency    time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time
}

// MetricsCollector collects per-operation metrics.
type MetricsCollector struct {
	mu       sync.Mutex
	metrics  map[string]*Metrics
	onChange func(operation string, metrics Metrics)
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metrics),
	}
}

// SetOnChange sets a callback for when metrics change.
func (m *MetricsCollector) SetOnChange(fn func(operation string, metrics Metrics)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.onChange = fn
}

// GetMetrics returns a copy of the metrics for an operation.
func (m *MetricsCollector) GetMetrics(operation string) (Metrics, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	metrics, ok := m.metrics[operation]
	if !ok {
		return Metrics{}, false
	}

	return *metrics, true
}

// MetricsRequestInterceptor records request start time.
func MetricsRequestInterceptor() RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		if req.Metadata == nil {
			req.Metadata = make(map[string]interface{})
		}

		req.Metadata["start_time"] = time.Now()

		return nil
	}
}

// MetricsResponseInterceptor records response metrics.
func MetricsResponseInterceptor(collector *MetricsCollector) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		operation := req.Operation()

		collector.mu.Lock()

		metrics, ok := collector.metrics[operation]
		if !ok {
			metrics = &Metrics{}
			collector.metrics[operation] = metrics
		}

		metrics.TotalRequests++
		metrics.LastRequestTime = time.Now()

		if latency, ok := elapsed(req); ok {
			metrics.TotalLatency += latency
			metrics.AverageLatency = metrics.TotalLatency / time.Duration(metrics.TotalRequests)
		}

		switch {
		case IsRemoteFault(resp.Error), resp.Error == nil && resp.StatusCode >= http.StatusBadRequest:
			metrics.TotalFaults++
		case resp.Error != nil:
			metrics.TotalErrors++
		}

		snapshot := *metrics
		onChange := collector.onChange

		collector.mu.Unlock()

		if onChange != nil {
			onChange(operation, snapshot)
		}

		return nil
	}
}

// AuditPublisher publishes audit records. *nats.Conn satisfies it.
type AuditPublisher interface {
	Publish(subject string, data []byte) error
}

var _ AuditPublisher = (*nats.Conn)(nil)

// AuditRecord is published once per call by AuditInterceptor.
type AuditRecord struct {
	Operation  string    `json:"operation"`
	RequestID  string    `json:"requestId,omitempty"`
	StatusCode int       `json:"statusCode"`
	FaultKind  FaultKind `json:"faultKind,omitempty"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"durationMs"`
	Timestamp  time.Time `json:"timestamp"`
}

// AuditInterceptor publishes an AuditRecord for every call on
// subject.<operation>. Publish failures are reported to logger when one is
// given and never fail the call.
func AuditInterceptor(publisher AuditPublisher, subject string, logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		record := AuditRecord{
			Operation:  req.Operation(),
			RequestID:  req.Headers.Get(RequestIDHeader),
			StatusCode: resp.StatusCode,
			Timestamp:  time.Now().UTC(),
		}

		if latency, ok := elapsed(req); ok {
			record.DurationMS = latency.Milliseconds()
		}

		if resp.Error != nil {
			record.Error = resp.Error.Error()
			if kind, ok := FaultKindOf(resp.Error); ok {
				record.FaultKind = kind
			}
		}

		data, err := json.Marshal(record)
		if err == nil {
			err = publisher.Publish(subject+"."+record.Operation, data)
		}

		if err != nil && logger != nil {
			logger.Warn("audit publish failed", map[string]interface{}{
				"operation": record.Operation,
				"error":     err.Error(),
			})
		}

		return nil
	}
}

func elapsed(req *Request) (time.Duration, bool) {
	if req.Metadata == nil {
		return 0, false
	}

	start, ok := req.Metadata["start_time"].(time.Time)
	if !ok {
		return 0, false
	}

	return time.Since(start), true
}
