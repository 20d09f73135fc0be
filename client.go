package graphql

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDHeader carries the id generated for every request. It shows up
// in debug logs so a request can be matched with the server's own logs.
const RequestIDHeader = "X-Request-Id"

const tracerName = "github.com/llehouerou/go-saleor-catalog"

// This function allows you to tweak the HTTP request. It might be useful to set authentication
// headers  amongst other things
type RequestModifier func(*http.Request)

// Executor runs a prepared GraphQL document and decodes the response data into v.
// It is the capability the typed queries of a catalog are bound to.
type Executor interface {
	Exec(ctx context.Context, query string, v any, variables any, options ...Option) error
}

// RawExecutor is implemented by executors that can hand back the undecoded data.
type RawExecutor interface {
	ExecRaw(ctx context.Context, query string, variables any, options ...Option) ([]byte, error)
}

// Client is a GraphQL client for prepared documents.
//
// # Immutable Pattern
//
// The Client's With* methods follow an immutable pattern: they return a new
// Client instance rather than modifying the receiver. This allows for safe
// concurrent use and makes it clear when configuration changes take effect.
//
// Always use the returned Client:
//
//	client = client.WithDebug(true)  // Correct
//	client.WithDebug(true)            // Wrong - original client unchanged
type Client struct {
	url             string // GraphQL server URL.
	httpClient      *http.Client
	requestModifier RequestModifier
	debug           bool
	logger          logrus.FieldLogger
	metrics         *Metrics
	tracerProvider  trace.TracerProvider
}

var (
	_ Executor    = (*Client)(nil)
	_ RawExecutor = (*Client)(nil)
)

// NewClient creates a GraphQL client targeting the specified GraphQL server URL.
// If httpClient is nil, then http.DefaultClient is used.
func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		url:        url,
		httpClient: httpClient,
		logger:     discardLogger(),
	}
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Exec executes a prepared document and unmarshals the response data into v.
// Fragments spread by the document must already be part of query.
//
// When the server answers with both data and errors, v is populated with the
// partial data and the returned error is of type Errors.
func (c *Client) Exec(
	ctx context.Context,
	query string,
	v any,
	variables any,
	options ...Option,
) error {
	data, resp, respBuf, errs := c.request(ctx, query, variables, options...)
	return c.processResponse(v, data, resp, respBuf, errs)
}

// ExecRaw executes a prepared document and returns the raw json data.
func (c *Client) ExecRaw(
	ctx context.Context,
	query string,
	variables any,
	options ...Option,
) ([]byte, error) {
	data, _, _, errs := c.request(ctx, query, variables, options...)
	if len(errs) > 0 {
		return data, errs
	}
	return data, nil
}

// handleGzipResponse wraps the response body reader with a gzip decompressor
// if the Content-Encoding header indicates gzip compression.
func handleGzipResponse(
	resp *http.Response,
	bodyReader io.Reader,
) (io.ReadCloser, error) {
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gr, err := gzip.NewReader(bodyReader)
		if err != nil {
			return nil, fmt.Errorf("problem trying to create gzip reader: %w", err)
		}
		return gr, nil
	}
	return io.NopCloser(bodyReader), nil
}

func (c *Client) request(
	ctx context.Context,
	query string,
	variables any,
	options ...Option,
) (data []byte, resp *http.Response, respReader io.Reader, errs Errors) {
	opts, err := constructOptions(options)
	if err != nil {
		return nil, nil, nil, newSimpleErrors(ErrGraphQLEncode, err)
	}
	operation := opts.operationName
	if operation == "" {
		operation = "anonymous"
	}

	ctx, span := c.tracer().Start(
		ctx,
		"graphql "+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("graphql.operation.name", operation)),
	)
	requestID := uuid.NewString()
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		status := statusOf(errs)
		c.metrics.observe(operation, status, elapsed)
		span.SetAttributes(attribute.String("graphql.request.id", requestID))
		if len(errs) > 0 {
			span.RecordError(errs)
			span.SetStatus(codes.Error, status)
		}
		span.End()
		c.logger.WithFields(logrus.Fields{
			"operation":  operation,
			"request_id": requestID,
			"status":     status,
			"duration":   elapsed,
		}).Debug("graphql request")
	}()

	request, reqBody, err := c.BuildRequest(ctx, query, variables, options...)
	if err != nil {
		e := c.NewRequestError(
			ErrRequestError,
			fmt.Errorf("problem constructing request: %w", err),
			request,
			nil,
			bytes.NewReader(reqBody),
			nil,
		)
		return nil, nil, nil, Errors{e}
	}
	request.Header.Set(RequestIDHeader, requestID)

	resp, err = c.httpClient.Do(request)
	if err != nil {
		e := c.NewRequestError(
			ErrRequestError,
			err,
			request,
			nil,
			bytes.NewReader(reqBody),
			nil,
		)
		return nil, nil, nil, Errors{e}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		e := c.NewRequestError(
			ErrRequestError,
			fmt.Errorf("%v; body: %q", resp.Status, body),
			request,
			resp,
			bytes.NewReader(reqBody),
			bytes.NewReader(body),
		)
		return nil, nil, nil, Errors{e}
	}

	r, err := handleGzipResponse(resp, resp.Body)
	if err != nil {
		return nil, nil, nil, newSimpleErrors(ErrJsonDecode, err)
	}
	defer func() { _ = r.Close() }()

	// The body is kept in memory so decode errors can carry it in debug mode.
	respBody, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, nil, newSimpleErrors(ErrJsonDecode, err)
	}

	rawData, gqlErrors := c.DecodeResponse(bytes.NewReader(respBody))
	if len(gqlErrors) == 0 {
		return rawData, resp, bytes.NewReader(respBody), nil
	}

	if gqlErrors[0].GetCode() == ErrJsonDecode {
		we := c.NewRequestError(
			ErrJsonDecode,
			fmt.Errorf("%s", gqlErrors[0].Message),
			request,
			resp,
			bytes.NewReader(reqBody),
			bytes.NewReader(respBody),
		)
		return nil, nil, nil, Errors{we}
	}

	if c.debug && gqlErrors[0].getInternalExtension()["request"] == nil {
		gqlErrors[0] = c.DecorateError(
			gqlErrors[0],
			request,
			resp,
			bytes.NewReader(reqBody),
			bytes.NewReader(respBody),
		)
	}
	return rawData, resp, bytes.NewReader(respBody), gqlErrors
}

// BuildRequest constructs an HTTP request with JSON body for a GraphQL document.
// It returns the HTTP request and the request body bytes (useful for error decoration).
func (c *Client) BuildRequest(
	ctx context.Context,
	query string,
	variables any,
	options ...Option,
) (*http.Request, []byte, error) {
	opts, err := constructOptions(options)
	if err != nil {
		return nil, nil, err
	}
	if !hasVariables(variables) {
		variables = nil
	}
	in := struct {
		Query         string `json:"query"`
		OperationName string `json:"operationName,omitempty"`
		Variables     any    `json:"variables,omitempty"`
	}{
		Query:         query,
		OperationName: opts.operationName,
		Variables:     variables,
	}
	var buf bytes.Buffer
	err = json.NewEncoder(&buf).Encode(in)
	if err != nil {
		return nil, nil, err
	}

	reqBody := buf.Bytes()
	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.url,
		bytes.NewReader(reqBody),
	)
	if err != nil {
		return nil, reqBody, err
	}
	request.Header.Add("Content-Type", "application/json")

	if c.requestModifier != nil {
		c.requestModifier(request)
	}

	return request, reqBody, nil
}

// DecodeResponse decodes a GraphQL JSON response into raw data and errors.
// It returns the raw data bytes (if present) and any GraphQL errors.
func (c *Client) DecodeResponse(reader io.Reader) ([]byte, Errors) {
	var out struct {
		Data   *json.RawMessage
		Errors Errors
	}

	err := json.NewDecoder(reader).Decode(&out)
	if err != nil {
		return nil, newSimpleErrors(ErrJsonDecode, err)
	}

	var rawData []byte
	if out.Data != nil && len(*out.Data) > 0 && string(*out.Data) != "null" {
		rawData = *out.Data
	}

	if len(out.Errors) > 0 {
		return rawData, out.Errors
	}

	return rawData, nil
}

func (c *Client) processResponse(
	v any,
	data []byte,
	resp *http.Response,
	respBuf io.Reader,
	errs Errors,
) error {
	if len(data) > 0 && v != nil {
		err := json.Unmarshal(data, v)
		if err != nil {
			we := c.DecorateError(
				newError(ErrGraphQLDecode, err),
				nil,
				resp,
				nil,
				respBuf,
			)
			errs = append(errs, we)
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// hasVariables checks if variables exist and should be sent.
// Returns false for nil, empty maps and structs without fields.
func hasVariables(variables any) bool {
	if variables == nil {
		return false
	}
	v := reflect.ValueOf(variables)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map:
		return v.Len() > 0
	case reflect.Struct:
		return v.NumField() > 0
	}
	return true
}

// clone creates a copy of the Client with all fields preserved.
func (c *Client) clone() *Client {
	return &Client{
		url:             c.url,
		httpClient:      c.httpClient,
		requestModifier: c.requestModifier,
		debug:           c.debug,
		logger:          c.logger,
		metrics:         c.metrics,
		tracerProvider:  c.tracerProvider,
	}
}

// WithRequestModifier returns a new Client with the request modifier set.
// Saleor staff tokens are usually attached this way:
//
//	client = client.WithRequestModifier(func(r *http.Request) {
//		r.Header.Set("Authorization", "Bearer "+token)
//	})
func (c *Client) WithRequestModifier(f RequestModifier) *Client {
	clone := c.clone()
	clone.requestModifier = f
	return clone
}

// WithDebug returns a new Client with debug mode enabled or disabled.
// When enabled, debug mode adds detailed request/response information to
// error extensions, which is useful for troubleshooting GraphQL API issues.
func (c *Client) WithDebug(debug bool) *Client {
	clone := c.clone()
	clone.debug = debug
	return clone
}

// WithLogger returns a new Client logging every request at debug level.
// A nil logger silences the client again.
func (c *Client) WithLogger(logger logrus.FieldLogger) *Client {
	clone := c.clone()
	if logger == nil {
		logger = discardLogger()
	}
	clone.logger = logger
	return clone
}

// WithMetrics returns a new Client recording request counts and latencies into m.
func (c *Client) WithMetrics(m *Metrics) *Client {
	clone := c.clone()
	clone.metrics = m
	return clone
}

// WithTracerProvider returns a new Client creating its spans from tp instead
// of the global otel provider.
func (c *Client) WithTracerProvider(tp trace.TracerProvider) *Client {
	clone := c.clone()
	clone.tracerProvider = tp
	return clone
}

func (c *Client) tracer() trace.Tracer {
	tp := c.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(tracerName)
}

// DecorateError decorates an error with request/response information if debug
// mode is enabled.
func (c *Client) DecorateError(
	err Error,
	req *http.Request,
	resp *http.Response,
	reqBody,
	respBody io.Reader,
) Error {
	if !c.debug {
		return err
	}

	if req != nil && reqBody != nil {
		err = err.withRequest(req, reqBody)
	}

	if resp != nil && respBody != nil {
		err = err.withResponse(resp, respBody)
	}

	return err
}

// NewRequestError creates a new error with the given code and decorates it with
// request/response information if debug mode is enabled.
func (c *Client) NewRequestError(
	code string,
	err error,
	req *http.Request,
	resp *http.Response,
	reqBody,
	respBody io.Reader,
) Error {
	e := newError(code, err)
	return c.DecorateError(e, req, resp, reqBody, respBody)
}
