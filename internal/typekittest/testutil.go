// Package typekittest provides helpers for testing typekit HTTP endpoints.
// It does not import typekit, so any package in the module can use it.
package typekittest

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

// RequestBuilder helps construct test HTTP requests with a fluent API.
type RequestBuilder struct {
	httpMethod string
	path       string
	body       []byte
	headers    map[string]string
	query      url.Values
}

// NewRequest creates a GET / request builder.
func NewRequest() *RequestBuilder {
	return &RequestBuilder{
		httpMethod: http.MethodGet,
		path:       "/",
		headers:    make(map[string]string),
		query:      make(url.Values),
	}
}

// GET sets the HTTP method to GET.
func (b *RequestBuilder) GET(path string) *RequestBuilder {
	b.httpMethod = http.MethodGet
	b.path = path
	return b
}

// POST sets the HTTP method to POST.
func (b *RequestBuilder) POST(path string) *RequestBuilder {
	b.httpMethod = http.MethodPost
	b.path = path
	return b
}

// WithBody sets the raw request body.
func (b *RequestBuilder) WithBody(body string) *RequestBuilder {
	b.body = []byte(body)
	return b
}

// WithHeader adds a header to the request.
func (b *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	b.headers[key] = value
	return b
}

// WithQuery adds a query parameter. Values are escaped, so type expressions
// like "List<int?>" can be passed as is.
func (b *RequestBuilder) WithQuery(key, value string) *RequestBuilder {
	b.query.Add(key, value)
	return b
}

// Build creates the HTTP request and ResponseRecorder.
func (b *RequestBuilder) Build() (*http.Request, *httptest.ResponseRecorder) {
	target := b.path
	if len(b.query) > 0 {
		target += "?" + b.query.Encode()
	}
	var req *http.Request
	if len(b.body) > 0 {
		req = httptest.NewRequest(b.httpMethod, target, bytes.NewReader(b.body))
	} else {
		req = httptest.NewRequest(b.httpMethod, target, nil)
	}
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}
	return req, httptest.NewRecorder()
}

// Serve builds the request and serves it with h.
func (b *RequestBuilder) Serve(h http.Handler) *httptest.ResponseRecorder {
	req, w := b.Build()
	h.ServeHTTP(w, req)
	return w
}

// AssertStatus checks that the response has the expected status code.
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int) {
	t.Helper()
	if w.Code != expectedStatus {
		t.Errorf("expected status %d, got %d\nBody: %s", expectedStatus, w.Code, w.Body.String())
	}
}

// ErrorResponse is the decoded {"error": {...}} envelope.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type responseEnvelope struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ErrorResponse  `json:"error,omitempty"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Errorf("expected Content-Type to contain application/json, got %s", ct)
	}
	var envelope responseEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response envelope: %v\nBody: %s", err, w.Body.String())
	}
	return envelope
}

// DecodeResult decodes the {"result": ...} envelope into v, failing the
// test on an error response.
func DecodeResult(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	envelope := decodeEnvelope(t, w)
	if envelope.Error != nil {
		t.Fatalf("expected success response but got error: %s: %s", envelope.Error.Code, envelope.Error.Message)
	}
	if err := json.Unmarshal(envelope.Result, v); err != nil {
		t.Fatalf("failed to decode result: %v\nBody: %s", err, w.Body.String())
	}
}

// AssertJSONError checks that the response holds an error with the expected
// code and returns it.
func AssertJSONError(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) *ErrorResponse {
	t.Helper()
	envelope := decodeEnvelope(t, w)
	if envelope.Error == nil {
		t.Fatalf("expected error response but got result: %s", string(envelope.Result))
	}
	if envelope.Error.Code != expectedCode {
		t.Errorf("expected error code %s, got %s (message: %s)", expectedCode, envelope.Error.Code, envelope.Error.Message)
	}
	return envelope.Error
}

// AssertHeader checks that a response header has the expected value.
func AssertHeader(t *testing.T, w *httptest.ResponseRecorder, key, expectedValue string) {
	t.Helper()
	if actual := w.Header().Get(key); actual != expectedValue {
		t.Errorf("expected header %s=%s, got %s", key, expectedValue, actual)
	}
}
