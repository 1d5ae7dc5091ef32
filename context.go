package typekit

import (
	"context"
	"log/slog"
	"net/http"
)

// Context carries the metadata of the current call. Interceptors receive it
// directly; handlers can recover it from their context.Context with
// FromContext.
type Context interface {
	context.Context

	// Service is the service name, e.g. "Types".
	Service() string

	// Method is the method name, e.g. "Render".
	Method() string

	// EndpointID is "Service.Method".
	EndpointID() string

	// HTTPRequest returns the underlying request, or nil outside of an HTTP call.
	HTTPRequest() *http.Request

	// HTTPWriter returns the response writer, or nil outside of an HTTP call.
	HTTPWriter() http.ResponseWriter
}

type contextKey struct{}

// rpcContext is the only Context implementation. It also carries the app
// configuration a handler needs to write its response.
type rpcContext struct {
	context.Context

	service string
	method  string
	request *http.Request
	writer  http.ResponseWriter

	errorTransformer   ErrorTransformer
	maskInternalErrors bool
	interceptors       []UnaryInterceptor
	logger             *slog.Logger
}

func newContext(parent context.Context, w http.ResponseWriter, r *http.Request, service, method string) *rpcContext {
	return &rpcContext{
		Context: parent,
		service: service,
		method:  method,
		request: r,
		writer:  w,
	}
}

// NewContext returns a Context outside of an HTTP call, for tests and for
// calling interceptors directly.
func NewContext(parent context.Context, service, method string) Context {
	return newContext(parent, nil, nil, service, method)
}

func (c *rpcContext) Service() string                 { return c.service }
func (c *rpcContext) Method() string                  { return c.method }
func (c *rpcContext) EndpointID() string              { return c.service + "." + c.method }
func (c *rpcContext) HTTPRequest() *http.Request      { return c.request }
func (c *rpcContext) HTTPWriter() http.ResponseWriter { return c.writer }

func (c *rpcContext) Value(key any) any {
	if key == (contextKey{}) {
		return c
	}
	return c.Context.Value(key)
}

// withParent returns a copy of c whose deadline, cancellation and values come
// from ctx. ctx must descend from c.
func (c *rpcContext) withParent(ctx context.Context) *rpcContext {
	cp := *c
	cp.Context = ctx
	return &cp
}

// FromContext returns the Context of the current call.
func FromContext(ctx context.Context) (Context, bool) {
	if c, ok := ctx.(Context); ok {
		return c, true
	}
	return rpcFromContext(ctx)
}

func rpcFromContext(ctx context.Context) (*rpcContext, bool) {
	c, ok := ctx.Value(contextKey{}).(*rpcContext)
	if !ok {
		return nil, false
	}
	if c.Context == ctx {
		return c, true
	}
	return c.withParent(ctx), true
}

// RequestFromContext returns the HTTP request of the current call.
func RequestFromContext(ctx context.Context) *http.Request {
	if c, ok := FromContext(ctx); ok {
		return c.HTTPRequest()
	}
	return nil
}

// SetHeader sets an HTTP response header. It is a no-op outside of an HTTP
// call.
func SetHeader(ctx context.Context, key, value string) {
	if c, ok := FromContext(ctx); ok && c.HTTPWriter() != nil {
		c.HTTPWriter().Header().Set(key, value)
	}
}
