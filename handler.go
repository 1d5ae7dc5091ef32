package typekit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

var (
	validate      = validator.New()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
}

// Endpoint is a handler that can be registered with Service.Register.
// Create one with Query.
type Endpoint interface {
	// HTTPMethod is the only method the endpoint accepts.
	HTTPMethod() string

	serveHTTP(ctx *rpcContext)
}

// QueryHandler serves a read-only call. The request struct is decoded from
// the URL query with gorilla/schema tags and validated with validator tags.
type QueryHandler[Req any, Res any] struct {
	fn           func(context.Context, Req) (Res, error)
	interceptors []UnaryInterceptor
	cacheTTL     time.Duration
}

// Query creates a GET endpoint from fn.
func Query[Req any, Res any](fn func(context.Context, Req) (Res, error)) *QueryHandler[Req, Res] {
	return &QueryHandler[Req, Res]{fn: fn}
}

// WithUnaryInterceptor adds an interceptor to this handler. Handler
// interceptors run after global and service interceptors.
func (h *QueryHandler[Req, Res]) WithUnaryInterceptor(i UnaryInterceptor) *QueryHandler[Req, Res] {
	h.interceptors = append(h.interceptors, i)
	return h
}

// CacheControl sets a Cache-Control max-age on successful responses.
func (h *QueryHandler[Req, Res]) CacheControl(ttl time.Duration) *QueryHandler[Req, Res] {
	h.cacheTTL = ttl
	return h
}

func (h *QueryHandler[Req, Res]) HTTPMethod() string { return http.MethodGet }

func (h *QueryHandler[Req, Res]) serveHTTP(ctx *rpcContext) {
	req, err := h.decodeRequest(ctx.request)
	if err != nil {
		handleError(ctx, err)
		return
	}

	interceptors := make([]UnaryInterceptor, 0, len(ctx.interceptors)+len(h.interceptors))
	interceptors = append(interceptors, ctx.interceptors...)
	interceptors = append(interceptors, h.interceptors...)

	final := func(inner context.Context, reqAny any) (any, error) {
		typed, ok := reqAny.(Req)
		if !ok {
			return nil, Errorf(CodeInternal, "interceptor changed request type to %T", reqAny)
		}
		return h.fn(inner, typed)
	}

	var res any
	if chain := chainInterceptors(interceptors); chain != nil {
		res, err = chain(ctx, req, final)
	} else {
		res, err = final(ctx, req)
	}
	if err != nil {
		handleError(ctx, err)
		return
	}

	w := ctx.writer
	w.Header().Set("Content-Type", "application/json")
	if h.cacheTTL > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(h.cacheTTL.Seconds())))
	}
	if err := encodeResponse(w, res); err != nil {
		logger(ctx).Error("failed to encode response",
			slog.String("endpoint", ctx.EndpointID()),
			slog.Any("error", err))
	}
}

// decodeRequest decodes and validates the query parameters of r. Req may be
// a struct or a pointer to one.
func (h *QueryHandler[Req, Res]) decodeRequest(r *http.Request) (Req, error) {
	var req Req
	target := any(&req)
	if t := reflect.TypeFor[Req](); t.Kind() == reflect.Pointer {
		v := reflect.New(t.Elem())
		req = v.Interface().(Req)
		target = v.Interface()
	}
	if err := schemaDecoder.Decode(target, r.URL.Query()); err != nil {
		return req, Errorf(CodeInvalidArgument, "failed to decode query: %v", err)
	}
	if err := validate.Struct(req); err != nil {
		return req, err
	}
	return req, nil
}

func handleError(ctx *rpcContext, err error) {
	var svcErr *Error
	if ctx.errorTransformer != nil {
		svcErr = ctx.errorTransformer(err)
	}
	if svcErr == nil {
		svcErr = DefaultErrorTransformer(err)
	}
	if ctx.maskInternalErrors && svcErr.Code == CodeInternal {
		svcErr = NewError(CodeInternal, "internal server error")
	}
	writeError(ctx.writer, svcErr, ctx.logger)
}

func logger(ctx *rpcContext) *slog.Logger {
	if ctx.logger != nil {
		return ctx.logger
	}
	return slog.Default()
}
