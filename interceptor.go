package typekit

import (
	"context"
)

// HandlerFunc represents the next handler in an interceptor chain.
type HandlerFunc func(ctx context.Context, req any) (res any, err error)

// UnaryInterceptor wraps handler execution:
//
//	func timing(ctx typekit.Context, req any, handler typekit.HandlerFunc) (any, error) {
//	    start := time.Now()
//	    res, err := handler(ctx, req)
//	    log.Printf("%s took %v", ctx.EndpointID(), time.Since(start))
//	    return res, err
//	}
//
// Interceptors can inspect or replace the request and response, short-circuit
// by returning an error, or derive a new context with context.WithValue before
// calling handler. req is the decoded, validated request struct.
type UnaryInterceptor func(ctx Context, req any, handler HandlerFunc) (res any, err error)

// chainInterceptors combines multiple interceptors into a single one.
// The first interceptor in the slice is the outer-most one (runs first).
func chainInterceptors(interceptors []UnaryInterceptor) UnaryInterceptor {
	if len(interceptors) == 0 {
		return nil
	}
	if len(interceptors) == 1 {
		return interceptors[0]
	}
	return func(ctx Context, req any, handler HandlerFunc) (any, error) {
		chain := handler
		for i := len(interceptors) - 1; i >= 0; i-- {
			current := interceptors[i]
			next := chain
			chain = func(inner context.Context, req any) (any, error) {
				c, ok := FromContext(inner)
				if !ok {
					// The interceptor replaced the context with an unrelated one.
					c = ctx
				}
				return current(c, req, next)
			}
		}
		return chain(ctx, req)
	}
}
