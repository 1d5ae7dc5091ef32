package typekit

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestChainInterceptors_Empty(t *testing.T) {
	if chain := chainInterceptors(nil); chain != nil {
		t.Errorf("chainInterceptors(nil) = non-nil")
	}
}

func TestChainInterceptors_Order(t *testing.T) {
	var calls []string
	record := func(name string) UnaryInterceptor {
		return func(ctx Context, req any, handler HandlerFunc) (any, error) {
			calls = append(calls, name+":before")
			res, err := handler(ctx, req)
			calls = append(calls, name+":after")
			return res, err
		}
	}
	chain := chainInterceptors([]UnaryInterceptor{record("a"), record("b")})
	res, err := chain(NewContext(context.Background(), "S", "M"), "req", func(ctx context.Context, req any) (any, error) {
		calls = append(calls, "handler")
		return req.(string) + "-res", nil
	})
	if err != nil {
		t.Fatalf("chain() error = %v", err)
	}
	if res != "req-res" {
		t.Errorf("chain() = %v, want req-res", res)
	}
	want := []string{"a:before", "b:before", "handler", "b:after", "a:after"}
	if !slices.Equal(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
}

func TestChainInterceptors_ShortCircuit(t *testing.T) {
	denied := errors.New("denied")
	deny := func(ctx Context, req any, handler HandlerFunc) (any, error) {
		return nil, denied
	}
	pass := func(ctx Context, req any, handler HandlerFunc) (any, error) {
		return handler(ctx, req)
	}
	called := false
	chain := chainInterceptors([]UnaryInterceptor{pass, deny})
	_, err := chain(NewContext(context.Background(), "S", "M"), nil, func(ctx context.Context, req any) (any, error) {
		called = true
		return nil, nil
	})
	if !errors.Is(err, denied) {
		t.Errorf("chain() error = %v, want %v", err, denied)
	}
	if called {
		t.Errorf("handler was called after short-circuit")
	}
}

func TestChainInterceptors_ContextPropagation(t *testing.T) {
	withValue := func(ctx Context, req any, handler HandlerFunc) (any, error) {
		return handler(context.WithValue(ctx, testKey{}, "v"), req)
	}
	var seen Context
	observe := func(ctx Context, req any, handler HandlerFunc) (any, error) {
		seen = ctx
		return handler(ctx, req)
	}
	chain := chainInterceptors([]UnaryInterceptor{withValue, observe})
	_, err := chain(NewContext(context.Background(), "Types", "Render"), nil, func(ctx context.Context, req any) (any, error) {
		if ctx.Value(testKey{}) != "v" {
			t.Errorf("handler context lost the value")
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("chain() error = %v", err)
	}
	if seen == nil || seen.EndpointID() != "Types.Render" || seen.Value(testKey{}) != "v" {
		t.Errorf("second interceptor saw %v", seen)
	}
}
