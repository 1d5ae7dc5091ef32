package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/broady/typekit"
)

func newLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level}))
}

func TestLoggingInterceptor(t *testing.T) {
	testErr := errors.New("test error")
	tests := []struct {
		name    string
		err     error
		want    []string
		notWant []string
	}{
		{"success", nil, []string{"request started", "request completed", "Types.Render", "duration"}, []string{"request failed"}},
		{"error", testErr, []string{"request started", "request failed", "test error"}, []string{"request completed"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			interceptor := LoggingInterceptor(newLogger(&buf, slog.LevelInfo))
			ctx := typekit.NewContext(context.Background(), "Types", "Render")

			res, err := interceptor(ctx, "request", func(ctx context.Context, req any) (any, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return "response", nil
			})
			if !errors.Is(err, tt.err) {
				t.Errorf("error = %v, want %v", err, tt.err)
			}
			if tt.err == nil && res != "response" {
				t.Errorf("result = %v, want response", res)
			}

			out := buf.String()
			for _, s := range tt.want {
				if !strings.Contains(out, s) {
					t.Errorf("log output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(out, s) {
					t.Errorf("log output contains %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestLoggingInterceptor_DebugRequest(t *testing.T) {
	type renderRequest struct{ Type string }

	for _, level := range []slog.Level{slog.LevelInfo, slog.LevelDebug} {
		t.Run(level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			interceptor := LoggingInterceptor(newLogger(&buf, level))
			ctx := typekit.NewContext(context.Background(), "Types", "Render")
			_, _ = interceptor(ctx, &renderRequest{Type: "List<int?>"}, func(ctx context.Context, req any) (any, error) {
				return nil, nil
			})
			got := strings.Contains(buf.String(), "List<int?>")
			if want := level == slog.LevelDebug; got != want {
				t.Errorf("request logged = %v, want %v:\n%s", got, want, buf.String())
			}
		})
	}
}

func TestLoggingInterceptor_NilLogger(t *testing.T) {
	interceptor := LoggingInterceptor(nil)
	ctx := typekit.NewContext(context.Background(), "Types", "Render")
	res, err := interceptor(ctx, "request", func(ctx context.Context, req any) (any, error) {
		return "response", nil
	})
	if err != nil || res != "response" {
		t.Errorf("interceptor() = (%v, %v), want (response, nil)", res, err)
	}
}

func TestLoggingInterceptor_PropagatesContext(t *testing.T) {
	type ctxKey struct{}
	interceptor := LoggingInterceptor(newLogger(&bytes.Buffer{}, slog.LevelInfo))
	base := context.WithValue(context.Background(), ctxKey{}, "v")
	ctx := typekit.NewContext(base, "Types", "Render")

	_, _ = interceptor(ctx, nil, func(ctx context.Context, req any) (any, error) {
		if ctx.Value(ctxKey{}) != "v" {
			t.Error("context value was not propagated")
		}
		return nil, nil
	})
}
