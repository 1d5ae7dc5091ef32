package typekit

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
)

// App serves the registered endpoints at /{Service}/{Method}.
type App struct {
	mu                 sync.RWMutex
	routes             map[string]Endpoint
	errorTransformer   ErrorTransformer
	maskInternalErrors bool
	interceptors       []UnaryInterceptor
	middlewares        []func(http.Handler) http.Handler
	logger             *slog.Logger
}

func NewApp() *App {
	return &App{
		routes: make(map[string]Endpoint),
	}
}

// WithErrorTransformer installs fn ahead of DefaultErrorTransformer.
func (a *App) WithErrorTransformer(fn ErrorTransformer) *App {
	a.errorTransformer = fn
	return a
}

// WithMaskInternalErrors replaces the message of internal errors with a
// generic one. Interceptors still see the original error.
func (a *App) WithMaskInternalErrors() *App {
	a.maskInternalErrors = true
	return a
}

// WithUnaryInterceptor adds an interceptor to every endpoint. App
// interceptors wrap service interceptors, which wrap handler interceptors.
func (a *App) WithUnaryInterceptor(i UnaryInterceptor) *App {
	a.interceptors = append(a.interceptors, i)
	return a
}

// WithMiddleware wraps the handler returned by Handler. The first middleware
// added is the outermost.
func (a *App) WithMiddleware(mw func(http.Handler) http.Handler) *App {
	a.middlewares = append(a.middlewares, mw)
	return a
}

// WithLogger sets the logger for recovered panics, duplicate registrations
// and response encoding failures. Defaults to slog.Default().
func (a *App) WithLogger(logger *slog.Logger) *App {
	a.logger = logger
	return a
}

func (a *App) log() *slog.Logger {
	if a.logger != nil {
		return a.logger
	}
	return slog.Default()
}

// Routes returns the registered endpoint IDs ("Service.Method"), sorted.
func (a *App) Routes() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	routes := make([]string, 0, len(a.routes))
	for key := range a.routes {
		routes = append(routes, key)
	}
	slices.Sort(routes)
	return routes
}

// Handler returns the app wrapped in its middleware:
//
//	app := typekit.NewApp()
//	typekit.NewTypesService(cat).Register(app)
//	http.ListenAndServe(":8080", app.Handler())
func (a *App) Handler() http.Handler {
	var h http.Handler = http.HandlerFunc(a.serveHTTP)
	for _, mw := range slices.Backward(a.middlewares) {
		h = mw(h)
	}
	return h
}

// Service returns the endpoint group called name.
func (a *App) Service(name string) *Service {
	return &Service{
		app:  a,
		name: name,
	}
}

// lookup finds the endpoint of a /{Service}/{Method} path.
func (a *App) lookup(path string) (service, method string, e Endpoint, ok bool) {
	service, method, found := strings.Cut(strings.Trim(path, "/"), "/")
	if !found || service == "" || method == "" || strings.Contains(method, "/") {
		return "", "", nil, false
	}
	a.mu.RLock()
	e, ok = a.routes[service+"."+method]
	a.mu.RUnlock()
	return service, method, e, ok
}

func (a *App) serveHTTP(w http.ResponseWriter, req *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			a.log().Error("PANIC recovered",
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())))
			writeError(w, NewError(CodeInternal, fmt.Sprintf("internal server error (panic): %v", rec)), a.logger)
		}
	}()

	service, method, e, ok := a.lookup(req.URL.Path)
	if !ok {
		writeError(w, NewError(CodeNotFound, "route not found"), a.logger)
		return
	}
	if want := e.HTTPMethod(); req.Method != want {
		w.Header().Set("Allow", want)
		writeError(w, Errorf(CodeMethodNotAllowed, "method %s not allowed, expected %s", req.Method, want), a.logger)
		return
	}

	ctx := newContext(req.Context(), w, req, service, method)
	ctx.errorTransformer = a.errorTransformer
	ctx.maskInternalErrors = a.maskInternalErrors
	ctx.interceptors = a.interceptors
	ctx.logger = a.logger
	e.serveHTTP(ctx)
}

// Service is a named group of endpoints, such as "Types".
type Service struct {
	app          *App
	name         string
	interceptors []UnaryInterceptor
}

// WithUnaryInterceptor adds an interceptor to the endpoints registered after
// the call.
func (s *Service) WithUnaryInterceptor(i UnaryInterceptor) *Service {
	s.interceptors = append(s.interceptors, i)
	return s
}

// Register mounts e at /{Service}/{name}. Registering a name twice replaces
// the earlier endpoint and logs a warning.
func (s *Service) Register(name string, e Endpoint) {
	key := s.name + "." + name
	s.app.mu.Lock()
	defer s.app.mu.Unlock()

	if _, exists := s.app.routes[key]; exists {
		s.app.log().Warn("duplicate route registration",
			slog.String("service", s.name),
			slog.String("method", name),
			slog.String("route", key))
	}
	s.app.routes[key] = &serviceEndpoint{
		inner:        e,
		interceptors: slices.Clone(s.interceptors),
	}
}

// serviceEndpoint runs the service interceptors after the app's.
type serviceEndpoint struct {
	inner        Endpoint
	interceptors []UnaryInterceptor
}

func (e *serviceEndpoint) HTTPMethod() string { return e.inner.HTTPMethod() }

func (e *serviceEndpoint) serveHTTP(ctx *rpcContext) {
	ctx.interceptors = slices.Concat(ctx.interceptors, e.interceptors)
	e.inner.serveHTTP(ctx)
}
