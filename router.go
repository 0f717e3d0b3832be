package route

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// Router is the central type that holds routes, middleware, and the
// documented endpoints. It implements http.Handler.
type Router struct {
	mux        *chi.Mux
	middleware []Middleware
	endpoints  []Endpoint
	routes     []Endpoint
	registered bool

	title       string
	version     string
	description string

	logger       *slog.Logger
	errorHandler ErrorHandler
	strict       bool

	mu sync.Mutex
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithTitle sets the API title (used in OpenAPI spec).
func WithTitle(title string) RouterOption {
	return func(r *Router) {
		r.title = title
	}
}

// WithVersion sets the API version (used in OpenAPI spec).
func WithVersion(version string) RouterOption {
	return func(r *Router) {
		r.version = version
	}
}

// WithDescription sets the API description (used in OpenAPI spec).
func WithDescription(desc string) RouterOption {
	return func(r *Router) {
		r.description = desc
	}
}

// WithLogger sets the logger for registration diagnostics.
func WithLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		r.logger = l
	}
}

// WithErrorHandler sets a custom error handler for validation failures.
func WithErrorHandler(h ErrorHandler) RouterOption {
	return func(r *Router) {
		r.errorHandler = h
	}
}

// WithStrictRoutes makes Register fail on two routes with the same verb and
// full path instead of keeping the later one.
func WithStrictRoutes() RouterOption {
	return func(r *Router) {
		r.strict = true
	}
}

// New creates a new Router with the given options.
func New(opts ...RouterOption) *Router {
	r := &Router{
		mux:     chi.NewRouter(),
		title:   "API",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Use adds middleware to the router. Middleware is applied in the order added.
func (r *Router) Use(mw ...Middleware) {
	r.middleware = append(r.middleware, mw...)
}

// Handle registers a plain handler outside the declaration system.
func (r *Router) Handle(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

// HandleFunc registers a plain handler for one verb outside the
// declaration system.
func (r *Router) HandleFunc(method, pattern string, h http.HandlerFunc) {
	r.mux.MethodFunc(method, pattern, h)
}

// ServeHTTP implements http.Handler.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler := http.Handler(r.mux)
	for i := len(r.middleware) - 1; i >= 0; i-- {
		handler = r.middleware[i](handler)
	}
	handler.ServeHTTP(w, req)
}

// ListenAndServe starts an HTTP server on the given address.
// It blocks until the context is cancelled, then shuts down gracefully.
func (r *Router) ListenAndServe(ctx context.Context, addr string) error {
	return r.Serve(ctx, &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
	}, 0)
}

// Serve runs srv with the router as its handler until ctx is cancelled,
// then allows in-flight requests up to shutdownTimeout (default 30s).
func (r *Router) Serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 30 * time.Second
	}
	srv.Handler = r

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Endpoints returns every endpoint produced by Register, routable or not.
func (r *Router) Endpoints() []Endpoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Endpoint(nil), r.endpoints...)
}

// Routes returns the endpoints actually bound, in binding order.
func (r *Router) Routes() []Endpoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Endpoint(nil), r.routes...)
}
