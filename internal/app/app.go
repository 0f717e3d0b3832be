// Package app assembles the HTTP router from configuration: global
// middleware, the stub controllers, and the documentation endpoints.
package app

import (
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/bjaus/route"
	"github.com/bjaus/route/internal/config"
	"github.com/bjaus/route/internal/controllers"
	"github.com/bjaus/route/internal/upload"
)

// Greeting is the body served at the root path.
const Greeting = "Hello World! chi + Go"

// New builds the router. It fails when any controller declaration is
// malformed or, with strict routes, when two routes collide.
func New(cfg *config.Config, logger *slog.Logger, opts ...route.RouterOption) (*route.Router, error) {
	bodyLimit, err := cfg.Server.BodyLimitBytes()
	if err != nil {
		return nil, err
	}
	maxUpload, err := cfg.Upload.MaxSizeBytes()
	if err != nil {
		return nil, err
	}

	r := route.New(append([]route.RouterOption{
		route.WithTitle(cfg.OpenAPI.Title),
		route.WithVersion(cfg.OpenAPI.Version),
		route.WithDescription(cfg.OpenAPI.Description),
		route.WithLogger(logger),
	}, opts...)...)

	r.Use(
		route.RequestID(),
		middleware.RealIP,
		route.Logger(logger),
		route.Recovery(logger),
		route.CORS(route.CORSConfig{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		}),
		route.RateLimit(route.RateLimitConfig{
			Rate:  cfg.RateLimit.Rate,
			Burst: cfg.RateLimit.Burst,
		}),
		limitNonMultipart(bodyLimit),
	)

	r.HandleFunc(http.MethodGet, "/", func(w http.ResponseWriter, _ *http.Request) {
		route.Text(w, http.StatusOK, Greeting)
	})
	r.HandleFunc(http.MethodGet, "/healthz", func(w http.ResponseWriter, _ *http.Request) {
		route.Text(w, http.StatusOK, "OK")
	})

	err = r.Register(controllers.All(controllers.Deps{
		Logger:  logger,
		Uploads: upload.Disk{Dir: cfg.Upload.Dir, MaxSize: maxUpload},
	})...)
	if err != nil {
		return nil, err
	}

	r.ServeSpec(cfg.Docs.JSONPath)
	if cfg.Docs.YAMLPath != "" {
		r.ServeSpecYAML(cfg.Docs.YAMLPath)
	}
	r.ServeSwaggerUI(cfg.Docs.UIPath, cfg.Docs.JSONPath)
	if cfg.Docs.ElementsPath != "" {
		r.ServeDocs(cfg.Docs.ElementsPath, route.WithDocsSpecURL(cfg.Docs.JSONPath))
	}

	return r, nil
}

// limitNonMultipart caps request bodies except multipart uploads, which the
// upload middleware limits on its own.
func limitNonMultipart(n int64) route.Middleware {
	limit := route.BodyLimit(n)
	return func(next http.Handler) http.Handler {
		limited := limit(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
				next.ServeHTTP(w, r)
				return
			}
			limited.ServeHTTP(w, r)
		})
	}
}
