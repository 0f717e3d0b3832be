package main

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bjaus/route"
	"github.com/bjaus/route/internal/app"
	"github.com/bjaus/route/internal/logger"
)

var strictRoutes bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&strictRoutes, "strict-routes", false, "fail startup when two routes share a verb and path")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, closer, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()
	slog.SetDefault(log)

	var opts []route.RouterOption
	if strictRoutes {
		opts = append(opts, route.WithStrictRoutes())
	}

	r, err := app.New(cfg, log, opts...)
	if err != nil {
		log.Error("registration failed", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := cfg.Server.Addr()
	log.Info("starting server",
		"addr", addr,
		"docs", cfg.Docs.UIPath,
		"spec", cfg.Docs.JSONPath,
		"routes", len(r.Routes()),
	)

	srv := &http.Server{
		Addr:              addr,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
	if err := r.Serve(ctx, srv, cfg.Server.ShutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", "error", err)
		return err
	}

	log.Info("server stopped")
	return nil
}
