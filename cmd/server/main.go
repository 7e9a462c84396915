// Command server runs the synchronizer as a standalone HTTP service, for
// Cloud Run or local use.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	sheetssynchronizer "github.com/pipesync/server/functions/sheets-synchronizer"
	"github.com/pipesync/server/pkg/bootstrap"
	"github.com/pipesync/server/pkg/framework"
)

const serviceName = "pipesync-server"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := bootstrap.NewService(ctx)
	if err != nil {
		slog.Error("Failed to initialize service", "error", err)
		os.Exit(1)
	}

	port := "8080"
	if p := os.Getenv("PORT"); p != "" {
		port = p
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           newRouter(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Shutdown failed", "error", err)
		}
	}()

	slog.Info("Listening", "port", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func newRouter(svc *bootstrap.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Post("/synchronize", framework.WrapHTTP(serviceName, svc, sheetssynchronizer.HandleRequest))

	return r
}
