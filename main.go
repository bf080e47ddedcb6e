package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"memorize-server/api"
	"memorize-server/config"
	"memorize-server/loghandler"
	"memorize-server/storage"
	"memorize-server/theme"
	"memorize-server/ws"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(slog.New(loghandler.NewCompactHandler(os.Stderr, cfg.SlogLevel())))
	if envErr != nil {
		slog.Info("no .env file found; using environment variables", "tag", "main")
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("configuration rejected", "tag", "main", "err", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded", "tag", "main",
		"ws_port", cfg.WSPort,
		"store_key", cfg.ThemesStoreKey,
		"autosave_delay", cfg.AutosaveDelay(),
		"postgres", cfg.DatabaseURL != "",
		"themes_dir", cfg.ThemesDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slot, err := storage.Open(ctx, cfg.DatabaseURL, cfg.ThemesDir)
	if err != nil {
		slog.Error("opening theme storage failed", "tag", "main", "err", err)
		os.Exit(1)
	}
	defer slot.Close()

	themes := theme.NewStore(ctx, slot,
		theme.WithKey(cfg.ThemesStoreKey),
		theme.WithAutosaveDelay(cfg.AutosaveDelay()))

	hub := ws.NewHub(cfg, themes)
	go hub.Run(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.WSPort),
		Handler: newRouter(hub, api.NewHandler(cfg, themes)),
	}

	go func() {
		slog.Info("memorize server listening", "tag", "main", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "tag", "main", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down", "tag", "main")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("http shutdown", "tag", "main", "err", err)
	}
	if err := themes.Close(shutdownCtx); err != nil {
		slog.Warn("final theme save failed", "tag", "main", "err", err)
	}
}

// newRouter mounts the WebSocket endpoint and the theme API.
func newRouter(hub *ws.Hub, themes *api.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ws", hub.ServeWS)
	r.Mount("/api/themes", themes.Routes())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Warn("health check write", "tag", "main", "err", err)
		}
	})
	return r
}
