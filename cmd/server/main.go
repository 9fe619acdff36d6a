package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/schedit/schedit/backend-go/internal/auth"
	"github.com/schedit/schedit/backend-go/internal/config"
	"github.com/schedit/schedit/backend-go/internal/db"
	"github.com/schedit/schedit/backend-go/internal/document"
	"github.com/schedit/schedit/backend-go/internal/engine"
	"github.com/schedit/schedit/backend-go/internal/export"
	mw "github.com/schedit/schedit/backend-go/internal/middleware"
	"github.com/schedit/schedit/backend-go/internal/painter"
	"github.com/schedit/schedit/backend-go/internal/session"
	"github.com/schedit/schedit/backend-go/internal/store"
	"github.com/schedit/schedit/backend-go/internal/symbol"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("open store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	symbols := symbol.Builtin()
	var text document.TextMeasurer = painter.NewFontMeasurer()

	authService := auth.NewService(cfg.SessionSecret, auth.DefaultTTL)
	authHandler := auth.NewHandler(authService, cfg.AutosaveSlot)

	hub := session.NewHub(session.Options{
		Engine: engine.Options{
			Symbols:      symbols,
			Text:         text,
			HistoryLimit: cfg.HistoryLimit,
			GridSize:     cfg.GridSize,
		},
		Store: st,
	})
	go hub.Run()

	exportHandler := export.NewHandler(painter.Painter{Symbols: symbols, Text: text}, st, hub)

	origins := mw.SplitOrigins(cfg.AllowedOrigins)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(origins))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/sessions", authHandler.CreateSession).Methods("POST", "OPTIONS")

	// Export and slot listing (public)
	r.HandleFunc("/export/{format}", exportHandler.Export).Methods("POST", "OPTIONS")
	r.HandleFunc("/documents", exportHandler.List).Methods("GET")
	r.HandleFunc("/documents/{slot}/export/{format}", exportHandler.ExportSlot).Methods("GET")

	// Slot documents, scoped to the token's slot
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.Middleware)

	api.HandleFunc("/documents/{slot}", exportHandler.Get).Methods("GET", "OPTIONS")
	api.HandleFunc("/documents/{slot}", exportHandler.Put).Methods("PUT")
	api.HandleFunc("/documents/{slot}", exportHandler.Delete).Methods("DELETE")

	// WebSocket endpoint
	r.Handle("/ws", authService.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, origins)
	})))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first so every open document is flushed
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openStore picks Postgres when a database URL is configured and the local
// SQLite file otherwise.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		st, err := store.NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.Info("autosave store", "backend", "postgres")
		return st, pool.Close, nil
	}

	st, err := store.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("autosave store", "backend", "sqlite", "path", cfg.SQLitePath)
	return st, func() { st.Close() }, nil
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *session.Hub, origins []string) {
	sess := auth.SessionFromContext(r.Context())
	if sess == nil {
		http.Error(w, "missing session", http.StatusUnauthorized)
		return
	}

	session.ServeWS(w, r, hub, sess.Slot, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(origins),
	})
}

// originPatterns strips schemes; the websocket library matches on host.
func originPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
			continue
		}
		out = append(out, o)
	}
	return out
}
