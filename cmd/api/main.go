package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlexandrGonin/eatprayit-backend/internal/config"
	"github.com/AlexandrGonin/eatprayit-backend/internal/db"
	"github.com/AlexandrGonin/eatprayit-backend/internal/http/handlers"
	"github.com/AlexandrGonin/eatprayit-backend/internal/http/middleware"
	"github.com/AlexandrGonin/eatprayit-backend/internal/logging"
	"github.com/AlexandrGonin/eatprayit-backend/internal/store"
	"github.com/AlexandrGonin/eatprayit-backend/internal/store/memory"
	"github.com/AlexandrGonin/eatprayit-backend/internal/store/postgres"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local runs.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("log error: %v", err)
	}
	defer func() {
		_ = cleanup()
	}()
	logger = logger.With("service", "api")
	slog.SetDefault(logger)

	ctx := context.Background()

	var users store.UserStore
	var events store.EventStore
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("db error", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		users = postgres.NewUserStore(pool)
		events = postgres.NewEventStore(pool)
	default:
		users = memory.NewUserStore()
		events = memory.NewEventStore()
	}
	logger.Info("store_selected", "backend", cfg.StoreBackend)

	h := handlers.New(users, events, cfg, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(10 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", h.Health)
	r.Post("/auth/telegram", h.AuthTelegram)
	r.Post("/check-access", h.CheckAccess)
	r.Get("/profile/{id}", h.GetProfile)
	r.Get("/events/{id}", h.ListEvents)
	r.Get("/events/tags/{id}", h.EventTags)
	r.Get("/events/detail/{id}", h.EventDetail)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret, cfg.EnforceToken))
		r.Patch("/profile/{id}", h.UpdateProfile)
		r.Get("/admin/users", h.ListUsers)
	})

	r.NotFound(h.NotFound)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		logger.Info("api_listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutdown", "service", "api")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxShutdown)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
