// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"bookstack/internal/books"
	"bookstack/internal/borrow"
	"bookstack/internal/config"
	"bookstack/internal/httpx"
	"bookstack/internal/observability"
	"bookstack/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	httpx.SetProduction(cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := storage.Migrate(ctx, db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTLPEndpoint, "bookstack-api")
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}

	bookStore := books.NewPostgresStore(db)
	bookHandler := books.NewHandler(books.NewService(bookStore))

	borrowStore := borrow.NewPostgresStore(db)
	borrowHandler := borrow.NewHandler(borrow.NewService(borrowStore, bookStore))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, bookHandler, borrowHandler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Library Management Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("tracing shutdown: %v", err)
	}
}

func newRouter(cfg *config.Config, bookHandler *books.Handler, borrowHandler *borrow.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(httpx.Recover)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Requested-With"},
		MaxAge:         300,
	}))
	r.Use(middleware.Timeout(30 * time.Second))
	if cfg.RateLimitRPS > 0 {
		r.Use(httpx.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Library Management Server is running!"))
	})

	mount := func(r chi.Router) {
		bookHandler.Register(r)
		borrowHandler.Register(r)
	}
	mount(r)
	r.Route("/api", func(api chi.Router) {
		mount(api)
		api.NotFound(httpx.NotFound)
	})

	r.NotFound(httpx.NotFound)
	return r
}
