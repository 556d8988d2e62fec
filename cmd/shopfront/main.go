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

	"github.com/redis/go-redis/v9"

	"github.com/ericfisherdev/shopfront/internal/adapter/driven/memrate"
	"github.com/ericfisherdev/shopfront/internal/adapter/driven/redisrate"
	sqliteadapter "github.com/ericfisherdev/shopfront/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/shopfront/internal/adapter/driving/http"
	"github.com/ericfisherdev/shopfront/internal/application"
	"github.com/ericfisherdev/shopfront/internal/auth"
	"github.com/ericfisherdev/shopfront/internal/config"
	"github.com/ericfisherdev/shopfront/internal/domain/port/driven"
)

// Lockout policy: five failed logins inside a fifteen minute sliding window
// locks the client key out until the window elapses.
const (
	loginFailureThreshold = 5
	loginFailureWindow    = 15 * time.Minute
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"environment", cfg.Environment,
		"token_ttl", cfg.TokenTTL,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire driven adapters.
	userStore := sqliteadapter.NewUserRepo(db)
	profileStore := sqliteadapter.NewProfileRepo(db)
	productStore := sqliteadapter.NewProductRepo(db)
	wishlistStore := sqliteadapter.NewWishlistRepo(db)
	recentStore := sqliteadapter.NewRecentRepo(db)
	widgetStore := sqliteadapter.NewChatWidgetRepo(db)
	auditStore := sqliteadapter.NewAuditRepo(db)

	// 6. Pick the attempt tracker backend. Redis gives a shared limit across
	// replicas; the in-memory tracker is the single-instance default.
	var tracker driven.AttemptTracker
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer func() {
			if closeErr := rdb.Close(); closeErr != nil {
				slog.Error("error closing redis client", "error", closeErr)
			}
		}()
		tracker = redisrate.New(rdb, loginFailureThreshold, loginFailureWindow)
		slog.Info("attempt tracker backend: redis", "addr", cfg.RedisAddr)
	} else {
		memTracker := memrate.New(loginFailureThreshold, loginFailureWindow)
		go memTracker.Run(ctx, time.Minute)
		tracker = memTracker
		slog.Info("attempt tracker backend: in-memory")
	}

	// 7. Token manager for the auth cookie.
	tokens, err := auth.NewTokenManager(cfg.AuthSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	// 8. Audit recorder: async, dropped rather than blocking logins.
	audit := application.NewAuditRecorder(auditStore, slog.Default())
	defer audit.Close()

	// 9. Application services.
	authSvc := application.NewAuthService(userStore, profileStore, tracker, tokens, audit, slog.Default())
	catalogSvc := application.NewCatalogService(productStore)
	wishlistSvc := application.NewWishlistService(wishlistStore, productStore)
	recentSvc := application.NewRecentService(recentStore, slog.Default())
	widgetSvc := application.NewWidgetService(widgetStore)

	// 10. HTTP handler and routes. The auth cookie loses its Secure flag only
	// in local development where the browser talks plain HTTP.
	apiHandler := httphandler.NewHandler(
		authSvc,
		catalogSvc,
		wishlistSvc,
		recentSvc,
		widgetSvc,
		tokens,
		!cfg.IsDevelopment(),
		slog.Default(),
	)
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	// 11. Log startup complete.
	slog.Info("shopfront started", "listen_addr", cfg.ListenAddr)

	// 12. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 13. Graceful shutdown with 10s timeout for HTTP server drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	// 14. Log shutdown complete.
	slog.Info("shutdown complete")
	return nil
}
