package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"school/internal/config"
	"school/internal/db"
	"school/internal/events"
	"school/internal/observability/logging"
	"school/internal/observability/metrics"
	impl "school/internal/service/impl"
	"school/internal/store"
	httpx "school/internal/transport/http"
)

func main() {
	cfg := config.Load()

	logger := logging.NewLogger(logging.Config{
		ServiceName: "school",
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	slog.SetDefault(logger)
	logger.Info("starting service")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1) DB
	gdb, err := db.OpenGorm(db.Config{
		Driver:    cfg.DatabaseDriver,
		DSN:       cfg.DatabaseURL,
		LogSQL:    cfg.LogSQL,
		DisableFK: cfg.DBDisableFK,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}
	st := store.New(gdb)
	if err := st.Migrate(ctx); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	// 2) Services. A token source that cannot produce randomness is fatal.
	tokens := impl.NewRandomTokenGenerator(rand.Reader)
	if _, err := tokens.Generate(impl.SessionTokenLength); err != nil {
		logger.Error("token source unavailable", "error", err)
		os.Exit(1)
	}
	pw := impl.NewPasswordServiceBcrypt(cfg.BcryptCost)
	pub := events.NewLogPublisher(logger)

	sessions := impl.NewSessionServiceImpl(st, pw, tokens, pub, logger)
	users := impl.NewUserServiceImpl(st, pw, pub, logger)
	children := impl.NewChildServiceImpl(st, pub)

	metrics.MustRegister("school")

	// 3) HTTP
	router := httpx.NewRouter(sessions, users, children, httpx.Options{
		PublicPaths:    cfg.PublicPaths,
		CORSOrigins:    cfg.CORSOrigins,
		LoginRateLimit: cfg.LoginRateLimit,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}()

	logger.Info("school service listening", "addr", srv.Addr, "db_driver", cfg.DatabaseDriver, "public_paths", cfg.PublicPaths)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
