package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/efreitasn/tradedesk/internal/config"
	"github.com/efreitasn/tradedesk/internal/engine"
	"github.com/efreitasn/tradedesk/internal/handler"
	"github.com/efreitasn/tradedesk/internal/service"
	"github.com/efreitasn/tradedesk/internal/store"
	"github.com/efreitasn/tradedesk/internal/store/sqlite"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	rollback := flag.Int("rollback", 0, "Revert the newest N schema migrations in DB_PATH and exit")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	if *rollback > 0 {
		if err := rollbackSchema(cfg.DBPath, *rollback, logger); err != nil {
			logger.Error("rollback failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	repo, closeRepo, err := openRepository(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepo()

	rules := cfg.League.Rules()
	calendar := cfg.League.Calendar()
	expiry := engine.NewExpiryIndex(cfg.ExpiryInterval, calendar, logger)

	teamSvc := service.NewTeamService(repo, rules, expiry, logger)
	tradeSvc := service.NewTradeService(repo, rules, calendar, expiry, cfg.ValidationCacheTTL, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Exceptions from a previous run must be tracked before the sweep starts.
	if err := teamSvc.Restore(ctx); err != nil {
		logger.Error("failed to restore exceptions", slog.String("error", err.Error()))
		os.Exit(1)
	}
	expiry.Start(ctx, tradeSvc)

	router := handler.NewRouter(teamSvc, tradeSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.Int("season_year", calendar.SeasonYear()),
			slog.Bool("durable", cfg.DBPath != ""),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, cancel context (stops expiry sweep).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
}

// openRepository returns the SQLite store when path is set and the
// in-memory store otherwise.
func openRepository(path string) (service.TeamRepository, func(), error) {
	if path == "" {
		return store.NewTeamStore(store.NewTradeLog()), func() {}, nil
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}

func rollbackSchema(path string, steps int, logger *slog.Logger) error {
	if path == "" {
		return fmt.Errorf("DB_PATH is required to roll back migrations")
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	reverted, err := db.Rollback(context.Background(), steps)
	for _, name := range reverted {
		logger.Info("migration reverted", slog.String("name", name))
	}
	return err
}
