package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/napolitain/solver-blueprint/internal/config"
	"github.com/napolitain/solver-blueprint/internal/logging"
	"github.com/napolitain/solver-blueprint/internal/metrics"
	"github.com/napolitain/solver-blueprint/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to YAML config file")
	addr       = flag.String("addr", "", "Listen address (overrides config)")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}

	logger, err := logging.New(cfg.Logging, nil)
	if err != nil {
		slog.Error("invalid logging config", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		logger.Error("failed to register metrics", "err", err)
		os.Exit(1)
	}

	var repo *store.Repository
	if cfg.Database.Enabled {
		db, err := store.NewConnection(cfg.Database)
		if err != nil {
			logger.Error("failed to open database", "err", err)
			os.Exit(1)
		}
		defer store.Close(db)
		repo = store.NewRepository(db)
	}

	s := newServer(cfg, logger, collector, repo)

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           requestLogger(logger, s.routes(reg)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening",
		"addr", cfg.Server.Address,
		"rate", cfg.Server.RateLimit,
		"burst", cfg.Server.Burst,
		"database", cfg.Database.Enabled,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
