package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/signup/internal/config"
	"github.com/geocoder89/signup/internal/countries"
	"github.com/geocoder89/signup/internal/db"
	httpx "github.com/geocoder89/signup/internal/http"
	"github.com/geocoder89/signup/internal/http/handlers"
	"github.com/geocoder89/signup/internal/observability"
	"github.com/geocoder89/signup/internal/redisclient"
	"github.com/geocoder89/signup/internal/repo/memory"
	"github.com/geocoder89/signup/internal/repo/postgres"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if cfg.OTELEnabled {
		ctx, cancel := config.WithTimeout(5 * time.Second)
		shutdownTracer, err := observability.InitTracer(ctx, "signup-api", cfg.Env, cfg.OTELEndpoint)
		cancel()

		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	checks := map[string]handlers.Check{}

	// country source: postgres when configured, built-in list otherwise
	var store countries.Store = memory.NewCountriesRepo(nil)

	if cfg.DBURL != "" {
		pool, err := db.NewPool(cfg.DBURL)
		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		ctx, cancel := config.WithTimeout(5 * time.Second)
		err = db.EnsureCountries(ctx, pool, memory.DefaultCountries)
		cancel()

		if err != nil {
			log.Error("seed countries failed", "err", err)
			os.Exit(1)
		}

		store = postgres.NewCountriesRepo(pool, prom)
		checks["postgres"] = pool.Ping
	}

	svcCfg := countries.Config{
		TTL:      cfg.CountriesCacheTTL,
		Recorder: prom,
		Logger:   log,
	}

	if cfg.RedisAddr != "" {
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rc.Close() }()

		svcCfg.Snapshots = rc.Snapshots()
		checks["redis"] = rc.Ping
	}

	countrySvc := countries.New(store, svcCfg)

	// fetch the list once up front; validation runs with an empty set until it lands
	warmCtx, stopWarm := context.WithCancel(context.Background())
	defer stopWarm()

	go func() {
		if err := countrySvc.Warm(warmCtx); err != nil && warmCtx.Err() == nil {
			log.Warn("country warm-up stopped", "err", err)
		}
	}()

	// SIGHUP drops cached country snapshots and refetches the list
	reload := make(chan os.Signal, 1)
	signal.Notify(reload, syscall.SIGHUP)
	defer signal.Stop(reload)

	go countrySvc.Reload(warmCtx, reload)

	// set up routers with the log
	router := httpx.NewRouter(httpx.Deps{
		Config:    cfg,
		Logger:    log,
		Prom:      prom,
		Gatherer:  reg,
		Countries: countrySvc,
		Checks:    checks,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")
	stopWarm()

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
