package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"GrowthLens/internal/analyzer"
	"GrowthLens/internal/cache"
	"GrowthLens/internal/config"
	"GrowthLens/internal/provider"
	"GrowthLens/internal/scheduler"
	"GrowthLens/internal/server"
	"GrowthLens/internal/universe"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] GrowthLens starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Select provider variant once per process
	prov, err := provider.New(provider.Options{
		Name:            cfg.Provider.Name,
		APIKey:          cfg.Provider.APIKey,
		BaseURL:         cfg.Provider.BaseURL,
		Proxy:           cfg.Proxy,
		Timeout:         cfg.ProviderTimeout(),
		SymbolOverrides: cfg.Provider.SymbolOverrides,
	})
	if err != nil {
		log.Fatalf("[FATAL] init provider: %v", err)
	}
	log.Printf("[INFO] data provider: %s", prov.Name())

	// Init series cache
	var seriesCache cache.Cache
	if cfg.Cache.SQLitePath != "" {
		sc, err := cache.NewSQLite(cfg.Cache.SQLitePath, cfg.CacheTTL())
		if err != nil {
			log.Printf("[WARN] init sqlite cache failed, using noop: %v", err)
			seriesCache = cache.NewNoop()
		} else {
			seriesCache = sc
			defer sc.Close()
		}
	} else {
		seriesCache = cache.NewNoop()
	}

	// Init universe registry and analysis engine
	registry := universe.NewRegistry(cfg.Universes)
	engine := analyzer.NewEngine(prov, registry, seriesCache, cfg.Analysis.Workers, cfg.Analysis.DefaultUniverse)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional cache warmer
	if cfg.Warmup.Cron != "" {
		warmer := scheduler.NewWarmer(ctx, engine, cfg.Warmup.Universe, cfg.Warmup.Days)
		if err := warmer.Register(cfg.Warmup.Cron); err != nil {
			log.Fatalf("[FATAL] register warmup task: %v", err)
		}
		warmer.Start()
		defer warmer.Stop()

		if os.Getenv("RUN_ON_START") == "true" {
			log.Println("[INFO] RUN_ON_START enabled, warming cache now")
			go warmer.WarmNow()
		}
	}

	// HTTP server
	handler := server.NewHandler(engine, registry, prov.Name())
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler.Routes(cfg.AllowedOrigins()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		log.Printf("[INFO] listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] server shutdown: %v", err)
	}
	log.Println("[INFO] GrowthLens stopped")
}
