// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"

	"github.com/ps-vitor/fasteignir-search/internal/api/handlers"
	"github.com/ps-vitor/fasteignir-search/internal/config"
	"github.com/ps-vitor/fasteignir-search/internal/repositories"
	"github.com/ps-vitor/fasteignir-search/internal/scrapers/mbl"
	"github.com/ps-vitor/fasteignir-search/internal/services"
	"github.com/ps-vitor/fasteignir-search/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "directory holding app.yaml and scraping.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func run(cfg *config.Config) error {
	baseLogger, closeLogger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLogger()

	appLogger := baseLogger.WithFields(logger.Fields{"component": "app"})

	// Setup dependencies
	mblCfg := cfg.Scraping.Mbl
	client, err := mbl.NewClient(mblCfg.BaseURL,
		mbl.WithTimeout(mblCfg.Timeout),
		mbl.WithUserAgent(mblCfg.UserAgent),
		mbl.WithMaxBodySize(mblCfg.MaxBodyBytes),
	)
	if err != nil {
		return err
	}
	collector, err := mbl.NewCollector(mblCfg.BaseURL)
	if err != nil {
		return err
	}
	searchSvc := services.NewScraperService(client, collector, mblCfg.Route)

	r := mux.NewRouter()
	r.Use(handlers.LoggerMiddleware(baseLogger))
	r.Use(middleware.Recoverer)

	handlers.NewAPIHandler(mblCfg.Route).RegisterRoutes(r)

	var search http.Handler = http.HandlerFunc(handlers.NewScrapingHandler(searchSvc).HandleSearch)
	if cfg.Cache.Enabled {
		redisClient, err := repositories.NewRedisClient(context.Background(), cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		cache := repositories.NewRedisResponseCache(redisClient, cfg.Cache.KeyPrefix)
		search = handlers.CacheMiddleware(cache, cfg.Cache.TTL)(search)
		appLogger.Info("Response cache enabled", logger.Fields{"redis_addr": cfg.Cache.RedisAddr, "ttl": cfg.Cache.TTL.String()})
	}
	r.Handle(mblCfg.Route, search).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.App.Port),
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("Server listening", logger.Fields{"address": srv.Addr, "source": mblCfg.BaseURL})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	case sig := <-quit:
		appLogger.Info("Shutting down", logger.Fields{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	appLogger.Info("Server stopped", nil)
	return nil
}

func newLogger(cfg *config.Config) (logger.Logger, func(), error) {
	stdout := logger.New(logger.Config{
		Level: logger.ParseLevel(cfg.Logging.Level),
		JSON:  cfg.Logging.JSON,
		Color: cfg.Logging.Color,
	})
	loggers := []logger.Logger{stdout}
	closeFn := func() {}

	if fc := cfg.Logging.Fluent; fc.Enabled {
		fluentLogger, err := logger.NewFluent(logger.FluentConfig{
			Host:      fc.Host,
			Port:      fc.Port,
			TagPrefix: cfg.App.Name,
			Level:     logger.ParseLevel(fc.Level),
		})
		if err != nil {
			return nil, nil, err
		}
		loggers = append(loggers, fluentLogger)
		closeFn = func() { _ = fluentLogger.Close() }
	}

	base := logger.NewMulti(loggers...).WithFields(logger.Fields{
		"service_name": cfg.App.Name,
		"env":          cfg.App.Env,
	})
	return base, closeFn, nil
}
