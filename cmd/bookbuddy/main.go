package main

import (
	"os"
	"sync"
	"time"

	"github.com/bookbuddy/api/clients"
	"github.com/bookbuddy/api/config"
	"github.com/bookbuddy/api/handler"
	"github.com/bookbuddy/api/internal/jsonlog"
	"github.com/bookbuddy/api/repository"
	"github.com/bookbuddy/api/repository/postgres"
	"github.com/bookbuddy/api/service"
	"github.com/jellydator/ttlcache/v3"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	repo    repository.Repository
	service service.Service
	handler *handler.Handler
}

func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	// Initialize configuration
	cfg, err := config.Decode()
	if err != nil {
		logger.PrintFatal(err, nil)
	}

	// Initialize database connection
	db, err := postgres.OpenDBConn(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", nil)

	// Other shared resources: waitgroup and in-memory cache
	var wg sync.WaitGroup
	cache := ttlcache.New(ttlcache.WithTTL[string, int64](30 * time.Minute))
	go cache.Start()

	// Catalog client
	cacheTTL, err := time.ParseDuration(cfg.GoogleBooks.CacheTTL)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	catalog := clients.NewGoogleBooksClient(cfg.GoogleBooks.BaseURL, cfg.GoogleBooks.APIKey, cacheTTL, clients.NewHTTPClient())

	// Application layers
	repo := repository.New(db)
	service := service.New(cfg, &wg, logger, repo, catalog)
	handler := handler.New(cfg, logger, cache, service)

	// Instantiate application
	app := &app{
		config:  cfg,
		repo:    repo,
		service: service,
		handler: handler,
	}

	// Start HTTP server
	err = app.serve(&wg, logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
