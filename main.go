package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/pulse-analytics/internal/api"
	"github.com/jonesrussell/pulse-analytics/internal/config"
	"github.com/jonesrussell/pulse-analytics/internal/elastic"
	"github.com/jonesrussell/pulse-analytics/internal/logger"
	"github.com/jonesrussell/pulse-analytics/internal/service"
	"github.com/jonesrussell/pulse-analytics/internal/store"
	"github.com/jonesrussell/pulse-analytics/internal/taxonomy"
	"github.com/jonesrussell/pulse-analytics/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load configuration
	cfg, err := config.Load(config.GetConfigPath("config.yml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := createLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting analytics service",
		logger.String("name", cfg.Service.Name),
		logger.String("version", cfg.Service.Version),
		logger.Int("port", cfg.Service.Port),
		logger.Bool("debug", cfg.Service.Debug),
	)

	// Setup Elasticsearch
	esClient, err := setupElasticsearch(cfg, log)
	if err != nil {
		log.Error("Failed to create Elasticsearch client", logger.Error(err))
		return 1
	}

	// Setup PostgreSQL
	db, err := store.NewPostgresConnection(cfg.Database)
	if err != nil {
		log.Error("Failed to connect to PostgreSQL", logger.Error(err))
		return 1
	}
	defer func() {
		if closeErr := store.Close(db); closeErr != nil {
			log.Warn("Failed to close database connection", logger.Error(closeErr))
		}
	}()

	return runServer(cfg, esClient, db, log)
}

// createLogger creates a logger instance from configuration.
func createLogger(cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Development: cfg.Service.Debug,
	})
	if err != nil {
		return nil, err
	}
	return log.With(logger.String("service", "analytics-service")), nil
}

// setupElasticsearch creates and connects the Elasticsearch client.
func setupElasticsearch(cfg *config.Config, log logger.Logger) (*elastic.Client, error) {
	log.Info("Connecting to Elasticsearch", logger.String("url", cfg.Elasticsearch.URL))
	esClient, err := elastic.NewClient(&cfg.Elasticsearch)
	if err != nil {
		return nil, err
	}
	log.Info("Successfully connected to Elasticsearch")
	return esClient, nil
}

// setupCache creates the taxonomy cache. Redis being down or disabled is
// not fatal: the cache degrades to a pass-through.
func setupCache(cfg *config.Config, log logger.Logger) *taxonomy.Cache {
	if !cfg.Redis.Enabled {
		return taxonomy.NewCache(nil, 0, log)
	}

	redisClient, err := taxonomy.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password)
	if err != nil {
		log.Warn("Redis unavailable, taxonomy caching disabled", logger.Error(err))
		return taxonomy.NewCache(nil, 0, log)
	}

	log.Info("Taxonomy cache enabled",
		logger.String("addr", cfg.Redis.Addr),
		logger.Duration("ttl", cfg.Redis.TaxonomyTTL),
	)
	return taxonomy.NewCache(redisClient, cfg.Redis.TaxonomyTTL, log)
}

// runServer wires the pipeline together and runs with graceful shutdown.
func runServer(cfg *config.Config, esClient *elastic.Client, db *sqlx.DB, log logger.Logger) int {
	metrics := telemetry.NewMetrics()

	executor := elastic.NewExecutor(
		esClient,
		cfg.Elasticsearch.PostsIndexPattern,
		cfg.Service.SearchTimeout,
		cfg.Analytics.IndexCap,
		metrics,
		log,
	)

	analyticsService := service.NewAnalyticsService(
		executor,
		store.NewTopicRepository(db),
		store.NewOverrideRepository(db),
		setupCache(cfg, log),
		metrics,
		cfg.Analytics,
		log,
	)
	log.Info("Analytics service initialized")

	handler := api.NewHandler(analyticsService, esClient, log)
	server := api.NewServer(cfg, handler, log)

	log.Info("Analytics service starting",
		logger.Int("port", cfg.Service.Port),
		logger.String("posts_pattern", cfg.Elasticsearch.PostsIndexPattern),
	)

	if runErr := server.RunWithGracefulShutdown(context.Background()); runErr != nil {
		log.Error("Server error", logger.Error(runErr))
		return 1
	}

	log.Info("Analytics service exited cleanly")
	return 0
}
