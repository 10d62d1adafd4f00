package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"sjsage522/slotwatcher/config"
	"sjsage522/slotwatcher/helpers"
	"sjsage522/slotwatcher/internal/crawler"
	"sjsage522/slotwatcher/logger"
	"sjsage522/slotwatcher/services/cache"
	"sjsage522/slotwatcher/services/metrics"
	"sjsage522/slotwatcher/services/notifier"
	"sjsage522/slotwatcher/services/publisher"
	"sjsage522/slotwatcher/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Strs("endpoints", cfg.Labels()).
		Dur("poll_interval", cfg.PollInterval).
		Msg("Starting application")

	// Cancelled on SIGINT / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize services
	services, err := initializeServices(ctx, &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	// Create crawlers
	fetcher := helpers.NewFetcher(helpers.FetcherOptions{
		Timeout:        cfg.FetchTimeout,
		UserAgent:      cfg.UserAgent,
		AcceptLanguage: cfg.AcceptLanguage,
		Spacing:        cfg.RequestSpacing,
	})
	crawlers := crawler.CreateCrawlers(&cfg, fetcher, services.Cache)
	if len(crawlers) == 0 {
		log.Fatal().Msg("No crawlers were created")
	}

	log.Info().
		Int("crawler_count", len(crawlers)).
		Msg("Created crawlers")

	// Create and start worker
	w := worker.NewWorker(
		crawlers,
		services.Notifier,
		services.RunLog,
		worker.Schedule{Base: cfg.PollInterval, JitterMin: cfg.JitterMin, JitterMax: cfg.JitterMax},
	).WithMetrics(services.Metrics)
	if services.Publisher != nil {
		w.WithPublisher(services.Publisher)
	}

	err = w.Start(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Worker exited with error")
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
}

// Services holds all the initialized services
type Services struct {
	RunLog    *helpers.Logger
	Cache     cache.CacheService
	Notifier  notifier.Notifier
	Publisher publisher.Publisher
	Metrics   *metrics.PollMetrics

	closers []io.Closer
	servers []*http.Server
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	for _, srv := range s.servers {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		srv.Shutdown(ctx)
		cancel()
	}
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	for _, c := range s.closers {
		c.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Run log
	runLog, closer, err := helpers.OpenRunLog(cfg.LogPath)
	if err != nil {
		return nil, err
	}
	services.RunLog = runLog
	services.closers = append(services.closers, closer)

	// Initialize cache service
	if cfg.MemcacheAddr != "" {
		memcacheService := cache.NewMemcacheService(cfg.MemcacheAddr)
		if err := memcacheService.Ping(); err != nil {
			logger.Warn("Memcache at %s unreachable, using in-process cache: %v", cfg.MemcacheAddr, err)
			services.Cache = cache.NewMemoryService()
		} else {
			services.Cache = memcacheService
			logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
		}
	} else {
		services.Cache = cache.NewMemoryService()
	}

	// Notifiers
	var notifiers notifier.Multi
	if cfg.DesktopNotify {
		notifiers = append(notifiers, notifier.NewDesktopNotifier())
	}
	if cfg.EmailEnabled() {
		notifiers = append(notifiers, notifier.NewEmailNotifier(cfg.SendGridAPIKey, cfg.NotifyEmailFrom, cfg.EmailRecipients()))
		logger.Info("Email notifications enabled for %d recipient(s)", len(cfg.EmailRecipients()))
	}
	services.Notifier = notifiers

	// Initialize publisher
	if cfg.RedisAddr != "" {
		redisPublisher, err := publisher.NewRedisPublisher(
			ctx,
			cfg.RedisAddr,
			cfg.RedisDB,
			cfg.RedisStream,
			cfg.RedisStreamCount,
			cfg.RedisStreamMaxLength,
		)
		if err != nil {
			return nil, err
		}
		services.Publisher = redisPublisher

		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	services.Metrics = metrics.NewPollMetrics(registry)
	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(registry))
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.LogError("metrics", err, "Metrics server stopped")
			}
		}()
		services.servers = append(services.servers, srv)
		logger.Info("Serving metrics on %s/metrics", cfg.MetricsAddr)
	}

	return services, nil
}
