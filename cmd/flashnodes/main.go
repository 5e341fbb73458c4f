package main

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/flashnodes/flashnodes/adapters/denylist"
	"github.com/flashnodes/flashnodes/adapters/events"
	"github.com/flashnodes/flashnodes/adapters/metrics"
	"github.com/flashnodes/flashnodes/adapters/store/postgres"
	"github.com/flashnodes/flashnodes/adapters/tokenizer"
	"github.com/flashnodes/flashnodes/config"
	"github.com/flashnodes/flashnodes/service"
	"github.com/flashnodes/flashnodes/transport/http"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := config.Load()
	ctx := context.Background()

	if err := postgres.Migrate(ctx, cfg.DatabaseDSN); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	identityRepo := postgres.NewIdentityRepo(db)
	projectRepo := postgres.NewProjectRepo(db)
	currencyRepo := postgres.NewCurrencyRepo(db)

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("failed to parse redis url", zap.Error(err))
	}
	redisClient := redis.NewClient(opts)
	defer redisClient.Close()

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: redisClient},
		watermill.NewStdLogger(false, false),
	)
	if err != nil {
		logger.Fatal("failed to create event publisher", zap.Error(err))
	}
	eventPub := events.NewWatermillPublisher(publisher)

	promClient, err := metrics.NewClient(cfg.PrometheusURL, cfg.PrometheusUser, cfg.PrometheusPassword)
	if err != nil {
		logger.Fatal("failed to create prometheus client", zap.Error(err))
	}
	metricsSource := metrics.NewPrometheusSource(promClient, cfg.Metric, logger)

	// The signing key is ephemeral: restarting the process invalidates all
	// outstanding credentials, which is acceptable for hour-scale sessions.
	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		logger.Fatal("failed to generate signing key", zap.Error(err))
	}

	authService := service.NewAuthService(
		identityRepo,
		tokenizer.NewJWTTokenizer(signKey),
		denylist.NewRedisDenyList(redisClient),
		eventPub,
		logger,
		cfg.AccessTTL,
	)
	projectService := service.NewProjectService(projectRepo, currencyRepo, identityRepo, eventPub, logger)
	adminService := service.NewAdminService(identityRepo, logger)

	if err := adminService.Seed(ctx, cfg.AdminAddress); err != nil {
		logger.Fatal("failed to seed administrator", zap.Error(err))
	}

	router := http.SetupRouter(http.Services{
		Auth:       authService,
		Projects:   projectService,
		Currencies: service.NewCurrencyService(currencyRepo),
		Analytics:  service.NewAnalyticsService(projectRepo, metricsSource, logger),
		Admins:     adminService,
	})

	logger.Info("starting server", zap.String("addr", cfg.ListenAddr))
	if err := router.Run(cfg.ListenAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
