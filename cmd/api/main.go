package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ovenmade/ovenmade-backend/api/routes"
	"github.com/ovenmade/ovenmade-backend/internal/bakers"
	"github.com/ovenmade/ovenmade-backend/internal/catalog"
	"github.com/ovenmade/ovenmade-backend/internal/leads"
	"github.com/ovenmade/ovenmade-backend/internal/orders"
	"github.com/ovenmade/ovenmade-backend/internal/payments"
	"github.com/ovenmade/ovenmade-backend/internal/quotes"
	processorwebhook "github.com/ovenmade/ovenmade-backend/internal/webhooks/processor"
	"github.com/ovenmade/ovenmade-backend/pkg/config"
	"github.com/ovenmade/ovenmade-backend/pkg/db"
	"github.com/ovenmade/ovenmade-backend/pkg/logger"
	"github.com/ovenmade/ovenmade-backend/pkg/metrics"
	"github.com/ovenmade/ovenmade-backend/pkg/migrate"
	"github.com/ovenmade/ovenmade-backend/pkg/outbox"
	"github.com/ovenmade/ovenmade-backend/pkg/redis"
)

const webhookReplayTTL = 7 * 24 * time.Hour

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	bakersRepo := bakers.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	quotesRepo := quotes.NewRepository(dbClient.DB())
	paymentsRepo := payments.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	leadsRepo := leads.NewRepository(dbClient.DB())

	snapshotLoader := catalog.NewSnapshotLoader(catalogRepo)
	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	pricingMetrics := metrics.NewPricingMetrics(prometheus.DefaultRegisterer)
	paymentMetrics := metrics.NewPaymentMetrics(prometheus.DefaultRegisterer)

	bakersService, err := bakers.NewService(bakersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create bakers service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo, dbClient, outboxService, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	quotesService, err := quotes.NewService(
		quotesRepo,
		dbClient,
		outboxService,
		bakersRepo,
		snapshotLoader,
		ordersService,
		logg,
		pricingMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create quotes service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(
		paymentsRepo,
		quotesRepo,
		bakersRepo,
		dbClient,
		outboxService,
		logg,
		paymentMetrics,
		int64(cfg.Pricing.PaymentToleranceCents),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	leadsService, err := leads.NewService(
		leadsRepo,
		snapshotLoader,
		bakersRepo,
		dbClient,
		outboxService,
		logg,
		pricingMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create leads service", err)
		os.Exit(1)
	}

	webhookGuard, err := processorwebhook.NewIdempotencyGuard(redisClient, webhookReplayTTL, "processor-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}

	webhookService, err := processorwebhook.NewService(processorwebhook.ServiceParams{
		Payments: paymentsService,
		Guard:    webhookGuard,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			bakersService,
			catalogService,
			quotesService,
			paymentsService,
			ordersService,
			leadsService,
			webhookService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
