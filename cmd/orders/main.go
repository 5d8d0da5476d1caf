package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/platewise/platewise-orders-service/internal/clients"
	"github.com/platewise/platewise-orders-service/internal/config"
	"github.com/platewise/platewise-orders-service/internal/currency"
	"github.com/platewise/platewise-orders-service/internal/events"
	"github.com/platewise/platewise-orders-service/internal/handlers"
	"github.com/platewise/platewise-orders-service/internal/logging"
	"github.com/platewise/platewise-orders-service/internal/repository"
	"github.com/platewise/platewise-orders-service/internal/server"
	"github.com/platewise/platewise-orders-service/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()

	logger := logging.NewLoggerV2("orders-service")

	logging.Infof("Starting orders-service on port %d", cfg.Server.Port)

	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", logging.Fields{"error": err.Error()})
	}
	defer db.Close()

	redisClient := repository.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	orderRepo := repository.NewPostgresOrderRepository(db, logger)
	customerRepo := repository.NewPostgresCustomerRepository(db, logger)
	orderCache := repository.NewRedisOrderCache(redisClient, cfg.Redis.OrderTTL)
	rateCache := repository.NewRedisRateCache(redisClient, cfg.Redis.RateTTL)

	paymentClient := clients.NewHTTPPaymentClient(cfg.PaymentService, logger)

	var rateSource currency.RateSource
	if cfg.Features.EnableLiveRates {
		rateSource = clients.NewHTTPRateClient(cfg.ExchangeService, logger)
	}

	eventPublisher := events.NewKafkaPublisher(cfg.Kafka, logger)
	defer eventPublisher.Close()

	settingsProvider := service.NewStaticSettingsProvider(cfg.Pricing)

	orderService := service.NewOrderService(
		orderRepo,
		customerRepo,
		orderCache,
		rateCache,
		rateSource,
		paymentClient,
		eventPublisher,
		settingsProvider,
		cfg,
	)

	analyticsService := service.NewAnalyticsService(orderRepo, customerRepo)

	h := handlers.NewHandlers(orderService, analyticsService, cfg)

	srv := server.New(h, cfg)

	go func() {
		logger.Info("Server starting", logging.Fields{
			"port":              cfg.Server.Port,
			"enable_live_rates": cfg.Features.EnableLiveRates,
			"currency":          cfg.Pricing.CurrencyCode,
		})
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", logging.Fields{"error": err.Error()})
		}
	}()

	// Payment events drive order confirmation and cancellation.
	eventConsumer := events.NewKafkaConsumer(cfg.Kafka, orderService, logger)
	go func() {
		if err := eventConsumer.Start(context.Background()); err != nil {
			logger.Error("Event consumer failed", logging.Fields{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	eventConsumer.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logging.Fields{"error": err.Error()})
	}

	logger.Info("Server exited")
}

func initDatabase(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	logging.Info("Database connected", logging.Fields{
		"host": cfg.Database.Host,
		"name": cfg.Database.Name,
	})

	return db, nil
}
