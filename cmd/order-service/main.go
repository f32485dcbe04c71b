// cmd/order-service/main.go
package main

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"

	"oms/internal/pkg/bootstrap"
	"oms/internal/pkg/httpclient"
	"oms/internal/pkg/logger"
	"oms/internal/pkg/metrics"
	"oms/internal/pkg/mq"
	"oms/internal/pkg/redis"
	"oms/internal/service/order/application"
	"oms/internal/service/order/domain/port"
	"oms/internal/service/order/infrastructure"
	"oms/internal/service/order/infrastructure/adapter"
	"oms/internal/service/order/interfaces"
)

const serviceName = "order-service"

// main is the composition root: it creates and assembles every dependency,
// then hands lifecycle control to bootstrap.StartService.
func main() {
	cfg, err := bootstrap.LoadConfig("configs/config.yaml")
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Init(serviceName, cfg.App.PrettyLog)
	log := logger.Logger()

	// The store connection is process-wide: opened once here, closed in
	// OnShutdown, fatal when unreachable.
	db, err := infrastructure.NewDB(cfg.Infra.Mysql.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mysql")
	}
	log.Info().Msg("database connected")
	orderRepo := infrastructure.NewGormOrderRepository(db)

	// The dedup guard is an optimization on top of an already idempotent
	// store write, so a missing redis downgrades instead of aborting.
	var deduper port.EventDeduper
	redisClient, err := redis.NewClient(cfg.Infra.Redis.Addr)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, payment event dedup disabled")
	} else {
		deduper = adapter.NewDedupRedisAdapter(redisClient)
	}

	paymentReader := mq.NewKafkaReader(
		cfg.Infra.Kafka.Brokers,
		cfg.Infra.Kafka.PaymentSuccessTopic,
		cfg.Infra.Kafka.PaymentConsumerGroup,
	)

	serverMetrics := metrics.NewServerMetrics("order_service")

	var consumer *interfaces.PaymentEventConsumer
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.App.Port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			tracer := otel.Tracer(serviceName)
			client := httpclient.NewClient(tracer, appCtx.Nacos)

			catalog := adapter.NewCatalogHTTPAdapter(client, cfg.Gateway.CatalogService)
			payment := adapter.NewPaymentHTTPAdapter(client, cfg.Gateway.PaymentService)

			service := application.NewOrderApplicationService(
				orderRepo,
				catalog,
				payment,
				tracer,
				time.Duration(cfg.Gateway.TimeoutMS)*time.Millisecond,
				cfg.App.Currency,
			)

			interfaces.NewOrderHandler(service, serverMetrics).RegisterRoutes(appCtx.Mux)
			consumer = interfaces.NewPaymentEventConsumer(paymentReader, service, deduper, serverMetrics)
		},
		Workers: []func(ctx context.Context) error{
			func(ctx context.Context) error { return consumer.Run(ctx) },
		},
		OnShutdown: func(ctx context.Context) {
			if err := consumer.Close(); err != nil {
				log.Error().Err(err).Msg("error closing kafka reader")
			}
			if redisClient != nil {
				if err := redisClient.Close(); err != nil {
					log.Error().Err(err).Msg("error closing redis client")
				}
			}
			if err := infrastructure.CloseDB(db); err != nil {
				log.Error().Err(err).Msg("error closing database")
			}
			log.Info().Msg("database connection closed")
		},
	})
}
