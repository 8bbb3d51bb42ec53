package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/storefront/internal/health"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
	"github.com/vladislavdragonenkov/storefront/internal/service/auth"
	"github.com/vladislavdragonenkov/storefront/internal/service/catalog"
	"github.com/vladislavdragonenkov/storefront/internal/service/checkout"
	"github.com/vladislavdragonenkov/storefront/internal/service/outbox"
	"github.com/vladislavdragonenkov/storefront/internal/service/rest"
	"github.com/vladislavdragonenkov/storefront/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Config описывает настройки запуска приложения.
type Config struct {
	// HTTPAddr — адрес основного API.
	HTTPAddr string
	// MetricsAddr — адрес служебного листенера: /metrics и health checks.
	MetricsAddr string
	// PostgresDSN — строка подключения; пустая означает in-memory хранилище.
	PostgresDSN string
	// KafkaBrokers — список брокеров; пустой выключает публикацию событий.
	KafkaBrokers []string
}

// DefaultConfig возвращает адреса по умолчанию.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
	}
}

// Run собирает зависимости и держит сервис до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	storage, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer storage.Close(logger)

	checkoutMetrics := metrics.NewCheckoutMetrics()
	checkoutEngine := checkout.NewEngine(storage.UnitOfWork, storage.Orders, checkoutMetrics)
	catalogService := catalog.NewService(storage.Products)
	authService := auth.NewService(storage.Users)

	server := rest.NewServer(catalogService, checkoutEngine, authService)

	// Kafka опционален: без брокеров события копятся в outbox,
	// но сервис продолжает работать.
	var kafkaProducer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.WithError(err).Warn("Kafka недоступен, продолжаем без публикации событий")
		} else {
			kafkaProducer = producer
			logger.WithField("brokers", cfg.KafkaBrokers).Info("Kafka producer инициализирован")

			worker := outbox.NewWorker(
				storage.Outbox,
				kafka.NewOutboxPublisher(producer, kafka.TopicOrderEvents),
				kafka.NewOutboxPublisher(producer, kafka.TopicDeadLetterQueue),
				outbox.Config{},
			)
			go worker.Run(ctx)
		}
	}

	healthHandler := healthcheck.NewHandler(version.String())
	if storage.Ping != nil {
		healthHandler.Register("storage", healthcheck.PingCheck("storage", storage.Ping))
	}
	healthHandler.Register("outbox", healthcheck.OutboxCheck(storage.Outbox, time.Minute))

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: server.Handler()}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		closeKafka(kafkaProducer, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		closeKafka(kafkaProducer, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает служебный листенер: метрики и health checks.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("HTTP shutdown with error")
	}
}

func closeKafka(producer *kafka.Producer, logger *log.Entry) {
	if producer == nil {
		return
	}
	if err := producer.Close(); err != nil {
		logger.WithError(err).Warn("Не удалось закрыть Kafka producer")
		return
	}
	logger.Info("Kafka producer закрыт")
}
