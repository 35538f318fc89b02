package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"sales-batch-service/internal/api"
	"sales-batch-service/internal/config"
	"sales-batch-service/internal/kafka"
	"sales-batch-service/internal/storage"
	"sales-batch-service/internal/transaction"
	"sales-batch-service/telemetry"
)

func main() {
	cfg := config.MustNewConfig()

	log, err := telemetry.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	telemetry.InitMetrics()

	threshold, err := decimal.NewFromString(cfg.HighRiskThreshold)
	if err != nil {
		log.Warn("invalid HIGH_RISK_THRESHOLD, using default",
			zap.String("value", cfg.HighRiskThreshold))
		threshold = transaction.DefaultHighRiskThreshold
	}

	// store: postgres when a DSN is configured, in-memory otherwise
	var repo storage.TxRepo
	var dbPing func(ctx context.Context) error
	if cfg.DatabaseDSN != "" {
		pg, err := storage.NewPostgres(cfg.DatabaseDSN)
		if err != nil {
			log.Fatal("postgres init failed", zap.Error(err))
		}
		repo = pg
		dbPing = pg.Ping
	} else {
		log.Warn("DATABASE_DSN not set; using in-memory store")
		repo = storage.NewMemoryStore()
	}

	v := transaction.NewValidator()
	svc := transaction.NewService(log, repo, v, threshold)

	// optional event publication
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaTopic != "" {
		schema, err := kafka.NewValidator()
		if err != nil {
			log.Fatal("event schema init failed", zap.Error(err))
		}
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer producer.Close()

		pub := kafka.NewPublisher(log, producer, schema)
		svc.Publish = pub.BatchCreated
		log.Info("event publication enabled", zap.String("topic", cfg.KafkaTopic))
	}

	h := &api.Handlers{
		Log:          log,
		Svc:          svc,
		DBPing:       dbPing,
		KafkaBrokers: cfg.KafkaBrokers,
		KafkaTopic:   cfg.KafkaTopic,
	}

	// gin engine
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(telemetry.RequestLogger(log))
	r.Use(telemetry.PrometheusMiddleware())

	api.SetupRoutes(r, h)

	srv := &http.Server{Addr: cfg.HTTPAddress, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()
	log.Info("server started", zap.String("addr", cfg.HTTPAddress))

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctxTimeout)
	log.Info("server stopped")
}
