package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	bhttp "github.com/openlotto/lottery-platform-poc/internal/bet-service/http"
	"github.com/openlotto/lottery-platform-poc/internal/bet-service/payment"
	kpub "github.com/openlotto/lottery-platform-poc/internal/bet-service/producer"
	"github.com/openlotto/lottery-platform-poc/internal/bet-service/repo"
	"github.com/openlotto/lottery-platform-poc/internal/shared/config"
	"github.com/openlotto/lottery-platform-poc/internal/shared/db"
	sharedkafka "github.com/openlotto/lottery-platform-poc/internal/shared/kafka"
	"github.com/openlotto/lottery-platform-poc/internal/shared/logger"
	"github.com/openlotto/lottery-platform-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// Timezone da janela de apostas (corte 14h, reabertura 20h)
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal("timezone", zap.String("tz", cfg.Timezone), zap.Error(err))
	}

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureSchema(ctx, pg); err != nil {
		cancel()
		log.Fatal("schema", zap.Error(err))
	}
	cancel()

	// Kafka writer (topic bet_placed)
	writer := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	defer writer.Close()

	// deps
	repository := repo.NewPostgres(pg)
	verifier := payment.New(cfg.PaymentVerifierURL)
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicBetPlaced)

	// HTTP público
	api := bhttp.NewServer(log, repository, verifier, publ, loc)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	log.Info("bet-service listening",
		zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)),
		zap.String("timezone", cfg.Timezone),
	)
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
