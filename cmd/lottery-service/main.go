package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	lcache "github.com/openlotto/lottery-platform-poc/internal/lottery-service/cache"
	lhttp "github.com/openlotto/lottery-platform-poc/internal/lottery-service/http"
	kpub "github.com/openlotto/lottery-platform-poc/internal/lottery-service/producer"
	"github.com/openlotto/lottery-platform-poc/internal/lottery-service/repo"
	"github.com/openlotto/lottery-platform-poc/internal/lottery-service/service"
	"github.com/openlotto/lottery-platform-poc/internal/lottery-service/ws"
	sharedcache "github.com/openlotto/lottery-platform-poc/internal/shared/cache"
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

	if cfg.ResultsAPIKey == "" {
		log.Warn("RESULTS_API_KEY not set, result publication disabled")
	}

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	bctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureSchema(bctx, pg); err != nil {
		cancel()
		log.Fatal("schema", zap.Error(err))
	}
	cancel()

	// Redis (cache de visões + pub/sub do WebSocket)
	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Kafka writer (topic result_published)
	writer := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicResultPublished)
	defer writer.Close()

	// deps
	store := &repo.ReadRepo{DB: pg}
	agg := service.NewAggregation(store, log)
	viewCache := lcache.New(redisClient)
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicResultPublished)

	// WebSocket hub alimentado pelo Redis Pub/Sub (settlement-worker publica)
	hub := ws.NewHub(func(r *http.Request) bool { return true }) // PoC: origens liberadas no gateway
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ws.StartRedisSubscriber(ctx, log, redisClient, hub)

	api := &lhttp.API{
		Log:     log,
		Agg:     agg,
		Results: store,
		Cache:   viewCache,
		Publ:    publ,
		Hub:     hub,
		APIKey:  cfg.ResultsAPIKey,
	}
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	})

	go func() {
		<-ctx.Done()
		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()
		_ = apiSrv.Shutdown(sctx)
	}()

	log.Info("lottery-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
	log.Info("lottery-service stopped")
}
