package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/openlotto/lottery-platform-poc/internal/lottery"
	lcache "github.com/openlotto/lottery-platform-poc/internal/lottery-service/cache"
	"github.com/openlotto/lottery-platform-poc/internal/lottery-service/repo"
	"github.com/openlotto/lottery-platform-poc/internal/lottery-service/service"
	"github.com/openlotto/lottery-platform-poc/internal/lottery-service/ws"
	"github.com/openlotto/lottery-platform-poc/internal/settlement-worker/consumer"
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

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis
	redisClient, err := sharedcache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Kafka: consumer group do worker + DLQ para mensagens problemáticas
	reader := sharedkafka.NewReader(cfg.KafkaBrokers, cfg.TopicResultPublished, "settlement-worker")
	defer reader.Close()
	dlq := sharedkafka.NewWriter(cfg.KafkaBrokers, cfg.TopicResultPublishedDLQ)
	defer dlq.Close()

	store := &repo.ReadRepo{DB: pg}
	agg := service.NewAggregation(store, log)
	viewCache := lcache.New(redisClient)

	// Métricas Prometheus para monitoramento da liquidação
	consumed := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_messages_consumed_total", Help: "mensagens consumidas"})
	settled := prometheus.NewCounter(prometheus.CounterOpts{Name: "settlement_results_settled_total", Help: "liquidações concluídas"})
	errorsBy := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "settlement_errors_total", Help: "erros por estágio"}, []string{"stage"})
	prometheus.MustRegister(consumed, settled, errorsBy)

	proc := &consumer.Processor{
		Log:    log,
		Reader: reader,
		Agg:    agg,
		Cache:  viewCache,
		DLQ:    dlq,

		OnConsumed: func() { consumed.Inc() },
		OnSettled:  func() { settled.Inc() },
		OnError:    func(stage string) { errorsBy.WithLabelValues(stage).Inc() },

		// Após aquecer as visões, notifica os clientes WebSocket via Redis Pub/Sub
		OnAfterSettle: func(date string, winners []lottery.WinnerEntry) {
			b, err := consumer.BroadcastUpdate(date, winners)
			if err != nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()
			if err := redisClient.Publish(ctx, ws.PubSubChannel, b).Err(); err != nil {
				log.Warn("ws broadcast publish failed", zap.Error(err))
			}
		},
	}

	// Servidor HTTP para métricas e health check
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return redisClient.Ping(ctx).Err()
	})

	// Sinalização para shutdown gracioso (SIGINT/SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("settlement-worker started", zap.String("topic", cfg.TopicResultPublished))
	if err := proc.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal("processor stopped with error", zap.Error(err))
	}
	log.Info("settlement-worker stopped")
}
