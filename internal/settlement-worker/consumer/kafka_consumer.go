package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/openlotto/lottery-platform-poc/internal/lottery"
	"github.com/openlotto/lottery-platform-poc/internal/lottery-service/cache"
	"github.com/openlotto/lottery-platform-poc/internal/lottery-service/service"
	"github.com/openlotto/lottery-platform-poc/internal/lottery-service/ws"
	"github.com/openlotto/lottery-platform-poc/pkg/contracts/events"
)

// warm TTL maior que o das leituras sob demanda: o worker é quem manda
const warmTTL = 10 * time.Minute

// Processor consome result_published do Kafka, recomputa as visões de
// liquidação (ganhadores, estatísticas, ranking recente) e aquece o Redis.
// Republicações sobrescrevem as visões anteriores; reprocessar é idempotente.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Processor struct {
	Log    *zap.Logger
	Reader *kafka.Reader
	Agg    *service.Aggregation
	Cache  *cache.Cache
	DLQ    *kafka.Writer

	OnConsumed func()       // métricas (counter++)
	OnSettled  func()       // métricas
	OnError    func(string) // métricas por fase

	// Após o aquecimento do cache, notifica os clientes WebSocket
	OnAfterSettle func(date string, winners []lottery.WinnerEntry)
}

// Run inicia o loop principal de consumo e liquidação
func (p *Processor) Run(ctx context.Context) error {
	for {
		m, err := p.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed() // callback de métrica: mensagem consumida
		}

		var ev events.ResultPublished
		if err := json.Unmarshal(m.Value, &ev); err != nil || ev.LotteryDate == "" {
			p.Log.Warn("invalid message, sending to DLQ", zap.Error(err))
			if p.OnError != nil {
				p.OnError("decode")
			}
			p.sendToDLQ(ctx, m)
			continue
		}

		if err := p.settle(ctx, ev); err != nil {
			p.Log.Warn("settlement failed", zap.String("date", ev.LotteryDate), zap.Error(err))
			if p.OnError != nil {
				p.OnError("settle")
			}
			p.sendToDLQ(ctx, m)
			continue
		}

		if p.OnSettled != nil {
			p.OnSettled() // callback de métrica: liquidação concluída
		}
	}
}

// settle recomputa as três visões da data e sobrescreve o cache
func (p *Processor) settle(ctx context.Context, ev events.ResultPublished) error {
	winners, err := p.Agg.Winners(ctx, ev.LotteryDate)
	if err != nil {
		return err
	}

	stats, err := p.Agg.DailyStats(ctx, ev.LotteryDate)
	if err != nil {
		return err
	}

	recent, err := p.Agg.RecentWinners(ctx)
	if err != nil {
		return err
	}

	if err := p.Cache.SetJSON(ctx, cache.KeyWinners(ev.LotteryDate), winners, warmTTL); err != nil {
		return err
	}
	if err := p.Cache.SetJSON(ctx, cache.KeyStats(ev.LotteryDate), stats, warmTTL); err != nil {
		return err
	}
	if err := p.Cache.SetJSON(ctx, cache.KeyRecentWinners, recent, warmTTL); err != nil {
		return err
	}

	p.Log.Info("settlement views refreshed",
		zap.String("date", ev.LotteryDate),
		zap.Int("winners", len(winners)),
		zap.Int64("tickets", stats.TicketsSold),
	)

	if p.OnAfterSettle != nil {
		p.OnAfterSettle(ev.LotteryDate, winners)
	}
	return nil
}

// sendToDLQ move a mensagem problemática para a fila morta
func (p *Processor) sendToDLQ(ctx context.Context, m kafka.Message) {
	if p.DLQ == nil {
		return
	}
	wctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.DLQ.WriteMessages(wctx, kafka.Message{Key: m.Key, Value: m.Value}); err != nil {
		p.Log.Error("dlq write failed", zap.Error(err))
		if p.OnError != nil {
			p.OnError("dlq")
		}
	}
}

// BroadcastUpdate serializa a notificação WebSocket de uma liquidação
func BroadcastUpdate(date string, winners []lottery.WinnerEntry) ([]byte, error) {
	return json.Marshal(ws.ResultUpdate{Date: date, Payload: winners})
}
