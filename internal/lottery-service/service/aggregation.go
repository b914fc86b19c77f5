package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/openlotto/lottery-platform-poc/internal/lottery"
)

// Store define o acesso de leitura usado pelas agregações. Os stores de
// apostas e resultados são a única fonte de verdade; tudo aqui é derivado
// sob demanda, sem ciclo de vida próprio.
type Store interface {
	GetResult(ctx context.Context, date string) (lottery.Result, error)
	ListBets(ctx context.Context, date string) ([]lottery.Bet, error)
	DailyStats(ctx context.Context, date string) (lottery.DailyStats, error)
	RecentResultDates(ctx context.Context, limit int) ([]string, error)
}

// Aggregation compõe a liquidação sobre uma data (ganhadores, estatísticas)
// e sobre várias datas recentes (ranking de ganhadores). Sem estado próprio;
// seguro para chamadas concorrentes.
type Aggregation struct {
	store Store
	log   *zap.Logger
}

func NewAggregation(store Store, log *zap.Logger) *Aggregation {
	return &Aggregation{store: store, log: log}
}

// Winners liquida uma data: lista de ganhadores e prêmios.
// lottery.ErrResultNotFound quando a data não tem resultado publicado;
// lista vazia quando tem resultado mas nenhuma aposta premiada.
func (a *Aggregation) Winners(ctx context.Context, date string) ([]lottery.WinnerEntry, error) {
	result, err := a.store.GetResult(ctx, date)
	if err != nil {
		return nil, err
	}

	bets, err := a.store.ListBets(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("list bets for %s: %w", date, err)
	}

	return lottery.Settle(result, bets), nil
}

// DailyStats retorna volume total e quantidade de apostas de uma data.
// Datas sem apostas retornam zeros.
func (a *Aggregation) DailyStats(ctx context.Context, date string) (lottery.DailyStats, error) {
	return a.store.DailyStats(ctx, date)
}

// RecentWinners liquida as últimas RecentLookbackDates datas com resultado
// publicado, concatena os ganhadores, ordena por data decrescente (estável
// na ordem de inserção dentro da mesma data) e corta em RecentWinnersLimit.
// Sem datas publicadas, retorna lista vazia.
func (a *Aggregation) RecentWinners(ctx context.Context) ([]lottery.WinnerEntry, error) {
	dates, err := a.store.RecentResultDates(ctx, lottery.RecentLookbackDates)
	if err != nil {
		return nil, err
	}

	winners := make([]lottery.WinnerEntry, 0)
	for _, date := range dates {
		entries, err := a.Winners(ctx, date)
		if err != nil {
			// resultado removido entre as duas consultas: ignora a data
			if errors.Is(err, lottery.ErrResultNotFound) {
				a.log.Warn("result disappeared during recent winners", zap.String("date", date))
				continue
			}
			return nil, err
		}
		winners = append(winners, entries...)
	}

	sort.SliceStable(winners, func(i, j int) bool {
		return winners[i].LotteryDate > winners[j].LotteryDate
	})

	if len(winners) > lottery.RecentWinnersLimit {
		winners = winners[:lottery.RecentWinnersLimit]
	}
	return winners, nil
}
