package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/openlotto/lottery-platform-poc/internal/lottery"
	"github.com/openlotto/lottery-platform-poc/internal/lottery-service/cache"
	"github.com/openlotto/lottery-platform-poc/internal/lottery-service/dto"
	"github.com/openlotto/lottery-platform-poc/internal/lottery-service/ws"
	"github.com/openlotto/lottery-platform-poc/pkg/contracts/events"
)

// Aggregator expõe as visões derivadas (liquidação e estatísticas)
type Aggregator interface {
	Winners(ctx context.Context, date string) ([]lottery.WinnerEntry, error)
	DailyStats(ctx context.Context, date string) (lottery.DailyStats, error)
	RecentWinners(ctx context.Context) ([]lottery.WinnerEntry, error)
}

// ResultStore define leitura e publicação de resultados
type ResultStore interface {
	GetResult(ctx context.Context, date string) (lottery.Result, error)
	UpsertResult(ctx context.Context, res lottery.Result) error
}

// ViewCache guarda visões derivadas com TTL curto
type ViewCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Publisher emite result_published após o upsert do operador
type Publisher interface {
	PublishResultPublished(ctx context.Context, e events.ResultPublished) error
}

// API expõe os endpoints REST de consulta da loteria e a publicação de
// resultados pelo operador (autorizada por X-API-Key)
type API struct {
	Log     *zap.Logger
	Agg     Aggregator
	Results ResultStore
	Cache   ViewCache
	Publ    Publisher
	Hub     *ws.Hub
	APIKey  string
}

const viewTTL = 30 * time.Second

// Router retorna o roteador HTTP com os endpoints REST
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/v1/results", a.getResult)               // Números sorteados de uma data
	r.Post("/v1/results", a.publishResult)          // Publicação pelo operador
	r.Get("/v1/winners", a.getWinners)              // Ganhadores de uma data
	r.Get("/v1/stats", a.getStats)                  // Volume e tickets de uma data
	r.Get("/v1/recent-winners", a.getRecentWinners) // Ranking das datas recentes
	if a.Hub != nil {
		r.Get("/ws", a.Hub.HandleWS) // Broadcast de resultados ao vivo
	}
	return r
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// getResult retorna os números sorteados publicados de uma data
func (a *API) getResult(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	res, err := a.Results.GetResult(r.Context(), date)
	if err != nil {
		if errors.Is(err, lottery.ErrResultNotFound) {
			writeError(w, http.StatusNotFound, "results not found")
			return
		}
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, dto.ResultResponse{WinningNumbers: res.WinningNumbers.String()})
}

// publishResult faz o upsert dos números sorteados de uma data.
// Autorização por chave compartilhada; republicar sobrescreve o resultado
// anterior e derruba as visões em cache.
func (a *API) publishResult(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("X-API-Key")
	if a.APIKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(a.APIKey)) != 1 {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}

	var req dto.PublishResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Date == "" || req.WinningNumbers == "" {
		writeError(w, http.StatusBadRequest, "date and winning numbers are required")
		return
	}
	if _, err := time.Parse(lottery.DateLayout, req.Date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	numbers, err := lottery.ParseNumbers(req.WinningNumbers)
	if err == nil {
		err = lottery.ValidateWinningNumbers(numbers)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "winning numbers must be 5 comma-separated two-digit values")
		return
	}

	res := lottery.Result{LotteryDate: req.Date, WinningNumbers: numbers}
	if err := a.Results.UpsertResult(r.Context(), res); err != nil {
		a.Log.Error("result upsert failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}

	// derruba visões derivadas da data; o settlement-worker vai reaquecer
	if err := a.Cache.Del(r.Context(), cache.KeyWinners(req.Date), cache.KeyStats(req.Date), cache.KeyRecentWinners); err != nil {
		a.Log.Warn("cache invalidation failed", zap.Error(err))
	}

	if err := a.Publ.PublishResultPublished(r.Context(), events.ResultPublished{
		LotteryDate:    req.Date,
		WinningNumbers: numbers,
	}); err != nil {
		a.Log.Warn("result_published emit failed", zap.Error(err))
	}

	a.Log.Info("result published",
		zap.String("date", req.Date),
		zap.String("winning_numbers", numbers.String()),
	)
	writeJSON(w, http.StatusCreated, map[string]string{"message": "results updated"})
}

// getWinners retorna os ganhadores de uma data, preferencialmente do cache.
// 404 quando a data não tem resultado publicado; lista vazia quando tem
// resultado e nenhuma aposta premiada.
func (a *API) getWinners(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	var fromCache []lottery.WinnerEntry
	if ok, _ := a.Cache.GetJSON(r.Context(), cache.KeyWinners(date), &fromCache); ok {
		writeJSON(w, http.StatusOK, fromCache)
		return
	}

	winners, err := a.Agg.Winners(r.Context(), date)
	if err != nil {
		if errors.Is(err, lottery.ErrResultNotFound) {
			writeError(w, http.StatusNotFound, "results not found")
			return
		}
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}

	_ = a.Cache.SetJSON(r.Context(), cache.KeyWinners(date), winners, viewTTL)
	writeJSON(w, http.StatusOK, winners)
}

// getStats retorna volume total e tickets vendidos de uma data
// Datas sem apostas respondem zeros, não erro
func (a *API) getStats(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	var fromCache dto.StatsResponse
	if ok, _ := a.Cache.GetJSON(r.Context(), cache.KeyStats(date), &fromCache); ok {
		writeJSON(w, http.StatusOK, fromCache)
		return
	}

	stats, err := a.Agg.DailyStats(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}

	resp := dto.StatsResponse{TotalBets: stats.TotalBets, TicketsSold: stats.TicketsSold}
	_ = a.Cache.SetJSON(r.Context(), cache.KeyStats(date), resp, viewTTL)
	writeJSON(w, http.StatusOK, resp)
}

// getRecentWinners retorna o ranking das datas recentes com resultado
func (a *API) getRecentWinners(w http.ResponseWriter, r *http.Request) {
	var fromCache []lottery.WinnerEntry
	if ok, _ := a.Cache.GetJSON(r.Context(), cache.KeyRecentWinners, &fromCache); ok {
		writeJSON(w, http.StatusOK, fromCache)
		return
	}

	winners, err := a.Agg.RecentWinners(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}

	_ = a.Cache.SetJSON(r.Context(), cache.KeyRecentWinners, winners, viewTTL)
	writeJSON(w, http.StatusOK, winners)
}
