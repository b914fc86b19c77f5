package http

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openlotto/lottery-platform-poc/internal/bet-service/dto"
	"github.com/openlotto/lottery-platform-poc/internal/lottery"
	"github.com/openlotto/lottery-platform-poc/pkg/contracts/events"
)

// Repo define as operações de persistência usadas pelo handler HTTP
type Repo interface {
	Create(ctx context.Context, b *lottery.Bet) (string, error)
	Get(ctx context.Context, betID string) (lottery.Bet, error)
}

// PaymentVerifier confirma que o pagamento da aposta foi efetuado antes do aceite
type PaymentVerifier interface {
	Verify(ctx context.Context, txHash, walletAddress string, amount decimal.Decimal) (bool, error)
}

// Publisher emite o evento bet_placed após o aceite
type Publisher interface {
	PublishBetPlaced(ctx context.Context, e events.BetPlaced) error
}

// Server expõe a API pública de apostas
type Server struct {
	log      *zap.Logger
	repo     Repo
	payments PaymentVerifier
	publ     Publisher
	loc      *time.Location
	now      func() time.Time
}

// NewServer instancia o servidor HTTP do bet-service.
// loc é a timezone da janela de apostas (explícita, nunca default do host).
func NewServer(log *zap.Logger, r Repo, p PaymentVerifier, publ Publisher, loc *time.Location) *Server {
	return &Server{log: log, repo: r, payments: p, publ: publ, loc: loc, now: time.Now}
}

// Router retorna o mux HTTP com as rotas da API de apostas
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/bets", s.placeBet)            // POST
	mux.HandleFunc("/bets/", s.getBet)             // GET /bets/{id}
	mux.HandleFunc("/lottery-date", s.lotteryDate) // GET
	return mux
}

// placeBet aceita uma aposta na janela aberta:
// 1. valida payload e números escolhidos
// 2. resolve a data de sorteio pela janela de apostas
// 3. confirma o pagamento junto ao verificador externo
// 4. persiste a aposta e publica bet_placed
func (s *Server) placeBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.PlaceBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.WalletAddress == "" || req.Numbers == "" || req.TxHash == "" || req.AmountPerPosition.IsZero() {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	if req.AmountPerPosition.IsNegative() {
		writeError(w, http.StatusBadRequest, "amountPerPosition must be positive")
		return
	}

	// 1) Janela de apostas: define a data de sorteio ou rejeita
	lotteryDate, err := lottery.ResolveDate(s.now(), s.loc)
	if err != nil {
		writeError(w, http.StatusForbidden, "betting is closed")
		return
	}

	// 2) Números escolhidos: validação única no intake
	numbers, err := lottery.ParseNumbers(req.Numbers)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid numbers: must be comma-separated two-digit values")
		return
	}

	// 3) Pagamento: custo total = valor × posições + taxa fixa
	totalCost := lottery.TotalCost(req.AmountPerPosition, len(numbers))
	verified, err := s.payments.Verify(r.Context(), req.TxHash, req.WalletAddress, totalCost)
	if err != nil {
		s.log.Warn("payment verify failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "payment verifier unavailable")
		return
	}
	if !verified {
		writeError(w, http.StatusPaymentRequired, "payment not verified")
		return
	}

	// 4) Persiste a aposta aceita (imutável daqui em diante)
	betID, err := s.repo.Create(r.Context(), &lottery.Bet{
		WalletAddress:     req.WalletAddress,
		Numbers:           numbers,
		AmountPerPosition: req.AmountPerPosition,
		TxHash:            req.TxHash,
		LotteryDate:       lotteryDate,
	})
	if err != nil {
		s.log.Error("bet insert failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}

	// 5) Publica evento bet_placed (best effort)
	_ = s.publ.PublishBetPlaced(r.Context(), events.BetPlaced{
		BetID:             betID,
		WalletAddress:     req.WalletAddress,
		LotteryDate:       lotteryDate,
		Numbers:           numbers,
		AmountPerPosition: req.AmountPerPosition.String(),
		TxHash:            req.TxHash,
	})

	writeJSON(w, http.StatusCreated, dto.PlaceBetResponse{
		BetID:       betID,
		LotteryDate: lotteryDate,
		Positions:   len(numbers),
		TotalCost:   totalCost,
		Status:      "ACCEPTED",
	})
}

// getBet retorna uma aposta aceita pelo id
func (s *Server) getBet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// path: /bets/{id}
	id := r.URL.Path[len("/bets/"):]
	if id == "" {
		writeError(w, http.StatusBadRequest, "betId required")
		return
	}

	bet, err := s.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}

	writeJSON(w, http.StatusOK, dto.BetResponse{
		BetID:             bet.ID,
		WalletAddress:     bet.WalletAddress,
		Numbers:           bet.Numbers.String(),
		AmountPerPosition: bet.AmountPerPosition,
		LotteryDate:       bet.LotteryDate,
		PlacedAt:          bet.PlacedAt.UTC().Format(time.RFC3339),
	})
}

// lotteryDate informa se a janela está aberta e para qual data
func (s *Server) lotteryDate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	date, err := lottery.ResolveDate(s.now(), s.loc)
	if err != nil {
		writeJSON(w, http.StatusOK, dto.LotteryDateResponse{Open: false})
		return
	}
	writeJSON(w, http.StatusOK, dto.LotteryDateResponse{Open: true, LotteryDate: date})
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
