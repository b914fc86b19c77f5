package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	pdto "github.com/openlotto/lottery-platform-poc/internal/bet-service/payment/dto"
	"github.com/openlotto/lottery-platform-poc/internal/shared/config"
	"github.com/openlotto/lottery-platform-poc/internal/shared/logger"
	"github.com/openlotto/lottery-platform-poc/internal/shared/metrics"
	"github.com/shopspring/decimal"
)

// Métricas Prometheus para monitoramento das verificações simuladas
var verifications = prometheus.NewCounterVec(prometheus.CounterOpts{
	Name: "payment_verifications_total",
	Help: "Verificações de pagamento por resultado",
}, []string{"outcome"})

// Simula o verificador on-chain de transferências USDC.
// Regras determinísticas pra facilitar testes de integração:
// - txHash com sufixo "bad" é recusado
// - amount precisa ser decimal positivo
// - wallet e txHash precisam vir com prefixo 0x
func verify(req pdto.VerifyRequest) (bool, string) {
	if !strings.HasPrefix(req.WalletAddress, "0x") || !strings.HasPrefix(req.TxHash, "0x") {
		return false, "malformed wallet or tx hash"
	}
	if strings.HasSuffix(req.TxHash, "bad") {
		return false, "transaction not found on chain"
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return false, "invalid amount"
	}
	return true, ""
}

func main() {
	cfg := config.Load()
	log, _ := logger.New("payment-verifier-simulator", cfg.Env)
	defer log.Sync()

	prometheus.MustRegister(verifications)

	mux := http.NewServeMux()
	mux.HandleFunc("/payment/verify", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req pdto.VerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		verified, reason := verify(req)
		if verified {
			verifications.WithLabelValues("verified").Inc()
		} else {
			verifications.WithLabelValues("rejected").Inc()
			log.Info("payment rejected",
				zap.String("tx_hash", req.TxHash),
				zap.String("reason", reason),
			)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pdto.VerifyResponse{Verified: verified, Reason: reason})
	})

	metrics.StartMetricsServer(cfg.MetricsPort, func(context.Context) error { return nil })

	addr := ":" + cfg.HTTPPort
	log.Info("payment-verifier-simulator listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		log.Fatal("simulator failed", zap.Error(err))
	}
}
