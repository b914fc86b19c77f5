package main

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/openlotto/lottery-platform-poc/internal/shared/config"
	"github.com/openlotto/lottery-platform-poc/internal/shared/logger"
)

func rp(to string) *httputil.ReverseProxy {
	u, _ := url.Parse(to)
	return httputil.NewSingleHostReverseProxy(u)
}

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	// targets
	lotteryURL := os.Getenv("LOTTERY_URL")
	if lotteryURL == "" {
		lotteryURL = "http://localhost:8080"
	}
	betURL := os.Getenv("BET_URL")
	if betURL == "" {
		betURL = "http://localhost:8083"
	}
	lottery := rp(lotteryURL)
	bet := rp(betURL)

	mux := http.NewServeMux()

	// bets (ex.: /api/bets/* -> bet-service)
	mux.Handle("/api/bets/", http.StripPrefix("/api/bets", bet))

	// consultas e publicação de resultados (ex.: /api/lottery/* -> lottery-service)
	mux.Handle("/api/lottery/", http.StripPrefix("/api/lottery", lottery))

	// WebSocket de resultados ao vivo passa direto pro lottery-service
	mux.Handle("/ws", lottery)

	// frontend estático (página de apostas do PoC)
	webDir := os.Getenv("WEB_DIR")
	if webDir == "" {
		webDir = "./web/public"
	}
	mux.Handle("/", http.FileServer(http.Dir(webDir)))

	addr := ":" + cfg.HTTPPort
	log.Info("api-gateway listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}
