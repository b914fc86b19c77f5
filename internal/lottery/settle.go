// Package lottery contém as regras puras da loteria diária: janela de
// apostas, validação de números e liquidação de prêmios.
package lottery

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// PayoutMultiplier é o multiplicador fixo aplicado por posição premiada.
	PayoutMultiplier = 60

	// WinningNumbersCount é a quantidade de números de um resultado publicado.
	WinningNumbersCount = 5

	// RecentWinnersLimit limita o ranking de ganhadores recentes.
	RecentWinnersLimit = 10

	// RecentLookbackDates é a quantidade de datas recentes (com resultado
	// publicado) consideradas no ranking.
	RecentLookbackDates = 3
)

// TicketFee é a taxa fixa por aposta, em USDC. Informativa para o cliente;
// não é persistida no servidor.
var TicketFee = decimal.RequireFromString("0.10")

// Bet é uma aposta aceita. Imutável após a criação; nunca removida.
type Bet struct {
	ID                string
	WalletAddress     string
	Numbers           Numbers
	AmountPerPosition decimal.Decimal
	TxHash            string // referência de pagamento, opaca (auditoria)
	LotteryDate       string
	PlacedAt          time.Time
}

// Result são os números sorteados publicados para uma data.
// No máximo um por data; republicar sobrescreve o anterior.
type Result struct {
	LotteryDate    string
	WinningNumbers Numbers
}

// WinnerEntry é derivado de Bet × Result, nunca persistido.
type WinnerEntry struct {
	LotteryDate   string          `json:"date"`
	WalletAddress string          `json:"walletAddress"`
	Matches       int             `json:"matches"`
	Payout        decimal.Decimal `json:"payout"`
}

// DailyStats agrega as apostas de uma data.
type DailyStats struct {
	LotteryDate string          `json:"date"`
	TotalBets   decimal.Decimal `json:"totalBets"`   // volume total apostado
	TicketsSold int64           `json:"ticketsSold"` // uma aposta = um ticket
}

// CountMatches conta quantas posições da aposta aparecem entre os números
// sorteados. O resultado é tratado como conjunto: cada posição da aposta
// conta no máximo uma vez, mesmo que o número se repita no resultado.
func CountMatches(chosen, winning Numbers) int {
	winningSet := make(map[string]struct{}, len(winning))
	for _, n := range winning {
		winningSet[n] = struct{}{}
	}

	matches := 0
	for _, n := range chosen {
		if _, ok := winningSet[n]; ok {
			matches++
		}
	}
	return matches
}

// Settle aplica o resultado de uma data sobre suas apostas e retorna os
// ganhadores com os respectivos prêmios. Prêmio = acertos × 60 × valor por
// posição (linear, sem faixas). Apostas sem acerto ficam de fora.
// A ordem de saída segue a ordem das apostas de entrada; o multiset de
// ganhadores independe de permutação da entrada.
func Settle(result Result, bets []Bet) []WinnerEntry {
	if len(result.WinningNumbers) == 0 {
		return nil
	}

	multiplier := decimal.NewFromInt(PayoutMultiplier)

	winners := make([]WinnerEntry, 0)
	for _, bet := range bets {
		matches := CountMatches(bet.Numbers, result.WinningNumbers)
		if matches == 0 {
			continue
		}
		payout := decimal.NewFromInt(int64(matches)).Mul(multiplier).Mul(bet.AmountPerPosition)
		winners = append(winners, WinnerEntry{
			LotteryDate:   result.LotteryDate,
			WalletAddress: bet.WalletAddress,
			Matches:       matches,
			Payout:        payout,
		})
	}
	return winners
}

// TotalCost calcula o custo total de uma aposta: valor por posição ×
// quantidade de posições + taxa fixa.
func TotalCost(amountPerPosition decimal.Decimal, positions int) decimal.Decimal {
	return amountPerPosition.Mul(decimal.NewFromInt(int64(positions))).Add(TicketFee)
}
