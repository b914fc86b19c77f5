package events

import "time"

// Evento emitido pelo lottery-service quando o operador publica (ou
// republica) os números sorteados de uma data.
type ResultPublished struct {
	LotteryDate    string    `json:"lottery_date"` // "YYYY-MM-DD"
	WinningNumbers []string  `json:"winning_numbers"`
	Ts             time.Time `json:"ts"`
}
