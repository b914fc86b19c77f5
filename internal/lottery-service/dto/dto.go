package dto

import "github.com/shopspring/decimal"

type ResultResponse struct {
	WinningNumbers string `json:"winningNumbers"` // "12,34,56,78,90"
}

type PublishResultRequest struct {
	Date           string `json:"date"`           // "YYYY-MM-DD"
	WinningNumbers string `json:"winningNumbers"` // exatamente 5 números de 2 dígitos
}

type StatsResponse struct {
	TotalBets   decimal.Decimal `json:"totalBets"`
	TicketsSold int64           `json:"ticketsSold"`
}
