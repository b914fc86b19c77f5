package dto

import "github.com/shopspring/decimal"

type PlaceBetResponse struct {
	BetID       string          `json:"betId"`
	LotteryDate string          `json:"lotteryDate"`
	Positions   int             `json:"positions"`
	TotalCost   decimal.Decimal `json:"totalCost"` // valor × posições + taxa fixa (informativo)
	Status      string          `json:"status"`    // ACCEPTED
}

type BetResponse struct {
	BetID             string          `json:"betId"`
	WalletAddress     string          `json:"walletAddress"`
	Numbers           string          `json:"numbers"`
	AmountPerPosition decimal.Decimal `json:"amountPerPosition"`
	LotteryDate       string          `json:"lotteryDate"`
	PlacedAt          string          `json:"placedAt"`
}

type LotteryDateResponse struct {
	Open        bool   `json:"open"`
	LotteryDate string `json:"lotteryDate,omitempty"` // vazio quando fechado
}
