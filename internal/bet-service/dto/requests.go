package dto

import "github.com/shopspring/decimal"

type PlaceBetRequest struct {
	WalletAddress     string          `json:"walletAddress"`
	Numbers           string          `json:"numbers"` // "12,34,56"
	AmountPerPosition decimal.Decimal `json:"amountPerPosition"`
	TxHash            string          `json:"txHash"` // pagamento já efetuado (USDC)
}
