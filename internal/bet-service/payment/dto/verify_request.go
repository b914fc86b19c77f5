package dto

type VerifyRequest struct {
	TxHash        string `json:"txHash"`
	WalletAddress string `json:"walletAddress"`
	Amount        string `json:"amount"` // total esperado em USDC, decimal serializado
}
