package events

// Evento emitido pelo bet-service após aceitar uma aposta na janela aberta.
type BetPlaced struct {
	BetID             string   `json:"bet_id"`
	WalletAddress     string   `json:"wallet_address"`
	LotteryDate       string   `json:"lottery_date"` // "YYYY-MM-DD"
	Numbers           []string `json:"numbers"`      // posições de 2 dígitos
	AmountPerPosition string   `json:"amount_per_position"` // decimal serializado
	TxHash            string   `json:"tx_hash"` // referência de pagamento (auditoria)
	TsUnixMs          int64    `json:"ts_unix_ms"`
}
