package ws

// ClientMsg representa uma mensagem recebida do cliente WebSocket
// Type: subscribe | unsubscribe | ping
// Date: obrigatório para subscribe/unsubscribe (data de sorteio)
type ClientMsg struct {
	Type string `json:"type"` // subscribe | unsubscribe | ping
	Date string `json:"date"` // requerido em subscribe/unsubscribe
}

// ResultUpdate representa uma publicação de resultado enviada aos clientes
// WebSocket inscritos na data correspondente
type ResultUpdate struct {
	Date    string      `json:"date"`
	Payload interface{} `json:"payload"`
}
