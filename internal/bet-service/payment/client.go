package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	paymentdto "github.com/openlotto/lottery-platform-poc/internal/bet-service/payment/dto"
)

// Client consulta o verificador de pagamento antes de aceitar uma aposta.
// O tx_hash é opaco para o core; quem entende a semântica on-chain é o
// colaborador externo.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: base,
		HTTP:    &http.Client{Timeout: 2 * time.Second},
	}
}

// Verify confirma que txHash corresponde a um pagamento do valor esperado
// feito pela carteira informada.
func (c *Client) Verify(ctx context.Context, txHash, walletAddress string, amount decimal.Decimal) (bool, error) {
	body, _ := json.Marshal(paymentdto.VerifyRequest{
		TxHash:        txHash,
		WalletAddress: walletAddress,
		Amount:        amount.String(),
	})
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/payment/verify", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res, err := c.HTTP.Do(req)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return false, fmt.Errorf("payment verify http %d", res.StatusCode)
	}
	var out paymentdto.VerifyResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return false, err
	}
	return out.Verified, nil
}
