package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openlotto/lottery-platform-poc/internal/lottery"
)

// Postgres implementa a persistência de apostas (append-only por data).
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de apostas
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Create insere uma nova aposta aceita. Cada aposta é uma linha
// independente; não há read-modify-write sobre agregados compartilhados.
func (p *Postgres) Create(ctx context.Context, b *lottery.Bet) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO bets (id, wallet_address, numbers, amount_per_position, tx_hash, lottery_date)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		id, b.WalletAddress, b.Numbers.String(), b.AmountPerPosition.String(), b.TxHash, b.LotteryDate,
	)
	if err != nil {
		return "", fmt.Errorf("insert bet: %w", err)
	}
	return id, nil
}

// Get retorna uma aposta pelo id. sql.ErrNoRows quando não existe.
func (p *Postgres) Get(ctx context.Context, betID string) (lottery.Bet, error) {
	var (
		b         lottery.Bet
		rawNums   string
		rawAmount string
		placedAt  time.Time
	)
	err := p.db.QueryRowContext(ctx, `
		SELECT id, wallet_address, numbers, amount_per_position::text,
		       tx_hash, to_char(lottery_date, 'YYYY-MM-DD'), placed_at
		FROM bets WHERE id=$1`, betID).
		Scan(&b.ID, &b.WalletAddress, &rawNums, &rawAmount, &b.TxHash, &b.LotteryDate, &placedAt)
	if err != nil {
		return lottery.Bet{}, err
	}

	nums, err := lottery.ParseNumbers(rawNums)
	if err != nil {
		return lottery.Bet{}, fmt.Errorf("stored numbers: %w", err)
	}
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return lottery.Bet{}, fmt.Errorf("stored amount: %w", err)
	}

	b.Numbers = nums
	b.AmountPerPosition = amount
	b.PlacedAt = placedAt
	return b, nil
}
