package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openlotto/lottery-platform-poc/internal/lottery"
)

// ReadRepo concentra as consultas do lottery-service sobre resultados e
// apostas, além do upsert de resultado feito pelo operador.
type ReadRepo struct {
	DB *sql.DB
}

// GetResult retorna o resultado publicado de uma data.
// lottery.ErrResultNotFound quando a data ainda não tem publicação,
// estado distinto de "resultado sem ganhadores".
func (r *ReadRepo) GetResult(ctx context.Context, date string) (lottery.Result, error) {
	const q = `SELECT winning_numbers FROM results WHERE lottery_date = $1`

	var raw string
	if err := r.DB.QueryRowContext(ctx, q, date).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return lottery.Result{}, lottery.ErrResultNotFound
		}
		return lottery.Result{}, fmt.Errorf("get result: %w", err)
	}

	nums, err := lottery.ParseNumbers(raw)
	if err != nil {
		return lottery.Result{}, fmt.Errorf("stored winning numbers: %w", err)
	}
	return lottery.Result{LotteryDate: date, WinningNumbers: nums}, nil
}

// UpsertResult publica (ou republica) os números sorteados de uma data.
// Upsert atômico via ON CONFLICT: leitores nunca observam escrita parcial.
func (r *ReadRepo) UpsertResult(ctx context.Context, res lottery.Result) error {
	const q = `
		INSERT INTO results (lottery_date, winning_numbers)
		VALUES ($1, $2)
		ON CONFLICT (lottery_date) DO UPDATE SET
		  winning_numbers = EXCLUDED.winning_numbers
	`
	if _, err := r.DB.ExecContext(ctx, q, res.LotteryDate, res.WinningNumbers.String()); err != nil {
		return fmt.Errorf("upsert result: %w", err)
	}
	return nil
}

// ListBets retorna todas as apostas de uma data, na ordem de inserção.
func (r *ReadRepo) ListBets(ctx context.Context, date string) ([]lottery.Bet, error) {
	const q = `
		SELECT id, wallet_address, numbers, amount_per_position::text,
		       tx_hash, to_char(lottery_date, 'YYYY-MM-DD'), placed_at
		FROM bets
		WHERE lottery_date = $1
		ORDER BY placed_at, id;
	`
	rows, err := r.DB.QueryContext(ctx, q, date)
	if err != nil {
		return nil, fmt.Errorf("list bets: %w", err)
	}
	defer rows.Close()

	var out []lottery.Bet
	for rows.Next() {
		var (
			b         lottery.Bet
			rawNums   string
			rawAmount string
			placedAt  time.Time
		)
		if err := rows.Scan(&b.ID, &b.WalletAddress, &rawNums, &rawAmount, &b.TxHash, &b.LotteryDate, &placedAt); err != nil {
			return nil, err
		}
		nums, err := lottery.ParseNumbers(rawNums)
		if err != nil {
			return nil, fmt.Errorf("stored numbers: %w", err)
		}
		amount, err := decimal.NewFromString(rawAmount)
		if err != nil {
			return nil, fmt.Errorf("stored amount: %w", err)
		}
		b.Numbers = nums
		b.AmountPerPosition = amount
		b.PlacedAt = placedAt
		out = append(out, b)
	}
	return out, rows.Err()
}

// DailyStats agrega volume e quantidade de apostas de uma data via SQL.
// Datas sem apostas retornam zeros, não erro.
func (r *ReadRepo) DailyStats(ctx context.Context, date string) (lottery.DailyStats, error) {
	const q = `
		SELECT
		  COALESCE(SUM(ARRAY_LENGTH(string_to_array(numbers, ','), 1) * amount_per_position), 0)::text,
		  COUNT(*)
		FROM bets
		WHERE lottery_date = $1;
	`
	var (
		rawTotal string
		tickets  int64
	)
	if err := r.DB.QueryRowContext(ctx, q, date).Scan(&rawTotal, &tickets); err != nil {
		return lottery.DailyStats{}, fmt.Errorf("daily stats: %w", err)
	}

	total, err := decimal.NewFromString(rawTotal)
	if err != nil {
		return lottery.DailyStats{}, fmt.Errorf("stats total: %w", err)
	}
	return lottery.DailyStats{LotteryDate: date, TotalBets: total, TicketsSold: tickets}, nil
}

// RecentResultDates retorna as datas mais recentes com resultado publicado,
// em ordem decrescente.
func (r *ReadRepo) RecentResultDates(ctx context.Context, limit int) ([]string, error) {
	const q = `
		SELECT to_char(lottery_date, 'YYYY-MM-DD')
		FROM results
		ORDER BY lottery_date DESC
		LIMIT $1;
	`
	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("recent result dates: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
