package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

func ConnectPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// EnsureSchema cria as tabelas da loteria caso ainda não existam.
// Bootstrap simples no startup, sem ferramenta de migração.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS results (
			lottery_date    DATE PRIMARY KEY,
			winning_numbers TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS bets (
			id                  UUID PRIMARY KEY,
			wallet_address      VARCHAR(42) NOT NULL,
			numbers             TEXT NOT NULL,
			amount_per_position DECIMAL(10,2) NOT NULL,
			tx_hash             VARCHAR(66) NOT NULL,
			lottery_date        DATE NOT NULL,
			placed_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bets_lottery_date ON bets (lottery_date)`,
	}

	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
