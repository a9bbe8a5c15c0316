package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS payments (
		id BIGSERIAL PRIMARY KEY,
		order_no VARCHAR(255) NOT NULL UNIQUE,
		shop_transaction_id VARCHAR(64) NOT NULL,
		pg_cno VARCHAR(255),
		goods_name VARCHAR(255) NOT NULL DEFAULT '',
		goods_detail TEXT NOT NULL DEFAULT '',
		currency VARCHAR(16) NOT NULL DEFAULT '',
		total_amount BIGINT NOT NULL DEFAULT 0,
		payment_url TEXT,
		wallet_brand_name VARCHAR(50) NOT NULL DEFAULT '',
		status VARCHAR(16) NOT NULL,
		status_code VARCHAR(32),
		result_code VARCHAR(32),
		result_message TEXT,
		approval_date VARCHAR(64),
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_shop_transaction_id ON payments (shop_transaction_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_pg_cno ON payments (pg_cno)`,
}

// Migrate creates the payments table and its lookup indexes when missing.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Error().Err(err).Str("component", "Migrate").Msg("")
			return fmt.Errorf("migrate payments schema: %w", err)
		}
	}

	return nil
}
