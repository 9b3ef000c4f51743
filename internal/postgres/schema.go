package postgres

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		roles JSONB NOT NULL,
		balance_available DOUBLE PRECISION NOT NULL DEFAULT 0,
		balance_escrow DOUBLE PRECISION NOT NULL DEFAULT 0,
		balance_disputed DOUBLE PRECISION NOT NULL DEFAULT 0,
		wallet_status TEXT NOT NULL DEFAULT 'active',
		registered_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS deliveries (
		id BIGSERIAL PRIMARY KEY,
		requester_id BIGINT NOT NULL REFERENCES users (id),
		courier_id BIGINT REFERENCES users (id),
		status TEXT NOT NULL DEFAULT 'created',
		amount DOUBLE PRECISION NOT NULL,
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS deliveries_requester_idx ON deliveries (requester_id)`,
	`CREATE INDEX IF NOT EXISTS deliveries_courier_idx ON deliveries (courier_id)`,
	`CREATE TABLE IF NOT EXISTS password_resets (
		token UUID PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users (id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Bootstrap creates the schema if it does not exist yet. Statements are
// idempotent, so running it on every startup is safe.
func (p *Postgres) Bootstrap(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error bootstrapping schema: %w", err)
		}
	}

	return nil
}
