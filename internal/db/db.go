package db

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexify-app/lexify/internal/config"
)

var Conn *pgxpool.Pool

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so store
// helpers work both inside and outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Init connects to Postgres and ensures the schema
func Init(cfg config.Config) {
	var err error
	Conn, err = pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}

	if err = Conn.Ping(context.Background()); err != nil {
		log.Fatalf("Unable to ping database: %v\n", err)
	}

	log.Println("Connected to Postgres successfully")

	ensureUsersTable()
	ensureRequestsTable()
	ensureOffersTable()
	ensureContractsTable()
}

// ensureUsersTable creates the users table if missing
func ensureUsersTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            role TEXT NOT NULL CHECK (role IN ('purchaser', 'provider', 'admin')),
            company_id UUID NOT NULL,
            company_name TEXT NOT NULL DEFAULT '',
            selection_mode TEXT NOT NULL DEFAULT 'manual',
            notify_no_offers BOOLEAN NOT NULL DEFAULT TRUE,
            notify_not_selected BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE INDEX IF NOT EXISTS idx_users_company ON users(company_id);
    `)
	if err != nil {
		log.Printf("failed to ensure users table: %v", err)
	}
}

// ensureRequestsTable creates the requests table if missing
func ensureRequestsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS requests (
            id UUID PRIMARY KEY,
            company_id UUID NOT NULL,
            user_id UUID NOT NULL REFERENCES users(id),
            title TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            currency TEXT NOT NULL DEFAULT 'EUR',
            pricing TEXT NOT NULL DEFAULT 'fixed' CHECK (pricing IN ('fixed', 'hourly')),
            maximum_price NUMERIC NULL,
            selection_mode TEXT NOT NULL DEFAULT 'manual',
            status TEXT NOT NULL DEFAULT 'pending'
                CHECK (status IN ('pending', 'on_hold', 'conflict_check', 'expired')),
            date_expired TIMESTAMPTZ NOT NULL,
            accept_deadline TIMESTAMPTZ NULL,
            paused_remaining_ms BIGINT NULL,
            selected_offer_id UUID NULL,
            selection_reason TEXT NULL,
            disqualified_offer_ids TEXT[] NOT NULL DEFAULT '{}',
            contract_result TEXT NULL CHECK (contract_result IN ('Yes', 'No')),
            extended_once BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE INDEX IF NOT EXISTS idx_requests_status_expired ON requests(status, date_expired);
        CREATE INDEX IF NOT EXISTS idx_requests_status_deadline ON requests(status, accept_deadline);
        CREATE INDEX IF NOT EXISTS idx_requests_company ON requests(company_id);
    `)
	if err != nil {
		log.Printf("failed to ensure requests table: %v", err)
	}
}

// ensureOffersTable creates the offers table if missing
func ensureOffersTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS offers (
            id UUID PRIMARY KEY,
            request_id UUID NOT NULL REFERENCES requests(id) ON DELETE CASCADE,
            company_id UUID NOT NULL,
            user_id UUID NOT NULL REFERENCES users(id),
            price TEXT NOT NULL,
            comment TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL DEFAULT 'pending'
                CHECK (status IN ('pending', 'won', 'lost', 'disqualified')),
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (request_id, company_id)
        );
        CREATE INDEX IF NOT EXISTS idx_offers_request ON offers(request_id);
        CREATE INDEX IF NOT EXISTS idx_offers_company ON offers(company_id);
    `)
	if err != nil {
		log.Printf("failed to ensure offers table: %v", err)
	}
}

// ensureContractsTable creates the contracts table if missing. The unique
// constraint on request_id is the final arbiter against double awards.
func ensureContractsTable() {
	ctx := context.Background()
	_, err := Conn.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS contracts (
            id UUID PRIMARY KEY,
            request_id UUID NOT NULL UNIQUE REFERENCES requests(id),
            client_id UUID NOT NULL,
            provider_id UUID NOT NULL,
            contract_price TEXT NOT NULL,
            contract_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE INDEX IF NOT EXISTS idx_contracts_client ON contracts(client_id);
        CREATE INDEX IF NOT EXISTS idx_contracts_provider ON contracts(provider_id);
    `)
	if err != nil {
		log.Printf("failed to ensure contracts table: %v", err)
	}
}
