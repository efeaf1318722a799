package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joy095/gowafly/logger"
)

// schema is applied statement by statement; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		phone_number TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
		token_version INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS flights (
		id UUID PRIMARY KEY,
		flight_number TEXT NOT NULL,
		airline JSONB NOT NULL,
		departure JSONB NOT NULL,
		arrival JSONB NOT NULL,
		status TEXT NOT NULL,
		aircraft JSONB NOT NULL DEFAULT '{}'::jsonb,
		duration INT NOT NULL CHECK (duration >= 0),
		price_economy NUMERIC(12, 2) NOT NULL CHECK (price_economy >= 0),
		price_business NUMERIC(12, 2) NOT NULL CHECK (price_business >= 0),
		price_first NUMERIC(12, 2) NOT NULL CHECK (price_first >= 0),
		seats_economy INT NOT NULL CHECK (seats_economy >= 0),
		seats_business INT NOT NULL CHECK (seats_business >= 0),
		seats_first INT NOT NULL CHECK (seats_first >= 0),
		provider_flight_id TEXT UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_flights_flight_number ON flights (flight_number)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		flight_details JSONB NOT NULL,
		return_flight_details JSONB,
		passengers JSONB NOT NULL,
		contact_email TEXT NOT NULL,
		contact_phone TEXT NOT NULL,
		trip_type TEXT NOT NULL CHECK (trip_type IN ('OneWay', 'RoundTrip')),
		status TEXT NOT NULL CHECK (status IN ('PendingPayment', 'Paid', 'Cancelled', 'Completed')),
		total_price NUMERIC(12, 2) NOT NULL CHECK (total_price >= 0),
		payment_method TEXT NOT NULL CHECK (payment_method IN ('CreditCard', 'BankTransfer', 'PromptPay')),
		booking_reference TEXT NOT NULL,
		version INT NOT NULL DEFAULT 1,
		last_override JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT bookings_booking_reference_key UNIQUE (booking_reference)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_user_created ON bookings (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings (status)`,
}

// Migrate creates the tables the service needs if they are absent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}
	logger.InfoLogger.Infof("Database schema up to date (%d statements)", len(schema))
	return nil
}
