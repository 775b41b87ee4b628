package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate applies the schema on startup. Statements are idempotent so a
// restart against an existing database is a no-op.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	migrations := []string{
		createPassengersTable,
		createFlightsTable,
		createReservationsTable,
		createTicketsTable,
		createPaymentsTable,
		createFlightsSearchIndex,
		createReservationsPassengerIndex,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("database migrations applied", "count", len(migrations))
	return nil
}

const createPassengersTable = `
CREATE TABLE IF NOT EXISTS passengers (
    id BIGSERIAL PRIMARY KEY,
    full_name VARCHAR(200) NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const createFlightsTable = `
CREATE TABLE IF NOT EXISTS flights (
    id BIGSERIAL PRIMARY KEY,
    flight_number VARCHAR(20) NOT NULL,
    origin VARCHAR(100) NOT NULL,
    destination VARCHAR(100) NOT NULL,
    departure_time TIMESTAMPTZ NOT NULL,
    capacity INTEGER NOT NULL CHECK (capacity > 0),
    price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
    status VARCHAR(20) NOT NULL DEFAULT 'SCHEDULED',
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),

    CHECK (status IN ('SCHEDULED', 'DEPARTED', 'CANCELLED'))
);`

const createReservationsTable = `
CREATE TABLE IF NOT EXISTS reservations (
    id BIGSERIAL PRIMARY KEY,
    passenger_id BIGINT NOT NULL REFERENCES passengers(id),
    flight_id BIGINT NOT NULL REFERENCES flights(id),
    status VARCHAR(20) NOT NULL DEFAULT 'CONFIRMED',
    booked_at TIMESTAMPTZ NOT NULL DEFAULT now(),

    CHECK (status IN ('CONFIRMED', 'CANCELLED'))
);`

const createTicketsTable = `
CREATE TABLE IF NOT EXISTS tickets (
    id BIGSERIAL PRIMARY KEY,
    reservation_id BIGINT NOT NULL UNIQUE REFERENCES reservations(id),
    seat_code VARCHAR(5) NOT NULL,
    class VARCHAR(20) NOT NULL,
    ticket_code UUID NOT NULL UNIQUE,
    issued_at TIMESTAMPTZ NOT NULL DEFAULT now(),

    CHECK (class IN ('ECONOMY', 'BUSINESS', 'FIRST'))
);`

const createPaymentsTable = `
CREATE TABLE IF NOT EXISTS payments (
    id BIGSERIAL PRIMARY KEY,
    reservation_id BIGINT NOT NULL UNIQUE REFERENCES reservations(id),
    amount_cents BIGINT NOT NULL CHECK (amount_cents > 0),
    mode VARCHAR(20) NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'SUCCESS',
    paid_at TIMESTAMPTZ NOT NULL DEFAULT now(),

    CHECK (mode IN ('CARD', 'UPI', 'CASH', 'WALLET', 'NET_BANKING')),
    CHECK (status IN ('SUCCESS', 'VOID'))
);`

const createFlightsSearchIndex = `
CREATE INDEX IF NOT EXISTS flights_route_idx
ON flights (origin, destination, departure_time);`

const createReservationsPassengerIndex = `
CREATE INDEX IF NOT EXISTS reservations_passenger_idx
ON reservations (passenger_id, booked_at DESC);`
