package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightreserve/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, origin, destination string, date *time.Time) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	MarkDeparted(ctx context.Context, now time.Time) (int64, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, flight_number, origin, destination, departure_time, capacity, price_cents, status, created_at, updated_at`

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.FlightNumber, &f.Origin, &f.Destination, &f.DepartureTime,
		&f.Capacity, &f.PriceCents, &f.Status, &f.CreatedAt, &f.UpdatedAt)
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFlights(rows)
}

func (r *PGFlightRepository) Search(ctx context.Context, origin, destination string, date *time.Time) ([]domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE status = $1`
	args := []interface{}{domain.FlightStatusScheduled}
	if origin != "" {
		args = append(args, origin)
		query += fmt.Sprintf(" AND origin = $%d", len(args))
	}
	if destination != "" {
		args = append(args, destination)
		query += fmt.Sprintf(" AND destination = $%d", len(args))
	}
	if date != nil {
		args = append(args, *date)
		query += fmt.Sprintf(" AND departure_time::date = $%d::date", len(args))
	}
	query += " ORDER BY departure_time"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectFlights(rows)
}

func collectFlights(rows pgx.Rows) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	var f domain.Flight
	err := scanFlight(r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id), &f)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("flight %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// MarkDeparted flips past SCHEDULED flights to DEPARTED and returns how
// many were updated. Used by the worker's catalog sweep.
func (r *PGFlightRepository) MarkDeparted(ctx context.Context, now time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx,
		`UPDATE flights SET status=$1, updated_at=now() WHERE status=$2 AND departure_time <= $3`,
		domain.FlightStatusDeparted, domain.FlightStatusScheduled, now)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
